package infrastructure

import (
	"encoding/json"
	"testing"

	"pointsbot/domain/events"
	"pointsbot/domain/testhelpers"

	"github.com/stretchr/testify/require"
)

func changeEnvelope(t *testing.T, publisher *NATSEventPublisher, event events.RoleMultipliersChangedEvent) []byte {
	t.Helper()
	envelope, err := publisher.newEnvelope(event)
	require.NoError(t, err)
	data, err := json.Marshal(envelope)
	require.NoError(t, err)
	return data
}

func TestMultiplierInvalidationListener(t *testing.T) {
	remote := NewNATSEventPublisher(nil, NewEventSubjectMapper(), nil)
	local := NewNATSEventPublisher(nil, NewEventSubjectMapper(), nil)

	t.Run("invalidates guild from another instance", func(t *testing.T) {
		cache := new(testhelpers.MockMultiplierCache)
		cache.On("Invalidate", int64(42)).Return()
		listener := NewMultiplierInvalidationListener(cache, local.InstanceID())

		listener.HandleMessage(changeEnvelope(t, remote, events.RoleMultipliersChangedEvent{GuildID: 42, RoleID: 7}))

		cache.AssertExpectations(t)
	})

	t.Run("ignores own instance", func(t *testing.T) {
		cache := new(testhelpers.MockMultiplierCache)
		listener := NewMultiplierInvalidationListener(cache, local.InstanceID())

		listener.HandleMessage(changeEnvelope(t, local, events.RoleMultipliersChangedEvent{GuildID: 42}))

		cache.AssertNotCalled(t, "Invalidate", int64(42))
	})

	t.Run("ignores malformed data", func(t *testing.T) {
		cache := new(testhelpers.MockMultiplierCache)
		listener := NewMultiplierInvalidationListener(cache, local.InstanceID())

		listener.HandleMessage([]byte("garbage"))
		listener.HandleMessage([]byte(`{"eventId":"x","payload":"not an object"}`))

		cache.AssertNotCalled(t, "Invalidate", int64(0))
	})
}
