package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiplierTable_Resolve(t *testing.T) {
	table := NewMultiplierTable([]*RoleMultiplier{
		{RoleID: 1, Multiplier: 12000},
		{RoleID: 2, Multiplier: 15000},
		{RoleID: 3, Multiplier: 11000},
	})

	tests := []struct {
		name  string
		roles []int64
		want  Multiplier
	}{
		{name: "maximum wins over product or sum", roles: []int64{1, 2, 3}, want: 15000},
		{name: "single role", roles: []int64{3}, want: 11000},
		{name: "unconfigured roles", roles: []int64{9, 10}, want: DefaultMultiplier},
		{name: "no roles", roles: nil, want: DefaultMultiplier},
		{name: "mixed configured and unconfigured", roles: []int64{9, 1}, want: 12000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Resolve(tt.roles))
		})
	}

	assert.Equal(t, DefaultMultiplier, MultiplierTable{}.Resolve([]int64{1}))
}
