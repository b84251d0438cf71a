package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"pointsbot/domain"
	"pointsbot/domain/entities"
	"pointsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// AwardPointsPayload is the body of a message on points.award.requests.
// Snowflake ids travel as decimal strings.
type AwardPointsPayload struct {
	GuildID     int64             `json:"guildId,string"`
	UserID      int64             `json:"userId,string"`
	ActionType  string            `json:"actionType"`
	ReferenceID string            `json:"referenceId"`
	BasePoints  *int64            `json:"basePoints,omitempty"`
	ChannelID   int64             `json:"channelId,string,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// AwardRequestHandler turns award request messages into ledger awards
type AwardRequestHandler struct {
	awarder    interfaces.Awarder
	basePoints interfaces.BasePointsResolver
}

// NewAwardRequestHandler creates a new AwardRequestHandler
func NewAwardRequestHandler(awarder interfaces.Awarder, basePoints interfaces.BasePointsResolver) *AwardRequestHandler {
	return &AwardRequestHandler{
		awarder:    awarder,
		basePoints: basePoints,
	}
}

// HandleAwardRequest processes one message. Malformed and invalid requests
// are logged and acknowledged; any other failure is returned so the
// message is redelivered, which is safe because awards are idempotent.
func (h *AwardRequestHandler) HandleAwardRequest(ctx context.Context, data []byte) error {
	var payload AwardPointsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.WithFields(log.Fields{
			"error": err,
			"size":  len(data),
		}).Warn("Dropping malformed award request")
		return nil
	}

	fields := log.Fields{
		"guildID":     payload.GuildID,
		"userID":      payload.UserID,
		"actionType":  payload.ActionType,
		"referenceID": payload.ReferenceID,
	}

	req, err := h.toAwardRequest(ctx, &payload)
	if err == nil {
		_, err = h.awarder.AwardPoints(ctx, req)
	}
	if err != nil {
		if domain.IsValidation(err) {
			log.WithFields(fields).WithError(err).Warn("Rejected award request")
			return nil
		}
		return fmt.Errorf("failed to award points: %w", err)
	}

	log.WithFields(fields).Debug("Handled award request")
	return nil
}

func (h *AwardRequestHandler) toAwardRequest(ctx context.Context, payload *AwardPointsPayload) (*entities.AwardRequest, error) {
	actionType := entities.ActionType(payload.ActionType)

	var basePoints int64
	if payload.BasePoints != nil {
		basePoints = *payload.BasePoints
	} else {
		if !actionType.IsAwardable() {
			return nil, domain.NewValidationError("action type %q cannot be awarded", actionType)
		}
		resolved, err := h.basePoints.ResolveBasePoints(ctx, payload.GuildID, payload.ChannelID, actionType)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve base points: %w", err)
		}
		basePoints = resolved
	}

	return &entities.AwardRequest{
		GuildID:     payload.GuildID,
		UserID:      payload.UserID,
		ActionType:  actionType,
		ReferenceID: payload.ReferenceID,
		BasePoints:  basePoints,
		Metadata:    payload.Metadata,
	}, nil
}
