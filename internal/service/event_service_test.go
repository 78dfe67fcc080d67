package service

import (
	"context"
	"testing"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEventService_CreateDefaults(t *testing.T) {
	svc := NewEventService(newMemEventStore(), newMemParticipantStore(), 360, zap.NewNop())

	event, err := svc.Create(context.Background(), &models.CreateEventRequest{Name: "  Demo Day  "})
	require.NoError(t, err)

	assert.Equal(t, "Demo Day", event.Name)
	assert.Equal(t, models.EventStatusActive, event.Status)
	assert.Equal(t, 360, event.RoundDurationSec)
	assert.Equal(t, 0, event.MaxRounds)
}

func TestEventService_CreateValidation(t *testing.T) {
	svc := NewEventService(newMemEventStore(), newMemParticipantStore(), 360, zap.NewNop())

	negative := -1
	bogus := models.EventStatus("archived")
	tests := []struct {
		name string
		req  *models.CreateEventRequest
	}{
		{"blank name", &models.CreateEventRequest{Name: "   "}},
		{"negative max rounds", &models.CreateEventRequest{Name: "x", MaxRounds: &negative}},
		{"negative duration", &models.CreateEventRequest{Name: "x", RoundDurationSec: &negative}},
		{"unknown status", &models.CreateEventRequest{Name: "x", Status: &bogus}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEventService_UpdateAndDelete(t *testing.T) {
	events := newMemEventStore(testEvent("e1"))
	participants := newMemParticipantStore(testParticipant("e1", "alice"))
	svc := NewEventService(events, participants, 360, zap.NewNop())
	ctx := context.Background()

	rounds := 4
	updated, err := svc.Update(ctx, "e1", &models.UpdateEventRequest{MaxRounds: &rounds})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.MaxRounds)
	assert.Equal(t, "Teknopark Networking", updated.Name)

	_, err = svc.Update(ctx, "e1", &models.UpdateEventRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, "missing", &models.UpdateEventRequest{MaxRounds: &rounds})
	assert.ErrorIs(t, err, ErrEventNotFound)

	withParticipants, err := svc.GetWithParticipants(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, withParticipants.Participants, 1)

	require.NoError(t, svc.Delete(ctx, "e1"))
	assert.ErrorIs(t, svc.Delete(ctx, "e1"), ErrEventNotFound)

	_, err = svc.GetByID(ctx, "e1")
	assert.ErrorIs(t, err, ErrEventNotFound)
}
