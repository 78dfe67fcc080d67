package handlers

import (
	"context"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
)

// 핸들러가 사용하는 서비스 메서드. 구현은 internal/service

type eventService interface {
	Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error)
	GetWithParticipants(ctx context.Context, id string) (*models.EventWithParticipants, error)
	List(ctx context.Context) ([]*models.Event, error)
	Update(ctx context.Context, id string, req *models.UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

type participantService interface {
	Register(ctx context.Context, req *models.RegisterParticipantRequest) (*models.Participant, bool, error)
	GetByID(ctx context.Context, id string) (*models.Participant, error)
	Lookup(ctx context.Context, identifier string) (*models.Participant, error)
	ListByEvent(ctx context.Context, eventID string) ([]*models.Participant, error)
	SetCheckedIn(ctx context.Context, id string, checkedIn bool) (*models.Participant, error)
	BulkSetCheckedIn(ctx context.Context, ids []string, checkedIn bool) (int64, error)
}

type matchService interface {
	GetByID(ctx context.Context, id string) (*models.Match, error)
	Handshake(ctx context.Context, matchID, participantID string) (*models.Match, bool, error)
	Start(ctx context.Context, matchID string) (*models.Match, error)
	Complete(ctx context.Context, matchID string) (*models.Match, error)
	Skip(ctx context.Context, matchID string) (*models.Match, error)
	Reset(ctx context.Context, matchID string) (*models.Match, error)
	BulkStart(ctx context.Context, matchIDs []string) ([]*models.Match, error)
	ActivateEvent(ctx context.Context, eventID string) ([]*models.Match, error)
	ListByEvent(ctx context.Context, eventID string) ([]*models.Match, error)
	ResetEvent(ctx context.Context, eventID string) (int64, error)
	ForParticipant(ctx context.Context, participantID string) ([]*models.ParticipantMatch, error)
}

type roundService interface {
	Status(ctx context.Context, eventID string) (*models.RoundStatusResponse, error)
	Advance(ctx context.Context, eventID string) (*models.AdvanceRoundResponse, error)
}
