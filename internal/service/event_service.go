package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"go.uber.org/zap"
)

type EventService struct {
	events                  EventStore
	participants            ParticipantStore
	defaultRoundDurationSec int
	logger                  *zap.Logger
}

func NewEventService(events EventStore, participants ParticipantStore, defaultRoundDurationSec int, logger *zap.Logger) *EventService {
	if defaultRoundDurationSec <= 0 {
		defaultRoundDurationSec = 360
	}
	return &EventService{
		events:                  events,
		participants:            participants,
		defaultRoundDurationSec: defaultRoundDurationSec,
		logger:                  logger,
	}
}

// Create 새 이벤트 생성
func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Name:             strings.TrimSpace(req.Name),
		Theme:            req.Theme,
		Status:           models.EventStatusActive,
		RoundDurationSec: s.defaultRoundDurationSec,
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if req.RoundDurationSec != nil {
		event.RoundDurationSec = *req.RoundDurationSec
	}
	if req.MaxRounds != nil {
		event.MaxRounds = *req.MaxRounds
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created",
		zap.String("eventId", created.ID),
		zap.String("name", created.Name))

	return created, nil
}

// GetByID ID로 이벤트 조회
func (s *EventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// GetWithParticipants 참가자 목록 포함 이벤트 조회
func (s *EventService) GetWithParticipants(ctx context.Context, id string) (*models.EventWithParticipants, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	participants, err := s.participants.FindByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	return &models.EventWithParticipants{Event: *event, Participants: participants}, nil
}

// List 모든 이벤트
func (s *EventService) List(ctx context.Context) ([]*models.Event, error) {
	events, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Update nil이 아닌 필드만 변경
func (s *EventService) Update(ctx context.Context, id string, req *models.UpdateEventRequest) (*models.Event, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = strings.TrimSpace(*req.Name)
	}
	if req.Theme != nil {
		event.Theme = req.Theme
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if req.RoundDurationSec != nil {
		event.RoundDurationSec = *req.RoundDurationSec
	}
	if req.MaxRounds != nil {
		event.MaxRounds = *req.MaxRounds
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	updated, err := s.events.Update(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if updated == nil {
		return nil, ErrEventNotFound
	}

	return updated, nil
}

// Delete 이벤트 삭제. 참가자와 매치도 함께 삭제됨
func (s *EventService) Delete(ctx context.Context, id string) error {
	deleted, err := s.events.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if !deleted {
		return ErrEventNotFound
	}

	s.logger.Info("Event deleted", zap.String("eventId", id))
	return nil
}

func validateEvent(event *models.Event) error {
	if event.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !event.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, event.Status)
	}
	if event.RoundDurationSec <= 0 {
		return fmt.Errorf("%w: round duration must be positive", ErrInvalidInput)
	}
	if event.MaxRounds < 0 {
		return fmt.Errorf("%w: max rounds must not be negative", ErrInvalidInput)
	}
	return nil
}
