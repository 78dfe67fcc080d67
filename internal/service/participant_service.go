package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"go.uber.org/zap"
)

type ParticipantService struct {
	participants ParticipantStore
	events       EventStore
	embedder     Embedder
	logger       *zap.Logger
}

// NewParticipantService embedder가 nil이면 임베딩 없이 등록 (매칭 점수는 중립값)
func NewParticipantService(participants ParticipantStore, events EventStore, embedder Embedder, logger *zap.Logger) *ParticipantService {
	return &ParticipantService{
		participants: participants,
		events:       events,
		embedder:     embedder,
		logger:       logger,
	}
}

// Register 참가자 등록. 같은 이벤트에 같은 이메일이면 기존 참가자 반환 (created=false)
func (s *ParticipantService) Register(ctx context.Context, req *models.RegisterParticipantRequest) (*models.Participant, bool, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.FullName)
	intent := strings.TrimSpace(req.CurrentIntent)
	if email == "" || name == "" || intent == "" {
		return nil, false, fmt.Errorf("%w: email, full name and intent are required", ErrInvalidInput)
	}

	event, err := s.events.FindByID(ctx, req.EventID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, false, ErrEventNotFound
	}

	participant, created, err := s.participants.Create(ctx, &models.Participant{
		EventID:       event.ID,
		Email:         email,
		FullName:      name,
		Company:       req.Company,
		Position:      req.Position,
		CurrentIntent: intent,
		CheckedIn:     true,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to register participant: %w", err)
	}

	// 재등록이어도 이전에 임베딩이 실패했으면 다시 시도
	s.attachEmbedding(ctx, participant)

	if !created {
		s.logger.Debug("Participant already registered",
			zap.String("eventId", event.ID),
			zap.String("participantId", participant.ID))
		return participant, false, nil
	}

	s.logger.Info("Participant registered",
		zap.String("eventId", event.ID),
		zap.String("participantId", participant.ID),
		zap.Bool("embedding", participant.HasEmbedding()))

	return participant, true, nil
}

// attachEmbedding 실패해도 등록은 유지
func (s *ParticipantService) attachEmbedding(ctx context.Context, p *models.Participant) {
	if s.embedder == nil || p.HasEmbedding() {
		return
	}

	vector, err := s.embedder.Embed(ctx, p.EmbeddingText())
	if err != nil {
		s.logger.Warn("Failed to create embedding, continuing without it",
			zap.String("participantId", p.ID),
			zap.Error(err))
		return
	}
	if len(vector) == 0 {
		return
	}

	if err := s.participants.SetEmbedding(ctx, p.ID, vector); err != nil {
		s.logger.Warn("Failed to store embedding",
			zap.String("participantId", p.ID),
			zap.Error(err))
		return
	}
	p.Embedding = vector
}

// GetByID ID로 참가자 조회
func (s *ParticipantService) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	p, err := s.participants.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if p == nil {
		return nil, ErrParticipantNotFound
	}
	return p, nil
}

// Lookup 참가자 ID 또는 이메일로 조회
func (s *ParticipantService) Lookup(ctx context.Context, identifier string) (*models.Participant, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", ErrInvalidInput)
	}

	if !strings.Contains(identifier, "@") {
		return s.GetByID(ctx, identifier)
	}

	p, err := s.participants.FindLatestByEmail(ctx, strings.ToLower(identifier))
	if err != nil {
		return nil, fmt.Errorf("failed to get participant by email: %w", err)
	}
	if p == nil {
		return nil, ErrParticipantNotFound
	}
	return p, nil
}

// ListByEvent 이벤트 참가자 목록
func (s *ParticipantService) ListByEvent(ctx context.Context, eventID string) ([]*models.Participant, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	participants, err := s.participants.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

// SetCheckedIn 한 참가자의 체크인 상태 변경
func (s *ParticipantService) SetCheckedIn(ctx context.Context, id string, checkedIn bool) (*models.Participant, error) {
	affected, err := s.participants.SetCheckedIn(ctx, []string{id}, checkedIn)
	if err != nil {
		return nil, fmt.Errorf("failed to update check-in: %w", err)
	}
	if affected == 0 {
		return nil, ErrParticipantNotFound
	}
	return s.GetByID(ctx, id)
}

// BulkSetCheckedIn 여러 참가자 체크인 상태 변경. 변경된 수 반환
func (s *ParticipantService) BulkSetCheckedIn(ctx context.Context, ids []string, checkedIn bool) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: participant ids are required", ErrInvalidInput)
	}

	affected, err := s.participants.SetCheckedIn(ctx, ids, checkedIn)
	if err != nil {
		return 0, fmt.Errorf("failed to update check-in: %w", err)
	}

	s.logger.Info("Bulk check-in updated",
		zap.Int("requested", len(ids)),
		zap.Int64("updated", affected),
		zap.Bool("checkedIn", checkedIn))

	return affected, nil
}
