package service

import (
	"context"
	"fmt"
	"time"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/engine"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"go.uber.org/zap"
)

// MaxCASRetries 조건부 업데이트 충돌 시 재시도 횟수
const MaxCASRetries = 5

type transitionFunc func(m models.Match, now time.Time) (engine.Transition, error)

type MatchService struct {
	matches      MatchStore
	events       EventStore
	participants ParticipantStore
	notifier     Notifier
	clock        engine.Clock
	logger       *zap.Logger
}

func NewMatchService(
	matches MatchStore,
	events EventStore,
	participants ParticipantStore,
	notifier Notifier,
	clock engine.Clock,
	logger *zap.Logger,
) *MatchService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if clock == nil {
		clock = engine.SystemClock{}
	}
	return &MatchService{
		matches:      matches,
		events:       events,
		participants: participants,
		notifier:     notifier,
		clock:        clock,
		logger:       logger,
	}
}

// GetByID 매치 조회. 시간이 지난 active 매치는 조회 시 완료 처리
func (s *MatchService) GetByID(ctx context.Context, id string) (*models.Match, error) {
	return s.apply(ctx, id, "expire", func(m models.Match, _ time.Time) (engine.Transition, error) {
		return engine.Transition{Match: m, From: m.Status}, nil
	})
}

// Handshake 참가자 QR 스캔. 양쪽 모두 하면 매치 시작.
// started는 이번 스캔으로 active가 됐을 때만 true
func (s *MatchService) Handshake(ctx context.Context, matchID, participantID string) (*models.Match, bool, error) {
	if participantID == "" {
		return nil, false, fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}
	return s.applyTransition(ctx, matchID, "handshake", func(m models.Match, now time.Time) (engine.Transition, error) {
		return engine.Handshake(m, participantID, now)
	})
}

// Start 운영자 수동 시작
func (s *MatchService) Start(ctx context.Context, matchID string) (*models.Match, error) {
	return s.apply(ctx, matchID, "start", engine.ManualStart)
}

// Complete 매치 완료
func (s *MatchService) Complete(ctx context.Context, matchID string) (*models.Match, error) {
	return s.apply(ctx, matchID, "complete", engine.Complete)
}

// Skip pending 매치 건너뛰기
func (s *MatchService) Skip(ctx context.Context, matchID string) (*models.Match, error) {
	return s.apply(ctx, matchID, "skip", func(m models.Match, _ time.Time) (engine.Transition, error) {
		return engine.Skip(m)
	})
}

// Reset 매치를 pending으로 되돌림
func (s *MatchService) Reset(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		t := engine.Reset(*match)
		if !t.Changed {
			return &t.Match, nil
		}

		next := t.Match
		ok, err := s.matches.UpdateState(ctx, &next)
		if err != nil {
			return nil, fmt.Errorf("failed to reset match: %w", err)
		}
		if ok {
			s.logger.Info("Match reset", zap.String("matchId", next.ID))
			s.notify(ctx, models.UpdateMatchChanged, next.EventID, next.RoundNumber, &next)
			return &next, nil
		}
		if attempt >= MaxCASRetries {
			return nil, ErrConcurrentUpdate
		}
		if match, err = s.load(ctx, matchID); err != nil {
			return nil, err
		}
	}
}

// apply 엔진 전이를 조건부 업데이트로 저장. 충돌하면 다시 읽고 재적용
func (s *MatchService) apply(ctx context.Context, matchID, op string, fn transitionFunc) (*models.Match, error) {
	match, _, err := s.applyTransition(ctx, matchID, op, fn)
	return match, err
}

// applyTransition apply와 같고, 저장된 전이의 Triggered 값도 반환
func (s *MatchService) applyTransition(ctx context.Context, matchID, op string, fn transitionFunc) (*models.Match, bool, error) {
	match, err := s.load(ctx, matchID)
	if err != nil {
		return nil, false, err
	}

	duration, err := s.roundDuration(ctx, match.EventID)
	if err != nil {
		return nil, false, err
	}

	for attempt := 1; ; attempt++ {
		now := s.clock.Now()
		expired := engine.AutoExpire(*match, duration, now)

		t, opErr := fn(expired.Match, now)
		if opErr != nil {
			if expired.Changed {
				s.persistQuietly(ctx, expired.Match)
			}
			return nil, false, opErr
		}
		if !t.Changed && !expired.Changed {
			return &t.Match, false, nil
		}

		next := t.Match
		ok, err := s.matches.UpdateState(ctx, &next)
		if err != nil {
			return nil, false, fmt.Errorf("failed to %s match: %w", op, err)
		}
		if ok {
			s.logger.Info("Match updated",
				zap.String("matchId", next.ID),
				zap.String("op", op),
				zap.String("from", string(match.Status)),
				zap.String("to", string(next.Status)),
				zap.Bool("triggered", t.Triggered))
			s.notify(ctx, models.UpdateMatchChanged, next.EventID, next.RoundNumber, &next)
			return &next, t.Triggered, nil
		}

		s.logger.Debug("Match update lost race, retrying",
			zap.String("matchId", matchID),
			zap.String("op", op),
			zap.Int("attempt", attempt))

		if attempt >= MaxCASRetries {
			return nil, false, ErrConcurrentUpdate
		}
		if match, err = s.load(ctx, matchID); err != nil {
			return nil, false, err
		}
	}
}

// persistQuietly 실패한 요청에서도 만료 처리는 저장. 충돌은 무시
func (s *MatchService) persistQuietly(ctx context.Context, m models.Match) {
	if _, err := s.matches.UpdateState(ctx, &m); err != nil {
		s.logger.Warn("Failed to persist expired match",
			zap.String("matchId", m.ID),
			zap.Error(err))
	}
}

// BulkStart 여러 pending 매치를 한 번에 시작
func (s *MatchService) BulkStart(ctx context.Context, matchIDs []string) ([]*models.Match, error) {
	if len(matchIDs) == 0 {
		return nil, fmt.Errorf("%w: match ids are required", ErrInvalidInput)
	}

	started, err := s.matches.StartPending(ctx, matchIDs, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to start matches: %w", err)
	}

	s.logger.Info("Matches started",
		zap.Int("requested", len(matchIDs)),
		zap.Int("started", len(started)))
	s.notifyGrouped(ctx, models.UpdateMatchChanged, started)

	return started, nil
}

// ActivateEvent 이벤트의 모든 pending 매치 시작
func (s *MatchService) ActivateEvent(ctx context.Context, eventID string) ([]*models.Match, error) {
	event, err := s.event(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.Status == models.EventStatusDraft {
		if err := s.events.SetStatus(ctx, eventID, models.EventStatusActive); err != nil {
			return nil, fmt.Errorf("failed to activate event: %w", err)
		}
	}

	started, err := s.matches.StartPendingByEvent(ctx, eventID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to start event matches: %w", err)
	}

	s.logger.Info("Event activated",
		zap.String("eventId", eventID),
		zap.Int("started", len(started)))
	s.notifyGrouped(ctx, models.UpdateMatchChanged, started)

	return started, nil
}

// ListByEvent 이벤트의 모든 매치 (만료 반영)
func (s *MatchService) ListByEvent(ctx context.Context, eventID string) ([]*models.Match, error) {
	event, err := s.event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.eventMatches(ctx, event)
}

// ResetEvent 이벤트의 매치를 모두 삭제. 페어링 히스토리도 초기화됨
func (s *MatchService) ResetEvent(ctx context.Context, eventID string) (int64, error) {
	if _, err := s.event(ctx, eventID); err != nil {
		return 0, err
	}

	existing, err := s.matches.FindByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to get event matches: %w", err)
	}

	deleted, err := s.matches.DeleteByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset event matches: %w", err)
	}

	s.logger.Info("Event matches reset",
		zap.String("eventId", eventID),
		zap.Int64("deleted", deleted))
	s.notify(ctx, models.UpdateMatchesReset, eventID, 0, existing...)

	return deleted, nil
}

// ForParticipant 참가자 시점의 매치 목록 (상대 정보, 남은 시간 포함)
func (s *MatchService) ForParticipant(ctx context.Context, participantID string) ([]*models.ParticipantMatch, error) {
	participant, err := s.participants.FindByID(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if participant == nil {
		return nil, ErrParticipantNotFound
	}

	event, err := s.event(ctx, participant.EventID)
	if err != nil {
		return nil, err
	}

	matches, err := s.matches.FindByParticipant(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant matches: %w", err)
	}
	matches = s.expireAll(ctx, matches, event.RoundDuration())

	partnerIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		partnerIDs = append(partnerIDs, m.PartnerOf(participantID))
	}
	partners, err := s.participants.FindByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get partners: %w", err)
	}
	byID := make(map[string]*models.Participant, len(partners))
	for _, p := range partners {
		byID[p.ID] = p
	}

	now := s.clock.Now()
	views := make([]*models.ParticipantMatch, 0, len(matches))
	for _, m := range matches {
		side, _ := m.SideOf(participantID)
		view := &models.ParticipantMatch{Match: *m, Side: side}
		if side == models.SideA {
			view.MyHandshake, view.PartnerHandshake = m.HandshakeA, m.HandshakeB
		} else {
			view.MyHandshake, view.PartnerHandshake = m.HandshakeB, m.HandshakeA
		}
		if partner, ok := byID[m.PartnerOf(participantID)]; ok {
			view.Partner = partner.Profile()
		}
		if left, ok := engine.Remaining(*m, event.RoundDuration(), now); ok {
			seconds := int(left / time.Second)
			view.RemainingSeconds = &seconds
		}
		views = append(views, view)
	}

	return views, nil
}

// ExpireActive 시간이 지난 모든 active 매치를 완료 처리. 처리한 수 반환
func (s *MatchService) ExpireActive(ctx context.Context) (int, error) {
	active, durations, err := s.matches.FindActiveWithDuration(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get active matches: %w", err)
	}

	now := s.clock.Now()
	expired := make([]*models.Match, 0)
	for _, m := range active {
		t := engine.AutoExpire(*m, durations[m.EventID], now)
		if !t.Changed {
			continue
		}
		next := t.Match
		ok, err := s.matches.UpdateState(ctx, &next)
		if err != nil {
			s.logger.Error("Failed to expire match",
				zap.String("matchId", m.ID),
				zap.Error(err))
			continue
		}
		// 충돌이면 다른 요청이 이미 처리한 것
		if ok {
			expired = append(expired, &next)
		}
	}

	if len(expired) > 0 {
		s.logger.Info("Expired active matches", zap.Int("count", len(expired)))
		s.notifyGrouped(ctx, models.UpdateMatchChanged, expired)
	}

	return len(expired), nil
}

// eventMatches 이벤트 매치 조회 후 만료 반영
func (s *MatchService) eventMatches(ctx context.Context, event *models.Event) ([]*models.Match, error) {
	matches, err := s.matches.FindByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event matches: %w", err)
	}
	return s.expireAll(ctx, matches, event.RoundDuration()), nil
}

// expireAll 목록 안의 만료 매치를 저장. 충돌한 매치는 다시 읽음
func (s *MatchService) expireAll(ctx context.Context, matches []*models.Match, duration time.Duration) []*models.Match {
	now := s.clock.Now()
	out := make([]*models.Match, 0, len(matches))
	changed := make([]*models.Match, 0)

	for _, m := range matches {
		t := engine.AutoExpire(*m, duration, now)
		if !t.Changed {
			out = append(out, m)
			continue
		}

		next := t.Match
		ok, err := s.matches.UpdateState(ctx, &next)
		switch {
		case err != nil:
			s.logger.Warn("Failed to persist expired match",
				zap.String("matchId", m.ID),
				zap.Error(err))
			out = append(out, &next)
		case ok:
			out = append(out, &next)
			changed = append(changed, &next)
		default:
			fresh, err := s.matches.FindByID(ctx, m.ID)
			if err != nil || fresh == nil {
				out = append(out, &next)
				continue
			}
			out = append(out, fresh)
		}
	}

	if len(changed) > 0 {
		s.notifyGrouped(ctx, models.UpdateMatchChanged, changed)
	}
	return out
}

func (s *MatchService) load(ctx context.Context, id string) (*models.Match, error) {
	match, err := s.matches.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return match, nil
}

func (s *MatchService) event(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *MatchService) roundDuration(ctx context.Context, eventID string) (time.Duration, error) {
	event, err := s.event(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return event.RoundDuration(), nil
}

func (s *MatchService) notify(ctx context.Context, kind models.UpdateType, eventID string, round int, matches ...*models.Match) {
	update := &models.MatchUpdate{
		Type:      kind,
		EventID:   eventID,
		Round:     round,
		Matches:   matches,
		Timestamp: s.clock.Now(),
	}
	if err := s.notifier.Publish(ctx, update); err != nil {
		s.logger.Warn("Failed to publish match update",
			zap.String("eventId", eventID),
			zap.String("type", string(kind)),
			zap.Error(err))
	}
}

// notifyGrouped 이벤트별로 묶어서 알림
func (s *MatchService) notifyGrouped(ctx context.Context, kind models.UpdateType, matches []*models.Match) {
	grouped := make(map[string][]*models.Match)
	order := make([]string, 0)
	for _, m := range matches {
		if _, ok := grouped[m.EventID]; !ok {
			order = append(order, m.EventID)
		}
		grouped[m.EventID] = append(grouped[m.EventID], m)
	}
	for _, eventID := range order {
		s.notify(ctx, kind, eventID, 0, grouped[eventID]...)
	}
}
