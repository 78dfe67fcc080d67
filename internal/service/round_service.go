package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/engine"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/repository"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/distributed"
	"go.uber.org/zap"
)

// 락을 얻지 못했을 때 다른 요청의 라운드 생성을 기다리며 다시 읽는 횟수와 간격
const (
	lockRereadAttempts = 3
	lockRereadInterval = 200 * time.Millisecond
)

// RoundLockKey 이벤트별 라운드 생성 락 키
func RoundLockKey(eventID string) string {
	return "round:lock:" + eventID
}

type RoundService struct {
	events       EventStore
	participants ParticipantStore
	matches      MatchStore
	matchService *MatchService
	matcher      *engine.Matcher
	deck         *engine.IcebreakerDeck
	locker       RoundLocker
	logger       *zap.Logger

	rereadInterval time.Duration
}

// NewRoundService locker가 nil이면 DB 트랜잭션만으로 동시 생성을 막음
func NewRoundService(
	events EventStore,
	participants ParticipantStore,
	matches MatchStore,
	matchService *MatchService,
	matcher *engine.Matcher,
	deck *engine.IcebreakerDeck,
	locker RoundLocker,
	logger *zap.Logger,
) *RoundService {
	if matcher == nil {
		matcher = engine.NewMatcher()
	}
	if deck == nil {
		deck = engine.NewIcebreakerDeck(engine.DefaultIcebreakers)
	}
	if locker == nil {
		locker = localLocker{}
	}
	return &RoundService{
		events:       events,
		participants: participants,
		matches:      matches,
		matchService: matchService,
		matcher:      matcher,
		deck:         deck,
		locker:       locker,
		logger:       logger,

		rereadInterval: lockRereadInterval,
	}
}

// Status 현재 라운드 상태
func (s *RoundService) Status(ctx context.Context, eventID string) (*models.RoundStatusResponse, error) {
	event, err := s.matchService.event(ctx, eventID)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchService.eventMatches(ctx, event)
	if err != nil {
		return nil, err
	}

	current := engine.CurrentRound(matches)
	return &models.RoundStatusResponse{
		CurrentRound: current,
		Summary:      engine.RoundStatus(matches, current),
		Matches:      engine.MatchesInRound(matches, current),
	}, nil
}

// Advance 다음 라운드 생성.
// 동시에 두 요청이 들어오면 하나만 생성하고 다른 하나는 생성된 라운드를 돌려받음
func (s *RoundService) Advance(ctx context.Context, eventID string) (*models.AdvanceRoundResponse, error) {
	event, err := s.matchService.event(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// 락 밖에서 본 라운드. 락을 얻은 뒤 이보다 커져 있으면 다른 요청이 먼저 생성한 것
	observed, err := s.currentRound(ctx, event)
	if err != nil {
		return nil, err
	}

	var result *models.AdvanceRoundResponse
	err = s.locker.WithLock(ctx, RoundLockKey(eventID), func(ctx context.Context) error {
		var err error
		result, err = s.advance(ctx, event, observed)
		return err
	})

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, repository.ErrRoundConflict):
		s.logger.Info("Round advanced concurrently, returning existing round",
			zap.String("eventId", eventID))
		return s.latestRound(ctx, event)
	case errors.Is(err, repository.ErrEventMissing):
		return nil, ErrEventNotFound
	case errors.Is(err, distributed.ErrLockNotAcquired):
		return s.awaitAdvanced(ctx, event, observed)
	}
	return nil, err
}

func (s *RoundService) advance(ctx context.Context, event *models.Event, observed int) (*models.AdvanceRoundResponse, error) {
	existing, err := s.matchService.eventMatches(ctx, event)
	if err != nil {
		return nil, err
	}

	current := engine.CurrentRound(existing)
	if current > observed {
		s.logger.Info("Round advanced while waiting for lock, returning existing round",
			zap.String("eventId", event.ID),
			zap.Int("round", current))
		return s.latestRound(ctx, event)
	}
	if event.MaxRounds > 0 && current >= event.MaxRounds {
		return nil, ErrMaxRoundsReached
	}

	roster, err := s.participants.FindCheckedInByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	plan, err := s.matcher.NextRound(roster, existing)
	if err != nil {
		return nil, err
	}

	created, err := s.matches.CreateRound(ctx, event.ID, current, plan.Matches(event.ID, s.deck))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Round created",
		zap.String("eventId", event.ID),
		zap.Int("round", plan.RoundNumber),
		zap.Int("matches", len(created)),
		zap.Int("byes", len(plan.Byes)),
		zap.Int("roster", len(roster)))
	s.matchService.notify(ctx, models.UpdateRoundCreated, event.ID, plan.RoundNumber, created...)

	byes := plan.Byes
	if byes == nil {
		byes = []*models.Participant{}
	}
	return &models.AdvanceRoundResponse{
		Round:      plan.RoundNumber,
		MatchCount: len(created),
		Matches:    created,
		Byes:       byes,
	}, nil
}

// awaitAdvanced 락을 가진 다른 요청이 라운드를 만들었는지 몇 번 다시 읽음.
// 끝내 바뀌지 않으면 ErrConcurrentUpdate
func (s *RoundService) awaitAdvanced(ctx context.Context, event *models.Event, observed int) (*models.AdvanceRoundResponse, error) {
	for attempt := 1; attempt <= lockRereadAttempts; attempt++ {
		current, err := s.currentRound(ctx, event)
		if err != nil {
			return nil, err
		}
		if current > observed {
			return s.latestRound(ctx, event)
		}
		if attempt == lockRereadAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.rereadInterval):
		}
	}

	s.logger.Warn("Round lock held elsewhere and no new round appeared",
		zap.String("eventId", event.ID))
	return nil, ErrConcurrentUpdate
}

func (s *RoundService) currentRound(ctx context.Context, event *models.Event) (int, error) {
	matches, err := s.matches.FindByEvent(ctx, event.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to get event matches: %w", err)
	}
	return engine.CurrentRound(matches), nil
}

// latestRound 가장 최근 라운드를 생성 결과 형태로 반환. 부전승은 로스터와 비교해 계산
func (s *RoundService) latestRound(ctx context.Context, event *models.Event) (*models.AdvanceRoundResponse, error) {
	matches, err := s.matches.FindByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event matches: %w", err)
	}

	current := engine.CurrentRound(matches)
	inRound := engine.MatchesInRound(matches, current)

	roster, err := s.participants.FindCheckedInByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	byes := make([]*models.Participant, 0)
	for _, p := range roster {
		seated := false
		for _, m := range inRound {
			if m.Involves(p.ID) {
				seated = true
				break
			}
		}
		if !seated {
			byes = append(byes, p)
		}
	}

	return &models.AdvanceRoundResponse{
		Round:      current,
		MatchCount: len(inRound),
		Matches:    inRound,
		Byes:       byes,
	}, nil
}
