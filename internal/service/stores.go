package service

import (
	"context"
	"time"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
)

// EventStore 이벤트 저장소 (repository.EventRepository)
type EventStore interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	FindAll(ctx context.Context) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) (*models.Event, error)
	SetStatus(ctx context.Context, id string, status models.EventStatus) error
	Delete(ctx context.Context, id string) (bool, error)
}

// ParticipantStore 참가자 저장소 (repository.ParticipantRepository)
type ParticipantStore interface {
	Create(ctx context.Context, p *models.Participant) (*models.Participant, bool, error)
	FindByID(ctx context.Context, id string) (*models.Participant, error)
	FindByEventAndEmail(ctx context.Context, eventID, email string) (*models.Participant, error)
	FindLatestByEmail(ctx context.Context, email string) (*models.Participant, error)
	FindByEvent(ctx context.Context, eventID string) ([]*models.Participant, error)
	FindCheckedInByEvent(ctx context.Context, eventID string) ([]*models.Participant, error)
	FindByIDs(ctx context.Context, ids []string) ([]*models.Participant, error)
	SetCheckedIn(ctx context.Context, ids []string, checkedIn bool) (int64, error)
	SetEmbedding(ctx context.Context, id string, embedding []float64) error
}

// MatchStore 매치 저장소 (repository.MatchRepository)
type MatchStore interface {
	CreateRound(ctx context.Context, eventID string, expectedCurrent int, matches []*models.Match) ([]*models.Match, error)
	UpdateState(ctx context.Context, match *models.Match) (bool, error)
	StartPending(ctx context.Context, matchIDs []string, now time.Time) ([]*models.Match, error)
	StartPendingByEvent(ctx context.Context, eventID string, now time.Time) ([]*models.Match, error)
	FindByID(ctx context.Context, id string) (*models.Match, error)
	FindByEvent(ctx context.Context, eventID string) ([]*models.Match, error)
	FindByParticipant(ctx context.Context, participantID string) ([]*models.Match, error)
	FindActiveWithDuration(ctx context.Context) ([]*models.Match, map[string]time.Duration, error)
	DeleteByEvent(ctx context.Context, eventID string) (int64, error)
}

// Embedder 참가자 소개 텍스트를 벡터로 변환
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Notifier 매치 변경 알림 (websocket.Hub 또는 distributed.MatchEventBus)
type Notifier interface {
	Publish(ctx context.Context, update *models.MatchUpdate) error
}

// RoundLocker 이벤트 단위 분산 락 (distributed.RedisLockManager)
type RoundLocker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// noopNotifier 알림 대상이 없을 때
type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, *models.MatchUpdate) error { return nil }

// localLocker Redis 없이 단일 인스턴스로 동작할 때. DB 트랜잭션이 최종 보호
type localLocker struct{}

func (localLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
