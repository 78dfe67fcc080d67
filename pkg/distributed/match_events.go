package distributed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const matchUpdatesChannel = "matchmaking:match-updates"

// MatchEventBus Redis Pub/Sub 기반 매치 변경 전달.
// 어느 인스턴스에서 바뀌든 모든 인스턴스의 WebSocket 허브로 전달됨
type MatchEventBus struct {
	client     *redis.Client
	logger     *zap.Logger
	instanceID string
	channel    string

	stopOnce  sync.Once
	stopChan  chan struct{}
	cancelSub context.CancelFunc
	mu        sync.Mutex
}

func NewMatchEventBus(client *redis.Client, logger *zap.Logger) *MatchEventBus {
	return &MatchEventBus{
		client:     client,
		logger:     logger,
		instanceID: uuid.New().String(),
		channel:    matchUpdatesChannel,
		stopChan:   make(chan struct{}),
	}
}

// Publish 매치 변경 발행
func (b *MatchEventBus) Publish(ctx context.Context, update *models.MatchUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal match update: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish match update: %w", err)
	}

	b.logger.Debug("Published match update",
		zap.String("instance_id", b.instanceID),
		zap.String("type", string(update.Type)),
		zap.String("eventId", update.EventID),
		zap.Int("matches", len(update.Matches)))

	return nil
}

// Start 구독 시작. Stop 또는 ctx 취소까지 블록됨
func (b *MatchEventBus) Start(ctx context.Context, handler func(update *models.MatchUpdate)) error {
	subCtx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancelSub = cancel
	b.mu.Unlock()
	defer cancel()

	pubsub := b.client.Subscribe(subCtx, b.channel)
	defer pubsub.Close()

	// 구독 확인
	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	b.logger.Info("Match event bus started",
		zap.String("instance_id", b.instanceID),
		zap.String("channel", b.channel))

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var update models.MatchUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				b.logger.Error("Failed to unmarshal match update", zap.Error(err))
				continue
			}

			handler(&update)

		case <-b.stopChan:
			b.logger.Info("Match event bus stopped")
			return nil

		case <-subCtx.Done():
			return subCtx.Err()
		}
	}
}

// Stop 구독 중지
func (b *MatchEventBus) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopChan)
		b.mu.Lock()
		if b.cancelSub != nil {
			b.cancelSub()
		}
		b.mu.Unlock()
	})
}
