package distributed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrLockNotAcquired = errors.New("lock not acquired")
	ErrLockNotHeld     = errors.New("lock not held")
)

// 자신이 획득한 락만 해제
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// RedisLock Redis 기반 분산 락
type RedisLock struct {
	client *redis.Client
	key    string
	token  string
}

// RedisLockManager 이벤트 단위 라운드 생성 락.
// 여러 서버 인스턴스가 같은 이벤트의 다음 라운드를 동시에 만들지 않도록 함
type RedisLockManager struct {
	client        *redis.Client
	ttl           time.Duration
	maxRetries    int
	retryInterval time.Duration
	logger        *zap.Logger
}

// NewRedisLockManager ttl은 락 자동 만료 시간 (프로세스가 죽어도 풀림)
func NewRedisLockManager(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLockManager {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLockManager{
		client:        client,
		ttl:           ttl,
		maxRetries:    3,
		retryInterval: 200 * time.Millisecond,
		logger:        logger,
	}
}

// AcquireLock SET NX로 한 번 시도
func (m *RedisLockManager) AcquireLock(ctx context.Context, key string) (*RedisLock, error) {
	token := uuid.New().String()

	ok, err := m.client.SetNX(ctx, key, token, m.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &RedisLock{client: m.client, key: key, token: token}, nil
}

// TryLockWithRetry 정해진 횟수만큼 재시도
func (m *RedisLockManager) TryLockWithRetry(ctx context.Context, key string) (*RedisLock, error) {
	for i := 0; i < m.maxRetries; i++ {
		lock, err := m.AcquireLock(ctx, key)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}

		if i < m.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(m.retryInterval):
			}
		}
	}

	return nil, ErrLockNotAcquired
}

// WithLock 락을 잡은 상태에서 fn 실행
func (m *RedisLockManager) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock, err := m.TryLockWithRetry(ctx, key)
	if err != nil {
		return err
	}

	defer func() {
		// 요청 ctx가 취소돼도 해제는 시도
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			m.logger.Warn("Failed to release lock",
				zap.String("key", key),
				zap.Error(err))
		}
	}()

	m.logger.Debug("Lock acquired", zap.String("key", key))
	return fn(ctx)
}

// Release 락 해제
func (l *RedisLock) Release(ctx context.Context) error {
	result, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return err
	}
	if result == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// IsHeld 락이 아직 유효한지 확인
func (l *RedisLock) IsHeld(ctx context.Context) (bool, error) {
	value, err := l.client.Get(ctx, l.key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == l.token, nil
}
