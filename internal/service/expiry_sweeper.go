package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpirySweeper 주기적으로 시간이 지난 active 매치를 완료 처리.
// 조회 시 만료 처리와 별개로, 아무도 조회하지 않는 매치도 닫히게 함
type ExpirySweeper struct {
	matchService *MatchService
	logger       *zap.Logger
	interval     time.Duration
	timeout      time.Duration
	stopChan     chan struct{}
	wg           sync.WaitGroup
	running      bool
	mu           sync.Mutex
}

func NewExpirySweeper(matchService *MatchService, interval time.Duration, logger *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		matchService: matchService,
		logger:       logger,
		interval:     interval,
		timeout:      30 * time.Second,
		stopChan:     make(chan struct{}),
	}
}

// Start 스위퍼 시작. interval이 0 이하면 아무것도 하지 않음
func (s *ExpirySweeper) Start() {
	if s.interval <= 0 {
		s.logger.Info("Expiry sweeper disabled")
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("Starting expiry sweeper", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.sweepLoop()
}

// Stop 스위퍼 중지
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping expiry sweeper")
	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info("Expiry sweeper stopped")
}

func (s *ExpirySweeper) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

// sweep 한 번 실행
func (s *ExpirySweeper) sweep() int {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	expired, err := s.matchService.ExpireActive(ctx)
	if err != nil {
		s.logger.Error("Expiry sweep failed", zap.Error(err))
		return 0
	}
	if expired > 0 {
		s.logger.Debug("Expiry sweep finished", zap.Int("expired", expired))
	}
	return expired
}
