package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/api"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/api/handlers"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/config"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/engine"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/repository"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/service"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/websocket"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/database"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/distributed"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/embedding"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 로거 초기화
	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting matchmaking engine",
		"port", cfg.Port,
		"env", cfg.Env,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 데이터베이스 연결
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
	}

	healthChecks := map[string]handlers.HealthCheckFunc{
		"postgres": db.PingContext,
	}

	// Repository 초기화
	eventRepo := repository.NewEventRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	// WebSocket Hub 초기화 및 시작
	wsHub := websocket.NewHub(logger.Named("websocket"), cfg.CORSAllowedOrigins)
	go wsHub.Run()
	defer wsHub.Stop()

	// Redis가 설정되어 있으면 분산 락 + 이벤트 버스, 없으면 단일 인스턴스 모드
	var notifier service.Notifier = wsHub
	var locker service.RoundLocker
	if cfg.RedisURL != "" {
		redisClient, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer redisClient.Close()

		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}

		locker = distributed.NewRedisLockManager(redisClient, cfg.RoundLockTTL, logger.Named("lock"))

		bus := distributed.NewMatchEventBus(redisClient, logger.Named("bus"))
		go func() {
			if err := bus.Start(ctx, wsHub.Deliver); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Match event bus stopped", "error", err)
			}
		}()
		defer bus.Stop()
		notifier = bus

		logger.Info("Redis connected, distributed round lock enabled")
	} else {
		logger.Warn("REDIS_URL not set, running in single-instance mode")
	}

	// 임베딩 (API 키가 없으면 affinity는 중립 점수)
	var embedder service.Embedder
	if cfg.OpenAIAPIKey != "" {
		embedder = embedding.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set, participants are matched without embeddings")
	}

	// Service 초기화
	eventService := service.NewEventService(eventRepo, participantRepo, cfg.DefaultRoundDurationSec(), logger.Named("events"))
	participantService := service.NewParticipantService(participantRepo, eventRepo, embedder, logger.Named("participants"))
	matchService := service.NewMatchService(matchRepo, eventRepo, participantRepo, notifier, engine.SystemClock{}, logger.Named("matches"))
	roundService := service.NewRoundService(
		eventRepo,
		participantRepo,
		matchRepo,
		matchService,
		engine.NewMatcher(),
		engine.NewIcebreakerDeck(engine.DefaultIcebreakers),
		locker,
		logger.Named("rounds"),
	)

	// 만료 스윕 시작
	sweeper := service.NewExpirySweeper(matchService, cfg.ExpirySweepInterval, logger.Named("sweeper"))
	sweeper.Start()
	defer sweeper.Stop()

	router := api.SetupRouter(cfg, &api.Services{
		Events:       eventService,
		Participants: participantService,
		Matches:      matchService,
		Rounds:       roundService,
		Hub:          wsHub,
		HealthChecks: healthChecks,
	})

	// 서버 설정
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 서버 시작 (고루틴)
	go func() {
		logger.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 10초 타임아웃으로 종료
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// connectRedis REDIS_URL 파싱 후 연결 확인
func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
