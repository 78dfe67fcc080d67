package api

import (
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/api/handlers"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/api/middleware"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/config"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/service"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/websocket"
	"github.com/gin-gonic/gin"
)

// Services 라우터가 사용하는 서비스 묶음 (main에서 생성)
type Services struct {
	Events       *service.EventService
	Participants *service.ParticipantService
	Matches      *service.MatchService
	Rounds       *service.RoundService
	Hub          *websocket.Hub
	HealthChecks map[string]handlers.HealthCheckFunc
}

// SetupRouter API 라우터 설정
func SetupRouter(cfg *config.Config, svc *Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 전역 미들웨어
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Handler 초기화
	healthHandler := handlers.NewHealthHandler(svc.HealthChecks)
	eventHandler := handlers.NewEventHandler(svc.Events, svc.Participants, svc.Matches, svc.Rounds)
	participantHandler := handlers.NewParticipantHandler(svc.Participants, svc.Matches)
	matchHandler := handlers.NewMatchHandler(svc.Matches)
	wsHandler := handlers.NewWebSocketHandler(svc.Hub, svc.Participants)

	// Health check
	router.GET("/health", healthHandler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Event routes
		events := v1.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.POST("", eventHandler.CreateEvent)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)
			events.GET("/:id/participants", eventHandler.ListParticipants)

			// 라운드
			events.GET("/:id/rounds", eventHandler.GetRoundStatus)
			events.POST("/:id/rounds", eventHandler.AdvanceRound)

			events.GET("/:id/matches", eventHandler.ListMatches)
			events.DELETE("/:id/matches", eventHandler.ResetMatches)
			events.POST("/:id/activate", eventHandler.ActivateEvent)
		}

		// Participant routes
		participants := v1.Group("/participants")
		{
			participants.POST("/register", participantHandler.Register)
			participants.GET("/:id", participantHandler.GetParticipant)
			participants.GET("/:id/matches", participantHandler.GetParticipantMatches)
		}

		v1.GET("/meeting/:identifier", participantHandler.GetMeeting)

		// Match routes
		matches := v1.Group("/matches")
		{
			matches.GET("/:id", matchHandler.GetMatch)
			matches.POST("/:id/handshake", matchHandler.Handshake)
			matches.POST("/:id/start", matchHandler.StartMatch)
			matches.POST("/:id/complete", matchHandler.CompleteMatch)
			matches.POST("/:id/skip", matchHandler.SkipMatch)
			matches.POST("/:id/reset", matchHandler.ResetMatch)
		}

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.PUT("/participants/:id/checkin", participantHandler.SetCheckIn)
			admin.POST("/participants/bulk-checkin", participantHandler.BulkCheckIn)
			admin.POST("/matches/bulk-start", matchHandler.BulkStart)
		}

		// WebSocket route
		v1.GET("/ws", wsHandler.HandleWebSocket)
	}

	return router
}
