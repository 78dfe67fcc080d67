package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/config"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/models"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/repository"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/internal/service"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/database"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/embedding"
	"github.com/efemeric85/teknopark-ai-matchmaking-sub000/pkg/logger"
)

// 데모 참가자 (이름, 회사, 관심사)
var demoParticipants = []struct {
	name, company, intent string
}{
	{"Ayse Yilmaz", "Deniz Robotics", "Looking for a hardware partner for warehouse robots"},
	{"Mehmet Kaya", "Kaya Logistics", "Want to automate our warehouse picking"},
	{"Elif Demir", "Anatolia Ventures", "Investing in early stage climate tech"},
	{"Can Arslan", "GreenGrid", "Raising a seed round for grid battery storage"},
	{"Zeynep Sahin", "MedScan AI", "Searching for hospitals to pilot our imaging model"},
	{"Burak Celik", "Ankara City Hospital", "Evaluating AI tools for radiology"},
	{"Selin Ozturk", "Freelance", "Frontend developer open to startup roles"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Println("✅ Connected to database successfully!")

	eventRepo := repository.NewEventRepository(db)
	participantRepo := repository.NewParticipantRepository(db)

	var embedder service.Embedder
	if cfg.OpenAIAPIKey != "" {
		embedder = embedding.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	}

	events := service.NewEventService(eventRepo, participantRepo, cfg.DefaultRoundDurationSec(), logger.Named("seed"))
	participants := service.NewParticipantService(participantRepo, eventRepo, embedder, logger.Named("seed"))

	name := os.Getenv("SEED_EVENT_NAME")
	if name == "" {
		name = "Teknopark Speed Networking"
	}
	status := models.EventStatusActive
	event, err := events.Create(ctx, &models.CreateEventRequest{Name: name, Status: &status})
	if err != nil {
		log.Fatal("Failed to create event:", err)
	}

	fmt.Printf("✅ Event created: %s (%s)\n", event.Name, event.ID)

	for _, demo := range demoParticipants {
		company := demo.company
		email := strings.ToLower(strings.ReplaceAll(demo.name, " ", ".")) + "@example.com"
		p, _, err := participants.Register(ctx, &models.RegisterParticipantRequest{
			EventID:       event.ID,
			Email:         email,
			FullName:      demo.name,
			Company:       &company,
			CurrentIntent: demo.intent,
		})
		if err != nil {
			log.Fatal("Failed to register participant:", err)
		}
		fmt.Printf("  - %s <%s> embedding=%t\n", p.FullName, p.Email, p.HasEmbedding())
	}

	fmt.Printf("\n📋 %d participants registered. Advance round 1 with:\n", len(demoParticipants))
	fmt.Printf("  curl -X POST http://localhost:%s/api/v1/events/%s/rounds\n", cfg.Port, event.ID)
}
