package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"leaderboard-service/handlers"
	"leaderboard-service/models"
	"leaderboard-service/services"
	"leaderboard-service/store"
	"leaderboard-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New()
	app.Use(logger.New())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(allowedOriginsList, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Competition{},
		&models.Player{},
		&models.Score{},
		&models.Snapshot{},
		&models.PlayerHistory{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.InitArchive(); err != nil {
		log.Printf("snapshot archive disabled: %v", err)
	}

	st := store.New(db)
	competitionService := services.NewCompetitionService(st)
	scoreService := services.NewScoreService(st)
	leaderboardService := services.NewLeaderboardService(st)
	rankService := services.NewRankService(st)
	finalizeService := services.NewFinalizeService(st)

	if os.Getenv("AUTO_FINALIZE") == "true" {
		finalizeService.StartAutoFinalizeScheduler()
		log.Println("Auto-finalize scheduler running (every 1m)")
	}

	handlers.SetupCompetitionRoutes(app, &handlers.CompetitionHandler{
		Competitions: competitionService,
		Scores:       scoreService,
		Leaderboards: leaderboardService,
		Ranks:        rankService,
		Finalizer:    finalizeService,
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Leaderboard service is running")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()
	log.Printf("Server running on http://localhost:%s", port)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
