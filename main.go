package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"tutorhub/config"
	"tutorhub/controllers"
	"tutorhub/helpers"
	"tutorhub/middleware"
	"tutorhub/routes"
	"tutorhub/services"
	"tutorhub/tasks"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.ConnectMongo(cfg)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	redisClient := config.ConnectRedis(cfg)

	store := services.NewStore(db)
	issuer := helpers.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	limiter := middleware.NewRateLimiter(redisClient)

	ctx := context.Background()
	ai, err := services.NewAI(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("AI client unavailable: %v", err)
	}

	runner := tasks.NewRunner(cfg.TaskWorkers, 100)
	runner.Start(ctx)
	tasks.StartMaintenance(ctx, runner, store, cfg.MaintenanceEvery, cfg.ChatRetention, cfg.CleanupMinMessages)

	ctl := routes.Controllers{
		Auth:    &controllers.AuthController{Store: store, Tokens: issuer},
		Student: &controllers.StudentController{Store: store},
		Tutor:   &controllers.TutorController{Store: store},
		Admin: &controllers.AdminController{
			Store:              store,
			Runner:             runner,
			Validate:           validator.New(),
			ChatRetention:      cfg.ChatRetention,
			CleanupMinMessages: cfg.CleanupMinMessages,
		},
		AI: &controllers.AIController{Store: store, AI: ai, Runner: runner},
	}

	router := gin.Default()
	routes.Register(router, ctl, issuer, limiter)

	log.Printf("Starting server on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
