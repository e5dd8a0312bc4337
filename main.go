package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/config"
	"github.com/shariquenadim/Jio-EVA-auth/controllers"
	"github.com/shariquenadim/Jio-EVA-auth/routes"
	"github.com/shariquenadim/Jio-EVA-auth/services"
)

func main() {
	cfg := config.LoadConfig()

	// --- Clients ---
	mongoClient, db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	es, err := config.NewSearchClient(cfg)
	if err != nil {
		log.Fatalf("Could not create search client: %v", err)
	}

	// --- Services ---
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg)

	var otpStore services.OTPStore
	switch cfg.OTPStore {
	case "cookie":
		otpStore = services.NewCookieOTPStore()
	case "redis":
		rdb, err := config.ConnectRedis(cfg)
		if err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		defer rdb.Close()
		otpStore = services.NewRedisOTPStore(rdb)
	default:
		otpStore = services.NewMongoOTPStore(db)
	}

	cityService, err := services.NewCityService(es)
	if err != nil {
		log.Fatalf("Could not create city service: %v", err)
	}
	if err := cityService.LoadCities(); err != nil {
		// Search degrades but auth still works; don't take the server down.
		log.Printf("Error loading city data: %v", err)
	}

	// --- Controllers ---
	authController := controllers.NewAuthController(userService, otpStore, tokenService, emailService, cfg.AppBaseURL)
	emailController := controllers.NewEmailController(userService, tokenService)
	passwordController := controllers.NewPasswordController(userService, emailService, cfg.AppBaseURL)
	cityController := controllers.NewCityController(cityService)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRouter(router, authController, emailController, passwordController, cityController, tokenService)

	port := cfg.AppPort
	if port == "" {
		port = "3000"
	}
	log.Printf("Server is running on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Could not start server: %v", err)
	}
}
