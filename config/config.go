package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-derived setting the process needs.
// It is loaded once at startup and read-only afterwards.
type Config struct {
	AppPort    string
	AppBaseURL string

	MongoURI string
	DBName   string

	JWTSecret string

	AllowedOrigins []string

	// OTPStore selects the pending-login challenge backing:
	// "cookie", "mongo" or "redis".
	OTPStore      string
	RedisAddr     string
	RedisPassword string

	ElasticURL string

	EmailProvider string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	SendGridKey   string
	SenderEmail   string
	SenderName    string
}

// LoadEnv loads the .env file matching APP_ENV into the process environment.
func LoadEnv() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	envFile := fmt.Sprintf(".env.%s", env)

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("No %s file found, using process environment", envFile)
	}
}

// LoadConfig reads the configuration from the environment and fails fast
// on anything the server cannot run without.
func LoadConfig() Config {
	LoadEnv()

	cfg := Config{
		AppPort:       os.Getenv("APP_PORT"),
		AppBaseURL:    os.Getenv("APP_BASE_URL"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		DBName:        os.Getenv("DB_NAME"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		OTPStore:      os.Getenv("OTP_STORE"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		ElasticURL:    os.Getenv("ELASTICSEARCH_URL"),
		EmailProvider: os.Getenv("EMAIL_PROVIDER"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SendGridKey:   os.Getenv("SENDGRID_API_KEY"),
		SenderEmail:   os.Getenv("SENDER_EMAIL"),
		SenderName:    os.Getenv("SENDER_NAME"),
	}

	cfg.SMTPPort = 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Config error: SMTP_PORT is not a number: %v", err)
		}
		cfg.SMTPPort = port
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimSpace(o))
		}
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:4200", "http://localhost"}
	}

	if cfg.MongoURI == "" {
		log.Fatal("Config error: MONGODB_URI must not be empty")
	}
	if cfg.DBName == "" {
		log.Fatal("Config error: DB_NAME must not be empty")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("Config error: JWT_SECRET must not be empty")
	}
	if cfg.AppBaseURL == "" {
		cfg.AppBaseURL = "http://localhost:3000"
	}
	if cfg.OTPStore == "" {
		cfg.OTPStore = "mongo"
	}
	if cfg.OTPStore == "redis" && cfg.RedisAddr == "" {
		log.Fatal("Config error: REDIS_ADDR must not be empty when OTP_STORE=redis")
	}
	if cfg.ElasticURL == "" {
		cfg.ElasticURL = "http://localhost:9200"
	}

	return cfg
}
