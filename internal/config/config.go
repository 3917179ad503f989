package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	JWTSecret      string `env:"JWT_SECRET"`
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"INFO"`
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"json"` // "json" or "sqlite"
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"techno_vidya.db"`
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{}
	if err := env.Parse(&AppConfig); err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	if AppConfig.StorageBackend != "json" && AppConfig.StorageBackend != "sqlite" {
		log.Fatalf("Unknown STORAGE_BACKEND %q (expected \"json\" or \"sqlite\")", AppConfig.StorageBackend)
	}
}
