package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rishindra2005/techno-vidya/internal/api"
	"github.com/rishindra2005/techno-vidya/internal/auth"
	"github.com/rishindra2005/techno-vidya/internal/config"
	"github.com/rishindra2005/techno-vidya/internal/core"
	"github.com/rishindra2005/techno-vidya/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize the record store
	var dbStore store.Store
	var err error
	switch config.AppConfig.StorageBackend {
	case "sqlite":
		dbStore, err = store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	case "json":
		dbStore, err = store.NewJSONStore(config.AppConfig.DataDir)
	default:
		// LoadConfig already rejects unknown backends; keep the two in sync.
		log.Fatalf("Unknown STORAGE_BACKEND %q", config.AppConfig.StorageBackend)
	}
	if err != nil {
		log.Fatalf("Failed to initialize %s store: %v", config.AppConfig.StorageBackend, err)
	}
	defer dbStore.Close()

	// Initialize LLM service
	llmService, err := core.NewLLMService(context.Background(), config.AppConfig.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize LLM service: %v", err)
	}
	defer llmService.Close()

	// Initialize identity and chat services
	authService := auth.NewService(dbStore, config.AppConfig.JWTSecret)
	chatService := core.NewChatService(dbStore, llmService)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(authService, chatService, dbStore)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
