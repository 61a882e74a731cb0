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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"copy_ai_server/config"
	"copy_ai_server/internal/ai"
	"copy_ai_server/internal/api"
	"copy_ai_server/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// --- Load .env file ---
	// Must run before viper reads the environment.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		} else {
			log.Println("Info: .env file not found, relying on system environment variables.")
		}
	} else {
		log.Println("Info: Loaded environment variables from .env file.")
	}

	// --- Configuration Loading ---
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	// --- Dependency Initialization ---
	backend, err := newBackend(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("cannot initialize AI backend: %w", err)
	}
	log.Printf("Using AI backend %s", backend.Name())

	controller := session.NewController(backend)
	apiHandler := api.NewAPIHandler(controller)

	// --- Start API Server ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in Gin Debug Mode")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	api.RegisterRoutes(router, apiHandler)

	// No WriteTimeout: a generation request waits for the backend for as
	// long as the backend takes.
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s\n", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server listen error: %s\n", err)
		}
		log.Println("Server has stopped listening.")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal: %s. Shutting down server...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown error: %v", err)
	} else {
		log.Println("Server gracefully stopped.")
	}

	log.Println("Application exiting.")
	return nil
}

func newBackend(ctx context.Context, cfg config.Config) (ai.Backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return ai.NewOpenAIBackend(ai.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModelID,
			BaseURL: cfg.OpenAIBaseURL,
		})
	default:
		return ai.NewGeminiBackend(ctx, ai.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModelID,
			BaseURL: cfg.GeminiBaseURL,
		})
	}
}
