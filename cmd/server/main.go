package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GreenShard-market/JC-detector/internal/config"
	"github.com/GreenShard-market/JC-detector/internal/groq"
	"github.com/GreenShard-market/JC-detector/internal/handler"
	"github.com/GreenShard-market/JC-detector/internal/logging"
	"github.com/GreenShard-market/JC-detector/internal/server"
	"github.com/GreenShard-market/JC-detector/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "configs/config.yml"
	}
	configPath := flag.String("config", defaultPath, "path to config.yml")
	flag.Parse()

	// Load configuration
	cfg, cfgErr := config.LoadConfig(*configPath)

	format := "console"
	if cfgErr == nil {
		format = cfg.Log.Format
	}

	// Initialize logger
	logger, err := logging.NewLogger(format)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfgErr != nil {
		logger.Fatal("Failed to load config", zap.Error(cfgErr))
	}

	logger.Info("Starting JC detector...")

	detection, err := config.LoadDetection(cfg.Detection.Path)
	if err != nil {
		logger.Fatal("Failed to load detection config",
			zap.String("path", cfg.Detection.Path),
			zap.Error(err))
	}

	logger.Info("Detection config loaded",
		zap.Int("direct_patterns", len(detection.DirectPatterns)),
		zap.Int("known_alts", len(detection.KnownAlts)),
		zap.Float64("max_edit_distance", detection.MaxEditDistance),
		zap.String("model", detection.AIModel))

	if cfg.AI.APIKey == "" {
		logger.Fatal("Groq API key not configured. Set GROQ_API_KEY or ai.api_key in config")
	}

	groqClient, err := groq.NewClient(groq.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Prompt:  detection.AIPrompt,
		Timeout: cfg.AI.Timeout,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Groq client", zap.Error(err))
	}

	classifier := service.NewClassifier(*detection, groqClient, logger)

	apiHandler := handler.NewHandler(classifier, logger)

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(apiHandler, logger)

	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	// Graceful shutdown
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server running", zap.String("address", serverAddr))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
