package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"pdf_toolkit/api"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultMaxFileSize is the default maximum file size (50MB)
	DefaultMaxFileSize = 50 * 1024 * 1024

	// DefaultPort is the default server port
	DefaultPort = "8080"

	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 30 * time.Second

	// ServerWriteTimeout is the HTTP server write timeout, longer than any operation
	ServerWriteTimeout = 90 * time.Second

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 60 * time.Second

	// GracefulShutdownTimeout is the timeout for graceful shutdown
	GracefulShutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	config := &api.Config{
		Port:             getEnv("PORT", DefaultPort),
		MaxFileSize:      getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
		OperationTimeout: getEnvDuration("OPERATION_TIMEOUT", api.DefaultOperationTimeout),
		SessionTTL:       getEnvDuration("SESSION_TTL", api.DefaultSessionTTL),
	}
	setupLogging(getEnv("LOG_LEVEL", "info"))

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger())

	sessions := api.NewSessionStore(config.SessionTTL)
	api.SetupRoutes(r, config, sessions)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  "pdf_toolkit",
			"sessions": sessions.Len(),
		})
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sessions.Run(ctx, api.SessionSweepInterval)

	// Create HTTP server with timeout settings
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", config.Port),
		Handler:      r,
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		IdleTimeout:  ServerIdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.WithFields(log.Fields{
			"addr":              srv.Addr,
			"max_file_size":     config.MaxFileSize,
			"operation_timeout": config.OperationTimeout,
			"session_ttl":       config.SessionTTL,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

func setupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
