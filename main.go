package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/churchops/church-backend/pkg/telemetry"
	v1 "github.com/churchops/church-backend/v1"
	"github.com/churchops/church-backend/v1/handlers"
	"github.com/churchops/church-backend/v1/middleware"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/utils"
)

func main() {
	// Load .env if present; real deployments configure through the environment
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, "church-backend")
	if err != nil {
		slog.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	dbConfig := v1.NewDatabaseConfig()
	db, err := v1.ConnectGormDB(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	jwtConfig := middleware.JWTAuthConfig{
		Secret:           os.Getenv("JWT_SECRET"),
		ExpectedIssuer:   getEnvOrDefault("JWT_ISSUER", "church-backend"),
		ExpectedAudience: getEnvOrDefault("JWT_AUDIENCE", "church-api"),
	}
	if err := jwtConfig.Validate(); err != nil {
		slog.Error("Invalid JWT configuration", "error", err)
		os.Exit(1)
	}
	jwtMiddleware := middleware.NewJWTAuthMiddleware(jwtConfig)

	authzMode := models.AuthorizationMode(getEnvOrDefault("AUTHORIZATION_MODE", string(models.AuthorizationModeFailClosed)))
	authzMiddleware := middleware.NewAuthorizationMiddlewareWithConfig(middleware.AuthorizationConfig{
		Mode:       authzMode,
		StrictMode: os.Getenv("AUTHORIZATION_STRICT") == "true",
	})

	v1Handler := handlers.NewV1Handler(db, jwtMiddleware)

	apiMux := http.NewServeMux()
	v1Handler.SetupV1Routes(apiMux)

	var apiHandler http.Handler = apiMux
	apiHandler = authzMiddleware.AuthorizeRequest(apiHandler)
	apiHandler = jwtMiddleware.AuthenticateJWT(apiHandler)
	apiHandler = middleware.NewCORSMiddleware()(apiHandler)
	apiHandler = telemetry.HTTPMetricsMiddleware(apiHandler)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", apiHandler)
	mux.Handle("/metrics", telemetry.Handler())
	mux.HandleFunc("/health", healthHandler(db))

	port := getEnvOrDefault("PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", port, "authorization_mode", authzMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry shutdown failed", "error", err)
	}

	slog.Info("Server stopped")
}

// healthHandler reports liveness including database connectivity
func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			utils.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}

		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
