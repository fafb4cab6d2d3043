package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"journal-backend/internal/config"
	"journal-backend/internal/features/encryption/secrets"
	"journal-backend/internal/features/migrations"
	"journal-backend/internal/features/reports"
	system_healthcheck "journal-backend/internal/features/system/healthcheck"
	env_utils "journal-backend/internal/util/env"
	"journal-backend/internal/util/logger"
	"journal-backend/internal/util/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// @title Journal Backend API
// @version 1.0
// @description Report storage and maintenance API

// @host localhost:4005
// @BasePath /api/v1
// @schemes http
func main() {
	log := logger.GetLogger()

	// the server starts without a key, but migrations will refuse to run
	if _, err := secrets.GetSecretKeyService().GetSecretKey(); err != nil {
		log.Warn("Reports encryption key is not usable", "error", err)
	}

	gin.SetMode(gin.ReleaseMode)
	ginApp := gin.Default()

	ginApp.Use(gzip.Gzip(gzip.DefaultCompression))

	enableCors(ginApp)
	setUpDependencies()
	setUpRoutes(ginApp)

	startServerWithGracefulShutdown(log, ginApp)
}

func startServerWithGracefulShutdown(log *slog.Logger, app *gin.Engine) {
	cfg := config.GetEnv()

	host := ""
	if cfg.EnvMode == env_utils.EnvModeDevelopment {
		// for dev we use localhost to avoid firewall
		// requests on each run for Windows
		host = "127.0.0.1"
	}

	srv := &http.Server{
		Addr:    host + ":" + cfg.HTTPPort,
		Handler: app,
	}

	go func() {
		log.Info("Starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen:", "error", err)
		}
	}()

	log.Info("Journal backend is running!", "http", "http://localhost:"+cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	// in-flight migrations see the cancelled request context and stop
	// before their next row
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown:", "error", err)
	}

	log.Info("Server gracefully stopped")
}

func setUpRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	system_healthcheck.GetHealthcheckController().RegisterRoutes(v1)

	// migration routes carry their own development-only guard
	migrations.GetMigrationController().RegisterRoutes(v1)

	// decrypted reports are an operator tool, never exposed in production
	developmentOnly := v1.Group("")
	developmentOnly.Use(middleware.DevelopmentOnlyMiddleware(func() env_utils.EnvMode {
		return config.GetEnv().EnvMode
	}))
	reports.GetReportController().RegisterRoutes(developmentOnly)
}

func setUpDependencies() {
	migrations.SetupDependencies()
}

func enableCors(ginApp *gin.Engine) {
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		ginApp.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{
				"Origin",
				"Content-Length",
				"Content-Type",
				"Accept",
				"Accept-Encoding",
			},
		}))
	}
}
