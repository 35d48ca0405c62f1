package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicops/clinic-api/internal/config"
	"github.com/clinicops/clinic-api/internal/handler"
	appointmentHandler "github.com/clinicops/clinic-api/internal/handler/appointment"
	authHandler "github.com/clinicops/clinic-api/internal/handler/auth"
	chatHandler "github.com/clinicops/clinic-api/internal/handler/chat"
	dashboardHandler "github.com/clinicops/clinic-api/internal/handler/dashboard"
	userHandler "github.com/clinicops/clinic-api/internal/handler/user"
	"github.com/clinicops/clinic-api/internal/middleware"
	"github.com/clinicops/clinic-api/internal/repository/postgres"
	"github.com/clinicops/clinic-api/internal/router"
	appointmentService "github.com/clinicops/clinic-api/internal/service/appointment"
	"github.com/clinicops/clinic-api/internal/service/assistant"
	authService "github.com/clinicops/clinic-api/internal/service/auth"
	chatService "github.com/clinicops/clinic-api/internal/service/chat"
	dashboardService "github.com/clinicops/clinic-api/internal/service/dashboard"
	userService "github.com/clinicops/clinic-api/internal/service/user"
	"github.com/clinicops/clinic-api/pkg/auth"
	"github.com/clinicops/clinic-api/pkg/logger"
	"github.com/clinicops/clinic-api/pkg/metrics"
	"github.com/clinicops/clinic-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories share one explicitly owned storage handle.
	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	messageRepo := postgres.NewMessageRepository(base)

	v := validator.New()
	m := metrics.NewMetrics("clinic")

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	userSvc := userService.NewService(userRepo, v)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo, v, m)
	dashboardSvc := dashboardService.NewService(userRepo, appointmentRepo)
	chatSvc := chatService.NewService(messageRepo, userRepo, assistant.NewCanned(), v, appLogger)
	authSvc := authService.NewService(userRepo, jwtSvc, v)

	r := router.NewRouter(
		authHandler.NewHandler(authSvc),
		userHandler.NewHandler(userSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		dashboardHandler.NewHandler(dashboardSvc),
		chatHandler.NewHandler(chatSvc),
		handler.NewHandler(db),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "clinic_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
