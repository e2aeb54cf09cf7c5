package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/app"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/handler"
	"github.com/saborconflow/studio-backend/internal/logger"
	"github.com/saborconflow/studio-backend/internal/middleware"
	"github.com/saborconflow/studio-backend/internal/router"
	"github.com/saborconflow/studio-backend/internal/scheduler"
	"github.com/saborconflow/studio-backend/internal/validator"
	"github.com/saborconflow/studio-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("timezone", cfg.Timezone).
		Msg("Starting Sabor Con Flow backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup(cfg.Location())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect and Wire Services ─────────────────────────────────────
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.Close()
	svc := a.Services

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(svc.Auth),
		Page:        handler.NewPageHandler(svc.Page),
		Testimonial: handler.NewTestimonialHandler(svc.Testimonial, svc.ReviewLink),
		ReviewLink:  handler.NewReviewLinkHandler(svc.ReviewLink),
		Contact:     handler.NewContactHandler(svc.Contact),
		Booking:     handler.NewBookingHandler(svc.Booking),
		RSVP:        handler.NewRSVPHandler(svc.RSVP),
		Class:       handler.NewClassHandler(svc.Schedule),
		Instructor:  handler.NewInstructorHandler(svc.Instructor),
		Resource:    handler.NewResourceHandler(svc.Resource),
		Gallery:     handler.NewGalleryHandler(svc.Gallery),
		Event:       handler.NewEventHandler(svc.Event),
		Playlist:    handler.NewPlaylistHandler(svc.Playlist),
		Metrics:     handler.NewMetricsHandler(svc.Metrics),
		Webhook:     handler.NewWebhookHandler(a.Integrations.Instagram, svc.Gallery, log),
		Admin: handler.NewAdminHandler(
			svc.Event, svc.Gallery, svc.Testimonial, svc.Playlist, svc.Maintenance, svc.Summary,
		),
		AdminUser: handler.NewAdminUserHandler(svc.Staff),
		AdminRole: handler.NewAdminRoleHandler(svc.Staff),
		Dashboard: handler.NewDashboardHandler(svc.Dashboard, svc.Metrics),
		Setting:   handler.NewSettingHandler(svc.Setting),
		System:    handler.NewSystemHandler(a.Pool, a.Redis, log),
		WS:        handler.NewWSHandler(svc.Activity, log, cfg.AllowedOrigins),
	}

	limiters := &router.Limiters{
		Public: middleware.NewRateLimiter(a.Redis, "public", cfg.PublicRateLimit, time.Minute, log),
		Login:  middleware.NewRateLimiter(a.Redis, "login", loginAttemptsPerMinute, time.Minute, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	metricsWorker := worker.NewMetricsWorker(a.Redis, svc.Metrics, log)
	go metricsWorker.Start(workerCtx)

	// ─── Start Scheduler ──────────────────────────────────────────────
	sched := scheduler.New(a.Redis, cfg.Location(), log)
	jobs := scheduler.StudioJobs{
		Bookings:  svc.Booking,
		Events:    svc.Event.Sync,
		Instagram: svc.Gallery.SyncInstagram,
		Summary:   svc.Summary,
	}.Build(cfg.Cron, log)
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule job")
		}
	}
	sched.Start()

	// ─── Setup Router ──────────────────────────────────────────────────
	r, err := router.SetupRouter(svc.Auth, handlers, limiters, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up router")
	}

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Let running jobs finish.
	sched.Stop(shutdownCtx)

	// 3. Stop the metrics worker and wait for the queue to drain.
	workerCancel()
	select {
	case <-metricsWorker.Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("Metrics worker did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}

const loginAttemptsPerMinute = 5

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
