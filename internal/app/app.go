package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/database"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/logger"
	"github.com/saborconflow/studio-backend/internal/notify"
	"github.com/saborconflow/studio-backend/internal/repository"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/storage"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// Integrations are the external API clients.
type Integrations struct {
	Facebook  *integration.FacebookEventsAPI
	Instagram *integration.InstagramAPI
	Google    *integration.GoogleBusinessReviewsAPI
	Spotify   *integration.SpotifyAPI
}

// Services holds every service of the studio backend.
type Services struct {
	Activity    *service.ActivityService
	Auth        *service.AuthService
	Staff       *service.StaffService
	Setting     *service.SettingService
	Schedule    *service.ScheduleService
	Media       *service.MediaService
	ReviewLink  *service.ReviewLinkService
	Testimonial *service.TestimonialService
	Instructor  *service.InstructorService
	Event       *service.EventService
	Page        *service.PageService
	Contact     *service.ContactService
	Booking     *service.BookingService
	RSVP        *service.RSVPService
	Resource    *service.ResourceService
	Gallery     *service.GalleryService
	Playlist    *service.PlaylistService
	Metrics     *service.MetricsService
	Dashboard   *service.DashboardService
	Maintenance *service.MaintenanceService
	Summary     *service.SummaryService
}

// App owns the connections and the wired services. Both the HTTP server and
// the management commands build one.
type App struct {
	Config       *config.Config
	Log          zerolog.Logger
	Pool         *pgxpool.Pool
	Redis        *redis.Client
	Cache        *cache.Cache
	Notifier     *notify.Service
	Integrations Integrations
	Services     Services
}

// New connects to PostgreSQL and Redis and wires every service.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	a := &App{
		Config: cfg,
		Log:    log,
		Pool:   pool,
		Redis:  rdb,
		Cache:  cache.New(rdb, log),
	}
	if err := a.wire(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire() error {
	cfg, log, c := a.Config, a.Log, a.Cache

	// ─── Repositories ──────────────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(a.Pool)
	roleRepo := repository.NewRoleRepository(a.Pool)
	settingRepo := repository.NewSettingRepository(a.Pool)
	classRepo := repository.NewClassRepository(a.Pool)
	instructorRepo := repository.NewInstructorRepository(a.Pool)
	testimonialRepo := repository.NewTestimonialRepository(a.Pool)
	reviewLinkRepo := repository.NewReviewLinkRepository(a.Pool)
	contactRepo := repository.NewContactRepository(a.Pool)
	bookingRepo := repository.NewBookingRepository(a.Pool)
	rsvpRepo := repository.NewRSVPRepository(a.Pool)
	resourceRepo := repository.NewResourceRepository(a.Pool)
	galleryRepo := repository.NewGalleryRepository(a.Pool)
	eventRepo := repository.NewFacebookEventRepository(a.Pool)
	playlistRepo := repository.NewPlaylistRepository(a.Pool)
	metricRepo := repository.NewMetricRepository(a.Pool)
	statsRepo := repository.NewStatsRepository(a.Pool)
	maintenanceRepo := repository.NewMaintenanceRepository(a.Pool)

	// ─── Integrations ──────────────────────────────────────────────────
	a.Integrations = Integrations{
		Facebook:  integration.NewFacebookEventsAPI(cfg.Facebook, c),
		Instagram: integration.NewInstagramAPI(cfg.Instagram, c),
		Google:    integration.NewGoogleBusinessReviewsAPI(cfg.Google, c),
		Spotify:   integration.NewSpotifyAPI(cfg.Spotify, c),
	}

	// ─── Storage and email ─────────────────────────────────────────────
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	sender, err := notify.NewSender(cfg.Email, log)
	if err != nil {
		return fmt.Errorf("init email sender: %w", err)
	}
	notifier := notify.NewService(cfg, sender, a.Integrations.Google.WriteReviewURL(), log)
	a.Notifier = notifier

	// ─── Services ──────────────────────────────────────────────────────
	s := &a.Services
	s.Activity = service.NewActivityService(a.Redis, log)
	s.Auth = service.NewAuthService(cfg, adminRepo, roleRepo, log)
	s.Staff = service.NewStaffService(adminRepo, roleRepo, s.Auth, log)
	s.Setting = service.NewSettingService(settingRepo, c, log)
	s.Schedule = service.NewScheduleService(classRepo, c, log)
	s.Media = service.NewMediaService(store, cfg.Storage.MaxUploadBytes, log)
	s.ReviewLink = service.NewReviewLinkService(reviewLinkRepo, c, cfg.SiteURL, log)
	s.Testimonial = service.NewTestimonialService(testimonialRepo, s.ReviewLink, a.Integrations.Google, notifier, s.Activity, c, log)
	s.Instructor = service.NewInstructorService(instructorRepo, s.Schedule, s.Testimonial, s.Media, c, log)
	s.Event = service.NewEventService(eventRepo, a.Integrations.Facebook, s.Activity, c, log)
	s.Page = service.NewPageService(s.Testimonial, s.Event, s.Instructor, s.Schedule, s.Setting, c, log)
	s.Contact = service.NewContactService(contactRepo, notifier, s.Activity, log)
	s.Booking = service.NewBookingService(bookingRepo, s.Schedule, notifier, s.Activity, log)
	s.RSVP = service.NewRSVPService(rsvpRepo, s.Schedule, s.Event, notifier, s.Activity, log)
	s.Resource = service.NewResourceService(resourceRepo, c, log)
	s.Gallery = service.NewGalleryService(galleryRepo, a.Integrations.Instagram, s.Media, s.Activity, c, log)
	s.Playlist = service.NewPlaylistService(playlistRepo, a.Integrations.Spotify, c, log)
	s.Metrics = service.NewMetricsService(metricRepo, a.Redis, log)
	s.Dashboard = service.NewDashboardService(statsRepo, testimonialRepo, s.Metrics, cfg.Location())
	s.Maintenance = service.NewMaintenanceService(maintenanceRepo, s.Metrics, log)
	s.Summary = service.NewSummaryService(statsRepo, s.ReviewLink, notifier, cfg.Location(), log)

	return nil
}

// Close releases the Redis and PostgreSQL connections.
func (a *App) Close() {
	if err := a.Redis.Close(); err != nil {
		a.Log.Warn().Err(err).Msg("Redis close error")
	}
	a.Pool.Close()
}

// RunCommand bootstraps config, logger and connections, then runs a
// management command. Interrupts cancel ctx. Failures exit non-zero.
func RunCommand(name string, fn func(ctx context.Context, a *App) error) {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat).With().Str("command", name).Logger()
	validator.Setup(cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		log.Error().Err(err).Msg("Command failed")
		a.Close()
		os.Exit(1)
	}
}
