package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/handler"
	"github.com/saborconflow/studio-backend/internal/middleware"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
)

const (
	publicCacheSeconds = 300
	uploadCacheSeconds = 31536000
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Page        *handler.PageHandler
	Testimonial *handler.TestimonialHandler
	ReviewLink  *handler.ReviewLinkHandler
	Contact     *handler.ContactHandler
	Booking     *handler.BookingHandler
	RSVP        *handler.RSVPHandler
	Class       *handler.ClassHandler
	Instructor  *handler.InstructorHandler
	Resource    *handler.ResourceHandler
	Gallery     *handler.GalleryHandler
	Event       *handler.EventHandler
	Playlist    *handler.PlaylistHandler
	Metrics     *handler.MetricsHandler
	Webhook     *handler.WebhookHandler
	Admin       *handler.AdminHandler
	AdminUser   *handler.AdminUserHandler
	AdminRole   *handler.AdminRoleHandler
	Dashboard   *handler.DashboardHandler
	Setting     *handler.SettingHandler
	System      *handler.SystemHandler
	WS          *handler.WSHandler
}

// Limiters holds the rate limiters applied to unauthenticated write routes.
type Limiters struct {
	Public *middleware.RateLimiter
	Login  *middleware.RateLimiter
}

// newEngine builds the base engine. ClientIP only honours forwarding headers
// from TrustedProxies; with none configured the socket address is used, so
// rate limit keys cannot be chosen by the client.
func newEngine(cfg *config.Config) (*gin.Engine, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	return router, nil
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	auth middleware.TokenValidator,
	handlers *Handlers,
	limiters *Limiters,
	cfg *config.Config,
) (*gin.Engine, error) {
	router, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper:   middleware.SkipUploads,
	}))

	// Local uploads are served by the API; S3 uploads come from the bucket's public URL.
	if cfg.Storage.Backend == "local" {
		uploadsGroup := router.Group("/uploads")
		uploadsGroup.Use(middleware.CacheControl(uploadCacheSeconds))
		{
			uploadsGroup.Static("/", cfg.Storage.UploadDir)
		}
	}

	router.GET("/health", handlers.System.Health)

	// ─── 1. Public Pages (cacheable) ───────────────────────────────────
	public := router.Group("/api/v1")
	{
		pages := public.Group("")
		pages.Use(middleware.CacheControl(publicCacheSeconds))
		{
			pages.GET("/home", handlers.Page.Home)
			pages.GET("/pricing", handlers.Page.Pricing)
			pages.GET("/schedule", handlers.Class.GetSchedule)
			pages.GET("/settings", handlers.Setting.GetPublicSettings)
			pages.GET("/instructors", handlers.Instructor.List)
			pages.GET("/instructors/:slug", handlers.Instructor.Profile)
			pages.GET("/resources", handlers.Resource.ListPublic)
			pages.GET("/gallery", handlers.Gallery.List)
			pages.GET("/events", handlers.Event.Upcoming)
			pages.GET("/events/:id", handlers.Event.Get)
			pages.GET("/playlists", handlers.Playlist.ListActive)
			pages.GET("/google-reviews", handlers.Testimonial.GoogleReviews)
			pages.GET("/testimonials", handlers.Testimonial.ListApproved)
			pages.GET("/testimonials/stats", handlers.Testimonial.GetStats)
		}

		// Token-bearing lookups are per visitor and must not be cached.
		private := public.Group("")
		private.Use(middleware.NoStore())
		{
			private.GET("/testimonials/review/:token", handlers.Testimonial.ResolveReviewLink)
			private.GET("/bookings/:booking_id", handlers.Booking.Get)
		}

		// ─── 2. Public Forms (rate limited) ────────────────────────────
		forms := public.Group("")
		forms.Use(limiters.Public.Middleware())
		{
			forms.POST("/contact", handlers.Contact.Submit)
			forms.POST("/testimonials", handlers.Testimonial.Submit)
			forms.POST("/bookings", handlers.Booking.Create)
			forms.POST("/rsvp", handlers.RSVP.Submit)
		}

		// Beacons are frequent and cheap; they are not rate limited.
		public.POST("/metrics", handlers.Metrics.Collect)

		// ─── 3. Webhooks (signature checked) ───────────────────────────
		public.GET("/webhooks/instagram", handlers.Webhook.VerifyInstagram)
		public.POST("/webhooks/instagram", handlers.Webhook.ReceiveInstagram)
	}

	// ─── 4. Admin Auth ─────────────────────────────────────────────────
	adminAuth := router.Group("/api/v1/admin/auth")
	adminAuth.Use(middleware.NoStore())
	{
		adminAuth.POST("/login", limiters.Login.Middleware(), handlers.Auth.AdminLogin)
		adminAuth.GET("/me", middleware.RequireAdminJWT(auth), handlers.Auth.GetAdminProfile)
	}

	// ─── 5. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.NoStore(), middleware.RequireAdminJWT(auth))
	{
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)
		adminAPI.GET("/metrics", handlers.Dashboard.GetMetricsSummary)
		adminAPI.GET("/system", handlers.System.Status)

		// Testimonials
		testimonials := adminAPI.Group("/testimonials")
		{
			testimonials.GET("", middleware.RequirePermission(model.PermissionTestimonialsRead), handlers.Testimonial.List)
			testimonials.GET("/:id", middleware.RequirePermission(model.PermissionTestimonialsRead), handlers.Testimonial.Get)
			testimonials.POST("/:id/approve", middleware.RequirePermission(model.PermissionTestimonialsModerate), handlers.Testimonial.Approve)
			testimonials.POST("/:id/reject", middleware.RequirePermission(model.PermissionTestimonialsModerate), handlers.Testimonial.Reject)
			testimonials.PUT("/:id/feature", middleware.RequirePermission(model.PermissionTestimonialsModerate), handlers.Testimonial.Feature)
			testimonials.DELETE("/:id", middleware.RequirePermission(model.PermissionTestimonialsModerate), handlers.Testimonial.Delete)
		}

		// Review links
		reviewLinks := adminAPI.Group("/review-links")
		{
			reviewLinks.GET("", middleware.RequireAnyPermission(model.PermissionReviewLinksWrite, model.PermissionTestimonialsRead), handlers.ReviewLink.List)
			reviewLinks.POST("", middleware.RequirePermission(model.PermissionReviewLinksWrite), handlers.ReviewLink.Create)
			reviewLinks.POST("/:id/deactivate", middleware.RequirePermission(model.PermissionReviewLinksWrite), handlers.ReviewLink.Deactivate)
		}

		// Contacts
		contacts := adminAPI.Group("/contacts")
		{
			contacts.GET("", middleware.RequirePermission(model.PermissionContactsRead), handlers.Contact.List)
			contacts.GET("/:id", middleware.RequirePermission(model.PermissionContactsRead), handlers.Contact.Get)
			contacts.PUT("/:id/status", middleware.RequirePermission(model.PermissionContactsWrite), handlers.Contact.UpdateStatus)
		}

		// Bookings & RSVPs
		bookings := adminAPI.Group("/bookings")
		{
			bookings.GET("", middleware.RequirePermission(model.PermissionBookingsRead), handlers.Booking.List)
			bookings.PUT("/:booking_id/status", middleware.RequirePermission(model.PermissionBookingsWrite), handlers.Booking.UpdateStatus)
			bookings.POST("/reminders", middleware.RequirePermission(model.PermissionBookingsWrite), handlers.Booking.SendReminders)
		}
		adminAPI.GET("/rsvps", middleware.RequirePermission(model.PermissionBookingsRead), handlers.RSVP.List)

		// ─── Content ───────────────────────────────────────────────────
		content := adminAPI.Group("")
		content.Use(middleware.RequirePermission(model.PermissionContentWrite))
		{
			content.GET("/classes", handlers.Class.ListClasses)
			content.GET("/classes/:id", handlers.Class.GetClass)
			content.POST("/classes", handlers.Class.CreateClass)
			content.PUT("/classes/:id", handlers.Class.UpdateClass)
			content.DELETE("/classes/:id", handlers.Class.DeleteClass)

			content.GET("/instructors", handlers.Instructor.List)
			content.GET("/instructors/:id", handlers.Instructor.Get)
			content.POST("/instructors", handlers.Instructor.Create)
			content.PUT("/instructors/:id", handlers.Instructor.Update)
			content.DELETE("/instructors/:id", handlers.Instructor.Delete)

			content.GET("/resources", handlers.Resource.ListAll)
			content.GET("/resources/:id", handlers.Resource.Get)
			content.POST("/resources", handlers.Resource.Create)
			content.PUT("/resources/:id", handlers.Resource.Update)
			content.DELETE("/resources/:id", handlers.Resource.Delete)

			content.GET("/gallery", handlers.Gallery.List)
			content.GET("/gallery/:id", handlers.Gallery.Get)
			content.POST("/gallery", handlers.Gallery.Create)
			content.PUT("/gallery/:id", handlers.Gallery.Update)
			content.DELETE("/gallery/:id", handlers.Gallery.Delete)

			content.GET("/playlists", handlers.Playlist.ListAll)
			content.POST("/playlists", handlers.Playlist.Save)
			content.PUT("/playlists/:id", handlers.Playlist.Update)
			content.DELETE("/playlists/:id", handlers.Playlist.Delete)
		}

		// Media uploads
		uploads := adminAPI.Group("")
		uploads.Use(middleware.RequirePermission(model.PermissionMediaUpload))
		{
			uploads.POST("/gallery/upload", handlers.Gallery.Upload)
			uploads.POST("/instructors/:id/photo", handlers.Instructor.UploadPhoto)
		}

		// ─── Integrations & Maintenance ────────────────────────────────
		sync := adminAPI.Group("/sync")
		sync.Use(middleware.RequirePermission(model.PermissionIntegrationsSync))
		{
			sync.POST("/facebook", handlers.Admin.SyncFacebook)
			sync.POST("/instagram", handlers.Admin.SyncInstagram)
			sync.POST("/google", handlers.Admin.SyncGoogleReviews)
			sync.POST("/spotify", handlers.Admin.SyncSpotify)
		}
		adminAPI.POST("/maintenance/optimize", middleware.RequirePermission(model.PermissionSettingsWrite), handlers.Admin.OptimizeDatabase)
		adminAPI.GET("/summary/weekly", middleware.RequirePermission(model.PermissionSettingsRead), handlers.Admin.PreviewWeeklySummary)
		adminAPI.POST("/summary/weekly", middleware.RequirePermission(model.PermissionSettingsWrite), handlers.Admin.SendWeeklySummary)

		// ─── Settings ──────────────────────────────────────────────────
		adminAPI.GET("/settings", middleware.RequirePermission(model.PermissionSettingsRead), handlers.Setting.GetAllSettings)
		adminAPI.PUT("/settings", middleware.RequirePermission(model.PermissionSettingsWrite), handlers.Setting.UpdateSettings)

		// ─── Staff & Roles ─────────────────────────────────────────────
		staff := adminAPI.Group("")
		staff.Use(middleware.RequirePermission(model.PermissionStaffManage))
		{
			staff.GET("/staff", handlers.AdminUser.ListAdmins)
			staff.POST("/staff", handlers.AdminUser.CreateAdmin)
			staff.PUT("/staff/:id", handlers.AdminUser.UpdateAdmin)
			staff.DELETE("/staff/:id", handlers.AdminUser.DeleteAdmin)

			staff.GET("/roles", handlers.AdminRole.ListRoles)
			staff.GET("/roles/:id", handlers.AdminRole.GetRole)
			staff.POST("/roles", handlers.AdminRole.CreateRole)
			staff.PUT("/roles/:id", handlers.AdminRole.UpdateRole)
			staff.DELETE("/roles/:id", handlers.AdminRole.DeleteRole)
			staff.GET("/permissions", handlers.AdminRole.GetPermissions)
		}
	}

	// ─── 6. WebSocket (token in query) ─────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(auth))
	{
		ws.GET("/admin/activity", handlers.WS.ActivityStream)
	}

	return router, nil
}
