package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/service"
)

type reminderSender interface {
	SendReminders(ctx context.Context, day time.Time) (*service.ReminderResult, error)
}

type syncer func(ctx context.Context) (*model.SyncResult, error)

type summarySender interface {
	Send(ctx context.Context, t time.Time) (*model.WeeklySummary, error)
}

// StudioJobs is the set of recurring studio jobs.
type StudioJobs struct {
	Bookings  reminderSender
	Events    syncer
	Instagram syncer
	Summary   summarySender
}

// Build returns the jobs configured by cfg.
func (j StudioJobs) Build(cfg config.CronConfig, log zerolog.Logger) []Job {
	return []Job{
		{
			Name: "booking_reminders",
			Spec: cfg.BookingReminders,
			Run: func(ctx context.Context) error {
				res, err := j.Bookings.SendReminders(ctx, service.Tomorrow())
				if err != nil {
					return err
				}
				if res.Due > 0 {
					log.Info().Str("date", res.Date).Int("sent", res.Sent).Int("failed", res.Failed).Msg("Booking reminders sent")
				}
				return nil
			},
		},
		{
			Name: "facebook_sync",
			Spec: cfg.FacebookSync,
			Run:  logSync(j.Events, "facebook", log),
		},
		{
			Name: "instagram_sync",
			Spec: cfg.InstagramSync,
			Run:  logSync(j.Instagram, "instagram", log),
		},
		{
			Name: "weekly_summary",
			Spec: cfg.WeeklySummary,
			Run: func(ctx context.Context) error {
				_, err := j.Summary.Send(ctx, time.Now())
				return err
			},
		},
	}
}

func logSync(sync syncer, source string, log zerolog.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		res, err := sync(ctx)
		if errors.Is(err, integration.ErrNotConfigured) {
			log.Debug().Str("source", source).Msg("Sync skipped, integration not configured")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().
			Str("source", source).
			Int("fetched", res.Fetched).
			Int("upserted", res.Upserted).
			Int("deactivated", res.Deactivated).
			Msg("Sync complete")
		return nil
	}
}
