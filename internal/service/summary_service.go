package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/notify"
)

type weeklyStats interface {
	Weekly(ctx context.Context, from, to time.Time) (*model.WeeklySummary, error)
}

// SummaryService builds and mails the weekly summary for the studio owners.
type SummaryService struct {
	stats    weeklyStats
	links    *ReviewLinkService
	notifier *notify.Service
	loc      *time.Location
	log      zerolog.Logger
}

func NewSummaryService(stats weeklyStats, links *ReviewLinkService, notifier *notify.Service, loc *time.Location, log zerolog.Logger) *SummaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryService{
		stats:    stats,
		links:    links,
		notifier: notifier,
		loc:      loc,
		log:      log.With().Str("component", "summary_service").Logger(),
	}
}

// WeekEnding returns the 7-day window that ends at the start of the day of t.
func (s *SummaryService) WeekEnding(t time.Time) (from, to time.Time) {
	t = t.In(s.loc)
	to = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	return to.AddDate(0, 0, -7), to
}

// Build collects the numbers for the week ending at the start of t's day.
func (s *SummaryService) Build(ctx context.Context, t time.Time) (*model.WeeklySummary, error) {
	from, to := s.WeekEnding(t)
	sum, err := s.stats.Weekly(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("weekly stats: %w", err)
	}
	sum.From, sum.To = from, to
	if s.links != nil {
		// Clicks are bucketed by ISO week, so the counter for the last day of the window is used.
		sum.ReviewLinkClicks = s.links.WeeklyClicks(ctx, to.Add(-time.Second))
	}
	return sum, nil
}

// Send builds the summary and mails it to the admin recipients.
func (s *SummaryService) Send(ctx context.Context, t time.Time) (*model.WeeklySummary, error) {
	sum, err := s.Build(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.SendWeeklySummary(ctx, sum); err != nil {
		return sum, fmt.Errorf("send weekly summary: %w", err)
	}
	s.log.Info().Time("from", sum.From).Time("to", sum.To).
		Int("new_testimonials", sum.NewTestimonials).Msg("Weekly summary sent")
	return sum, nil
}
