package service

import (
	"context"
	"time"

	"github.com/saborconflow/studio-backend/internal/model"
)

type dashboardStats interface {
	Dashboard(ctx context.Context, today time.Time) (*model.DashboardStats, error)
}

type statusCounter interface {
	CountByStatus(ctx context.Context) (map[model.TestimonialStatus]int, error)
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	stats        dashboardStats
	testimonials statusCounter
	metrics      *MetricsService
	loc          *time.Location
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(stats dashboardStats, testimonials statusCounter, metrics *MetricsService, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{stats: stats, testimonials: testimonials, metrics: metrics, loc: loc}
}

// GetDashboardData collects the headline counters, testimonial moderation
// counts and last week's Web Vitals.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*model.AdminDashboard, error) {
	now := time.Now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	stats, err := s.stats.Dashboard(ctx, today)
	if err != nil {
		return nil, err
	}

	counts, err := s.testimonials.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	data := &model.AdminDashboard{
		Stats:                stats,
		TestimonialsByStatus: counts,
		RecentMetrics:        []model.MetricSummary{},
	}
	if s.metrics != nil {
		recent, err := s.metrics.Summary(ctx, 7*24*time.Hour)
		if err != nil {
			return nil, err
		}
		data.RecentMetrics = recent
	}
	return data, nil
}
