package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/model"
)

// MaintainedTables lists the tables refreshed by an optimization run.
var MaintainedTables = []string{
	"testimonials",
	"review_links",
	"contact_submissions",
	"booking_confirmations",
	"rsvp_submissions",
	"classes",
	"instructors",
	"facebook_events",
	"media_gallery",
	"resources",
	"spotify_playlists",
	"performance_metrics",
	"app_settings",
	"admins",
}

type maintenanceStore interface {
	Analyze(ctx context.Context, table string) error
	TableSizes(ctx context.Context) ([]model.TableSize, error)
}

// MaintenanceService refreshes planner statistics and reports table sizes.
type MaintenanceService struct {
	repo    maintenanceStore
	metrics *MetricsService
	log     zerolog.Logger
}

func NewMaintenanceService(repo maintenanceStore, metrics *MetricsService, log zerolog.Logger) *MaintenanceService {
	return &MaintenanceService{
		repo:    repo,
		metrics: metrics,
		log:     log.With().Str("component", "maintenance_service").Logger(),
	}
}

// Optimize analyzes every table, prunes expired performance metrics and
// returns the resulting size report. A failing ANALYZE is logged and skipped.
func (s *MaintenanceService) Optimize(ctx context.Context) (*model.MaintenanceReport, error) {
	report := &model.MaintenanceReport{Analyzed: []string{}}

	if s.metrics != nil {
		pruned, err := s.metrics.Prune(ctx)
		if err != nil {
			return nil, err
		}
		report.PrunedMetrics = pruned
	}

	for _, table := range MaintainedTables {
		if err := s.repo.Analyze(ctx, table); err != nil {
			s.log.Warn().Err(err).Str("table", table).Msg("ANALYZE failed")
			continue
		}
		report.Analyzed = append(report.Analyzed, table)
	}

	sizes, err := s.repo.TableSizes(ctx)
	if err != nil {
		return nil, err
	}
	report.Tables = sizes

	s.log.Info().Int("analyzed", len(report.Analyzed)).Int64("pruned_metrics", report.PrunedMetrics).Msg("Database optimized")
	return report, nil
}
