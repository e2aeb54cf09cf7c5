package repository

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

// StatsRepository runs the cross-table counts behind the admin dashboard
// and the weekly summary email.
type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// Dashboard returns the live admin dashboard counters.
func (r *StatsRepository) Dashboard(ctx context.Context, today time.Time) (*model.DashboardStats, error) {
	s := &model.DashboardStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM testimonials WHERE status = 'pending'),
		   (SELECT COUNT(*) FROM contact_submissions WHERE status = 'new'),
		   (SELECT COUNT(*) FROM booking_confirmations
		      WHERE class_date >= $1 AND status IN ('pending', 'confirmed')),
		   (SELECT COALESCE(AVG(rating), 0) FROM testimonials WHERE status = 'approved'),
		   (SELECT COUNT(*) FROM review_links
		      WHERE is_active AND (expires_at IS NULL OR expires_at > NOW()))`,
		today,
	).Scan(&s.PendingTestimonials, &s.NewContacts, &s.UpcomingBookings, &s.AverageRating, &s.ActiveReviewLinks)
	if err != nil {
		return nil, err
	}
	s.AverageRating = roundTenth(s.AverageRating)
	return s, nil
}

// Weekly counts the activity created in [from, to).
func (r *StatsRepository) Weekly(ctx context.Context, from, to time.Time) (*model.WeeklySummary, error) {
	s := &model.WeeklySummary{From: from, To: to}
	err := r.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM testimonials WHERE created_at >= $1 AND created_at < $2),
		   (SELECT COUNT(*) FROM testimonials WHERE published_at >= $1 AND published_at < $2),
		   (SELECT COUNT(*) FROM testimonials WHERE status = 'pending'),
		   (SELECT COALESCE(AVG(rating), 0) FROM testimonials
		      WHERE status = 'approved' AND published_at >= $1 AND published_at < $2),
		   (SELECT COUNT(*) FROM contact_submissions WHERE created_at >= $1 AND created_at < $2),
		   (SELECT COUNT(*) FROM booking_confirmations WHERE created_at >= $1 AND created_at < $2),
		   (SELECT COUNT(*) FROM rsvp_submissions WHERE created_at >= $1 AND created_at < $2)`,
		from, to,
	).Scan(&s.NewTestimonials, &s.ApprovedTestimonials, &s.PendingTestimonials, &s.AverageRating,
		&s.NewContacts, &s.NewBookings, &s.NewRSVPs)
	if err != nil {
		return nil, err
	}
	s.AverageRating = roundTenth(s.AverageRating)
	return s, nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
