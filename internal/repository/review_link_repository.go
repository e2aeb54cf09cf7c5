package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const reviewLinkColumns = `l.id, l.token, l.campaign_name, l.instructor_id, COALESCE(i.name, ''), l.class_type,
	l.is_active, l.expires_at, l.click_count, l.conversion_count, l.created_at`

const reviewLinkFrom = ` FROM review_links l LEFT JOIN instructors i ON i.id = l.instructor_id`

// ReviewLinkRepository handles review link data access.
type ReviewLinkRepository struct {
	pool *pgxpool.Pool
}

func NewReviewLinkRepository(pool *pgxpool.Pool) *ReviewLinkRepository {
	return &ReviewLinkRepository{pool: pool}
}

func scanReviewLink(row pgx.Row) (*model.ReviewLink, error) {
	l := &model.ReviewLink{}
	err := row.Scan(&l.ID, &l.Token, &l.CampaignName, &l.InstructorID, &l.InstructorName, &l.ClassType,
		&l.IsActive, &l.ExpiresAt, &l.ClickCount, &l.ConversionCount, &l.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return l, nil
}

// Create inserts a new review link.
func (r *ReviewLinkRepository) Create(ctx context.Context, l *model.ReviewLink) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO review_links (token, campaign_name, instructor_id, class_type, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, is_active, created_at`,
		l.Token, l.CampaignName, l.InstructorID, l.ClassType, l.ExpiresAt,
	).Scan(&l.ID, &l.IsActive, &l.CreatedAt)
	return translate(err)
}

func (r *ReviewLinkRepository) GetByID(ctx context.Context, id int) (*model.ReviewLink, error) {
	return scanReviewLink(r.pool.QueryRow(ctx, `SELECT `+reviewLinkColumns+reviewLinkFrom+` WHERE l.id = $1`, id))
}

func (r *ReviewLinkRepository) GetByToken(ctx context.Context, token string) (*model.ReviewLink, error) {
	return scanReviewLink(r.pool.QueryRow(ctx, `SELECT `+reviewLinkColumns+reviewLinkFrom+` WHERE l.token = $1`, token))
}

// List returns review links, newest first.
func (r *ReviewLinkRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]model.ReviewLink, int, error) {
	var w where
	if activeOnly {
		w.addRaw("l.is_active AND (l.expires_at IS NULL OR l.expires_at > NOW())")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM review_links l`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + reviewLinkColumns + reviewLinkFrom + w.String() + ` ORDER BY l.created_at DESC` + w.page(limit, offset)
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	links := []model.ReviewLink{}
	for rows.Next() {
		l, err := scanReviewLink(rows)
		if err != nil {
			return nil, 0, err
		}
		links = append(links, *l)
	}
	return links, total, rows.Err()
}

// RecordClick atomically bumps the click counter of a link and returns it.
func (r *ReviewLinkRepository) RecordClick(ctx context.Context, token string) (*model.ReviewLink, error) {
	return scanReviewLink(r.pool.QueryRow(ctx,
		`WITH l AS (
		   UPDATE review_links SET click_count = click_count + 1
		   WHERE token = $1
		   RETURNING *
		 )
		 SELECT `+reviewLinkColumns+` FROM l LEFT JOIN instructors i ON i.id = l.instructor_id`, token))
}

// RecordConversion bumps the conversion counter after a testimonial is submitted through the link.
func (r *ReviewLinkRepository) RecordConversion(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE review_links SET conversion_count = conversion_count + 1 WHERE id = $1`, id))
}

func (r *ReviewLinkRepository) Deactivate(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, `UPDATE review_links SET is_active = FALSE WHERE id = $1`, id))
}
