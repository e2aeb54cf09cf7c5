package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

type RSVPRepository struct {
	pool *pgxpool.Pool
}

func NewRSVPRepository(pool *pgxpool.Pool) *RSVPRepository {
	return &RSVPRepository{pool: pool}
}

// Create inserts an RSVP. A second RSVP with the same email for the same
// class or event fails with ErrDuplicate.
func (r *RSVPRepository) Create(ctx context.Context, s *model.RSVPSubmission) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO rsvp_submissions (name, email, phone, class_id, facebook_event_id, guests)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		s.Name, s.Email, s.Phone, s.ClassID, s.FacebookEventID, s.Guests,
	).Scan(&s.ID, &s.CreatedAt)
	return translate(err)
}

// List returns RSVPs, newest first, optionally narrowed to one class or event.
func (r *RSVPRepository) List(ctx context.Context, classID, eventID, limit, offset int) ([]model.RSVPSubmission, int, error) {
	var w where
	if classID > 0 {
		w.add("class_id = ?", classID)
	}
	if eventID > 0 {
		w.add("facebook_event_id = ?", eventID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rsvp_submissions`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, email, phone, class_id, facebook_event_id, guests, created_at
		FROM rsvp_submissions` + w.String() + ` ORDER BY created_at DESC, id DESC` + w.page(limit, offset)
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.RSVPSubmission{}
	for rows.Next() {
		var s model.RSVPSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.ClassID, &s.FacebookEventID, &s.Guests, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}
