package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const contactColumns = `id, name, email, phone, interest, message, status, admin_notes, created_at, updated_at`

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func scanContact(row pgx.Row) (*model.ContactSubmission, error) {
	c := &model.ContactSubmission{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Interest, &c.Message, &c.Status, &c.AdminNotes,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *ContactRepository) Create(ctx context.Context, c *model.ContactSubmission) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contact_submissions (name, email, phone, interest, message)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, status, created_at, updated_at`,
		c.Name, c.Email, c.Phone, c.Interest, c.Message,
	).Scan(&c.ID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

func (r *ContactRepository) GetByID(ctx context.Context, id int) (*model.ContactSubmission, error) {
	return scanContact(r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contact_submissions WHERE id = $1`, id))
}

// List returns contact submissions, newest first, optionally filtered by status.
func (r *ContactRepository) List(ctx context.Context, status model.ContactStatus, limit, offset int) ([]model.ContactSubmission, int, error) {
	var w where
	if status != "" {
		w.add("status = ?", status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_submissions`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + contactColumns + ` FROM contact_submissions` + w.String() +
		` ORDER BY created_at DESC, id DESC` + w.page(limit, offset)
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.ContactSubmission{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	return list, total, rows.Err()
}

// UpdateStatus records triage progress on a submission.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id int, status model.ContactStatus, notes string) (*model.ContactSubmission, error) {
	return scanContact(r.pool.QueryRow(ctx,
		`UPDATE contact_submissions SET status = $1, admin_notes = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING `+contactColumns,
		status, notes, id))
}
