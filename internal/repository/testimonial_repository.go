package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const testimonialColumns = `id, student_name, email, class_type, rating, content, video_url, photo_url,
	status, featured, instructor_id, review_link_id, google_review_id, reject_reason,
	published_at, created_at, updated_at`

// TestimonialRepository handles testimonial data access.
type TestimonialRepository struct {
	pool *pgxpool.Pool
}

// NewTestimonialRepository creates a new TestimonialRepository.
func NewTestimonialRepository(pool *pgxpool.Pool) *TestimonialRepository {
	return &TestimonialRepository{pool: pool}
}

func scanTestimonial(row pgx.Row) (*model.Testimonial, error) {
	t := &model.Testimonial{}
	err := row.Scan(
		&t.ID, &t.StudentName, &t.Email, &t.ClassType, &t.Rating, &t.Content, &t.VideoURL, &t.PhotoURL,
		&t.Status, &t.Featured, &t.InstructorID, &t.ReviewLinkID, &t.GoogleReviewID, &t.RejectReason,
		&t.PublishedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func collectTestimonials(rows pgx.Rows) ([]model.Testimonial, error) {
	defer rows.Close()
	list := []model.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// Create inserts a new testimonial.
func (r *TestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO testimonials (student_name, email, class_type, rating, content, video_url, photo_url,
		                           status, instructor_id, review_link_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		t.StudentName, t.Email, t.ClassType, t.Rating, t.Content, t.VideoURL, t.PhotoURL,
		t.Status, t.InstructorID, t.ReviewLinkID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

// GetByID retrieves a testimonial by ID.
func (r *TestimonialRepository) GetByID(ctx context.Context, id int) (*model.Testimonial, error) {
	return scanTestimonial(r.pool.QueryRow(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id))
}

// List returns one page of testimonials matching the filter plus the total count.
// Approved testimonials are ordered by publication date, everything else by submission date.
func (r *TestimonialRepository) List(ctx context.Context, f model.TestimonialFilter) ([]model.Testimonial, int, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.MinRating > 0 {
		w.add("rating >= ?", f.MinRating)
	}
	if f.ClassType != "" {
		w.add("class_type = ?", f.ClassType)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM testimonials`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY created_at DESC, id DESC"
	if f.Status == model.TestimonialApproved {
		order = " ORDER BY published_at DESC NULLS LAST, id DESC"
	}
	query := `SELECT ` + testimonialColumns + ` FROM testimonials` + w.String() + order + w.page(f.Limit, f.Offset)
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	list, err := collectTestimonials(rows)
	return list, total, err
}

// Featured returns approved, featured testimonials, newest first.
func (r *TestimonialRepository) Featured(ctx context.Context, limit int) ([]model.Testimonial, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials
		 WHERE status = 'approved' AND featured
		 ORDER BY published_at DESC NULLS LAST, id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectTestimonials(rows)
}

// ByInstructor returns the approved testimonials attributed to an instructor.
func (r *TestimonialRepository) ByInstructor(ctx context.Context, instructorID, limit int) ([]model.Testimonial, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials
		 WHERE status = 'approved' AND instructor_id = $1
		 ORDER BY published_at DESC NULLS LAST, id DESC
		 LIMIT $2`, instructorID, limit)
	if err != nil {
		return nil, err
	}
	return collectTestimonials(rows)
}

// Stats aggregates the approved testimonials.
func (r *TestimonialRepository) Stats(ctx context.Context) (*model.TestimonialStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rating, COUNT(*) FROM testimonials WHERE status = 'approved' GROUP BY rating`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &model.TestimonialStats{ByRating: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		stats.ByRating[rating] = count
		stats.TotalApproved += count
		sum += rating * count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if stats.TotalApproved > 0 {
		stats.AverageRating = roundTenth(float64(sum) / float64(stats.TotalApproved))
	}
	return stats, nil
}

// CountByStatus returns the number of testimonials per moderation status.
func (r *TestimonialRepository) CountByStatus(ctx context.Context) (map[model.TestimonialStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM testimonials GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[model.TestimonialStatus]int{
		model.TestimonialPending:  0,
		model.TestimonialApproved: 0,
		model.TestimonialRejected: 0,
	}
	for rows.Next() {
		var status model.TestimonialStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// SetStatus moves a testimonial to a new moderation status. Approval stamps
// published_at once; any other status clears it.
func (r *TestimonialRepository) SetStatus(ctx context.Context, id int, status model.TestimonialStatus, reason string) (*model.Testimonial, error) {
	return scanTestimonial(r.pool.QueryRow(ctx,
		`UPDATE testimonials
		 SET status = $1,
		     reject_reason = $2,
		     published_at = CASE WHEN $1 = 'approved' THEN COALESCE(published_at, NOW()) ELSE NULL END,
		     featured = CASE WHEN $1 = 'approved' THEN featured ELSE FALSE END,
		     updated_at = NOW()
		 WHERE id = $3
		 RETURNING `+testimonialColumns,
		status, reason, id))
}

// SetFeatured toggles the featured flag.
func (r *TestimonialRepository) SetFeatured(ctx context.Context, id int, featured bool) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE testimonials SET featured = $1, updated_at = NOW() WHERE id = $2`, featured, id))
}

// Delete removes a testimonial.
func (r *TestimonialRepository) Delete(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id))
}

// UpsertGoogleReview inserts or refreshes a testimonial mirrored from Google.
// It reports whether a new row was created.
func (r *TestimonialRepository) UpsertGoogleReview(ctx context.Context, t *model.Testimonial) (bool, error) {
	var inserted bool
	err := r.pool.QueryRow(ctx,
		`INSERT INTO testimonials (student_name, class_type, rating, content, photo_url, status,
		                           google_review_id, published_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($8, NOW()))
		 ON CONFLICT (google_review_id) DO UPDATE
		 SET rating = EXCLUDED.rating, content = EXCLUDED.content,
		     photo_url = EXCLUDED.photo_url, updated_at = NOW()
		 RETURNING id, (xmax = 0)`,
		t.StudentName, t.ClassType, t.Rating, t.Content, t.PhotoURL, t.Status,
		t.GoogleReviewID, t.PublishedAt,
	).Scan(&t.ID, &inserted)
	return inserted, translate(err)
}
