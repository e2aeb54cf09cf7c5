package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const mediaColumns = `id, title, media_type, url, thumbnail_url, caption, category, instagram_id, permalink,
	is_featured, display_order, taken_at, created_at`

// GalleryRepository handles media gallery data access.
type GalleryRepository struct {
	pool *pgxpool.Pool
}

func NewGalleryRepository(pool *pgxpool.Pool) *GalleryRepository {
	return &GalleryRepository{pool: pool}
}

func scanMedia(row pgx.Row) (*model.MediaItem, error) {
	m := &model.MediaItem{}
	err := row.Scan(&m.ID, &m.Title, &m.MediaType, &m.URL, &m.ThumbnailURL, &m.Caption, &m.Category,
		&m.InstagramID, &m.Permalink, &m.IsFeatured, &m.DisplayOrder, &m.TakenAt, &m.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return m, nil
}

// List returns gallery items, featured first, then by display order and recency.
func (r *GalleryRepository) List(ctx context.Context, category string, mediaType model.MediaType, limit int) ([]model.MediaItem, error) {
	var w where
	if category != "" {
		w.add("category = ?", category)
	}
	if mediaType != "" {
		w.add("media_type = ?", mediaType)
	}

	query := `SELECT ` + mediaColumns + ` FROM media_gallery` + w.String() +
		` ORDER BY is_featured DESC, display_order, COALESCE(taken_at, created_at) DESC` + w.page(limit, 0)
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.MediaItem{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

func (r *GalleryRepository) GetByID(ctx context.Context, id int) (*model.MediaItem, error) {
	return scanMedia(r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media_gallery WHERE id = $1`, id))
}

func (r *GalleryRepository) Create(ctx context.Context, m *model.MediaItem) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO media_gallery (title, media_type, url, thumbnail_url, caption, category, is_featured,
		                            display_order, taken_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		m.Title, m.MediaType, m.URL, m.ThumbnailURL, m.Caption, m.Category, m.IsFeatured, m.DisplayOrder, m.TakenAt,
	).Scan(&m.ID, &m.CreatedAt)
	return translate(err)
}

func (r *GalleryRepository) Update(ctx context.Context, m *model.MediaItem) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE media_gallery SET title = $1, media_type = $2, url = $3, thumbnail_url = $4, caption = $5,
		        category = $6, is_featured = $7, display_order = $8
		 WHERE id = $9`,
		m.Title, m.MediaType, m.URL, m.ThumbnailURL, m.Caption, m.Category, m.IsFeatured, m.DisplayOrder, m.ID))
}

func (r *GalleryRepository) Delete(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, `DELETE FROM media_gallery WHERE id = $1`, id))
}

// UpsertInstagram mirrors one Instagram post. Curated fields (featured flag,
// display order, category) are left alone on refresh. It reports whether the
// post was new.
func (r *GalleryRepository) UpsertInstagram(ctx context.Context, m *model.MediaItem) (bool, error) {
	var inserted bool
	err := r.pool.QueryRow(ctx,
		`INSERT INTO media_gallery (title, media_type, url, thumbnail_url, caption, category, instagram_id,
		                            permalink, taken_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (instagram_id) DO UPDATE
		 SET url = EXCLUDED.url, thumbnail_url = EXCLUDED.thumbnail_url, caption = EXCLUDED.caption,
		     permalink = EXCLUDED.permalink
		 RETURNING id, created_at, (xmax = 0)`,
		m.Title, m.MediaType, m.URL, m.ThumbnailURL, m.Caption, m.Category, m.InstagramID, m.Permalink, m.TakenAt,
	).Scan(&m.ID, &m.CreatedAt, &inserted)
	return inserted, translate(err)
}
