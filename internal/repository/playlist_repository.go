package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const playlistColumns = `id, spotify_id, class_type, title, description, embed_url, image_url, track_count,
	display_order, is_active, created_at, updated_at`

type PlaylistRepository struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepository(pool *pgxpool.Pool) *PlaylistRepository {
	return &PlaylistRepository{pool: pool}
}

func scanPlaylist(row pgx.Row) (*model.SpotifyPlaylist, error) {
	p := &model.SpotifyPlaylist{}
	err := row.Scan(&p.ID, &p.SpotifyID, &p.ClassType, &p.Title, &p.Description, &p.EmbedURL, &p.ImageURL,
		&p.TrackCount, &p.DisplayOrder, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// List returns playlists in display order.
func (r *PlaylistRepository) List(ctx context.Context, activeOnly bool) ([]model.SpotifyPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM spotify_playlists`
	if activeOnly {
		query += ` WHERE is_active`
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY display_order, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.SpotifyPlaylist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id int) (*model.SpotifyPlaylist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx, `SELECT `+playlistColumns+` FROM spotify_playlists WHERE id = $1`, id))
}

// Upsert inserts a playlist or updates the one with the same Spotify id.
// Empty image and zero track count keep what an earlier refresh stored.
func (r *PlaylistRepository) Upsert(ctx context.Context, p *model.SpotifyPlaylist) (bool, error) {
	var inserted bool
	err := r.pool.QueryRow(ctx,
		`INSERT INTO spotify_playlists (spotify_id, class_type, title, description, embed_url, image_url,
		                                track_count, display_order, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (spotify_id) DO UPDATE
		 SET class_type = EXCLUDED.class_type, title = EXCLUDED.title, description = EXCLUDED.description,
		     embed_url = EXCLUDED.embed_url,
		     image_url = COALESCE(NULLIF(EXCLUDED.image_url, ''), spotify_playlists.image_url),
		     track_count = COALESCE(NULLIF(EXCLUDED.track_count, 0), spotify_playlists.track_count),
		     display_order = EXCLUDED.display_order, is_active = EXCLUDED.is_active, updated_at = NOW()
		 RETURNING id, created_at, updated_at, (xmax = 0)`,
		p.SpotifyID, p.ClassType, p.Title, p.Description, p.EmbedURL, p.ImageURL, p.TrackCount,
		p.DisplayOrder, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &inserted)
	return inserted, translate(err)
}

func (r *PlaylistRepository) Update(ctx context.Context, p *model.SpotifyPlaylist) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE spotify_playlists SET spotify_id = $1, class_type = $2, title = $3, description = $4,
		        embed_url = $5, image_url = $6, track_count = $7, display_order = $8, is_active = $9,
		        updated_at = NOW()
		 WHERE id = $10`,
		p.SpotifyID, p.ClassType, p.Title, p.Description, p.EmbedURL, p.ImageURL, p.TrackCount,
		p.DisplayOrder, p.IsActive, p.ID))
}

func (r *PlaylistRepository) Delete(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx, `DELETE FROM spotify_playlists WHERE id = $1`, id))
}
