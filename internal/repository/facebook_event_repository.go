package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const eventColumns = `id, facebook_id, name, description, start_time, end_time, place_name, cover_url, event_url,
	is_active, last_synced_at`

// FacebookEventRepository stores the local mirror of the page's Facebook events.
type FacebookEventRepository struct {
	pool *pgxpool.Pool
}

func NewFacebookEventRepository(pool *pgxpool.Pool) *FacebookEventRepository {
	return &FacebookEventRepository{pool: pool}
}

func scanEvent(row pgx.Row) (*model.FacebookEvent, error) {
	e := &model.FacebookEvent{}
	err := row.Scan(&e.ID, &e.FacebookID, &e.Name, &e.Description, &e.StartTime, &e.EndTime, &e.PlaceName,
		&e.CoverURL, &e.EventURL, &e.IsActive, &e.LastSyncedAt)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// Upcoming returns active events that have not ended at now, soonest first.
func (r *FacebookEventRepository) Upcoming(ctx context.Context, now time.Time, limit int) ([]model.FacebookEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM facebook_events
		 WHERE is_active AND COALESCE(end_time, start_time) >= $1
		 ORDER BY start_time
		 LIMIT $2`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.FacebookEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func (r *FacebookEventRepository) GetByID(ctx context.Context, id int) (*model.FacebookEvent, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM facebook_events WHERE id = $1`, id))
}

// Upsert inserts or refreshes an event by its Facebook id and reactivates it.
func (r *FacebookEventRepository) Upsert(ctx context.Context, e *model.FacebookEvent) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO facebook_events (facebook_id, name, description, start_time, end_time, place_name,
		                              cover_url, event_url, is_active, last_synced_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9)
		 ON CONFLICT (facebook_id) DO UPDATE
		 SET name = EXCLUDED.name, description = EXCLUDED.description, start_time = EXCLUDED.start_time,
		     end_time = EXCLUDED.end_time, place_name = EXCLUDED.place_name, cover_url = EXCLUDED.cover_url,
		     event_url = EXCLUDED.event_url, is_active = TRUE, last_synced_at = EXCLUDED.last_synced_at
		 RETURNING id, is_active`,
		e.FacebookID, e.Name, e.Description, e.StartTime, e.EndTime, e.PlaceName, e.CoverURL, e.EventURL, e.LastSyncedAt,
	).Scan(&e.ID, &e.IsActive)
	return translate(err)
}

// DeactivateMissing hides future events that are no longer published on the page.
func (r *FacebookEventRepository) DeactivateMissing(ctx context.Context, keep []string, now time.Time) (int, error) {
	if keep == nil {
		keep = []string{}
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE facebook_events SET is_active = FALSE
		 WHERE is_active AND start_time >= $1 AND NOT (facebook_id = ANY($2))`, now, keep)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
