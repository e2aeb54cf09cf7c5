package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

// MaintenanceRepository runs housekeeping statements against the database.
type MaintenanceRepository struct {
	pool *pgxpool.Pool
}

func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{pool: pool}
}

// Analyze refreshes planner statistics for one table.
func (r *MaintenanceRepository) Analyze(ctx context.Context, table string) error {
	if _, err := r.pool.Exec(ctx, "ANALYZE "+pgx.Identifier{table}.Sanitize()); err != nil {
		return fmt.Errorf("analyze %s: %w", table, err)
	}
	return nil
}

// TableSizes reports the approximate row count and on-disk size of every user table, largest first.
func (r *MaintenanceRepository) TableSizes(ctx context.Context) ([]model.TableSize, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT relname, n_live_tup,
		        pg_total_relation_size(relid),
		        pg_size_pretty(pg_total_relation_size(relid))
		 FROM pg_stat_user_tables
		 ORDER BY pg_total_relation_size(relid) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.TableSize{}
	for rows.Next() {
		var t model.TableSize
		if err := rows.Scan(&t.Table, &t.RowCount, &t.TotalBytes, &t.Pretty); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
