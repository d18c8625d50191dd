package resource

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts catalog entries that are not yet present. Existing rows are
// left untouched so a redeploy never rewrites the catalog under live bookings.
func Seed(ctx context.Context, pool *pgxpool.Pool, entries []Resource) error {
	const query = `
		INSERT INTO public.resources (id, name, category, capacity, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	for i, e := range entries {
		if _, err := pool.Exec(ctx, query, e.ID, e.Name, e.Category, e.Capacity, i); err != nil {
			return fmt.Errorf("seed resource %q failed: %w", e.ID, err)
		}
	}
	return nil
}

// Load reads the full catalog from the database and builds the Registry.
// Called once at startup; the returned Registry is immutable afterwards.
func Load(ctx context.Context, pool *pgxpool.Pool) (*Registry, error) {
	const query = `
		SELECT id, name, category, capacity
		FROM public.resources
		ORDER BY position
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load resource catalog failed: %w", err)
	}
	defer rows.Close()

	var entries []Resource
	for rows.Next() {
		var e Resource
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Capacity); err != nil {
			return nil, fmt.Errorf("scan resource failed: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read resource catalog failed: %w", err)
	}

	return NewRegistry(entries)
}
