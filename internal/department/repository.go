package department

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// Seed inserts missing departments; existing rows are untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, entries []Department) error {
	const query = `
		INSERT INTO public.departments (id, name, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	for i, d := range entries {
		if _, err := pool.Exec(ctx, query, d.ID, d.Name, i); err != nil {
			return fmt.Errorf("seed department %q failed: %w", d.ID, err)
		}
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Department, error) {
	const query = `
		SELECT id, name
		FROM public.departments
		WHERE id = $1
	`

	var d Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get department failed: %w", err)
	}
	return &d, nil
}

func (r *pgxRepository) List(ctx context.Context) ([]*Department, error) {
	const query = `
		SELECT id, name
		FROM public.departments
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list departments failed: %w", err)
	}
	defer rows.Close()

	var out []*Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scan department failed: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
