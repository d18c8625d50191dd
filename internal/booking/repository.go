package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookmycampus/campus-booking-backend/internal/pkg/apperror"
)

// PgxStore is the Postgres-backed Store. One row per booking, with a version
// column bumped on every write for optimistic concurrency control.
type PgxStore struct {
	pool *pgxpool.Pool
}

func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool}
}

const bookingColumns = "id, resource_id, resource_name, start_time, end_time, title, purpose, " +
	"requester_id, requester_name, department_id, status, created_at, decided_at, decided_by, " +
	"rejection_reason, version"

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var status string
	if err := row.Scan(
		&b.ID, &b.ResourceID, &b.ResourceName, &b.Window.Start, &b.Window.End,
		&b.Title, &b.Purpose, &b.RequesterID, &b.RequesterName, &b.DepartmentID,
		&status, &b.CreatedAt, &b.DecidedAt, &b.DecidedBy, &b.RejectionReason, &b.Version,
	); err != nil {
		return nil, err
	}
	b.Status = Status(status)
	return &b, nil
}

func (s *PgxStore) Insert(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"resource_id", "resource_name", "start_time", "end_time", "title", "purpose",
			"requester_id", "requester_name", "department_id", "status",
		).
		Values(
			b.ResourceID, b.ResourceName, b.Window.Start, b.Window.End, b.Title, b.Purpose,
			b.RequesterID, b.RequesterName, b.DepartmentID, b.Status,
		).
		Suffix("RETURNING id, created_at, version").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert booking query failed: %w", err)
	}

	if err := s.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.Version); err != nil {
		return apperror.Unavailable(fmt.Errorf("insert booking failed: %w", err))
	}
	return nil
}

func (s *PgxStore) Get(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperror.Unavailable(fmt.Errorf("get booking failed: %w", err))
	}
	return b, nil
}

func (s *PgxStore) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", b.Status).
		Set("decided_at", b.DecidedAt).
		Set("decided_by", b.DecidedBy).
		Set("rejection_reason", b.RejectionReason).
		Set("version", b.Version+1).
		Where(squirrel.Eq{"id": b.ID, "version": b.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("update booking failed: %w", err))
	}
	if ct.RowsAffected() == 0 {
		// Either the row is gone or someone else bumped the version first.
		if _, getErr := s.Get(ctx, b.ID); getErr != nil {
			return getErr
		}
		return ErrStaleWrite
	}

	b.Version++
	return nil
}

func (s *PgxStore) FindOverlapping(ctx context.Context, resourceID string, w Window, states []Status, excludeID string) ([]*Booking, error) {
	// Half-open overlap: existing.start < w.end AND existing.end > w.start.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": statusStrings(states)}).
		Where(squirrel.Lt{"start_time": w.End}).
		Where(squirrel.Gt{"end_time": w.Start}).
		OrderBy("start_time ASC")

	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlap query failed: %w", err)
	}

	return s.queryBookings(ctx, sql, args)
}

func (s *PgxStore) List(ctx context.Context, f Filter) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns).
		From("public.bookings").
		OrderBy("start_time ASC")

	if f.ResourceID != "" {
		query = query.Where(squirrel.Eq{"resource_id": f.ResourceID})
	}
	if f.RequesterID != "" {
		query = query.Where(squirrel.Eq{"requester_id": f.RequesterID})
	}
	if f.DepartmentID != "" {
		query = query.Where(squirrel.Eq{"department_id": f.DepartmentID})
	}
	if len(f.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"status": statusStrings(f.Statuses)})
	}
	if f.From != nil {
		query = query.Where(squirrel.Gt{"end_time": f.From})
	}
	if f.To != nil {
		query = query.Where(squirrel.Lt{"start_time": f.To})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	return s.queryBookings(ctx, sql, args)
}

func (s *PgxStore) queryBookings(ctx context.Context, sql string, args []interface{}) ([]*Booking, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("query bookings failed: %w", err))
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("read bookings failed: %w", err))
	}
	return out, nil
}

func statusStrings(states []Status) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}
