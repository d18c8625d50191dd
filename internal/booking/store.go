package booking

import "context"

// Store is the durable collection of booking records. The engine is written
// once against this interface; MemStore backs tests and single-node dev,
// PgxStore backs production.
type Store interface {
	// Insert assigns a collision-free id, CreatedAt and the initial version,
	// then persists the record.
	Insert(ctx context.Context, b *Booking) error

	// Get returns the booking with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Booking, error)

	// Update replaces the stored record for b.ID. It fails with ErrNotFound
	// if the record is absent and with ErrStaleWrite if b.Version no longer
	// matches the stored version. On success the version is bumped both in
	// storage and on b.
	Update(ctx context.Context, b *Booking) error

	// FindOverlapping returns all bookings for the resource whose status is in
	// states and whose window overlaps w (half-open), ordered by start time.
	// excludeID, when non-empty, omits that booking (re-checking a booking
	// against itself during approval).
	FindOverlapping(ctx context.Context, resourceID string, w Window, states []Status, excludeID string) ([]*Booking, error)

	// List returns bookings matching the filter, ordered by start time.
	List(ctx context.Context, f Filter) ([]*Booking, error)
}
