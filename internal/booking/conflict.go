package booking

import "context"

// Detector answers "which active bookings overlap this candidate window".
// It reads store state at call time with no caching: a stale answer here is
// how double bookings happen.
type Detector struct {
	store Store
}

func NewDetector(store Store) *Detector {
	return &Detector{store: store}
}

// Conflicts returns the ids of every booking for the resource whose status is
// in states and whose window overlaps w, excluding excludeID. The full set is
// returned, not just the first hit.
func (d *Detector) Conflicts(ctx context.Context, resourceID string, w Window, states []Status, excludeID string) ([]string, error) {
	overlapping, err := d.store.FindOverlapping(ctx, resourceID, w, states, excludeID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(overlapping))
	for _, b := range overlapping {
		ids = append(ids, b.ID)
	}
	return ids, nil
}
