package resource

import "fmt"

// Registry is the immutable catalog of bookable resources.
// It is built once at startup and shared read-only across the process;
// there is no runtime mutation API.
type Registry struct {
	byID    map[string]Resource
	ordered []Resource
}

// NewRegistry builds a Registry from catalog entries, validating each one.
// List order follows the order entries were given.
func NewRegistry(entries []Resource) (*Registry, error) {
	r := &Registry{
		byID:    make(map[string]Resource, len(entries)),
		ordered: make([]Resource, 0, len(entries)),
	}

	for _, e := range entries {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("catalog entry %q: id and name are required", e.ID)
		}
		if !e.Category.Valid() {
			return nil, fmt.Errorf("catalog entry %q: %w: %q", e.ID, ErrInvalidCategory, e.Category)
		}
		if e.Capacity <= 0 {
			return nil, fmt.Errorf("catalog entry %q: %w", e.ID, ErrInvalidCapacity)
		}
		if _, exists := r.byID[e.ID]; exists {
			return nil, fmt.Errorf("catalog entry %q: %w", e.ID, ErrDuplicateID)
		}
		r.byID[e.ID] = e
		r.ordered = append(r.ordered, e)
	}

	return r, nil
}

// Get returns the resource with the given id.
func (r *Registry) Get(id string) (Resource, error) {
	res, ok := r.byID[id]
	if !ok {
		return Resource{}, ErrNotFound
	}
	return res, nil
}

// List returns all resources in catalog insertion order.
func (r *Registry) List() []Resource {
	out := make([]Resource, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// DefaultCatalog is the campus catalog seeded on first startup.
func DefaultCatalog() []Resource {
	return []Resource{
		{ID: "seminar-hall", Name: "Seminar Hall", Category: CategorySeminarHall, Capacity: 100},
		{ID: "auditorium", Name: "Auditorium", Category: CategoryAuditorium, Capacity: 500},
		{ID: "lab", Name: "Lab", Category: CategoryLab, Capacity: 30},
	}
}
