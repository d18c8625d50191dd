package resource

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrDuplicateID     = errors.New("duplicate resource id in catalog")
	ErrInvalidCategory = errors.New("invalid resource category")
	ErrInvalidCapacity = errors.New("capacity must be positive")
)

// Category classifies a bookable campus asset.
type Category string

const (
	CategorySeminarHall Category = "seminar-hall"
	CategoryAuditorium  Category = "auditorium"
	CategoryLab         Category = "lab"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategorySeminarHall, CategoryAuditorium, CategoryLab:
		return true
	}
	return false
}

// Resource is a catalog entry for a bookable asset (hall, auditorium, lab).
// Entries are created at configuration time and never mutated afterwards.
type Resource struct {
	ID       string
	Name     string
	Category Category
	Capacity int
}
