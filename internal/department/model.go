package department

import "errors"

var ErrNotFound = errors.New("department not found")

// Department is an academic unit. Every user belongs to one, and approval
// scoping (when enabled) follows it.
type Department struct {
	ID   string
	Name string
}

// DefaultCatalog is seeded on first startup.
func DefaultCatalog() []Department {
	return []Department{
		{ID: "cs", Name: "Computer Science"},
		{ID: "ece", Name: "Electronics"},
		{ID: "mech", Name: "Mechanical"},
	}
}
