package booking

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bookmycampus/campus-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrTimeConflict      = apperror.New(http.StatusConflict, "time slot already booked")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrStartTimePast     = apperror.New(http.StatusBadRequest, "cannot book a resource for a past date")
	ErrWeekendBlocked    = apperror.New(http.StatusBadRequest, "bookings are not allowed on weekends")
	ErrOutsideHours      = apperror.New(http.StatusBadRequest, "booking falls outside allowed hours")
	ErrResourceNotFound  = apperror.New(http.StatusNotFound, "resource not found")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "booking is not in a state that allows this action")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrStaleWrite        = apperror.New(http.StatusConflict, "booking was modified concurrently, refetch and retry")
	ErrInvalidInput      = apperror.New(http.StatusBadRequest, "invalid input parameters")
)

// Status is the approval state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// CanTransitionTo encodes the state machine:
// pending -> approved|rejected|cancelled, approved -> cancelled,
// rejected and cancelled are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCancelled
	default:
		return false
	}
}

// Booking is a request to reserve a resource for a time window.
// Records are never deleted; cancelled and rejected bookings are kept
// for audit and calendar history.
type Booking struct {
	ID              string
	ResourceID      string
	ResourceName    string
	Window          Window
	Title           string
	Purpose         string
	RequesterID     string
	RequesterName   string
	DepartmentID    string
	Status          Status
	CreatedAt       time.Time
	DecidedAt       *time.Time
	DecidedBy       *string
	RejectionReason *string // set only when Status is rejected
	Version         int64   // bumped on every write, guards against lost updates
}

// Actor identifies the caller of an engine operation.
type Actor struct {
	ID           string
	Name         string
	DepartmentID string
	Approver     bool // holds the approver role (HOD)
}

// ConflictError reports every existing booking that blocks the attempted
// operation, so callers can display all blockers rather than the first one.
type ConflictError struct {
	BookingIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot already booked (conflicts: %s)", strings.Join(e.BookingIDs, ", "))
}

// Unwrap lets errors.Is(err, ErrTimeConflict) match, which also gives the
// conflict its 409 mapping.
func (e *ConflictError) Unwrap() error {
	return ErrTimeConflict
}

// Filter defines parameters for listing bookings.
type Filter struct {
	ResourceID   string
	RequesterID  string
	DepartmentID string
	Statuses     []Status
	From         *time.Time // keep bookings ending after this instant
	To           *time.Time // keep bookings starting before this instant
}
