package booking

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bookmycampus/campus-booking-backend/internal/resource"
)

// Notifier is informed after every committed state transition. Delivery
// (mail, push) lives outside the engine; failures are logged, never
// propagated, so a broken gateway cannot fail a booking.
type Notifier interface {
	BookingSubmitted(ctx context.Context, b *Booking) error
	BookingApproved(ctx context.Context, b *Booking) error
	BookingRejected(ctx context.Context, b *Booking) error
	BookingCancelled(ctx context.Context, b *Booking) error
}

// SubmitRequest carries a new booking request into the engine.
type SubmitRequest struct {
	ResourceID string
	Start      time.Time
	End        time.Time
	Title      string
	Purpose    string
	Requester  Actor
}

// Engine owns the booking lifecycle: it validates requests, detects
// conflicts, persists state transitions and informs the notifier.
// No other component mutates a booking after creation.
type Engine struct {
	store    Store
	registry *resource.Registry
	detector *Detector
	notifier Notifier
	policy   Policy

	// Per-resource locks serialize check-then-write for Submit and Approve.
	// Bookings on different resources never conflict, so no global lock.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(store Store, registry *resource.Registry, notifier Notifier, policy Policy) *Engine {
	return &Engine{
		store:    store,
		registry: registry,
		detector: NewDetector(store),
		notifier: notifier,
		policy:   policy,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockResource acquires the mutex for one resource, creating it on first use.
func (e *Engine) lockResource(resourceID string) func() {
	e.mu.Lock()
	l, ok := e.locks[resourceID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[resourceID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Submit validates the request, checks for conflicts and persists a new
// pending booking. Conflicting windows fail with a ConflictError listing
// every blocker; times are never silently adjusted.
func (e *Engine) Submit(ctx context.Context, req SubmitRequest) (*Booking, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Purpose) == "" {
		return nil, ErrInvalidInput
	}
	if req.Requester.ID == "" {
		return nil, ErrInvalidInput
	}

	w := NewWindow(req.Start, req.End)
	if err := w.Validate(e.policy, time.Now().UTC()); err != nil {
		return nil, err
	}

	res, err := e.registry.Get(req.ResourceID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	unlock := e.lockResource(req.ResourceID)
	defer unlock()

	ids, err := e.detector.Conflicts(ctx, req.ResourceID, w, e.policy.BlockingStates(), "")
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return nil, &ConflictError{BookingIDs: ids}
	}

	b := &Booking{
		ResourceID:    res.ID,
		ResourceName:  res.Name,
		Window:        w,
		Title:         strings.TrimSpace(req.Title),
		Purpose:       strings.TrimSpace(req.Purpose),
		RequesterID:   req.Requester.ID,
		RequesterName: req.Requester.Name,
		DepartmentID:  req.Requester.DepartmentID,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := e.store.Insert(ctx, b); err != nil {
		return nil, err
	}

	e.notify(ctx, e.notifier.BookingSubmitted, b)
	return b, nil
}

// Approve transitions a pending booking to approved. Conflicts are re-checked
// against approved bookings under the resource lock, because other requests
// may have been approved since submission; "no conflict at submit" is not
// "no conflict at approval".
func (e *Engine) Approve(ctx context.Context, id string, approver Actor) (*Booking, error) {
	if !approver.Approver {
		return nil, ErrPermissionDenied
	}

	b, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.policy.ScopeApprovals && approver.DepartmentID != b.DepartmentID {
		return nil, ErrPermissionDenied
	}

	unlock := e.lockResource(b.ResourceID)
	defer unlock()

	// Re-read under the lock; the state may have moved while we waited.
	b, err = e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(StatusApproved) {
		return nil, ErrInvalidTransition
	}

	ids, err := e.detector.Conflicts(ctx, b.ResourceID, b.Window, []Status{StatusApproved}, b.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return nil, &ConflictError{BookingIDs: ids}
	}

	now := time.Now().UTC()
	b.Status = StatusApproved
	b.DecidedAt = &now
	b.DecidedBy = &approver.ID

	if err := e.store.Update(ctx, b); err != nil {
		return nil, err
	}

	e.notify(ctx, e.notifier.BookingApproved, b)
	return b, nil
}

// Reject transitions a pending booking to rejected, recording the reason.
// An empty reason is allowed.
func (e *Engine) Reject(ctx context.Context, id string, approver Actor, reason string) (*Booking, error) {
	if !approver.Approver {
		return nil, ErrPermissionDenied
	}

	b, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.policy.ScopeApprovals && approver.DepartmentID != b.DepartmentID {
		return nil, ErrPermissionDenied
	}
	if !b.Status.CanTransitionTo(StatusRejected) {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	b.Status = StatusRejected
	b.DecidedAt = &now
	b.DecidedBy = &approver.ID
	b.RejectionReason = &reason

	if err := e.store.Update(ctx, b); err != nil {
		return nil, err
	}

	e.notify(ctx, e.notifier.BookingRejected, b)
	return b, nil
}

// Cancel transitions a pending or approved booking to cancelled. Only the
// original requester or an approver may cancel.
func (e *Engine) Cancel(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.ID != b.RequesterID && !actor.Approver {
		return nil, ErrPermissionDenied
	}
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()
	b.Status = StatusCancelled
	b.DecidedAt = &now
	b.DecidedBy = &actor.ID

	if err := e.store.Update(ctx, b); err != nil {
		return nil, err
	}

	e.notify(ctx, e.notifier.BookingCancelled, b)
	return b, nil
}

// Get returns a single booking by id.
func (e *Engine) Get(ctx context.Context, id string) (*Booking, error) {
	return e.store.Get(ctx, id)
}

// ListForResource returns bookings for one resource within the given range.
func (e *Engine) ListForResource(ctx context.Context, resourceID string, from, to *time.Time) ([]*Booking, error) {
	if _, err := e.registry.Get(resourceID); err != nil {
		return nil, ErrResourceNotFound
	}
	return e.store.List(ctx, Filter{ResourceID: resourceID, From: from, To: to})
}

// ListForUser returns all bookings the user has requested.
func (e *Engine) ListForUser(ctx context.Context, userID string) ([]*Booking, error) {
	return e.store.List(ctx, Filter{RequesterID: userID})
}

// ListPending returns pending bookings awaiting a decision, optionally
// narrowed to one department.
func (e *Engine) ListPending(ctx context.Context, departmentID string) ([]*Booking, error) {
	return e.store.List(ctx, Filter{
		DepartmentID: departmentID,
		Statuses:     []Status{StatusPending},
	})
}

// Calendar returns approved bookings within the range, feeding the campus
// calendar view.
func (e *Engine) Calendar(ctx context.Context, from, to *time.Time) ([]*Booking, error) {
	return e.store.List(ctx, Filter{
		Statuses: []Status{StatusApproved},
		From:     from,
		To:       to,
	})
}

func (e *Engine) notify(ctx context.Context, fn func(context.Context, *Booking) error, b *Booking) {
	if err := fn(ctx, b); err != nil {
		log.Printf("notifier failed for booking %s: %v", b.ID, err)
	}
}
