package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmycampus/campus-booking-backend/internal/resource"
)

// recordingNotifier captures transition callouts for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) record(event string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) BookingSubmitted(ctx context.Context, b *Booking) error {
	return n.record("submitted:" + b.ID)
}
func (n *recordingNotifier) BookingApproved(ctx context.Context, b *Booking) error {
	return n.record("approved:" + b.ID)
}
func (n *recordingNotifier) BookingRejected(ctx context.Context, b *Booking) error {
	return n.record("rejected:" + b.ID)
}
func (n *recordingNotifier) BookingCancelled(ctx context.Context, b *Booking) error {
	return n.record("cancelled:" + b.ID)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}

var (
	student  = Actor{ID: "u-student", Name: "John Student", DepartmentID: "cs"}
	teacher  = Actor{ID: "u-teacher", Name: "Jane Teacher", DepartmentID: "cs"}
	hod      = Actor{ID: "u-hod", Name: "Prof. Smith", DepartmentID: "cs", Approver: true}
	eceHOD   = Actor{ID: "u-hod-ece", Name: "Prof. Jones", DepartmentID: "ece", Approver: true}
	stranger = Actor{ID: "u-stranger", Name: "Somebody Else", DepartmentID: "mech"}
)

func newTestEngine(t *testing.T, policy Policy) (*Engine, *recordingNotifier) {
	t.Helper()
	registry, err := resource.NewRegistry(resource.DefaultCatalog())
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	return NewEngine(NewMemStore(), registry, notifier, policy), notifier
}

func submitAt(t *testing.T, e *Engine, res string, requester Actor, day time.Time, startHour, endHour int) *Booking {
	t.Helper()
	b, err := e.Submit(context.Background(), SubmitRequest{
		ResourceID: res,
		Start:      at(day, startHour, 0),
		End:        at(day, endHour, 0),
		Title:      "Session",
		Purpose:    "Coursework",
		Requester:  requester,
	})
	require.NoError(t, err)
	return b
}

func TestSubmitCreatesPendingBooking(t *testing.T) {
	e, notifier := newTestEngine(t, DefaultPolicy())
	day := nextMonday()

	b, err := e.Submit(context.Background(), SubmitRequest{
		ResourceID: "lab",
		Start:      at(day, 10, 0),
		End:        at(day, 12, 0),
		Title:      "My Lab Session",
		Purpose:    "Research work",
		Requester:  student,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, "Lab", b.ResourceName)
	assert.Equal(t, student.ID, b.RequesterID)
	assert.Equal(t, "cs", b.DepartmentID)
	assert.Nil(t, b.DecidedAt)
	assert.Nil(t, b.DecidedBy)
	assert.Equal(t, []string{"submitted:" + b.ID}, notifier.all())
}

func TestSubmitUnknownResource(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	day := nextMonday()

	_, err := e.Submit(context.Background(), SubmitRequest{
		ResourceID: "swimming-pool",
		Start:      at(day, 10, 0),
		End:        at(day, 11, 0),
		Title:      "Swim",
		Purpose:    "Practice",
		Requester:  student,
	})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestSubmitRequiresTitleAndPurpose(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	day := nextMonday()

	_, err := e.Submit(context.Background(), SubmitRequest{
		ResourceID: "lab",
		Start:      at(day, 10, 0),
		End:        at(day, 11, 0),
		Title:      "   ",
		Purpose:    "Research",
		Requester:  student,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitPastDateFailsRegardlessOfRole(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	start := time.Now().UTC().Add(-24 * time.Hour)

	for _, actor := range []Actor{student, hod} {
		_, err := e.Submit(context.Background(), SubmitRequest{
			ResourceID: "lab",
			Start:      start,
			End:        start.Add(time.Hour),
			Title:      "Too late",
			Purpose:    "History",
			Requester:  actor,
		})
		assert.ErrorIs(t, err, ErrStartTimePast, "actor %s", actor.ID)
	}
}

func TestSubmitConflictListsAllBlockers(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	day := nextMonday()

	a := submitAt(t, e, "lab", student, day, 14, 16)
	_, err := e.Approve(ctx, a.ID, hod)
	require.NoError(t, err)

	b := submitAt(t, e, "lab", teacher, day, 16, 18)
	_, err = e.Approve(ctx, b.ID, hod)
	require.NoError(t, err)

	// [15:00, 17:00) collides with both approved bookings.
	_, err = e.Submit(ctx, SubmitRequest{
		ResourceID: "lab",
		Start:      at(day, 15, 0),
		End:        at(day, 17, 0),
		Title:      "Workshop",
		Purpose:    "Presentation",
		Requester:  stranger,
	})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, ErrTimeConflict)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, conflict.BookingIDs)
}

func TestBackToBackBookingsBothApproved(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	day := nextMonday()

	a := submitAt(t, e, "seminar-hall", student, day, 10, 11)
	b := submitAt(t, e, "seminar-hall", teacher, day, 11, 12)

	_, err := e.Approve(ctx, a.ID, hod)
	require.NoError(t, err)
	_, err = e.Approve(ctx, b.ID, hod)
	require.NoError(t, err, "touching endpoints must not conflict")

	assertNoApprovedOverlap(t, e, "seminar-hall")
}

func TestApproveRevalidatesConflicts(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	day := nextMonday()

	// Pending overlap is allowed by default, so both submissions succeed.
	a := submitAt(t, e, "auditorium", student, day, 9, 10)
	b := submitAt(t, e, "auditorium", teacher, day, 9, 10)

	_, err := e.Approve(ctx, a.ID, hod)
	require.NoError(t, err)

	_, err = e.Approve(ctx, b.ID, hod)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{a.ID}, conflict.BookingIDs)

	// The loser stays pending; its state must not have moved.
	got, err := e.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	assertNoApprovedOverlap(t, e, "auditorium")
}

func TestApproveRequiresApproverRole(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	b := submitAt(t, e, "lab", student, nextMonday(), 10, 11)

	_, err := e.Approve(ctx, b.ID, teacher)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = e.Reject(ctx, b.ID, teacher, "nope")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestApproveSetsDecisionFields(t *testing.T) {
	e, notifier := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	b := submitAt(t, e, "lab", student, nextMonday(), 10, 11)

	approved, err := e.Approve(ctx, b.ID, hod)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedAt)
	require.NotNil(t, approved.DecidedBy)
	assert.Equal(t, hod.ID, *approved.DecidedBy)
	assert.Contains(t, notifier.all(), "approved:"+b.ID)
}

func TestRejectIsNotRepeatable(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	b := submitAt(t, e, "lab", student, nextMonday(), 10, 11)

	rejected, err := e.Reject(ctx, b.ID, hod, "room under maintenance")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "room under maintenance", *rejected.RejectionReason)

	_, err = e.Reject(ctx, b.ID, hod, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := e.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
	assert.Equal(t, "room under maintenance", *got.RejectionReason)
}

func TestRejectAllowsEmptyReason(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	b := submitAt(t, e, "lab", student, nextMonday(), 10, 11)

	rejected, err := e.Reject(ctx, b.ID, hod, "")
	require.NoError(t, err)
	require.NotNil(t, rejected.RejectionReason)
	assert.Empty(t, *rejected.RejectionReason)
}

func TestCancelAuthorization(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	day := nextMonday()

	b := submitAt(t, e, "lab", student, day, 10, 11)

	// Neither requester nor approver.
	_, err := e.Cancel(ctx, b.ID, stranger)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The requester may cancel their own pending booking.
	cancelled, err := e.Cancel(ctx, b.ID, student)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// Cancelled is terminal.
	_, err = e.Cancel(ctx, b.ID, student)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// An approver may cancel an approved booking.
	c := submitAt(t, e, "lab", student, day, 12, 13)
	_, err = e.Approve(ctx, c.ID, hod)
	require.NoError(t, err)
	cancelled, err = e.Cancel(ctx, c.ID, hod)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// But never back to pending or approved afterwards.
	_, err = e.Approve(ctx, c.ID, hod)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelledBookingFreesTheSlot(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	day := nextMonday()

	a := submitAt(t, e, "lab", student, day, 10, 12)
	_, err := e.Approve(ctx, a.ID, hod)
	require.NoError(t, err)
	_, err = e.Cancel(ctx, a.ID, student)
	require.NoError(t, err)

	b := submitAt(t, e, "lab", teacher, day, 10, 12)
	_, err = e.Approve(ctx, b.ID, hod)
	require.NoError(t, err, "cancelled bookings must not block the window")
}

func TestBlockPendingOverlapPolicy(t *testing.T) {
	e, _ := newTestEngine(t, Policy{BlockPendingOverlap: true})
	ctx := context.Background()
	day := nextMonday()

	a := submitAt(t, e, "lab", student, day, 10, 12)

	_, err := e.Submit(ctx, SubmitRequest{
		ResourceID: "lab",
		Start:      at(day, 11, 0),
		End:        at(day, 13, 0),
		Title:      "Second",
		Purpose:    "Also lab",
		Requester:  teacher,
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{a.ID}, conflict.BookingIDs)
}

func TestScopedApprovals(t *testing.T) {
	e, _ := newTestEngine(t, Policy{ScopeApprovals: true})
	ctx := context.Background()
	b := submitAt(t, e, "lab", student, nextMonday(), 10, 11)

	_, err := e.Approve(ctx, b.ID, eceHOD)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = e.Approve(ctx, b.ID, hod)
	require.NoError(t, err)
}

func TestConcurrentSubmitsSingleWinner(t *testing.T) {
	e, _ := newTestEngine(t, Policy{BlockPendingOverlap: true})
	day := nextMonday()

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.Submit(context.Background(), SubmitRequest{
				ResourceID: "auditorium",
				Start:      at(day, 18, 0),
				End:        at(day, 20, 0),
				Title:      "Cultural fest",
				Purpose:    "Opening ceremony",
				Requester:  Actor{ID: "u-" + string(rune('a'+i)), Name: "Caller", DepartmentID: "cs"},
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			var conflict *ConflictError
			require.ErrorAs(t, err, &conflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins, "exactly one submission may win the slot")
	assert.Equal(t, callers-1, conflicts)
}

func TestConcurrentApprovalsKeepInvariant(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	day := nextMonday()

	// Five fully-overlapping pending requests; approvers race.
	var ids []string
	for i := 0; i < 5; i++ {
		b := submitAt(t, e, "seminar-hall", Actor{ID: "u-" + string(rune('a'+i)), Name: "Caller", DepartmentID: "cs"}, day, 9, 11)
		ids = append(ids, b.ID)
	}

	var wg sync.WaitGroup
	approvals := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := e.Approve(ctx, id, hod)
			approvals <- err
		}(id)
	}
	wg.Wait()
	close(approvals)

	var wins int
	for err := range approvals {
		if err == nil {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
	assertNoApprovedOverlap(t, e, "seminar-hall")
}

func TestListProjections(t *testing.T) {
	e, _ := newTestEngine(t, DefaultPolicy())
	ctx := context.Background()
	day := nextMonday()

	a := submitAt(t, e, "lab", student, day, 9, 10)
	b := submitAt(t, e, "lab", teacher, day, 10, 11)
	c := submitAt(t, e, "auditorium", Actor{ID: "u-x", Name: "X", DepartmentID: "ece"}, day, 9, 10)
	_, err := e.Approve(ctx, b.ID, hod)
	require.NoError(t, err)

	mine, err := e.ListForUser(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	pending, err := e.ListPending(ctx, "")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	csPending, err := e.ListPending(ctx, "cs")
	require.NoError(t, err)
	require.Len(t, csPending, 1)
	assert.Equal(t, a.ID, csPending[0].ID)

	forLab, err := e.ListForResource(ctx, "lab", nil, nil)
	require.NoError(t, err)
	assert.Len(t, forLab, 2)

	_, err = e.ListForResource(ctx, "pool", nil, nil)
	assert.ErrorIs(t, err, ErrResourceNotFound)

	events, err := e.Calendar(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, events, 1, "calendar shows approved bookings only")
	assert.Equal(t, b.ID, events[0].ID)
	_ = c
}

// assertNoApprovedOverlap checks the central invariant: no two approved
// bookings for the resource may share an instant.
func assertNoApprovedOverlap(t *testing.T, e *Engine, resourceID string) {
	t.Helper()
	approved, err := e.ListForResource(context.Background(), resourceID, nil, nil)
	require.NoError(t, err)

	var windows []Window
	for _, b := range approved {
		if b.Status == StatusApproved {
			windows = append(windows, b.Window)
		}
	}
	for i := range windows {
		for j := i + 1; j < len(windows); j++ {
			assert.False(t, windows[i].Overlaps(windows[j]),
				"approved bookings %d and %d overlap", i, j)
		}
	}
}
