package booking

import "time"

// Window is a half-open [Start, End) time interval.
// All comparisons happen in UTC so that bookings submitted from different
// client timezones land on a single canonical axis.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow normalizes both endpoints to UTC.
func NewWindow(start, end time.Time) Window {
	return Window{Start: start.UTC(), End: end.UTC()}
}

// Overlaps reports whether the two half-open intervals share an instant.
// Touching endpoints do not overlap, so back-to-back bookings
// (one ending 10:00, the next starting 10:00) are permitted.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Policy holds the configurable booking rules. Weekday and hour restrictions
// are policy, not invariants: a deployment may relax them.
type Policy struct {
	// WeekendsAllowed permits Saturday/Sunday bookings when true.
	WeekendsAllowed bool
	// OpenHour/CloseHour restrict bookings to [OpenHour, CloseHour) hours of
	// the day when CloseHour > OpenHour. Both zero disables the restriction.
	OpenHour  int
	CloseHour int
	// BlockPendingOverlap also treats pending bookings as blocking at
	// submission time, sparing approvers from reviewing doomed requests.
	BlockPendingOverlap bool
	// ScopeApprovals restricts approvers to requests from their own department.
	ScopeApprovals bool
}

// DefaultPolicy mirrors the campus rules: Monday to Friday only, any hour,
// pending requests may overlap until one of them is approved.
func DefaultPolicy() Policy {
	return Policy{}
}

// BlockingStates returns the statuses that make an existing booking block a
// new submission. Approved bookings always block.
func (p Policy) BlockingStates() []Status {
	states := []Status{StatusApproved}
	if p.BlockPendingOverlap {
		states = append(states, StatusPending)
	}
	return states
}

// Validate checks the window against the policy, relative to now.
func (w Window) Validate(p Policy, now time.Time) error {
	if !w.Start.Before(w.End) {
		return ErrInvalidTimeRange
	}
	if w.Start.Before(now) {
		return ErrStartTimePast
	}
	if !p.WeekendsAllowed {
		if isWeekend(w.Start) || isWeekend(w.End) {
			return ErrWeekendBlocked
		}
	}
	if p.CloseHour > p.OpenHour {
		if !p.withinHours(w) {
			return ErrOutsideHours
		}
	}
	return nil
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// withinHours requires the whole window to fall inside [OpenHour, CloseHour)
// on a single day. An end at exactly CloseHour:00 is allowed, half-open.
func (p Policy) withinHours(w Window) bool {
	if w.Start.Year() != w.End.Year() || w.Start.YearDay() != w.End.YearDay() {
		// Exception: window ends at midnight of the following day.
		if !(w.End.Hour() == 0 && w.End.Minute() == 0 && w.End.Second() == 0 &&
			w.End.AddDate(0, 0, -1).YearDay() == w.Start.YearDay()) {
			return false
		}
	}

	startOff := w.Start.Hour()*3600 + w.Start.Minute()*60 + w.Start.Second()
	endOff := w.End.Hour()*3600 + w.End.Minute()*60 + w.End.Second()
	if endOff == 0 {
		endOff = 24 * 3600
	}
	return startOff >= p.OpenHour*3600 && endOff <= p.CloseHour*3600
}
