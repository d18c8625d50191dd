package http

import (
	"time"

	"github.com/bookmycampus/campus-booking-backend/internal/booking"
	"github.com/bookmycampus/campus-booking-backend/internal/pkg/request"
	resHttp "github.com/bookmycampus/campus-booking-backend/internal/resource/http"
)

type CreateBookingBody struct {
	ResourceID string    `json:"resource_id" binding:"required"`
	Title      string    `json:"title" binding:"required"`
	Purpose    string    `json:"purpose" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

// ActionBody drives PATCH /bookings/:id. Reason only applies to reject.
type ActionBody struct {
	Action string `json:"action" binding:"required,oneof=approve reject cancel"`
	Reason string `json:"reason"`
}

type ListBookingsQuery struct {
	request.ListParams
	ResourceID string     `form:"resource_id" binding:"required"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type PendingQuery struct {
	DepartmentID string `form:"department_id"`
}

type CalendarQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type BookingResponse struct {
	ID              string              `json:"id"`
	Resource        resHttp.ResourceTag `json:"resource"`
	Title           string              `json:"title"`
	Purpose         string              `json:"purpose"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	Status          string              `json:"status"`
	RequesterID     string              `json:"requester_id"`
	RequesterName   string              `json:"requester_name"`
	DepartmentID    string              `json:"department_id,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	DecidedAt       *time.Time          `json:"decided_at,omitempty"`
	DecidedBy       *string             `json:"decided_by,omitempty"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		Resource:        resHttp.ResourceTag{ID: b.ResourceID, Name: b.ResourceName},
		Title:           b.Title,
		Purpose:         b.Purpose,
		StartTime:       b.Window.Start,
		EndTime:         b.Window.End,
		Status:          string(b.Status),
		RequesterID:     b.RequesterID,
		RequesterName:   b.RequesterName,
		DepartmentID:    b.DepartmentID,
		CreatedAt:       b.CreatedAt,
		DecidedAt:       b.DecidedAt,
		DecidedBy:       b.DecidedBy,
		RejectionReason: b.RejectionReason,
	}
}

// CalendarEvent is the flat shape the calendar view consumes.
type CalendarEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Resource string    `json:"resource"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
}

func NewCalendarEvent(b *booking.Booking) CalendarEvent {
	return CalendarEvent{
		ID:       b.ID,
		Title:    b.Title,
		Resource: b.ResourceName,
		Start:    b.Window.Start,
		End:      b.Window.End,
		Status:   string(b.Status),
	}
}
