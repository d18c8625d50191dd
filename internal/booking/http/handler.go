package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookmycampus/campus-booking-backend/internal/auth"
	"github.com/bookmycampus/campus-booking-backend/internal/booking"
	"github.com/bookmycampus/campus-booking-backend/internal/pkg/request"
	"github.com/bookmycampus/campus-booking-backend/internal/pkg/response"
	"github.com/bookmycampus/campus-booking-backend/internal/user"
)

type Handler struct {
	engine *booking.Engine
}

func NewHandler(engine *booking.Engine) *Handler {
	return &Handler{engine: engine}
}

// actor builds the engine Actor from the authenticated request context.
func actor(c *gin.Context) booking.Actor {
	return booking.Actor{
		ID:           auth.GetUserID(c),
		Name:         auth.GetUserName(c),
		DepartmentID: auth.GetUserDepartment(c),
		Approver:     user.Role(auth.GetUserRole(c)).IsApprover(),
	}
}

// writeError maps engine failures to JSON, surfacing the full list of
// conflicting booking ids on 409 conflicts.
func writeError(c *gin.Context, err error) {
	var conflict *booking.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error":           booking.ErrTimeConflict.Message,
			"conflicting_ids": conflict.BookingIDs,
		})
		return
	}
	response.Error(c, err)
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := booking.SubmitRequest{
		ResourceID: body.ResourceID,
		Start:      body.StartTime,
		End:        body.EndTime,
		Title:      body.Title,
		Purpose:    body.Purpose,
		Requester:  actor(c),
	}

	b, err := h.engine.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Act applies an approval-workflow action (approve, reject, cancel) to a booking.
func (h *Handler) Act(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body ActionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	act := actor(c)

	var b *booking.Booking
	var err error
	switch body.Action {
	case "approve":
		b, err = h.engine.Approve(ctx, uri.ID, act)
	case "reject":
		b, err = h.engine.Reject(ctx, uri.ID, act, body.Reason)
	case "cancel":
		b, err = h.engine.Cancel(ctx, uri.ID, act)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.engine.Get(c.Request.Context(), uri.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// List returns a page of bookings for one resource within an optional
// time range, ordered by start time.
func (h *Handler) List(c *gin.Context) {
	var q ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	bookings, err := h.engine.ListForResource(c.Request.Context(), q.ResourceID, q.From, q.To)
	if err != nil {
		writeError(c, err)
		return
	}

	if strings.EqualFold(q.SortOrder, "desc") {
		for i, j := 0, len(bookings)-1; i < j; i, j = i+1, j-1 {
			bookings[i], bookings[j] = bookings[j], bookings[i]
		}
	}

	// Zero values slip past binding when the key is present but empty,
	// so clamp before slicing.
	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total := len(bookings)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, response.NewPageResponse(toResponses(bookings[start:end]), page, pageSize, total))
}

// My returns the authenticated user's own bookings.
func (h *Handler) My(c *gin.Context) {
	bookings, err := h.engine.ListForUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(bookings))
}

// Pending returns bookings awaiting a decision. Approver role only.
func (h *Handler) Pending(c *gin.Context) {
	if !actor(c).Approver {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	var q PendingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	bookings, err := h.engine.ListPending(c.Request.Context(), q.DepartmentID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(bookings))
}

// Calendar returns the approved-bookings feed for the calendar view.
func (h *Handler) Calendar(c *gin.Context) {
	var q CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	bookings, err := h.engine.Calendar(c.Request.Context(), q.From, q.To)
	if err != nil {
		writeError(c, err)
		return
	}

	events := make([]CalendarEvent, len(bookings))
	for i, b := range bookings {
		events[i] = NewCalendarEvent(b)
	}

	c.JSON(http.StatusOK, events)
}

func toResponses(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}
