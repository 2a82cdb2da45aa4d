package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/room-scheduler/internal/middleware"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
	ucBooking "github.com/BruksfildServices01/room-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create       *ucBooking.CreateBooking
	update       *ucBooking.UpdateBooking
	cancel       *ucBooking.CancelBooking
	confirm      *ucBooking.ConfirmBooking
	reject       *ucBooking.RejectBooking
	complete     *ucBooking.CompleteBooking
	availability *ucBooking.CheckAvailability
	list         *ucBooking.ListBookings
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	update *ucBooking.UpdateBooking,
	cancel *ucBooking.CancelBooking,
	confirm *ucBooking.ConfirmBooking,
	reject *ucBooking.RejectBooking,
	complete *ucBooking.CompleteBooking,
	availability *ucBooking.CheckAvailability,
	list *ucBooking.ListBookings,
) *BookingHandler {
	return &BookingHandler{
		create:       create,
		update:       update,
		cancel:       cancel,
		confirm:      confirm,
		reject:       reject,
		complete:     complete,
		availability: availability,
		list:         list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// Times are RFC3339.
type CreateBookingRequest struct {
	Title          string    `json:"title" binding:"required"`
	Description    string    `json:"description"`
	Notes          string    `json:"notes"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
	RoomIDs        []uint    `json:"room_ids" binding:"required,min=1"`
	Category       string    `json:"category"`
	IsPublic       bool      `json:"is_public"`
	OpenEnrollment bool      `json:"open_enrollment"`
	IsAfterHours   bool      `json:"is_after_hours"`
	HostIDs        []uint    `json:"host_ids"`
	ParticipantIDs []uint    `json:"participant_ids"`
	Force          bool      `json:"force"`
}

type UpdateBookingRequest struct {
	Title          string    `json:"title" binding:"required"`
	Description    string    `json:"description"`
	Notes          string    `json:"notes"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
	RoomID         uint      `json:"room_id" binding:"required"`
	IsPublic       bool      `json:"is_public"`
	OpenEnrollment bool      `json:"open_enrollment"`
	IsAfterHours   bool      `json:"is_after_hours"`
	HostIDs        []uint    `json:"host_ids"`
	ParticipantIDs []uint    `json:"participant_ids"`
	Force          bool      `json:"force"`
}

type CancelBookingRequest struct {
	Confirm bool `json:"confirm"`
}

// The body is optional.
type RejectBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type AvailabilityRequest struct {
	RoomIDs          []uint    `json:"room_ids" binding:"required,min=1"`
	StartTime        time.Time `json:"start_time" binding:"required"`
	EndTime          time.Time `json:"end_time" binding:"required"`
	ExcludeBookingID *uint     `json:"exclude_booking_id"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking data.")
		return
	}

	bookings, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Notes:          req.Notes,
		Start:          req.StartTime,
		End:            req.EndTime,
		RoomIDs:        req.RoomIDs,
		Category:       req.Category,
		IsPublic:       req.IsPublic,
		OpenEnrollment: req.OpenEnrollment,
		IsAfterHours:   req.IsAfterHours,
		HostIDs:        req.HostIDs,
		ParticipantIDs: req.ParticipantIDs,
		Force:          req.Force,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, httpresp.ListResponse[models.Booking]{
		Data:  bookings,
		Total: len(bookings),
	})
}

// ======================================================
// UPDATE
// ======================================================

func (h *BookingHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking data.")
		return
	}

	b, err := h.update.Execute(c.Request.Context(), ucBooking.UpdateBookingInput{
		ID:             id,
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Notes:          req.Notes,
		Start:          req.StartTime,
		End:            req.EndTime,
		RoomID:         req.RoomID,
		IsPublic:       req.IsPublic,
		OpenEnrollment: req.OpenEnrollment,
		IsAfterHours:   req.IsAfterHours,
		HostIDs:        req.HostIDs,
		ParticipantIDs: req.ParticipantIDs,
		Force:          req.Force,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), ucBooking.CancelBookingInput{
		ID:      id,
		UserID:  userID,
		Confirm: req.Confirm,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.confirm.Execute(c.Request.Context(), id, userID, role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Reject(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req RejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.reject.Execute(c.Request.Context(), id, userID, role, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.complete.Execute(c.Request.Context(), id, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid availability query.")
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), ucBooking.CheckAvailabilityInput{
		RoomIDs:          req.RoomIDs,
		Start:            req.StartTime,
		End:              req.EndTime,
		ExcludeBookingID: req.ExcludeBookingID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// LIST
// ======================================================

// GET /api/bookings?date=YYYY-MM-DD&room_id=1
func (h *BookingHandler) List(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "The date query parameter is required.")
		return
	}

	var roomID *uint
	if raw := c.Query("room_id"); raw != "" {
		v, err := parseUint(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_room_id", "Invalid room_id.")
			return
		}
		roomID = &v
	}

	items, err := h.list.Execute(c.Request.Context(), date, roomID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}
