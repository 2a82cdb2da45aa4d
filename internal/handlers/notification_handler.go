package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/room-scheduler/internal/middleware"
	ucNotification "github.com/BruksfildServices01/room-scheduler/internal/usecase/notification"
)

// ======================================================
// HANDLER
// ======================================================

type NotificationHandler struct {
	pipeline ucNotification.Runner
	inbox    *ucNotification.ListInbox
	markRead *ucNotification.MarkRead
	log      *slog.Logger
}

func NewNotificationHandler(
	pipeline ucNotification.Runner,
	inbox *ucNotification.ListInbox,
	markRead *ucNotification.MarkRead,
	log *slog.Logger,
) *NotificationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &NotificationHandler{
		pipeline: pipeline,
		inbox:    inbox,
		markRead: markRead,
		log:      log,
	}
}

// ======================================================
// RESPONSES
// ======================================================

type ProcessResponse struct {
	Success          bool   `json:"success"`
	RunID            string `json:"run_id,omitempty"`
	Processed        int    `json:"processed"`
	Sent             int    `json:"sent"`
	Retrying         int    `json:"retrying"`
	Failed           int    `json:"failed"`
	RemindersCreated int    `json:"reminders_created"`
	Error            string `json:"error,omitempty"`
}

// ======================================================
// PROCESS (external trigger)
// ======================================================

// Process runs one pipeline tick. Per-notification failures are part of
// the counts; only a tick that could not run at all is an error.
// A caller hanging up does not abort a tick that already claimed rows.
func (h *NotificationHandler) Process(c *gin.Context) {
	res, err := h.pipeline.Run(context.WithoutCancel(c.Request.Context()))
	if errors.Is(err, ucNotification.ErrTickInProgress) {
		c.JSON(http.StatusConflict, ProcessResponse{
			Success: false,
			Error:   "tick_in_progress",
		})
		return
	}
	if err != nil {
		h.log.Error("notification tick failed", "error", err)
		c.JSON(http.StatusInternalServerError, ProcessResponse{
			Success: false,
			Error:   "processing_failed",
		})
		return
	}

	httpresp.OK(c, ProcessResponse{
		Success:          true,
		RunID:            res.RunID,
		Processed:        res.Processed,
		Sent:             res.Sent,
		Retrying:         res.Retrying,
		Failed:           res.Failed,
		RemindersCreated: res.RemindersCreated,
	})
}

// ======================================================
// INBOX
// ======================================================

// GET /api/me/notifications?page=1&page_size=20
func (h *NotificationHandler) Inbox(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	in := ucNotification.ListInboxInput{
		UserID:   userID,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}

	items, total, err := h.inbox.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	page, size := in.Page, in.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	httpresp.Page(c, items, total, page, size)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := parseID(c)
	if !ok {
		return
	}

	readAt, err := h.markRead.Execute(c.Request.Context(), userID, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"notification_id": id, "read_at": readAt})
}

// ======================================================
// METHOD NOT ALLOWED
// ======================================================

func MethodNotAllowed(c *gin.Context) {
	httperr.Write(c, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed.")
}
