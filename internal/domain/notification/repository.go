package notification

import (
	"context"
	"time"

	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

// RecipientUpdate sets the delivery status of one recipient row.
type RecipientUpdate struct {
	RecipientID      uint
	DeliveryStatusID uint

	// KeepStatusID, when set, leaves a row already in that status
	// untouched (a READ recipient stays READ across retries).
	KeepStatusID uint
}

type Repository interface {
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Drain --------

	// ListDue returns live notifications in pendingStatusID whose
	// ScheduledFor <= now, oldest first, with recipients, their users
	// and methods loaded.
	ListDue(
		ctx context.Context,
		now time.Time,
		pendingStatusID uint,
		limit int,
	) ([]models.Notification, error)

	// -------- Reminders --------
	ListBookingsStartingBetween(
		ctx context.Context,
		from time.Time,
		to time.Time,
		statusIDs []uint,
	) ([]models.Booking, error)

	ReminderExists(
		ctx context.Context,
		bookingID uint,
		reminderTypeID uint,
		window string,
	) (bool, error)

	CreateNotification(
		ctx context.Context,
		n *models.Notification,
	) error

	// -------- Dispatch outcome --------
	SaveOutcome(
		ctx context.Context,
		n *models.Notification,
		recipients []RecipientUpdate,
	) error

	// -------- Inbox --------
	ListInbox(
		ctx context.Context,
		userID uint,
		inAppMethodID uint,
		limit int,
		offset int,
	) ([]models.NotificationRecipient, int64, error)

	MarkRead(
		ctx context.Context,
		userID uint,
		notificationID uint,
		readStatusID uint,
		at time.Time,
	) (bool, error)
}
