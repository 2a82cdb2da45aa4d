package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

type Repository interface {
	// -------- Transactions --------
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Room --------
	GetRooms(
		ctx context.Context,
		ids []uint,
	) ([]models.Room, error)

	// LockRoom takes a row lock on the room so concurrent writers for
	// the same room serialize on the conflict check.
	LockRoom(
		ctx context.Context,
		id uint,
	) (*models.Room, error)

	// -------- Booking (conflict) --------
	ListOverlapping(
		ctx context.Context,
		roomID uint,
		start time.Time,
		end time.Time,
		ignoreStatusIDs []uint,
	) ([]models.Booking, error)

	// -------- Booking (write) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ReplaceAttendees(
		ctx context.Context,
		bookingID uint,
		hosts []models.BookingHost,
		participants []models.BookingParticipant,
	) error

	SoftDeleteBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Notifications tied to bookings --------
	CreateNotification(
		ctx context.Context,
		n *models.Notification,
	) error

	SoftDeletePendingNotifications(
		ctx context.Context,
		bookingID uint,
		pendingStatusID uint,
	) (int64, error)

	// -------- Listing --------
	ListBookingsForPeriod(
		ctx context.Context,
		roomID *uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)
}
