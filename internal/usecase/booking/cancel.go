package booking

import (
	"context"

	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	notificationDomain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/events"
	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
	ucNotification "github.com/BruksfildServices01/room-scheduler/internal/usecase/notification"
)

type CancelBookingInput struct {
	ID     uint
	UserID uint

	// Confirm must be true; cancelling is not undoable.
	Confirm bool
}

type CancelBooking struct {
	deps Deps
}

func NewCancelBooking(deps Deps) *CancelBooking {
	return &CancelBooking{deps: deps.withDefaults()}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	in CancelBookingInput,
) (*models.Booking, error) {

	ctx, span := tracer.Start(ctx, "booking.cancel")
	defer span.End()

	if !in.Confirm {
		return nil, httperr.ErrValidation("confirmation_required", "Cancelling a booking must be confirmed.")
	}

	now := uc.deps.Clock.Now()

	var cancelled *models.Booking
	var dropped int64

	err := uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBooking(ctx, in.ID)
		if err != nil {
			return err
		}
		if b.UserID != in.UserID {
			return httperr.ErrForbidden("not_booking_owner")
		}
		if err := domain.CanCancel(uc.deps.statusOf(b)); err != nil {
			return err
		}

		cancelledID, err := uc.deps.Catalog.BookingStatuses.ID(domain.StatusCancelled)
		if err != nil {
			return err
		}
		b.StatusID = cancelledID
		b.UpdatedBy = in.UserID
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		// --------------------------------------------------
		// Only unsent notifications go; history stays.
		// --------------------------------------------------
		pendingID, err := uc.deps.Catalog.NotificationStatuses.ID(notificationDomain.StatusPending)
		if err != nil {
			return err
		}
		dropped, err = tx.SoftDeletePendingNotifications(ctx, b.ID, pendingID)
		if err != nil {
			return err
		}

		if err := tx.SoftDeleteBooking(ctx, b); err != nil {
			return err
		}

		if uc.deps.Policy.NotifyOnCancel {
			draft := ucNotification.BookingCancelled(b, uc.deps.Policy.Location, now, uc.deps.Policy.MaxRetries)
			if err := enqueue(ctx, tx, uc.deps, draft); err != nil {
				return err
			}
		}

		cancelled = b
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, httperr.Persistence("cancel_booking", err)
	}

	uc.deps.Log.Info("booking cancelled", "booking_id", cancelled.ID, "pending_notifications_dropped", dropped)
	uc.deps.afterCommit(ctx, in.UserID, "booking_cancelled", events.BookingCancelled, cancelled)
	return cancelled, nil
}
