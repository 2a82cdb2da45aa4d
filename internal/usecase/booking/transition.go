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

const RoleAdmin = "admin"

// ======================================================
// CONFIRM (admin approves a pending booking)
// ======================================================

type ConfirmBooking struct {
	deps Deps
}

func NewConfirmBooking(deps Deps) *ConfirmBooking {
	return &ConfirmBooking{deps: deps.withDefaults()}
}

func (uc *ConfirmBooking) Execute(
	ctx context.Context,
	bookingID uint,
	actorID uint,
	actorRole string,
) (*models.Booking, error) {

	if actorRole != RoleAdmin {
		return nil, httperr.ErrForbidden("admin_required")
	}

	now := uc.deps.Clock.Now()
	var confirmed *models.Booking

	err := uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := domain.CanConfirm(uc.deps.statusOf(b)); err != nil {
			return err
		}

		statusID, err := uc.deps.Catalog.BookingStatuses.ID(domain.StatusConfirmed)
		if err != nil {
			return err
		}
		b.StatusID = statusID
		b.UpdatedBy = actorID
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		draft := ucNotification.BookingConfirmed(b, uc.deps.Policy.Location, now, uc.deps.Policy.MaxRetries)
		if err := enqueue(ctx, tx, uc.deps, draft); err != nil {
			return err
		}

		confirmed = b
		return nil
	})
	if err != nil {
		return nil, httperr.Persistence("confirm_booking", err)
	}

	uc.deps.afterCommit(ctx, actorID, "booking_confirmed", events.BookingConfirmed, confirmed)
	return confirmed, nil
}

// ======================================================
// REJECT (admin declines a pending booking)
// ======================================================

type RejectBooking struct {
	deps Deps
}

func NewRejectBooking(deps Deps) *RejectBooking {
	return &RejectBooking{deps: deps.withDefaults()}
}

// Execute frees the slot: REJECTED holds no time on the room. The
// booking row stays visible to its creator with the new status.
func (uc *RejectBooking) Execute(
	ctx context.Context,
	bookingID uint,
	actorID uint,
	actorRole string,
	reason string,
) (*models.Booking, error) {

	if actorRole != RoleAdmin {
		return nil, httperr.ErrForbidden("admin_required")
	}

	now := uc.deps.Clock.Now()
	var rejected *models.Booking
	var dropped int64

	err := uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := domain.CanReject(uc.deps.statusOf(b)); err != nil {
			return err
		}

		statusID, err := uc.deps.Catalog.BookingStatuses.ID(domain.StatusRejected)
		if err != nil {
			return err
		}
		b.StatusID = statusID
		b.UpdatedBy = actorID
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		pendingID, err := uc.deps.Catalog.NotificationStatuses.ID(notificationDomain.StatusPending)
		if err != nil {
			return err
		}
		dropped, err = tx.SoftDeletePendingNotifications(ctx, b.ID, pendingID)
		if err != nil {
			return err
		}

		draft := ucNotification.BookingRejected(b, reason, uc.deps.Policy.Location, now, uc.deps.Policy.MaxRetries)
		if err := enqueue(ctx, tx, uc.deps, draft); err != nil {
			return err
		}

		rejected = b
		return nil
	})
	if err != nil {
		return nil, httperr.Persistence("reject_booking", err)
	}

	uc.deps.Log.Info("booking rejected", "booking_id", rejected.ID, "pending_notifications_dropped", dropped)
	uc.deps.afterCommit(ctx, actorID, "booking_rejected", events.BookingRejected, rejected)
	return rejected, nil
}

// ======================================================
// COMPLETE (creator closes a confirmed booking)
// ======================================================

type CompleteBooking struct {
	deps Deps
}

func NewCompleteBooking(deps Deps) *CompleteBooking {
	return &CompleteBooking{deps: deps.withDefaults()}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	bookingID uint,
	userID uint,
) (*models.Booking, error) {

	var completed *models.Booking

	err := uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != userID {
			return httperr.ErrForbidden("not_booking_owner")
		}
		if err := domain.CanComplete(uc.deps.statusOf(b)); err != nil {
			return err
		}

		statusID, err := uc.deps.Catalog.BookingStatuses.ID(domain.StatusCompleted)
		if err != nil {
			return err
		}
		b.StatusID = statusID
		b.UpdatedBy = userID
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		completed = b
		return nil
	})
	if err != nil {
		return nil, httperr.Persistence("complete_booking", err)
	}

	uc.deps.afterCommit(ctx, userID, "booking_completed", events.BookingCompleted, completed)
	return completed, nil
}
