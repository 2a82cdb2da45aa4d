package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/room-scheduler/internal/events"
	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
	ucNotification "github.com/BruksfildServices01/room-scheduler/internal/usecase/notification"
)

type UpdateBookingInput struct {
	ID     uint
	UserID uint

	Title       string
	Description string
	Notes       string

	Start  time.Time
	End    time.Time
	RoomID uint

	IsPublic       bool
	OpenEnrollment bool
	IsAfterHours   bool

	HostIDs        []uint
	ParticipantIDs []uint

	Force bool
}

type UpdateBooking struct {
	deps Deps
}

func NewUpdateBooking(deps Deps) *UpdateBooking {
	return &UpdateBooking{deps: deps.withDefaults()}
}

func (uc *UpdateBooking) Execute(
	ctx context.Context,
	in UpdateBookingInput,
) (*models.Booking, error) {

	ctx, span := tracer.Start(ctx, "booking.update")
	defer span.End()

	if err := validateSlot(in.Title, in.Start, in.End); err != nil {
		return nil, err
	}
	if in.RoomID == 0 {
		return nil, httperr.ErrValidation("room_required", "Select a room.")
	}

	start, end := in.Start.UTC(), in.End.UTC()
	now := uc.deps.Clock.Now()

	var updated *models.Booking

	err := uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBooking(ctx, in.ID)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// Owner + state
		// --------------------------------------------------
		if b.UserID != in.UserID {
			return httperr.ErrForbidden("not_booking_owner")
		}
		if err := domain.CanEdit(uc.deps.statusOf(b)); err != nil {
			return err
		}

		// --------------------------------------------------
		// Conflicts on the (possibly new) room, excluding self
		// --------------------------------------------------
		room, err := tx.LockRoom(ctx, in.RoomID)
		if err != nil {
			return err
		}

		ignored, err := uc.deps.ignoredStatusIDs()
		if err != nil {
			return err
		}
		found, err := domain.NewChecker(tx, ignored).Conflicting(ctx, room.ID, start, end, &b.ID)
		if err != nil {
			return err
		}
		if len(found) > 0 && !in.Force {
			return httperr.ConflictError{Conflicts: toConflicts(room, found)}
		}

		// --------------------------------------------------
		// Apply
		// --------------------------------------------------
		b.Title = in.Title
		b.Description = in.Description
		b.Notes = in.Notes
		b.StartTime = start
		b.EndTime = end
		b.RoomID = room.ID
		b.Room = room
		b.IsPublic = in.IsPublic
		b.OpenEnrollment = in.OpenEnrollment
		b.IsAfterHours = in.IsAfterHours
		b.UpdatedBy = in.UserID

		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		attendanceID, err := uc.deps.Catalog.Attendance.ID(domain.AttendancePending)
		if err != nil {
			return err
		}
		hosts, participants := attendees(in.HostIDs, in.ParticipantIDs, attendanceID)
		if err := tx.ReplaceAttendees(ctx, b.ID, hosts, participants); err != nil {
			return err
		}
		b.Hosts = hosts
		b.Participants = participants

		draft := ucNotification.BookingUpdated(b, uc.deps.Policy.Location, now, uc.deps.Policy.MaxRetries)
		if err := enqueue(ctx, tx, uc.deps, draft); err != nil {
			return err
		}

		updated = b
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, httperr.Persistence("update_booking", err)
	}

	uc.deps.afterCommit(ctx, in.UserID, "booking_updated", events.BookingUpdated, updated)
	return updated, nil
}
