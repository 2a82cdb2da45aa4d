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

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID uint

	Title       string
	Description string
	Notes       string

	Start time.Time
	End   time.Time

	// One booking is created per room.
	RoomIDs []uint

	Category       string
	IsPublic       bool
	OpenEnrollment bool
	IsAfterHours   bool

	HostIDs        []uint
	ParticipantIDs []uint

	// Force books even when conflicts are found.
	Force bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	deps Deps
}

func NewCreateBooking(deps Deps) *CreateBooking {
	return &CreateBooking{deps: deps.withDefaults()}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) ([]models.Booking, error) {

	ctx, span := tracer.Start(ctx, "booking.create")
	defer span.End()

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if err := validateSlot(in.Title, in.Start, in.End); err != nil {
		return nil, err
	}
	roomIDs := sortedRoomIDs(in.RoomIDs)
	if len(roomIDs) == 0 {
		return nil, httperr.ErrValidation("room_required", "Select at least one room.")
	}

	category := in.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	categoryID, err := uc.deps.Catalog.BookingCategories.ID(category)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_category", "Unknown booking category.")
	}

	start, end := in.Start.UTC(), in.End.UTC()
	now := uc.deps.Clock.Now()

	var created []models.Booking

	err = uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		created = nil

		ignored, err := uc.deps.ignoredStatusIDs()
		if err != nil {
			return err
		}
		checker := domain.NewChecker(tx, ignored)

		// --------------------------------------------------
		// 2. Lock rooms (ascending id) and check each
		// --------------------------------------------------
		rooms := make([]*models.Room, 0, len(roomIDs))
		var conflicts []httperr.Conflict

		for _, id := range roomIDs {
			room, err := tx.LockRoom(ctx, id)
			if err != nil {
				return err
			}
			rooms = append(rooms, room)

			found, err := checker.Conflicting(ctx, id, start, end, nil)
			if err != nil {
				return err
			}
			conflicts = append(conflicts, toConflicts(room, found)...)
		}

		if len(conflicts) > 0 {
			if !in.Force {
				return httperr.ConflictError{Conflicts: conflicts}
			}
			uc.deps.Log.Warn("booking forced over conflicts",
				"user_id", in.UserID,
				"conflicts", len(conflicts),
			)
		}

		// --------------------------------------------------
		// 3. Persist one booking per room
		// --------------------------------------------------
		statusID, err := uc.deps.Catalog.BookingStatuses.ID(domain.InitialStatus(uc.deps.Policy.RequireApproval))
		if err != nil {
			return err
		}
		attendanceID, err := uc.deps.Catalog.Attendance.ID(domain.AttendancePending)
		if err != nil {
			return err
		}

		for _, room := range rooms {
			hosts, participants := attendees(in.HostIDs, in.ParticipantIDs, attendanceID)

			b := models.Booking{
				Title:             in.Title,
				Description:       in.Description,
				Notes:             in.Notes,
				StartTime:         start,
				EndTime:           end,
				RoomID:            room.ID,
				UserID:            in.UserID,
				StatusID:          statusID,
				BookingCategoryID: categoryID,
				IsPublic:          in.IsPublic,
				OpenEnrollment:    in.OpenEnrollment,
				IsAfterHours:      in.IsAfterHours,
				Hosts:             hosts,
				Participants:      participants,
				CreatedBy:         in.UserID,
				UpdatedBy:         in.UserID,
			}
			if err := tx.CreateBooking(ctx, &b); err != nil {
				return err
			}
			b.Room = room

			// --------------------------------------------------
			// 4. Notify hosts and participants
			// --------------------------------------------------
			draft := ucNotification.BookingCreated(&b, uc.deps.Policy.Location, now, uc.deps.Policy.MaxRetries)
			if err := enqueue(ctx, tx, uc.deps, draft); err != nil {
				return err
			}

			created = append(created, b)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, httperr.Persistence("create_booking", err)
	}

	for i := range created {
		uc.deps.afterCommit(ctx, in.UserID, "booking_created", events.BookingCreated, &created[i])
	}

	return created, nil
}

// enqueue persists a draft in the caller's transaction. Drafts without
// recipients are dropped.
func enqueue(ctx context.Context, tx domain.Repository, deps Deps, d ucNotification.Draft) error {
	if len(d.RecipientIDs) == 0 {
		return nil
	}
	n, err := d.Build(deps.Catalog)
	if err != nil {
		return err
	}
	return tx.CreateNotification(ctx, n)
}
