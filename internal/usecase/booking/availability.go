package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
)

type CheckAvailabilityInput struct {
	RoomIDs []uint
	Start   time.Time
	End     time.Time

	// ExcludeBookingID skips the booking being edited.
	ExcludeBookingID *uint
}

type Availability struct {
	Available bool               `json:"available"`
	Conflicts []httperr.Conflict `json:"conflicts"`
}

// CheckAvailability is a read-only pre-flight. Its answer is advisory:
// Create and Update re-check under lock.
type CheckAvailability struct {
	deps Deps
}

func NewCheckAvailability(deps Deps) *CheckAvailability {
	return &CheckAvailability{deps: deps.withDefaults()}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	in CheckAvailabilityInput,
) (*Availability, error) {

	if in.Start.IsZero() || in.End.IsZero() || !in.End.After(in.Start) {
		return nil, httperr.ErrValidation("invalid_time_range", "End time must be after start time.")
	}
	roomIDs := sortedRoomIDs(in.RoomIDs)
	if len(roomIDs) == 0 {
		return nil, httperr.ErrValidation("room_required", "Select at least one room.")
	}

	rooms, err := uc.deps.Repo.GetRooms(ctx, roomIDs)
	if err != nil {
		return nil, httperr.Persistence("check_availability", err)
	}
	if len(rooms) != len(roomIDs) {
		return nil, httperr.ErrNotFound("room_not_found")
	}

	ignored, err := uc.deps.ignoredStatusIDs()
	if err != nil {
		return nil, err
	}
	checker := domain.NewChecker(uc.deps.Repo, ignored)

	out := &Availability{Conflicts: []httperr.Conflict{}}
	for i := range rooms {
		found, err := checker.Conflicting(ctx, rooms[i].ID, in.Start.UTC(), in.End.UTC(), in.ExcludeBookingID)
		if err != nil {
			return nil, httperr.Persistence("check_availability", err)
		}
		out.Conflicts = append(out.Conflicts, toConflicts(&rooms[i], found)...)
	}
	out.Available = len(out.Conflicts) == 0

	return out, nil
}
