package booking

import (
	"context"

	"github.com/BruksfildServices01/room-scheduler/internal/dto"
	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/timezone"
)

type ListBookings struct {
	deps Deps
}

func NewListBookings(deps Deps) *ListBookings {
	return &ListBookings{deps: deps.withDefaults()}
}

// Execute lists bookings overlapping the local day, optionally for one
// room. Cancelled bookings are soft-deleted and never listed.
func (uc *ListBookings) Execute(
	ctx context.Context,
	date string,
	roomID *uint,
) ([]dto.BookingListDTO, error) {

	start, end, err := timezone.DayBounds(date, uc.deps.Policy.Location)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date", "Use YYYY-MM-DD.")
	}

	bookings, err := uc.deps.Repo.ListBookingsForPeriod(ctx, roomID, start, end)
	if err != nil {
		return nil, httperr.Persistence("list_bookings", err)
	}

	out := make([]dto.BookingListDTO, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		item := dto.BookingListDTO{
			ID:        b.ID,
			Title:     b.Title,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Status:    string(uc.deps.statusOf(b)),
			RoomID:    b.RoomID,
			UserID:    b.UserID,
			IsPublic:  b.IsPublic,
		}
		if b.Room != nil {
			item.RoomName = b.Room.Name
		}
		out = append(out, item)
	}

	return out, nil
}
