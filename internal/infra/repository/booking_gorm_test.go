package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
	"github.com/BruksfildServices01/room-scheduler/internal/testutil"
)

var base = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestListOverlappingBoundaries(t *testing.T) {
	env := testutil.NewEnv(t)
	repo := NewBookingGormRepository(env.DB)
	ctx := context.Background()

	owner := env.User(t, "Owner")
	room := env.Room(t, "Atrium")
	other := env.Room(t, "Cellar")

	confirmed, err := env.Catalog.BookingStatuses.ID(domain.StatusConfirmed)
	if err != nil {
		t.Fatal(err)
	}
	rejected, err := env.Catalog.BookingStatuses.ID(domain.StatusRejected)
	if err != nil {
		t.Fatal(err)
	}

	existing := &models.Booking{Title: "A", StartTime: base, EndTime: base.Add(time.Hour), RoomID: room.ID, UserID: owner.ID, StatusID: confirmed}
	elsewhere := &models.Booking{Title: "B", StartTime: base, EndTime: base.Add(time.Hour), RoomID: other.ID, UserID: owner.ID, StatusID: confirmed}
	declined := &models.Booking{Title: "C", StartTime: base, EndTime: base.Add(time.Hour), RoomID: room.ID, UserID: owner.ID, StatusID: rejected}
	for _, b := range []*models.Booking{existing, elsewhere, declined} {
		if err := repo.CreateBooking(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"ends at start", base.Add(-time.Hour), base, 0},
		{"starts at end", base.Add(time.Hour), base.Add(2 * time.Hour), 0},
		{"inside", base.Add(15 * time.Minute), base.Add(30 * time.Minute), 1},
		{"covers", base.Add(-time.Hour), base.Add(2 * time.Hour), 1},
		{"one minute over", base.Add(59 * time.Minute), base.Add(2 * time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListOverlapping(ctx, room.ID, tt.start, tt.end, []uint{rejected})
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d overlaps, want %d", len(got), tt.want)
			}
			if tt.want == 1 && got[0].ID != existing.ID {
				t.Fatalf("overlap = booking %d, want %d", got[0].ID, existing.ID)
			}
		})
	}

	all, err := repo.ListOverlapping(ctx, room.ID, base, base.Add(time.Hour), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("without status filter got %d, want 2", len(all))
	}
}

func TestLockRoomNotFound(t *testing.T) {
	env := testutil.NewEnv(t)
	repo := NewBookingGormRepository(env.DB)

	_, err := repo.LockRoom(context.Background(), 404)
	var nf httperr.NotFoundError
	if !errors.As(err, &nf) || nf.Code != "room_not_found" {
		t.Fatalf("err = %v, want room_not_found", err)
	}
}

func TestSoftDeletedBookingIsInvisible(t *testing.T) {
	env := testutil.NewEnv(t)
	repo := NewBookingGormRepository(env.DB)
	ctx := context.Background()

	owner := env.User(t, "Owner")
	room := env.Room(t, "Atrium")
	confirmed, _ := env.Catalog.BookingStatuses.ID(domain.StatusConfirmed)

	b := &models.Booking{Title: "A", StartTime: base, EndTime: base.Add(time.Hour), RoomID: room.ID, UserID: owner.ID, StatusID: confirmed}
	if err := repo.CreateBooking(ctx, b); err != nil {
		t.Fatal(err)
	}
	if err := repo.SoftDeleteBooking(ctx, b); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListOverlapping(ctx, room.ID, base, base.Add(time.Hour), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("soft-deleted booking still overlaps: %+v", got)
	}
	if _, err := repo.GetBooking(ctx, b.ID); !errors.As(err, new(httperr.NotFoundError)) {
		t.Fatalf("GetBooking err = %v, want not found", err)
	}
}
