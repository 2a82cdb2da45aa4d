package lookup_test

import (
	"context"
	"testing"

	"github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/lookup"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
	"github.com/BruksfildServices01/room-scheduler/internal/testutil"
)

func TestSeedIsIdempotent(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	if err := lookup.Seed(ctx, env.DB); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var count int64
	env.DB.Model(&models.BookingStatus{}).Count(&count)
	if count != int64(len(booking.Statuses)) {
		t.Errorf("booking_statuses rows = %d, want %d", count, len(booking.Statuses))
	}

	reloaded, err := lookup.Load(ctx, env.DB)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want, _ := env.Catalog.NotificationTypes.ID(notification.TypeBookingReminder)
	got, err := reloaded.NotificationTypes.ID(notification.TypeBookingReminder)
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if got != want {
		t.Errorf("reminder type id changed across seeds: %d -> %d", want, got)
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	env := testutil.NewEnv(t)

	for _, m := range notification.Methods {
		id, err := env.Catalog.DeliveryMethods.ID(m)
		if err != nil {
			t.Fatalf("ID(%s): %v", m, err)
		}
		code, ok := env.Catalog.DeliveryMethods.Code(id)
		if !ok || code != m {
			t.Errorf("Code(%d) = %q, %v; want %q", id, code, ok, m)
		}
	}
}

func TestMissingCode(t *testing.T) {
	c := lookup.NewCatalog()
	if _, err := c.NotificationTypes.ID(notification.TypeBookingCreated); err == nil {
		t.Fatal("expected error for unseeded catalog")
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"BOOKING_CREATED": "Booking Created",
		"IN_APP":          "In App",
		"PENDING":         "Pending",
	}
	for code, want := range tests {
		if got := lookup.DisplayName(code); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", code, got, want)
		}
	}
}
