package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	notificationDomain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

// ======================================================
// Update
// ======================================================

func TestUpdateBookingExcludesItself(t *testing.T) {
	f := newFixture(t)
	created, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}

	updated, err := NewUpdateBooking(f.deps).Execute(context.Background(), UpdateBookingInput{
		ID:             created[0].ID,
		UserID:         f.owner.ID,
		Title:          "Sync (moved)",
		Start:          at(10, 30),
		End:            at(11, 30),
		RoomID:         f.room.ID,
		ParticipantIDs: []uint{f.guest.ID},
	})
	if err != nil {
		t.Fatalf("update over own slot: %v", err)
	}
	if !updated.StartTime.Equal(at(10, 30)) || updated.UpdatedBy != f.owner.ID {
		t.Errorf("updated = %+v", updated)
	}

	var hosts int64
	f.env.DB.Model(&models.BookingHost{}).Where("booking_id = ?", created[0].ID).Count(&hosts)
	if hosts != 0 {
		t.Errorf("hosts = %d, want 0 after replace", hosts)
	}

	var types []uint
	f.env.DB.Model(&models.Notification{}).Where("booking_id = ?", created[0].ID).Pluck("type_id", &types)
	updatedType, _ := f.env.Catalog.NotificationTypes.ID(notificationDomain.TypeBookingUpdated)
	found := false
	for _, id := range types {
		found = found || id == updatedType
	}
	if !found {
		t.Error("no BOOKING_UPDATED notification enqueued")
	}
}

func TestUpdateBookingConflictAndRoomChange(t *testing.T) {
	f := newFixture(t)
	other := f.env.Room(t, "S")

	first, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.create(t, at(12, 0), at(13, 0), other.ID); err != nil {
		t.Fatal(err)
	}

	uc := NewUpdateBooking(f.deps)
	in := UpdateBookingInput{
		ID:     first[0].ID,
		UserID: f.owner.ID,
		Title:  "Sync",
		Start:  at(12, 30),
		End:    at(13, 30),
		RoomID: other.ID,
	}

	ce := mustConflict(t, func() error { _, err := uc.Execute(context.Background(), in); return err }())
	if ce.Conflicts[0].RoomName != "S" {
		t.Errorf("conflict room = %q", ce.Conflicts[0].RoomName)
	}

	in.Start, in.End = at(13, 0), at(14, 0)
	got, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("move to free slot: %v", err)
	}
	if got.RoomID != other.ID {
		t.Errorf("room = %d, want %d", got.RoomID, other.ID)
	}
}

func TestUpdateBookingOnlyCreator(t *testing.T) {
	f := newFixture(t)
	created, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewUpdateBooking(f.deps).Execute(context.Background(), UpdateBookingInput{
		ID:     created[0].ID,
		UserID: f.guest.ID,
		Title:  "Hijack",
		Start:  at(10, 0),
		End:    at(11, 0),
		RoomID: f.room.ID,
	})
	var ae httperr.AuthorizationError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want AuthorizationError", err)
	}
}

// ======================================================
// Cancel
// ======================================================

func TestCancelBookingRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	created, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewCancelBooking(f.deps).Execute(context.Background(), CancelBookingInput{
		ID:     created[0].ID,
		UserID: f.owner.ID,
	})
	var ve httperr.ValidationError
	if !errors.As(err, &ve) || ve.Code != "confirmation_required" {
		t.Fatalf("err = %v, want confirmation_required", err)
	}
}

func TestCancelBookingOnlyCreator(t *testing.T) {
	f := newFixture(t)
	created, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewCancelBooking(f.deps).Execute(context.Background(), CancelBookingInput{
		ID: created[0].ID, UserID: f.guest.ID, Confirm: true,
	})
	var ae httperr.AuthorizationError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want AuthorizationError", err)
	}
}

func TestCancelBookingDropsOnlyPendingNotifications(t *testing.T) {
	f := newFixture(t)
	created, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}
	bookingID := created[0].ID

	typeID, _ := f.env.Catalog.NotificationTypes.ID(notificationDomain.TypeBookingReminder)
	history := map[notificationDomain.Status]*models.Notification{}
	for _, s := range []notificationDomain.Status{
		notificationDomain.StatusSent,
		notificationDomain.StatusDelivered,
		notificationDomain.StatusFailed,
	} {
		n := &models.Notification{
			Title:        string(s),
			TypeID:       typeID,
			StatusID:     f.statusID(t, s),
			BookingID:    &bookingID,
			ScheduledFor: f.clock.Now(),
			MaxRetries:   3,
		}
		if err := f.env.DB.Create(n).Error; err != nil {
			t.Fatal(err)
		}
		history[s] = n
	}

	if _, err := NewCancelBooking(f.deps).Execute(context.Background(), CancelBookingInput{
		ID: bookingID, UserID: f.owner.ID, Confirm: true,
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The BOOKING_CREATED row was pending: gone from the live set.
	createdType, _ := f.env.Catalog.NotificationTypes.ID(notificationDomain.TypeBookingCreated)
	var live int64
	f.env.DB.Model(&models.Notification{}).
		Where("booking_id = ? AND type_id = ?", bookingID, createdType).Count(&live)
	if live != 0 {
		t.Errorf("pending BOOKING_CREATED still live")
	}
	var deleted int64
	f.env.DB.Unscoped().Model(&models.Notification{}).
		Where("booking_id = ? AND type_id = ? AND deleted_at IS NOT NULL", bookingID, createdType).Count(&deleted)
	if deleted != 1 {
		t.Errorf("soft-deleted BOOKING_CREATED = %d, want 1", deleted)
	}

	for s, n := range history {
		var got models.Notification
		if err := f.env.DB.First(&got, n.ID).Error; err != nil {
			t.Errorf("%s notification was removed: %v", s, err)
		}
	}

	cancelledType, _ := f.env.Catalog.NotificationTypes.ID(notificationDomain.TypeBookingCancelled)
	var alerts int64
	f.env.DB.Model(&models.Notification{}).
		Where("booking_id = ? AND type_id = ?", bookingID, cancelledType).Count(&alerts)
	if alerts != 1 {
		t.Errorf("BOOKING_CANCELLED alerts = %d, want 1", alerts)
	}

	// Booking is soft-deleted and the slot is free again.
	var b models.Booking
	if err := f.env.DB.Unscoped().First(&b, bookingID).Error; err != nil {
		t.Fatal(err)
	}
	if !b.DeletedAt.Valid {
		t.Error("booking not soft-deleted")
	}
	if got := f.deps.statusOf(&b); got != domain.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", got)
	}
	if _, err := f.create(t, at(10, 0), at(11, 0)); err != nil {
		t.Errorf("slot should be free after cancel: %v", err)
	}
}

func TestCancelBookingWithoutAlert(t *testing.T) {
	f := newFixture(t)
	f.deps.Policy.NotifyOnCancel = false
	created, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewCancelBooking(f.deps).Execute(context.Background(), CancelBookingInput{
		ID: created[0].ID, UserID: f.owner.ID, Confirm: true,
	}); err != nil {
		t.Fatal(err)
	}

	var live int64
	f.env.DB.Model(&models.Notification{}).Where("booking_id = ?", created[0].ID).Count(&live)
	if live != 0 {
		t.Errorf("live notifications = %d, want 0", live)
	}
}

// ======================================================
// Confirm / reject / complete
// ======================================================

func TestConfirmAndCompleteTransitions(t *testing.T) {
	f := newFixture(t)
	f.deps.Policy.RequireApproval = true
	created, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}
	id := created[0].ID
	ctx := context.Background()

	complete := NewCompleteBooking(f.deps)
	if _, err := complete.Execute(ctx, id, f.owner.ID); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("complete pending: err = %v, want invalid_state", err)
	}

	confirm := NewConfirmBooking(f.deps)
	var ae httperr.AuthorizationError
	if _, err := confirm.Execute(ctx, id, f.owner.ID, "member"); !errors.As(err, &ae) {
		t.Fatalf("member confirm: err = %v, want AuthorizationError", err)
	}

	b, err := confirm.Execute(ctx, id, 99, RoleAdmin)
	if err != nil {
		t.Fatalf("admin confirm: %v", err)
	}
	if f.deps.statusOf(b) != domain.StatusConfirmed {
		t.Fatalf("status = %s", f.deps.statusOf(b))
	}
	if _, err := confirm.Execute(ctx, id, 99, RoleAdmin); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("double confirm: err = %v", err)
	}

	b, err = complete.Execute(ctx, id, f.owner.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if f.deps.statusOf(b) != domain.StatusCompleted {
		t.Fatalf("status = %s", f.deps.statusOf(b))
	}

	_, err = NewCancelBooking(f.deps).Execute(ctx, CancelBookingInput{ID: id, UserID: f.owner.ID, Confirm: true})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("cancel completed: err = %v", err)
	}
}

func TestRejectBookingFreesSlot(t *testing.T) {
	f := newFixture(t)
	f.deps.Policy.RequireApproval = true
	created, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}
	id := created[0].ID
	ctx := context.Background()
	reject := NewRejectBooking(f.deps)

	var ae httperr.AuthorizationError
	if _, err := reject.Execute(ctx, id, f.owner.ID, "member", ""); !errors.As(err, &ae) {
		t.Fatalf("member reject: err = %v, want AuthorizationError", err)
	}

	b, err := reject.Execute(ctx, id, 99, RoleAdmin, "room closed for maintenance")
	if err != nil {
		t.Fatalf("admin reject: %v", err)
	}
	if f.deps.statusOf(b) != domain.StatusRejected || b.UpdatedBy != 99 {
		t.Fatalf("booking = %+v", b)
	}
	if _, err := reject.Execute(ctx, id, 99, RoleAdmin, ""); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("double reject: err = %v", err)
	}
	if _, err := NewConfirmBooking(f.deps).Execute(ctx, id, 99, RoleAdmin); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("confirm rejected: err = %v", err)
	}

	createdType, _ := f.env.Catalog.NotificationTypes.ID(notificationDomain.TypeBookingCreated)
	var live int64
	f.env.DB.Model(&models.Notification{}).
		Where("booking_id = ? AND type_id = ?", id, createdType).Count(&live)
	if live != 0 {
		t.Errorf("pending BOOKING_CREATED still live after reject")
	}

	alertType, _ := f.env.Catalog.NotificationTypes.ID(notificationDomain.TypeBookingCancelled)
	var alerts []models.Notification
	f.env.DB.Preload("Recipients").
		Where("booking_id = ? AND type_id = ?", id, alertType).Find(&alerts)
	if len(alerts) != 1 {
		t.Fatalf("rejection alerts = %d, want 1", len(alerts))
	}
	if len(alerts[0].Recipients) != 1 || alerts[0].Recipients[0].UserID != f.owner.ID {
		t.Errorf("alert recipients = %+v, want only the creator", alerts[0].Recipients)
	}
	if alerts[0].StatusID != f.statusID(t, notificationDomain.StatusPending) {
		t.Errorf("alert status_id = %d, want PENDING", alerts[0].StatusID)
	}

	// The row stays visible with its new status.
	var kept models.Booking
	if err := f.env.DB.First(&kept, id).Error; err != nil {
		t.Fatalf("rejected booking hidden: %v", err)
	}

	again, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatalf("rebook rejected slot: %v", err)
	}
	if len(again) != 1 || again[0].ID == id {
		t.Errorf("rebooked = %+v", again)
	}
}

func TestGetMissingBooking(t *testing.T) {
	f := newFixture(t)
	_, err := NewCompleteBooking(f.deps).Execute(context.Background(), 404, f.owner.ID)
	var ne httperr.NotFoundError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

// ======================================================
// Availability / list
// ======================================================

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	created, err := f.create(t, at(10, 0), at(11, 0))
	if err != nil {
		t.Fatal(err)
	}
	uc := NewCheckAvailability(f.deps)
	ctx := context.Background()

	got, err := uc.Execute(ctx, CheckAvailabilityInput{RoomIDs: []uint{f.room.ID}, Start: at(10, 30), End: at(11, 30)})
	if err != nil {
		t.Fatal(err)
	}
	if got.Available || len(got.Conflicts) != 1 {
		t.Fatalf("got %+v, want one conflict", got)
	}

	got, err = uc.Execute(ctx, CheckAvailabilityInput{
		RoomIDs:          []uint{f.room.ID},
		Start:            at(10, 30),
		End:              at(11, 30),
		ExcludeBookingID: &created[0].ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Available {
		t.Errorf("excluded booking still reported: %+v", got.Conflicts)
	}

	_, err = uc.Execute(ctx, CheckAvailabilityInput{RoomIDs: []uint{9999}, Start: at(1, 0), End: at(2, 0)})
	var ne httperr.NotFoundError
	if !errors.As(err, &ne) {
		t.Errorf("unknown room: err = %v", err)
	}
}

func TestListBookings(t *testing.T) {
	f := newFixture(t)
	other := f.env.Room(t, "S")
	if _, err := f.create(t, at(10, 0), at(11, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.create(t, at(9, 0), at(10, 0), other.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.create(t, day.Add(30*time.Hour), day.Add(31*time.Hour)); err != nil {
		t.Fatal(err)
	}

	uc := NewListBookings(f.deps)

	all, err := uc.Execute(context.Background(), "2026-03-02", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].RoomName != "S" || all[0].Status != string(domain.StatusConfirmed) {
		t.Fatalf("all = %+v", all)
	}

	onlyR, err := uc.Execute(context.Background(), "2026-03-02", &f.room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyR) != 1 || onlyR[0].RoomID != f.room.ID {
		t.Fatalf("onlyR = %+v", onlyR)
	}

	if _, err := uc.Execute(context.Background(), "03/02/2026", nil); err == nil {
		t.Error("expected invalid_date")
	}
}
