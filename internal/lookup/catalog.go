package lookup

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

// Catalog holds every lookup table resolved once at process start.
type Catalog struct {
	BookingStatuses      Table[booking.Status]
	BookingCategories    Table[string]
	Attendance           Table[booking.Attendance]
	NotificationTypes    Table[notification.Type]
	NotificationStatuses Table[notification.Status]
	Priorities           Table[notification.Priority]
	DeliveryStatuses     Table[notification.DeliveryStatus]
	DeliveryMethods      Table[notification.Method]
}

func NewCatalog() *Catalog {
	return &Catalog{
		BookingStatuses:      newTable[booking.Status]("booking_statuses"),
		BookingCategories:    newTable[string]("booking_categories"),
		Attendance:           newTable[booking.Attendance]("attendance_statuses"),
		NotificationTypes:    newTable[notification.Type]("notification_types"),
		NotificationStatuses: newTable[notification.Status]("notification_statuses"),
		Priorities:           newTable[notification.Priority]("notification_priorities"),
		DeliveryStatuses:     newTable[notification.DeliveryStatus]("delivery_statuses"),
		DeliveryMethods:      newTable[notification.Method]("delivery_methods"),
	}
}

type row struct {
	ID   uint
	Code string
}

func loadInto[C ~string](ctx context.Context, db *gorm.DB, model any, t Table[C]) error {
	var rows []row
	if err := db.WithContext(ctx).
		Model(model).
		Select("id", "code").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("load %s: %w", t.name, err)
	}
	for _, r := range rows {
		t.put(C(r.Code), r.ID)
	}
	return nil
}

// Load reads all lookup rows into a Catalog.
func Load(ctx context.Context, db *gorm.DB) (*Catalog, error) {
	c := NewCatalog()

	steps := []func() error{
		func() error { return loadInto(ctx, db, &models.BookingStatus{}, c.BookingStatuses) },
		func() error { return loadInto(ctx, db, &models.BookingCategory{}, c.BookingCategories) },
		func() error { return loadInto(ctx, db, &models.AttendanceStatus{}, c.Attendance) },
		func() error { return loadInto(ctx, db, &models.NotificationType{}, c.NotificationTypes) },
		func() error { return loadInto(ctx, db, &models.NotificationStatus{}, c.NotificationStatuses) },
		func() error { return loadInto(ctx, db, &models.NotificationPriority{}, c.Priorities) },
		func() error { return loadInto(ctx, db, &models.DeliveryStatus{}, c.DeliveryStatuses) },
		func() error { return loadInto(ctx, db, &models.DeliveryMethod{}, c.DeliveryMethods) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	return c, nil
}
