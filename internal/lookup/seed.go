package lookup

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

var titleCaser = cases.Title(language.English)

// DisplayName turns BOOKING_CREATED into "Booking Created".
func DisplayName(code string) string {
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(code, "_", " ")))
}

func seedRows[C ~string, M any](tx *gorm.DB, codes []C, build func(code, name string) *M) error {
	for _, code := range codes {
		row := build(string(code), DisplayName(string(code)))
		if err := tx.Where("code = ?", string(code)).FirstOrCreate(row).Error; err != nil {
			return err
		}
	}
	return nil
}

// Seed inserts any missing lookup rows. Existing rows keep their ids
// and display names.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedRows(tx, booking.Statuses, func(c, n string) *models.BookingStatus {
			return &models.BookingStatus{Code: c, Name: n}
		}); err != nil {
			return err
		}
		if err := seedRows(tx, booking.Categories, func(c, n string) *models.BookingCategory {
			return &models.BookingCategory{Code: c, Name: n}
		}); err != nil {
			return err
		}
		if err := seedRows(tx, booking.Attendances, func(c, n string) *models.AttendanceStatus {
			return &models.AttendanceStatus{Code: c, Name: n}
		}); err != nil {
			return err
		}
		if err := seedRows(tx, notification.Types, func(c, n string) *models.NotificationType {
			return &models.NotificationType{Code: c, Name: n}
		}); err != nil {
			return err
		}
		if err := seedRows(tx, notification.Statuses, func(c, n string) *models.NotificationStatus {
			return &models.NotificationStatus{Code: c, Name: n}
		}); err != nil {
			return err
		}
		if err := seedRows(tx, notification.Priorities, func(c, n string) *models.NotificationPriority {
			return &models.NotificationPriority{Code: c, Name: n}
		}); err != nil {
			return err
		}
		if err := seedRows(tx, notification.DeliveryStatuses, func(c, n string) *models.DeliveryStatus {
			return &models.DeliveryStatus{Code: c, Name: n}
		}); err != nil {
			return err
		}
		return seedRows(tx, notification.Methods, func(c, n string) *models.DeliveryMethod {
			return &models.DeliveryMethod{Code: c, Name: n}
		})
	})
}
