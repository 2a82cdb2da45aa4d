package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*BookingGormRepository)(nil)

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *BookingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Room
// --------------------------------------------------

func (r *BookingGormRepository) GetRooms(
	ctx context.Context,
	ids []uint,
) ([]models.Room, error) {

	var rooms []models.Room
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *BookingGormRepository) LockRoom(
	ctx context.Context,
	id uint,
) (*models.Room, error) {

	var room models.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("room_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// --------------------------------------------------
// Booking (conflict)
// --------------------------------------------------

func (r *BookingGormRepository) ListOverlapping(
	ctx context.Context,
	roomID uint,
	start time.Time,
	end time.Time,
	ignoreStatusIDs []uint,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Room").
		Where("room_id = ? AND start_time < ? AND end_time > ?", roomID, end, start)

	if len(ignoreStatusIDs) > 0 {
		q = q.Where("status_id NOT IN ?", ignoreStatusIDs)
	}

	var out []models.Booking
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Booking (write)
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Omit("Room").Create(b).Error
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Hosts").
		Preload("Participants").
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrNotFound("booking_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(b).Error
}

func (r *BookingGormRepository) ReplaceAttendees(
	ctx context.Context,
	bookingID uint,
	hosts []models.BookingHost,
	participants []models.BookingParticipant,
) error {

	db := r.db.WithContext(ctx)

	if err := db.Where("booking_id = ?", bookingID).
		Delete(&models.BookingHost{}).Error; err != nil {
		return err
	}
	if err := db.Where("booking_id = ?", bookingID).
		Delete(&models.BookingParticipant{}).Error; err != nil {
		return err
	}

	for i := range hosts {
		hosts[i].ID = 0
		hosts[i].BookingID = bookingID
	}
	for i := range participants {
		participants[i].ID = 0
		participants[i].BookingID = bookingID
	}

	if len(hosts) > 0 {
		if err := db.Create(&hosts).Error; err != nil {
			return err
		}
	}
	if len(participants) > 0 {
		if err := db.Create(&participants).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *BookingGormRepository) SoftDeleteBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Delete(b).Error
}

// --------------------------------------------------
// Notifications tied to bookings
// --------------------------------------------------

func (r *BookingGormRepository) CreateNotification(
	ctx context.Context,
	n *models.Notification,
) error {
	return createNotification(r.db.WithContext(ctx), n)
}

func (r *BookingGormRepository) SoftDeletePendingNotifications(
	ctx context.Context,
	bookingID uint,
	pendingStatusID uint,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("booking_id = ? AND status_id = ?", bookingID, pendingStatusID).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	roomID *uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Room").
		Where("start_time < ? AND end_time > ?", end, start)

	if roomID != nil {
		q = q.Where("room_id = ?", *roomID)
	}

	var out []models.Booking
	if err := q.Order("start_time ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// createNotification writes the notification with its recipients and
// their methods. Loaded users are never upserted.
func createNotification(db *gorm.DB, n *models.Notification) error {
	return db.Omit("Recipients.User", "Recipients.Notification").Create(n).Error
}
