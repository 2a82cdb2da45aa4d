package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*NotificationGormRepository)(nil)

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&NotificationGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Drain
// --------------------------------------------------

func (r *NotificationGormRepository) ListDue(
	ctx context.Context,
	now time.Time,
	pendingStatusID uint,
	limit int,
) ([]models.Notification, error) {

	var out []models.Notification
	if err := r.db.WithContext(ctx).
		Preload("Recipients.User").
		Preload("Recipients.Methods").
		Where("status_id = ? AND scheduled_for <= ?", pendingStatusID, now).
		Order("scheduled_for ASC, id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *NotificationGormRepository) ListBookingsStartingBetween(
	ctx context.Context,
	from time.Time,
	to time.Time,
	statusIDs []uint,
) ([]models.Booking, error) {

	var out []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Participants").
		Where("start_time >= ? AND start_time <= ? AND status_id IN ?", from, to, statusIDs).
		Order("start_time ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *NotificationGormRepository) ReminderExists(
	ctx context.Context,
	bookingID uint,
	reminderTypeID uint,
	window string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("booking_id = ? AND type_id = ? AND reminder_window = ?", bookingID, reminderTypeID, window).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *NotificationGormRepository) CreateNotification(
	ctx context.Context,
	n *models.Notification,
) error {
	return createNotification(r.db.WithContext(ctx), n)
}

// --------------------------------------------------
// Dispatch outcome
// --------------------------------------------------

func (r *NotificationGormRepository) SaveOutcome(
	ctx context.Context,
	n *models.Notification,
	recipients []domain.RecipientUpdate,
) error {

	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Notification{ID: n.ID}).
		Updates(map[string]any{
			"status_id":     n.StatusID,
			"retry_count":   n.RetryCount,
			"error_message": n.ErrorMessage,
			"sent_at":       n.SentAt,
		}).Error; err != nil {
		return err
	}

	for _, u := range recipients {
		q := db.Model(&models.NotificationRecipient{}).Where("id = ?", u.RecipientID)
		if u.KeepStatusID != 0 {
			q = q.Where("delivery_status_id <> ?", u.KeepStatusID)
		}
		if err := q.Update("delivery_status_id", u.DeliveryStatusID).Error; err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------
// Inbox
// --------------------------------------------------

func (r *NotificationGormRepository) inboxQuery(
	ctx context.Context,
	userID uint,
	inAppMethodID uint,
) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.NotificationRecipient{}).
		Joins("JOIN notifications ON notifications.id = notification_recipients.notification_id AND notifications.deleted_at IS NULL").
		Joins("JOIN notification_recipient_methods ON notification_recipient_methods.notification_recipient_id = notification_recipients.id AND notification_recipient_methods.delivery_method_id = ?", inAppMethodID).
		Where("notification_recipients.user_id = ?", userID)
}

func (r *NotificationGormRepository) ListInbox(
	ctx context.Context,
	userID uint,
	inAppMethodID uint,
	limit int,
	offset int,
) ([]models.NotificationRecipient, int64, error) {

	var total int64
	if err := r.inboxQuery(ctx, userID, inAppMethodID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.NotificationRecipient
	if err := r.inboxQuery(ctx, userID, inAppMethodID).
		Preload("Notification").
		Order("notifications.scheduled_for DESC, notification_recipients.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *NotificationGormRepository) MarkRead(
	ctx context.Context,
	userID uint,
	notificationID uint,
	readStatusID uint,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.NotificationRecipient{}).
		Where("user_id = ? AND notification_id = ?", userID, notificationID).
		Updates(map[string]any{
			"read_at":            at,
			"delivery_status_id": readStatusID,
		})
	return res.RowsAffected > 0, res.Error
}
