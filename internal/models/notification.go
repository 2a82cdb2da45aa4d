package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`

	TypeID     uint `gorm:"not null;index" json:"type_id"`
	StatusID   uint `gorm:"not null;index:idx_notification_due,priority:1" json:"status_id"`
	PriorityID uint `json:"priority_id"`

	BookingID *uint `gorm:"index" json:"booking_id"`

	// ReminderWindow is "24h" / "1h" for reminders, empty otherwise.
	ReminderWindow string `gorm:"size:10;index" json:"reminder_window,omitempty"`

	ScheduledFor time.Time  `gorm:"not null;index:idx_notification_due,priority:2" json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at"`

	RetryCount   int    `gorm:"not null;default:0" json:"retry_count"`
	MaxRetries   int    `gorm:"not null;default:3" json:"max_retries"`
	ErrorMessage string `gorm:"type:text" json:"error_message,omitempty"`

	Recipients []NotificationRecipient `gorm:"constraint:OnDelete:CASCADE;" json:"recipients,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type NotificationRecipient struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	NotificationID uint `gorm:"not null;uniqueIndex:ux_notification_user,priority:1" json:"notification_id"`
	UserID         uint `gorm:"not null;uniqueIndex:ux_notification_user,priority:2;index" json:"user_id"`

	User         *User         `json:"-"`
	Notification *Notification `json:"notification,omitempty"`

	DeliveryStatusID uint       `gorm:"not null" json:"delivery_status_id"`
	ReadAt           *time.Time `json:"read_at"`

	Methods []NotificationRecipientMethod `gorm:"constraint:OnDelete:CASCADE;" json:"methods,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NotificationRecipientMethod struct {
	ID                      uint `gorm:"primaryKey" json:"id"`
	NotificationRecipientID uint `gorm:"not null;uniqueIndex:ux_recipient_method,priority:1" json:"notification_recipient_id"`
	DeliveryMethodID        uint `gorm:"not null;uniqueIndex:ux_recipient_method,priority:2" json:"delivery_method_id"`
}
