package dto

import "time"

type InboxItemDTO struct {
	NotificationID uint       `json:"notification_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Type           string     `json:"type"`
	Priority       string     `json:"priority"`
	BookingID      *uint      `json:"booking_id,omitempty"`
	ScheduledFor   time.Time  `json:"scheduled_for"`
	ReadAt         *time.Time `json:"read_at"`
}
