package models

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Notes       string `gorm:"type:text" json:"notes"`

	StartTime time.Time `gorm:"not null;index:idx_booking_room_time,priority:2" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index:idx_booking_room_time,priority:3" json:"end_time"`

	RoomID uint  `gorm:"not null;index:idx_booking_room_time,priority:1" json:"room_id"`
	Room   *Room `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"room,omitempty"`

	// UserID is the creator; only the creator may edit or cancel.
	UserID uint `gorm:"not null;index" json:"user_id"`

	StatusID          uint `gorm:"not null;index" json:"status_id"`
	BookingCategoryID uint `json:"booking_category_id"`

	IsPublic       bool `gorm:"default:false" json:"is_public"`
	OpenEnrollment bool `gorm:"default:false" json:"open_enrollment"`
	IsAfterHours   bool `gorm:"default:false" json:"is_after_hours"`

	Hosts        []BookingHost        `gorm:"constraint:OnDelete:CASCADE;" json:"hosts,omitempty"`
	Participants []BookingParticipant `gorm:"constraint:OnDelete:CASCADE;" json:"participants,omitempty"`

	CreatedBy uint `json:"created_by"`
	UpdatedBy uint `json:"updated_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type BookingHost struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	BookingID          uint      `gorm:"not null;uniqueIndex:ux_booking_host,priority:1" json:"booking_id"`
	UserID             uint      `gorm:"not null;uniqueIndex:ux_booking_host,priority:2" json:"user_id"`
	AttendanceStatusID uint      `json:"attendance_status_id"`
	CreatedAt          time.Time `json:"created_at"`
}

type BookingParticipant struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	BookingID          uint      `gorm:"not null;uniqueIndex:ux_booking_participant,priority:1" json:"booking_id"`
	UserID             uint      `gorm:"not null;uniqueIndex:ux_booking_participant,priority:2" json:"user_id"`
	AttendanceStatusID uint      `json:"attendance_status_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// AttendeeIDs returns hosts followed by participants, without duplicates.
func (b *Booking) AttendeeIDs() []uint {
	seen := make(map[uint]struct{}, len(b.Hosts)+len(b.Participants))
	out := make([]uint, 0, len(b.Hosts)+len(b.Participants))
	add := func(id uint) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, h := range b.Hosts {
		add(h.UserID)
	}
	for _, p := range b.Participants {
		add(p.UserID)
	}
	return out
}
