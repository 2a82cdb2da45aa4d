package dto

import "time"

type BookingListDTO struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	RoomID    uint      `json:"room_id"`
	RoomName  string    `json:"room_name"`
	UserID    uint      `json:"user_id"`
	IsPublic  bool      `json:"is_public"`
}
