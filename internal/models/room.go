package models

import "time"

type Room struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Building string `gorm:"size:100" json:"building"`
	Capacity int    `json:"capacity"`
	Active   bool   `gorm:"default:true" json:"active"`

	Features []RoomFeature `gorm:"constraint:OnDelete:CASCADE;" json:"features,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomFeature is one row per feature (projector, whiteboard, ...).
type RoomFeature struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	RoomID uint   `gorm:"not null;uniqueIndex:ux_room_feature,priority:1" json:"room_id"`
	Name   string `gorm:"size:60;not null;uniqueIndex:ux_room_feature,priority:2" json:"name"`
}
