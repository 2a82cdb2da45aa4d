package models

// Lookup tables. Rows are seeded once at startup and referenced by id;
// Code is the stable identifier, Name is free to change for display.

type BookingStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:60" json:"name"`
}

type BookingCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:60" json:"name"`
}

type AttendanceStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:60" json:"name"`
}

type NotificationType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:60" json:"name"`
}

type NotificationStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:60" json:"name"`
}

type NotificationPriority struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:60" json:"name"`
}

type DeliveryStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:60" json:"name"`
}

type DeliveryMethod struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:60" json:"name"`
}
