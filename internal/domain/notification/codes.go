package notification

import "time"

type Type string

const (
	TypeBookingCreated   Type = "BOOKING_CREATED"
	TypeBookingUpdated   Type = "BOOKING_UPDATED"
	TypeBookingCancelled Type = "BOOKING_CANCELLED"
	TypeBookingReminder  Type = "BOOKING_REMINDER"
	TypeSystem           Type = "SYSTEM"
)

var Types = []Type{
	TypeBookingCreated,
	TypeBookingUpdated,
	TypeBookingCancelled,
	TypeBookingReminder,
	TypeSystem,
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusFailed    Status = "FAILED"
)

var Statuses = []Status{StatusPending, StatusSent, StatusDelivered, StatusFailed}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

type Method string

const (
	MethodEmail Method = "EMAIL"
	MethodInApp Method = "IN_APP"
	MethodPush  Method = "PUSH"
	MethodSMS   Method = "SMS"
)

var Methods = []Method{MethodEmail, MethodInApp, MethodPush, MethodSMS}

// DefaultMethods is what booking and reminder notifications go out on.
var DefaultMethods = []Method{MethodEmail, MethodInApp}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
	DeliveryRead      DeliveryStatus = "READ"
)

var DeliveryStatuses = []DeliveryStatus{DeliveryPending, DeliveryDelivered, DeliveryFailed, DeliveryRead}

// ===============================
// Reminder windows
// ===============================

// ReminderWindow is a lead time before booking start at which a reminder
// goes out. Marker is the idempotency key stored on the notification;
// Label is embedded in the content.
type ReminderWindow struct {
	Marker   string
	Label    string
	Lead     time.Duration
	Priority Priority
}

var (
	Reminder24h = ReminderWindow{Marker: "24h", Label: "24 hours", Lead: 24 * time.Hour, Priority: PriorityNormal}
	Reminder1h  = ReminderWindow{Marker: "1h", Label: "1 hour", Lead: time.Hour, Priority: PriorityHigh}
)

var ReminderWindows = []ReminderWindow{Reminder24h, Reminder1h}

// Bounds returns the inclusive start-time range matched at now.
func (w ReminderWindow) Bounds(now time.Time, buffer time.Duration) (time.Time, time.Time) {
	target := now.Add(w.Lead)
	return target.Add(-buffer), target.Add(buffer)
}

// ===============================
// Retry rule
// ===============================

// Outcome of one delivery pass over a notification.
type Outcome string

const (
	OutcomeSent     Outcome = "sent"
	OutcomeRetrying Outcome = "retrying"
	OutcomeFailed   Outcome = "failed"
)

// NextAfterFailure applies the retry budget: the notification fails for
// good once retryCount+1 reaches maxRetries.
func NextAfterFailure(retryCount, maxRetries int) (Outcome, int) {
	next := retryCount + 1
	if next >= maxRetries {
		return OutcomeFailed, next
	}
	return OutcomeRetrying, next
}
