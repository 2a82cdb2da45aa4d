package notification

import (
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/lookup"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
	"github.com/BruksfildServices01/room-scheduler/internal/timezone"
)

// Draft describes a notification before its lookup codes are resolved.
type Draft struct {
	Type     domain.Type
	Priority domain.Priority
	Title    string
	Content  string

	BookingID      *uint
	ReminderWindow string

	ScheduledFor time.Time
	MaxRetries   int

	RecipientIDs []uint
	Methods      []domain.Method
}

// Build resolves every code against the catalog. Any missing code is
// an error; nothing is half-built.
func (d Draft) Build(c *lookup.Catalog) (*models.Notification, error) {
	typeID, err := c.NotificationTypes.ID(d.Type)
	if err != nil {
		return nil, err
	}
	statusID, err := c.NotificationStatuses.ID(domain.StatusPending)
	if err != nil {
		return nil, err
	}
	priorityID, err := c.Priorities.ID(d.Priority)
	if err != nil {
		return nil, err
	}
	deliveryID, err := c.DeliveryStatuses.ID(domain.DeliveryPending)
	if err != nil {
		return nil, err
	}

	methods := d.Methods
	if len(methods) == 0 {
		methods = domain.DefaultMethods
	}
	methodIDs, err := c.DeliveryMethods.IDs(methods...)
	if err != nil {
		return nil, err
	}

	n := &models.Notification{
		Title:          d.Title,
		Content:        d.Content,
		TypeID:         typeID,
		StatusID:       statusID,
		PriorityID:     priorityID,
		BookingID:      d.BookingID,
		ReminderWindow: d.ReminderWindow,
		ScheduledFor:   d.ScheduledFor.UTC(),
		MaxRetries:     d.MaxRetries,
	}

	for _, userID := range dedupe(d.RecipientIDs) {
		r := models.NotificationRecipient{
			UserID:           userID,
			DeliveryStatusID: deliveryID,
		}
		for _, mID := range methodIDs {
			r.Methods = append(r.Methods, models.NotificationRecipientMethod{DeliveryMethodID: mID})
		}
		n.Recipients = append(n.Recipients, r)
	}

	return n, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ======================================================
// Content
// ======================================================

func roomName(b *models.Booking) string {
	if b.Room != nil && b.Room.Name != "" {
		return b.Room.Name
	}
	return fmt.Sprintf("room #%d", b.RoomID)
}

func when(b *models.Booking, loc *time.Location) string {
	return timezone.FormatRange(b.StartTime, b.EndTime, loc)
}

// BookingCreated is sent to hosts and participants of a new booking.
func BookingCreated(b *models.Booking, loc *time.Location, now time.Time, maxRetries int) Draft {
	return Draft{
		Type:         domain.TypeBookingCreated,
		Priority:     domain.PriorityNormal,
		Title:        "New booking: " + b.Title,
		Content:      fmt.Sprintf("%s is booked in %s, %s.", b.Title, roomName(b), when(b, loc)),
		BookingID:    &b.ID,
		ScheduledFor: now,
		MaxRetries:   maxRetries,
		RecipientIDs: b.AttendeeIDs(),
	}
}

func BookingUpdated(b *models.Booking, loc *time.Location, now time.Time, maxRetries int) Draft {
	return Draft{
		Type:         domain.TypeBookingUpdated,
		Priority:     domain.PriorityNormal,
		Title:        "Booking updated: " + b.Title,
		Content:      fmt.Sprintf("%s now takes place in %s, %s.", b.Title, roomName(b), when(b, loc)),
		BookingID:    &b.ID,
		ScheduledFor: now,
		MaxRetries:   maxRetries,
		RecipientIDs: b.AttendeeIDs(),
	}
}

func BookingConfirmed(b *models.Booking, loc *time.Location, now time.Time, maxRetries int) Draft {
	return Draft{
		Type:         domain.TypeBookingUpdated,
		Priority:     domain.PriorityNormal,
		Title:        "Booking confirmed: " + b.Title,
		Content:      fmt.Sprintf("%s in %s, %s has been approved.", b.Title, roomName(b), when(b, loc)),
		BookingID:    &b.ID,
		ScheduledFor: now,
		MaxRetries:   maxRetries,
		RecipientIDs: append([]uint{b.UserID}, b.AttendeeIDs()...),
	}
}

func BookingCancelled(b *models.Booking, loc *time.Location, now time.Time, maxRetries int) Draft {
	return Draft{
		Type:         domain.TypeBookingCancelled,
		Priority:     domain.PriorityHigh,
		Title:        "Booking cancelled: " + b.Title,
		Content:      fmt.Sprintf("%s in %s, %s was cancelled.", b.Title, roomName(b), when(b, loc)),
		BookingID:    &b.ID,
		ScheduledFor: now,
		MaxRetries:   maxRetries,
		RecipientIDs: b.AttendeeIDs(),
	}
}

// BookingRejected tells the creator an admin declined the request.
func BookingRejected(b *models.Booking, reason string, loc *time.Location, now time.Time, maxRetries int) Draft {
	content := fmt.Sprintf("%s in %s, %s was not approved.", b.Title, roomName(b), when(b, loc))
	if reason != "" {
		content += " Reason: " + reason
	}
	return Draft{
		Type:         domain.TypeBookingCancelled,
		Priority:     domain.PriorityHigh,
		Title:        "Booking rejected: " + b.Title,
		Content:      content,
		BookingID:    &b.ID,
		ScheduledFor: now,
		MaxRetries:   maxRetries,
		RecipientIDs: []uint{b.UserID},
	}
}

// Reminder goes to the creator and participants. The window label is
// part of the content.
func Reminder(b *models.Booking, w domain.ReminderWindow, loc *time.Location, now time.Time, maxRetries int) Draft {
	recipients := []uint{b.UserID}
	for _, p := range b.Participants {
		recipients = append(recipients, p.UserID)
	}

	return Draft{
		Type:           domain.TypeBookingReminder,
		Priority:       w.Priority,
		Title:          fmt.Sprintf("Reminder: %s starts in %s", b.Title, w.Label),
		Content:        fmt.Sprintf("%s starts in %s: %s in %s.", b.Title, w.Label, when(b, loc), roomName(b)),
		BookingID:      &b.ID,
		ReminderWindow: w.Marker,
		ScheduledFor:   now,
		MaxRetries:     maxRetries,
		RecipientIDs:   recipients,
	}
}
