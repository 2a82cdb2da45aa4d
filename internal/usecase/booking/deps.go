package booking

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/BruksfildServices01/room-scheduler/internal/audit"
	"github.com/BruksfildServices01/room-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/room-scheduler/internal/events"
	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/lookup"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/room-scheduler/booking")

type Policy struct {
	// RequireApproval makes new bookings PENDING until an admin confirms.
	RequireApproval bool
	NotifyOnCancel  bool
	MaxRetries      int
	Location        *time.Location
}

// Deps is shared by every booking use case.
type Deps struct {
	Repo    domain.Repository
	Catalog *lookup.Catalog
	Clock   clock.Clock
	Audit   *audit.Dispatcher
	Events  events.Publisher
	Log     *slog.Logger
	Policy  Policy
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Events == nil {
		d.Events = events.Noop{}
	}
	if d.Policy.Location == nil {
		d.Policy.Location = time.UTC
	}
	if d.Policy.MaxRetries < 1 {
		d.Policy.MaxRetries = 3
	}
	return d
}

// ignoredStatusIDs are the statuses that hold no time on a room.
func (d Deps) ignoredStatusIDs() ([]uint, error) {
	return d.Catalog.BookingStatuses.IDs(domain.InactiveStatuses...)
}

func (d Deps) statusOf(b *models.Booking) domain.Status {
	s, _ := d.Catalog.BookingStatuses.Code(b.StatusID)
	return s
}

// afterCommit emits the audit trail and the domain event. Neither can
// fail the operation.
func (d Deps) afterCommit(ctx context.Context, actorID uint, action, eventKey string, b *models.Booking) {
	d.Audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   action,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"room_id":    b.RoomID,
			"start_time": b.StartTime,
			"end_time":   b.EndTime,
		},
	})

	events.Emit(ctx, d.Events, d.Log, eventKey, events.BookingEvent{
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		Status:     string(d.statusOf(b)),
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		OccurredAt: d.Clock.Now().UTC(),
	})
}

// ======================================================
// Shared validation
// ======================================================

func validateSlot(title string, start, end time.Time) error {
	if strings.TrimSpace(title) == "" {
		return httperr.ErrValidation("title_required", "A booking needs a title.")
	}
	if start.IsZero() || end.IsZero() {
		return httperr.ErrValidation("time_required", "Start and end time are required.")
	}
	if !(domain.Interval{Start: start, End: end}).Valid() {
		return httperr.ErrValidation("invalid_time_range", "End time must be after start time.")
	}
	return nil
}

// sortedRoomIDs dedupes and orders room ids so every writer locks rooms
// in the same order.
func sortedRoomIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func toConflicts(room *models.Room, found []models.Booking) []httperr.Conflict {
	out := make([]httperr.Conflict, 0, len(found))
	for _, b := range found {
		name := room.Name
		if b.Room != nil && b.Room.Name != "" {
			name = b.Room.Name
		}
		out = append(out, httperr.Conflict{
			BookingID: b.ID,
			RoomID:    b.RoomID,
			RoomName:  name,
			Title:     b.Title,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})
	}
	return out
}

func attendees(
	hostIDs []uint,
	participantIDs []uint,
	attendanceID uint,
) ([]models.BookingHost, []models.BookingParticipant) {

	var hosts []models.BookingHost
	for _, id := range dedupe(hostIDs) {
		hosts = append(hosts, models.BookingHost{UserID: id, AttendanceStatusID: attendanceID})
	}
	var participants []models.BookingParticipant
	for _, id := range dedupe(participantIDs) {
		participants = append(participants, models.BookingParticipant{UserID: id, AttendanceStatusID: attendanceID})
	}
	return hosts, participants
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
