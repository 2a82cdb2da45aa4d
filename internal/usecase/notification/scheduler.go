package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/lookup"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

type SchedulerConfig struct {
	// Buffer widens each reminder window on both sides.
	Buffer     time.Duration
	BatchSize  int
	MaxRetries int
	Location   *time.Location
}

// Scheduler decides what is due on each tick: it creates reminders for
// upcoming bookings and selects pending notifications to send.
type Scheduler struct {
	repo    domain.Repository
	catalog *lookup.Catalog
	cfg     SchedulerConfig
	log     *slog.Logger
}

func NewScheduler(
	repo domain.Repository,
	catalog *lookup.Catalog,
	cfg SchedulerConfig,
	log *slog.Logger,
) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{repo: repo, catalog: catalog, cfg: cfg, log: log}
}

// GenerateReminders creates at most one reminder per booking and
// window. The existence check and the insert are not atomic; two
// overlapping ticks on different instances can both insert.
func (s *Scheduler) GenerateReminders(ctx context.Context, now time.Time) (int, error) {
	reminderTypeID, err := s.catalog.NotificationTypes.ID(domain.TypeBookingReminder)
	if err != nil {
		return 0, err
	}
	activeIDs, err := s.catalog.BookingStatuses.IDs(booking.StatusPending, booking.StatusConfirmed)
	if err != nil {
		return 0, err
	}

	created := 0
	var errs []error

	for _, w := range domain.ReminderWindows {
		from, to := w.Bounds(now.UTC(), s.cfg.Buffer)

		bookings, err := s.repo.ListBookingsStartingBetween(ctx, from, to, activeIDs)
		if err != nil {
			return created, fmt.Errorf("list bookings for %s reminders: %w", w.Marker, err)
		}

		for i := range bookings {
			b := &bookings[i]
			ok, err := s.createReminder(ctx, b, w, reminderTypeID, now)
			if err != nil {
				s.log.Error("reminder failed", "booking_id", b.ID, "window", w.Marker, "error", err)
				errs = append(errs, err)
				continue
			}
			if ok {
				created++
			}
		}
	}

	return created, errors.Join(errs...)
}

func (s *Scheduler) createReminder(
	ctx context.Context,
	b *models.Booking,
	w domain.ReminderWindow,
	reminderTypeID uint,
	now time.Time,
) (bool, error) {

	exists, err := s.repo.ReminderExists(ctx, b.ID, reminderTypeID, w.Marker)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	n, err := Reminder(b, w, s.cfg.Location, now, s.cfg.MaxRetries).Build(s.catalog)
	if err != nil {
		return false, err
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return false, err
	}

	s.log.Info("reminder scheduled", "booking_id", b.ID, "window", w.Marker, "notification_id", n.ID)
	return true, nil
}

// DueNotifications returns pending notifications scheduled at or before
// now, oldest first.
func (s *Scheduler) DueNotifications(ctx context.Context, now time.Time) ([]models.Notification, error) {
	pendingID, err := s.catalog.NotificationStatuses.ID(domain.StatusPending)
	if err != nil {
		return nil, err
	}
	return s.repo.ListDue(ctx, now.UTC(), pendingID, s.cfg.BatchSize)
}
