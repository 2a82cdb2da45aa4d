package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/room-scheduler/internal/channel"
	"github.com/BruksfildServices01/room-scheduler/internal/clock"
	"github.com/BruksfildServices01/room-scheduler/internal/domain/booking"
	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
	"github.com/BruksfildServices01/room-scheduler/internal/testutil"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// stubSender records calls and fails while err is set.
type stubSender struct {
	mu    sync.Mutex
	calls []uint
	err   error
}

func (s *stubSender) Send(_ context.Context, _ *models.Notification, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u != nil {
		s.calls = append(s.calls, u.ID)
	}
	return s.err
}

func (s *stubSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type harness struct {
	env   *testutil.Env
	repo  *repository.NotificationGormRepository
	clock *clock.FakeClock
	email *stubSender
	push  *stubSender

	scheduler  *Scheduler
	dispatcher *Dispatcher
	pipeline   *Pipeline
}

func newHarness(t *testing.T, markDelivered bool) *harness {
	t.Helper()
	env := testutil.NewEnv(t)
	repo := repository.NewNotificationGormRepository(env.DB)
	clk := clock.Fake(epoch)

	h := &harness{
		env:   env,
		repo:  repo,
		clock: clk,
		email: &stubSender{},
		push:  &stubSender{},
	}

	senders := channel.Registry{
		domain.MethodEmail: h.email,
		domain.MethodPush:  h.push,
		domain.MethodInApp: channel.InApp{},
	}

	h.scheduler = NewScheduler(repo, env.Catalog, SchedulerConfig{
		Buffer:     5 * time.Minute,
		BatchSize:  100,
		MaxRetries: 3,
	}, nil)
	h.dispatcher = NewDispatcher(repo, env.Catalog, senders, DispatcherConfig{
		MarkRecipientsDeliveredOnAttempt: markDelivered,
		Concurrency:                      4,
	}, nil)
	h.pipeline = NewPipeline(h.scheduler, h.dispatcher, clk, PipelineOptions{})
	return h
}

func (h *harness) booking(t *testing.T, owner *models.User, start time.Time, status booking.Status, participants ...*models.User) *models.Booking {
	t.Helper()
	room := h.env.Room(t, "Board room")
	statusID, err := h.env.Catalog.BookingStatuses.ID(status)
	if err != nil {
		t.Fatal(err)
	}
	b := &models.Booking{
		Title:     "Planning",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		RoomID:    room.ID,
		UserID:    owner.ID,
		StatusID:  statusID,
	}
	for _, p := range participants {
		b.Participants = append(b.Participants, models.BookingParticipant{UserID: p.ID})
	}
	if err := h.env.DB.Create(b).Error; err != nil {
		t.Fatal(err)
	}
	return b
}

// notification persists a pending notification for users over methods.
func (h *harness) notification(t *testing.T, scheduledFor time.Time, methods []domain.Method, users ...*models.User) *models.Notification {
	t.Helper()
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	n, err := Draft{
		Type:         domain.TypeSystem,
		Priority:     domain.PriorityNormal,
		Title:        "Heads up",
		Content:      "Maintenance tonight",
		ScheduledFor: scheduledFor,
		MaxRetries:   3,
		RecipientIDs: ids,
		Methods:      methods,
	}.Build(h.env.Catalog)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.repo.CreateNotification(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	return n
}

func (h *harness) reload(t *testing.T, id uint) *models.Notification {
	t.Helper()
	var n models.Notification
	if err := h.env.DB.Unscoped().Preload("Recipients").First(&n, id).Error; err != nil {
		t.Fatal(err)
	}
	return &n
}

func (h *harness) status(t *testing.T, n *models.Notification) domain.Status {
	t.Helper()
	s, ok := h.env.Catalog.NotificationStatuses.Code(n.StatusID)
	if !ok {
		t.Fatalf("unknown status id %d", n.StatusID)
	}
	return s
}

func (h *harness) reminders(t *testing.T, bookingID uint) []models.Notification {
	t.Helper()
	typeID, _ := h.env.Catalog.NotificationTypes.ID(domain.TypeBookingReminder)
	var out []models.Notification
	if err := h.env.DB.Preload("Recipients").
		Where("booking_id = ? AND type_id = ?", bookingID, typeID).
		Order("id").Find(&out).Error; err != nil {
		t.Fatal(err)
	}
	return out
}

func (h *harness) run(t *testing.T) *Result {
	t.Helper()
	res, err := h.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

var errBounce = errors.New("mailbox unavailable")
