package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

// Sender delivers one notification to one user over one channel.
type Sender interface {
	Send(ctx context.Context, n *models.Notification, u *models.User) error
}

// ErrSkipped means the channel had nothing to do for this user (no
// device token, no address). It is not a delivery failure.
var ErrSkipped = errors.New("channel: recipient skipped")

// DeliveryError records a failed send. It stays inside the dispatcher.
type DeliveryError struct {
	Method notification.Method
	UserID uint
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s to user %d: %v", e.Method, e.UserID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Registry maps delivery methods to senders. Methods without a sender
// are skipped by the dispatcher.
type Registry map[notification.Method]Sender

func (r Registry) Lookup(m notification.Method) (Sender, bool) {
	s, ok := r[m]
	return s, ok && s != nil
}

// InApp is a no-op: the persisted recipient row is the inbox entry.
type InApp struct{}

func (InApp) Send(context.Context, *models.Notification, *models.User) error {
	return nil
}
