package channel

import (
	"context"
	"fmt"
	"strconv"

	"firebase.google.com/go/v4/messaging"

	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

// FCMClient is the subset of *messaging.Client the push sender uses.
type FCMClient interface {
	Send(ctx context.Context, msg *messaging.Message) (string, error)
}

type PushSender struct {
	client FCMClient
}

func NewPushSender(client FCMClient) *PushSender {
	return &PushSender{client: client}
}

func (s *PushSender) Send(ctx context.Context, n *models.Notification, u *models.User) error {
	if u == nil || u.FCMToken == "" {
		return ErrSkipped
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Content,
		},
		Data: map[string]string{
			"notification_id": strconv.FormatUint(uint64(n.ID), 10),
		},
	}
	if n.BookingID != nil {
		msg.Data["booking_id"] = strconv.FormatUint(uint64(*n.BookingID), 10)
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}
