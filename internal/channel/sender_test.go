package channel

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

type fakeSES struct {
	calls []*sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

type fakeFCM struct {
	msgs []*messaging.Message
	err  error
}

func (f *fakeFCM) Send(_ context.Context, msg *messaging.Message) (string, error) {
	f.msgs = append(f.msgs, msg)
	return "msg-1", f.err
}

func TestEmailSender(t *testing.T) {
	ses := &fakeSES{}
	s := NewEmailSender(ses, "rooms@example.com")
	n := &models.Notification{Title: "Booking created", Content: "Room A"}

	if err := s.Send(context.Background(), n, &models.User{ID: 1, Email: "ana@example.com"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(ses.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(ses.calls))
	}
	got := ses.calls[0]
	if got.Destination.ToAddresses[0] != "ana@example.com" {
		t.Errorf("to = %v", got.Destination.ToAddresses)
	}
	if *got.Content.Simple.Subject.Data != "Booking created" {
		t.Errorf("subject = %q", *got.Content.Simple.Subject.Data)
	}
}

func TestEmailSenderWrapsError(t *testing.T) {
	boom := errors.New("throttled")
	s := NewEmailSender(&fakeSES{err: boom}, "rooms@example.com")

	err := s.Send(context.Background(), &models.Notification{}, &models.User{Email: "a@example.com"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestPushSenderSkipsWithoutToken(t *testing.T) {
	fcm := &fakeFCM{}
	s := NewPushSender(fcm)

	err := s.Send(context.Background(), &models.Notification{}, &models.User{ID: 2})
	if !errors.Is(err, ErrSkipped) {
		t.Fatalf("err = %v, want ErrSkipped", err)
	}
	if len(fcm.msgs) != 0 {
		t.Errorf("sent %d messages, want 0", len(fcm.msgs))
	}
}

func TestPushSenderIncludesBookingID(t *testing.T) {
	fcm := &fakeFCM{}
	s := NewPushSender(fcm)
	bookingID := uint(42)

	n := &models.Notification{ID: 7, Title: "Reminder", BookingID: &bookingID}
	if err := s.Send(context.Background(), n, &models.User{FCMToken: "tok"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := fcm.msgs[0].Data["booking_id"]; got != "42" {
		t.Errorf("booking_id = %q, want 42", got)
	}
	if fcm.msgs[0].Token != "tok" {
		t.Errorf("token = %q", fcm.msgs[0].Token)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := Registry{"IN_APP": InApp{}}
	if _, ok := r.Lookup("SMS"); ok {
		t.Error("SMS should have no sender")
	}
	if _, ok := r.Lookup("IN_APP"); !ok {
		t.Error("IN_APP should resolve")
	}
}

func TestEmailSenderSkipsMalformedAddress(t *testing.T) {
	ses := &fakeSES{}
	s := NewEmailSender(ses, "rooms@example.com")

	for _, addr := range []string{"", "not-an-email"} {
		err := s.Send(context.Background(), &models.Notification{}, &models.User{Email: addr})
		if !errors.Is(err, ErrSkipped) {
			t.Errorf("%q: err = %v, want ErrSkipped", addr, err)
		}
	}
	if len(ses.calls) != 0 {
		t.Errorf("SES called %d times", len(ses.calls))
	}
}
