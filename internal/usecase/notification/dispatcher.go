package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/room-scheduler/internal/channel"
	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/lookup"
	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

type DispatcherConfig struct {
	// MarkRecipientsDeliveredOnAttempt marks every recipient DELIVERED
	// after a pass regardless of channel results. When false, a
	// recipient is DELIVERED only if all its channels succeeded.
	MarkRecipientsDeliveredOnAttempt bool

	// Concurrency bounds parallel sends per notification.
	Concurrency int
}

// Dispatcher sends one notification over every recipient's channels
// and records the outcome.
type Dispatcher struct {
	repo    domain.Repository
	catalog *lookup.Catalog
	senders channel.Registry
	cfg     DispatcherConfig
	log     *slog.Logger
}

func NewDispatcher(
	repo domain.Repository,
	catalog *lookup.Catalog,
	senders channel.Registry,
	cfg DispatcherConfig,
	log *slog.Logger,
) *Dispatcher {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{repo: repo, catalog: catalog, senders: senders, cfg: cfg, log: log}
}

type recipientResult struct {
	recipientID uint
	failures    []error
}

// Dispatch never returns delivery failures; those end up in the
// notification row. The error is for store or catalog problems only.
func (d *Dispatcher) Dispatch(ctx context.Context, n *models.Notification, now time.Time) (domain.Outcome, error) {
	results := make([]recipientResult, len(n.Recipients))

	var g errgroup.Group
	g.SetLimit(d.cfg.Concurrency)

	for i := range n.Recipients {
		r := &n.Recipients[i]
		results[i].recipientID = r.ID
		g.Go(func() error {
			results[i].failures = d.sendToRecipient(ctx, n, r)
			return nil
		})
	}
	_ = g.Wait()

	var failures []error
	for _, res := range results {
		failures = append(failures, res.failures...)
	}

	outcome, err := d.applyOutcome(n, failures, now)
	if err != nil {
		return "", err
	}

	updates, err := d.recipientUpdates(results)
	if err != nil {
		return "", err
	}

	if err := d.repo.Transaction(ctx, func(tx domain.Repository) error {
		return tx.SaveOutcome(ctx, n, updates)
	}); err != nil {
		return "", fmt.Errorf("save outcome of notification %d: %w", n.ID, err)
	}

	d.log.Info("notification dispatched",
		"notification_id", n.ID,
		"outcome", outcome,
		"retry_count", n.RetryCount,
		"failures", len(failures),
	)
	return outcome, nil
}

// sendToRecipient tries every method even after one fails.
func (d *Dispatcher) sendToRecipient(
	ctx context.Context,
	n *models.Notification,
	r *models.NotificationRecipient,
) []error {

	var failures []error
	for _, m := range r.Methods {
		method, ok := d.catalog.DeliveryMethods.Code(m.DeliveryMethodID)
		if !ok {
			failures = append(failures, &channel.DeliveryError{
				UserID: r.UserID,
				Err:    fmt.Errorf("unknown delivery method id %d", m.DeliveryMethodID),
			})
			continue
		}

		sender, ok := d.senders.Lookup(method)
		if !ok {
			d.log.Warn("no sender for method, skipping", "method", method, "notification_id", n.ID, "user_id", r.UserID)
			continue
		}

		err := sender.Send(ctx, n, r.User)
		switch {
		case err == nil:
		case errors.Is(err, channel.ErrSkipped):
			d.log.Debug("recipient skipped", "method", method, "notification_id", n.ID, "user_id", r.UserID)
		default:
			failures = append(failures, &channel.DeliveryError{Method: method, UserID: r.UserID, Err: err})
		}
	}
	return failures
}

func (d *Dispatcher) applyOutcome(n *models.Notification, failures []error, now time.Time) (domain.Outcome, error) {
	if len(failures) == 0 {
		sentID, err := d.catalog.NotificationStatuses.ID(domain.StatusSent)
		if err != nil {
			return "", err
		}
		sentAt := now.UTC()
		n.StatusID = sentID
		n.SentAt = &sentAt
		n.ErrorMessage = ""
		return domain.OutcomeSent, nil
	}

	outcome, retries := domain.NextAfterFailure(n.RetryCount, n.MaxRetries)
	status := domain.StatusPending
	if outcome == domain.OutcomeFailed {
		status = domain.StatusFailed
	}
	statusID, err := d.catalog.NotificationStatuses.ID(status)
	if err != nil {
		return "", err
	}

	n.StatusID = statusID
	n.RetryCount = retries
	n.ErrorMessage = errors.Join(failures...).Error()
	return outcome, nil
}

func (d *Dispatcher) recipientUpdates(results []recipientResult) ([]domain.RecipientUpdate, error) {
	deliveredID, err := d.catalog.DeliveryStatuses.ID(domain.DeliveryDelivered)
	if err != nil {
		return nil, err
	}
	failedID, err := d.catalog.DeliveryStatuses.ID(domain.DeliveryFailed)
	if err != nil {
		return nil, err
	}
	readID, err := d.catalog.DeliveryStatuses.ID(domain.DeliveryRead)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RecipientUpdate, 0, len(results))
	for _, res := range results {
		statusID := deliveredID
		if !d.cfg.MarkRecipientsDeliveredOnAttempt && len(res.failures) > 0 {
			statusID = failedID
		}
		out = append(out, domain.RecipientUpdate{
			RecipientID:      res.recipientID,
			DeliveryStatusID: statusID,
			KeepStatusID:     readID,
		})
	}
	return out, nil
}
