package notification

import (
	"context"
	"time"

	"github.com/BruksfildServices01/room-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/room-scheduler/internal/domain/notification"
	"github.com/BruksfildServices01/room-scheduler/internal/dto"
	"github.com/BruksfildServices01/room-scheduler/internal/httperr"
	"github.com/BruksfildServices01/room-scheduler/internal/lookup"
)

// ======================================================
// LIST INBOX
// ======================================================

type ListInboxInput struct {
	UserID   uint
	Page     int
	PageSize int
}

type ListInbox struct {
	repo    domain.Repository
	catalog *lookup.Catalog
}

func NewListInbox(repo domain.Repository, catalog *lookup.Catalog) *ListInbox {
	return &ListInbox{repo: repo, catalog: catalog}
}

func (uc *ListInbox) Execute(ctx context.Context, in ListInboxInput) ([]dto.InboxItemDTO, int64, error) {
	if in.PageSize <= 0 || in.PageSize > 100 {
		in.PageSize = 20
	}
	if in.Page <= 0 {
		in.Page = 1
	}

	inAppID, err := uc.catalog.DeliveryMethods.ID(domain.MethodInApp)
	if err != nil {
		return nil, 0, err
	}

	rows, total, err := uc.repo.ListInbox(ctx, in.UserID, inAppID, in.PageSize, (in.Page-1)*in.PageSize)
	if err != nil {
		return nil, 0, httperr.Persistence("list_inbox", err)
	}

	out := make([]dto.InboxItemDTO, 0, len(rows))
	for _, r := range rows {
		item := dto.InboxItemDTO{
			ReadAt: r.ReadAt,
		}
		if n := r.Notification; n != nil {
			typ, _ := uc.catalog.NotificationTypes.Code(n.TypeID)
			prio, _ := uc.catalog.Priorities.Code(n.PriorityID)
			item.NotificationID = n.ID
			item.Title = n.Title
			item.Content = n.Content
			item.Type = string(typ)
			item.Priority = string(prio)
			item.BookingID = n.BookingID
			item.ScheduledFor = n.ScheduledFor
		}
		out = append(out, item)
	}
	return out, total, nil
}

// ======================================================
// MARK READ
// ======================================================

type MarkRead struct {
	repo    domain.Repository
	catalog *lookup.Catalog
	clock   clock.Clock
}

func NewMarkRead(repo domain.Repository, catalog *lookup.Catalog, clk clock.Clock) *MarkRead {
	return &MarkRead{repo: repo, catalog: catalog, clock: clk}
}

func (uc *MarkRead) Execute(ctx context.Context, userID, notificationID uint) (time.Time, error) {
	readID, err := uc.catalog.DeliveryStatuses.ID(domain.DeliveryRead)
	if err != nil {
		return time.Time{}, err
	}

	at := uc.clock.Now().UTC()
	ok, err := uc.repo.MarkRead(ctx, userID, notificationID, readID, at)
	if err != nil {
		return time.Time{}, httperr.Persistence("mark_read", err)
	}
	if !ok {
		return time.Time{}, httperr.ErrNotFound("notification_not_found")
	}
	return at, nil
}
