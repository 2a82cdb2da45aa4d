package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

// Checker answers "is this room free for [start, end)?" against the
// store. Build it with a transaction-bound Repository when the answer
// must hold until the write commits.
type Checker struct {
	repo            Repository
	ignoreStatusIDs []uint
}

func NewChecker(repo Repository, ignoreStatusIDs []uint) *Checker {
	return &Checker{
		repo:            repo,
		ignoreStatusIDs: ignoreStatusIDs,
	}
}

func (c *Checker) Conflicting(
	ctx context.Context,
	roomID uint,
	start time.Time,
	end time.Time,
	excludeID *uint,
) ([]models.Booking, error) {

	candidates, err := c.repo.ListOverlapping(ctx, roomID, start, end, c.ignoreStatusIDs)
	if err != nil {
		return nil, err
	}

	return FindConflicts(Interval{Start: start, End: end}, candidates, excludeID), nil
}

func (c *Checker) HasConflict(
	ctx context.Context,
	roomID uint,
	start time.Time,
	end time.Time,
	excludeID *uint,
) (bool, error) {

	conflicts, err := c.Conflicting(ctx, roomID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}
