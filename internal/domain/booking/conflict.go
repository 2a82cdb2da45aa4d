package booking

import (
	"time"

	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// StartsDuring: other.Start <= i.Start < other.End
func (i Interval) StartsDuring(other Interval) bool {
	return !i.Start.Before(other.Start) && i.Start.Before(other.End)
}

// EndsDuring: other.Start < i.End <= other.End
func (i Interval) EndsDuring(other Interval) bool {
	return other.Start.Before(i.End) && !i.End.After(other.End)
}

// Contains: i.Start <= other.Start && other.End <= i.End
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Conflicts reports whether candidate collides with existing. For valid
// intervals the three cases are equivalent to Overlaps.
func Conflicts(candidate, existing Interval) bool {
	return candidate.StartsDuring(existing) ||
		candidate.EndsDuring(existing) ||
		candidate.Contains(existing)
}

// Overlaps is the half-open test: a.Start < b.End && b.Start < a.End.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func IntervalOf(b *models.Booking) Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// FindConflicts filters existing bookings down to the ones colliding with
// candidate, skipping excludeID when set.
func FindConflicts(
	candidate Interval,
	existing []models.Booking,
	excludeID *uint,
) []models.Booking {

	var out []models.Booking
	for i := range existing {
		b := existing[i]
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if Conflicts(candidate, IntervalOf(&b)) {
			out = append(out, b)
		}
	}
	return out
}
