package booking

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

var base = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func iv(startHour, startMin, endHour, endMin int) Interval {
	return Interval{
		Start: base.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   base.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestConflicts(t *testing.T) {
	existing := iv(10, 0, 11, 0)

	tests := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{"starts during", iv(10, 30, 11, 30), true},
		{"ends during", iv(9, 30, 10, 30), true},
		{"contains", iv(9, 0, 12, 0), true},
		{"inside", iv(10, 15, 10, 45), true},
		{"identical", iv(10, 0, 11, 0), true},
		{"touches end", iv(11, 0, 12, 0), false},
		{"touches start", iv(9, 0, 10, 0), false},
		{"disjoint", iv(13, 0, 14, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Conflicts(tt.candidate, existing); got != tt.want {
				t.Errorf("Conflicts = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.candidate, existing); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

// Every valid pair on a 15-minute grid agrees between the three-case
// test and the half-open test.
func TestConflictsMatchesHalfOpenOverlap(t *testing.T) {
	const slots = 16
	step := 15 * time.Minute
	mk := func(s, e int) Interval {
		return Interval{Start: base.Add(time.Duration(s) * step), End: base.Add(time.Duration(e) * step)}
	}

	for as := 0; as < slots; as++ {
		for ae := as + 1; ae <= slots; ae++ {
			for bs := 0; bs < slots; bs++ {
				for be := bs + 1; be <= slots; be++ {
					a, b := mk(as, ae), mk(bs, be)
					if Conflicts(a, b) != Overlaps(a, b) {
						t.Fatalf("mismatch for %v and %v", a, b)
					}
					if Overlaps(a, b) != Overlaps(b, a) {
						t.Fatalf("Overlaps not symmetric for %v and %v", a, b)
					}
				}
			}
		}
	}
}

func TestIntervalValid(t *testing.T) {
	if !iv(10, 0, 11, 0).Valid() {
		t.Error("10-11 should be valid")
	}
	if iv(10, 0, 10, 0).Valid() {
		t.Error("empty interval should be invalid")
	}
	if iv(11, 0, 10, 0).Valid() {
		t.Error("reversed interval should be invalid")
	}
}

func TestFindConflictsExcludesSelf(t *testing.T) {
	existing := []models.Booking{
		{ID: 1, StartTime: base.Add(10 * time.Hour), EndTime: base.Add(11 * time.Hour)},
		{ID: 2, StartTime: base.Add(11 * time.Hour), EndTime: base.Add(12 * time.Hour)},
	}
	candidate := iv(10, 30, 11, 30)

	if got := FindConflicts(candidate, existing, nil); len(got) != 2 {
		t.Fatalf("conflicts = %d, want 2", len(got))
	}

	self := uint(1)
	got := FindConflicts(candidate, existing, &self)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("conflicts = %+v, want only booking 2", got)
	}
}
