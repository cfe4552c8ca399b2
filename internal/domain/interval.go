package domain

import (
	"sort"
	"time"
)

// Interval half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true if the interval is non-empty
func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Duration returns the interval length (zero for invalid intervals)
func (i Interval) Duration() time.Duration {
	if !i.IsValid() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Contains returns true if other lies entirely inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Overlaps reports whether two half-open intervals share at least one instant.
// Touching intervals (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Subtract returns the parts of base not covered by any of busy, in chronological order.
// busy may be unsorted and overlapping; entries outside base and empty entries are ignored.
// The busy slice is not modified.
func Subtract(base Interval, busy []Interval) []Interval {
	if !base.IsValid() {
		return nil
	}

	relevant := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if b.IsValid() && Overlaps(base, b) {
			relevant = append(relevant, b)
		}
	}
	sort.Slice(relevant, func(i, j int) bool {
		return relevant[i].Start.Before(relevant[j].Start)
	})

	free := make([]Interval, 0, len(relevant)+1)
	cursor := base.Start
	for _, b := range relevant {
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(base.End) {
			return free
		}
	}

	if cursor.Before(base.End) {
		free = append(free, Interval{Start: cursor, End: base.End})
	}
	return free
}
