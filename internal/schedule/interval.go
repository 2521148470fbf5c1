// Package schedule contains the pure time arithmetic behind availability
// computation: interval algebra over half-open UTC intervals and the
// materialization of recurring weekly slots into concrete windows.
package schedule

import (
	"sort"
	"time"
)

// Interval is an immutable half-open interval [Start, End) of UTC instants.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsEmpty reports whether the interval has no extent.
func (iv Interval) IsEmpty() bool {
	return !iv.End.After(iv.Start)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether two half-open intervals share any instant.
// Adjacent intervals ([a,b) and [b,c)) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// Expand widens the interval by the given buffers on each side.
func Expand(iv Interval, before, after time.Duration) Interval {
	return Interval{Start: iv.Start.Add(-before), End: iv.End.Add(after)}
}

// Clip restricts iv to the given bounds. The result may be empty.
func Clip(iv, bounds Interval) Interval {
	out := iv
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	return out
}

// Subtract removes the busy intervals from base and returns the remaining
// free segments in ascending order. Busy intervals may overlap each other
// and arrive in any order; each is clipped to base and empty results are
// dropped before the sweep.
func Subtract(base Interval, busy []Interval) []Interval {
	if base.IsEmpty() {
		return nil
	}
	if len(busy) == 0 {
		return []Interval{base}
	}

	clipped := make([]Interval, 0, len(busy))
	for _, b := range busy {
		c := Clip(b, base)
		if !c.IsEmpty() {
			clipped = append(clipped, c)
		}
	}
	if len(clipped) == 0 {
		return []Interval{base}
	}
	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].Start.Before(clipped[j].Start)
	})

	free := make([]Interval, 0, len(clipped)+1)
	cursor := base.Start
	for _, b := range clipped {
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(base.End) {
		free = append(free, Interval{Start: cursor, End: base.End})
	}
	return free
}

// FilterMinDuration drops segments shorter than min.
func FilterMinDuration(segments []Interval, min time.Duration) []Interval {
	if min <= 0 {
		return segments
	}
	out := make([]Interval, 0, len(segments))
	for _, seg := range segments {
		if seg.Duration() >= min {
			out = append(out, seg)
		}
	}
	return out
}
