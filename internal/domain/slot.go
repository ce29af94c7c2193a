package domain

import "time"

// TimeSlot is a half-open interval [Start, End).
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two slots intersect. Slots that merely touch
// at an endpoint do not overlap. The SQL conflict queries encode the
// same condition; keep the two in sync.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Shift returns the slot moved forward by d, preserving its duration.
func (s TimeSlot) Shift(d time.Duration) TimeSlot {
	return TimeSlot{Start: s.Start.Add(d), End: s.End.Add(d)}
}
