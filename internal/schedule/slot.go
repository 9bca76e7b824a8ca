package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time within a day, stored as minutes from
// midnight. Slot keys are kept structured (date + time of day) instead of
// concatenated strings so they can be compared and indexed safely.
type TimeOfDay struct {
	Minutes int
}

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Minutes: hour*60 + minute}
}

// ParseTimeOfDay parses "15:04" formatted input.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return t.Minutes / 60 }
func (t TimeOfDay) Minute() int { return t.Minutes % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Slot is one bookable (date, time) pair. Slots are computed, never
// persisted; the Date field is a civil date normalized to UTC midnight.
type Slot struct {
	Date time.Time
	Time TimeOfDay
}

// Key returns a stable identifier for set membership and sorting.
func (s Slot) Key() string {
	return s.Date.Format("2006-01-02") + "T" + s.Time.String()
}

// Before reports whether s sorts ahead of other in calendar order.
func (s Slot) Before(other Slot) bool {
	if !s.Date.Equal(other.Date) {
		return s.Date.Before(other.Date)
	}
	return s.Time.Minutes < other.Time.Minutes
}

// DateOf truncates t to its civil date in the given location, normalized
// to UTC midnight so dates compare with time.Time equality.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}
