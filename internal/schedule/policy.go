package schedule

import (
	"fmt"
	"time"
)

// Policy describes the business-hours rules used to derive the bookable
// slot grid. It is an injected value, never a package global, so multiple
// policies can coexist (e.g. in tests).
type Policy struct {
	Location     *time.Location
	OpenHour     int // inclusive, 24h local time
	CloseHour    int // exclusive
	OpenWeekdays map[time.Weekday]bool
	SlotInterval time.Duration
}

// Validate checks that the policy is internally consistent.
func (p Policy) Validate() error {
	if p.Location == nil {
		return fmt.Errorf("policy: location is required")
	}
	if p.OpenHour < 0 || p.OpenHour > 23 {
		return fmt.Errorf("policy: open hour %d out of range", p.OpenHour)
	}
	if p.CloseHour < 1 || p.CloseHour > 24 {
		return fmt.Errorf("policy: close hour %d out of range", p.CloseHour)
	}
	if p.OpenHour >= p.CloseHour {
		return fmt.Errorf("policy: open hour %d must be before close hour %d", p.OpenHour, p.CloseHour)
	}
	if len(p.OpenWeekdays) == 0 {
		return fmt.Errorf("policy: at least one open weekday is required")
	}
	if p.SlotInterval < time.Minute {
		return fmt.Errorf("policy: slot interval %s too small", p.SlotInterval)
	}
	return nil
}

// IsOpenDay reports whether the policy allows bookings on the given weekday.
func (p Policy) IsOpenDay(d time.Weekday) bool {
	return p.OpenWeekdays[d]
}
