package schedule

import "time"

// Generate produces the theoretical grid of bookable slots between from
// and to (inclusive calendar dates, UTC midnights). Closed weekdays are
// skipped; each open day emits one slot per interval in
// [OpenHour:00, CloseHour:00). The result is ordered ascending by
// (date, time) and is a pure function of its inputs.
//
// A from after to yields an empty result, not an error.
func Generate(from, to time.Time, p Policy) []Slot {
	var slots []Slot

	openMin := p.OpenHour * 60
	closeMin := p.CloseHour * 60
	step := int(p.SlotInterval.Minutes())
	if step <= 0 {
		step = 60
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !p.IsOpenDay(d.Weekday()) {
			continue
		}
		for m := openMin; m < closeMin; m += step {
			slots = append(slots, Slot{Date: d, Time: TimeOfDay{Minutes: m}})
		}
	}

	return slots
}
