package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdayPolicy(openHour, closeHour int, interval time.Duration) Policy {
	return Policy{
		Location:  time.UTC,
		OpenHour:  openHour,
		CloseHour: closeHour,
		OpenWeekdays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		SlotInterval: interval,
	}
}

func TestGenerateSingleOpenDay(t *testing.T) {
	// 2024-06-03 is a Monday
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	p := weekdayPolicy(13, 23, time.Hour)

	slots := Generate(day, day, p)
	require.Len(t, slots, 10)

	assert.Equal(t, "13:00", slots[0].Time.String())
	assert.Equal(t, "22:00", slots[9].Time.String())
	for _, s := range slots {
		assert.True(t, s.Date.Equal(day))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	from := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	p := weekdayPolicy(9, 18, time.Hour)

	first := Generate(from, to, p)
	second := Generate(from, to, p)
	assert.Equal(t, first, second)
}

func TestGenerateSkipsClosedWeekdays(t *testing.T) {
	// Monday through Sunday
	from := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	p := weekdayPolicy(13, 23, time.Hour)

	slots := Generate(from, to, p)
	// 5 open days x 10 slots
	require.Len(t, slots, 50)

	for _, s := range slots {
		wd := s.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestGenerateEmptyWhenFromAfterTo(t *testing.T) {
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	p := weekdayPolicy(13, 23, time.Hour)

	assert.Empty(t, Generate(from, to, p))
}

func TestGenerateSubHourInterval(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	p := weekdayPolicy(9, 11, 30*time.Minute)

	slots := Generate(day, day, p)
	require.Len(t, slots, 4)
	assert.Equal(t, "09:00", slots[0].Time.String())
	assert.Equal(t, "09:30", slots[1].Time.String())
	assert.Equal(t, "10:00", slots[2].Time.String())
	assert.Equal(t, "10:30", slots[3].Time.String())
}

func TestGenerateOrderingIsAscending(t *testing.T) {
	from := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	p := weekdayPolicy(9, 18, time.Hour)

	slots := Generate(from, to, p)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Before(slots[i]), "slots must sort ascending")
	}
}

func TestTimeOfDayParse(t *testing.T) {
	tod, err := ParseTimeOfDay("14:30")
	require.NoError(t, err)
	assert.Equal(t, 14, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "14:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("2pm")
	assert.Error(t, err)
}

func TestPolicyValidate(t *testing.T) {
	valid := weekdayPolicy(9, 18, time.Hour)
	assert.NoError(t, valid.Validate())

	noDays := valid
	noDays.OpenWeekdays = nil
	assert.Error(t, noDays.Validate())

	inverted := valid
	inverted.OpenHour = 20
	inverted.CloseHour = 10
	assert.Error(t, inverted.Validate())

	noLoc := valid
	noLoc.Location = nil
	assert.Error(t, noLoc.Validate())
}
