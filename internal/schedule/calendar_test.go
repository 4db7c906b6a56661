package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func holidaysOn(dates ...time.Time) HolidayFunc {
	set := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		set[Normalize(d)] = struct{}{}
	}
	return func(d time.Time) bool {
		_, ok := set[Normalize(d)]
		return ok
	}
}

func TestIsNonWorking(t *testing.T) {
	holiday := Date(2024, time.January, 26)
	isHoliday := holidaysOn(holiday)

	assert.True(t, IsNonWorking(Date(2024, time.June, 16), isHoliday), "Sunday")
	assert.False(t, IsNonWorking(Date(2024, time.June, 15), isHoliday), "Saturday is a working day")
	assert.True(t, IsNonWorking(holiday, isHoliday), "holiday")
	assert.False(t, IsNonWorking(Date(2024, time.June, 12), isHoliday), "plain weekday")
}

func TestPrevWorkingDaySkipsSundayAndHolidays(t *testing.T) {
	// Monday the 17th: previous day is Sunday, the Saturday before is a
	// holiday, so the answer is Friday the 14th.
	isHoliday := holidaysOn(Date(2024, time.June, 15))
	got := PrevWorkingDay(Date(2024, time.June, 17), isHoliday)
	assert.Equal(t, Date(2024, time.June, 14), got)
}

func TestNextWorkingDay(t *testing.T) {
	assert.Equal(t, Date(2024, time.June, 17),
		NextWorkingDay(Date(2024, time.June, 16), NoHolidays), "Sunday rolls to Monday")
	assert.Equal(t, Date(2024, time.June, 12),
		NextWorkingDay(Date(2024, time.June, 12), NoHolidays), "working day returns itself")
}

func TestNormalizeStripsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("X", 5*3600)
	got := Normalize(time.Date(2024, time.June, 12, 23, 45, 1, 0, loc))
	assert.Equal(t, Date(2024, time.June, 12), got)
}
