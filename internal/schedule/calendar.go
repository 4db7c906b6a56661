package schedule

import "time"

// HolidayFunc reports whether a date is a registered holiday for its year.
type HolidayFunc func(time.Time) bool

// NoHolidays is the predicate used when a holiday set cannot be loaded.
func NoHolidays(time.Time) bool { return false }

// Date builds a calendar date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize strips the time-of-day component, keeping only the calendar date.
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// IsNonWorking reports whether d is a Sunday or a holiday. Saturdays are
// working days; the business runs six days a week.
func IsNonWorking(d time.Time, isHoliday HolidayFunc) bool {
	return d.Weekday() == time.Sunday || isHoliday(d)
}

// PrevWorkingDay steps backward one day at a time to the nearest earlier
// working day. A calendar where every day is a holiday would never
// terminate; that density is not guarded against.
func PrevWorkingDay(d time.Time, isHoliday HolidayFunc) time.Time {
	for {
		d = d.AddDate(0, 0, -1)
		if !IsNonWorking(d, isHoliday) {
			return d
		}
	}
}

// NextWorkingDay returns d itself when it is a working day, otherwise the
// nearest later working day.
func NextWorkingDay(d time.Time, isHoliday HolidayFunc) time.Time {
	for IsNonWorking(d, isHoliday) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
