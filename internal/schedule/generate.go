// Package schedule computes the due dates of recurring checklist tasks.
//
// Dense cadences (daily, every 2 days) simply exclude Sundays and holidays
// from their output: the next tick lands close by anyway. Weekly and sparser
// cadences instead roll a non-working natural date back to the previous
// working day so an occurrence is never dropped for a whole cycle. The
// asymmetry is deliberate business policy.
package schedule

import (
	"sort"
	"time"
)

// Frequency is a recurrence code on a checklist task.
type Frequency string

const (
	Daily         Frequency = "D"
	EveryTwoDays  Frequency = "2D"
	Weekly        Frequency = "W"
	EveryTwoWeeks Frequency = "2W"
	Monthly       Frequency = "M"
	Quarterly     Frequency = "Q"
	HalfYearly    Frequency = "F"
	Yearly        Frequency = "Y"
)

// Valid reports whether f is one of the known frequency codes.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, EveryTwoDays, Weekly, EveryTwoWeeks, Monthly, Quarterly, HalfYearly, Yearly:
		return true
	}
	return false
}

// Occurrences returns the sorted, duplicate-free due dates of a task within
// one calendar year. A multi-year query is answered by calling this once per
// year; phase is preserved across year boundaries for the 2D and 2W codes.
// An unrecognized frequency yields an empty list, not an error: validating
// the code is the request layer's job.
func Occurrences(start time.Time, freq Frequency, year int, isHoliday HolidayFunc) []time.Time {
	start = Normalize(start)
	switch freq {
	case Daily:
		return daily(start, year, isHoliday)
	case EveryTwoDays:
		return everyTwoDays(start, year, isHoliday)
	case Weekly:
		return weekdayCadence(start, year, 7, isHoliday)
	case EveryTwoWeeks:
		return weekdayCadence(start, year, 14, isHoliday)
	case Monthly:
		return onMonths(start, year, []time.Month{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, isHoliday)
	case Quarterly:
		return onMonths(start, year, []time.Month{time.January, time.April, time.July, time.October}, isHoliday)
	case HalfYearly:
		return onMonths(start, year, []time.Month{time.January, time.July}, isHoliday)
	case Yearly:
		return onMonths(start, year, []time.Month{start.Month()}, isHoliday)
	default:
		return nil
	}
}

func daily(start time.Time, year int, isHoliday HolidayFunc) []time.Time {
	d := start
	if d.Year() < year {
		d = Date(year, time.January, 1)
	}
	if d.Year() > year {
		return nil
	}
	var out []time.Time
	for d.Year() == year {
		if !IsNonWorking(d, isHoliday) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

func everyTwoDays(start time.Time, year int, isHoliday HolidayFunc) []time.Time {
	if start.Year() > year {
		return nil
	}
	d := start
	if start.Year() < year {
		// Align January 1st to the parity of "days since start".
		d = Date(year, time.January, 1)
		if daysBetween(start, d)%2 != 0 {
			d = d.AddDate(0, 0, 1)
		}
	}
	var out []time.Time
	for d.Year() == year {
		if !IsNonWorking(d, isHoliday) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, 2)
	}
	return out
}

// weekdayCadence handles the weekly and two-weekly codes: same weekday as
// start, stepping by step days, locked to the cycle that contains start.
// Natural dates on or after start are kept; a date falling on a Sunday or
// holiday rolls back to the previous working day, which may land before
// start near year boundaries. That is accepted, not guarded.
func weekdayCadence(start time.Time, year int, step int, isHoliday HolidayFunc) []time.Time {
	d := Date(year, time.January, 1)
	for d.Weekday() != start.Weekday() {
		d = d.AddDate(0, 0, 1)
	}
	// The first in-year date on the right weekday may still be off-cycle.
	// Advance to the residue-zero slot instead of restarting the cadence
	// from January.
	if r := mod(daysBetween(start, d), step); r != 0 {
		d = d.AddDate(0, 0, step-r)
	}
	var out []time.Time
	for d.Year() == year {
		if !d.Before(start) {
			out = append(out, ensureWorking(d, isHoliday))
		}
		d = d.AddDate(0, 0, step)
	}
	return sortedUnique(out)
}

// onMonths handles the monthly-and-sparser codes. The day-of-month is capped
// at 28 so February never produces an invalid date.
func onMonths(start time.Time, year int, months []time.Month, isHoliday HolidayFunc) []time.Time {
	day := start.Day()
	if day > 28 {
		day = 28
	}
	var out []time.Time
	for _, m := range months {
		d := Date(year, m, day)
		if !d.Before(start) {
			out = append(out, ensureWorking(d, isHoliday))
		}
	}
	return sortedUnique(out)
}

// ensureWorking rolls a Sunday or holiday back to the previous working day.
func ensureWorking(d time.Time, isHoliday HolidayFunc) time.Time {
	if IsNonWorking(d, isHoliday) {
		return PrevWorkingDay(d, isHoliday)
	}
	return d
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

// sortedUnique sorts ascending and collapses duplicates. Roll-back can merge
// two natural dates onto the same working day near a holiday cluster.
func sortedUnique(dates []time.Time) []time.Time {
	if len(dates) < 2 {
		return dates
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	out := dates[:1]
	for _, d := range dates[1:] {
		if !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}
