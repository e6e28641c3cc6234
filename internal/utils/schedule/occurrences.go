// Package schedule projects the calendar dates of recurring movements.
//
// Every occurrence sits on a grid anchored at the rule's start date: occurrence i falls in the
// month anchor+step*i on the requested day, clamped to the month's last day when that day does
// not exist. Computing each date from the anchor (not from the previous occurrence) keeps a rule
// for the 31st on the 31st after a short month.
package schedule

import (
	"fmt"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
)

// maxProbe bounds the search for the next occurrence; three probes always suffice on a valid grid.
const maxProbe = 4

// maxRangeOccurrences bounds OccurrencesBetween so a bad range cannot spin forever.
const maxRangeOccurrences = 1200

// ProjectOccurrences returns the first count occurrences of the pattern starting at start.
func ProjectOccurrences(start time.Time, frequency domain.Frequency, dayOfMonth int, shiftWeekends bool, count int) ([]time.Time, error) {
	step, err := validatePattern(start, frequency, dayOfMonth)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative, got %d", apperrors.ErrInvalidRule, count)
	}

	year, month := anchorMonth(start, dayOfMonth)
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, occurrenceAt(year, month, step*i, dayOfMonth, shiftWeekends, start.Location()))
	}
	return dates, nil
}

// NextOccurrenceAfter returns the first occurrence on the grid anchored at start that is strictly after after.
func NextOccurrenceAfter(start time.Time, frequency domain.Frequency, dayOfMonth int, shiftWeekends bool, after time.Time) (time.Time, error) {
	return search(start, frequency, dayOfMonth, shiftWeekends, after, false)
}

// NextOccurrenceOnOrAfter is NextOccurrenceAfter but accepts an occurrence equal to from.
func NextOccurrenceOnOrAfter(start time.Time, frequency domain.Frequency, dayOfMonth int, shiftWeekends bool, from time.Time) (time.Time, error) {
	return search(start, frequency, dayOfMonth, shiftWeekends, from, true)
}

// OccurrencesBetween lists the grid occurrences within [from, to].
func OccurrencesBetween(start time.Time, frequency domain.Frequency, dayOfMonth int, shiftWeekends bool, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	if to.Before(from) {
		return dates, nil
	}
	next, err := NextOccurrenceOnOrAfter(start, frequency, dayOfMonth, shiftWeekends, from)
	for err == nil && !next.After(to) {
		if len(dates) >= maxRangeOccurrences {
			return nil, fmt.Errorf("%w: more than %d occurrences between %s and %s", apperrors.ErrProjectionExhausted,
				maxRangeOccurrences, from.Format(time.DateOnly), to.Format(time.DateOnly))
		}
		dates = append(dates, next)
		next, err = NextOccurrenceAfter(start, frequency, dayOfMonth, shiftWeekends, next)
	}
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// OccurrenceInMonth places a day-of-month occurrence in the given month, clamped and optionally weekend-shifted.
func OccurrenceInMonth(year int, month time.Month, dayOfMonth int, shiftWeekends bool, loc *time.Location) (time.Time, error) {
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return time.Time{}, fmt.Errorf("%w: day of month must be between 1 and 31, got %d", apperrors.ErrInvalidRule, dayOfMonth)
	}
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("%w: month must be between 1 and 12, got %d", apperrors.ErrValidation, month)
	}
	return occurrenceAt(year, month, 0, dayOfMonth, shiftWeekends, loc), nil
}

// ShiftWeekend moves a Saturday to the following Monday (+2 days) and a Sunday to Monday (+1 day).
func ShiftWeekend(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}

// AddMonthsClamped adds n months to t, clamping the day to the target month's length.
// Unlike time.AddDate, Jan 31 + 1 month is Feb 28/29, never March.
func AddMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := min(t.Day(), DaysInMonth(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// EndOfMonth returns 23:59:59 on the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location()).Add(-time.Second)
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthsBetween counts whole calendar months from from to to, ignoring the day of month.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func search(start time.Time, frequency domain.Frequency, dayOfMonth int, shiftWeekends bool, pivot time.Time, inclusive bool) (time.Time, error) {
	step, err := validatePattern(start, frequency, dayOfMonth)
	if err != nil {
		return time.Time{}, err
	}

	loc := start.Location()
	year, month := anchorMonth(start, dayOfMonth)
	local := pivot.In(loc)
	k := 0
	if diff := (local.Year()-year)*12 + int(local.Month()) - int(month); diff > 0 {
		k = max(diff/step-1, 0)
	}

	for i := 0; i < maxProbe; i++ {
		candidate := occurrenceAt(year, month, step*(k+i), dayOfMonth, shiftWeekends, loc)
		if candidate.After(pivot) || (inclusive && candidate.Equal(pivot)) {
			return candidate, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: no %s occurrence found after %s", apperrors.ErrProjectionExhausted,
		frequency, pivot.Format(time.DateOnly))
}

func validatePattern(start time.Time, frequency domain.Frequency, dayOfMonth int) (int, error) {
	step := frequency.StepMonths()
	if step == 0 {
		return 0, fmt.Errorf("%w: unsupported frequency %q", apperrors.ErrInvalidRule, frequency)
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return 0, fmt.Errorf("%w: day of month must be between 1 and 31, got %d", apperrors.ErrInvalidRule, dayOfMonth)
	}
	if start.IsZero() {
		return 0, fmt.Errorf("%w: start date is required", apperrors.ErrInvalidRule)
	}
	return step, nil
}

// anchorMonth is the month of the first occurrence: the start month, or the next one when the
// start day is already past the requested day.
func anchorMonth(start time.Time, dayOfMonth int) (int, time.Month) {
	if start.Day() > dayOfMonth {
		next := time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, start.Location())
		return next.Year(), next.Month()
	}
	return start.Year(), start.Month()
}

func occurrenceAt(year int, month time.Month, offset, dayOfMonth int, shiftWeekends bool, loc *time.Location) time.Time {
	first := time.Date(year, month+time.Month(offset), 1, 0, 0, 0, 0, loc)
	day := min(dayOfMonth, DaysInMonth(first.Year(), first.Month()))
	date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
	if shiftWeekends {
		date = ShiftWeekend(date)
	}
	return date
}
