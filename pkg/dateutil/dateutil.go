package dateutil

import (
	"fmt"
	"time"
)

// Date normalises t to midnight UTC on the same calendar day.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AgeThresholdMonth returns the calendar month in which a person born on
// birthDate reaches age n for insurance purposes. The law treats the age as
// attained on the day before the birthday, so anyone born on the 1st reaches
// the age in the previous month.
func AgeThresholdMonth(birthDate time.Time, n int) YearMonth {
	birthday := time.Date(birthDate.Year()+n, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC)
	// Feb 29 births: AddDate normalises to Mar 1, whose previous day is Feb 28/29.
	return MonthOf(birthday.AddDate(0, 0, -1))
}

// AgeAtMonth returns the age on the first day of ym.
func AgeAtMonth(birthDate time.Time, ym YearMonth) int {
	return Age(birthDate, ym.FirstDay())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths adds months to a date, clamping the day to the end of the
// resulting month (Jan 31 + 1 month = Feb 28/29, not Mar 3).
func AddMonths(date time.Time, months int) time.Time {
	first := time.Date(date.Year(), date.Month()+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	day := date.Day()
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, date.Location())
}

// DaysBetweenInclusive counts calendar days in [from, to]. Returns 0 when to
// is before from.
func DaysBetweenInclusive(from, to time.Time) int {
	from, to = Date(from), Date(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// FiscalYear returns the Japanese fiscal year (April to March) containing t.
func FiscalYear(t time.Time) int {
	if t.Month() < time.April {
		return t.Year() - 1
	}
	return t.Year()
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
