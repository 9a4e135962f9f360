package dateutil

import (
	"fmt"
	"time"
)

// YearMonth is a calendar month. The zero value is not a valid month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth builds a YearMonth, normalising out-of-range months
// (month 13 of 2024 becomes January 2025).
func NewYearMonth(year int, month time.Month) YearMonth {
	return MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// IsZero reports whether ym is unset.
func (ym YearMonth) IsZero() bool { return ym.Year == 0 && ym.Month == 0 }

// String formats ym as "YYYY-MM".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// AddMonths shifts ym by n months.
func (ym YearMonth) AddMonths(n int) YearMonth {
	return NewYearMonth(ym.Year, ym.Month+time.Month(n))
}

func (ym YearMonth) index() int { return ym.Year*12 + int(ym.Month) - 1 }

// Compare returns -1, 0 or +1.
func (ym YearMonth) Compare(other YearMonth) int {
	switch a, b := ym.index(), other.index(); {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (ym YearMonth) Before(other YearMonth) bool { return ym.Compare(other) < 0 }
func (ym YearMonth) After(other YearMonth) bool  { return ym.Compare(other) > 0 }

// MonthsUntil returns the number of months from ym to other (negative when
// other is earlier).
func (ym YearMonth) MonthsUntil(other YearMonth) int { return other.index() - ym.index() }

// FirstDay returns the first day of the month.
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last day of the month.
func (ym YearMonth) LastDay() time.Time {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC)
}

// OverlapDays counts the days of [from, to] that fall inside ym.
func (ym YearMonth) OverlapDays(from, to time.Time) int {
	start, end := Date(from), Date(to)
	if first := ym.FirstDay(); start.Before(first) {
		start = first
	}
	if last := ym.LastDay(); end.After(last) {
		end = last
	}
	return DaysBetweenInclusive(start, end)
}

// MonthsBetween lists every month from first to last inclusive.
func MonthsBetween(first, last YearMonth) []YearMonth {
	if last.Before(first) {
		return nil
	}
	months := make([]YearMonth, 0, first.MonthsUntil(last)+1)
	for m := first; !m.After(last); m = m.AddMonths(1) {
		months = append(months, m)
	}
	return months
}
