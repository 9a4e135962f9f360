package calculation

import (
	"sort"
	"time"

	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

const (
	// A month with at least this many leave days is premium-exempt.
	fourteenDayRuleDays = 14
	// Bonuses are exempt only for continuous leave longer than this.
	bonusExemptionMinLeaveDays = 30
)

// leaveSpan is a continuous leave period. An open-ended span has no end.
type leaveSpan struct {
	start time.Time
	end   *time.Time
}

func leaveOf(emp *domain.Employee) (leaveSpan, bool) {
	if !emp.OnLeave() || emp.LeaveStartDate.IsZero() {
		return leaveSpan{}, false
	}
	span := leaveSpan{start: dateutil.Date(*emp.LeaveStartDate)}
	if emp.LeaveEndDate != nil && !emp.LeaveEndDate.IsZero() {
		end := dateutil.Date(*emp.LeaveEndDate)
		span.end = &end
	}
	return span, true
}

func (s leaveSpan) startMonth() dateutil.YearMonth { return dateutil.MonthOf(s.start) }

// lastCoveredMonth is the month holding the last leave day. ok is false for
// an open-ended leave.
func (s leaveSpan) lastCoveredMonth() (dateutil.YearMonth, bool) {
	if s.end == nil {
		return dateutil.YearMonth{}, false
	}
	return dateutil.MonthOf(*s.end), true
}

func (s leaveSpan) contains(day time.Time) bool {
	day = dateutil.Date(day)
	if day.Before(s.start) {
		return false
	}
	return s.end == nil || !day.After(*s.end)
}

// days is the length of a closed span; open-ended spans report ok=false.
func (s leaveSpan) days() (int, bool) {
	if s.end == nil {
		return 0, false
	}
	return dateutil.DaysBetweenInclusive(s.start, *s.end), true
}

// leaveCoversMonth reports whether any day of ym falls inside the recorded leave.
func leaveCoversMonth(emp *domain.Employee, ym dateutil.YearMonth) bool {
	span, ok := leaveOf(emp)
	if !ok || ym.Before(span.startMonth()) {
		return false
	}
	last, closed := span.lastCoveredMonth()
	return !closed || !ym.After(last)
}

// exemptionWindow returns the months whose premiums are waived: the month the
// leave starts through the month before the month containing the day after
// the leave ends. A leave that starts and ends inside one month has no
// window and relies on the 14-day rule. open is true for open-ended leave.
func (s leaveSpan) exemptionWindow() (first, last dateutil.YearMonth, open, ok bool) {
	first = s.startMonth()
	if s.end == nil {
		return first, dateutil.YearMonth{}, true, true
	}
	last = dateutil.MonthOf(s.end.AddDate(0, 0, 1)).AddMonths(-1)
	if last.Before(first) {
		return dateutil.YearMonth{}, dateutil.YearMonth{}, false, false
	}
	return first, last, false, true
}

// fourteenDayMonths lists the months in which the leave covers 14 days or
// more, checked month by month across the span. An open-ended leave is
// evaluated up to the end of through.
func (s leaveSpan) fourteenDayMonths(through dateutil.YearMonth) []dateutil.YearMonth {
	end := through.LastDay()
	if s.end != nil {
		end = *s.end
	}
	if end.Before(s.start) {
		return nil
	}
	var months []dateutil.YearMonth
	for _, ym := range dateutil.MonthsBetween(dateutil.MonthOf(s.start), dateutil.MonthOf(end)) {
		if ym.OverlapDays(s.start, end) >= fourteenDayRuleDays {
			months = append(months, ym)
		}
	}
	return months
}

// bonusExemptMonths returns the months of bonus payments whose bonus period
// end (the last day of the payment month) falls inside a continuous leave of
// more than 30 days. Open-ended leave counts as long enough.
func (s leaveSpan) bonusExemptMonths(payments []time.Time) []dateutil.YearMonth {
	if n, closed := s.days(); closed && n <= bonusExemptionMinLeaveDays {
		return nil
	}
	seen := make(map[dateutil.YearMonth]bool)
	var months []dateutil.YearMonth
	for _, paid := range payments {
		if paid.IsZero() {
			continue
		}
		ym := dateutil.MonthOf(paid)
		if seen[ym] || !s.contains(ym.LastDay()) {
			continue
		}
		seen[ym] = true
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// recordLeaveExemption fills the premium exemption metadata for a childcare
// or maternity leave and marks whether the evaluated month itself is exempt.
func (ev *evaluation) recordLeaveExemption() {
	span, ok := leaveOf(ev.emp)
	if !ok {
		return
	}
	r := &ev.result

	first, last, open, hasWindow := span.exemptionWindow()
	inWindow := false
	if hasWindow {
		r.LeaveExemptionStartMonth = first.String()
		if !open {
			r.LeaveExemptionEndMonth = last.String()
		}
		inWindow = !ev.month.Before(first) && (open || !ev.month.After(last))
	}

	inFourteen := false
	for _, ym := range span.fourteenDayMonths(ev.month) {
		r.FourteenDayRuleMonths = append(r.FourteenDayRuleMonths, ym.String())
		if ym == ev.month {
			inFourteen = true
		}
	}
	for _, ym := range span.bonusExemptMonths(ev.emp.BonusPaymentDates) {
		r.BonusExemptionMonths = append(r.BonusExemptionMonths, ym.String())
	}

	r.PremiumExempt = inWindow || inFourteen
}
