package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

const (
	elderlyAge      = 75
	nursingStartAge = 40
	nursingEndAge   = 65
	pensionEndAge   = 70

	// Employers below this headcount are outside compulsory coverage.
	minimumHeadcount = 5
	// Short-hours workers are covered only at employers of this size or more.
	extendedCoverageHeadcount = 51

	threeQuarterMonthlyDays = 15
	shortContractMaxMonths  = 2
)

var (
	threeQuarterWeeklyHours = decimal.NewFromInt(30)
	shortHoursWeeklyHours   = decimal.NewFromInt(20)
	shortHoursMonthlyWage   = decimal.NewFromInt(88000)
)

// Evaluate decides health, nursing and pension eligibility for emp in the
// target month. Rules are applied in priority order and the first match
// decides:
//
//  1. age 75 or over: moved to elder-care insurance, nothing applies
//  2. employer headcount below 5: nothing applies
//  3. before the start month or on/after the qualification loss month
//  4. childcare/maternity leave: covered, premiums exempt
//  5. care leave: covered, premiums due
//  6. fixed contract of 1 or 2 months: nothing applies
//  7. students: daytime students need full-time hours, others the short-hours test
//  8. full-time, or three-quarters of full-time hours and days
//  9. short-hours five-factor test
//  10. otherwise not eligible
//
// Every covered result still gates nursing on the 40-65 window and pension on
// the age-70 cutoff. A missing birth date disables the age rules: pension
// stays on, nursing stays off, and AgeUnknown is set.
func Evaluate(emp *domain.Employee, targetYear int, targetMonth time.Month, headcount int) domain.EligibilityResult {
	ev := newEvaluation(emp, dateutil.NewYearMonth(targetYear, targetMonth))
	return ev.run(headcount)
}

// ageThresholds are the statutory months derived from a birth date.
type ageThresholds struct {
	known        bool
	nursingStart dateutil.YearMonth // first month of nursing premiums
	nursingEnd   dateutil.YearMonth // last month of nursing premiums
	pensionEnd   dateutil.YearMonth // last month of pension premiums
	healthEnd    dateutil.YearMonth // last month of health insurance
}

// thresholdsFor computes the nursing, pension and health boundary months for
// a birth date.
func thresholdsFor(birth *time.Time) ageThresholds {
	if birth == nil || birth.IsZero() {
		return ageThresholds{}
	}
	return ageThresholds{
		known:        true,
		nursingStart: dateutil.AgeThresholdMonth(*birth, nursingStartAge),
		nursingEnd:   dateutil.AgeThresholdMonth(*birth, nursingEndAge).AddMonths(-1),
		pensionEnd:   dateutil.AgeThresholdMonth(*birth, pensionEndAge).AddMonths(-1),
		healthEnd:    dateutil.AgeThresholdMonth(*birth, elderlyAge),
	}
}

func (a ageThresholds) nursingCovers(ym dateutil.YearMonth) bool {
	return a.known && !ym.Before(a.nursingStart) && !ym.After(a.nursingEnd)
}

func (a ageThresholds) pensionCovers(ym dateutil.YearMonth) bool {
	return !a.known || !ym.After(a.pensionEnd)
}

type evaluation struct {
	emp    *domain.Employee
	month  dateutil.YearMonth
	ages   ageThresholds
	result domain.EligibilityResult
}

func newEvaluation(emp *domain.Employee, month dateutil.YearMonth) *evaluation {
	ev := &evaluation{emp: emp, month: month, ages: thresholdsFor(emp.BirthDate)}
	if ev.ages.known {
		ev.result.NursingStartMonth = ev.ages.nursingStart.String()
		ev.result.NursingEndMonth = ev.ages.nursingEnd.String()
		ev.result.PensionEndMonth = ev.ages.pensionEnd.String()
		ev.result.HealthEndMonth = ev.ages.healthEnd.String()
	} else {
		ev.result.AgeUnknown = true
	}
	return ev
}

func (ev *evaluation) run(headcount int) domain.EligibilityResult {
	emp, ym := ev.emp, ev.month

	if ev.ages.known && dateutil.AgeAtMonth(*emp.BirthDate, ym) >= elderlyAge {
		return ev.excluded(domain.ReasonElderly)
	}
	if headcount < minimumHeadcount {
		return ev.excluded(domain.ReasonSmallEmployer)
	}
	if emp.StartDate != nil && ym.Before(dateutil.MonthOf(*emp.StartDate)) {
		return ev.excluded(domain.ReasonNotYetEnrolled)
	}
	if loss, ok := QualificationLossDate(emp); ok && !ym.Before(dateutil.MonthOf(loss)) {
		return ev.excluded(domain.ReasonQualificationLost)
	}

	if leaveCoversMonth(emp, ym) {
		switch emp.LeaveType {
		case domain.LeaveChildcare, domain.LeaveMaternity:
			code := domain.ReasonChildcareLeave
			if emp.LeaveType == domain.LeaveMaternity {
				code = domain.ReasonMaternityLeave
			}
			ev.covered(code)
			ev.recordLeaveExemption()
			return ev.result
		case domain.LeaveCare:
			return ev.covered(domain.ReasonCareLeave)
		}
	}

	if n := emp.ExpectedEmploymentMonths; n > 0 && n <= shortContractMaxMonths {
		return ev.excluded(domain.ReasonShortContract)
	}

	if emp.IsStudent {
		if emp.StudentType.IsFullTimeCourse() {
			if meetsThreeQuarters(emp) {
				return ev.covered(domain.ReasonStudentFullTimeWork)
			}
			return ev.excluded(domain.ReasonStudentExcluded)
		}
		if meetsShortHoursWork(emp) {
			return ev.covered(domain.ReasonStudentShortHours)
		}
		return ev.excluded(domain.ReasonNotEligible)
	}

	if emp.EmploymentType == domain.EmploymentFullTime {
		return ev.covered(domain.ReasonFullTime)
	}
	if meetsThreeQuarters(emp) {
		return ev.covered(domain.ReasonThreeQuarters)
	}
	if meetsFiveFactor(emp, headcount) {
		return ev.covered(domain.ReasonFiveFactor)
	}
	return ev.excluded(domain.ReasonNotEligible)
}

func (ev *evaluation) excluded(code domain.ReasonCode) domain.EligibilityResult {
	ev.result.HealthInsurance = false
	ev.result.NursingInsurance = false
	ev.result.PensionInsurance = false
	ev.result.ReasonCode = code
	ev.result.Reason = code.Text()
	return ev.result
}

func (ev *evaluation) covered(code domain.ReasonCode) domain.EligibilityResult {
	ev.result.HealthInsurance = true
	ev.result.NursingInsurance = ev.ages.nursingCovers(ev.month)
	ev.result.PensionInsurance = ev.ages.pensionCovers(ev.month)
	ev.result.ReasonCode = code
	ev.result.Reason = code.Text()
	return ev.result
}

// meetsThreeQuarters: at least 3/4 of a full-time schedule, taken as 30 hours
// a week and 15 working days a month.
func meetsThreeQuarters(emp *domain.Employee) bool {
	return emp.WeeklyHours.GreaterThanOrEqual(threeQuarterWeeklyHours) &&
		emp.MonthlyWorkDays >= threeQuarterMonthlyDays
}

func meetsShortHoursWork(emp *domain.Employee) bool {
	return emp.WeeklyHours.GreaterThanOrEqual(shortHoursWeeklyHours) &&
		emp.MonthlyWage().GreaterThanOrEqual(shortHoursMonthlyWage)
}

// meetsFiveFactor is the extended coverage test for short-hours workers:
// 20+ hours, ¥88,000+ monthly wage, employment expected beyond 2 months
// (unset counts as long-term), an employer of 51+ and not a student.
func meetsFiveFactor(emp *domain.Employee, headcount int) bool {
	longTerm := emp.ExpectedEmploymentMonths == 0 || emp.ExpectedEmploymentMonths > shortContractMaxMonths
	return meetsShortHoursWork(emp) && longTerm && headcount >= extendedCoverageHeadcount && !emp.IsStudent
}

// QualificationLossDate returns the day insured status ends: the day after
// the employment end date, or the day after the contract expires
// (StartDate + ExpectedEmploymentMonths), whichever is earlier. A last day of
// month end date therefore loses status on the 1st of the next month and the
// month itself stays covered.
func QualificationLossDate(emp *domain.Employee) (time.Time, bool) {
	var loss time.Time
	found := false
	if emp.EndDate != nil && !emp.EndDate.IsZero() {
		loss = dateutil.Date(*emp.EndDate).AddDate(0, 0, 1)
		found = true
	}
	if expiry, ok := ContractExpiryDate(emp); ok {
		if candidate := expiry.AddDate(0, 0, 1); !found || candidate.Before(loss) {
			loss = candidate
			found = true
		}
	}
	return loss, found
}

// ContractExpiryDate is the last day of the expected employment period.
func ContractExpiryDate(emp *domain.Employee) (time.Time, bool) {
	if emp.StartDate == nil || emp.StartDate.IsZero() || emp.ExpectedEmploymentMonths <= 0 {
		return time.Time{}, false
	}
	start := dateutil.Date(*emp.StartDate)
	end := dateutil.AddMonths(start, emp.ExpectedEmploymentMonths)
	// A clamped end already sits on the month's last day.
	if end.Day() != start.Day() {
		return end, true
	}
	return end.AddDate(0, 0, -1), true
}
