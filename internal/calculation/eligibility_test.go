package calculation

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fullTimer(birth *time.Time) *domain.Employee {
	return &domain.Employee{
		ID:              "E001",
		Name:            "山田太郎",
		BirthDate:       birth,
		EmploymentType:  domain.EmploymentFullTime,
		Prefecture:      "東京都",
		WeeklyHours:     decimal.NewFromInt(40),
		MonthlyWorkDays: 20,
		BaseSalary:      decimal.NewFromInt(250000),
		Allowances:      decimal.NewFromInt(5000),
		StartDate:       day(2020, time.April, 1),
	}
}

func partTimer(hours int64, days int, wage int64) *domain.Employee {
	return &domain.Employee{
		ID:              "P001",
		BirthDate:       day(1990, time.June, 15),
		EmploymentType:  domain.EmploymentPartTime,
		WeeklyHours:     decimal.NewFromInt(hours),
		MonthlyWorkDays: days,
		BaseSalary:      decimal.NewFromInt(wage),
	}
}

func assertNoCoverage(t *testing.T, r domain.EligibilityResult, code domain.ReasonCode) {
	t.Helper()
	assert.False(t, r.HealthInsurance, "health")
	assert.False(t, r.NursingInsurance, "nursing")
	assert.False(t, r.PensionInsurance, "pension")
	assert.Equal(t, code, r.ReasonCode)
	assert.Equal(t, code.Text(), r.Reason)
}

func TestEvaluate_ElderlyExcludedRegardlessOfOtherFields(t *testing.T) {
	for age := 75; age <= 95; age++ {
		emp := fullTimer(day(2025-age, time.January, 15))
		emp.LeaveType = domain.LeaveChildcare
		emp.LeaveStartDate = day(2025, time.May, 1)

		r := Evaluate(emp, 2025, time.June, 500)
		assertNoCoverage(t, r, domain.ReasonElderly)
		assert.False(t, r.PremiumExempt)
	}
}

func TestEvaluate_HealthEndsAfterThe75thBirthdayMonth(t *testing.T) {
	emp := fullTimer(day(1950, time.July, 15))

	r := Evaluate(emp, 2025, time.July, 10)
	assert.True(t, r.HealthInsurance)
	assert.Equal(t, "2025-07", r.HealthEndMonth)

	r = Evaluate(emp, 2025, time.August, 10)
	assertNoCoverage(t, r, domain.ReasonElderly)

	// born on the 1st: the threshold falls in the previous month
	emp = fullTimer(day(1950, time.July, 1))
	r = Evaluate(emp, 2025, time.June, 10)
	assert.True(t, r.HealthInsurance)
	assert.Equal(t, "2025-06", r.HealthEndMonth)
	r = Evaluate(emp, 2025, time.July, 10)
	assertNoCoverage(t, r, domain.ReasonElderly)
}

func TestEvaluate_SmallEmployerExcluded(t *testing.T) {
	for headcount := 0; headcount < 5; headcount++ {
		r := Evaluate(fullTimer(day(1980, time.March, 3)), 2025, time.June, headcount)
		assertNoCoverage(t, r, domain.ReasonSmallEmployer)
	}
	r := Evaluate(fullTimer(day(1980, time.March, 3)), 2025, time.June, 5)
	assert.True(t, r.HealthInsurance)
}

func TestEvaluate_DayOneBirthShiftsNursingStart(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		first := Evaluate(fullTimer(day(1985, m, 1)), 2025, time.June, 10)
		second := Evaluate(fullTimer(day(1985, m, 2)), 2025, time.June, 10)

		a, err := dateutil.ParseYearMonth(first.NursingStartMonth)
		require.NoError(t, err)
		b, err := dateutil.ParseYearMonth(second.NursingStartMonth)
		require.NoError(t, err)
		assert.Equal(t, -1, b.MonthsUntil(a), "birth month %s", m)
	}
}

func TestEvaluate_NursingStartScenario(t *testing.T) {
	r := Evaluate(fullTimer(day(1985, time.January, 1)), 2025, time.January, 10)

	assert.Equal(t, "2024-12", r.NursingStartMonth)
	assert.Equal(t, "2049-11", r.NursingEndMonth)
	assert.True(t, r.NursingInsurance)
	assert.Equal(t, domain.ReasonFullTime, r.ReasonCode)
}

func TestEvaluate_NursingWindow(t *testing.T) {
	emp := fullTimer(day(1960, time.May, 20))

	tests := []struct {
		month   time.Month
		nursing bool
	}{
		{time.March, true},
		{time.April, true},
		{time.May, false},
		{time.June, false},
	}
	for _, tt := range tests {
		r := Evaluate(emp, 2025, tt.month, 10)
		assert.True(t, r.HealthInsurance)
		assert.Equal(t, tt.nursing, r.NursingInsurance, "month %s", tt.month)
		assert.Equal(t, "2025-04", r.NursingEndMonth)
	}

	young := Evaluate(fullTimer(day(1990, time.May, 20)), 2025, time.June, 10)
	assert.False(t, young.NursingInsurance)
}

func TestEvaluate_PensionEndsBeforeAge70(t *testing.T) {
	emp := fullTimer(day(1955, time.August, 10))

	r := Evaluate(emp, 2025, time.July, 10)
	assert.True(t, r.PensionInsurance)
	assert.Equal(t, "2025-07", r.PensionEndMonth)

	r = Evaluate(emp, 2025, time.August, 10)
	assert.False(t, r.PensionInsurance)
	assert.True(t, r.HealthInsurance)
	assert.False(t, r.NursingInsurance)
}

func TestEvaluate_MissingBirthDate(t *testing.T) {
	r := Evaluate(fullTimer(nil), 2025, time.June, 10)

	assert.True(t, r.HealthInsurance)
	assert.True(t, r.PensionInsurance)
	assert.False(t, r.NursingInsurance)
	assert.True(t, r.AgeUnknown)
	assert.Empty(t, r.NursingStartMonth)
	assert.Empty(t, r.HealthEndMonth)
}

func TestEvaluate_EnrolmentPeriod(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.Employee)
		month  time.Month
		code   domain.ReasonCode
	}{
		{
			name:   "before start month",
			modify: func(e *domain.Employee) { e.StartDate = day(2025, time.April, 10) },
			month:  time.March,
			code:   domain.ReasonNotYetEnrolled,
		},
		{
			name:   "start month is covered",
			modify: func(e *domain.Employee) { e.StartDate = day(2025, time.April, 10) },
			month:  time.April,
			code:   domain.ReasonFullTime,
		},
		{
			name:   "month-end retirement keeps the month",
			modify: func(e *domain.Employee) { e.EndDate = day(2025, time.March, 31) },
			month:  time.March,
			code:   domain.ReasonFullTime,
		},
		{
			name:   "month after month-end retirement",
			modify: func(e *domain.Employee) { e.EndDate = day(2025, time.March, 31) },
			month:  time.April,
			code:   domain.ReasonQualificationLost,
		},
		{
			name:   "mid-month retirement loses the month",
			modify: func(e *domain.Employee) { e.EndDate = day(2025, time.March, 15) },
			month:  time.March,
			code:   domain.ReasonQualificationLost,
		},
		{
			name: "contract expiry",
			modify: func(e *domain.Employee) {
				e.StartDate = day(2025, time.January, 1)
				e.ExpectedEmploymentMonths = 6
			},
			month: time.July,
			code:  domain.ReasonQualificationLost,
		},
		{
			name: "last contract month",
			modify: func(e *domain.Employee) {
				e.StartDate = day(2025, time.January, 1)
				e.ExpectedEmploymentMonths = 6
			},
			month: time.June,
			code:  domain.ReasonFullTime,
		},
		{
			name: "month-end start keeps the last contract month",
			modify: func(e *domain.Employee) {
				e.StartDate = day(2025, time.March, 31)
				e.ExpectedEmploymentMonths = 3
			},
			month: time.June,
			code:  domain.ReasonFullTime,
		},
		{
			name: "month-end start loses the month after expiry",
			modify: func(e *domain.Employee) {
				e.StartDate = day(2025, time.March, 31)
				e.ExpectedEmploymentMonths = 3
			},
			month: time.July,
			code:  domain.ReasonQualificationLost,
		},
		{
			name: "earlier of end date and contract expiry",
			modify: func(e *domain.Employee) {
				e.StartDate = day(2025, time.January, 1)
				e.ExpectedEmploymentMonths = 12
				e.EndDate = day(2025, time.April, 30)
			},
			month: time.May,
			code:  domain.ReasonQualificationLost,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := fullTimer(day(1988, time.October, 5))
			tt.modify(emp)
			r := Evaluate(emp, 2025, tt.month, 10)
			assert.Equal(t, tt.code, r.ReasonCode)
			assert.Equal(t, tt.code == domain.ReasonFullTime, r.HealthInsurance)
		})
	}
}

func TestQualificationLossDate(t *testing.T) {
	emp := fullTimer(nil)
	_, ok := QualificationLossDate(emp)
	assert.False(t, ok)

	emp.EndDate = day(2025, time.March, 31)
	loss, ok := QualificationLossDate(emp)
	require.True(t, ok)
	assert.Equal(t, *day(2025, time.April, 1), loss)

	emp.EndDate = nil
	emp.StartDate = day(2025, time.January, 31)
	emp.ExpectedEmploymentMonths = 1
	expiry, ok := ContractExpiryDate(emp)
	require.True(t, ok)
	assert.Equal(t, *day(2025, time.February, 28), expiry)

	tests := []struct {
		name   string
		start  *time.Time
		months int
		expiry *time.Time
		loss   *time.Time
	}{
		{"mid-month start", day(2025, time.April, 10), 3, day(2025, time.July, 9), day(2025, time.July, 10)},
		{"first of month start", day(2025, time.April, 1), 2, day(2025, time.May, 31), day(2025, time.June, 1)},
		{"clamped to a shorter month", day(2025, time.March, 31), 3, day(2025, time.June, 30), day(2025, time.July, 1)},
		{"clamped into February", day(2024, time.November, 30), 3, day(2025, time.February, 28), day(2025, time.March, 1)},
		{"leap February", day(2023, time.November, 30), 3, day(2024, time.February, 29), day(2024, time.March, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := fullTimer(nil)
			emp.StartDate = tt.start
			emp.ExpectedEmploymentMonths = tt.months

			expiry, ok := ContractExpiryDate(emp)
			require.True(t, ok)
			assert.Equal(t, *tt.expiry, expiry)

			loss, ok := QualificationLossDate(emp)
			require.True(t, ok)
			assert.Equal(t, *tt.loss, loss)
		})
	}
}

func TestEvaluate_ChildcareLeave(t *testing.T) {
	emp := fullTimer(day(1990, time.February, 10))
	emp.LeaveType = domain.LeaveChildcare
	emp.LeaveStartDate = day(2025, time.April, 10)
	emp.LeaveEndDate = day(2025, time.September, 30)
	emp.BonusPaymentDates = []time.Time{*day(2025, time.December, 10), *day(2025, time.June, 30)}

	r := Evaluate(emp, 2025, time.June, 10)

	assert.True(t, r.HealthInsurance)
	assert.True(t, r.PensionInsurance)
	assert.False(t, r.NursingInsurance)
	assert.Equal(t, domain.ReasonChildcareLeave, r.ReasonCode)
	assert.True(t, r.PremiumExempt)
	assert.Equal(t, "2025-04", r.LeaveExemptionStartMonth)
	assert.Equal(t, "2025-09", r.LeaveExemptionEndMonth)
	assert.Equal(t, []string{"2025-04", "2025-05", "2025-06", "2025-07", "2025-08", "2025-09"}, r.FourteenDayRuleMonths)
	assert.Equal(t, []string{"2025-06"}, r.BonusExemptionMonths)
	assert.True(t, r.IsBonusExempt("2025-06"))
	assert.False(t, r.IsBonusExempt("2025-12"))
}

func TestEvaluate_LeaveEndingBeforeMonthEnd(t *testing.T) {
	emp := fullTimer(day(1990, time.February, 10))
	emp.LeaveType = domain.LeaveMaternity
	emp.LeaveStartDate = day(2025, time.April, 10)
	emp.LeaveEndDate = day(2025, time.September, 29)

	r := Evaluate(emp, 2025, time.September, 10)

	assert.Equal(t, domain.ReasonMaternityLeave, r.ReasonCode)
	assert.Equal(t, "2025-08", r.LeaveExemptionEndMonth)
	assert.Contains(t, r.FourteenDayRuleMonths, "2025-09")
	assert.True(t, r.PremiumExempt, "29 leave days in September")
}

func TestEvaluate_FourteenDayRule(t *testing.T) {
	tests := []struct {
		name   string
		start  *time.Time
		end    *time.Time
		months []string
		exempt bool
	}{
		{"exactly 14 days", day(2025, time.May, 1), day(2025, time.May, 14), []string{"2025-05"}, true},
		{"13 days", day(2025, time.May, 1), day(2025, time.May, 13), nil, false},
		{"split across months", day(2025, time.April, 20), day(2025, time.May, 20), []string{"2025-05"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := fullTimer(day(1990, time.February, 10))
			emp.LeaveType = domain.LeaveChildcare
			emp.LeaveStartDate = tt.start
			emp.LeaveEndDate = tt.end

			r := Evaluate(emp, 2025, time.May, 10)
			assert.Equal(t, domain.ReasonChildcareLeave, r.ReasonCode)
			assert.Equal(t, tt.months, r.FourteenDayRuleMonths)
			assert.Equal(t, tt.exempt, r.PremiumExempt)
		})
	}
}

func TestEvaluate_BonusExemptionNeedsMoreThan30Days(t *testing.T) {
	tests := []struct {
		name   string
		end    *time.Time
		exempt bool
	}{
		{"30 days", day(2025, time.June, 30), false},
		{"31 days", day(2025, time.July, 1), true},
		{"open-ended", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := fullTimer(day(1990, time.February, 10))
			emp.LeaveType = domain.LeaveChildcare
			emp.LeaveStartDate = day(2025, time.June, 1)
			emp.LeaveEndDate = tt.end
			emp.BonusPaymentDates = []time.Time{*day(2025, time.June, 25)}

			r := Evaluate(emp, 2025, time.June, 10)
			assert.Equal(t, tt.exempt, r.IsBonusExempt("2025-06") && len(r.BonusExemptionMonths) == 1)
		})
	}
}

func TestEvaluate_OpenEndedLeave(t *testing.T) {
	emp := fullTimer(day(1990, time.February, 10))
	emp.LeaveType = domain.LeaveChildcare
	emp.LeaveStartDate = day(2025, time.April, 1)
	emp.BonusPaymentDates = []time.Time{*day(2025, time.December, 10), *day(2025, time.December, 20)}

	r := Evaluate(emp, 2025, time.June, 10)

	assert.True(t, r.PremiumExempt)
	assert.Equal(t, "2025-04", r.LeaveExemptionStartMonth)
	assert.Empty(t, r.LeaveExemptionEndMonth)
	assert.Equal(t, []string{"2025-04", "2025-05", "2025-06"}, r.FourteenDayRuleMonths)
	assert.Equal(t, []string{"2025-12"}, r.BonusExemptionMonths)
}

func TestEvaluate_CareLeaveIsNotExempt(t *testing.T) {
	emp := fullTimer(day(1975, time.February, 10))
	emp.LeaveType = domain.LeaveCare
	emp.LeaveStartDate = day(2025, time.April, 1)
	emp.LeaveEndDate = day(2025, time.June, 30)

	r := Evaluate(emp, 2025, time.May, 10)

	assert.Equal(t, domain.ReasonCareLeave, r.ReasonCode)
	assert.True(t, r.HealthInsurance)
	assert.True(t, r.NursingInsurance)
	assert.True(t, r.PensionInsurance)
	assert.False(t, r.PremiumExempt)
	assert.Empty(t, r.FourteenDayRuleMonths)
	assert.Empty(t, r.LeaveExemptionStartMonth)
}

func TestEvaluate_LeaveOutsideTargetMonth(t *testing.T) {
	emp := fullTimer(day(1990, time.February, 10))
	emp.LeaveType = domain.LeaveChildcare
	emp.LeaveStartDate = day(2025, time.July, 1)

	r := Evaluate(emp, 2025, time.June, 10)
	assert.Equal(t, domain.ReasonFullTime, r.ReasonCode)
	assert.False(t, r.PremiumExempt)
}

func TestEvaluate_ShortContract(t *testing.T) {
	for _, months := range []int{1, 2} {
		emp := fullTimer(day(1990, time.February, 10))
		emp.StartDate = day(2025, time.June, 1)
		emp.ExpectedEmploymentMonths = months
		assertNoCoverage(t, Evaluate(emp, 2025, time.June, 100), domain.ReasonShortContract)
	}

	emp := partTimer(25, 12, 100000)
	emp.ExpectedEmploymentMonths = 3
	assert.Equal(t, domain.ReasonFiveFactor, Evaluate(emp, 2025, time.June, 51).ReasonCode)
}

func TestEvaluate_Students(t *testing.T) {
	tests := []struct {
		name        string
		studentType domain.StudentType
		hours       int64
		days        int
		wage        int64
		code        domain.ReasonCode
	}{
		{"day student short hours", domain.StudentDay, 20, 12, 120000, domain.ReasonStudentExcluded},
		{"day student full hours", domain.StudentDay, 30, 15, 180000, domain.ReasonStudentFullTimeWork},
		{"high school student", domain.StudentHighSchool, 25, 20, 100000, domain.ReasonStudentExcluded},
		{"unspecified treated as day", domain.StudentTypeUnspecified, 20, 10, 100000, domain.ReasonStudentExcluded},
		{"night student meets short hours", domain.StudentNight, 20, 10, 88000, domain.ReasonStudentShortHours},
		{"correspondence student low wage", domain.StudentCorrespondence, 25, 10, 87999, domain.ReasonNotEligible},
		{"leave of absence few hours", domain.StudentLeaveOfAbsence, 19, 10, 150000, domain.ReasonNotEligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := partTimer(tt.hours, tt.days, tt.wage)
			emp.IsStudent = true
			emp.StudentType = tt.studentType

			r := Evaluate(emp, 2025, time.June, 10)
			assert.Equal(t, tt.code, r.ReasonCode)
			covered := tt.code == domain.ReasonStudentFullTimeWork || tt.code == domain.ReasonStudentShortHours
			assert.Equal(t, covered, r.HealthInsurance)
			assert.Equal(t, covered, r.PensionInsurance)
		})
	}
}

func TestEvaluate_PartTimeRules(t *testing.T) {
	tests := []struct {
		name      string
		emp       *domain.Employee
		headcount int
		code      domain.ReasonCode
	}{
		{"three quarters", partTimer(32, 18, 150000), 10, domain.ReasonThreeQuarters},
		{"30 hours but 14 days", partTimer(30, 14, 150000), 10, domain.ReasonNotEligible},
		{"five factor", partTimer(24, 10, 100000), 51, domain.ReasonFiveFactor},
		{"five factor at 50 employees", partTimer(24, 10, 100000), 50, domain.ReasonNotEligible},
		{"wage just below 88000", partTimer(24, 10, 87999), 100, domain.ReasonNotEligible},
		{"19 hours", partTimer(19, 10, 120000), 100, domain.ReasonNotEligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Evaluate(tt.emp, 2025, time.June, tt.headcount)
			assert.Equal(t, tt.code, r.ReasonCode)
		})
	}
}

func TestEvaluate_WageIncludesAllowances(t *testing.T) {
	emp := partTimer(22, 10, 80000)
	emp.Allowances = decimal.NewFromInt(5000)
	emp.CommutingAllowance = decimal.NewFromInt(3000)
	assert.Equal(t, domain.ReasonFiveFactor, Evaluate(emp, 2025, time.June, 60).ReasonCode)
}

func TestEvaluate_ContractEmployeeUsesHoursTests(t *testing.T) {
	emp := partTimer(40, 20, 300000)
	emp.EmploymentType = domain.EmploymentContract
	emp.ExpectedEmploymentMonths = 12
	assert.Equal(t, domain.ReasonThreeQuarters, Evaluate(emp, 2025, time.June, 10).ReasonCode)
}

func TestEngineEvaluateLogs(t *testing.T) {
	log := &recordingLogger{}
	e := NewEngine(nil)
	e.SetLogger(log)

	e.Evaluate(fullTimer(nil), 2025, time.June, 10)
	require.NotEmpty(t, log.lines)
	assert.Contains(t, log.lines[len(log.lines)-1], "birth date missing")
}

type recordingLogger struct{ lines []string }

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Infof(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Errorf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
