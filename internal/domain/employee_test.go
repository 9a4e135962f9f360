package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmploymentType(t *testing.T) {
	tests := []struct {
		in   string
		want EmploymentType
	}{
		{"full_time", EmploymentFullTime},
		{"Full-Time", EmploymentFullTime},
		{" fulltime ", EmploymentFullTime},
		{"正社員", EmploymentFullTime},
		{"契約社員", EmploymentContract},
		{"part time", EmploymentPartTime},
		{"パート", EmploymentPartTime},
		{"アルバイト", EmploymentHourly},
		{"freelance", EmploymentType("freelance")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeEmploymentType(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.False(t, EmploymentType("freelance").IsValid())
}

func TestStudentType_IsFullTimeCourse(t *testing.T) {
	tests := []struct {
		student  StudentType
		fullTime bool
	}{
		{StudentDay, true},
		{StudentHighSchool, true},
		{StudentVocational, true},
		{StudentTypeUnspecified, true},
		{StudentNight, false},
		{StudentLeaveOfAbsence, false},
		{StudentCorrespondence, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fullTime, tt.student.IsFullTimeCourse(), "student type %q", tt.student)
		assert.True(t, tt.student.IsValid())
	}
	assert.False(t, StudentType("online").IsValid())
}

func TestLeaveType(t *testing.T) {
	assert.True(t, LeaveChildcare.PremiumExempt())
	assert.True(t, LeaveMaternity.PremiumExempt())
	assert.False(t, LeaveCare.PremiumExempt())
	assert.False(t, LeaveNone.PremiumExempt())
	assert.True(t, LeaveType("").IsValid())
	assert.False(t, LeaveType("sabbatical").IsValid())
}

func TestEmployee_MonthlyWage(t *testing.T) {
	emp := Employee{
		BaseSalary:         decimal.NewFromInt(250000),
		Allowances:         decimal.NewFromInt(5000),
		CommutingAllowance: decimal.NewFromInt(12000),
	}
	assert.True(t, emp.MonthlyWage().Equal(decimal.NewFromInt(267000)))
	assert.True(t, (&Employee{}).MonthlyWage().IsZero())
}

func TestEmployee_BirthDateAndLeave(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	var zero time.Time

	tests := []struct {
		name      string
		emp       Employee
		birthDate bool
		onLeave   bool
	}{
		{"empty", Employee{}, false, false},
		{"zero birth date", Employee{BirthDate: &zero}, false, false},
		{"leave without start", Employee{LeaveType: LeaveChildcare}, false, false},
		{"none with start", Employee{LeaveType: LeaveNone, LeaveStartDate: &start}, false, false},
		{"on leave", Employee{BirthDate: &start, LeaveType: LeaveCare, LeaveStartDate: &start}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.birthDate, tt.emp.HasBirthDate())
			assert.Equal(t, tt.onLeave, tt.emp.OnLeave())
		})
	}
}

func TestReasonCode_Text(t *testing.T) {
	assert.Equal(t, "正社員として加入", ReasonFullTime.Text())
	assert.Equal(t, "mystery", ReasonCode("mystery").Text())
}

func TestEligibilityResult(t *testing.T) {
	r := EligibilityResult{
		BonusExemptionMonths:  []string{"2025-06"},
		FourteenDayRuleMonths: []string{"2025-09"},
	}
	assert.False(t, r.Insured())
	assert.True(t, r.IsBonusExempt("2025-06"))
	assert.True(t, r.IsBonusExempt("2025-09"))
	assert.False(t, r.IsBonusExempt("2025-07"))

	r.PensionInsurance = true
	assert.True(t, r.Insured())
}

func TestGradeBoundary_Contains(t *testing.T) {
	upper := decimal.NewFromInt(63000)
	b := GradeBoundary{Grade: 1, LowerBound: decimal.Zero, UpperBound: &upper}
	assert.True(t, b.Contains(decimal.Zero))
	assert.True(t, b.Contains(decimal.NewFromInt(62999)))
	assert.False(t, b.Contains(upper))
	assert.False(t, b.Contains(decimal.NewFromInt(-1)))

	top := GradeBoundary{Grade: 50, LowerBound: decimal.NewFromInt(1355000)}
	assert.True(t, top.Contains(decimal.NewFromInt(99_000_000)))
}

func TestBonusInsuranceResult_Totals(t *testing.T) {
	r := BonusInsuranceResult{
		HealthEmployee:   decimal.NewFromInt(100),
		HealthEmployer:   decimal.NewFromInt(101),
		NursingEmployee:  decimal.NewFromInt(10),
		NursingEmployer:  decimal.NewFromInt(10),
		PensionEmployee:  decimal.NewFromInt(200),
		PensionEmployer:  decimal.NewFromInt(200),
		ChildSupportLevy: decimal.NewFromInt(7),
	}
	assert.True(t, r.EmployeeTotal().Equal(decimal.NewFromInt(310)))
	assert.True(t, r.EmployerTotal().Equal(decimal.NewFromInt(318)))
}

func TestReport_InsuredCount(t *testing.T) {
	r := Report{Rows: []ReportRow{
		{HealthInsurance: true, EmployeeTotal: "100"},
		{PensionInsurance: true},
		{},
	}}
	assert.Equal(t, 2, r.InsuredCount())
	assert.True(t, r.Rows[0].Calculated())
	assert.False(t, r.Rows[1].Calculated())

	byKey := map[string]ReportRow{"E001/2025-04": r.Rows[0]}
	assert.True(t, byKey["E001/2025-04"].Calculated())
	assert.False(t, byKey["missing"].Calculated())
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigurationError
		want string
	}{
		{"both", &ConfigurationError{Op: "grade table", Prefecture: "沖縄県", Grade: 20, Err: ErrUnknownGrade}, "grade table: unknown grade (prefecture 沖縄県, grade 20)"},
		{"grade", &ConfigurationError{Op: "pension table", Grade: 40, Err: ErrUnknownGrade}, "pension table: unknown grade (grade 40)"},
		{"prefecture", &ConfigurationError{Op: "grade table", Prefecture: "沖縄県", Err: ErrUnknownPrefecture}, "grade table: unknown prefecture (prefecture 沖縄県)"},
		{"bare", &ConfigurationError{Op: "bonus", Err: ErrNoBonusRate}, "bonus: no bonus rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, errors.Is(tt.err, tt.err.Err))
			assert.True(t, IsConfigurationError(tt.err))
		})
	}
	assert.False(t, IsConfigurationError(ErrUnknownGrade))
}
