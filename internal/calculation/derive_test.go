package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaho/insurance-calculator/internal/domain"
)

func deriveInput(emp *domain.Employee) DeriveInput {
	return DeriveInput{Employee: *emp, TargetYear: 2025, TargetMonth: time.June, Headcount: 30}
}

func TestDerive_FullRecalculation(t *testing.T) {
	e := testEngine(t)

	out, err := e.Derive(deriveInput(fullTimer(day(1980, time.May, 10))))
	require.NoError(t, err)

	assertYen(t, 255000, out.TotalMonthlyWage, "total wage")
	require.NotNil(t, out.Age)
	assert.Equal(t, 45, *out.Age)
	assert.Equal(t, 20, out.HealthGrade)
	assert.Equal(t, 17, out.PensionGrade)
	assert.True(t, out.GradeCombinationValid)
	assert.Equal(t, domain.ReasonFullTime, out.Eligibility.ReasonCode)
	require.NotNil(t, out.Premium)
	assertYen(t, 38740, out.Premium.EmployeeTotal, "employee total")
	assertYen(t, 936, out.Premium.ChildSupportLevy, "levy")
}

func TestDerive_StandardWageOverride(t *testing.T) {
	in := deriveInput(fullTimer(day(1980, time.May, 10)))
	in.StandardMonthlyWage = decimal.NewFromInt(300000)

	out, err := testEngine(t).Derive(in)
	require.NoError(t, err)
	assert.Equal(t, 22, out.HealthGrade)
	assert.Equal(t, 19, out.PensionGrade)
}

func TestDerive_ChosenGradesWin(t *testing.T) {
	emp := fullTimer(day(1980, time.May, 10))
	emp.HealthGrade = 30
	emp.PensionGrade = 27

	out, err := testEngine(t).Derive(deriveInput(emp))
	require.NoError(t, err)
	assert.Equal(t, 30, out.HealthGrade)
	require.NotNil(t, out.Premium)
	assert.Equal(t, 27, out.Premium.PensionGrade)
}

func TestDerive_InvalidGradePair(t *testing.T) {
	emp := fullTimer(day(1980, time.May, 10))
	emp.HealthGrade = 20
	emp.PensionGrade = 10

	out, err := testEngine(t).Derive(deriveInput(emp))
	require.NoError(t, err)
	assert.False(t, out.GradeCombinationValid)
	assert.Nil(t, out.Premium)
}

func TestDerive_ExemptMonthZeroesPremium(t *testing.T) {
	emp := fullTimer(day(1990, time.February, 10))
	emp.LeaveType = domain.LeaveChildcare
	emp.LeaveStartDate = day(2025, time.May, 1)

	out, err := testEngine(t).Derive(deriveInput(emp))
	require.NoError(t, err)
	assert.True(t, out.Eligibility.PremiumExempt)
	require.NotNil(t, out.Premium)
	assert.True(t, out.Premium.EmployeeTotal.IsZero())
	assert.True(t, out.Premium.EmployerTotal.IsZero())
	assert.True(t, out.Premium.ChildSupportLevy.IsZero())
	assert.Equal(t, 20, out.Premium.HealthGrade)
}

func TestDerive_PremiumFollowsEligibilityFlags(t *testing.T) {
	out, err := testEngine(t).Derive(deriveInput(fullTimer(nil)))
	require.NoError(t, err)
	assert.Nil(t, out.Age)
	require.NotNil(t, out.Premium)
	assert.False(t, out.Premium.NursingApplied)
	assertYen(t, 36673, out.Premium.EmployeeTotal, "health + pension")

	older := fullTimer(day(1955, time.January, 20))
	out, err = testEngine(t).Derive(deriveInput(older))
	require.NoError(t, err)
	assert.False(t, out.Eligibility.PensionInsurance)
	assert.True(t, out.Premium.PensionEmployee.IsZero())
}

func TestDerive_NothingToCalculate(t *testing.T) {
	e := testEngine(t)

	in := deriveInput(fullTimer(day(1980, time.May, 10)))
	in.Headcount = 3
	out, err := e.Derive(in)
	require.NoError(t, err)
	assert.Nil(t, out.Premium)
	assert.Equal(t, 20, out.HealthGrade)

	emp := fullTimer(day(1980, time.May, 10))
	emp.Prefecture = ""
	out, err = e.Derive(deriveInput(emp))
	require.NoError(t, err)
	assert.Nil(t, out.Premium)
}

func TestDerive_UnknownPrefecture(t *testing.T) {
	emp := fullTimer(day(1980, time.May, 10))
	emp.Prefecture = "沖縄県"

	out, err := testEngine(t).Derive(deriveInput(emp))
	assert.ErrorIs(t, err, domain.ErrUnknownPrefecture)
	assert.True(t, out.Eligibility.HealthInsurance)
	assert.Nil(t, out.Premium)
}
