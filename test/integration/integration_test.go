package integration

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaho/insurance-calculator/internal/calculation"
	"github.com/shaho/insurance-calculator/internal/config"
	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/internal/ratetable"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

const rosterPath = "../testdata/company_roster.yaml"

func loadRoster(t *testing.T) *config.Roster {
	t.Helper()
	roster, err := config.NewInputParser().LoadFromFile(rosterPath)
	require.NoError(t, err)
	return roster
}

func runBatch(t *testing.T, roster *config.Roster) *domain.Report {
	t.Helper()
	first, last, err := roster.Period()
	require.NoError(t, err)
	report, err := calculation.NewEngine(ratetable.MustDefault()).BatchEvaluate(roster.Employees, first, last, roster.Headcount)
	require.NoError(t, err)
	return report
}

// rowsByKey indexes report rows by "ID/YYYY-MM".
func rowsByKey(report *domain.Report) map[string]domain.ReportRow {
	rows := make(map[string]domain.ReportRow, len(report.Rows))
	for _, r := range report.Rows {
		rows[r.EmployeeID+"/"+r.Month] = r
	}
	return rows
}

func TestEndToEndBatch(t *testing.T) {
	report := runBatch(t, loadRoster(t))

	require.Len(t, report.Rows, 60)
	assert.Equal(t, 120, report.Headcount)
	assert.Equal(t, "2025-04", report.FirstMonth)
	assert.Equal(t, "2025-09", report.LastMonth)

	rows := rowsByKey(report)
	tests := []struct {
		key     string
		reason  domain.ReasonCode
		health  bool
		nursing bool
		pension bool
		exempt  bool
	}{
		{"A001/2025-04", domain.ReasonFullTime, true, true, true, false},
		{"A002/2025-06", domain.ReasonFullTime, true, false, false, false},
		{"A002/2025-07", domain.ReasonElderly, false, false, false, false},
		{"A003/2025-05", domain.ReasonShortContract, false, false, false, false},
		{"A003/2025-06", domain.ReasonQualificationLost, false, false, false, false},
		{"A004/2025-04", domain.ReasonFiveFactor, true, true, true, false},
		{"A005/2025-04", domain.ReasonStudentExcluded, false, false, false, false},
		{"A006/2025-05", domain.ReasonFullTime, true, true, true, false},
		{"A006/2025-06", domain.ReasonCareLeave, true, true, true, false},
		{"A006/2025-09", domain.ReasonFullTime, true, true, true, false},
		{"A007/2025-06", domain.ReasonFullTime, true, false, true, false},
		{"A007/2025-07", domain.ReasonMaternityLeave, true, false, true, true},
		{"A007/2025-09", domain.ReasonMaternityLeave, true, false, true, true},
		{"A008/2025-07", domain.ReasonFullTime, true, false, true, false},
		{"A008/2025-08", domain.ReasonChildcareLeave, true, false, true, true},
		{"A008/2025-09", domain.ReasonFullTime, true, false, true, false},
		{"A010/2025-06", domain.ReasonNotYetEnrolled, false, false, false, false},
		{"A010/2025-07", domain.ReasonFullTime, true, false, true, false},
		{"A011/2025-04", domain.ReasonThreeQuarters, true, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			row, ok := rows[tt.key]
			require.True(t, ok)
			assert.Equal(t, tt.reason, row.ReasonCode)
			assert.Equal(t, tt.health, row.HealthInsurance, "health")
			assert.Equal(t, tt.nursing, row.NursingInsurance, "nursing")
			assert.Equal(t, tt.pension, row.PensionInsurance, "pension")
			assert.Equal(t, tt.exempt, row.PremiumExempt, "exempt")
			assert.Empty(t, row.Note)
		})
	}

	// 60 rows less A002 Jul-Sep, A003 all, A005 all, A010 Apr-Jun
	assert.Equal(t, 42, report.InsuredCount())
}

func TestEndToEndPremiums(t *testing.T) {
	rows := rowsByKey(runBatch(t, loadRoster(t)))

	a001 := rows["A001/2025-06"]
	assert.Equal(t, 20, a001.HealthGrade)
	assert.Equal(t, 17, a001.PensionGrade)
	assert.Equal(t, "38740", a001.EmployeeTotal)
	assert.Equal(t, "38740", a001.EmployerTotal)
	assert.Equal(t, "936", a001.ChildSupportLevy)

	exempt := rows["A007/2025-08"]
	assert.True(t, exempt.Calculated())
	assert.Equal(t, "0", exempt.EmployeeTotal)
	assert.Equal(t, "0", exempt.EmployerTotal)
	assert.Equal(t, "0", exempt.ChildSupportLevy)

	care := rows["A006/2025-07"]
	assert.Equal(t, 27, care.HealthGrade)
	assert.NotEqual(t, "0", care.EmployeeTotal, "care leave premiums stay due")

	// health only after pension ended at 70
	elder, full := rows["A002/2025-06"], rows["A002/2025-05"]
	assert.Equal(t, elder.EmployeeTotal, full.EmployeeTotal)
	assert.True(t, elder.Calculated())

	for _, key := range []string{"A003/2025-04", "A005/2025-09", "A010/2025-04"} {
		assert.False(t, rows[key].Calculated(), key)
	}
}

func TestEndToEndBonusExemption(t *testing.T) {
	roster := loadRoster(t)
	engine := calculation.NewEngine(ratetable.MustDefault())

	var a007 *domain.Employee
	for i := range roster.Employees {
		if roster.Employees[i].ID == "A007" {
			a007 = &roster.Employees[i]
		}
	}
	require.NotNil(t, a007)

	july := dateutil.NewYearMonth(2025, time.July)
	elig := engine.Evaluate(a007, july.Year, july.Month, roster.Headcount)
	assert.Equal(t, []string{"2025-07"}, elig.BonusExemptionMonths)
	assert.Equal(t, "2025-07", elig.LeaveExemptionStartMonth)
	assert.Equal(t, "2025-09", elig.LeaveExemptionEndMonth)

	bonus, err := engine.CalculateBonus(calculation.BonusInput{
		BonusAmount: decimal.NewFromInt(600_000),
		Prefecture:  a007.Prefecture,
		Age:         dateutil.AgeAtMonth(*a007.BirthDate, july),
		BonusCount:  1,
	})
	require.NoError(t, err)
	require.NotNil(t, bonus)
	assert.True(t, bonus.EmployeeTotal().IsPositive())

	calculation.ApplyBonusExemption(bonus, elig, july)
	assert.True(t, bonus.Exempt)
	assert.True(t, bonus.EmployeeTotal().IsZero())
	assert.True(t, bonus.EmployerTotal().IsZero())
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()

	roster := loadRoster(t)
	assert.NoError(t, parser.ValidateRoster(roster))

	for i := range roster.Employees {
		assert.Equal(t, "東京都", roster.Employees[i].Prefecture)
	}

	roster.Employees[0].WeeklyHours = decimal.NewFromInt(-1)
	assert.Error(t, parser.ValidateRoster(roster))
}
