package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

// BatchEvaluate evaluates every employee for every month from first to last
// inclusive. Each row is independent; a lookup failure for one employee is
// recorded on its rows and does not stop the batch.
func (e *Engine) BatchEvaluate(employees []domain.Employee, first, last dateutil.YearMonth, headcount int) (*domain.Report, error) {
	if e.Tables == nil {
		return nil, domain.ErrMissingRateTables
	}
	if first.IsZero() || last.IsZero() {
		return nil, fmt.Errorf("batch range not set")
	}
	if last.Before(first) {
		return nil, fmt.Errorf("batch range %s..%s: last month before first", first, last)
	}

	months := dateutil.MonthsBetween(first, last)
	report := &domain.Report{
		GeneratedAt: nowFunc(),
		Headcount:   headcount,
		FirstMonth:  first.String(),
		LastMonth:   last.String(),
		Rows:        make([]domain.ReportRow, 0, len(employees)*len(months)),
	}
	if named, ok := e.Tables.(interface{ Name() string }); ok {
		report.Tables = named.Name()
	}

	for i := range employees {
		if p := employees[i].Prefecture; p != "" && !e.KnowsPrefecture(p) {
			e.logger().Warnf("batch: employee %s: no grade table for prefecture %s", employees[i].ID, p)
		}
		for _, ym := range months {
			report.Rows = append(report.Rows, e.reportRow(employees[i], ym, headcount))
		}
	}
	e.logger().Infof("batch: %d employees x %d months, %d insured rows",
		len(employees), len(months), report.InsuredCount())
	return report, nil
}

func (e *Engine) reportRow(emp domain.Employee, ym dateutil.YearMonth, headcount int) domain.ReportRow {
	derived, err := e.Derive(DeriveInput{
		Employee:    emp,
		TargetYear:  ym.Year,
		TargetMonth: ym.Month,
		Headcount:   headcount,
	})
	elig := derived.Eligibility
	row := domain.ReportRow{
		EmployeeID:       emp.ID,
		Name:             emp.Name,
		Month:            ym.String(),
		Prefecture:       emp.Prefecture,
		HealthInsurance:  elig.HealthInsurance,
		NursingInsurance: elig.NursingInsurance,
		PensionInsurance: elig.PensionInsurance,
		ReasonCode:       elig.ReasonCode,
		Reason:           elig.Reason,
		PremiumExempt:    elig.PremiumExempt,
		HealthGrade:      derived.HealthGrade,
		PensionGrade:     derived.PensionGrade,
	}

	switch {
	case err != nil:
		e.logger().Warnf("batch %s %s: %v", emp.ID, ym, err)
		row.Note = err.Error()
	case derived.Premium != nil:
		row.EmployeeTotal = yen(derived.Premium.EmployeeTotal)
		row.EmployerTotal = yen(derived.Premium.EmployerTotal)
		row.ChildSupportLevy = yen(derived.Premium.ChildSupportLevy)
	case elig.Insured() && !derived.GradeCombinationValid:
		row.Note = fmt.Sprintf("grade pair %d/%d is not valid", derived.HealthGrade, derived.PensionGrade)
	case elig.Insured():
		row.Note = "premium cannot be calculated yet"
	}
	return row
}

func yen(d decimal.Decimal) string { return d.StringFixed(0) }
