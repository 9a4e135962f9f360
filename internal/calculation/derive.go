package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

// DeriveInput is the full state of an employee form at one point in time.
type DeriveInput struct {
	Employee    domain.Employee `json:"employee"`
	TargetYear  int             `json:"target_year"`
	TargetMonth time.Month      `json:"target_month"`
	Headcount   int             `json:"headcount"`
	// StandardMonthlyWage overrides the wage used for grade resolution. When
	// zero the employee's total monthly wage is used.
	StandardMonthlyWage decimal.Decimal `json:"standard_monthly_wage"`
}

// DerivedFields are the values recomputed from a DeriveInput.
type DerivedFields struct {
	TotalMonthlyWage decimal.Decimal `json:"total_monthly_wage"`
	// Age on the first day of the target month; nil without a birth date.
	Age *int `json:"age,omitempty"`

	HealthGrade           int  `json:"health_grade"`
	PensionGrade          int  `json:"pension_grade"`
	GradeCombinationValid bool `json:"grade_combination_valid"`

	Eligibility domain.EligibilityResult `json:"eligibility"`
	// Premium is nil when it cannot be calculated yet (no grade, no
	// prefecture, invalid grade pair) or nothing is insured. Exempt months
	// carry an all-zero premium.
	Premium *domain.PremiumAmounts `json:"premium,omitempty"`
}

// Derive recomputes every dependent field from the input in one pass. It is
// meant to be called after each change to the input instead of chaining
// per-field updates. Only missing rate tables or a table lookup failure for
// an explicitly chosen grade return an error.
func (e *Engine) Derive(in DeriveInput) (DerivedFields, error) {
	emp := in.Employee
	ym := dateutil.NewYearMonth(in.TargetYear, in.TargetMonth)

	out := DerivedFields{TotalMonthlyWage: emp.MonthlyWage()}
	if emp.HasBirthDate() {
		age := dateutil.AgeAtMonth(*emp.BirthDate, ym)
		out.Age = &age
	}

	wage := in.StandardMonthlyWage
	if !wage.IsPositive() {
		wage = out.TotalMonthlyWage
	}
	out.HealthGrade = emp.HealthGrade
	if out.HealthGrade == 0 {
		out.HealthGrade = e.ResolveGrade(wage)
	}
	out.PensionGrade = emp.PensionGrade
	if out.PensionGrade == 0 {
		out.PensionGrade, _ = PensionGradeFor(out.HealthGrade)
	}
	out.GradeCombinationValid = CheckCombination(out.HealthGrade, out.PensionGrade)

	out.Eligibility = e.Evaluate(&emp, in.TargetYear, in.TargetMonth, in.Headcount)
	if !out.Eligibility.Insured() || !out.GradeCombinationValid {
		return out, nil
	}

	premium, err := e.calculate(PremiumInput{
		Prefecture:   emp.Prefecture,
		Grade:        out.HealthGrade,
		PensionGrade: out.PensionGrade,
	}, coverage{
		nursing: out.Eligibility.NursingInsurance,
		pension: out.Eligibility.PensionInsurance,
	})
	if err != nil {
		return out, err
	}
	if premium != nil && out.Eligibility.PremiumExempt {
		zeroPremium(premium)
	}
	out.Premium = premium
	return out, nil
}

// zeroPremium clears every charged amount, keeping the grade details.
func zeroPremium(p *domain.PremiumAmounts) {
	p.HealthEmployee, p.HealthEmployer = decimal.Zero, decimal.Zero
	p.NursingEmployee, p.NursingEmployer = decimal.Zero, decimal.Zero
	p.PensionEmployee, p.PensionEmployer = decimal.Zero, decimal.Zero
	p.EmployeeTotal, p.EmployerTotal = decimal.Zero, decimal.Zero
	p.ChildSupportLevy = decimal.Zero
}
