package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
	money "github.com/shaho/insurance-calculator/pkg/decimal"
)

const (
	// Four or more bonuses a year are ordinary remuneration, not bonuses.
	maxBonusesPerYear = 3
	standardBonusUnit = 1000
)

var (
	// Per-payment ceiling on the pension bonus base.
	pensionBonusCap = money.NewYen(1_500_000)
	// Fiscal-year ceiling on the cumulative health bonus base.
	healthBonusAnnualCap = money.NewYen(5_730_000)
)

// BonusInput describes one bonus payment.
type BonusInput struct {
	BonusAmount decimal.Decimal `json:"bonus_amount"`
	Prefecture  string          `json:"prefecture"`
	Age         int             `json:"age"`
	// BonusCount is the number of bonuses paid in the year including this one.
	BonusCount int `json:"bonus_count"`
	// AnnualHealthBonusTotal is the standard bonus total already assessed for
	// health insurance in the fiscal year, excluding this payment.
	AnnualHealthBonusTotal decimal.Decimal `json:"annual_health_bonus_total"`
	// FiscalYear selects the bonus rates; 0 uses the latest year loaded.
	FiscalYear int `json:"fiscal_year,omitempty"`
}

// CalculateBonus returns the premium split for one bonus payment.
//
// nil, nil means the payment is not assessed as a bonus: the amount or
// prefecture is missing, or more than three bonuses were paid in the year.
// The result ignores leave exemptions; see ApplyBonusExemption.
func (e *Engine) CalculateBonus(in BonusInput) (*domain.BonusInsuranceResult, error) {
	if e.Tables == nil {
		return nil, domain.ErrMissingRateTables
	}
	if in.BonusCount > maxBonusesPerYear || !in.BonusAmount.IsPositive() || in.Prefecture == "" {
		return nil, nil
	}
	rate, err := e.Tables.BonusRate(in.FiscalYear, in.Prefecture)
	if err != nil {
		return nil, err
	}

	standard := money.NewMoneyFromDecimal(in.BonusAmount).FloorTo(standardBonusUnit)
	pensionBase := money.Min(standard, pensionBonusCap)
	healthBase := healthBonusBase(standard, money.NewMoneyFromDecimal(in.AnnualHealthBonusTotal))
	cov := coverageForAge(in.Age)

	r := &domain.BonusInsuranceResult{
		StandardBonusAmount: standard.Decimal,
		HealthBase:          healthBase.Decimal,
		PensionBase:         pensionBase.Decimal,
	}
	r.HealthEmployee, r.HealthEmployer = splitBonusPremium(healthBase, rate.HealthInsuranceRate)
	r.NursingEmployee, r.NursingEmployer = decimal.Zero, decimal.Zero
	if cov.nursing {
		r.NursingEmployee, r.NursingEmployer = splitBonusPremium(healthBase, rate.NursingInsuranceRate)
	}
	r.PensionEmployee, r.PensionEmployer = decimal.Zero, decimal.Zero
	if cov.pension {
		r.PensionEmployee, r.PensionEmployer = splitBonusPremium(pensionBase, e.Tables.PensionRate())
	}
	r.ChildSupportLevy = healthBase.Mul(e.Tables.ChildSupportRate()).Floor().Decimal

	e.logger().Debugf("bonus %s: standard=%s health base=%s pension base=%s",
		in.Prefecture, r.StandardBonusAmount, r.HealthBase, r.PensionBase)
	return r, nil
}

// healthBonusBase applies the fiscal-year cumulative cap.
func healthBonusBase(standard, prior money.Money) money.Money {
	if prior.GreaterThanOrEqual(healthBonusAnnualCap) {
		return money.Zero()
	}
	return money.Max(money.Min(standard, healthBonusAnnualCap.Sub(prior)), money.Zero())
}

// splitBonusPremium truncates base×rate to whole yen and halves it, the odd
// yen going to the employer.
func splitBonusPremium(base money.Money, rate decimal.Decimal) (employee, employer decimal.Decimal) {
	emp, rest := base.Mul(rate).Floor().Half()
	return emp.Decimal, rest.Decimal
}

// ApplyBonusExemption zeroes the parts of a bonus result that the employee's
// eligibility in the payment month does not allow: everything when the month
// is bonus-exempt or the employee is uninsured, otherwise each insurance whose
// flag is off. The health flag also carries the levy. r is modified in place.
func ApplyBonusExemption(r *domain.BonusInsuranceResult, elig domain.EligibilityResult, paid dateutil.YearMonth) {
	if r == nil {
		return
	}
	exempt := elig.IsBonusExempt(paid.String())
	if exempt || !elig.Insured() {
		r.Exempt = exempt
		r.HealthEmployee, r.HealthEmployer = decimal.Zero, decimal.Zero
		r.NursingEmployee, r.NursingEmployer = decimal.Zero, decimal.Zero
		r.PensionEmployee, r.PensionEmployer = decimal.Zero, decimal.Zero
		r.ChildSupportLevy = decimal.Zero
		return
	}
	if !elig.HealthInsurance {
		r.HealthEmployee, r.HealthEmployer = decimal.Zero, decimal.Zero
		r.ChildSupportLevy = decimal.Zero
	}
	if !elig.NursingInsurance {
		r.NursingEmployee, r.NursingEmployer = decimal.Zero, decimal.Zero
	}
	if !elig.PensionInsurance {
		r.PensionEmployee, r.PensionEmployer = decimal.Zero, decimal.Zero
	}
}
