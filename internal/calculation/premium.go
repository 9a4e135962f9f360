package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/shaho/insurance-calculator/internal/domain"
	money "github.com/shaho/insurance-calculator/pkg/decimal"
)

// PremiumInput selects one row of the monthly premium tables.
type PremiumInput struct {
	Prefecture string `json:"prefecture"`
	Grade      int    `json:"grade"`
	// PensionGrade is derived from Grade when 0. When set it must pair with Grade.
	PensionGrade int `json:"pension_grade,omitempty"`
	// Age in whole years; 0 means unknown (no nursing, pension applies).
	Age int `json:"age"`
	// HasChildren has no effect: the child-support levy is charged to the
	// employer for every insured employee.
	HasChildren bool `json:"has_children"`
}

// coverage says which insurances a premium includes. Health is implied.
type coverage struct {
	nursing bool
	pension bool
}

func coverageForAge(age int) coverage {
	return coverage{
		nursing: age >= nursingStartAge && age < nursingEndAge,
		pension: age < pensionEndAge,
	}
}

// Calculate returns the monthly premium split for a prefecture and grade.
//
// It returns nil, nil when no grade or prefecture has been chosen yet; callers
// should show that as "cannot calculate yet". A prefecture or grade missing
// from the tables yields a *domain.ConfigurationError.
func (e *Engine) Calculate(in PremiumInput) (*domain.PremiumAmounts, error) {
	return e.calculate(in, coverageForAge(in.Age))
}

func (e *Engine) calculate(in PremiumInput, cov coverage) (*domain.PremiumAmounts, error) {
	if e.Tables == nil {
		return nil, domain.ErrMissingRateTables
	}
	if in.Grade <= 0 || in.Prefecture == "" {
		return nil, nil
	}

	entry, err := e.Tables.GradeEntry(in.Prefecture, in.Grade)
	if err != nil {
		return nil, err
	}

	pensionGrade := in.PensionGrade
	if pensionGrade == 0 {
		var ok bool
		if pensionGrade, ok = PensionGradeFor(in.Grade); !ok {
			return nil, &domain.ConfigurationError{Op: "calculate premium", Prefecture: in.Prefecture, Grade: in.Grade, Err: domain.ErrUnknownGrade}
		}
	} else if err := ValidateGradePair(in.Grade, pensionGrade); err != nil {
		return nil, err
	}

	pension, err := e.Tables.PensionEntry(pensionGrade)
	if err != nil {
		return nil, err
	}

	amounts := splitPremium(entry, pension, cov)
	amounts.Prefecture = in.Prefecture
	amounts.HealthGrade = in.Grade
	amounts.PensionGrade = pensionGrade
	amounts.StandardMonthlyWage = entry.StandardMonthlyWage
	amounts.ChildSupportLevy = money.NewMoneyFromDecimal(entry.StandardMonthlyWage).
		Mul(e.Tables.ChildSupportRate()).RoundHalfUp().Decimal

	e.logger().Debugf("premium %s grade %d/%d: employee=%s employer=%s levy=%s",
		in.Prefecture, in.Grade, pensionGrade, amounts.EmployeeTotal, amounts.EmployerTotal, amounts.ChildSupportLevy)
	return amounts, nil
}

// splitPremium applies the employee/employer split to one grade row.
//
// The employee total is the half-down rounded sum of the unrounded employee
// shares. The employer total is the combined premium minus that unrounded sum,
// rounded the other way, so both totals add up to the combined amount.
func splitPremium(entry domain.GradeTableEntry, pension domain.PensionGradeEntry, cov coverage) *domain.PremiumAmounts {
	a := &domain.PremiumAmounts{
		HealthEmployee:  entry.HealthInsuranceEmployeeShare,
		HealthEmployer:  entry.HealthInsuranceTotal.Sub(entry.HealthInsuranceEmployeeShare),
		NursingEmployee: decimal.Zero,
		NursingEmployer: decimal.Zero,
		PensionEmployee: decimal.Zero,
		PensionEmployer: decimal.Zero,
		NursingApplied:  cov.nursing,
	}

	employeeRaw := money.NewMoneyFromDecimal(entry.HealthInsuranceEmployeeShare)
	combined := money.NewMoneyFromDecimal(entry.HealthInsuranceTotal)

	if cov.nursing {
		nursingShare := money.NewMoneyFromDecimal(entry.NursingInsuranceEmployeeShare.Sub(entry.HealthInsuranceEmployeeShare))
		nursingEmployee, _ := nursingShare.RoundHalfDown()
		nursingTotal := entry.NursingInsuranceTotal.Sub(entry.HealthInsuranceTotal)
		a.NursingEmployee = nursingEmployee.Decimal
		a.NursingEmployer = nursingTotal.Sub(nursingEmployee.Decimal)

		employeeRaw = money.NewMoneyFromDecimal(entry.NursingInsuranceEmployeeShare)
		combined = money.NewMoneyFromDecimal(entry.NursingInsuranceTotal)
	}

	if cov.pension {
		share := pension.PensionInsuranceEmployeeShare
		a.PensionEmployee = share
		a.PensionEmployer = share
		employeeRaw = employeeRaw.Add(money.NewMoneyFromDecimal(share))
		combined = combined.Add(money.NewMoneyFromDecimal(share.Mul(decimal.NewFromInt(2))))
	}

	employeeTotal, roundedUp := employeeRaw.RoundHalfDown()
	employerRaw := combined.Sub(employeeRaw)
	employerTotal := employerRaw.Ceil()
	if roundedUp {
		employerTotal = employerRaw.Floor()
	}
	a.EmployeeTotal = employeeTotal.Decimal
	a.EmployerTotal = employerTotal.Decimal
	return a
}
