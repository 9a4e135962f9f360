package domain

import (
	"github.com/shopspring/decimal"
)

// GradeTableEntry is one row of a prefecture's health insurance premium table.
// Totals are the full premium before the employee/employer split; the
// nursing columns include health insurance (health + nursing combined).
type GradeTableEntry struct {
	StandardMonthlyWage           decimal.Decimal `yaml:"standard_monthly_wage" json:"standard_monthly_wage"`
	HealthInsuranceTotal          decimal.Decimal `yaml:"health_total" json:"health_total"`
	HealthInsuranceEmployeeShare  decimal.Decimal `yaml:"health_employee_share" json:"health_employee_share"`
	NursingInsuranceTotal         decimal.Decimal `yaml:"nursing_total" json:"nursing_total"`
	NursingInsuranceEmployeeShare decimal.Decimal `yaml:"nursing_employee_share" json:"nursing_employee_share"`
}

// PensionGradeEntry is one row of the employees' pension table. The employer
// pays the same amount as the employee.
type PensionGradeEntry struct {
	StandardMonthlyWage           decimal.Decimal `yaml:"standard_monthly_wage" json:"standard_monthly_wage"`
	PensionInsuranceEmployeeShare decimal.Decimal `yaml:"employee_share" json:"employee_share"`
}

// GradeBoundary maps a wage range [LowerBound, UpperBound) to a health grade.
// A nil UpperBound marks the open-ended top grade.
type GradeBoundary struct {
	Grade      int              `yaml:"grade" json:"grade"`
	LowerBound decimal.Decimal  `yaml:"lower" json:"lower"`
	UpperBound *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
}

// Contains reports whether wage falls in the boundary's range.
func (b GradeBoundary) Contains(wage decimal.Decimal) bool {
	if wage.LessThan(b.LowerBound) {
		return false
	}
	return b.UpperBound == nil || wage.LessThan(*b.UpperBound)
}

// BonusRate holds the rates applied to bonuses for a prefecture and fiscal
// year. SpecialInsuranceRate is the part of the health rate that funds elderly
// care and is reported for notices only.
type BonusRate struct {
	HealthInsuranceRate  decimal.Decimal `yaml:"health_rate" json:"health_rate"`
	NursingInsuranceRate decimal.Decimal `yaml:"nursing_rate" json:"nursing_rate"`
	SpecialInsuranceRate decimal.Decimal `yaml:"special_rate" json:"special_rate"`
}

// PremiumAmounts is the monthly premium split for one employee. Per-insurance
// employer shares may carry fractional yen; the totals are whole yen and
// reconcile with the combined table amount.
type PremiumAmounts struct {
	Prefecture          string          `json:"prefecture"`
	HealthGrade         int             `json:"health_grade"`
	PensionGrade        int             `json:"pension_grade"`
	StandardMonthlyWage decimal.Decimal `json:"standard_monthly_wage"`

	HealthEmployee  decimal.Decimal `json:"health_employee"`
	HealthEmployer  decimal.Decimal `json:"health_employer"`
	NursingEmployee decimal.Decimal `json:"nursing_employee"`
	NursingEmployer decimal.Decimal `json:"nursing_employer"`
	PensionEmployee decimal.Decimal `json:"pension_employee"`
	PensionEmployer decimal.Decimal `json:"pension_employer"`

	// NursingApplied is false outside the 40-65 age window
	NursingApplied bool `json:"nursing_applied"`

	EmployeeTotal    decimal.Decimal `json:"employee_total"`
	EmployerTotal    decimal.Decimal `json:"employer_total"`
	ChildSupportLevy decimal.Decimal `json:"child_support_levy"`
}

// BonusInsuranceResult is the premium split for one bonus payment.
type BonusInsuranceResult struct {
	StandardBonusAmount decimal.Decimal `json:"standard_bonus_amount"`
	HealthBase          decimal.Decimal `json:"health_base"`
	PensionBase         decimal.Decimal `json:"pension_base"`

	HealthEmployee   decimal.Decimal `json:"health_employee"`
	HealthEmployer   decimal.Decimal `json:"health_employer"`
	NursingEmployee  decimal.Decimal `json:"nursing_employee"`
	NursingEmployer  decimal.Decimal `json:"nursing_employer"`
	PensionEmployee  decimal.Decimal `json:"pension_employee"`
	PensionEmployer  decimal.Decimal `json:"pension_employer"`
	ChildSupportLevy decimal.Decimal `json:"child_support_levy"`

	Exempt bool `json:"exempt"`
}

// EmployeeTotal is the sum withheld from the employee for the bonus.
func (b *BonusInsuranceResult) EmployeeTotal() decimal.Decimal {
	return b.HealthEmployee.Add(b.NursingEmployee).Add(b.PensionEmployee)
}

// EmployerTotal is the employer's burden including the child-support levy.
func (b *BonusInsuranceResult) EmployerTotal() decimal.Decimal {
	return b.HealthEmployer.Add(b.NursingEmployer).Add(b.PensionEmployer).Add(b.ChildSupportLevy)
}
