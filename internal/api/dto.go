package api

import (
	"github.com/shopspring/decimal"

	"github.com/shaho/insurance-calculator/internal/calculation"
	"github.com/shaho/insurance-calculator/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// EligibilityRequest asks for one employee in one month. A nil Headcount
// uses the server default.
type EligibilityRequest struct {
	Employee    domain.Employee `json:"employee"`
	TargetYear  int             `json:"target_year"`
	TargetMonth int             `json:"target_month"`
	Headcount   *int            `json:"headcount,omitempty"`
}

// EligibilityResponse adds the derived loss and contract dates to the result.
type EligibilityResponse struct {
	domain.EligibilityResult
	QualificationLossDate string `json:"qualification_loss_date,omitempty"`
	ContractExpiryDate    string `json:"contract_expiry_date,omitempty"`
}

// PremiumResponse wraps a monthly premium. Calculated is false when the
// grade or prefecture is still missing.
type PremiumResponse struct {
	Calculated bool                   `json:"calculated"`
	Premium    *domain.PremiumAmounts `json:"premium,omitempty"`
}

// BonusRequest is a bonus payment. When Employee and PaidMonth are given the
// employee's eligibility for that month gates the result and leave
// exemptions apply.
type BonusRequest struct {
	calculation.BonusInput
	Employee  *domain.Employee `json:"employee,omitempty"`
	PaidMonth string           `json:"paid_month,omitempty"`
	Headcount *int             `json:"headcount,omitempty"`
}

// BonusResponse wraps a bonus premium with its totals.
type BonusResponse struct {
	Calculated    bool                         `json:"calculated"`
	Bonus         *domain.BonusInsuranceResult `json:"bonus,omitempty"`
	EmployeeTotal decimal.Decimal              `json:"employee_total"`
	EmployerTotal decimal.Decimal              `json:"employer_total"`
}

// DeriveRequest is the full form state. A nil Headcount uses the server
// default.
type DeriveRequest struct {
	Employee            domain.Employee `json:"employee"`
	TargetYear          int             `json:"target_year"`
	TargetMonth         int             `json:"target_month"`
	Headcount           *int            `json:"headcount,omitempty"`
	StandardMonthlyWage decimal.Decimal `json:"standard_monthly_wage"`
}

// GradeResponse is the grade pair for a wage.
type GradeResponse struct {
	Wage         decimal.Decimal `json:"wage"`
	HealthGrade  int             `json:"health_grade"`
	PensionGrade int             `json:"pension_grade"`
}

// CombinationResponse reports whether a grade pair is official.
type CombinationResponse struct {
	HealthGrade  int  `json:"health_grade"`
	PensionGrade int  `json:"pension_grade"`
	Valid        bool `json:"valid"`
	// Expected is the pension grade paired with HealthGrade, 0 when the
	// health grade is out of range.
	Expected int `json:"expected_pension_grade"`
}

// HealthResponse is the liveness body.
type HealthResponse struct {
	Status string `json:"status"`
	Tables string `json:"tables,omitempty"`
}
