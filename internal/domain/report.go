package domain

import (
	"time"
)

// ReportRow is the outcome for one employee in one month. Amounts are whole
// yen rendered as strings so every output format prints them identically;
// they are empty when no premium could be calculated.
type ReportRow struct {
	EmployeeID string `json:"employee_id" csv:"employee_id"`
	Name       string `json:"name" csv:"name"`
	Month      string `json:"month" csv:"month"`
	Prefecture string `json:"prefecture" csv:"prefecture"`

	HealthInsurance  bool       `json:"health_insurance" csv:"health"`
	NursingInsurance bool       `json:"nursing_insurance" csv:"nursing"`
	PensionInsurance bool       `json:"pension_insurance" csv:"pension"`
	ReasonCode       ReasonCode `json:"reason_code" csv:"reason_code"`
	Reason           string     `json:"reason" csv:"reason"`
	PremiumExempt    bool       `json:"premium_exempt" csv:"premium_exempt"`

	HealthGrade  int `json:"health_grade" csv:"health_grade"`
	PensionGrade int `json:"pension_grade" csv:"pension_grade"`

	EmployeeTotal    string `json:"employee_total" csv:"employee_total"`
	EmployerTotal    string `json:"employer_total" csv:"employer_total"`
	ChildSupportLevy string `json:"child_support_levy" csv:"child_support_levy"`

	// Note explains a missing premium or a configuration problem.
	Note string `json:"note,omitempty" csv:"note"`
}

// Calculated reports whether the row carries premium amounts.
func (r ReportRow) Calculated() bool { return r.EmployeeTotal != "" }

// Report is the result of evaluating a batch of employees over a range of
// months. Rows are ordered by employee (input order) then month.
type Report struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Tables      string      `json:"tables"`
	Headcount   int         `json:"headcount"`
	FirstMonth  string      `json:"first_month"`
	LastMonth   string      `json:"last_month"`
	Rows        []ReportRow `json:"rows"`
}

// InsuredCount counts rows where any insurance applies.
func (r *Report) InsuredCount() int {
	n := 0
	for i := range r.Rows {
		if r.Rows[i].HealthInsurance || r.Rows[i].NursingInsurance || r.Rows[i].PensionInsurance {
			n++
		}
	}
	return n
}
