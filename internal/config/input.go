package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shaho/insurance-calculator/internal/calculation"
	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/internal/ratetable"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

// Roster is a batch input file: the employees of one employer and the months
// to evaluate them for.
type Roster struct {
	// Headcount is the employer's number of regular employees; 0 means the
	// caller's default applies.
	Headcount int `yaml:"headcount"`
	// Prefecture is used for employees that do not name one.
	Prefecture string `yaml:"prefecture,omitempty"`
	From       string `yaml:"from"`
	To         string `yaml:"to"`

	Employees []domain.Employee `yaml:"employees"`
}

// Period returns the parsed From/To months. An empty To means the same
// month as From.
func (r *Roster) Period() (dateutil.YearMonth, dateutil.YearMonth, error) {
	first, err := dateutil.ParseYearMonth(r.From)
	if err != nil {
		return first, first, fmt.Errorf("from: %w", err)
	}
	if r.To == "" {
		return first, first, nil
	}
	last, err := dateutil.ParseYearMonth(r.To)
	if err != nil {
		return first, last, fmt.Errorf("to: %w", err)
	}
	return first, last, nil
}

// InputParser handles parsing of roster files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a roster from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*Roster, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// LoadEmployee loads one employee record from a YAML (or JSON) file.
// defaultPrefecture applies when the record names none.
func (ip *InputParser) LoadEmployee(filename, defaultPrefecture string) (*domain.Employee, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var emp domain.Employee
	if err := yaml.Unmarshal(data, &emp); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	NormalizeEmployee(&emp, ratetable.NormalizePrefecture(defaultPrefecture))
	if err := ip.ValidateEmployee(&emp); err != nil {
		return nil, fmt.Errorf("employee %s validation failed: %w", emp.ID, err)
	}
	return &emp, nil
}

// Parse decodes and validates a roster document.
func (ip *InputParser) Parse(data []byte) (*Roster, error) {
	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.normalize(&roster)

	if err := ip.ValidateRoster(&roster); err != nil {
		return nil, fmt.Errorf("roster validation failed: %w", err)
	}
	return &roster, nil
}

// normalize fills defaults and canonical spellings before validation.
func (ip *InputParser) normalize(r *Roster) {
	r.Prefecture = ratetable.NormalizePrefecture(r.Prefecture)
	for i := range r.Employees {
		NormalizeEmployee(&r.Employees[i], r.Prefecture)
	}
}

// NormalizeEmployee canonicalises the employment type and prefecture of one
// record and fills the prefecture and leave type defaults.
func NormalizeEmployee(emp *domain.Employee, defaultPrefecture string) {
	emp.EmploymentType = domain.NormalizeEmploymentType(string(emp.EmploymentType))
	if emp.Prefecture == "" {
		emp.Prefecture = defaultPrefecture
	}
	emp.Prefecture = ratetable.NormalizePrefecture(emp.Prefecture)
	if emp.LeaveType == "" {
		emp.LeaveType = domain.LeaveNone
	}
}

// ValidateRoster validates the loaded roster
func (ip *InputParser) ValidateRoster(r *Roster) error {
	if r.Headcount < 0 {
		return fmt.Errorf("headcount cannot be negative")
	}
	if r.From != "" {
		first, last, err := r.Period()
		if err != nil {
			return err
		}
		if last.Before(first) {
			return fmt.Errorf("period ends (%s) before it starts (%s)", last, first)
		}
	}
	if len(r.Employees) == 0 {
		return fmt.Errorf("no employees provided")
	}

	seen := make(map[string]bool, len(r.Employees))
	for i := range r.Employees {
		emp := &r.Employees[i]
		if emp.ID == "" {
			return fmt.Errorf("employee %d: id is required", i+1)
		}
		if seen[emp.ID] {
			return fmt.Errorf("employee %s: duplicate id", emp.ID)
		}
		seen[emp.ID] = true
		if err := ip.ValidateEmployee(emp); err != nil {
			return fmt.Errorf("employee %s validation failed: %w", emp.ID, err)
		}
	}
	return nil
}

// ValidateEmployee validates a single employee record. A missing birth date
// is allowed; the engine then skips the age rules.
func (ip *InputParser) ValidateEmployee(emp *domain.Employee) error {
	if !emp.EmploymentType.IsValid() {
		return fmt.Errorf("unknown employment type %q", emp.EmploymentType)
	}
	if !emp.StudentType.IsValid() {
		return fmt.Errorf("unknown student type %q", emp.StudentType)
	}
	if !emp.LeaveType.IsValid() {
		return fmt.Errorf("unknown leave type %q", emp.LeaveType)
	}

	if emp.WeeklyHours.IsNegative() || emp.WeeklyHours.GreaterThan(decimal.NewFromInt(168)) {
		return fmt.Errorf("weekly hours must be between 0 and 168")
	}
	if emp.MonthlyWorkDays < 0 || emp.MonthlyWorkDays > 31 {
		return fmt.Errorf("monthly work days must be between 0 and 31")
	}
	if emp.BaseSalary.IsNegative() || emp.Allowances.IsNegative() || emp.CommutingAllowance.IsNegative() {
		return fmt.Errorf("wages cannot be negative")
	}
	if emp.ExpectedEmploymentMonths < 0 {
		return fmt.Errorf("expected employment months cannot be negative")
	}

	if emp.StartDate != nil && emp.EndDate != nil && emp.EndDate.Before(*emp.StartDate) {
		return fmt.Errorf("end date cannot be before start date")
	}
	if emp.HasBirthDate() && emp.StartDate != nil && emp.BirthDate.After(*emp.StartDate) {
		return fmt.Errorf("birth date cannot be after start date")
	}

	if emp.LeaveType != domain.LeaveNone {
		if emp.LeaveStartDate == nil {
			return fmt.Errorf("%s leave requires a leave start date", emp.LeaveType)
		}
		if emp.LeaveEndDate != nil && emp.LeaveEndDate.Before(*emp.LeaveStartDate) {
			return fmt.Errorf("leave end date cannot be before leave start date")
		}
	}

	if emp.HealthGrade < 0 || emp.HealthGrade > calculation.MaxHealthGrade {
		return fmt.Errorf("health grade must be between 1 and %d", calculation.MaxHealthGrade)
	}
	if emp.PensionGrade < 0 || emp.PensionGrade > calculation.MaxPensionGrade {
		return fmt.Errorf("pension grade must be between 1 and %d", calculation.MaxPensionGrade)
	}
	return calculation.ValidateGradePair(emp.HealthGrade, emp.PensionGrade)
}
