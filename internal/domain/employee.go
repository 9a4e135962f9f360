package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EmploymentType classifies the working arrangement of an employee
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentContract EmploymentType = "contract"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentHourly   EmploymentType = "hourly"
)

// IsValid reports whether t is one of the known employment types.
func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentFullTime, EmploymentContract, EmploymentPartTime, EmploymentHourly:
		return true
	}
	return false
}

// StudentType distinguishes daytime students (excluded unless they work
// full-time hours) from night/correspondence students (treated like other
// short-hours workers).
type StudentType string

const (
	StudentDay             StudentType = "day"
	StudentHighSchool      StudentType = "high_school"
	StudentVocational      StudentType = "vocational"
	StudentNight           StudentType = "night"
	StudentLeaveOfAbsence  StudentType = "leave_of_absence"
	StudentCorrespondence  StudentType = "correspondence"
	StudentTypeUnspecified StudentType = ""
)

// IsFullTimeCourse reports whether the student attends a daytime course.
// An unspecified type is treated as a daytime student.
func (s StudentType) IsFullTimeCourse() bool {
	switch s {
	case StudentNight, StudentLeaveOfAbsence, StudentCorrespondence:
		return false
	}
	return true
}

// IsValid reports whether s is a known student type (empty is allowed).
func (s StudentType) IsValid() bool {
	switch s {
	case StudentDay, StudentHighSchool, StudentVocational, StudentNight,
		StudentLeaveOfAbsence, StudentCorrespondence, StudentTypeUnspecified:
		return true
	}
	return false
}

// LeaveType is the kind of leave an employee is currently taking
type LeaveType string

const (
	LeaveNone      LeaveType = "none"
	LeaveChildcare LeaveType = "childcare"
	LeaveMaternity LeaveType = "maternity"
	LeaveCare      LeaveType = "care"
)

// IsValid reports whether l is a known leave type (empty means none).
func (l LeaveType) IsValid() bool {
	switch l {
	case LeaveNone, LeaveChildcare, LeaveMaternity, LeaveCare, "":
		return true
	}
	return false
}

// PremiumExempt reports whether the leave exempts premiums. Care leave keeps
// the employee covered and paying.
func (l LeaveType) PremiumExempt() bool {
	return l == LeaveChildcare || l == LeaveMaternity
}

// NormalizeEmploymentType converts common spellings to the canonical value.
func NormalizeEmploymentType(s string) EmploymentType {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	switch n {
	case "full_time", "fulltime", "正社員":
		return EmploymentFullTime
	case "contract", "契約社員":
		return EmploymentContract
	case "part_time", "parttime", "パート":
		return EmploymentPartTime
	case "hourly", "アルバイト":
		return EmploymentHourly
	}
	return EmploymentType(n)
}

// Employee is the employee record the eligibility engine evaluates
type Employee struct {
	ID             string         `yaml:"id" json:"id"`
	Name           string         `yaml:"name" json:"name"`
	BirthDate      *time.Time     `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	EmploymentType EmploymentType `yaml:"employment_type" json:"employment_type"`
	Prefecture     string         `yaml:"prefecture,omitempty" json:"prefecture,omitempty"`

	WeeklyHours        decimal.Decimal `yaml:"weekly_hours" json:"weekly_hours"`
	MonthlyWorkDays    int             `yaml:"monthly_work_days" json:"monthly_work_days"`
	BaseSalary         decimal.Decimal `yaml:"base_salary" json:"base_salary"`
	Allowances         decimal.Decimal `yaml:"allowances" json:"allowances"`
	CommutingAllowance decimal.Decimal `yaml:"commuting_allowance" json:"commuting_allowance"`

	// 0 means unset, i.e. indefinite employment
	ExpectedEmploymentMonths int `yaml:"expected_employment_months,omitempty" json:"expected_employment_months,omitempty"`

	IsStudent   bool        `yaml:"is_student,omitempty" json:"is_student,omitempty"`
	StudentType StudentType `yaml:"student_type,omitempty" json:"student_type,omitempty"`

	StartDate *time.Time `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *time.Time `yaml:"end_date,omitempty" json:"end_date,omitempty"`

	LeaveType      LeaveType  `yaml:"leave_type,omitempty" json:"leave_type,omitempty"`
	LeaveStartDate *time.Time `yaml:"leave_start_date,omitempty" json:"leave_start_date,omitempty"`
	LeaveEndDate   *time.Time `yaml:"leave_end_date,omitempty" json:"leave_end_date,omitempty"`

	BonusPaymentDates []time.Time `yaml:"bonus_payment_dates,omitempty" json:"bonus_payment_dates,omitempty"`

	// Optional grades already decided by a notice; 0 means not yet chosen.
	HealthGrade  int `yaml:"health_grade,omitempty" json:"health_grade,omitempty"`
	PensionGrade int `yaml:"pension_grade,omitempty" json:"pension_grade,omitempty"`
}

// MonthlyWage is the wage used for the ¥88,000 test: base salary plus
// allowances plus commuting allowance.
func (e *Employee) MonthlyWage() decimal.Decimal {
	return e.BaseSalary.Add(e.Allowances).Add(e.CommutingAllowance)
}

// HasBirthDate reports whether a usable birth date is present.
func (e *Employee) HasBirthDate() bool {
	return e.BirthDate != nil && !e.BirthDate.IsZero()
}

// OnLeave reports whether a leave of any type is recorded.
func (e *Employee) OnLeave() bool {
	return e.LeaveType != "" && e.LeaveType != LeaveNone && e.LeaveStartDate != nil
}
