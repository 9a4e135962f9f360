package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

// RateTableProvider supplies the published premium tables. *ratetable.Tables
// implements it; tests may substitute their own.
type RateTableProvider interface {
	GradeBoundaries() []domain.GradeBoundary
	GradeEntry(prefecture string, grade int) (domain.GradeTableEntry, error)
	PensionEntry(grade int) (domain.PensionGradeEntry, error)
	BonusRate(fiscalYear int, prefecture string) (domain.BonusRate, error)
	PensionRate() decimal.Decimal
	ChildSupportRate() decimal.Decimal
}

// Engine evaluates eligibility and premiums against one immutable set of rate
// tables. It holds no mutable state, so one Engine can serve concurrent callers.
type Engine struct {
	Tables RateTableProvider
	Logger Logger
}

// NewEngine creates an engine over the given tables
func NewEngine(tables RateTableProvider) *Engine {
	return &Engine{
		Tables: tables,
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

func (e *Engine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

// Evaluate decides health, nursing and pension eligibility for one employee
// in one month. See the package-level Evaluate for the rules.
func (e *Engine) Evaluate(emp *domain.Employee, targetYear int, targetMonth time.Month, headcount int) domain.EligibilityResult {
	result := Evaluate(emp, targetYear, targetMonth, headcount)
	e.logger().Debugf("eligibility %s %s: %s health=%t nursing=%t pension=%t exempt=%t",
		emp.ID, dateutil.NewYearMonth(targetYear, targetMonth), result.ReasonCode,
		result.HealthInsurance, result.NursingInsurance, result.PensionInsurance, result.PremiumExempt)
	if result.AgeUnknown {
		e.logger().Warnf("eligibility %s: birth date missing, age rules skipped", emp.ID)
	}
	return result
}

// ResolveGrade maps a standard monthly wage to a health grade using the
// loaded boundaries.
func (e *Engine) ResolveGrade(wage decimal.Decimal) int {
	if e.Tables == nil {
		return 0
	}
	return ResolveGrade(e.Tables.GradeBoundaries(), wage)
}

// KnowsPrefecture reports whether the tables carry a grade table for the
// prefecture. Providers that cannot list prefectures report true.
func (e *Engine) KnowsPrefecture(prefecture string) bool {
	if e.Tables == nil {
		return false
	}
	if lister, ok := e.Tables.(interface{ HasPrefecture(string) bool }); ok {
		return lister.HasPrefecture(prefecture)
	}
	return true
}

// CheckCombination reports whether a health grade and a pension grade form
// an official pair.
func (e *Engine) CheckCombination(healthGrade, pensionGrade int) bool {
	return CheckCombination(healthGrade, pensionGrade)
}
