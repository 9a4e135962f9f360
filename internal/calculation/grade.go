package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shaho/insurance-calculator/internal/domain"
)

const (
	MaxHealthGrade  = 50
	MaxPensionGrade = 32
)

// ResolveGrade returns the grade of the first boundary containing wage. A
// wage above the highest bound resolves to the highest grade. 0 means no
// boundary applies (empty table or negative wage).
func ResolveGrade(boundaries []domain.GradeBoundary, wage decimal.Decimal) int {
	if len(boundaries) == 0 || wage.IsNegative() {
		return 0
	}
	top := boundaries[0]
	for _, b := range boundaries {
		if b.Contains(wage) {
			return b.Grade
		}
		if b.Grade > top.Grade {
			top = b
		}
	}
	if wage.GreaterThanOrEqual(top.LowerBound) {
		return top.Grade
	}
	return 0
}

// PensionGradeFor returns the pension grade paired with a health grade.
// Health grades 1-4 share pension grade 1 and 35-50 share pension grade 32;
// in between the pension grade trails the health grade by three.
func PensionGradeFor(healthGrade int) (int, bool) {
	switch {
	case healthGrade < 1 || healthGrade > MaxHealthGrade:
		return 0, false
	case healthGrade <= 4:
		return 1, true
	case healthGrade >= 35:
		return MaxPensionGrade, true
	}
	return healthGrade - 3, true
}

// CheckCombination reports whether the two grades form an official pair.
func CheckCombination(healthGrade, pensionGrade int) bool {
	want, ok := PensionGradeFor(healthGrade)
	return ok && want == pensionGrade
}

// ValidateGradePair rejects a pair where both grades are set but do not
// match. Either grade left at 0 is accepted.
func ValidateGradePair(healthGrade, pensionGrade int) error {
	if healthGrade == 0 || pensionGrade == 0 {
		return nil
	}
	if !CheckCombination(healthGrade, pensionGrade) {
		return fmt.Errorf("health grade %d with pension grade %d: %w",
			healthGrade, pensionGrade, domain.ErrInvalidGradeCombination)
	}
	return nil
}
