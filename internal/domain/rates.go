package domain

import (
	"github.com/shopspring/decimal"
)

// RateTableDocument is the on-disk form of the rate tables: everything the
// premium calculator looks up, for one or more fiscal years.
type RateTableDocument struct {
	Name             string          `yaml:"name" json:"name"`
	FiscalYear       int             `yaml:"fiscal_year" json:"fiscal_year"`
	PensionRate      decimal.Decimal `yaml:"pension_rate" json:"pension_rate"`
	ChildSupportRate decimal.Decimal `yaml:"child_support_rate" json:"child_support_rate"`

	GradeBoundaries []GradeBoundary                `yaml:"grade_boundaries" json:"grade_boundaries"`
	PensionGrades   map[int]PensionGradeEntry      `yaml:"pension_grades" json:"pension_grades"`
	Prefectures     map[string]PrefectureRateTable `yaml:"prefectures" json:"prefectures"`

	// fiscal year -> prefecture -> rates
	BonusRates map[int]map[string]BonusRate `yaml:"bonus_rates" json:"bonus_rates"`
}

// PrefectureRateTable is the health/nursing grade table of one prefecture.
type PrefectureRateTable struct {
	Grades map[int]GradeTableEntry `yaml:"grades" json:"grades"`
}
