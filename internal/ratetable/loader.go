package ratetable

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shaho/insurance-calculator/internal/domain"
)

//go:embed data/*.yaml
var embedded embed.FS

// DefaultFile is the embedded table set used when no file is configured.
const DefaultFile = "data/fy2025.yaml"

// Highest pension grade; health grades above the pension ceiling share it.
const maxPensionGrade = 32

// Loader reads rate table documents from YAML and CSV sources
type Loader struct{}

// NewLoader creates a new rate table loader
func NewLoader() *Loader {
	return &Loader{}
}

// Default returns the embedded fiscal-year tables.
func Default() (*Tables, error) {
	doc, err := NewLoader().DefaultDocument()
	if err != nil {
		return nil, err
	}
	return New(doc)
}

// DefaultDocument decodes the embedded table document so callers can merge
// grade rows into it before building Tables.
func (l *Loader) DefaultDocument() (*domain.RateTableDocument, error) {
	data, err := embedded.ReadFile(DefaultFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded tables: %w", err)
	}
	return l.Parse(data)
}

// MustDefault is Default for tests and examples; it panics on error.
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadFromFile loads and validates a rate table YAML file
func (l *Loader) LoadFromFile(filename string) (*domain.RateTableDocument, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return l.Parse(data)
}

// Parse decodes a rate table YAML document without validating it.
func (l *Loader) Parse(data []byte) (*domain.RateTableDocument, error) {
	var doc domain.RateTableDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &doc, nil
}

// gradeRow is one line of a grade table CSV export.
type gradeRow struct {
	Prefecture           string `csv:"prefecture"`
	Grade                int    `csv:"grade"`
	StandardMonthlyWage  string `csv:"standard_monthly_wage"`
	HealthTotal          string `csv:"health_total"`
	HealthEmployeeShare  string `csv:"health_employee_share"`
	NursingTotal         string `csv:"nursing_total"`
	NursingEmployeeShare string `csv:"nursing_employee_share"`
}

// MergeGradeCSV reads per-prefecture grade rows from a CSV file and merges
// them into doc, replacing rows for the same prefecture and grade.
func (l *Loader) MergeGradeCSV(doc *domain.RateTableDocument, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	var rows []*gradeRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return fmt.Errorf("failed to read CSV %s: %w", filename, err)
	}

	if doc.Prefectures == nil {
		doc.Prefectures = make(map[string]domain.PrefectureRateTable)
	}
	for i, row := range rows {
		entry, err := row.entry()
		if err != nil {
			return fmt.Errorf("%s line %d: %w", filename, i+2, err)
		}
		name := NormalizePrefecture(row.Prefecture)
		pt := doc.Prefectures[name]
		if pt.Grades == nil {
			pt.Grades = make(map[int]domain.GradeTableEntry)
		}
		pt.Grades[row.Grade] = entry
		doc.Prefectures[name] = pt
	}
	return nil
}

func (r *gradeRow) entry() (domain.GradeTableEntry, error) {
	fields := []string{r.StandardMonthlyWage, r.HealthTotal, r.HealthEmployeeShare, r.NursingTotal, r.NursingEmployeeShare}
	values := make([]decimal.Decimal, len(fields))
	for i, s := range fields {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return domain.GradeTableEntry{}, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		values[i] = d
	}
	return domain.GradeTableEntry{
		StandardMonthlyWage:           values[0],
		HealthInsuranceTotal:          values[1],
		HealthInsuranceEmployeeShare:  values[2],
		NursingInsuranceTotal:         values[3],
		NursingInsuranceEmployeeShare: values[4],
	}, nil
}

// Validate checks the invariants the calculator relies on.
func Validate(doc *domain.RateTableDocument) error {
	if doc == nil || (len(doc.Prefectures) == 0 && len(doc.PensionGrades) == 0) {
		return domain.ErrMissingRateTables
	}
	if err := validateBoundaries(doc.GradeBoundaries); err != nil {
		return err
	}
	if doc.PensionRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: pension rate must be positive", domain.ErrInvalidRateTable)
	}
	if doc.ChildSupportRate.IsNegative() {
		return fmt.Errorf("%w: child support rate cannot be negative", domain.ErrInvalidRateTable)
	}

	for g := 1; g <= maxPensionGrade; g++ {
		e, ok := doc.PensionGrades[g]
		if !ok {
			return fmt.Errorf("%w: pension grade %d missing", domain.ErrInvalidRateTable, g)
		}
		if e.PensionInsuranceEmployeeShare.IsNegative() {
			return fmt.Errorf("%w: pension grade %d share cannot be negative", domain.ErrInvalidRateTable, g)
		}
	}

	for name, pt := range doc.Prefectures {
		if len(pt.Grades) == 0 {
			return fmt.Errorf("%w: prefecture %s has no grades", domain.ErrInvalidRateTable, name)
		}
		for g, e := range pt.Grades {
			if e.HealthInsuranceEmployeeShare.GreaterThan(e.HealthInsuranceTotal) {
				return fmt.Errorf("%w: %s grade %d health share exceeds total", domain.ErrInvalidRateTable, name, g)
			}
			if e.NursingInsuranceEmployeeShare.GreaterThan(e.NursingInsuranceTotal) {
				return fmt.Errorf("%w: %s grade %d nursing share exceeds total", domain.ErrInvalidRateTable, name, g)
			}
			if e.NursingInsuranceTotal.LessThan(e.HealthInsuranceTotal) {
				return fmt.Errorf("%w: %s grade %d combined nursing total below health total", domain.ErrInvalidRateTable, name, g)
			}
		}
	}
	return nil
}

// validateBoundaries requires contiguous, non-overlapping ranges ordered by
// grade, with only the last range open-ended.
func validateBoundaries(bounds []domain.GradeBoundary) error {
	if len(bounds) == 0 {
		return fmt.Errorf("%w: no grade boundaries", domain.ErrInvalidRateTable)
	}
	sorted := append([]domain.GradeBoundary(nil), bounds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Grade < sorted[j].Grade })

	for i, b := range sorted {
		last := i == len(sorted)-1
		if b.UpperBound == nil {
			if !last {
				return fmt.Errorf("%w: grade %d is open-ended but not the highest grade", domain.ErrInvalidRateTable, b.Grade)
			}
			continue
		}
		if !b.UpperBound.GreaterThan(b.LowerBound) {
			return fmt.Errorf("%w: grade %d upper bound must exceed lower bound", domain.ErrInvalidRateTable, b.Grade)
		}
		if last {
			continue
		}
		next := sorted[i+1]
		if next.Grade != b.Grade+1 {
			return fmt.Errorf("%w: grades %d and %d are not consecutive", domain.ErrInvalidRateTable, b.Grade, next.Grade)
		}
		if !next.LowerBound.Equal(*b.UpperBound) {
			return fmt.Errorf("%w: gap or overlap between grades %d and %d", domain.ErrInvalidRateTable, b.Grade, next.Grade)
		}
	}
	return nil
}
