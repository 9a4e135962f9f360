// Package ratetable holds the government-published premium tables the
// calculator looks up: per-prefecture health/nursing grade tables, the
// pension table, bonus rates and the wage-to-grade boundaries.
//
// Tables are loaded once at startup and never mutated afterwards, so a single
// *Tables can be shared by any number of concurrent evaluations.
package ratetable

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/shaho/insurance-calculator/internal/domain"
)

// Tables is an immutable, validated set of rate tables.
type Tables struct {
	name             string
	fiscalYear       int
	pensionRate      decimal.Decimal
	childSupportRate decimal.Decimal
	boundaries       []domain.GradeBoundary
	pension          map[int]domain.PensionGradeEntry
	prefectures      map[string]map[int]domain.GradeTableEntry
	bonusRates       map[int]map[string]domain.BonusRate
}

// New builds Tables from a document after validating it. The document's maps
// are copied so later changes to doc do not leak into the tables.
func New(doc *domain.RateTableDocument) (*Tables, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	t := &Tables{
		name:             doc.Name,
		fiscalYear:       doc.FiscalYear,
		pensionRate:      doc.PensionRate,
		childSupportRate: doc.ChildSupportRate,
		boundaries:       append([]domain.GradeBoundary(nil), doc.GradeBoundaries...),
		pension:          make(map[int]domain.PensionGradeEntry, len(doc.PensionGrades)),
		prefectures:      make(map[string]map[int]domain.GradeTableEntry, len(doc.Prefectures)),
		bonusRates:       make(map[int]map[string]domain.BonusRate, len(doc.BonusRates)),
	}
	sort.Slice(t.boundaries, func(i, j int) bool { return t.boundaries[i].Grade < t.boundaries[j].Grade })

	for g, e := range doc.PensionGrades {
		t.pension[g] = e
	}
	for name, pt := range doc.Prefectures {
		grades := make(map[int]domain.GradeTableEntry, len(pt.Grades))
		for g, e := range pt.Grades {
			grades[g] = e
		}
		t.prefectures[NormalizePrefecture(name)] = grades
	}
	for fy, byPref := range doc.BonusRates {
		rates := make(map[string]domain.BonusRate, len(byPref))
		for name, r := range byPref {
			rates[NormalizePrefecture(name)] = r
		}
		t.bonusRates[fy] = rates
	}
	return t, nil
}

// Name returns the table set's display name.
func (t *Tables) Name() string { return t.name }

// FiscalYear is the fiscal year the grade tables belong to.
func (t *Tables) FiscalYear() int { return t.fiscalYear }

// PensionRate is the combined (employee + employer) pension rate.
func (t *Tables) PensionRate() decimal.Decimal { return t.pensionRate }

// ChildSupportRate is the employer-only child-support levy rate.
func (t *Tables) ChildSupportRate() decimal.Decimal { return t.childSupportRate }

// GradeBoundaries returns the ordered wage boundaries. The slice is shared;
// callers must not modify it.
func (t *Tables) GradeBoundaries() []domain.GradeBoundary { return t.boundaries }

// GradeEntry looks up a prefecture's grade table row.
func (t *Tables) GradeEntry(prefecture string, grade int) (domain.GradeTableEntry, error) {
	grades, ok := t.prefectures[NormalizePrefecture(prefecture)]
	if !ok {
		return domain.GradeTableEntry{}, &domain.ConfigurationError{Op: "grade table", Prefecture: prefecture, Err: domain.ErrUnknownPrefecture}
	}
	e, ok := grades[grade]
	if !ok {
		return domain.GradeTableEntry{}, &domain.ConfigurationError{Op: "grade table", Prefecture: prefecture, Grade: grade, Err: domain.ErrUnknownGrade}
	}
	return e, nil
}

// PensionEntry looks up a pension table row.
func (t *Tables) PensionEntry(grade int) (domain.PensionGradeEntry, error) {
	e, ok := t.pension[grade]
	if !ok {
		return domain.PensionGradeEntry{}, &domain.ConfigurationError{Op: "pension table", Grade: grade, Err: domain.ErrUnknownGrade}
	}
	return e, nil
}

// BonusRate returns the bonus rates for a prefecture. A zero fiscalYear
// selects the latest fiscal year that has a rate for the prefecture.
func (t *Tables) BonusRate(fiscalYear int, prefecture string) (domain.BonusRate, error) {
	key := NormalizePrefecture(prefecture)
	if fiscalYear == 0 {
		best := 0
		for fy, rates := range t.bonusRates {
			if _, ok := rates[key]; ok && fy > best {
				best = fy
			}
		}
		fiscalYear = best
	}
	if r, ok := t.bonusRates[fiscalYear][key]; ok {
		return r, nil
	}
	return domain.BonusRate{}, &domain.ConfigurationError{Op: "bonus rate", Prefecture: prefecture, Err: domain.ErrNoBonusRate}
}

// HasPrefecture reports whether a grade table exists for the prefecture.
func (t *Tables) HasPrefecture(prefecture string) bool {
	_, ok := t.prefectures[NormalizePrefecture(prefecture)]
	return ok
}

// Prefectures lists the loaded prefectures in sorted order.
func (t *Tables) Prefectures() []string {
	names := make([]string, 0, len(t.prefectures))
	for name := range t.prefectures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var prefectureSuffixes = []string{"都", "道", "府", "県"}

// NormalizePrefecture canonicalises a prefecture name: NFKC folding of
// full/half-width variants, trimmed spaces and the administrative suffix
// added when missing ("東京" -> "東京都", "大阪" -> "大阪府").
func NormalizePrefecture(name string) string {
	n := strings.TrimSpace(norm.NFKC.String(name))
	switch n {
	case "":
		return ""
	case "東京":
		return "東京都"
	case "大阪", "京都":
		return n + "府"
	}
	for _, s := range prefectureSuffixes {
		if strings.HasSuffix(n, s) {
			return n
		}
	}
	return n + "県"
}
