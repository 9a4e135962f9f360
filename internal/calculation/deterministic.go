package calculation

import (
	"time"

	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// CurrentMonth is the month used when a caller leaves the target month unset.
func CurrentMonth() dateutil.YearMonth {
	return dateutil.MonthOf(nowFunc())
}
