package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors, use with errors.Is
var (
	// ErrMissingRateTables is returned when no rate tables were loaded at all.
	ErrMissingRateTables = errors.New("rate tables not loaded")

	// ErrUnknownPrefecture is returned when a prefecture has no grade table.
	ErrUnknownPrefecture = errors.New("unknown prefecture")

	// ErrUnknownGrade is returned when a grade has no table entry.
	ErrUnknownGrade = errors.New("unknown grade")

	// ErrNoBonusRate is returned when no bonus rate exists for a prefecture and fiscal year.
	ErrNoBonusRate = errors.New("no bonus rate")

	// ErrInvalidRateTable is returned when loaded tables break an invariant.
	ErrInvalidRateTable = errors.New("invalid rate table")

	// ErrInvalidGradeCombination is returned when a health grade and a pension
	// grade are both set but do not form an official pair.
	ErrInvalidGradeCombination = errors.New("invalid grade combination")
)

// ConfigurationError reports a lookup that cannot be satisfied by the loaded
// rate tables. It is only raised when a caller explicitly asks for a premium;
// a grade that simply has not been chosen yet is not an error.
type ConfigurationError struct {
	Op         string
	Prefecture string
	Grade      int
	Err        error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Grade != 0 && e.Prefecture != "":
		return fmt.Sprintf("%s: %v (prefecture %s, grade %d)", e.Op, e.Err, e.Prefecture, e.Grade)
	case e.Grade != 0:
		return fmt.Sprintf("%s: %v (grade %d)", e.Op, e.Err, e.Grade)
	case e.Prefecture != "":
		return fmt.Sprintf("%s: %v (prefecture %s)", e.Op, e.Err, e.Prefecture)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
