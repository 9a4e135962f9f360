package decimal

import (
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// Money represents a yen amount. Intermediate values may carry fractional yen
// (official tables publish half-shares such as 2,873.9); amounts charged to
// anyone are whole yen.
type Money struct {
	decimal.Decimal
}

// NewYen creates a Money from a whole yen amount
func NewYen(value int64) Money {
	return Money{decimal.NewFromInt(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// RoundHalfDown applies the payroll deduction rule for the employee side:
// a fraction of 0.50 yen or less is dropped, anything above rounds up.
// It also reports whether the amount was rounded up.
func (m Money) RoundHalfDown() (Money, bool) {
	floor := m.Decimal.Floor()
	frac := m.Decimal.Sub(floor)
	if frac.GreaterThan(half) {
		return Money{floor.Add(decimal.NewFromInt(1))}, true
	}
	return Money{floor}, false
}

// RoundHalfUp rounds to whole yen with halves away from zero.
func (m Money) RoundHalfUp() Money {
	return Money{m.Decimal.Round(0)}
}

// Floor truncates to whole yen.
func (m Money) Floor() Money {
	return Money{m.Decimal.Floor()}
}

// Ceil rounds up to whole yen.
func (m Money) Ceil() Money {
	return Money{m.Decimal.Ceil()}
}

// FloorTo truncates to a multiple of unit (e.g. 1000 for standard bonus amounts).
func (m Money) FloorTo(unit int64) Money {
	u := decimal.NewFromInt(unit)
	return Money{m.Decimal.Div(u).Floor().Mul(u)}
}

// Add adds another Money amount
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another Money amount
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Mul multiplies by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// Half splits a whole-yen total in two, truncating the employee half. The
// odd yen, if any, stays with the remainder.
func (m Money) Half() (employee, remainder Money) {
	employee = Money{m.Decimal.Div(decimal.NewFromInt(2)).Floor()}
	return employee, m.Sub(employee)
}

// GreaterThan checks if this amount is greater than another
func (m Money) GreaterThan(other Money) bool {
	return m.Decimal.GreaterThan(other.Decimal)
}

// GreaterThanOrEqual checks if this amount is greater than or equal to another
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.Decimal.GreaterThanOrEqual(other.Decimal)
}

// LessThan checks if this amount is less than another
func (m Money) LessThan(other Money) bool {
	return m.Decimal.LessThan(other.Decimal)
}

// Equal checks if this amount equals another
func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

// Min returns the minimum of two Money amounts
func Min(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the maximum of two Money amounts
func Max(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the amount without trailing zeros (12883, 2873.9).
func (m Money) String() string {
	return m.Decimal.String()
}
