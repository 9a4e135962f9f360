package domain

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/shaho/insurance-calculator/pkg/dateutil"
)

// Date is a calendar day read from JSON. Form input sends "2006-01-02";
// full RFC 3339 timestamps are accepted as well.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := dateutil.ParseDate(s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

func (d *Date) timePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// UnmarshalJSON decodes an employee, accepting plain dates for every date
// field.
func (e *Employee) UnmarshalJSON(data []byte) error {
	type plain Employee
	aux := struct {
		*plain
		BirthDate         *Date  `json:"birth_date,omitempty"`
		StartDate         *Date  `json:"start_date,omitempty"`
		EndDate           *Date  `json:"end_date,omitempty"`
		LeaveStartDate    *Date  `json:"leave_start_date,omitempty"`
		LeaveEndDate      *Date  `json:"leave_end_date,omitempty"`
		BonusPaymentDates []Date `json:"bonus_payment_dates,omitempty"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	e.BirthDate = aux.BirthDate.timePtr()
	e.StartDate = aux.StartDate.timePtr()
	e.EndDate = aux.EndDate.timePtr()
	e.LeaveStartDate = aux.LeaveStartDate.timePtr()
	e.LeaveEndDate = aux.LeaveEndDate.timePtr()
	e.BonusPaymentDates = nil
	for _, d := range aux.BonusPaymentDates {
		if !d.IsZero() {
			e.BonusPaymentDates = append(e.BonusPaymentDates, d.Time)
		}
	}
	return nil
}
