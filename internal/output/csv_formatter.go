package output

import (
	"github.com/gocarina/gocsv"

	"github.com/shaho/insurance-calculator/internal/domain"
)

// CSVFormatter writes one row per employee and month, headed by the csv tags
// of domain.ReportRow.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string      { return "csv" }
func (c CSVFormatter) Extension() string { return "csv" }

func (c CSVFormatter) Format(report *domain.Report) ([]byte, error) {
	rows := report.Rows
	if rows == nil {
		rows = []domain.ReportRow{}
	}
	return gocsv.MarshalBytes(rows)
}
