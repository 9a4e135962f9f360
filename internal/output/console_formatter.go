package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/shaho/insurance-calculator/internal/domain"
)

// ConsoleFormatter renders the report as an aligned text table.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "SOCIAL INSURANCE REPORT")
	fmt.Fprintln(&buf, "================================")
	if report.Tables != "" {
		fmt.Fprintf(&buf, "Rate tables: %s\n", report.Tables)
	}
	fmt.Fprintf(&buf, "Period: %s to %s  Headcount: %d\n", report.FirstMonth, report.LastMonth, report.Headcount)
	fmt.Fprintf(&buf, "Rows: %d  Insured: %d\n\n", len(report.Rows), report.InsuredCount())

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMonth\tHealth\tNursing\tPension\tGrade\tEmployee\tEmployer\tLevy\tReason")
	for _, r := range report.Rows {
		reason := r.Reason
		if r.PremiumExempt {
			reason += " [exempt]"
		}
		if r.Note != "" {
			reason += " (" + r.Note + ")"
		}
		grade := "-"
		if r.HealthGrade > 0 {
			grade = fmt.Sprintf("%d/%d", r.HealthGrade, r.PensionGrade)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.EmployeeID, r.Month,
			FormatFlag(r.HealthInsurance), FormatFlag(r.NursingInsurance), FormatFlag(r.PensionInsurance),
			grade,
			FormatYen(r.EmployeeTotal), FormatYen(r.EmployerTotal), FormatYen(r.ChildSupportLevy),
			reason)
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
