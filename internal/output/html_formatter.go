package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/shaho/insurance-calculator/internal/domain"
)

// HTMLFormatter produces a printable HTML table of the report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string      { return "html" }
func (h HTMLFormatter) Extension() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"yen":  FormatYen,
	"flag": FormatFlag,
	"rowClass": func(r domain.ReportRow) string {
		switch {
		case r.PremiumExempt:
			return "exempt"
		case !r.HealthInsurance && !r.NursingInsurance && !r.PensionInsurance:
			return "excluded"
		}
		return ""
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
