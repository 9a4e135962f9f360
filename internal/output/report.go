package output

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shaho/insurance-calculator/internal/domain"
)

// GenerateReport writes the report in the named format into dir and returns
// the files written. "all" writes every registered format.
func GenerateReport(report *domain.Report, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, f := range builtInFormatters {
			name, err := WriteFormatted(f, report, dir)
			if err != nil {
				return files, err
			}
			files = append(files, name)
		}
		return files, nil
	}
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	name, err := WriteFormatted(f, report, dir)
	if err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// SaveRoster writes employees back out as a roster-shaped YAML document, e.g.
// after grades were derived.
func SaveRoster(employees []domain.Employee, filename string) error {
	b, err := yaml.Marshal(struct {
		Employees []domain.Employee `yaml:"employees"`
	}{employees})
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
