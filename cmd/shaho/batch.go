package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaho/insurance-calculator/internal/config"
	"github.com/shaho/insurance-calculator/internal/output"
)

func (a *app) batchCmd() *cobra.Command {
	var (
		format      string
		outputDir   string
		writeGrades string
	)
	cmd := &cobra.Command{
		Use:   "batch [roster-file]",
		Short: "Evaluate every employee of a roster over its period and write a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if roster.From == "" {
				return fmt.Errorf("roster %s: from is required for a batch run", args[0])
			}
			first, last, err := roster.Period()
			if err != nil {
				return err
			}
			headcount := roster.Headcount
			if headcount == 0 {
				headcount = a.settings.DefaultHeadcount
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}
			report, err := engine.BatchEvaluate(roster.Employees, first, last, headcount)
			if err != nil {
				return err
			}

			if outputDir == "" {
				f := output.GetFormatterByName(format)
				if f == nil {
					return fmt.Errorf("%w: %s", output.ErrUnsupportedFormat, format)
				}
				data, err := f.Format(report)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				if err != nil {
					return err
				}
			} else {
				files, err := output.GenerateReport(report, format, outputDir)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(cmd.ErrOrStderr(), "wrote", f)
				}
			}

			if writeGrades != "" {
				if err := output.SaveRoster(withGrades(roster.Employees, report), writeGrades); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "report format: console, csv, html, json (or all with --output)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for report files (default: write to stdout)")
	cmd.Flags().StringVar(&writeGrades, "write-grades", "", "save the employees with their resolved grades to this YAML file")
	return cmd
}
