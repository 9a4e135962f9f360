package main

import (
	"fmt"
	"log"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/shaho/insurance-calculator/internal/calculation"
	"github.com/shaho/insurance-calculator/internal/config"
	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/internal/ratetable"
)

// app carries the settings and flags shared by every subcommand.
type app struct {
	settings config.Settings

	tablesPath string
	gradeCSV   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "shaho",
		Short:         "Social insurance eligibility and premium calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			a.settings = settings
			if a.tablesPath == "" {
				a.tablesPath = settings.RateTables
			}
			if a.gradeCSV == "" {
				a.gradeCSV = settings.GradeCSV
			}
			if a.logLevel == "" {
				a.logLevel = settings.LogLevel
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.tablesPath, "tables", "", "rate table YAML file (default: embedded FY2025 tables, or SHAHO_RATE_TABLES)")
	root.PersistentFlags().StringVar(&a.gradeCSV, "grade-csv", "", "CSV of prefecture grade rows merged into the tables (or SHAHO_GRADE_CSV)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (or SHAHO_LOG_LEVEL)")

	root.AddCommand(
		a.eligibilityCmd(),
		a.premiumCmd(),
		a.bonusCmd(),
		a.gradeCmd(),
		a.combinationCmd(),
		a.batchCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) logger() calculation.Logger {
	return calculation.StdLogger{
		Out:   log.New(os.Stderr, "shaho ", log.LstdFlags),
		Level: calculation.ParseLevel(a.logLevel),
	}
}

// loadTables returns the embedded tables unless a table file or grade CSV
// was configured.
func (a *app) loadTables() (*ratetable.Tables, error) {
	if a.tablesPath == "" && a.gradeCSV == "" {
		return ratetable.Default()
	}

	loader := ratetable.NewLoader()
	var (
		doc *domain.RateTableDocument
		err error
	)
	if a.tablesPath != "" {
		doc, err = loader.LoadFromFile(a.tablesPath)
	} else {
		doc, err = loader.DefaultDocument()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rate tables: %w", err)
	}
	if a.gradeCSV != "" {
		if err := loader.MergeGradeCSV(doc, a.gradeCSV); err != nil {
			return nil, fmt.Errorf("failed to merge grade CSV: %w", err)
		}
	}
	return ratetable.New(doc)
}

func (a *app) engine() (*calculation.Engine, error) {
	tables, err := a.loadTables()
	if err != nil {
		return nil, err
	}
	e := calculation.NewEngine(tables)
	e.SetLogger(a.logger())
	return e, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
