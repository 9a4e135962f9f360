package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/shaho/insurance-calculator/internal/calculation"
	"github.com/shaho/insurance-calculator/internal/config"
	"github.com/shaho/insurance-calculator/internal/domain"
	"github.com/shaho/insurance-calculator/internal/ratetable"
	"github.com/shaho/insurance-calculator/pkg/dateutil"
	money "github.com/shaho/insurance-calculator/pkg/decimal"
)

func (a *app) eligibilityCmd() *cobra.Command {
	var (
		month      string
		headcount  int
		prefecture string
		derive     bool
	)
	cmd := &cobra.Command{
		Use:   "eligibility [employee-file]",
		Short: "Evaluate one employee's insurance eligibility for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := dateutil.ParseYearMonth(month)
			if err != nil {
				return fmt.Errorf("--month: %w", err)
			}
			emp, err := config.NewInputParser().LoadEmployee(args[0], prefecture)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("headcount") {
				headcount = a.settings.DefaultHeadcount
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}
			if derive {
				out, err := engine.Derive(calculation.DeriveInput{
					Employee:    *emp,
					TargetYear:  ym.Year,
					TargetMonth: ym.Month,
					Headcount:   headcount,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, out)
			}
			return printJSON(cmd, engine.Evaluate(emp, ym.Year, ym.Month, headcount))
		},
	}
	cmd.Flags().StringVar(&month, "month", calculation.CurrentMonth().String(), "target month (YYYY-MM)")
	cmd.Flags().IntVar(&headcount, "headcount", 0, "employer headcount (default SHAHO_DEFAULT_HEADCOUNT)")
	cmd.Flags().StringVar(&prefecture, "prefecture", "", "prefecture used when the record names none")
	cmd.Flags().BoolVar(&derive, "derive", false, "also resolve grades and premiums for the month")
	return cmd
}

func (a *app) premiumCmd() *cobra.Command {
	var in calculation.PremiumInput
	cmd := &cobra.Command{
		Use:   "premium",
		Short: "Calculate the monthly premium split for a grade",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			in.Prefecture = ratetable.NormalizePrefecture(in.Prefecture)
			p, err := engine.Calculate(in)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("premium cannot be calculated without a grade and prefecture")
			}
			return printJSON(cmd, p)
		},
	}
	cmd.Flags().StringVar(&in.Prefecture, "prefecture", "", "prefecture name")
	cmd.Flags().IntVar(&in.Grade, "grade", 0, "health insurance grade (1-50)")
	cmd.Flags().IntVar(&in.PensionGrade, "pension-grade", 0, "pension grade (default: paired with --grade)")
	cmd.Flags().IntVar(&in.Age, "age", 0, "age in the target month (0 when unknown)")
	cmd.Flags().BoolVar(&in.HasChildren, "has-children", false, "employee has dependent children")
	return cmd
}

func (a *app) bonusCmd() *cobra.Command {
	var (
		in            calculation.BonusInput
		amount, prior string
	)
	cmd := &cobra.Command{
		Use:   "bonus",
		Short: "Calculate the premium split for one bonus payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.BonusAmount, err = decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			if in.AnnualHealthBonusTotal, err = decimal.NewFromString(prior); err != nil {
				return fmt.Errorf("--prior: %w", err)
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			in.Prefecture = ratetable.NormalizePrefecture(in.Prefecture)
			r, err := engine.CalculateBonus(in)
			if err != nil {
				return err
			}
			if r == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not assessed as a bonus")
				return nil
			}
			return printJSON(cmd, r)
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "0", "bonus amount in yen")
	cmd.Flags().StringVar(&prior, "prior", "0", "standard bonus total already assessed for health this fiscal year")
	cmd.Flags().StringVar(&in.Prefecture, "prefecture", "", "prefecture name")
	cmd.Flags().IntVar(&in.Age, "age", 0, "age in the payment month (0 when unknown)")
	cmd.Flags().IntVar(&in.BonusCount, "count", 1, "bonuses paid this year including this one")
	cmd.Flags().IntVar(&in.FiscalYear, "fiscal-year", 0, "fiscal year of the bonus rates (default: latest)")
	return cmd
}

func (a *app) gradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grade [wage]",
		Short: "Resolve the health and pension grades for a monthly wage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wage, err := money.NewMoneyFromString(args[0])
			if err != nil || wage.IsNegative() {
				return fmt.Errorf("wage must be a non-negative number, got %q", args[0])
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			health := engine.ResolveGrade(wage.Decimal)
			pension, _ := calculation.PensionGradeFor(health)
			fmt.Fprintf(cmd.OutOrStdout(), "health grade %d, pension grade %d\n", health, pension)
			return nil
		},
	}
}

func (a *app) combinationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "combination [health-grade] [pension-grade]",
		Short: "Check whether a health and pension grade form an official pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("health grade: %w", err)
			}
			pension, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("pension grade: %w", err)
			}
			if err := calculation.ValidateGradePair(health, pension); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "health grade %d with pension grade %d is valid\n", health, pension)
			return nil
		},
	}
}

// withGrades returns the roster employees with the grades of their last
// calculated row filled in, for re-use as the next batch input.
func withGrades(employees []domain.Employee, report *domain.Report) []domain.Employee {
	out := append([]domain.Employee(nil), employees...)
	index := make(map[string]int, len(out))
	for i, emp := range out {
		index[emp.ID] = i
	}
	for _, row := range report.Rows {
		i, ok := index[row.EmployeeID]
		if !ok || row.HealthGrade == 0 || !calculation.CheckCombination(row.HealthGrade, row.PensionGrade) {
			continue
		}
		out[i].HealthGrade = row.HealthGrade
		out[i].PensionGrade = row.PensionGrade
	}
	return out
}
