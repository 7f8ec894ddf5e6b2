package cmd

import (
	"fmt"
	"gopunch/arrange"
	"gopunch/attendance"
	"gopunch/config"
	"gopunch/internal/timeutil"
	"strings"

	"github.com/spf13/cobra"
)

var (
	arrangeFrom      string
	arrangeTo        string
	arrangeEmployees []string
	arrangeDryRun    bool
)

var arrangeCmd = &cobra.Command{
	Use:   "arrange",
	Short: "Match stored punches to shifts and label each day",
	Long: `Load the selected punch records, match them against their schedules and persist the
resulting shift labels (HC for day shifts, Đêm for night shifts).

Morning punches that close the previous night's shift are folded into that night for
matching. Stored punch values are never changed; only labels are written back.
Days just outside --from/--to are read for context but never written.
Run "gopunch schedule sync" after changing schedules or holidays in the config.`,
	Example: `
  # Arrange everything in the database
  gopunch arrange

  # Arrange March for two employees
  gopunch arrange --from 2026-03-01 --to 2026-03-31 --employee E1001 --employee E1002

  # Preview label changes without writing them
  gopunch arrange --dry-run
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		filter, err := buildArrangeFilter(arrangeFrom, arrangeTo, arrangeEmployees)
		if err != nil {
			return err
		}

		opts, err := cfg.ArrangeOptions()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		opts.Logger = logger
		opts.DryRun = arrangeDryRun

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := arrange.Run(cmd.Context(), store, filter, opts)
		if err != nil {
			return err
		}

		mode := "applied"
		if arrangeDryRun {
			mode = "dry-run"
		}
		fmt.Printf("Arrange completed (%s). Records: %d, Employees: %d, Spillovers: %d, Labels changed: %d, Rows updated: %d\n",
			mode,
			result.RecordsProcessed,
			result.Employees,
			result.Spillovers,
			result.LabelsChanged,
			result.RowsUpdated,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(arrangeCmd)

	arrangeCmd.Flags().StringVar(&arrangeFrom, "from", "", "First work date to arrange (YYYY-MM-DD)")
	arrangeCmd.Flags().StringVar(&arrangeTo, "to", "", "Last work date to arrange (YYYY-MM-DD)")
	arrangeCmd.Flags().StringArrayVarP(&arrangeEmployees, "employee", "e", nil, "Employee ID to arrange (repeatable)")
	arrangeCmd.Flags().BoolVar(&arrangeDryRun, "dry-run", false, "Compute labels without persisting them")
}

func buildArrangeFilter(from, to string, employees []string) (attendance.Filter, error) {
	var filter attendance.Filter

	if strings.TrimSpace(from) != "" {
		parsed, err := timeutil.ParseDate(from)
		if err != nil {
			return filter, fmt.Errorf("invalid --from date: %w", err)
		}
		filter.From = parsed
	}
	if strings.TrimSpace(to) != "" {
		parsed, err := timeutil.ParseDate(to)
		if err != nil {
			return filter, fmt.Errorf("invalid --to date: %w", err)
		}
		filter.To = parsed
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, fmt.Errorf("--to %s is before --from %s", to, from)
	}

	for _, employee := range employees {
		if trimmed := strings.TrimSpace(employee); trimmed != "" {
			filter.EmployeeIDs = append(filter.EmployeeIDs, trimmed)
		}
	}
	return filter, nil
}
