package cmd

import (
	"fmt"
	"gopunch/arrange"
	"gopunch/attendance"
	"gopunch/config"
	"gopunch/importer"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	importInputs      []string
	importFormat      string
	importMapper      string
	importSchedule    string
	importArrangeMode string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/Excel punch data into the attendance database",
	Long: `Read source files, map each row via the selected mapper, merge punches per employee
and day, and upsert the result into the configured database.

Use mapper "sheet" for one row per employee and day with in_1..out_3 columns and mapper
"punchlog" for one row per device punch. When --format is omitted, format is inferred
from each input file extension.

The schedule of each record is taken from, in order:
- a schedule column in the row,
- the --schedule flag,
- the first matching config rule (file_template match),
- import.default_schedule.

Shift labels already stored for a day are kept; re-importing only replaces punches.`,
	Example: `
  # Import one attendance sheet
  gopunch import -i march.xlsx --mapper sheet

  # Import a legacy terminal export
  gopunch import -i terminal.xls --mapper punchlog

  # Import two device logs for the night schedule
  gopunch import -i gate-a.csv -i gate-b.csv --mapper punchlog --schedule plant-night

  # Import without arranging afterwards
  gopunch import -i march.csv --format csv --mapper sheet --arrange off
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		mapper, err := importer.MapperByName(importMapper)
		if err != nil {
			return err
		}

		result, err := importer.Run(importInputs, importFormat, mapper, *cfg, importer.RunOptions{
			Schedule: importSchedule,
		})
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		persisted, err := store.UpsertPunchRecords(ctx, result.Records, importer.SourceLabel(importInputs))
		if err != nil {
			return err
		}

		fmt.Printf("Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Punches dropped: %d, Records persisted: %d\n",
			result.FilesProcessed,
			result.RowsRead,
			result.RowsMapped,
			result.RowsSkipped,
			result.PunchesDropped,
			persisted,
		)

		shouldArrange, err := resolveArrangeMode(importArrangeMode, cfg.Import.AutoArrangeAfterImport)
		if err != nil {
			return err
		}
		if !shouldArrange || len(result.Records) == 0 {
			return nil
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

		arrangeResult, err := arrange.Run(ctx, store, importedFilter(result.Records), opts)
		if err != nil {
			return err
		}
		fmt.Printf("Auto-arrange completed. Records: %d, Employees: %d, Spillovers: %d, Labels changed: %d, Rows updated: %d\n",
			arrangeResult.RecordsProcessed,
			arrangeResult.Employees,
			arrangeResult.Spillovers,
			arrangeResult.LabelsChanged,
			arrangeResult.RowsUpdated,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel|xls (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVarP(&importMapper, "mapper", "m", "sheet", "Mapper to normalize input data: "+strings.Join(importer.SupportedMapperNames(), "|"))
	importCmd.Flags().StringVar(&importSchedule, "schedule", "", "Schedule for rows without a schedule column (overrides matching config rule)")
	importCmd.Flags().StringVar(&importArrangeMode, "arrange", "auto", "Arrange mode after import: auto|on|off")

	_ = importCmd.MarkFlagRequired("input")
}

func resolveArrangeMode(mode string, configDefault bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return configDefault, nil
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid arrange mode %q (supported: auto|on|off)", mode)
	}
}

// importedFilter selects the imported employees over the imported dates.
func importedFilter(records []attendance.Record) attendance.Filter {
	var filter attendance.Filter
	seen := make(map[string]struct{})
	for _, record := range records {
		if filter.From.IsZero() || record.WorkDate.Before(filter.From) {
			filter.From = record.WorkDate
		}
		if record.WorkDate.After(filter.To) {
			filter.To = record.WorkDate
		}
		if _, ok := seen[record.EmployeeID]; ok {
			continue
		}
		seen[record.EmployeeID] = struct{}{}
		filter.EmployeeIDs = append(filter.EmployeeIDs, record.EmployeeID)
	}
	if len(records) == 0 {
		return filter
	}

	sort.Strings(filter.EmployeeIDs)
	return filter
}
