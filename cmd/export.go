package cmd

import (
	"fmt"
	"gopunch/arrange"
	"gopunch/attendance"
	"gopunch/config"
	"gopunch/output"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	exportFormat    string
	exportMode      string
	exportOutput    string
	exportFrom      string
	exportTo        string
	exportEmployees []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export arranged punch records to CSV/Excel",
	Long: `Arrange the selected punch records without writing labels and export the result.

Modes:
- records: one row per employee and day with day key, the six arranged punch slots,
  schedule and shift label
- summary: per-employee counts of day-shift, night-shift and unmatched days

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export arranged records to Excel
  gopunch export --mode records --output ./records.xlsx

  # Export March summary to CSV
  gopunch export --mode summary --from 2026-03-01 --to 2026-03-31 --output ./summary.csv

  # Force Excel format independent of extension
  gopunch export --mode records --format excel --output ./records.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		filter, err := buildArrangeFilter(exportFrom, exportTo, exportEmployees)
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
		opts.DryRun = true

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		result, err := arrange.Run(ctx, store, filter, opts)
		if err != nil {
			return err
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "records":
			holidays := attendance.NewHolidaySet()
			if len(result.Records) > 0 {
				from, to := recordSpan(result.Records)
				holidays, err = store.HolidayDates(ctx, from, to)
				if err != nil {
					return err
				}
			}

			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			rows := output.NewRecordRows(result.Records, holidays)
			if err := writer.Write(exportOutput, rows); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: records, Format: %s, File: %s\n", len(rows), format, exportOutput)
		case "summary":
			summaries := output.BuildLabelSummaries(result.Records)
			if err := output.WriteLabelSummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Employees: %d, Mode: summary, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: records, summary)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "csv"
	}
}

func recordSpan(records []attendance.Record) (from, to time.Time) {
	for i, record := range records {
		if i == 0 || record.WorkDate.Before(from) {
			from = record.WorkDate
		}
		if i == 0 || record.WorkDate.After(to) {
			to = record.WorkDate
		}
	}
	return from, to
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "records", "Export mode: records|summary")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First work date to export (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Last work date to export (YYYY-MM-DD)")
	exportCmd.Flags().StringArrayVarP(&exportEmployees, "employee", "e", nil, "Employee ID to export (repeatable)")

	_ = exportCmd.MarkFlagRequired("output")
}
