package cmd

import (
	"fmt"
	"gopunch/attendance"
	"gopunch/config"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage shift schedules and holidays in the database.",
	Long: `Schedules and holidays are maintained in the configuration file and written into the
database with "schedule sync", where import and arrange look them up by name.`,
	Example: `
  # Write configured schedules and holidays into the database
  gopunch schedule sync

  # Print configured schedules
  gopunch schedule show
`,
}

var scheduleSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Write configured schedules and holidays into the database.",
	Long: `Replace the shifts of every configured schedule in the database and add the configured
holidays. Schedules that exist only in the database are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		schedules, err := cfg.ScheduleList()
		if err != nil {
			return err
		}
		holidays, err := cfg.HolidayDates()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		shifts, err := store.ReplaceSchedules(ctx, schedules)
		if err != nil {
			return err
		}
		added, err := store.AddHolidays(ctx, holidays)
		if err != nil {
			return err
		}

		fmt.Printf("Schedule sync completed. Schedules: %d, Shifts: %d, Holidays added: %d\n", len(schedules), shifts, added)
		return nil
	},
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print configured schedules.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		schedules, err := cfg.ScheduleList()
		if err != nil {
			return err
		}
		return printSchedules(os.Stdout, schedules)
	},
}

func printSchedules(w io.Writer, schedules []attendance.Schedule) error {
	if len(schedules) == 0 {
		_, err := fmt.Fprintln(w, "No schedules configured.")
		return err
	}

	for _, schedule := range schedules {
		if _, err := fmt.Fprintf(w, "%s (mode: %s)\n", schedule.Name, schedule.Mode); err != nil {
			return err
		}
		for _, day := range attendance.AllDayKeys() {
			for i, shift := range schedule.ShiftsFor(day) {
				night := ""
				if shift.Overnight() {
					night = " overnight"
				}
				if _, err := fmt.Fprintf(w, "  %-7s #%d %-12s %s-%s in[%s-%s] out[%s-%s]%s\n",
					day, i+1, shift.Name,
					shift.TimeIn, shift.TimeOut,
					shift.InStart(), shift.InEnd(),
					shift.OutStart(), shift.OutEnd(),
					night,
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleSyncCmd)
	scheduleCmd.AddCommand(scheduleShowCmd)
}
