package cmd

import (
	"fmt"
	"github.com/spf13/viper"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopunch/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  gopunch config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", viper.ConfigFileUsed())
			printConfig(os.Stdout, cfg)
		}
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "database.driver: %s\n", cfg.Database.Driver)
	if cfg.Database.Driver == "mysql" {
		fmt.Fprintf(w, "database.dsn: %s\n", redactDSN(cfg.Database.DSN))
	} else {
		fmt.Fprintf(w, "database.path: %s\n", cfg.Database.Path)
	}
	fmt.Fprintf(w, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "log.format: %s\n", cfg.Log.Format)
	fmt.Fprintf(w, "import.default_schedule: %s\n", cfg.Import.DefaultSchedule)
	fmt.Fprintf(w, "import.auto_arrange_after_import: %t\n", cfg.Import.AutoArrangeAfterImport)
	fmt.Fprintf(w, "arrange.default_mode: %s\n", cfg.Arrange.DefaultMode)
	fmt.Fprintf(w, "arrange.spillover_cutoff: %s\n", cfg.Arrange.SpilloverCutoff)
	fmt.Fprintf(w, "arrange.overtime_cap: %s\n", cfg.Arrange.OvertimeCap)
	fmt.Fprintf(w, "schedules: %d\n", len(cfg.Schedules))
	for i, schedule := range cfg.Schedules {
		fmt.Fprintf(w, "schedules[%d].name: %s\n", i, schedule.Name)
		fmt.Fprintf(w, "schedules[%d].mode: %s\n", i, schedule.Mode)
		fmt.Fprintf(w, "schedules[%d].days: %d\n", i, len(schedule.Days))
	}
	fmt.Fprintf(w, "holidays: %d\n", len(cfg.Holidays))
	fmt.Fprintf(w, "rules: %d\n", len(cfg.Rules))
	for i, rule := range cfg.Rules {
		fmt.Fprintf(w, "rules[%d].name: %s\n", i, rule.Name)
		fmt.Fprintf(w, "rules[%d].mapper: %s\n", i, rule.Mapper)
		fmt.Fprintf(w, "rules[%d].file_template: %s\n", i, rule.FileTemplate)
		fmt.Fprintf(w, "rules[%d].schedule: %s\n", i, rule.Schedule)
	}
}

// redactDSN hides the password part of a user:password@ prefix.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	credentials := dsn[:at]
	colon := strings.Index(credentials, ":")
	if colon < 0 {
		return dsn
	}
	return credentials[:colon] + ":***" + dsn[at:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
