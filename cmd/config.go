package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gopunch configuration file values.",
	Long: `Create, edit, display, and delete the gopunch configuration file.

The configuration stores application-wide values, shift schedules and import rules:
- database.driver / database.path / database.dsn
- log.level / log.format
- import.default_schedule / import.auto_arrange_after_import
- arrange.default_mode / arrange.spillover_cutoff / arrange.overtime_cap
- schedules[].name / mode / days.<mon..sun|holiday>[] shifts
- holidays[]
- rules[].name / mapper / file_template / schedule`,
	Example: `
  # Create default config in $HOME/.gopunch.yaml
  gopunch config create

  # Show active config and source file
  gopunch config show

  # Open active config in editor (creates example if missing)
  gopunch config edit

  # Delete active config file
  gopunch config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
