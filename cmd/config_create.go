package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gopunch/config"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

The template defines a sqlite database, an office day schedule, a plant night schedule
and a few public holidays. If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.gopunch.yaml
  gopunch config create
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig()
	},
}

func saveDefaultConfig() error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("New config file created at: %s\n", configPath)
		summary, err := describeConfigFile(configPath)
		if err != nil {
			return err
		}
		fmt.Println(summary)
		fmt.Println(`Edit schedules and holidays with "gopunch config edit", then run "gopunch schedule sync".`)
		return nil
	}

	fmt.Printf("Config file already exists at: %s\n", configPath)
	return nil
}

// describeConfigFile validates the file at path and names the schedules it
// would sync.
func describeConfigFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config file: %w", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return "", fmt.Errorf("validate config file %s: %w", path, err)
	}
	schedules, err := cfg.ScheduleList()
	if err != nil {
		return "", err
	}

	summary := fmt.Sprintf("Schedules: %d, Holidays: %d, Rules: %d", len(schedules), len(cfg.Holidays), len(cfg.Rules))
	for _, schedule := range schedules {
		summary += fmt.Sprintf("\n  %s (mode: %s)", schedule.Name, schedule.Mode)
	}
	return summary, nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}
