package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"os"
)

var configDeleteYes bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by gopunch.

Schedules and holidays already written with "schedule sync" stay in the database.
Unless --yes is given, an interactive prompt requires typing exactly "Y".
If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config
  gopunch config delete

  # Delete config at a custom path without prompting
  gopunch --configFile ./custom-gopunch.yaml config delete --yes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if err := deleteConfigFile(configPath, configDeleteYes, deletePromptInput, deletePromptOutput); err != nil {
			return err
		}

		fmt.Printf("Configuration file successfully deleted: %s\n", configPath)
		return nil
	},
}

func deleteConfigFile(path string, skipConfirm bool, input io.Reader, output io.Writer) error {
	if path == "" {
		return fmt.Errorf("no configuration file found")
	}

	if !skipConfirm {
		confirmed, err := confirmDeletePrompt(input, output, fmt.Sprintf("configuration file %q", path))
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("error deleting configuration file: %w", err)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVarP(&configDeleteYes, "yes", "y", false, "Delete without the confirmation prompt")
}
