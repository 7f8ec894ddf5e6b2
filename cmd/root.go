/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"github.com/spf13/viper"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopunch/config"
	"gopunch/internal/logging"
	"gopunch/storage"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gopunch",
	Short: "Import punch-clock data and arrange punches into shifts.",
	Long: `
**********************************************
*              GO PUNCH GO                   *
**********************************************

This CLI imports attendance punches (Excel, legacy XLS, CSV) into a local SQLite or a MySQL database,
matches each day's punches against the configured shift schedules, labels day and night
shifts, folds overnight exits into the night they belong to, and exports the result.

Supported input formats:
- Excel: .xlsx, .xlsm
- Legacy Excel (terminal exports): .xls
- CSV: .csv, .txt
`,
	Example: `
  # Create configuration file
  gopunch config create

  # Write configured schedules and holidays into the database
  gopunch schedule sync

  # Import a per-day attendance sheet
  gopunch import -i march.xlsx --mapper sheet

  # Import raw device punches with an explicit schedule
  gopunch import -i device-log.csv --mapper punchlog --schedule plant-night

  # Arrange one employee for March without writing labels
  gopunch arrange --from 2026-03-01 --to 2026-03-31 --employee E1001 --dry-run

  # Export arranged records
  gopunch export --mode records --output ./records.xlsx

  # Export per-employee label summary
  gopunch export --mode summary --output ./summary.csv
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.gopunch.yaml, then ./.gopunch.yaml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		_, err := config.LoadAndValidate()
		return err
	}
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	switch cmd.Name() {
	case "import", "arrange", "export", "sync", "serve":
		return true
	default:
		return false
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".gopunch" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gopunch")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: gopunch config create")
	}
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	return storage.Open(cfg.Database.Driver, cfg.Database.Path, cfg.Database.DSN)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}
