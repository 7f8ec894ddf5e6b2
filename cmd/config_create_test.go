package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"gopunch/attendance"
	"gopunch/config"
)

func TestSaveDefaultConfigCreatesExampleTemplate(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "create-template.yaml")
	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}

	text := string(content)
	if !strings.Contains(text, "# gopunch configuration") {
		t.Fatalf("expected example header in config file, got:\n%s", text)
	}
	if !strings.Contains(text, "database:") || !strings.Contains(text, "driver: \"sqlite\"") {
		t.Fatalf("expected database example in config file, got:\n%s", text)
	}
	if !strings.Contains(text, "schedules:") || !strings.Contains(text, "name: \"plant-night\"") {
		t.Fatalf("expected schedule examples in config file, got:\n%s", text)
	}

	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected created config to validate: %v", err)
	}
	schedules, err := cfg.ScheduleList()
	if err != nil {
		t.Fatalf("schedule list: %v", err)
	}
	var night *attendance.Schedule
	for i := range schedules {
		if schedules[i].Name == "plant-night" {
			night = &schedules[i]
		}
	}
	if night == nil || night.Mode != attendance.ModeFirstLast {
		t.Fatalf("expected first_last plant-night schedule, got %+v", schedules)
	}
	if shifts := night.ShiftsFor(attendance.DayMonday); len(shifts) == 0 || !shifts[0].Overnight() {
		t.Fatalf("expected an overnight monday shift, got %+v", shifts)
	}

	summary, err := describeConfigFile(tmpConfig)
	if err != nil {
		t.Fatalf("describe config: %v", err)
	}
	if !strings.Contains(summary, "Schedules: 2") || !strings.Contains(summary, "plant-night (mode: first_last)") {
		t.Fatalf("unexpected summary:\n%s", summary)
	}
}

func TestDescribeConfigFileRejectsInvalidSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	content := "schedules:\n  - name: \"office\"\n    days:\n      someday:\n        - name: \"day\"\n          time_in: \"08:00\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := describeConfigFile(path); err == nil || !strings.Contains(err.Error(), "unsupported day key") {
		t.Fatalf("expected day key error, got %v", err)
	}
}

func TestSaveDefaultConfigDoesNotOverwriteExistingFile(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "existing.yaml")
	original := "database:\n  driver: \"sqlite\"\n  path: \"custom.db\"\nimport:\n  auto_arrange_after_import: false\n"
	if err := os.WriteFile(tmpConfig, []byte(original), 0o644); err != nil {
		t.Fatalf("failed writing initial config: %v", err)
	}

	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("failed reading existing config after create: %v", err)
	}
	if string(content) != original {
		t.Fatalf("expected existing config to remain unchanged")
	}
}
