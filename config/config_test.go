package config

import (
	"strings"
	"testing"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != DefaultDatabasePath {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if len(cfg.Schedules) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(cfg.Schedules))
	}

	schedules, err := cfg.ScheduleList()
	if err != nil {
		t.Fatalf("convert schedules: %v", err)
	}
	office := schedules[0]
	if office.Name != "office" || office.Mode != attendance.ModeAuto {
		t.Fatalf("unexpected office schedule: %+v", office)
	}
	monday := office.ShiftsFor(attendance.DayMonday)
	if len(monday) != 2 || monday[1].Name != "afternoon" {
		t.Fatalf("unexpected monday shifts: %+v", monday)
	}
	if monday[1].InWindowStart != timeutil.Clock(12, 31, 0) {
		t.Fatalf("unexpected afternoon in window start: %s", monday[1].InWindowStart)
	}
	if got := office.ShiftsFor(attendance.DaySunday); len(got) != 0 {
		t.Fatalf("expected no sunday shifts, got %d", len(got))
	}

	night := schedules[1]
	if night.Mode != attendance.ModeFirstLast {
		t.Fatalf("expected first_last mode, got %q", night.Mode)
	}
	if !night.ShiftsFor(attendance.DaySaturday)[0].Overnight() {
		t.Fatalf("expected overnight plant shift")
	}

	holidays, err := cfg.HolidayDates()
	if err != nil {
		t.Fatalf("holiday dates: %v", err)
	}
	if len(holidays) != 4 || timeutil.DateKey(holidays[1]) != "2026-04-30" {
		t.Fatalf("unexpected holidays: %v", holidays)
	}
}

func TestValidateYAMLContent_DefaultsApply(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("rules: []\n"))
	if err != nil {
		t.Fatalf("expected defaults to validate: %v", err)
	}
	if !cfg.Import.AutoArrangeAfterImport {
		t.Fatalf("expected auto arrange after import by default")
	}

	opts, err := cfg.ArrangeOptions()
	if err != nil {
		t.Fatalf("arrange options: %v", err)
	}
	if opts.DefaultMode != attendance.ModeAuto {
		t.Fatalf("unexpected default mode %q", opts.DefaultMode)
	}
	if opts.SpilloverCutoff != timeutil.Clock(12, 0, 0) || opts.OvertimeCap != timeutil.Clock(15, 0, 0) {
		t.Fatalf("unexpected cutoffs: %s %s", opts.SpilloverCutoff, opts.OvertimeCap)
	}
}

func TestValidateYAMLContent_ArrangeOverrides(t *testing.T) {
	t.Parallel()

	content := []byte(`arrange:
  default_mode: "First-Last"
  spillover_cutoff: "10:30"
  overtime_cap: "13:00"
`)
	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}

	opts, err := cfg.ArrangeOptions()
	if err != nil {
		t.Fatalf("arrange options: %v", err)
	}
	if opts.DefaultMode != attendance.ModeFirstLast {
		t.Fatalf("unexpected default mode %q", opts.DefaultMode)
	}
	if opts.SpilloverCutoff != timeutil.Clock(10, 30, 0) || opts.OvertimeCap != timeutil.Clock(13, 0, 0) {
		t.Fatalf("unexpected cutoffs: %s %s", opts.SpilloverCutoff, opts.OvertimeCap)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "unsupported mapper",
			content: `rules:
  - name: "plant"
    mapper: "epm"
    file_template: "plant_*.csv"
    schedule: "night"
`,
			want: "not supported",
		},
		{
			name: "rule without schedule",
			content: `rules:
  - name: "plant"
    mapper: "sheet"
    file_template: "plant_*.csv"
`,
			want: "schedule is required",
		},
		{
			name: "duplicate rule",
			content: `rules:
  - name: "plant"
    file_template: "a.csv"
    schedule: "x"
  - name: "Plant"
    file_template: "b.csv"
    schedule: "x"
`,
			want: "duplicate rule name",
		},
		{
			name: "bad clock",
			content: `schedules:
  - name: "office"
    days:
      mon:
        - name: "day"
          time_in: "eight"
`,
			want: "clock",
		},
		{
			name: "unknown day key",
			content: `schedules:
  - name: "office"
    days:
      someday:
        - name: "day"
          time_in: "08:00"
`,
			want: "unsupported day key",
		},
		{
			name: "duplicate schedule",
			content: `schedules:
  - name: "office"
  - name: "OFFICE"
`,
			want: "duplicate schedule name",
		},
		{
			name: "too many shifts",
			content: `schedules:
  - name: "office"
    days:
      mon:
        - time_in: "01:00"
        - time_in: "02:00"
        - time_in: "03:00"
        - time_in: "04:00"
        - time_in: "05:00"
        - time_in: "06:00"
`,
			want: "max",
		},
		{
			name:    "mysql without dsn",
			content: "database:\n  driver: \"mysql\"\n",
			want:    "DSN",
		},
		{
			name:    "bad log format",
			content: "log:\n  format: \"xml\"\n",
			want:    "Format",
		},
		{
			name:    "bad holiday",
			content: "holidays:\n  - \"someday\"\n",
			want:    "holidays[0]",
		},
		{
			name:    "bad cutoff",
			content: "arrange:\n  spillover_cutoff: \"noon\"\n",
			want:    "SpilloverCutoff",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateYAMLContent([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateYAMLContent_AcceptsSupportedMapperCaseInsensitive(t *testing.T) {
	t.Parallel()

	content := []byte(`rules:
  - name: "plant"
    mapper: "PunchLog"
    file_template: "plant_*.csv"
    schedule: "plant-night"
`)

	if _, err := ValidateYAMLContent(content); err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
}
