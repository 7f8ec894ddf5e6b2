package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"gopunch/arrange"
	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

const (
	KeyDatabaseDriver          = "database.driver"
	KeyDatabasePath            = "database.path"
	KeyDatabaseDSN             = "database.dsn"
	KeyLogLevel                = "log.level"
	KeyLogFormat               = "log.format"
	KeyImportDefaultSchedule   = "import.default_schedule"
	KeyImportAutoArrangeAfter  = "import.auto_arrange_after_import"
	KeyArrangeDefaultMode      = "arrange.default_mode"
	KeyArrangeSpilloverCutoff  = "arrange.spillover_cutoff"
	KeyArrangeOvertimeCap      = "arrange.overtime_cap"
	KeySchedules               = "schedules"
	KeyHolidays                = "holidays"
	KeyRules                   = "rules"
	DefaultDatabasePath        = "gopunch.db"
	defaultSpilloverCutoffText = "12:00:00"
	defaultOvertimeCapText     = "15:00:00"
)

type Config struct {
	Database  DatabaseConfig   `mapstructure:"database"`
	Log       LogConfig        `mapstructure:"log"`
	Import    ImportConfig     `mapstructure:"import"`
	Arrange   ArrangeConfig    `mapstructure:"arrange"`
	Schedules []ScheduleConfig `mapstructure:"schedules" validate:"dive"`
	Holidays  []string         `mapstructure:"holidays"`
	Rules     []Rule           `mapstructure:"rules" validate:"dive"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite mysql"`
	Path   string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required_if=Driver mysql"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type ImportConfig struct {
	DefaultSchedule        string `mapstructure:"default_schedule"`
	AutoArrangeAfterImport bool   `mapstructure:"auto_arrange_after_import"`
}

type ArrangeConfig struct {
	DefaultMode     string `mapstructure:"default_mode" validate:"oneof=auto device first_last"`
	SpilloverCutoff string `mapstructure:"spillover_cutoff" validate:"clock"`
	OvertimeCap     string `mapstructure:"overtime_cap" validate:"clock"`
}

type ScheduleConfig struct {
	Name string                   `mapstructure:"name" validate:"required"`
	Mode string                   `mapstructure:"mode" validate:"omitempty,oneof=auto device first_last"`
	Days map[string][]ShiftConfig `mapstructure:"days" validate:"dive,max=5,dive"`
}

// ShiftConfig holds clock strings ("HH:MM[:SS]"); empty means unset.
type ShiftConfig struct {
	Name           string `mapstructure:"name"`
	TimeIn         string `mapstructure:"time_in" validate:"omitempty,clock"`
	TimeOut        string `mapstructure:"time_out" validate:"omitempty,clock"`
	InWindowStart  string `mapstructure:"in_window_start" validate:"omitempty,clock"`
	InWindowEnd    string `mapstructure:"in_window_end" validate:"omitempty,clock"`
	OutWindowStart string `mapstructure:"out_window_start" validate:"omitempty,clock"`
	OutWindowEnd   string `mapstructure:"out_window_end" validate:"omitempty,clock"`
}

// Rule assigns a schedule to rows imported from files matching FileTemplate.
type Rule struct {
	Name         string `mapstructure:"name"`
	Mapper       string `mapstructure:"mapper"`
	FileTemplate string `mapstructure:"file_template"`
	Schedule     string `mapstructure:"schedule"`
}

// SupportedMappers lists the import mapper names rules may reference.
var SupportedMappers = []string{"sheet", "punchlog"}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# gopunch configuration
database:
  driver: "sqlite"
  path: "gopunch.db"
  # dsn: "user:password@tcp(127.0.0.1:3306)/attendance"

log:
  level: "info"
  format: "console"

import:
  default_schedule: "office"
  auto_arrange_after_import: true

arrange:
  default_mode: "auto"
  spillover_cutoff: "12:00:00"
  overtime_cap: "15:00:00"

schedules:
  - name: "office"
    mode: "auto"
    days:
      mon: &office_day
        - name: "morning"
          time_in: "08:00"
          time_out: "12:00"
          in_window_start: "07:00"
          in_window_end: "09:00"
          out_window_start: "11:30"
          out_window_end: "12:30"
        - name: "afternoon"
          time_in: "13:00"
          time_out: "17:00"
          in_window_start: "12:31"
          in_window_end: "14:00"
          out_window_start: "16:30"
          out_window_end: "18:00"
      tue: *office_day
      wed: *office_day
      thu: *office_day
      fri: *office_day
  - name: "plant-night"
    mode: "first_last"
    days:
      mon: &night
        - name: "night"
          time_in: "22:00"
          time_out: "06:00"
          in_window_start: "21:00"
          in_window_end: "23:30"
          out_window_start: "05:00"
          out_window_end: "07:00"
      tue: *night
      wed: *night
      thu: *night
      fri: *night
      sat: *night

holidays:
  - "2026-01-01"
  - "2026-04-30"
  - "2026-05-01"
  - "2026-09-02"

rules: []
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	normalize(&cfg)

	validate, err := newValidator()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSchedules(cfg.Schedules); err != nil {
		return nil, err
	}
	if err := validateHolidays(cfg.Holidays); err != nil {
		return nil, err
	}
	if err := validateRules(cfg.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabaseDriver, "sqlite")
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyDatabaseDSN, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyImportDefaultSchedule, "")
	v.SetDefault(KeyImportAutoArrangeAfter, true)
	v.SetDefault(KeyArrangeDefaultMode, string(attendance.ModeAuto))
	v.SetDefault(KeyArrangeSpilloverCutoff, defaultSpilloverCutoffText)
	v.SetDefault(KeyArrangeOvertimeCap, defaultOvertimeCapText)
	v.SetDefault(KeySchedules, []map[string]any{})
	v.SetDefault(KeyHolidays, []string{})
	v.SetDefault(KeyRules, []map[string]any{})
}

func normalize(cfg *Config) {
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Arrange.DefaultMode = normalizeMode(cfg.Arrange.DefaultMode)
	for i := range cfg.Schedules {
		cfg.Schedules[i].Mode = normalizeMode(cfg.Schedules[i].Mode)
	}
}

func normalizeMode(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	mode, err := attendance.ParseMatchMode(value)
	if err != nil {
		return value
	}
	return string(mode)
}

func newValidator() (*validator.Validate, error) {
	validate := validator.New()
	err := validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := timeutil.ParseClock(fl.Field().String())
		return err == nil
	})
	if err != nil {
		return nil, fmt.Errorf("register clock validation: %w", err)
	}
	return validate, nil
}

func validateSchedules(schedules []ScheduleConfig) error {
	seen := make(map[string]struct{}, len(schedules))
	for i, schedule := range schedules {
		key := strings.ToLower(strings.TrimSpace(schedule.Name))
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate schedule name %q", schedule.Name)
		}
		seen[key] = struct{}{}

		for day := range schedule.Days {
			if _, err := attendance.ParseDayKey(day); err != nil {
				return fmt.Errorf("validation failed: schedules[%d].days: %w", i, err)
			}
		}
	}
	return nil
}

func validateHolidays(holidays []string) error {
	for i, holiday := range holidays {
		if _, err := timeutil.ParseDate(holiday); err != nil {
			return fmt.Errorf("validation failed: holidays[%d]: %w", i, err)
		}
	}
	return nil
}

func validateRules(rules []Rule) error {
	validMappers := make(map[string]bool, len(SupportedMappers))
	for _, mapper := range SupportedMappers {
		validMappers[mapper] = true
	}
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return fmt.Errorf("validation failed: rules[%d].name is required", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate rule name %q", name)
		}
		seen[key] = struct{}{}
		mapper := strings.ToLower(strings.TrimSpace(rule.Mapper))
		if mapper != "" && !validMappers[mapper] {
			return fmt.Errorf(
				"validation failed: rules[%d].mapper %q is not supported (valid: %s)",
				i,
				rule.Mapper,
				strings.Join(SupportedMappers, ", "),
			)
		}
		if strings.TrimSpace(rule.FileTemplate) == "" {
			return fmt.Errorf("validation failed: rules[%d].file_template is required", i)
		}
		if strings.TrimSpace(rule.Schedule) == "" {
			return fmt.Errorf("validation failed: rules[%d].schedule is required", i)
		}
	}
	return nil
}

// ArrangeOptions converts the arrange section into engine options.
func (c Config) ArrangeOptions() (arrange.Options, error) {
	opts := arrange.DefaultOptions()
	if c.Arrange.DefaultMode != "" {
		mode, err := attendance.ParseMatchMode(c.Arrange.DefaultMode)
		if err != nil {
			return arrange.Options{}, err
		}
		opts.DefaultMode = mode
	}
	if c.Arrange.SpilloverCutoff != "" {
		cutoff, err := timeutil.ParseClock(c.Arrange.SpilloverCutoff)
		if err != nil {
			return arrange.Options{}, fmt.Errorf("arrange.spillover_cutoff: %w", err)
		}
		opts.SpilloverCutoff = cutoff
	}
	if c.Arrange.OvertimeCap != "" {
		overtimeCap, err := timeutil.ParseClock(c.Arrange.OvertimeCap)
		if err != nil {
			return arrange.Options{}, fmt.Errorf("arrange.overtime_cap: %w", err)
		}
		opts.OvertimeCap = overtimeCap
	}
	return opts, nil
}

// ScheduleList converts the configured schedules into engine schedules.
func (c Config) ScheduleList() ([]attendance.Schedule, error) {
	out := make([]attendance.Schedule, 0, len(c.Schedules))
	for _, sc := range c.Schedules {
		schedule := attendance.Schedule{
			Name: strings.TrimSpace(sc.Name),
			Mode: attendance.ModeAuto,
			Days: make(map[attendance.DayKey][]attendance.Shift, len(sc.Days)),
		}
		if sc.Mode != "" {
			mode, err := attendance.ParseMatchMode(sc.Mode)
			if err != nil {
				return nil, fmt.Errorf("schedule %q: %w", sc.Name, err)
			}
			schedule.Mode = mode
		}
		for dayRaw, shiftConfigs := range sc.Days {
			day, err := attendance.ParseDayKey(dayRaw)
			if err != nil {
				return nil, fmt.Errorf("schedule %q: %w", sc.Name, err)
			}
			shifts := make([]attendance.Shift, 0, len(shiftConfigs))
			for _, shiftConfig := range shiftConfigs {
				shifts = append(shifts, shiftConfig.toShift())
			}
			schedule.Days[day] = shifts
		}
		out = append(out, schedule)
	}
	return out, nil
}

func (s ShiftConfig) toShift() attendance.Shift {
	return attendance.Shift{
		Name:           strings.TrimSpace(s.Name),
		TimeIn:         timeutil.ToSeconds(s.TimeIn),
		TimeOut:        timeutil.ToSeconds(s.TimeOut),
		InWindowStart:  timeutil.ToSeconds(s.InWindowStart),
		InWindowEnd:    timeutil.ToSeconds(s.InWindowEnd),
		OutWindowStart: timeutil.ToSeconds(s.OutWindowStart),
		OutWindowEnd:   timeutil.ToSeconds(s.OutWindowEnd),
	}
}

// HolidayDates parses the configured holiday list.
func (c Config) HolidayDates() ([]time.Time, error) {
	out := make([]time.Time, 0, len(c.Holidays))
	for _, raw := range c.Holidays {
		date, err := timeutil.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", raw, err)
		}
		out = append(out, date)
	}
	return out, nil
}
