package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopunch/attendance"
	"gopunch/config"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	PunchesDropped int
	Records        []attendance.Record
}

type RunOptions struct {
	// Schedule applies to rows without a schedule column, ahead of rules
	// and import.default_schedule.
	Schedule string
}

// Run reads every path, maps its rows and merges them into one record per
// employee and work date.
func Run(paths []string, format string, mapper Mapper, cfg config.Config, options RunOptions) (*Result, error) {
	result := &Result{Records: []attendance.Record{}}
	mapperName := mapper.Name()
	rows := make([]Row, 0, 256)

	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		fileSchedule := resolveScheduleForFile(path, mapperName, cfg, options)

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			row, ok, mapErr := mapper.Map(record, sourceFormat, path)
			if mapErr != nil {
				return nil, fmt.Errorf("%s: %w", filepath.Base(path), mapErr)
			}
			if !ok || row == nil {
				result.RowsSkipped++
				continue
			}

			result.RowsMapped++
			if row.Schedule == "" {
				row.Schedule = fileSchedule
			}
			rows = append(rows, *row)
		}
	}

	result.Records, result.PunchesDropped = mergeRows(rows)
	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv", "txt":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	case "xls":
		return "xls", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

func resolveScheduleForFile(path, mapperName string, cfg config.Config, options RunOptions) string {
	if schedule := strings.TrimSpace(options.Schedule); schedule != "" {
		return schedule
	}
	if rule := MatchRuleByTemplate(path, mapperName, cfg.Rules); rule.Schedule != "" {
		return strings.TrimSpace(rule.Schedule)
	}
	return strings.TrimSpace(cfg.Import.DefaultSchedule)
}

// MatchRuleByTemplate returns the first rule whose file template matches the
// base name or the full path. Rules naming a different mapper are skipped.
func MatchRuleByTemplate(path, mapperName string, rules []config.Rule) config.Rule {
	baseName := filepath.Base(path)
	for _, rule := range rules {
		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			continue
		}
		if ruleMapper := strings.TrimSpace(rule.Mapper); ruleMapper != "" && !strings.EqualFold(ruleMapper, mapperName) {
			continue
		}
		matchesBase, err := filepath.Match(template, baseName)
		if err == nil && matchesBase {
			return rule
		}
		matchesFull, err := filepath.Match(template, path)
		if err == nil && matchesFull {
			return rule
		}
	}
	return config.Rule{}
}

// SourceLabel names the imported files for the stored source_file column.
func SourceLabel(paths []string) string {
	switch len(paths) {
	case 0:
		return ""
	case 1:
		return filepath.Base(paths[0])
	default:
		return fmt.Sprintf("%s (+%d more)", filepath.Base(paths[0]), len(paths)-1)
	}
}
