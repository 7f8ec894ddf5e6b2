package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const recordsSheet = "Records"

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, rows []RecordRow) error {
	values := make([][]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.values())
	}
	return writeExcel(path, recordsSheet, recordHeaders, values)
}

func writeExcel(path, sheetName string, headers []string, rows [][]string) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := file.SetSheetName(sheet, sheetName); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}

	headerCell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := file.SetSheetRow(sheetName, headerCell, &headers); err != nil {
		return fmt.Errorf("set excel headers: %w", err)
	}
	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := file.SetCellStyle(sheetName, headerCell, lastHeader, style); err != nil {
		return fmt.Errorf("style excel headers: %w", err)
	}

	for i, values := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := file.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("set excel row %d: %w", i+2, err)
		}
	}

	if err := file.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze excel header: %w", err)
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
