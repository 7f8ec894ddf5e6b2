package importer

import (
	"fmt"

	"github.com/extrame/xls"
)

// XLSReader reads the first sheet of a legacy BIFF (.xls) workbook, the
// format most punch-clock terminals still export.
type XLSReader struct{}

func (r *XLSReader) Read(path string) ([]Record, error) {
	workbook, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls file %s: %w", path, err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("xls file has no sheets: %s", path)
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("xls file has no readable sheet: %s", path)
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for col := range cells {
			cells[col] = row.Col(col)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || blankRow(rows[0]) {
		return nil, fmt.Errorf("sheet %s is empty", sheet.Name)
	}

	normalizedHeaders := normalizeHeaders(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		records = append(records, recordFromRow(i+2, normalizedHeaders, row))
	}

	return records, nil
}
