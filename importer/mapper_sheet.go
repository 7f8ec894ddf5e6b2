package importer

import (
	"fmt"
)

// SheetMapper maps timesheet rows holding one employee day with up to six
// punch columns.
type SheetMapper struct{}

func (m *SheetMapper) Name() string {
	return "sheet"
}

func (m *SheetMapper) Map(record Record, _, _ string) (*Row, bool, error) {
	employee := record.Get(employeeHeaders...)
	if employee == "" {
		return nil, false, nil
	}

	workDate, err := parseWorkDate(record.Get(dateHeaders...))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse work date: %w", record.RowNumber, err)
	}

	row := &Row{
		RowNumber:  record.RowNumber,
		EmployeeID: employee,
		WorkDate:   workDate,
		Schedule:   record.Get(scheduleHeaders...),
	}
	for _, aliases := range slotHeaders {
		raw := record.Get(aliases...)
		if raw == "" {
			continue
		}
		punch, err := parsePunch(raw)
		if err != nil {
			return nil, false, fmt.Errorf("row %d: parse %s: %w", record.RowNumber, aliases[0], err)
		}
		row.Punches = append(row.Punches, punch)
	}

	return row, true, nil
}
