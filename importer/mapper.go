package importer

import (
	"fmt"
	"time"

	"gopunch/internal/timeutil"
)

// Row is one mapped source row: one or more punches of an employee on a
// work date.
type Row struct {
	RowNumber  int
	EmployeeID string
	WorkDate   time.Time
	Punches    []timeutil.TimeOfDay
	Schedule   string
}

type Mapper interface {
	Name() string
	Map(record Record, sourceFormat, sourceFile string) (*Row, bool, error)
}

func SupportedMapperNames() []string {
	return []string{"sheet", "punchlog"}
}

func MapperByName(name string) (Mapper, error) {
	switch normalizeHeader(name) {
	case "sheet":
		return &SheetMapper{}, nil
	case "punchlog":
		return &PunchLogMapper{}, nil
	default:
		return nil, fmt.Errorf("unsupported mapper: %s", name)
	}
}

var (
	employeeHeaders = []string{"employee_id", "employee", "emp_id", "user_id", "ma_nv", "mã nv", "ma nhan vien", "mã nhân viên"}
	dateHeaders     = []string{"work_date", "date", "ngay", "ngày", "ngay cong", "ngày công"}
	scheduleHeaders = []string{"schedule", "schedule_name", "lich", "lịch", "ca lam viec", "ca làm việc"}
)

// slotHeaders lists the header aliases of each of the six slots.
var slotHeaders = [6][]string{
	{"in_1", "vao_1", "vào 1", "check_in_1"},
	{"out_1", "ra_1", "ra 1", "check_out_1"},
	{"in_2", "vao_2", "vào 2", "check_in_2"},
	{"out_2", "ra_2", "ra 2", "check_out_2"},
	{"in_3", "vao_3", "vào 3", "check_in_3"},
	{"out_3", "ra_3", "ra 3", "check_out_3"},
}
