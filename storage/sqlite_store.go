package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{`
CREATE TABLE IF NOT EXISTS punch_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id TEXT NOT NULL,
	work_date TEXT NOT NULL,
	in_1 TEXT,
	out_1 TEXT,
	in_2 TEXT,
	out_2 TEXT,
	in_3 TEXT,
	out_3 TEXT,
	schedule_name TEXT NOT NULL DEFAULT '',
	shift_label TEXT NOT NULL DEFAULT '',
	source_file TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(employee_id, work_date)
);`, `
CREATE TABLE IF NOT EXISTS schedules (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	match_mode TEXT NOT NULL DEFAULT 'auto'
);`, `
CREATE TABLE IF NOT EXISTS schedule_shifts (
	schedule_id INTEGER NOT NULL REFERENCES schedules(id),
	day_key TEXT NOT NULL,
	position INTEGER NOT NULL,
	shift_name TEXT NOT NULL DEFAULT '',
	time_in TEXT,
	time_out TEXT,
	in_window_start TEXT,
	in_window_end TEXT,
	out_window_start TEXT,
	out_window_end TEXT,
	PRIMARY KEY (schedule_id, day_key, position)
);`, `
CREATE TABLE IF NOT EXISTS holidays (
	holiday_date TEXT NOT NULL PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);`,
	},
	upsertRecord: `
INSERT INTO punch_records (
	employee_id,
	work_date,
	in_1,
	out_1,
	in_2,
	out_2,
	in_3,
	out_3,
	schedule_name,
	source_file
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(employee_id, work_date) DO UPDATE SET
	in_1 = excluded.in_1,
	out_1 = excluded.out_1,
	in_2 = excluded.in_2,
	out_2 = excluded.out_2,
	in_3 = excluded.in_3,
	out_3 = excluded.out_3,
	schedule_name = excluded.schedule_name,
	source_file = excluded.source_file;`,
	insertHoliday: `INSERT OR IGNORE INTO holidays (holiday_date) VALUES (?);`,
}

// OpenSQLite opens (and creates when missing) the embedded database at path.
func OpenSQLite(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return newStore(db, sqliteDialect)
}
