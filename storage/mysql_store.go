package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{`
CREATE TABLE IF NOT EXISTS punch_records (
	id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	employee_id VARCHAR(64) NOT NULL,
	work_date CHAR(10) NOT NULL,
	in_1 VARCHAR(32) NULL,
	out_1 VARCHAR(32) NULL,
	in_2 VARCHAR(32) NULL,
	out_2 VARCHAR(32) NULL,
	in_3 VARCHAR(32) NULL,
	out_3 VARCHAR(32) NULL,
	schedule_name VARCHAR(128) NOT NULL DEFAULT '',
	shift_label VARCHAR(16) NOT NULL DEFAULT '',
	source_file VARCHAR(512) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uq_punch_records_employee_date (employee_id, work_date)
) CHARACTER SET utf8mb4;`, `
CREATE TABLE IF NOT EXISTS schedules (
	id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(128) NOT NULL,
	match_mode VARCHAR(16) NOT NULL DEFAULT 'auto',
	UNIQUE KEY uq_schedules_name (name)
) CHARACTER SET utf8mb4;`, `
CREATE TABLE IF NOT EXISTS schedule_shifts (
	schedule_id BIGINT NOT NULL,
	day_key VARCHAR(8) NOT NULL,
	position INT NOT NULL,
	shift_name VARCHAR(128) NOT NULL DEFAULT '',
	time_in VARCHAR(8) NULL,
	time_out VARCHAR(8) NULL,
	in_window_start VARCHAR(8) NULL,
	in_window_end VARCHAR(8) NULL,
	out_window_start VARCHAR(8) NULL,
	out_window_end VARCHAR(8) NULL,
	PRIMARY KEY (schedule_id, day_key, position),
	CONSTRAINT fk_schedule_shifts_schedule FOREIGN KEY (schedule_id) REFERENCES schedules(id) ON DELETE CASCADE
) CHARACTER SET utf8mb4;`, `
CREATE TABLE IF NOT EXISTS holidays (
	holiday_date CHAR(10) NOT NULL PRIMARY KEY,
	name VARCHAR(128) NOT NULL DEFAULT ''
) CHARACTER SET utf8mb4;`,
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
ON DUPLICATE KEY UPDATE
	in_1 = VALUES(in_1),
	out_1 = VALUES(out_1),
	in_2 = VALUES(in_2),
	out_2 = VALUES(out_2),
	in_3 = VALUES(in_3),
	out_3 = VALUES(out_3),
	schedule_name = VALUES(schedule_name),
	source_file = VALUES(source_file);`,
	insertHoliday: `INSERT IGNORE INTO holidays (holiday_date) VALUES (?);`,
}

// ParseMySQLDSN validates dsn and applies the connection settings the store
// relies on.
func ParseMySQLDSN(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("mysql dsn must name a database")
	}
	if cfg.Collation == "" {
		cfg.Collation = "utf8mb4_general_ci"
	}
	// Dates and punches are stored as text; keep them as strings on scan.
	cfg.ParseTime = false
	cfg.Loc = time.Local
	return cfg, nil
}

// OpenMySQL connects to a MySQL server and creates missing tables.
func OpenMySQL(dsn string) (*Store, error) {
	cfg, err := ParseMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql db: %w", err)
	}

	return newStore(db, mysqlDialect)
}
