package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopunch/attendance"
)

const dateLayout = "2006-01-02"

var ErrRecordNotFound = errors.New("punch record not found")

// dialect carries the statements that differ between SQLite and MySQL.
type dialect struct {
	name          string
	schema        []string
	upsertRecord  string
	insertHoliday string
}

// Store persists punch records, schedules and holidays behind database/sql.
type Store struct {
	db      *sql.DB
	dialect dialect
}

func newStore(db *sql.DB, d dialect) (*Store, error) {
	store := &Store{db: db, dialect: d}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Open picks the backend named by driver: "sqlite" uses path, "mysql" uses dsn.
func Open(driver, path, dsn string) (*Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return OpenSQLite(path)
	case "mysql":
		return OpenMySQL(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (s *Store) Driver() string {
	return s.dialect.name
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, statement := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// UpsertPunchRecords writes records keyed by employee and work date. Slots
// and schedule are replaced; a stored shift label is kept.
func (s *Store) UpsertPunchRecords(ctx context.Context, records []attendance.Record, sourceFile string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.upsertRecord)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, record := range records {
		args := make([]any, 0, 10)
		args = append(args, record.EmployeeID, record.DateKey())
		for _, raw := range record.Punches {
			args = append(args, nullString(raw))
		}
		args = append(args, record.ScheduleName, sourceFile)

		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			_ = tx.Rollback()
			return written, fmt.Errorf("upsert punch record %s %s: %w", record.EmployeeID, record.DateKey(), err)
		}
		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return written, fmt.Errorf("commit transaction: %w", err)
	}
	return written, nil
}

const selectRecordColumns = `
SELECT
	id,
	employee_id,
	work_date,
	in_1,
	out_1,
	in_2,
	out_2,
	in_3,
	out_3,
	schedule_name,
	shift_label
FROM punch_records`

// ListPunchRecords returns the rows matching filter ordered by employee,
// date and ID.
func (s *Store) ListPunchRecords(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	var (
		where []string
		args  []any
	)
	if !filter.From.IsZero() {
		where = append(where, "work_date >= ?")
		args = append(args, filter.From.Format(dateLayout))
	}
	if !filter.To.IsZero() {
		where = append(where, "work_date <= ?")
		args = append(args, filter.To.Format(dateLayout))
	}
	if len(filter.EmployeeIDs) > 0 {
		where = append(where, "employee_id IN ("+placeholders(len(filter.EmployeeIDs))+")")
		for _, id := range filter.EmployeeIDs {
			args = append(args, id)
		}
	}

	query := selectRecordColumns
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY employee_id, work_date, id;"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query punch records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0, 256)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate punch records: %w", err)
	}
	return records, nil
}

// GetPunchRecord returns the row for one employee and day.
func (s *Store) GetPunchRecord(ctx context.Context, employeeID string, workDate time.Time) (attendance.Record, error) {
	query := selectRecordColumns + "\nWHERE employee_id = ? AND work_date = ?;"
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, employeeID, workDate.Format(dateLayout)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, ErrRecordNotFound
		}
		return attendance.Record{}, err
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (attendance.Record, error) {
	var (
		record  attendance.Record
		dateRaw string
		label   string
		slots   [attendance.SlotCount]sql.NullString
	)
	if err := row.Scan(
		&record.ID,
		&record.EmployeeID,
		&dateRaw,
		&slots[0],
		&slots[1],
		&slots[2],
		&slots[3],
		&slots[4],
		&slots[5],
		&record.ScheduleName,
		&label,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("scan punch record: %w", err)
	}

	workDate, err := time.ParseInLocation(dateLayout, dateRaw, time.Local)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("parse work date %q: %w", dateRaw, err)
	}
	record.WorkDate = workDate
	record.Label = attendance.ParseLabel(label)
	for i, slot := range slots {
		if slot.Valid {
			record.Punches[i] = slot.String
		}
	}
	return record, nil
}

// UpdateShiftLabels writes label changes in one transaction. An empty batch
// is a no-op.
func (s *Store) UpdateShiftLabels(ctx context.Context, updates []attendance.LabelUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE punch_records SET shift_label = ? WHERE id = ?;`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare update statement: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for _, update := range updates {
		if update.ID <= 0 {
			continue
		}
		res, err := stmt.ExecContext(ctx, string(update.Label), update.ID)
		if err != nil {
			_ = tx.Rollback()
			return updated, fmt.Errorf("update shift label %d: %w", update.ID, err)
		}
		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return updated, fmt.Errorf("commit update transaction: %w", err)
	}
	return updated, nil
}

func (s *Store) DeleteAllPunchRecords(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM punch_records;`)
	if err != nil {
		return 0, fmt.Errorf("delete punch records: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
