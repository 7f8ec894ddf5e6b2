package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gopunch/attendance"
	"gopunch/internal/timeutil"
)

// ReplaceSchedules creates or updates each schedule by name and rewrites its
// shift table. Schedules not named are left alone.
func (s *Store) ReplaceSchedules(ctx context.Context, schedules []attendance.Schedule) (int, error) {
	if len(schedules) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	for _, schedule := range schedules {
		id, err := upsertSchedule(ctx, tx, schedule)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_shifts WHERE schedule_id = ?;`, id); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("clear shifts of schedule %q: %w", schedule.Name, err)
		}
		for _, day := range attendance.AllDayKeys() {
			for position, shift := range schedule.ShiftsFor(day) {
				if err := insertShift(ctx, tx, id, day, position, shift); err != nil {
					_ = tx.Rollback()
					return 0, fmt.Errorf("insert shift %d of schedule %q on %s: %w", position, schedule.Name, day, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit schedule transaction: %w", err)
	}
	return len(schedules), nil
}

func upsertSchedule(ctx context.Context, tx *sql.Tx, schedule attendance.Schedule) (int64, error) {
	mode := schedule.Mode
	if mode == "" {
		mode = attendance.ModeAuto
	}

	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM schedules WHERE name = ?;`, schedule.Name).Scan(&id)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `UPDATE schedules SET match_mode = ? WHERE id = ?;`, string(mode), id); err != nil {
			return 0, fmt.Errorf("update schedule %q: %w", schedule.Name, err)
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
	default:
		return 0, fmt.Errorf("query schedule %q: %w", schedule.Name, err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO schedules (name, match_mode) VALUES (?, ?);`, schedule.Name, string(mode))
	if err != nil {
		return 0, fmt.Errorf("insert schedule %q: %w", schedule.Name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted schedule id: %w", err)
	}
	return id, nil
}

func insertShift(ctx context.Context, tx *sql.Tx, scheduleID int64, day attendance.DayKey, position int, shift attendance.Shift) error {
	const insertStmt = `
INSERT INTO schedule_shifts (
	schedule_id,
	day_key,
	position,
	shift_name,
	time_in,
	time_out,
	in_window_start,
	in_window_end,
	out_window_start,
	out_window_end
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	_, err := tx.ExecContext(ctx, insertStmt,
		scheduleID,
		string(day),
		position,
		shift.Name,
		nullClock(shift.TimeIn),
		nullClock(shift.TimeOut),
		nullClock(shift.InWindowStart),
		nullClock(shift.InWindowEnd),
		nullClock(shift.OutWindowStart),
		nullClock(shift.OutWindowEnd),
	)
	return err
}

// LookupSchedules returns ID, name and match mode for every known name.
// Day shifts are loaded separately with ScheduleDayShifts.
func (s *Store) LookupSchedules(ctx context.Context, names []string) (map[string]attendance.Schedule, error) {
	out := make(map[string]attendance.Schedule, len(names))
	if len(names) == 0 {
		return out, nil
	}

	args := make([]any, len(names))
	for i, name := range names {
		args[i] = name
	}
	query := `SELECT id, name, match_mode FROM schedules WHERE name IN (` + placeholders(len(names)) + `);`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			schedule attendance.Schedule
			modeRaw  string
		)
		if err := rows.Scan(&schedule.ID, &schedule.Name, &modeRaw); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		mode, err := attendance.ParseMatchMode(modeRaw)
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", schedule.Name, err)
		}
		schedule.Mode = mode
		out[schedule.Name] = schedule
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return out, nil
}

// ScheduleDayShifts returns the shifts of the given schedules keyed by
// schedule and day, in configured position order.
func (s *Store) ScheduleDayShifts(ctx context.Context, scheduleIDs []int64) (map[attendance.ScheduleDay][]attendance.Shift, error) {
	out := make(map[attendance.ScheduleDay][]attendance.Shift)
	if len(scheduleIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(scheduleIDs))
	for i, id := range scheduleIDs {
		args[i] = id
	}
	query := `
SELECT
	schedule_id,
	day_key,
	shift_name,
	time_in,
	time_out,
	in_window_start,
	in_window_end,
	out_window_start,
	out_window_end
FROM schedule_shifts
WHERE schedule_id IN (` + placeholders(len(scheduleIDs)) + `)
ORDER BY schedule_id, day_key, position;`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedule shifts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key    attendance.ScheduleDay
			dayRaw string
			shift  attendance.Shift
			times  [6]sql.NullString
		)
		if err := rows.Scan(
			&key.ScheduleID,
			&dayRaw,
			&shift.Name,
			&times[0],
			&times[1],
			&times[2],
			&times[3],
			&times[4],
			&times[5],
		); err != nil {
			return nil, fmt.Errorf("scan schedule shift: %w", err)
		}
		day, err := attendance.ParseDayKey(dayRaw)
		if err != nil {
			return nil, fmt.Errorf("schedule %d: %w", key.ScheduleID, err)
		}
		key.Day = day

		shift.TimeIn = timeutil.ToSeconds(times[0])
		shift.TimeOut = timeutil.ToSeconds(times[1])
		shift.InWindowStart = timeutil.ToSeconds(times[2])
		shift.InWindowEnd = timeutil.ToSeconds(times[3])
		shift.OutWindowStart = timeutil.ToSeconds(times[4])
		shift.OutWindowEnd = timeutil.ToSeconds(times[5])

		out[key] = append(out[key], shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule shifts: %w", err)
	}
	return out, nil
}

// AddHolidays stores dates as holidays; known dates are ignored.
func (s *Store) AddHolidays(ctx context.Context, dates []time.Time) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.insertHoliday)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare holiday statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, date := range dates {
		res, err := stmt.ExecContext(ctx, date.Format(dateLayout))
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert holiday %s: %w", date.Format(dateLayout), err)
		}
		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit holiday transaction: %w", err)
	}
	return inserted, nil
}

// HolidayDates returns the holidays between from and to inclusive. A zero
// bound leaves that side open.
func (s *Store) HolidayDates(ctx context.Context, from, to time.Time) (attendance.HolidaySet, error) {
	query := `SELECT holiday_date FROM holidays`
	var (
		where []string
		args  []any
	)
	if !from.IsZero() {
		where = append(where, "holiday_date >= ?")
		args = append(args, from.Format(dateLayout))
	}
	if !to.IsZero() {
		where = append(where, "holiday_date <= ?")
		args = append(args, to.Format(dateLayout))
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}

	rows, err := s.db.QueryContext(ctx, query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	holidays := attendance.NewHolidaySet()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		date, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse holiday %q: %w", raw, err)
		}
		holidays.Add(date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holidays: %w", err)
	}
	return holidays, nil
}

func nullClock(value timeutil.TimeOfDay) sql.NullString {
	return sql.NullString{String: value.String(), Valid: value.Valid}
}
