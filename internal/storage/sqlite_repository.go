package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mkiryanov/pland/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

const taskColumns = `chat, id, title, duration_min, deadline_at, effort, fixed_start, fixed_end,
	splittable, done, auto, constant, dow, constant_start, constant_end, planned_for, status, created_at`

func (r *SQLiteRepository) CreateTask(ctx context.Context, chat string, in model.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		chat, in.ID, in.Title, in.DurationMin, zeroableTime(in.DeadlineAt), string(in.Effort),
		nullTime(in.FixedStart), nullTime(in.FixedEnd),
		boolInt(in.Splittable), boolInt(in.Done), boolInt(in.Auto), boolInt(in.Constant),
		joinWeekdays(in.Weekdays), nullClock(in.ConstantStart), nullClock(in.ConstantEnd),
		in.PlannedFor, string(in.Status), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, chat, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE chat = ? AND id = ?`, chat, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, chat string, in model.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, duration_min = ?, deadline_at = ?, effort = ?, fixed_start = ?, fixed_end = ?,
			splittable = ?, done = ?, auto = ?, constant = ?, dow = ?, constant_start = ?, constant_end = ?,
			planned_for = ?, status = ?
		WHERE chat = ? AND id = ?`,
		in.Title, in.DurationMin, zeroableTime(in.DeadlineAt), string(in.Effort),
		nullTime(in.FixedStart), nullTime(in.FixedEnd),
		boolInt(in.Splittable), boolInt(in.Done), boolInt(in.Auto), boolInt(in.Constant),
		joinWeekdays(in.Weekdays), nullClock(in.ConstantStart), nullClock(in.ConstantEnd),
		in.PlannedFor, string(in.Status),
		chat, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, chat, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE chat = ? AND id = ?`, chat, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE chat = ?`
	args := []any{filter.Chat}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AppendHistory(ctx context.Context, chat string, in model.DoneEntry) error {
	snapshot, err := json.Marshal(in.Task)
	if err != nil {
		return fmt.Errorf("marshal history snapshot: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO history (chat, task_id, snapshot, completed_at)
		VALUES (?, ?, ?, ?)`,
		chat, in.Task.ID, string(snapshot), mustTime(in.CompletedAt),
	)
	return err
}

func (r *SQLiteRepository) ListHistory(ctx context.Context, filter HistoryFilter) ([]model.DoneEntry, error) {
	query := `SELECT snapshot, completed_at FROM history WHERE chat = ? ORDER BY completed_at DESC`
	args := []any{filter.Chat}
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DoneEntry, 0)
	for rows.Next() {
		var snapshot string
		var completed string
		if scanErr := rows.Scan(&snapshot, &completed); scanErr != nil {
			return nil, scanErr
		}
		var entry model.DoneEntry
		if unmarshalErr := json.Unmarshal([]byte(snapshot), &entry.Task); unmarshalErr != nil {
			return nil, fmt.Errorf("unmarshal history snapshot: %w", unmarshalErr)
		}
		completedAt, parseErr := parseRequiredTime(completed)
		if parseErr != nil {
			return nil, parseErr
		}
		entry.CompletedAt = completedAt
		out = append(out, entry)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var chat string
	var deadline sql.NullString
	var effort, status string
	var fixedStart, fixedEnd sql.NullString
	var splittable, done, auto, constant int
	var dow string
	var constantStart, constantEnd sql.NullString
	var created string
	if err := s.Scan(&chat, &out.ID, &out.Title, &out.DurationMin, &deadline, &effort,
		&fixedStart, &fixedEnd, &splittable, &done, &auto, &constant,
		&dow, &constantStart, &constantEnd, &out.PlannedFor, &status, &created); err != nil {
		return model.Task{}, err
	}

	deadlineAt, err := parseNullableTime(deadline)
	if err != nil {
		return model.Task{}, err
	}
	if deadlineAt != nil {
		out.DeadlineAt = *deadlineAt
	}
	if out.FixedStart, err = parseNullableTime(fixedStart); err != nil {
		return model.Task{}, err
	}
	if out.FixedEnd, err = parseNullableTime(fixedEnd); err != nil {
		return model.Task{}, err
	}
	if out.CreatedAt, err = parseRequiredTime(created); err != nil {
		return model.Task{}, err
	}
	if out.Weekdays, err = splitWeekdays(dow); err != nil {
		return model.Task{}, err
	}
	if out.ConstantStart, err = parseNullableClock(constantStart); err != nil {
		return model.Task{}, err
	}
	if out.ConstantEnd, err = parseNullableClock(constantEnd); err != nil {
		return model.Task{}, err
	}

	out.Effort = model.Effort(effort)
	out.Status = model.Status(status)
	out.Splittable = splittable == 1
	out.Done = done == 1
	out.Auto = auto == 1
	out.Constant = constant == 1
	return out, nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

// zeroableTime stores the zero time as NULL; recurring tasks carry no
// deadline.
func zeroableTime(v time.Time) any {
	if v.IsZero() {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func nullClock(v *model.ClockTime) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func parseNullableClock(v sql.NullString) (*model.ClockTime, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	c, err := model.ParseClock(v.String)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func joinWeekdays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func splitWeekdays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("storage: malformed weekday list %q", s)
		}
		out = append(out, d)
	}
	return out, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
