package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkiryanov/pland/internal/model"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pland-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestTaskCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-03-02T12:00:00Z")

	task := model.Task{
		ID:          "a1b2c3d4",
		Title:       "Write report",
		DurationMin: 90,
		DeadlineAt:  created.Add(72 * time.Hour),
		Effort:      model.EffortHeavy,
		Auto:        true,
		Splittable:  true,
		Status:      model.StatusActive,
		CreatedAt:   created,
	}
	if err := repo.CreateTask(ctx, "chat-1", task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, "chat-1", task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != task.Title || got.Effort != model.EffortHeavy || !got.Auto || !got.Splittable {
		t.Fatalf("unexpected task get result: %#v", got)
	}
	if !got.DeadlineAt.Equal(task.DeadlineAt) {
		t.Fatalf("deadline round-trip: got %v, want %v", got.DeadlineAt, task.DeadlineAt)
	}

	task.Title = "Write report v2"
	task.Status = model.StatusOverdue
	task.PlannedFor = "2026-03-03"
	if err := repo.UpdateTask(ctx, "chat-1", task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	overdue, err := repo.ListTasks(ctx, TaskFilter{Chat: "chat-1", Status: model.StatusOverdue})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != task.ID || overdue[0].PlannedFor != "2026-03-03" {
		t.Fatalf("unexpected overdue list: %#v", overdue)
	}

	if err := repo.DeleteTask(ctx, "chat-1", task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, "chat-1", task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteTask(ctx, "chat-1", task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestTaskRoundTripKinds(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-03-02T12:00:00Z")

	fixedStart := created.Add(2 * time.Hour)
	fixedEnd := created.Add(3 * time.Hour)
	fixed := model.Task{
		ID:          "f0000001",
		Title:       "Dentist",
		DurationMin: 60,
		DeadlineAt:  fixedEnd,
		Effort:      model.EffortQuick,
		FixedStart:  &fixedStart,
		FixedEnd:    &fixedEnd,
		Status:      model.StatusActive,
		CreatedAt:   created,
	}
	if err := repo.CreateTask(ctx, "chat-1", fixed); err != nil {
		t.Fatalf("create fixed: %v", err)
	}

	cs := model.ClockTime{Hour: 18}
	ce := model.ClockTime{Hour: 19, Minute: 30}
	gym := model.Task{
		ID:            "c0000001",
		Title:         "Gym",
		DurationMin:   90,
		Effort:        model.EffortHeavy,
		Constant:      true,
		Weekdays:      []int{0, 2, 4},
		ConstantStart: &cs,
		ConstantEnd:   &ce,
		Status:        model.StatusActive,
		CreatedAt:     created,
	}
	if err := repo.CreateTask(ctx, "chat-1", gym); err != nil {
		t.Fatalf("create recurring: %v", err)
	}

	gotFixed, err := repo.GetTask(ctx, "chat-1", fixed.ID)
	if err != nil {
		t.Fatalf("get fixed: %v", err)
	}
	if gotFixed.Kind() != model.KindFixed || !gotFixed.FixedStart.Equal(fixedStart) {
		t.Fatalf("fixed round-trip: %#v", gotFixed)
	}

	gotGym, err := repo.GetTask(ctx, "chat-1", gym.ID)
	if err != nil {
		t.Fatalf("get recurring: %v", err)
	}
	if gotGym.Kind() != model.KindRecurring {
		t.Fatalf("recurring round-trip kind: %#v", gotGym)
	}
	if len(gotGym.Weekdays) != 3 || gotGym.Weekdays[1] != 2 {
		t.Fatalf("weekdays round-trip: %#v", gotGym.Weekdays)
	}
	if gotGym.ConstantEnd == nil || gotGym.ConstantEnd.Minute != 30 {
		t.Fatalf("clock round-trip: %#v", gotGym.ConstantEnd)
	}
	if !gotGym.DeadlineAt.IsZero() {
		t.Fatalf("recurring task gained a deadline: %v", gotGym.DeadlineAt)
	}
}

func TestTasksArePartitionedByChat(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-03-02T12:00:00Z")

	task := model.Task{
		ID:          "a1b2c3d4",
		Title:       "Private",
		DurationMin: 30,
		DeadlineAt:  created.Add(time.Hour),
		Effort:      model.EffortQuick,
		Status:      model.StatusActive,
		CreatedAt:   created,
	}
	if err := repo.CreateTask(ctx, "chat-1", task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if _, err := repo.GetTask(ctx, "chat-2", task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from another chat, got %v", err)
	}
	other, err := repo.ListTasks(ctx, TaskFilter{Chat: "chat-2"})
	if err != nil {
		t.Fatalf("list other chat: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("chat-2 sees chat-1 tasks: %#v", other)
	}

	// The same id may exist independently in another chat.
	if err := repo.CreateTask(ctx, "chat-2", task); err != nil {
		t.Fatalf("create same id in other chat: %v", err)
	}
}

func TestHistoryAppendAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-03-02T12:00:00Z")

	mkEntry := func(id string, offset time.Duration) model.DoneEntry {
		return model.DoneEntry{
			Task: model.Task{
				ID:          id,
				Title:       "Finished " + id,
				DurationMin: 30,
				DeadlineAt:  created.Add(time.Hour),
				Effort:      model.EffortQuick,
				Done:        true,
				Status:      model.StatusActive,
				CreatedAt:   created,
			},
			CompletedAt: created.Add(offset),
		}
	}

	if err := repo.AppendHistory(ctx, "chat-1", mkEntry("a0000001", time.Hour)); err != nil {
		t.Fatalf("append history: %v", err)
	}
	if err := repo.AppendHistory(ctx, "chat-1", mkEntry("a0000002", 2*time.Hour)); err != nil {
		t.Fatalf("append history: %v", err)
	}

	entries, err := repo.ListHistory(ctx, HistoryFilter{Chat: "chat-1"})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Task.ID != "a0000002" {
		t.Fatalf("unexpected order: %#v", entries)
	}
	if entries[0].Task.Title != "Finished a0000002" || !entries[0].Task.Done {
		t.Fatalf("snapshot round-trip: %#v", entries[0].Task)
	}

	limited, err := repo.ListHistory(ctx, HistoryFilter{Chat: "chat-1", Limit: 1})
	if err != nil {
		t.Fatalf("list history with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 entry with limit, got %d", len(limited))
	}
}
