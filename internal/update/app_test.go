package update

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkiryanov/pland/internal/model"
	"github.com/mkiryanov/pland/internal/plan"
	"github.com/mkiryanov/pland/internal/quotes"
	"github.com/mkiryanov/pland/internal/scheduler"
	"github.com/mkiryanov/pland/internal/storage"
)

type recordingNotifier struct {
	sent []Notification
}

func (n *recordingNotifier) Send(msg Notification) error {
	n.sent = append(n.sent, msg)
	return nil
}

func setupModel(t *testing.T, now time.Time) (Model, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "pland-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := storage.MigrateUp(repo.DB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := DefaultRuntimeConfig()
	cfg.Chat = "chat-1"
	m := NewModel(repo, nil, quotes.Load(filepath.Join(t.TempDir(), "absent.json")), cfg)
	m = m.WithClock(func() time.Time { return now })
	return m, repo
}

func seedTask(t *testing.T, repo storage.Repository, task model.Task) {
	t.Helper()
	if err := repo.CreateTask(context.Background(), "chat-1", task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
}

func flexible(id, title string, minutes int, deadline, created time.Time) model.Task {
	return model.Task{
		ID:          id,
		Title:       title,
		DurationMin: minutes,
		DeadlineAt:  deadline,
		Effort:      model.EffortMedium,
		Auto:        true,
		Status:      model.StatusActive,
		CreatedAt:   created,
	}
}

func TestRefreshSweepsPlansAndPersists(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)

	seedTask(t, repo, flexible("a0000001", "Report", 90, now.AddDate(0, 0, 3), now.Add(-time.Hour)))
	seedTask(t, repo, flexible("a0000002", "Missed", 30, now.Add(-2*time.Hour), now.Add(-48*time.Hour)))

	msg := buildRefresh(repo, m.Chat, m.PlanCfg, now)
	if msg.Err != nil {
		t.Fatalf("refresh failed: %v", msg.Err)
	}
	m = m.applyRefresh(msg)

	if len(m.Overdue.Items) != 1 || m.Overdue.Items[0].ID != "a0000002" {
		t.Fatalf("expected the missed task in overdue, got %+v", m.Overdue.Items)
	}
	if len(m.Tasks.Items) != 1 || m.Tasks.Items[0].ID != "a0000001" {
		t.Fatalf("expected the live task in tasks, got %+v", m.Tasks.Items)
	}

	// Sweep and day assignment are persisted.
	moved, err := repo.GetTask(context.Background(), "chat-1", "a0000002")
	if err != nil {
		t.Fatalf("get moved task: %v", err)
	}
	if moved.Status != model.StatusOverdue {
		t.Fatalf("moved task status = %q", moved.Status)
	}
	planned, err := repo.GetTask(context.Background(), "chat-1", "a0000001")
	if err != nil {
		t.Fatalf("get planned task: %v", err)
	}
	if planned.PlannedFor != "2026-03-02" {
		t.Fatalf("planned_for = %q, want 2026-03-02", planned.PlannedFor)
	}

	found := false
	for _, item := range m.Today.Items {
		if item.TaskID == "a0000001" {
			found = true
		}
	}
	if !found {
		t.Fatal("planned task missing from today's items")
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)
	seedTask(t, repo, flexible("a0000001", "Report", 90, now.AddDate(0, 0, 3), now.Add(-time.Hour)))

	first := buildRefresh(repo, m.Chat, m.PlanCfg, now)
	second := buildRefresh(repo, m.Chat, m.PlanCfg, now)
	if first.Err != nil || second.Err != nil {
		t.Fatalf("refresh failed: %v / %v", first.Err, second.Err)
	}
	if len(first.Items) != len(second.Items) {
		t.Fatalf("plan diverged between refreshes: %d vs %d items", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		if !first.Items[i].Start.Equal(second.Items[i].Start) || first.Items[i].Label != second.Items[i].Label {
			t.Fatalf("item %d diverged: %+v vs %+v", i, first.Items[i], second.Items[i])
		}
	}
}

func TestSweepNotifiesOnceThenStaysQuiet(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)
	notifier := &recordingNotifier{}
	m.DesktopEnabled = true
	m = m.WithNotifier(notifier)

	seedTask(t, repo, flexible("a0000002", "Missed", 30, now.Add(-2*time.Hour), now.Add(-48*time.Hour)))

	m = m.applyRefresh(buildRefresh(repo, m.Chat, m.PlanCfg, now))
	if len(notifier.sent) != 1 || notifier.sent[0].Title != "Overdue" {
		t.Fatalf("expected one overdue notification, got %+v", notifier.sent)
	}

	m = m.applyRefresh(buildRefresh(repo, m.Chat, m.PlanCfg, now))
	if len(notifier.sent) != 1 {
		t.Fatalf("repeat refresh re-notified: %+v", notifier.sent)
	}
}

func TestPaletteAddCreatesTask(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)

	m.Palette.Input = "add write report due:2026-03-05 dur:90 effort:heavy auto"
	m, _ = m.executePaletteCommand()
	if m.Status.IsError {
		t.Fatalf("add failed: %s", m.Status.Text)
	}

	tasks, err := repo.ListTasks(context.Background(), storage.TaskFilter{Chat: "chat-1"})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Title != "write report" || task.DurationMin != 90 || task.Effort != model.EffortHeavy || !task.Auto {
		t.Fatalf("unexpected task: %+v", task)
	}
	if len(task.ID) != 8 {
		t.Fatalf("task id %q is not 8 chars", task.ID)
	}
}

func TestPaletteAddRecurring(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)

	m.Palette.Input = "add gym days:0,2,4 between:18:00-19:30"
	m, _ = m.executePaletteCommand()
	if m.Status.IsError {
		t.Fatalf("add failed: %s", m.Status.Text)
	}

	tasks, err := repo.ListTasks(context.Background(), storage.TaskFilter{Chat: "chat-1"})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Kind() != model.KindRecurring {
		t.Fatalf("expected recurring task, got %+v", tasks)
	}
	if tasks[0].DurationMin != 90 {
		t.Fatalf("duration derived from range = %d, want 90", tasks[0].DurationMin)
	}
}

func TestPaletteDoneMovesToHistory(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)
	seedTask(t, repo, flexible("a0000001", "Report", 90, now.AddDate(0, 0, 3), now.Add(-time.Hour)))

	m.Palette.Input = "done a0000001"
	m, _ = m.executePaletteCommand()
	if m.Status.IsError {
		t.Fatalf("done failed: %s", m.Status.Text)
	}

	if _, err := repo.GetTask(context.Background(), "chat-1", "a0000001"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("task still present after done: %v", err)
	}
	history, err := repo.ListHistory(context.Background(), storage.HistoryFilter{Chat: "chat-1"})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 || history[0].Task.ID != "a0000001" || !history[0].Task.Done {
		t.Fatalf("unexpected history: %+v", history)
	}
	if !history[0].CompletedAt.Equal(now) {
		t.Fatalf("completed at %v, want %v", history[0].CompletedAt, now)
	}
}

func TestPaletteDeadlineRescuesOverdueTask(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)

	stale := flexible("a0000001", "Missed", 30, now.Add(-2*time.Hour), now.Add(-48*time.Hour))
	stale.Status = model.StatusOverdue
	stale.PlannedFor = "2026-03-01"
	seedTask(t, repo, stale)

	m.Palette.Input = "deadline a0000001 2026-03-10 18:00"
	m, _ = m.executePaletteCommand()
	if m.Status.IsError {
		t.Fatalf("deadline failed: %s", m.Status.Text)
	}

	rescued, err := repo.GetTask(context.Background(), "chat-1", "a0000001")
	if err != nil {
		t.Fatalf("get rescued: %v", err)
	}
	if rescued.Status != model.StatusActive || rescued.PlannedFor != "" {
		t.Fatalf("rescue did not reset task: %+v", rescued)
	}
	if rescued.DeadlineAt.IsZero() || rescued.DeadlineAt.Year() != 2026 {
		t.Fatalf("deadline not updated: %v", rescued.DeadlineAt)
	}
}

func TestPaletteDuplicateMakesFlexibleCopy(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)

	start := now.Add(2 * time.Hour)
	end := now.Add(3 * time.Hour)
	fixed := model.Task{
		ID: "f0000001", Title: "Meeting", DurationMin: 60,
		DeadlineAt: end, Effort: model.EffortQuick,
		FixedStart: &start, FixedEnd: &end,
		Status: model.StatusActive, CreatedAt: now.Add(-time.Hour),
	}
	seedTask(t, repo, fixed)

	m.Palette.Input = "dup f0000001"
	m, _ = m.executePaletteCommand()
	if m.Status.IsError {
		t.Fatalf("dup failed: %s", m.Status.Text)
	}

	tasks, err := repo.ListTasks(context.Background(), storage.TaskFilter{Chat: "chat-1"})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	var dup model.Task
	for _, task := range tasks {
		if task.ID != "f0000001" {
			dup = task
		}
	}
	if dup.Kind() != model.KindFlexible || !dup.Auto || dup.PlannedFor != "" {
		t.Fatalf("duplicate is not a fresh flexible task: %+v", dup)
	}
}

func TestPaletteUnknownIDReportsError(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, _ := setupModel(t, now)

	m.Palette.Input = "done deadbeef"
	m, _ = m.executePaletteCommand()
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "deadbeef") {
		t.Fatalf("expected lookup error, got %+v", m.Status)
	}
}

func TestWatchdogNotifiesBothSeverities(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, _ := setupModel(t, now)
	notifier := &recordingNotifier{}
	m.DesktopEnabled = true
	m = m.WithNotifier(notifier)

	m.Tasks.Items = []model.Task{
		flexible("a0000001", "Soon", 30, now.Add(12*time.Hour), now.Add(-time.Hour)),
		flexible("a0000002", "Now", 30, now.Add(2*time.Hour), now.Add(-time.Hour)),
	}
	m = m.runWatchdog()

	urgent, approaching := 0, 0
	for _, n := range notifier.sent {
		if strings.Contains(n.Body, "URGENT") {
			urgent++
		} else {
			approaching++
		}
	}
	if approaching != 2 || urgent != 1 {
		t.Fatalf("alerts: approaching=%d urgent=%d, want 2 and 1", approaching, urgent)
	}
}

func TestViewSwitchKeys(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, _ := setupModel(t, now)

	for key, want := range map[string]View{
		"1": ViewToday, "2": ViewWeek, "3": ViewTasks, "4": ViewOverdue, "5": ViewHistory,
	} {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		got := updated.(Model)
		if got.CurrentView != want {
			t.Fatalf("key %q switched to %q, want %q", key, got.CurrentView, want)
		}
	}
}

func TestSlashOpensPalette(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, _ := setupModel(t, now)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	got := updated.(Model)
	if !got.Palette.Active {
		t.Fatal("slash did not open the palette")
	}
}

func TestDigestBuiltFromFreshPlan(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)
	seedTask(t, repo, flexible("a0000001", "Report", 90, now.AddDate(0, 0, 3), now.Add(-time.Hour)))

	// Stale state from yesterday, as after an overnight run.
	m.Today = TodayState{
		Date: "2026-03-01",
		Items: []plan.PlanItem{{
			Start: now.Add(-27 * time.Hour),
			End:   now.Add(-26 * time.Hour),
			Label: "OldWork",
		}},
	}

	m, _ = m.handleTrigger(scheduler.TriggerEvent{Kind: scheduler.KindDigest, TriggerAt: now})
	if m.Digest != "" {
		t.Fatalf("digest rendered before the refresh landed: %s", m.Digest)
	}

	m = m.applyRefresh(buildRefresh(repo, m.Chat, m.PlanCfg, now))
	if !strings.Contains(m.Digest, "2026-03-02") || !strings.Contains(m.Digest, "Report") {
		t.Fatalf("digest not built from the fresh plan: %s", m.Digest)
	}
	if strings.Contains(m.Digest, "OldWork") {
		t.Fatalf("digest carries stale items: %s", m.Digest)
	}
	if m.Status.Text != "morning digest ready" {
		t.Fatalf("status = %q", m.Status.Text)
	}
}

func TestPaletteEditsAtCursor(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, _ := setupModel(t, now)

	feed := func(msg tea.KeyMsg) {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	feed(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	feed(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	feed(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	feed(tea.KeyMsg{Type: tea.KeyLeft})
	feed(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})

	if m.Palette.Input != "acb" {
		t.Fatalf("palette input = %q, want %q", m.Palette.Input, "acb")
	}
}

func TestDigestIncludesQuoteAndPlan(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m, repo := setupModel(t, now)
	seedTask(t, repo, flexible("a0000001", "Report", 90, now.AddDate(0, 0, 3), now.Add(-time.Hour)))

	m = m.applyRefresh(buildRefresh(repo, m.Chat, m.PlanCfg, now))
	m = m.buildDigest()
	if !strings.Contains(m.Digest, "Marcus Aurelius") {
		t.Fatalf("digest missing quote: %s", m.Digest)
	}
	if !strings.Contains(m.Digest, "Report") {
		t.Fatalf("digest missing plan: %s", m.Digest)
	}
}
