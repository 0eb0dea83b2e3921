package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkiryanov/pland/internal/alerts"
	"github.com/mkiryanov/pland/internal/model"
	"github.com/mkiryanov/pland/internal/plan"
	"github.com/mkiryanov/pland/internal/storage"
)

const historyLimit = 50

// refreshCmd recomputes the whole application state: sweep overdue
// tasks and persist the moves, plan today with assignment stamping,
// plan the week read-only, and reload history.
func (m Model) refreshCmd() tea.Cmd {
	repo := m.Repo
	chat := m.Chat
	cfg := m.PlanCfg
	now := m.now()
	return func() tea.Msg {
		return buildRefresh(repo, chat, cfg, now)
	}
}

func buildRefresh(repo storage.Repository, chat string, cfg plan.Config, now time.Time) RefreshedMsg {
	ctx := context.Background()

	tasks, err := repo.ListTasks(ctx, storage.TaskFilter{Chat: chat})
	if err != nil {
		return RefreshedMsg{Err: fmt.Errorf("list tasks: %w", err)}
	}

	moved, notices := alerts.SweepOverdue(now, tasks)
	for _, t := range moved {
		if err := repo.UpdateTask(ctx, chat, t); err != nil {
			return RefreshedMsg{Err: fmt.Errorf("persist overdue move: %w", err)}
		}
	}
	tasks = mergeTasks(tasks, moved)

	items, delta := cfg.PlanDay(now, now, tasks, true)
	for id, day := range delta {
		updated, ok := taskByID(tasks, id)
		if !ok {
			continue
		}
		updated.PlannedFor = day
		if err := repo.UpdateTask(ctx, chat, updated); err != nil {
			return RefreshedMsg{Err: fmt.Errorf("persist day assignment: %w", err)}
		}
		tasks = mergeTasks(tasks, []model.Task{updated})
	}

	week, _ := cfg.PlanWeek(now, now, tasks)

	history, err := repo.ListHistory(ctx, storage.HistoryFilter{Chat: chat, Limit: historyLimit})
	if err != nil {
		return RefreshedMsg{Err: fmt.Errorf("list history: %w", err)}
	}

	return RefreshedMsg{
		Tasks:   tasks,
		Items:   items,
		Date:    plan.DateKey(now),
		Week:    week,
		History: history,
		Notices: notices,
	}
}

func mergeTasks(tasks, updated []model.Task) []model.Task {
	if len(updated) == 0 {
		return tasks
	}
	byID := make(map[string]model.Task, len(updated))
	for _, t := range updated {
		byID[t.ID] = t
	}
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		if u, ok := byID[t.ID]; ok {
			out[i] = u
		} else {
			out[i] = t
		}
	}
	return out
}

func taskByID(tasks []model.Task, id string) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// applyRefresh installs the refreshed state and surfaces sweep notices.
func (m Model) applyRefresh(msg RefreshedMsg) Model {
	if msg.Err != nil {
		m.LastError = msg.Err
		m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
		return m
	}

	quote := m.Today.Quote
	if quote == "" || m.Today.Date != msg.Date {
		quote = m.Quotes.Random()
	}
	m.Today = TodayState{Date: msg.Date, Quote: quote, Items: msg.Items}
	m.Week = WeekState{Days: msg.Week}
	m.History = HistoryState{Entries: msg.History}

	var pending, overdue []model.Task
	for _, t := range msg.Tasks {
		if t.Status == model.StatusOverdue {
			overdue = append(overdue, t)
			continue
		}
		pending = append(pending, t)
	}
	m.Tasks.Items = pending
	m.Tasks.Cursor = clampCursor(m.Tasks.Cursor, len(pending))
	m.Overdue.Items = overdue
	m.Overdue.Cursor = clampCursor(m.Overdue.Cursor, len(overdue))

	for _, n := range msg.Notices {
		body := fmt.Sprintf("deadline for %q passed %s, task moved to overdue", n.Title, n.Anchor.Format("2006-01-02 15:04"))
		m.notify("Overdue", body, "error")
	}
	m.syncWeekTable()

	if m.digestPending {
		m.digestPending = false
		m = m.buildDigest()
		m.Status = StatusBar{Text: "morning digest ready", IsError: false}
	}
	return m
}

func clampCursor(cursor, length int) int {
	if length == 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}
