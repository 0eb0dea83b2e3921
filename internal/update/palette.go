package update

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkiryanov/pland/internal/commands"
	"github.com/mkiryanov/pland/internal/model"
	"github.com/mkiryanov/pland/internal/storage"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	needsRefresh := true
	res, err := commands.Execute(cmd, commands.Handlers{
		Add:       m.handleAdd,
		Done:      m.handleDone,
		Auto:      m.handleAutoToggle,
		Delete:    m.handleDelete,
		Duplicate: m.handleDuplicate,
		Deadline:  m.handleDeadline,
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			needsRefresh = false
			switch a.Subject {
			case "today":
				m.CurrentView = ViewToday
			case "week":
				m.CurrentView = ViewWeek
			case "tasks":
				m.CurrentView = ViewTasks
			case "overdue":
				m.CurrentView = ViewOverdue
			case "history":
				m.CurrentView = ViewHistory
			}
			return commands.Result{Message: "showing " + a.Subject}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}

	m.Status = StatusBar{Text: res.Message, IsError: false}
	m.notify("Command", res.Message, "info")
	if needsRefresh {
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m *Model) handleAdd(a commands.AddArgs) (commands.Result, error) {
	task, err := m.taskFromAddArgs(a)
	if err != nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
	}
	if err := task.Validate(); err != nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
	}
	if err := m.Repo.CreateTask(context.Background(), m.Chat, task); err != nil {
		return commands.Result{}, fmt.Errorf("create task: %w", err)
	}
	return commands.Result{Message: fmt.Sprintf("added [%s] %s", task.ID, task.Title)}, nil
}

// taskFromAddArgs assembles a task from the parsed options. days/between
// make a recurring task, from/to a fixed one, anything else a flexible
// task needing a deadline.
func (m *Model) taskFromAddArgs(a commands.AddArgs) (model.Task, error) {
	now := m.now()
	task := model.Task{
		ID:          newTaskID(),
		Title:       a.Title,
		DurationMin: a.Duration,
		Effort:      model.EffortMedium,
		Splittable:  a.Split,
		Auto:        a.Auto,
		Status:      model.StatusActive,
		CreatedAt:   now,
	}
	if a.Effort != "" {
		task.Effort = model.Effort(a.Effort)
	}

	if len(a.Days) > 0 || a.Between != "" {
		if len(a.Days) == 0 || a.Between == "" {
			return model.Task{}, errors.New("recurring tasks need both days: and between:")
		}
		start, end, err := parseClockRange(a.Between)
		if err != nil {
			return model.Task{}, err
		}
		task.Constant = true
		task.Weekdays = a.Days
		task.ConstantStart = &start
		task.ConstantEnd = &end
		task.Auto = false
		task.Splittable = false
		if task.DurationMin == 0 {
			task.DurationMin = end.MinuteOfDay() - start.MinuteOfDay()
		}
		return task, nil
	}

	if a.From != "" || a.To != "" {
		if a.From == "" || a.To == "" {
			return model.Task{}, errors.New("fixed tasks need both from: and to:")
		}
		from, err := parseWhen(a.From, m.PlanCfg.WindowEnd.Hour, m.PlanCfg.WindowEnd.Minute)
		if err != nil {
			return model.Task{}, err
		}
		to, err := parseWhen(a.To, m.PlanCfg.WindowEnd.Hour, m.PlanCfg.WindowEnd.Minute)
		if err != nil {
			return model.Task{}, err
		}
		task.FixedStart = &from
		task.FixedEnd = &to
		task.DeadlineAt = to
		if task.DurationMin == 0 {
			task.DurationMin = int(to.Sub(from).Minutes())
		}
		return task, nil
	}

	if a.Due == "" {
		return model.Task{}, errors.New("flexible tasks need due:")
	}
	due, err := parseWhen(a.Due, m.PlanCfg.WindowEnd.Hour, m.PlanCfg.WindowEnd.Minute)
	if err != nil {
		return model.Task{}, err
	}
	task.DeadlineAt = due
	if task.DurationMin == 0 {
		return model.Task{}, errors.New("flexible tasks need dur:")
	}
	return task, nil
}

// handleDone archives the task in history and removes it from the
// active list.
func (m *Model) handleDone(a commands.DoneArgs) (commands.Result, error) {
	ctx := context.Background()
	task, err := m.Repo.GetTask(ctx, m.Chat, a.ID)
	if err != nil {
		return commands.Result{}, taskLookupError(a.ID, err)
	}
	task.Done = true
	entry := model.DoneEntry{Task: task, CompletedAt: m.now()}
	if err := m.Repo.AppendHistory(ctx, m.Chat, entry); err != nil {
		return commands.Result{}, fmt.Errorf("append history: %w", err)
	}
	if err := m.Repo.DeleteTask(ctx, m.Chat, a.ID); err != nil {
		return commands.Result{}, fmt.Errorf("delete task: %w", err)
	}
	return commands.Result{Message: fmt.Sprintf("done [%s] %s", task.ID, task.Title)}, nil
}

func (m *Model) handleAutoToggle(a commands.AutoArgs) (commands.Result, error) {
	ctx := context.Background()
	task, err := m.Repo.GetTask(ctx, m.Chat, a.ID)
	if err != nil {
		return commands.Result{}, taskLookupError(a.ID, err)
	}
	if task.Constant {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "recurring tasks cannot be auto-planned"}
	}
	task.Auto = !task.Auto
	if err := m.Repo.UpdateTask(ctx, m.Chat, task); err != nil {
		return commands.Result{}, fmt.Errorf("update task: %w", err)
	}
	state := "off"
	if task.Auto {
		state = "on"
	}
	return commands.Result{Message: fmt.Sprintf("auto %s for [%s] %s", state, task.ID, task.Title)}, nil
}

func (m *Model) handleDelete(a commands.DeleteArgs) (commands.Result, error) {
	if err := m.Repo.DeleteTask(context.Background(), m.Chat, a.ID); err != nil {
		return commands.Result{}, taskLookupError(a.ID, err)
	}
	return commands.Result{Message: fmt.Sprintf("deleted [%s]", a.ID)}, nil
}

// handleDuplicate copies a task as a fresh flexible auto-planned one:
// fixed and recurring shape is dropped, the assignment is cleared.
func (m *Model) handleDuplicate(a commands.DuplicateArgs) (commands.Result, error) {
	ctx := context.Background()
	task, err := m.Repo.GetTask(ctx, m.Chat, a.ID)
	if err != nil {
		return commands.Result{}, taskLookupError(a.ID, err)
	}
	dup := task.Clone()
	dup.ID = newTaskID()
	dup.FixedStart = nil
	dup.FixedEnd = nil
	dup.Constant = false
	dup.Weekdays = nil
	dup.ConstantStart = nil
	dup.ConstantEnd = nil
	dup.Auto = true
	dup.Done = false
	dup.PlannedFor = ""
	dup.Status = model.StatusActive
	dup.CreatedAt = m.now()
	if dup.DeadlineAt.IsZero() {
		dup.DeadlineAt = m.PlanCfg.WindowEnd.On(m.now().AddDate(0, 0, 1))
	}
	if err := m.Repo.CreateTask(ctx, m.Chat, dup); err != nil {
		return commands.Result{}, fmt.Errorf("create duplicate: %w", err)
	}
	return commands.Result{Message: fmt.Sprintf("duplicated [%s] as [%s]", task.ID, dup.ID)}, nil
}

// handleDeadline sets a new deadline and rescues the task back to the
// active list: overdue status and the stale day assignment are cleared.
func (m *Model) handleDeadline(a commands.DeadlineArgs) (commands.Result, error) {
	ctx := context.Background()
	task, err := m.Repo.GetTask(ctx, m.Chat, a.ID)
	if err != nil {
		return commands.Result{}, taskLookupError(a.ID, err)
	}
	when, err := parseWhen(a.When, m.PlanCfg.WindowEnd.Hour, m.PlanCfg.WindowEnd.Minute)
	if err != nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
	}
	task.DeadlineAt = when
	task.Status = model.StatusActive
	task.PlannedFor = ""
	if err := m.Repo.UpdateTask(ctx, m.Chat, task); err != nil {
		return commands.Result{}, fmt.Errorf("update task: %w", err)
	}
	return commands.Result{Message: fmt.Sprintf("deadline for [%s] set to %s", task.ID, when.Format("2006-01-02 15:04"))}, nil
}

func taskLookupError(id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task with id " + id}
	}
	return err
}

func parseClockRange(raw string) (model.ClockTime, model.ClockTime, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return model.ClockTime{}, model.ClockTime{}, fmt.Errorf("between expects HH:MM-HH:MM, got %q", raw)
	}
	start, err := model.ParseClock(parts[0])
	if err != nil {
		return model.ClockTime{}, model.ClockTime{}, err
	}
	end, err := model.ParseClock(parts[1])
	if err != nil {
		return model.ClockTime{}, model.ClockTime{}, err
	}
	return start, end, nil
}
