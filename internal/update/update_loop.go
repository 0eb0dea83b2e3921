package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkiryanov/pland/internal/commands"
	"github.com/mkiryanov/pland/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshCmd()}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForTriggerCmd(m.Scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Today:
			m.CurrentView = ViewToday
			return m, nil
		case m.Keys.Week:
			m.CurrentView = ViewWeek
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Overdue:
			m.CurrentView = ViewOverdue
			return m, nil
		case m.Keys.History:
			m.CurrentView = ViewHistory
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "r":
			m.Status = StatusBar{Text: "replanning", IsError: false}
			return m, m.refreshCmd()
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleViewKey(typed)

	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case RefreshedMsg:
		return m.applyRefresh(typed), nil
	case TriggerMsg:
		return m.handleTrigger(typed.Event)
	}

	return m, nil
}

// handleViewKey moves the cursor and runs row actions on the list
// views.
func (m Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.CurrentView {
	case ViewTasks:
		switch key {
		case "j", "down":
			m.Tasks.Cursor = clampCursor(m.Tasks.Cursor+1, len(m.Tasks.Items))
		case "k", "up":
			m.Tasks.Cursor = clampCursor(m.Tasks.Cursor-1, len(m.Tasks.Items))
		case "x", "a", "d", "u":
			if m.Tasks.Cursor < len(m.Tasks.Items) {
				return m.runTaskRowAction(key, m.Tasks.Items[m.Tasks.Cursor].ID)
			}
		}
	case ViewOverdue:
		switch key {
		case "j", "down":
			m.Overdue.Cursor = clampCursor(m.Overdue.Cursor+1, len(m.Overdue.Items))
		case "k", "up":
			m.Overdue.Cursor = clampCursor(m.Overdue.Cursor-1, len(m.Overdue.Items))
		case "x", "d":
			if m.Overdue.Cursor < len(m.Overdue.Items) {
				return m.runTaskRowAction(key, m.Overdue.Items[m.Overdue.Cursor].ID)
			}
		}
	case ViewWeek:
		var cmd tea.Cmd
		m.weekTable, cmd = m.weekTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

// runTaskRowAction maps a row key onto the matching palette handler so
// both surfaces share one code path.
func (m Model) runTaskRowAction(key, id string) (tea.Model, tea.Cmd) {
	var res commands.Result
	var err error
	switch key {
	case "x":
		res, err = m.handleDone(commands.DoneArgs{ID: id})
	case "a":
		res, err = m.handleAutoToggle(commands.AutoArgs{ID: id})
	case "d":
		res, err = m.handleDelete(commands.DeleteArgs{ID: id})
	case "u":
		res, err = m.handleDuplicate(commands.DuplicateArgs{ID: id})
	default:
		return m, nil
	}
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m, m.refreshCmd()
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewToday:
		leftPane = m.renderTodayView()
	case ViewWeek:
		leftPane = m.renderWeekView()
	case ViewTasks:
		leftPane = m.renderTasksView()
	case ViewOverdue:
		leftPane = m.renderOverdueView()
	case ViewHistory:
		leftPane = m.renderHistoryView()
	}
	rightPane := m.renderCommandPalette() + m.renderDigestPane() + m.renderHelpIfVisible()

	notificationView := m.renderNotificationsView()

	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("pland | view: %s | chat: %s", m.CurrentView, m.Chat),
		LeftPane:      leftPane,
		RightPane:     rightPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  notificationView,
		Footer: fmt.Sprintf("keys: %s today | %s week | %s tasks | %s overdue | %s history | r replan | / cmd | %s help | %s quit",
			m.Keys.Today, m.Keys.Week, m.Keys.Tasks, m.Keys.Overdue, m.Keys.History, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewWeek, ViewTasks, ViewOverdue, ViewHistory:
		return true
	default:
		return false
	}
}
