package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/mkiryanov/pland/internal/alerts"
	"github.com/mkiryanov/pland/internal/model"
	"github.com/mkiryanov/pland/internal/plan"
	"github.com/mkiryanov/pland/internal/quotes"
	"github.com/mkiryanov/pland/internal/scheduler"
	"github.com/mkiryanov/pland/internal/storage"
)

type View string

const (
	ViewToday   View = "Today"
	ViewWeek    View = "Week"
	ViewTasks   View = "Tasks"
	ViewOverdue View = "Overdue"
	ViewHistory View = "History"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today   string
	Week    string
	Tasks   string
	Overdue string
	History string
	Help    string
	Quit    string
}

type TodayState struct {
	Date  string
	Quote string
	Items []plan.PlanItem
}

type WeekState struct {
	Days []plan.WeekDay
}

type TasksState struct {
	Items  []model.Task
	Cursor int
}

type OverdueState struct {
	Items  []model.Task
	Cursor int
}

type HistoryState struct {
	Entries []model.DoneEntry
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// helpKeyMap adapts the global bindings to the bubbles help component.
type helpKeyMap struct {
	bindings []key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.bindings }
func (k helpKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.bindings} }

type Model struct {
	CurrentView View
	Chat        string

	Today   TodayState
	Week    WeekState
	Tasks   TasksState
	Overdue OverdueState
	History HistoryState

	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Notifications  []Notification
	DesktopEnabled bool
	Quitting       bool
	LastError      error

	Repo      storage.Repository
	Scheduler *scheduler.Engine
	PlanCfg   plan.Config
	Quotes    *quotes.Book
	Digest    string

	notifier      DesktopNotifier
	now           func() time.Time
	digestPending bool

	commandInput textinput.Model
	weekTable    table.Model
	helpModel    help.Model
	helpKeys     helpKeyMap
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// RefreshedMsg carries a freshly computed application state: the task
// list after the overdue sweep, both plans, and any sweep notices to
// surface.
type RefreshedMsg struct {
	Tasks   []model.Task
	Items   []plan.PlanItem
	Date    string
	Week    []plan.WeekDay
	History []model.DoneEntry
	Notices []alerts.OverdueNotice
	Err     error
}

type TriggerMsg struct {
	Event scheduler.TriggerEvent
}

func NewModel(repo storage.Repository, engine *scheduler.Engine, book *quotes.Book, cfg RuntimeConfig) Model {
	m := Model{
		CurrentView:    ViewToday,
		Chat:           cfg.Chat,
		Repo:           repo,
		Scheduler:      engine,
		PlanCfg:        cfg.PlanConfig(),
		Quotes:         book,
		DesktopEnabled: cfg.DesktopNotifications,
		notifier:       NoopDesktopNotifier{},
		now:            time.Now,
		Keys: GlobalKeyMap{
			Today:   "1",
			Week:    "2",
			Tasks:   "3",
			Overdue: "4",
			History: "5",
			Help:    "?",
			Quit:    "q",
		},
	}
	if cfg.DesktopNotifications {
		m.notifier = ExecDesktopNotifier{}
	}
	m.initBubbleComponents()
	return m
}

// WithNotifier swaps the desktop notifier, used by tests.
func (m Model) WithNotifier(n DesktopNotifier) Model {
	if n != nil {
		m.notifier = n
	}
	return m
}

// WithClock fixes the wall clock, used by tests.
func (m Model) WithClock(now func() time.Time) Model {
	if now != nil {
		m.now = now
	}
	return m
}

func (m *Model) initBubbleComponents() {
	input := textinput.New()
	input.Placeholder = "add title due:... dur:... | done <id> | show week"
	input.CharLimit = 200
	m.commandInput = input

	m.weekTable = table.New(
		table.WithColumns([]table.Column{
			{Title: "Day", Width: 10},
			{Title: "Slots", Width: 8},
			{Title: "First", Width: 12},
		}),
		table.WithHeight(8),
	)

	m.helpModel = help.New()
	m.helpKeys = helpKeyMap{bindings: []key.Binding{
		key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "today")),
		key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "week")),
		key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "tasks")),
		key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "overdue")),
		key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "history")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "replan")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}}
}

// syncWeekTable mirrors the week state into the bubbles table used at
// the top of the week pane.
func (m *Model) syncWeekTable() {
	rows := make([]table.Row, 0, len(m.Week.Days))
	for _, day := range m.Week.Days {
		first := ""
		if len(day.Items) > 0 {
			first = day.Items[0].Start.Format("15:04") + " " + day.Items[0].Label
		}
		rows = append(rows, table.Row{day.Label, fmt.Sprintf("%d", len(day.Items)), first})
	}
	m.weekTable.SetRows(rows)
}
