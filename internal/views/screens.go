package views

import (
	"fmt"
	"strings"
)

type PlanItemData struct {
	Start string
	End   string
	Label string
}

type TodayPanelData struct {
	Date  string
	Quote string
	Items []PlanItemData
}

type WeekDayData struct {
	Label string
	Items []PlanItemData
}

type WeekPanelData struct {
	Days      []WeekDayData
	TableView string
}

type TaskRowData struct {
	ID         string
	Title      string
	Kind       string
	Effort     string
	Status     string
	Done       bool
	Auto       bool
	TimeLeft   string
	PlannedFor string
}

type TasksPanelData struct {
	Items  []TaskRowData
	Cursor int
}

type OverduePanelData struct {
	Items  []TaskRowData
	Cursor int
}

type HistoryEntryData struct {
	Title       string
	CompletedAt string
}

type HistoryPanelData struct {
	Entries []HistoryEntryData
}

type DigestData struct {
	Quote string
	Date  string
	Items []PlanItemData
}

// FormatPlanLines renders plan items as plain text, shared between the
// TUI panels and the CLI output.
func FormatPlanLines(items []PlanItemData) []string {
	if len(items) == 0 {
		return []string{"(free day)"}
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("%s-%s • %s", item.Start, item.End, item.Label)
	}
	return out
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	if data.Quote != "" {
		b.WriteString(data.Quote + "\n\n")
	}
	b.WriteString("today " + data.Date + ":\n")
	b.WriteString("actions: [r]replan [1-5]views [/]cmd\n")
	for _, line := range FormatPlanLines(data.Items) {
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderWeekPanel(data WeekPanelData) string {
	var b strings.Builder
	b.WriteString("week:\n")
	if data.TableView != "" {
		b.WriteString(data.TableView + "\n")
	}
	for _, day := range data.Days {
		b.WriteString("\n" + day.Label + ":\n")
		for _, line := range FormatPlanLines(day.Items) {
			b.WriteString("  " + line + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString("actions: [j/k]move [x]done [a]auto [d]del [u]dup\n")
	if len(data.Items) == 0 {
		b.WriteString("(no tasks)")
		return b.String()
	}
	for i, item := range data.Items {
		b.WriteString(taskRow(item, i == data.Cursor) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderOverduePanel(data OverduePanelData) string {
	var b strings.Builder
	b.WriteString("overdue:\n")
	b.WriteString("actions: [j/k]move [x]done [d]del | deadline <id> <time> to rescue\n")
	if len(data.Items) == 0 {
		b.WriteString("(nothing overdue)")
		return b.String()
	}
	for i, item := range data.Items {
		b.WriteString(taskRow(item, i == data.Cursor) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderHistoryPanel(data HistoryPanelData) string {
	var b strings.Builder
	b.WriteString("history:\n")
	if len(data.Entries) == 0 {
		b.WriteString("(nothing completed yet)")
		return b.String()
	}
	for _, entry := range data.Entries {
		b.WriteString(fmt.Sprintf("%s ✓ %s\n", entry.CompletedAt, entry.Title))
	}
	return strings.TrimSpace(b.String())
}

// RenderDigest is the morning digest body, sent as a notification and
// shown in the today pane after the daily trigger.
func RenderDigest(data DigestData) string {
	var b strings.Builder
	b.WriteString(data.Quote + "\n\n")
	b.WriteString("plan for " + data.Date + ":\n")
	for _, line := range FormatPlanLines(data.Items) {
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nview: %s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
	)
}

func taskRow(item TaskRowData, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	icon := statusIcon(item)
	row := fmt.Sprintf("%s %s [%s] %s (%s, %s)", cursor, icon, item.ID, item.Title, item.Kind, item.Effort)
	if item.Auto {
		row += " auto"
	}
	if item.TimeLeft != "" {
		row += " left:" + item.TimeLeft
	}
	if item.PlannedFor != "" {
		row += " planned:" + item.PlannedFor
	}
	return row
}

func statusIcon(item TaskRowData) string {
	switch {
	case item.Done:
		return "✓"
	case item.Status == "Overdue":
		return "!"
	default:
		return "·"
	}
}
