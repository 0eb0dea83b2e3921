package update

import (
	"strings"

	"github.com/mkiryanov/pland/internal/model"
	"github.com/mkiryanov/pland/internal/plan"
	"github.com/mkiryanov/pland/internal/views"
)

func planItemsData(items []plan.PlanItem) []views.PlanItemData {
	out := make([]views.PlanItemData, 0, len(items))
	for _, it := range items {
		out = append(out, views.PlanItemData{
			Start: it.Start.Format("15:04"),
			End:   it.End.Format("15:04"),
			Label: it.Label,
		})
	}
	return out
}

func (m Model) taskRowData(t model.Task) views.TaskRowData {
	row := views.TaskRowData{
		ID:         t.ID,
		Title:      t.Title,
		Kind:       string(t.Kind()),
		Effort:     string(t.Effort),
		Status:     string(t.Status),
		Done:       t.Done,
		Auto:       t.Auto,
		PlannedFor: t.PlannedFor,
	}
	if !t.DeadlineAt.IsZero() {
		row.TimeLeft = formatLeft(m.now(), t.Anchor())
	}
	return row
}

func (m Model) renderTodayView() string {
	return views.RenderTodayPanel(views.TodayPanelData{
		Date:  m.Today.Date,
		Quote: m.Today.Quote,
		Items: planItemsData(m.Today.Items),
	})
}

func (m Model) renderWeekView() string {
	days := make([]views.WeekDayData, 0, len(m.Week.Days))
	for _, day := range m.Week.Days {
		days = append(days, views.WeekDayData{
			Label: day.Label,
			Items: planItemsData(day.Items),
		})
	}
	return views.RenderWeekPanel(views.WeekPanelData{
		Days:      days,
		TableView: m.weekTable.View(),
	})
}

func (m Model) renderTasksView() string {
	items := make([]views.TaskRowData, 0, len(m.Tasks.Items))
	for _, t := range m.Tasks.Items {
		items = append(items, m.taskRowData(t))
	}
	return views.RenderTasksPanel(views.TasksPanelData{Items: items, Cursor: m.Tasks.Cursor})
}

func (m Model) renderOverdueView() string {
	items := make([]views.TaskRowData, 0, len(m.Overdue.Items))
	for _, t := range m.Overdue.Items {
		items = append(items, m.taskRowData(t))
	}
	return views.RenderOverduePanel(views.OverduePanelData{Items: items, Cursor: m.Overdue.Cursor})
}

func (m Model) renderHistoryView() string {
	entries := make([]views.HistoryEntryData, 0, len(m.History.Entries))
	for _, e := range m.History.Entries {
		entries = append(entries, views.HistoryEntryData{
			Title:       e.Task.Title,
			CompletedAt: e.CompletedAt.Format("2006-01-02 15:04"),
		})
	}
	return views.RenderHistoryPanel(views.HistoryPanelData{Entries: entries})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderDigestPane() string {
	if m.Digest == "" {
		return ""
	}
	return "\n" + views.RenderMarkdown(m.Digest)
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n" + views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    strings.Split(m.helpModel.View(m.helpKeys), "\n"),
	})
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return strings.TrimSpace(views.RenderNotification(n.Level, n.Body))
}
