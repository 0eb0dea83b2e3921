package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkiryanov/pland/internal/alerts"
	"github.com/mkiryanov/pland/internal/scheduler"
	"github.com/mkiryanov/pland/internal/views"
)

func waitForTriggerCmd(ch <-chan scheduler.TriggerEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return TriggerMsg{Event: ev}
	}
}

// ScheduleTriggers seeds the recurring background jobs: the morning
// digest at the configured time and the deadline watchdog.
func ScheduleTriggers(engine *scheduler.Engine, cfg RuntimeConfig, now time.Time) error {
	if err := engine.Schedule(scheduler.TriggerEvent{
		ID:        "digest",
		Kind:      scheduler.KindDigest,
		TriggerAt: scheduler.NextDaily(now, cfg.DigestTime.Hour, cfg.DigestTime.Minute),
		Every:     24 * time.Hour,
	}); err != nil {
		return err
	}
	every := time.Duration(cfg.WatchdogMinutes) * time.Minute
	return engine.Schedule(scheduler.TriggerEvent{
		ID:        "watchdog",
		Kind:      scheduler.KindWatchdog,
		TriggerAt: now.Add(every),
		Every:     every,
	})
}

func (m Model) handleTrigger(ev scheduler.TriggerEvent) (Model, tea.Cmd) {
	switch ev.Kind {
	case scheduler.KindDigest:
		// The digest must reflect the refresh issued below, not the
		// state loaded before the trigger fired.
		m.digestPending = true
	case scheduler.KindWatchdog:
		m = m.runWatchdog()
	}

	cmds := []tea.Cmd{m.refreshCmd()}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForTriggerCmd(m.Scheduler.C()))
	}
	return m, tea.Batch(cmds...)
}

// buildDigest renders the digest from the current today plan and sends
// it as a notification.
func (m Model) buildDigest() Model {
	items := make([]views.PlanItemData, 0, len(m.Today.Items))
	for _, it := range m.Today.Items {
		items = append(items, views.PlanItemData{
			Start: it.Start.Format("15:04"),
			End:   it.End.Format("15:04"),
			Label: it.Label,
		})
	}
	m.Digest = views.RenderDigest(views.DigestData{
		Quote: m.Quotes.Random(),
		Date:  m.Today.Date,
		Items: items,
	})
	m.notify("Morning Digest", m.Digest, "info")
	return m
}

// runWatchdog raises deadline warnings for the currently loaded tasks.
// The refresh command issued alongside performs the overdue sweep.
func (m Model) runWatchdog() Model {
	now := m.now()
	for _, alert := range alerts.CheckDeadlines(now, m.Tasks.Items) {
		switch alert.Severity {
		case alerts.SeverityUrgent:
			m.notify("Deadline", "URGENT: deadline for \""+alert.Title+"\" is less than 4 hours away", "error")
		default:
			m.notify("Deadline", "deadline for \""+alert.Title+"\" is approaching, speed up", "info")
		}
	}
	return m
}
