package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// newTaskID is a short, human-typable task id.
func newTaskID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// formatLeft renders the time until a deadline as hh:mm, clamped at
// zero once it has passed.
func formatLeft(now, to time.Time) string {
	if !to.After(now) {
		return "00:00"
	}
	total := int(to.Sub(now) / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// parseWhen accepts a date or a date with time, interpreted in the
// local clock: "2006-01-02", "2006-01-02 15:04" or "2006-01-02T15:04".
// Bare dates resolve to the end of the planning day.
func parseWhen(raw string, dayEndHour, dayEndMinute int) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04"} {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, nil
		}
	}
	if day, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return time.Date(day.Year(), day.Month(), day.Day(), dayEndHour, dayEndMinute, 0, 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", raw)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}
