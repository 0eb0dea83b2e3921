package plan

import "time"

const dateLayout = "2006-01-02"

// DateKey renders the calendar date used to stamp single-day assignments.
func DateKey(day time.Time) string {
	return day.Format(dateLayout)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayWindow is the plannable span of the given day. When the day is
// today and the moment has already passed the window start, the window
// begins now instead; an exhausted window collapses to empty.
func (c Config) DayWindow(day, now time.Time) (time.Time, time.Time) {
	start := c.WindowStart.On(day)
	end := c.WindowEnd.On(day)
	if sameDate(day, now) && now.After(start) {
		start = now
	}
	if start.After(end) {
		start = end
	}
	return start, end
}
