package scheduler

import "time"

// NextDaily is the next occurrence of the given wall-clock time: today
// if it is still ahead, tomorrow otherwise. Used to seed the daily
// digest trigger.
func NextDaily(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
