package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidClockTime = errors.New("model: invalid clock time")

// ClockTime is a time-of-day without a date, e.g. the daily window bounds
// or a recurring task's start and end.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClock(s string) (ClockTime, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	c := ClockTime{Hour: h, Minute: m}
	if err := c.Validate(); err != nil {
		return ClockTime{}, err
	}
	return c, nil
}

func (c ClockTime) Validate() error {
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidClockTime, c.Hour, c.Minute)
	}
	return nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On materializes the clock time on the given calendar day.
func (c ClockTime) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// MinuteOfDay returns minutes since midnight, used to order recurring
// ranges without materializing a date.
func (c ClockTime) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

// WeekdayIndex maps time.Weekday onto the 0=Monday..6=Sunday convention
// used by Task.Weekdays.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
