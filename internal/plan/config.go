package plan

import "github.com/mkiryanov/pland/internal/model"

// MealBlock is a recurring busy block injected into every planned day.
type MealBlock struct {
	At          model.ClockTime
	DurationMin int
	Label       string
}

// Config holds the planning parameters: the daily window, the meal
// blocks, the score coefficients, and the week shape.
type Config struct {
	// WindowStart and WindowEnd bound each planning day.
	WindowStart model.ClockTime
	WindowEnd   model.ClockTime

	Meals []MealBlock

	// Alpha scales the deadline-urgency term of the score, Beta the
	// effort term.
	Alpha float64
	Beta  float64

	// ExtremeChunkMin is the slice size used when splitting a splittable
	// extreme task across gaps.
	ExtremeChunkMin int

	// WeekDays is the horizon of the week planner and WeekRefHour the
	// reference hour used to evaluate future days.
	WeekDays    int
	WeekRefHour int
}

func DefaultConfig() Config {
	return Config{
		WindowStart: model.ClockTime{Hour: 6},
		WindowEnd:   model.ClockTime{Hour: 22},
		Meals: []MealBlock{
			{At: model.ClockTime{Hour: 8}, DurationMin: 30, Label: "Breakfast"},
			{At: model.ClockTime{Hour: 13}, DurationMin: 45, Label: "Lunch"},
			{At: model.ClockTime{Hour: 19}, DurationMin: 45, Label: "Dinner"},
		},
		Alpha:           1.0,
		Beta:            1.0,
		ExtremeChunkMin: 120,
		WeekDays:        7,
		WeekRefHour:     12,
	}
}
