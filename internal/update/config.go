package update

import (
	"os"
	"strconv"
	"strings"

	"github.com/mkiryanov/pland/internal/model"
	"github.com/mkiryanov/pland/internal/plan"
)

type RuntimeConfig struct {
	DBPath               string
	Chat                 string
	QuotesPath           string
	DesktopNotifications bool
	DigestTime           model.ClockTime
	WatchdogMinutes      int
	DayStart             model.ClockTime
	DayEnd               model.ClockTime
	Alpha                float64
	Beta                 float64
	SchedulerBuffer      int
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               "pland.db",
		Chat:                 "default",
		QuotesPath:           "quotes.json",
		DesktopNotifications: false,
		DigestTime:           model.ClockTime{Hour: 7, Minute: 30},
		WatchdogMinutes:      30,
		DayStart:             model.ClockTime{Hour: 6},
		DayEnd:               model.ClockTime{Hour: 22},
		Alpha:                1.0,
		Beta:                 1.0,
		SchedulerBuffer:      64,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("PLAND_DB")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("PLAND_CHAT")); v != "" {
		cfg.Chat = v
	}
	if v := strings.TrimSpace(os.Getenv("PLAND_QUOTES")); v != "" {
		cfg.QuotesPath = v
	}
	if v, ok := getEnvBool("PLAND_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvClock("PLAND_DIGEST_TIME"); ok {
		cfg.DigestTime = v
	}
	if v, ok := getEnvInt("PLAND_WATCHDOG_MINUTES"); ok && v > 0 {
		cfg.WatchdogMinutes = v
	}
	if v, ok := getEnvClock("PLAND_DAY_START"); ok {
		cfg.DayStart = v
	}
	if v, ok := getEnvClock("PLAND_DAY_END"); ok {
		cfg.DayEnd = v
	}
	if v, ok := getEnvFloat("PLAND_ALPHA"); ok && v > 0 {
		cfg.Alpha = v
	}
	if v, ok := getEnvFloat("PLAND_BETA"); ok && v >= 0 {
		cfg.Beta = v
	}
	if v, ok := getEnvInt("PLAND_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	return cfg
}

// PlanConfig builds the planning parameters from the runtime settings,
// keeping the stock meals.
func (cfg RuntimeConfig) PlanConfig() plan.Config {
	out := plan.DefaultConfig()
	out.WindowStart = cfg.DayStart
	out.WindowEnd = cfg.DayEnd
	out.Alpha = cfg.Alpha
	out.Beta = cfg.Beta
	return out
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvFloat(name string) (float64, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

func getEnvClock(name string) (model.ClockTime, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return model.ClockTime{}, false
	}
	c, err := model.ParseClock(raw)
	if err != nil {
		return model.ClockTime{}, false
	}
	return c, true
}
