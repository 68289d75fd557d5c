package feature

import (
	"time"

	"github.com/ndkhanh/autopredict/internal/store"
)

// Context is the typed prediction input for the behavior model. It
// enumerates every recognized field with an explicit default instead of
// accepting an open map.
type Context struct {
	// Hour of day (0-23).
	Hour int `json:"hour"`

	// DayOfWeek (0=Monday .. 6=Sunday).
	DayOfWeek int `json:"day_of_week"`

	// ApplicationUsage is the number of distinct applications in use.
	ApplicationUsage int `json:"application_usage"`

	// ClickCount is the recent mouse click count.
	ClickCount int `json:"click_count"`

	// WindowSwitches is the recent window switch count.
	WindowSwitches int `json:"window_switches"`

	// KeystrokeCount is the recent keystroke count.
	KeystrokeCount int `json:"keystroke_count"`

	// IdleTime is seconds since last input.
	IdleTime float64 `json:"idle_time"`

	// Duration is the expected duration of the next action in seconds.
	Duration float64 `json:"duration"`
}

// DefaultContext returns a context for "now" with the standard activity
// counter defaults.
func DefaultContext() Context {
	now := time.Now()
	return Context{
		Hour:             now.Hour(),
		DayOfWeek:        store.Weekday(now),
		ApplicationUsage: 1,
		ClickCount:       5,
		WindowSwitches:   2,
		KeystrokeCount:   50,
		IdleTime:         30,
		Duration:         0,
	}
}

// ActivityScore is the intensity measure behind the synthetic activity
// buckets: clicks + window switches + keystrokes/10.
func (c Context) ActivityScore() float64 {
	return float64(c.ClickCount) + float64(c.WindowSwitches) + float64(c.KeystrokeCount)/10
}
