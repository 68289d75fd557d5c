package recommend

import (
	"time"

	"github.com/ndkhanh/autopredict/internal/store"
)

// Patterns aggregates the action history into activity histograms and
// usage counts. Like Recommendations, it is a derived view recomputed on
// every call.
type Patterns struct {
	HourlyActivity map[int]int    `json:"hourly_activity"`
	DailyActivity  map[int]int    `json:"daily_activity"`
	AppUsage       map[string]int `json:"app_usage"`
	ActionPatterns map[string]int `json:"action_patterns"`
	SuccessRate    float64        `json:"success_rate"`
	TotalActions   int            `json:"total_actions"`
	AnalyzedAt     time.Time      `json:"analysis_timestamp"`
}

// AnalyzePatterns builds the aggregate view over the full history. An
// empty history yields empty maps and a success rate of zero.
func AnalyzePatterns(actions []store.ActionRecord) Patterns {
	p := Patterns{
		HourlyActivity: make(map[int]int),
		DailyActivity:  make(map[int]int),
		AppUsage:       make(map[string]int),
		ActionPatterns: make(map[string]int),
		TotalActions:   len(actions),
		AnalyzedAt:     time.Now(),
	}

	successes := 0
	for _, a := range actions {
		p.HourlyActivity[a.TimeOfDay]++
		p.DailyActivity[a.DayOfWeek]++
		p.AppUsage[a.Application]++
		p.ActionPatterns[a.ActionType]++
		if a.Success {
			successes++
		}
	}

	if len(actions) > 0 {
		p.SuccessRate = float64(successes) / float64(len(actions))
	}
	return p
}
