/*
Package recommend derives automation suggestions from the raw action
history.

This is pure frequency analysis: it never consults the trained models.
Recommendations are recomputed fresh on every query and never stored,
and the output is fully deterministic for a fixed history (ties break
lexically), so repeated queries over unchanged data are identical.
*/
package recommend

import (
	"fmt"
	"sort"

	"github.com/ndkhanh/autopredict/internal/store"
)

const (
	// minActions is the history size below which only the collect-more
	// placeholder is returned.
	minActions = 10

	// automationThreshold is the pair frequency above which an
	// automation suggestion is emitted.
	automationThreshold = 5

	// maxAutomationPairs bounds automation suggestions to the top pairs.
	maxAutomationPairs = 5

	// scheduleThreshold is the per-hour action count above which a
	// schedule suggestion is emitted.
	scheduleThreshold = 3
)

// Recommendation kinds.
const (
	KindAutomation = "automation"
	KindSchedule   = "schedule"
	KindCollect    = "collect_data"
)

// Recommendation is a derived, non-persisted suggestion.
type Recommendation struct {
	Kind        string `json:"type"`
	Action      string `json:"action,omitempty"`
	Application string `json:"application,omitempty"`
	Frequency   int    `json:"frequency,omitempty"`
	Hour        int    `json:"hour,omitempty"`
	Message     string `json:"recommendation"`
}

// pairCount is a (action, application) pair with its usage count.
type pairCount struct {
	action      string
	application string
	count       int
}

// Recommendations mines the action history for automation and schedule
// suggestions. The list is always non-empty: short histories get a
// single collect-more-data entry rather than an error.
func Recommendations(actions []store.ActionRecord) []Recommendation {
	if len(actions) < minActions {
		return []Recommendation{{
			Kind:    KindCollect,
			Message: "Collect more usage data for better recommendations",
		}}
	}

	recs := []Recommendation{}
	recs = append(recs, automationSuggestions(actions)...)
	recs = append(recs, scheduleSuggestions(actions)...)

	if len(recs) == 0 {
		return []Recommendation{{
			Kind:    KindCollect,
			Message: "No recurring patterns yet, keep collecting usage data",
		}}
	}
	return recs
}

// automationSuggestions emits one suggestion per frequent
// (action, application) pair, top pairs first.
func automationSuggestions(actions []store.ActionRecord) []Recommendation {
	counts := make(map[[2]string]int)
	for _, a := range actions {
		counts[[2]string{a.ActionType, a.Application}]++
	}

	pairs := make([]pairCount, 0, len(counts))
	for key, count := range counts {
		pairs = append(pairs, pairCount{action: key[0], application: key[1], count: count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		if pairs[i].action != pairs[j].action {
			return pairs[i].action < pairs[j].action
		}
		return pairs[i].application < pairs[j].application
	})

	if len(pairs) > maxAutomationPairs {
		pairs = pairs[:maxAutomationPairs]
	}

	recs := []Recommendation{}
	for _, p := range pairs {
		if p.count <= automationThreshold {
			continue
		}
		recs = append(recs, Recommendation{
			Kind:        KindAutomation,
			Action:      p.action,
			Application: p.application,
			Frequency:   p.count,
			Message: fmt.Sprintf("Consider automating %s in %s (used %d times)",
				p.action, p.application, p.count),
		})
	}
	return recs
}

// scheduleSuggestions emits one suggestion per busy hour, using the
// modal action type of that hour.
func scheduleSuggestions(actions []store.ActionRecord) []Recommendation {
	byHour := make(map[int][]string)
	for _, a := range actions {
		byHour[a.TimeOfDay] = append(byHour[a.TimeOfDay], a.ActionType)
	}

	hours := make([]int, 0, len(byHour))
	for hour := range byHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	recs := []Recommendation{}
	for _, hour := range hours {
		hourActions := byHour[hour]
		if len(hourActions) <= scheduleThreshold {
			continue
		}

		mostCommon := modal(hourActions)
		recs = append(recs, Recommendation{
			Kind:      KindSchedule,
			Hour:      hour,
			Action:    mostCommon,
			Frequency: len(hourActions),
			Message: fmt.Sprintf("Schedule %s automation at %02d:00 (frequently used)",
				mostCommon, hour),
		})
	}
	return recs
}

// modal returns the most frequent string, ties broken lexically.
func modal(values []string) string {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	best := ""
	bestCount := -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best
}
