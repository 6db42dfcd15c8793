package fleet

import (
	"math"
	"time"
)

const (
	// DeliveryWindow is the trailing window for daily delivery counts.
	DeliveryWindow = 7 * 24 * time.Hour

	// OnTimeGrace is how late a delivery may be and still count as on time.
	OnTimeGrace = 15 * time.Minute
)

// DailyDeliveries counts delivered jobs per UTC calendar date ("2006-01-02")
// for jobs completed within [now-DeliveryWindow, now].
func DailyDeliveries(jobs []DeliveryJob, now time.Time) map[string]int {
	from := now.Add(-DeliveryWindow)
	counts := make(map[string]int)
	for _, j := range jobs {
		if j.Status != JobDelivered || j.CompletedAt == nil {
			continue
		}
		done := *j.CompletedAt
		if done.Before(from) || done.After(now) {
			continue
		}
		counts[done.UTC().Format(time.DateOnly)]++
	}
	return counts
}

// OnTimeStats summarises delivery punctuality.
type OnTimeStats struct {
	Percentage float64 `json:"on_time_percentage"`
	Total      int     `json:"total_jobs"`
	OnTime     int     `json:"on_time_jobs"`
}

// OnTimePercentage rates delivered jobs whose actual ETA is no later than
// the estimated ETA plus grace. Jobs missing either ETA are not counted.
// The percentage is rounded to two decimals and is 0 when nothing counts.
func OnTimePercentage(jobs []DeliveryJob, grace time.Duration) OnTimeStats {
	var stats OnTimeStats
	for _, j := range jobs {
		if j.Status != JobDelivered || j.EstimatedETA == nil || j.ActualETA == nil {
			continue
		}
		stats.Total++
		if !j.ActualETA.After(j.EstimatedETA.Add(grace)) {
			stats.OnTime++
		}
	}
	if stats.Total > 0 {
		pct := float64(stats.OnTime) / float64(stats.Total) * 100 //nolint:mnd // percent
		stats.Percentage = math.Round(pct*100) / 100                //nolint:mnd // two decimals
	}
	return stats
}
