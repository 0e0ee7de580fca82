package utils

import (
	"math"
	"sort"
	"time"

	"challengeTrackerAPI/internal/types/dailylog"
)

const (
	PointsPerCompletedLog = 10
	StreakWindowDays      = 30
)

func CountCompleted(logs []*dailylog.DailyLog) int {
	n := 0
	for _, l := range logs {
		if l.Completed {
			n++
		}
	}
	return n
}

func Points(logs []*dailylog.DailyLog) int {
	return PointsPerCompletedLog * CountCompleted(logs)
}

// Percentage returns round(100*part/total), or 0 when total is 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

func CompletionRate(logs []*dailylog.DailyLog) int {
	return Percentage(CountCompleted(logs), len(logs))
}

// CurrentStreak counts consecutive days ending today (inclusive) that have a
// completed log in any challenge. It looks back at most StreakWindowDays and
// stops at the first day without one, so a missing log today yields 0.
func CurrentStreak(logs []*dailylog.DailyLog, today time.Time) int {
	done := make(map[string]bool, len(logs))
	for _, l := range logs {
		if l.Completed {
			done[l.Date] = true
		}
	}

	streak := 0
	for i := 0; i < StreakWindowDays; i++ {
		if !done[FormatDate(today.AddDate(0, 0, -i))] {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive calendar days that each
// have a completed log in any challenge.
func LongestStreak(logs []*dailylog.DailyLog) int {
	seen := make(map[string]bool, len(logs))
	days := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		if !l.Completed || seen[l.Date] {
			continue
		}
		d, err := ParseDate(l.Date)
		if err != nil {
			continue
		}
		seen[l.Date] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && d.Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}
