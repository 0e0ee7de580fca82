package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"challengeTrackerAPI/internal/types/dailylog"
)

func completedOn(dates ...string) []*dailylog.DailyLog {
	var logs []*dailylog.DailyLog
	for _, d := range dates {
		logs = append(logs, &dailylog.DailyLog{Date: d, Completed: true})
	}
	return logs
}

func TestCurrentStreak(t *testing.T) {
	today := time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC)

	t.Run("three consecutive days ending today", func(t *testing.T) {
		logs := completedOn("2025-01-10", "2025-01-09", "2025-01-08", "2025-01-06")
		assert.Equal(t, 3, CurrentStreak(logs, today))
	})

	t.Run("no log today breaks the streak", func(t *testing.T) {
		logs := completedOn("2025-01-09", "2025-01-08")
		assert.Equal(t, 0, CurrentStreak(logs, today))
	})

	t.Run("incomplete log does not count", func(t *testing.T) {
		logs := completedOn("2025-01-09")
		logs = append(logs, &dailylog.DailyLog{Date: "2025-01-10", Completed: false})
		assert.Equal(t, 0, CurrentStreak(logs, today))
	})

	t.Run("several challenges on the same day count once", func(t *testing.T) {
		logs := completedOn("2025-01-10", "2025-01-10", "2025-01-09")
		assert.Equal(t, 2, CurrentStreak(logs, today))
	})

	t.Run("capped at thirty days", func(t *testing.T) {
		var dates []string
		for i := 0; i < 45; i++ {
			dates = append(dates, FormatDate(today.AddDate(0, 0, -i)))
		}
		assert.Equal(t, StreakWindowDays, CurrentStreak(completedOn(dates...), today))
	})
}

func TestLongestStreak(t *testing.T) {
	assert.Equal(t, 0, LongestStreak(nil))

	logs := completedOn("2025-01-01", "2025-01-02", "2025-01-03", "2025-01-05", "2025-01-06")
	assert.Equal(t, 3, LongestStreak(logs))

	logs = completedOn("2025-01-31", "2025-02-01", "2025-01-30", "2025-01-30")
	logs = append(logs, &dailylog.DailyLog{Date: "2025-02-02"})
	assert.Equal(t, 3, LongestStreak(logs))
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0, CompletionRate(nil))

	logs := completedOn("2025-01-01", "2025-01-02")
	logs = append(logs, &dailylog.DailyLog{Date: "2025-01-03"})
	assert.Equal(t, 67, CompletionRate(logs))
	assert.Equal(t, 20, Points(logs))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(3, 0))
	assert.Equal(t, 50, Percentage(15, 30))
	assert.Equal(t, 100, Percentage(1, 1))
}

func TestDurationDays(t *testing.T) {
	days, err := DurationDays("2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	_, err = DurationDays("2025-01-01", "Jan 31")
	assert.Error(t, err)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JD", Initials("jane doe"))
	assert.Equal(t, "J", Initials("Jane"))
	assert.Equal(t, "AB", Initials("  Ada  Byron King "))
	assert.Equal(t, "?", Initials(""))
	assert.Contains(t, DefaultAvatar("Jane Doe"), "seed=JD")
}
