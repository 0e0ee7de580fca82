package stats

import "challengeTrackerAPI/internal/types/achievement"

type UserStats struct {
	TotalLogs        int `json:"totalLogs"`
	CompletedLogs    int `json:"completedLogs"`
	CompletionRate   int `json:"completionRate"`
	CurrentStreak    int `json:"currentStreak"`
	LongestStreak    int `json:"longestStreak"`
	Points           int `json:"points"`
	JoinedChallenges int `json:"joinedChallenges"`
	Rank             int `json:"rank"`

	Achievements []achievement.AchievementWithStatus `json:"achievements"`
}
