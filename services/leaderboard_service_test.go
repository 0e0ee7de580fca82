package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/types/dailylog"
	"challengeTrackerAPI/internal/types/user"
)

func logDays(t *testing.T, env *testEnv, userID, challengeID string, completed bool, dates ...string) {
	t.Helper()
	for _, d := range dates {
		_, err := env.logs.SaveDailyLog(context.Background(), userID, challengeID, d, &dailylog.SaveDailyLogRequest{Text: "log", Completed: completed})
		require.NoError(t, err)
	}
}

func TestLeaderboard_StableTies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.createChallenge(t, "Running", "2025-01-01", "2025-01-31")
	ann := env.signUp(t, "Ann", "ann@x.com")
	bea := env.signUp(t, "Bea", "bea@x.com")
	cid := env.signUp(t, "Cid", "cid@x.com")

	logDays(t, env, cid.ID, c.ID, true, "2025-01-10")
	logDays(t, env, ann.ID, c.ID, true, "2025-01-08", "2025-01-09", "2025-01-10")
	logDays(t, env, bea.ID, c.ID, true, "2025-01-01", "2025-01-02", "2025-01-03")

	board, err := env.leaderboard.GetLeaderboard(ctx, bea.ID)
	require.NoError(t, err)
	require.Len(t, board.Entries, 3)

	var points, ranks []int
	var names []string
	for _, e := range board.Entries {
		points = append(points, e.Points)
		ranks = append(ranks, e.Rank)
		names = append(names, e.Name)
	}
	assert.Equal(t, []int{30, 30, 10}, points)
	assert.Equal(t, []int{1, 2, 3}, ranks)
	assert.Equal(t, []string{"Ann", "Bea", "Cid"}, names)

	assert.Equal(t, 3, board.Entries[0].Streak)
	assert.Equal(t, 0, board.Entries[1].Streak)
	assert.Equal(t, 1, board.Entries[2].Streak)

	require.NotNil(t, board.UserPosition)
	assert.Equal(t, 2, board.UserPosition.Rank)
	assert.Equal(t, 3, board.TotalUsers)
}

func TestLeaderboard_MembersOnlyAndZeroLogs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.users.EnsureAdmin(ctx, "Admin", "admin@x.com", "adminpass"))
	jane := env.signUp(t, "Jane", "jane@x.com")

	board, err := env.leaderboard.GetLeaderboard(ctx, "")
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, jane.ID, board.Entries[0].UserID)
	assert.Equal(t, 0, board.Entries[0].CompletionRate)
	assert.Equal(t, 0, board.Entries[0].Points)
	assert.Nil(t, board.UserPosition)
}

func TestLeaderboard_CompletionRateAndStreakGap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.createChallenge(t, "Running", "2025-01-01", "2025-01-31")
	jane := env.signUp(t, "Jane", "jane@x.com")

	// Completed T, T-1, T-2 but not T-3.
	logDays(t, env, jane.ID, c.ID, true, "2025-01-10", "2025-01-09", "2025-01-08", "2025-01-06")
	logDays(t, env, jane.ID, c.ID, false, "2025-01-07")

	board, err := env.leaderboard.GetLeaderboard(ctx, jane.ID)
	require.NoError(t, err)
	e := board.UserPosition
	require.NotNil(t, e)
	assert.Equal(t, 3, e.Streak)
	assert.Equal(t, 40, e.Points)
	assert.Equal(t, 80, e.CompletionRate)
}

func TestGetUserStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.createChallenge(t, "Running", "2025-01-01", "2025-01-31")
	jane := env.signUp(t, "Jane", "jane@x.com")
	bob := env.signUp(t, "Bob", "bob@x.com")

	_, err := env.challenges.JoinChallenge(ctx, jane.ID, c.ID)
	require.NoError(t, err)
	logDays(t, env, jane.ID, c.ID, true, "2025-01-09", "2025-01-10")
	logDays(t, env, jane.ID, c.ID, false, "2025-01-08")
	logDays(t, env, bob.ID, c.ID, true, "2025-01-05", "2025-01-06", "2025-01-07")

	stats, err := env.leaderboard.GetUserStats(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalLogs)
	assert.Equal(t, 2, stats.CompletedLogs)
	assert.Equal(t, 67, stats.CompletionRate)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestStreak)
	assert.Equal(t, 20, stats.Points)
	assert.Equal(t, 1, stats.JoinedChallenges)
	assert.Equal(t, 2, stats.Rank)
	require.Len(t, stats.Achievements, 4)
	assert.True(t, stats.Achievements[0].Unlocked)
	assert.False(t, stats.Achievements[1].Unlocked)
}

func TestGetAchievements(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.createChallenge(t, "Running", "2024-12-01", "2025-01-31")
	jane := env.signUp(t, "Jane", "jane@x.com")

	list, err := env.leaderboard.GetAchievements(ctx, jane.ID)
	require.NoError(t, err)
	for _, a := range list {
		assert.False(t, a.Unlocked, a.ID)
	}

	// A finished week in December, then a gap, then fifteen days in total.
	var dates []string
	for d := 1; d <= 7; d++ {
		dates = append(dates, fmt.Sprintf("2024-12-%02d", d))
	}
	for d := 1; d <= 8; d++ {
		dates = append(dates, fmt.Sprintf("2025-01-%02d", d))
	}
	logDays(t, env, jane.ID, c.ID, true, dates...)

	stats, err := env.leaderboard.GetUserStats(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stats.CompletedLogs)
	assert.Equal(t, 8, stats.LongestStreak)
	assert.Equal(t, 0, stats.CurrentStreak)

	list, err = env.leaderboard.GetAchievements(ctx, jane.ID)
	require.NoError(t, err)
	got := map[string]bool{}
	for _, a := range list {
		got[a.ID] = a.Unlocked
	}
	assert.Equal(t, map[string]bool{
		"first-step":         true,
		"week-warrior":       true,
		"consistency-king":   true,
		"challenge-champion": false,
	}, got)

	_, err = env.leaderboard.GetAchievements(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRank_Empty(t *testing.T) {
	entries := Rank([]*user.User{}, nil, fixedNow)
	assert.Empty(t, entries)
}

// Jane signs up, logs the same day twice and shows up on the leaderboard
// with a single completed log.
func TestEndToEnd_SignUpLogLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.createChallenge(t, "c1", "2025-01-01", "2025-01-31")

	resp, err := env.users.SignUp(ctx, "Jane", "jane@x.com", "secret1")
	require.NoError(t, err)
	jane := resp.User

	first, err := env.logs.SaveDailyLog(ctx, jane.ID, c.ID, "2025-01-10", &dailylog.SaveDailyLogRequest{Text: "ran 5k", Completed: true})
	require.NoError(t, err)
	second, err := env.logs.SaveDailyLog(ctx, jane.ID, c.ID, "2025-01-10", &dailylog.SaveDailyLogRequest{Text: "ran 6k", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ran 6k", second.Text)

	journal, err := env.logs.GetJournal(ctx, jane.ID, "")
	require.NoError(t, err)
	assert.Len(t, journal, 1)

	board, err := env.leaderboard.GetLeaderboard(ctx, jane.ID)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "Jane", board.Entries[0].Name)
	assert.Equal(t, 10, board.Entries[0].Points)
	assert.Equal(t, 100, board.Entries[0].CompletionRate)
	assert.Equal(t, 1, board.Entries[0].Rank)
}
