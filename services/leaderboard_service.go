package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/types/achievement"
	"challengeTrackerAPI/internal/types/dailylog"
	"challengeTrackerAPI/internal/types/leaderboard"
	"challengeTrackerAPI/internal/types/stats"
	"challengeTrackerAPI/internal/types/user"
	"challengeTrackerAPI/utils"
)

// LeaderboardService derives rankings from users and logs on every call.
// Nothing is cached.
type LeaderboardService struct {
	store store.Store
	now   func() time.Time
}

func NewLeaderboardService(st store.Store) *LeaderboardService {
	return &LeaderboardService{store: st, now: time.Now}
}

// GetLeaderboard ranks members by points, highest first. Ties keep member
// creation order. viewerID selects UserPosition and may be empty.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, viewerID string) (*leaderboard.Leaderboard, error) {
	members, err := s.store.Users().List(ctx, store.UserFilter{Role: user.RoleMember})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	logs, err := s.store.DailyLogs().List(ctx, store.DailyLogFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	entries := Rank(members, logs, s.now())

	board := &leaderboard.Leaderboard{Entries: entries, TotalUsers: len(entries)}
	for _, e := range entries {
		if e.UserID == viewerID {
			board.UserPosition = e
			break
		}
	}
	return board, nil
}

// GetUserStats summarizes one user's logs. Rank is 0 for non-members.
func (s *LeaderboardService) GetUserStats(ctx context.Context, userID string) (*stats.UserStats, error) {
	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	mine, err := s.store.DailyLogs().List(ctx, store.DailyLogFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	board, err := s.GetLeaderboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := utils.CountCompleted(mine)
	longest := utils.LongestStreak(mine)
	out := &stats.UserStats{
		TotalLogs:        len(mine),
		CompletedLogs:    completed,
		CompletionRate:   utils.CompletionRate(mine),
		CurrentStreak:    utils.CurrentStreak(mine, s.now()),
		LongestStreak:    longest,
		Points:           utils.Points(mine),
		JoinedChallenges: len(u.JoinedChallenges),
		Achievements:     achievement.Evaluate(completed, longest),
	}
	if board.UserPosition != nil {
		out.Rank = board.UserPosition.Rank
	}
	return out, nil
}

// GetAchievements lists every badge with the user's unlocked state.
func (s *LeaderboardService) GetAchievements(ctx context.Context, userID string) ([]achievement.AchievementWithStatus, error) {
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	mine, err := s.store.DailyLogs().List(ctx, store.DailyLogFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return achievement.Evaluate(utils.CountCompleted(mine), utils.LongestStreak(mine)), nil
}

// Rank builds one entry per member in input order, then stable-sorts by
// points descending and numbers them from 1.
func Rank(members []*user.User, logs []*dailylog.DailyLog, today time.Time) []*leaderboard.LeaderboardEntry {
	byUser := make(map[string][]*dailylog.DailyLog, len(members))
	for _, l := range logs {
		byUser[l.UserID] = append(byUser[l.UserID], l)
	}

	entries := make([]*leaderboard.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		mine := byUser[m.ID]
		entries = append(entries, &leaderboard.LeaderboardEntry{
			UserID:         m.ID,
			Name:           m.Name,
			Avatar:         m.Avatar,
			Points:         utils.Points(mine),
			CompletionRate: utils.CompletionRate(mine),
			Streak:         utils.CurrentStreak(mine, today),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries
}
