package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"challengeTrackerAPI/internal/types/challenge"
	"challengeTrackerAPI/internal/types/dailylog"
	"challengeTrackerAPI/internal/types/notification"
	"challengeTrackerAPI/internal/types/user"
)

func seed(t *testing.T) (*MemoryStore, *user.User, *challenge.Challenge) {
	t.Helper()
	ctx := context.Background()
	s := NewMemoryStore()

	u := &user.User{Name: "Jane", Email: "jane@x.com", Role: user.RoleMember}
	require.NoError(t, s.Users().Create(ctx, u))

	c := &challenge.Challenge{Title: "30 days", Slug: "30-days", StartDate: "2025-01-01", EndDate: "2025-01-31"}
	require.NoError(t, s.Challenges().Create(ctx, c))
	return s, u, c
}

func TestMemoryUsers_DuplicateEmail(t *testing.T) {
	s, _, _ := seed(t)

	err := s.Users().Create(context.Background(), &user.User{Name: "Other", Email: "JANE@x.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryUsers_ReturnsCopies(t *testing.T) {
	s, u, c := seed(t)
	ctx := context.Background()

	got, err := s.Users().Get(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "changed"
	got.JoinedChallenges = append(got.JoinedChallenges, c.ID)

	again, err := s.Users().Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.Name)
	assert.Empty(t, again.JoinedChallenges)
}

func TestMemoryLogs_UpsertKeepsOneRowPerDay(t *testing.T) {
	s, u, c := seed(t)
	ctx := context.Background()

	first, err := s.DailyLogs().Upsert(ctx, &dailylog.DailyLog{
		UserID: u.ID, ChallengeID: c.ID, Date: "2025-01-10", Text: "ran 5k", Completed: true,
		Timestamp: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	photo := "https://cdn.example.com/p.jpg"
	second, err := s.DailyLogs().Upsert(ctx, &dailylog.DailyLog{
		UserID: u.ID, ChallengeID: c.ID, Date: "2025-01-10", Text: "ran 6k", Completed: false, PhotoURL: &photo,
		Timestamp: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ran 6k", second.Text)
	assert.False(t, second.Completed)
	require.NotNil(t, second.PhotoURL)
	assert.Equal(t, photo, *second.PhotoURL)
	assert.Equal(t, 9, second.Timestamp.Hour())

	logs, err := s.DailyLogs().List(ctx, DailyLogFilter{UserID: u.ID})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestMemoryLogs_ConcurrentUpsert(t *testing.T) {
	s, u, c := seed(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.DailyLogs().Upsert(ctx, &dailylog.DailyLog{
				UserID: u.ID, ChallengeID: c.ID, Date: "2025-01-10", Text: "double submit", Completed: true,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	logs, err := s.DailyLogs().List(ctx, DailyLogFilter{})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestMemoryLogs_UnknownChallenge(t *testing.T) {
	s, u, _ := seed(t)

	_, err := s.DailyLogs().Upsert(context.Background(), &dailylog.DailyLog{UserID: u.ID, ChallengeID: "nope", Date: "2025-01-10"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryLogs_ListFilterAndOrder(t *testing.T) {
	s, u, c := seed(t)
	ctx := context.Background()

	for _, d := range []string{"2025-01-03", "2025-01-01", "2025-01-02"} {
		_, err := s.DailyLogs().Upsert(ctx, &dailylog.DailyLog{UserID: u.ID, ChallengeID: c.ID, Date: d, Text: "entry " + d})
		require.NoError(t, err)
	}
	_, err := s.DailyLogs().Upsert(ctx, &dailylog.DailyLog{UserID: u.ID, ChallengeID: c.ID, Date: "2025-01-04"})
	require.NoError(t, err)

	logs, err := s.DailyLogs().List(ctx, DailyLogFilter{OnlyWithText: true})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "2025-01-03", logs[0].Date)
	assert.Equal(t, "2025-01-01", logs[2].Date)

	logs, err = s.DailyLogs().List(ctx, DailyLogFilter{From: "2025-01-02", To: "2025-01-03"})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = s.DailyLogs().List(ctx, DailyLogFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2025-01-04", logs[0].Date)
}

func TestMemoryChallenges_JoinIsIdempotent(t *testing.T) {
	s, u, c := seed(t)
	ctx := context.Background()

	joined, err := s.Challenges().Join(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, joined)

	joined, err = s.Challenges().Join(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, joined)

	got, err := s.Users().Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, got.JoinedChallenges)

	ch, err := s.Challenges().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, ch.Participants)

	_, err = s.Challenges().Join(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryChallenges_DeleteCascades(t *testing.T) {
	s, u, c := seed(t)
	ctx := context.Background()

	other := &challenge.Challenge{Title: "Other", Slug: "other", StartDate: "2025-02-01", EndDate: "2025-02-28"}
	require.NoError(t, s.Challenges().Create(ctx, other))

	_, err := s.Challenges().Join(ctx, u.ID, c.ID)
	require.NoError(t, err)
	for _, d := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		_, err := s.DailyLogs().Upsert(ctx, &dailylog.DailyLog{UserID: u.ID, ChallengeID: c.ID, Date: d, Completed: true})
		require.NoError(t, err)
	}
	_, err = s.DailyLogs().Upsert(ctx, &dailylog.DailyLog{UserID: u.ID, ChallengeID: other.ID, Date: "2025-02-01"})
	require.NoError(t, err)

	require.NoError(t, s.Challenges().Delete(ctx, c.ID))

	logs, err := s.DailyLogs().List(ctx, DailyLogFilter{ChallengeID: c.ID})
	require.NoError(t, err)
	assert.Empty(t, logs)

	logs, err = s.DailyLogs().List(ctx, DailyLogFilter{})
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	got, err := s.Users().Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.JoinedChallenges)

	assert.ErrorIs(t, s.Challenges().Delete(ctx, c.ID), ErrNotFound)
}

func TestMemoryChallenges_UpdateKeepsCounter(t *testing.T) {
	s, u, c := seed(t)
	ctx := context.Background()

	_, err := s.Challenges().Join(ctx, u.ID, c.ID)
	require.NoError(t, err)

	c.Title = "Renamed"
	c.Participants = 99
	require.NoError(t, s.Challenges().Update(ctx, c))

	got, err := s.Challenges().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 1, got.Participants)

	assert.ErrorIs(t, s.Challenges().Update(ctx, &challenge.Challenge{ID: "missing"}), ErrNotFound)
}

func TestMemoryDeviceTokens(t *testing.T) {
	s, u, _ := seed(t)
	ctx := context.Background()

	require.NoError(t, s.DeviceTokens().Save(ctx, &notification.DeviceToken{UserID: u.ID, Token: "b", Platform: "android"}))
	require.NoError(t, s.DeviceTokens().Save(ctx, &notification.DeviceToken{UserID: u.ID, Token: "a", Platform: "ios"}))
	assert.ErrorIs(t, s.DeviceTokens().Save(ctx, &notification.DeviceToken{UserID: "ghost", Token: "c"}), ErrNotFound)

	tokens, err := s.DeviceTokens().ListByUsers(ctx, []string{u.ID})
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "a", tokens[0].Token)
}
