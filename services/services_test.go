package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"challengeTrackerAPI/internal/session"
	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/types/challenge"
	"challengeTrackerAPI/internal/types/notification"
	"challengeTrackerAPI/internal/types/user"
)

var fixedNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type sentPush struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]any
}

type fakePushProvider struct {
	mu   sync.Mutex
	sent []sentPush
}

func (f *fakePushProvider) SendPush(_ context.Context, tokens []*notification.DeviceToken, title, body string, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(tokens))
	for _, t := range tokens {
		ids = append(ids, t.Token)
	}
	f.sent = append(f.sent, sentPush{Tokens: ids, Title: title, Body: body, Data: data})
	return nil
}

func (f *fakePushProvider) Sent() []sentPush {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentPush{}, f.sent...)
}

type testEnv struct {
	store         *store.MemoryStore
	sessions      *session.MemoryStore
	push          *fakePushProvider
	users         *UserService
	challenges    *ChallengeService
	logs          *DailyLogService
	leaderboard   *LeaderboardService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemoryStore()
	sessions := session.NewMemoryStore()
	push := &fakePushProvider{}

	notifications := NewNotificationService(st)
	notifications.now = clock
	notifications.SetPushProvider(push)
	t.Cleanup(notifications.Stop)

	users := NewUserService(st, sessions, "test-secret", time.Hour)
	users.now = clock
	challenges := NewChallengeService(st, notifications)
	challenges.now = clock
	logs := NewDailyLogService(st)
	logs.now = clock
	board := NewLeaderboardService(st)
	board.now = clock

	return &testEnv{
		store:         st,
		sessions:      sessions,
		push:          push,
		users:         users,
		challenges:    challenges,
		logs:          logs,
		leaderboard:   board,
		notifications: notifications,
	}
}

func (e *testEnv) signUp(t *testing.T, name, email string) *user.User {
	t.Helper()
	resp, err := e.users.SignUp(context.Background(), name, email, "secret1")
	require.NoError(t, err)
	return resp.User
}

func (e *testEnv) createChallenge(t *testing.T, title, start, end string) *challenge.Challenge {
	t.Helper()
	c, err := e.challenges.CreateChallenge(context.Background(), "", &challenge.CreateChallengeRequest{
		Title:        title,
		Description:  title + " description",
		StartDate:    start,
		EndDate:      end,
		Difficulty:   challenge.DifficultyBeginner,
		DailyPrompts: []string{"What did you do today?"},
	})
	require.NoError(t, err)
	return c
}
