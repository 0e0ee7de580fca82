package store

import (
	"context"

	"challengeTrackerAPI/internal/types/challenge"
	"challengeTrackerAPI/internal/types/dailylog"
	"challengeTrackerAPI/internal/types/notification"
	"challengeTrackerAPI/internal/types/user"
)

// --- User ---

type UserFilter struct {
	Role user.Role
}

// UserStore persists profiles. Lists keep creation order.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
	List(ctx context.Context, f UserFilter) ([]*user.User, error)
}

// --- Challenge ---

// ChallengeStore persists challenges and join records.
type ChallengeStore interface {
	Create(ctx context.Context, c *challenge.Challenge) error
	Get(ctx context.Context, id string) (*challenge.Challenge, error)
	GetBySlug(ctx context.Context, slug string) (*challenge.Challenge, error)
	Update(ctx context.Context, c *challenge.Challenge) error
	// Delete removes the challenge together with its logs and join records.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*challenge.Challenge, error)
	// Join records userID as a participant. It reports false when the user
	// had already joined, in which case the participant count is unchanged.
	Join(ctx context.Context, userID, challengeID string) (bool, error)
}

// --- Daily log ---

type DailyLogFilter struct {
	UserID       string
	ChallengeID  string
	From         string
	To           string
	OnlyWithText bool
	Limit        int
}

// DailyLogStore persists daily logs. Lists are ordered newest date first.
type DailyLogStore interface {
	// Upsert inserts l or, when a log already exists for the same user,
	// challenge and date, overwrites its text, completion, photo and
	// timestamp while keeping the original id.
	Upsert(ctx context.Context, l *dailylog.DailyLog) (*dailylog.DailyLog, error)
	Get(ctx context.Context, id string) (*dailylog.DailyLog, error)
	List(ctx context.Context, f DailyLogFilter) ([]*dailylog.DailyLog, error)
}

// --- Device token ---

type DeviceTokenStore interface {
	Save(ctx context.Context, t *notification.DeviceToken) error
	ListByUsers(ctx context.Context, userIDs []string) ([]*notification.DeviceToken, error)
}

// Store gives access to every domain store.
type Store interface {
	Users() UserStore
	Challenges() ChallengeStore
	DailyLogs() DailyLogStore
	DeviceTokens() DeviceTokenStore
	Ping(ctx context.Context) error
	Close()
}
