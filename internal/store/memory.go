package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"challengeTrackerAPI/internal/types/challenge"
	"challengeTrackerAPI/internal/types/dailylog"
	"challengeTrackerAPI/internal/types/notification"
	"challengeTrackerAPI/internal/types/user"
)

// MemoryStore keeps every collection in process memory behind a single lock,
// so cascades and upserts are atomic. Values are copied on the way in and out.
type MemoryStore struct {
	mu         sync.RWMutex
	users      []*user.User
	challenges []*challenge.Challenge
	logs       []*dailylog.DailyLog
	tokens     map[string]*notification.DeviceToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]*notification.DeviceToken)}
}

func (s *MemoryStore) Users() UserStore               { return memUsers{s} }
func (s *MemoryStore) Challenges() ChallengeStore     { return memChallenges{s} }
func (s *MemoryStore) DailyLogs() DailyLogStore       { return memLogs{s} }
func (s *MemoryStore) DeviceTokens() DeviceTokenStore { return memTokens{s} }
func (s *MemoryStore) Ping(context.Context) error     { return nil }
func (s *MemoryStore) Close()                         {}

func (s *MemoryStore) userByID(id string) *user.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *MemoryStore) challengeIndex(id string) int {
	for i, c := range s.challenges {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// --- users ---

type memUsers struct{ s *MemoryStore }

func (m memUsers) Create(_ context.Context, u *user.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, existing := range m.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: user with email %s", ErrDuplicate, u.Email)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.JoinedChallenges == nil {
		u.JoinedChallenges = []string{}
	}
	m.s.users = append(m.s.users, u.Clone())
	return nil
}

func (m memUsers) Get(_ context.Context, id string) (*user.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	if u := m.s.userByID(id); u != nil {
		return u.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// Update writes the mutable profile fields. Role and joined list are not
// changed here: the role is fixed and joins go through ChallengeStore.Join.
func (m memUsers) Update(_ context.Context, u *user.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	existing := m.s.userByID(u.ID)
	if existing == nil {
		return ErrNotFound
	}
	existing.Name = u.Name
	existing.Avatar = u.Avatar
	return nil
}

func (m memUsers) List(_ context.Context, f UserFilter) ([]*user.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := []*user.User{}
	for _, u := range m.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, u.Clone())
	}
	return out, nil
}

// --- challenges ---

type memChallenges struct{ s *MemoryStore }

func (m memChallenges) Create(_ context.Context, c *challenge.Challenge) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	for _, existing := range m.s.challenges {
		if existing.ID == c.ID || (c.Slug != "" && existing.Slug == c.Slug) {
			return fmt.Errorf("%w: challenge %s", ErrDuplicate, c.ID)
		}
	}
	m.s.challenges = append(m.s.challenges, c.Clone())
	return nil
}

func (m memChallenges) Get(_ context.Context, id string) (*challenge.Challenge, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	if i := m.s.challengeIndex(id); i >= 0 {
		return m.s.challenges[i].Clone(), nil
	}
	return nil, ErrNotFound
}

func (m memChallenges) GetBySlug(_ context.Context, slug string) (*challenge.Challenge, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, c := range m.s.challenges {
		if c.Slug == slug {
			return c.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// Update replaces the stored challenge but never the participant counter,
// which only Join moves.
func (m memChallenges) Update(_ context.Context, c *challenge.Challenge) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	i := m.s.challengeIndex(c.ID)
	if i < 0 {
		return ErrNotFound
	}
	updated := c.Clone()
	updated.Participants = m.s.challenges[i].Participants
	updated.CreatedBy = m.s.challenges[i].CreatedBy
	updated.CreatedAt = m.s.challenges[i].CreatedAt
	m.s.challenges[i] = updated
	return nil
}

func (m memChallenges) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	i := m.s.challengeIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	m.s.challenges = append(m.s.challenges[:i], m.s.challenges[i+1:]...)

	kept := m.s.logs[:0]
	for _, l := range m.s.logs {
		if l.ChallengeID != id {
			kept = append(kept, l)
		}
	}
	m.s.logs = kept

	for _, u := range m.s.users {
		joined := u.JoinedChallenges[:0]
		for _, cid := range u.JoinedChallenges {
			if cid != id {
				joined = append(joined, cid)
			}
		}
		u.JoinedChallenges = joined
	}
	return nil
}

func (m memChallenges) List(_ context.Context) ([]*challenge.Challenge, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := make([]*challenge.Challenge, 0, len(m.s.challenges))
	for _, c := range m.s.challenges {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (m memChallenges) Join(_ context.Context, userID, challengeID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	i := m.s.challengeIndex(challengeID)
	if i < 0 {
		return false, fmt.Errorf("%w: challenge %s", ErrNotFound, challengeID)
	}
	u := m.s.userByID(userID)
	if u == nil {
		return false, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if u.HasJoined(challengeID) {
		return false, nil
	}
	u.JoinedChallenges = append(u.JoinedChallenges, challengeID)
	m.s.challenges[i].Participants++
	return true, nil
}

// --- daily logs ---

type memLogs struct{ s *MemoryStore }

func cloneLog(l *dailylog.DailyLog) *dailylog.DailyLog {
	c := *l
	if l.PhotoURL != nil {
		p := *l.PhotoURL
		c.PhotoURL = &p
	}
	return &c
}

func (m memLogs) Upsert(_ context.Context, l *dailylog.DailyLog) (*dailylog.DailyLog, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if m.s.userByID(l.UserID) == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, l.UserID)
	}
	if m.s.challengeIndex(l.ChallengeID) < 0 {
		return nil, fmt.Errorf("%w: challenge %s", ErrNotFound, l.ChallengeID)
	}

	for _, existing := range m.s.logs {
		if existing.UserID == l.UserID && existing.ChallengeID == l.ChallengeID && existing.Date == l.Date {
			updated := cloneLog(l)
			existing.Text = updated.Text
			existing.Completed = updated.Completed
			existing.PhotoURL = updated.PhotoURL
			existing.Timestamp = updated.Timestamp
			return cloneLog(existing), nil
		}
	}

	created := cloneLog(l)
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	m.s.logs = append(m.s.logs, created)
	return cloneLog(created), nil
}

func (m memLogs) Get(_ context.Context, id string) (*dailylog.DailyLog, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, l := range m.s.logs {
		if l.ID == id {
			return cloneLog(l), nil
		}
	}
	return nil, ErrNotFound
}

func (m memLogs) List(_ context.Context, f DailyLogFilter) ([]*dailylog.DailyLog, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := []*dailylog.DailyLog{}
	for _, l := range m.s.logs {
		if f.UserID != "" && l.UserID != f.UserID {
			continue
		}
		if f.ChallengeID != "" && l.ChallengeID != f.ChallengeID {
			continue
		}
		// YYYY-MM-DD strings order the same way as the dates they encode.
		if f.From != "" && l.Date < f.From {
			continue
		}
		if f.To != "" && l.Date > f.To {
			continue
		}
		if f.OnlyWithText && strings.TrimSpace(l.Text) == "" {
			continue
		}
		out = append(out, cloneLog(l))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// --- device tokens ---

type memTokens struct{ s *MemoryStore }

func (m memTokens) Save(_ context.Context, t *notification.DeviceToken) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if m.s.userByID(t.UserID) == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, t.UserID)
	}
	cp := *t
	m.s.tokens[t.Token] = &cp
	return nil
}

func (m memTokens) ListByUsers(_ context.Context, userIDs []string) ([]*notification.DeviceToken, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}

	out := []*notification.DeviceToken{}
	for _, t := range m.s.tokens {
		if wanted[t.UserID] {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}
