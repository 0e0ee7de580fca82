package user

import "time"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             Role      `json:"role"`
	JoinedChallenges []string  `json:"joinedChallenges"`
	CreatedAt        time.Time `json:"createdAt"`
	Avatar           string    `json:"avatar,omitempty"`
	PasswordHash     string    `json:"-"`
}

// HasJoined reports whether challengeID is already in the joined list.
func (u *User) HasJoined(challengeID string) bool {
	for _, id := range u.JoinedChallenges {
		if id == challengeID {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the joined list.
func (u *User) Clone() *User {
	c := *u
	c.JoinedChallenges = append([]string{}, u.JoinedChallenges...)
	return &c
}
