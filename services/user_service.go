package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"challengeTrackerAPI/internal/metrics"
	"challengeTrackerAPI/internal/session"
	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/types/user"
	"challengeTrackerAPI/utils"
)

// SessionClaims is the payload of a session token. A token is honored only
// while the session marker named by SessionID still exists.
type SessionClaims struct {
	SessionID string    `json:"sid"`
	Role      user.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal identifies the caller of an authenticated request.
type Principal struct {
	UserID    string
	SessionID string
	Role      user.Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == user.RoleAdmin
}

type UserService struct {
	store      store.Store
	sessions   session.Store
	jwtSecret  []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewUserService(st store.Store, sessions session.Store, jwtSecret string, sessionTTL time.Duration) *UserService {
	return &UserService{
		store:      st,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (s *UserService) SignUp(ctx context.Context, name, email, password string) (*user.AuthResponse, error) {
	email = normalizeEmail(email)

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Name:             strings.TrimSpace(name),
		Email:            email,
		Role:             user.RoleMember,
		JoinedChallenges: []string{},
		CreatedAt:        s.now().UTC(),
		Avatar:           utils.DefaultAvatar(name),
		PasswordHash:     string(hash),
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		// Lost a race with a concurrent sign-up for the same email.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.SignUps.Inc()
	log.Printf("UserService: signed up user %s", u.ID)
	return s.openSession(ctx, u)
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (*user.AuthResponse, error) {
	u, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.SignIns.WithLabelValues("rejected").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		metrics.SignIns.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	metrics.SignIns.WithLabelValues("ok").Inc()
	return s.openSession(ctx, u)
}

// SignOut removes the session marker. Unknown sessions are ignored.
func (s *UserService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// RestoreSession resolves a previously issued token to its user. It returns
// nil without error when the token, its marker or its user no longer exist.
func (s *UserService) RestoreSession(ctx context.Context, token string) (*user.User, error) {
	p, err := s.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, nil
		}
		return nil, err
	}

	u, err := s.store.Users().Get(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("UserService: clearing session %s for missing user %s", p.SessionID, p.UserID)
			_ = s.sessions.Delete(ctx, p.SessionID)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	return u, nil
}

// Authenticate verifies the token signature and its session marker.
func (s *UserService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := s.sessions.Lookup(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if userID != claims.Subject {
		return nil, ErrInvalidToken
	}

	return &Principal{UserID: claims.Subject, SessionID: claims.SessionID, Role: claims.Role}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*user.User, error) {
	return s.store.Users().Get(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		u.Name = name
	}
	if req.Avatar != "" {
		u.Avatar = req.Avatar
	}

	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// EnsureAdmin creates the admin account when no account uses email yet.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		log.Println("UserService: ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	existing, err := s.store.Users().GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != user.RoleAdmin {
			log.Printf("UserService: %s already exists as a %s account", email, existing.Role)
		}
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &user.User{
		Name:             name,
		Email:            email,
		Role:             user.RoleAdmin,
		JoinedChallenges: []string{},
		CreatedAt:        s.now().UTC(),
		Avatar:           utils.DefaultAvatar(name),
		PasswordHash:     string(hash),
	}
	if err := s.store.Users().Create(ctx, admin); err != nil && !errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Printf("UserService: admin account %s ready", email)
	return nil
}

func (s *UserService) openSession(ctx context.Context, u *user.User) (*user.AuthResponse, error) {
	sid := uuid.NewString()
	if err := s.sessions.Save(ctx, sid, u.ID, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	token, err := s.signToken(u, sid)
	if err != nil {
		_ = s.sessions.Delete(ctx, sid)
		return nil, err
	}
	return &user.AuthResponse{Token: token, User: u}, nil
}

func (s *UserService) signToken(u *user.User, sid string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		SessionID: sid,
		Role:      u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *UserService) parseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.SessionID == "" {
		return nil, errors.New("token missing subject or session")
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
