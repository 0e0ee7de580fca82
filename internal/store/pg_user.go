package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"challengeTrackerAPI/internal/types/user"
)

// PGUserStore implements UserStore backed by the profiles table. The joined
// list is read from challenge_participants.
type PGUserStore struct {
	pool *pgxpool.Pool
}

const userColumns = `
	p.id, p.name, p.email, p.role, p.avatar, p.password_hash, p.created_at,
	COALESCE(ARRAY(
		SELECT cp.challenge_id::text FROM challenge_participants cp
		WHERE cp.user_id = p.id ORDER BY cp.joined_at, cp.challenge_id
	), '{}') AS joined_challenges`

func (s *PGUserStore) Create(ctx context.Context, u *user.User) error {
	id := uuid.New()
	if u.ID != "" {
		parsed, err := uuid.Parse(u.ID)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", u.ID, err)
		}
		id = parsed
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, name, email, password_hash, role, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		id, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Avatar, u.CreatedAt,
	).Scan(&u.CreatedAt)
	if err != nil {
		if isDuplicateError(err) {
			return fmt.Errorf("%w: user with email %s", ErrDuplicate, u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	u.ID = id.String()
	if u.JoinedChallenges == nil {
		u.JoinedChallenges = []string{}
	}
	return nil
}

func (s *PGUserStore) Get(ctx context.Context, id string) (*user.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.scanOne(ctx, `SELECT `+userColumns+` FROM profiles p WHERE p.id = $1`, uid)
}

func (s *PGUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.scanOne(ctx, `SELECT `+userColumns+` FROM profiles p WHERE LOWER(p.email) = LOWER($1)`, email)
}

func (s *PGUserStore) Update(ctx context.Context, u *user.User) error {
	uid, err := parseID(u.ID)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `UPDATE profiles SET name = $2, avatar = $3 WHERE id = $1`, uid, u.Name, u.Avatar)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGUserStore) List(ctx context.Context, f UserFilter) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM profiles p`
	args := []any{}
	if f.Role != "" {
		query += ` WHERE p.role = $1`
		args = append(args, string(f.Role))
	}
	query += ` ORDER BY p.created_at, p.id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (s *PGUserStore) scanOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u    user.User
		id   uuid.UUID
		role string
	)
	err := row.Scan(&id, &u.Name, &u.Email, &role, &u.Avatar, &u.PasswordHash, &u.CreatedAt, &u.JoinedChallenges)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.String()
	u.Role = user.Role(role)
	return &u, nil
}
