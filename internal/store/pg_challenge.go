package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"challengeTrackerAPI/internal/types/challenge"
	"challengeTrackerAPI/utils"
)

// PGChallengeStore implements ChallengeStore backed by PostgreSQL.
type PGChallengeStore struct {
	pool *pgxpool.Pool
}

const challengeColumns = `
	id, title, slug, description, start_date, end_date, duration, difficulty,
	cover_image, daily_prompts, participants, COALESCE(created_by::text, ''), created_at`

func (s *PGChallengeStore) Create(ctx context.Context, c *challenge.Challenge) error {
	id := uuid.New()
	if c.ID != "" {
		parsed, err := uuid.Parse(c.ID)
		if err != nil {
			return fmt.Errorf("invalid challenge id %q: %w", c.ID, err)
		}
		id = parsed
	}
	start, end, err := challengeDates(c)
	if err != nil {
		return err
	}
	var createdBy *uuid.UUID
	if c.CreatedBy != "" {
		if cb, err := uuid.Parse(c.CreatedBy); err == nil {
			createdBy = &cb
		}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO challenges (id, title, slug, description, start_date, end_date, duration,
			difficulty, cover_image, daily_prompts, participants, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12)`,
		id, c.Title, c.Slug, c.Description, start, end, c.Duration,
		string(c.Difficulty), c.CoverImage, promptsOrEmpty(c.DailyPrompts), createdBy, c.CreatedAt)
	if err != nil {
		if isDuplicateError(err) {
			return fmt.Errorf("%w: challenge slug %s", ErrDuplicate, c.Slug)
		}
		return fmt.Errorf("insert challenge: %w", err)
	}

	c.ID = id.String()
	c.Participants = 0
	return nil
}

func (s *PGChallengeStore) Get(ctx context.Context, id string) (*challenge.Challenge, error) {
	cid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.scanOne(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, cid)
}

func (s *PGChallengeStore) GetBySlug(ctx context.Context, slug string) (*challenge.Challenge, error) {
	return s.scanOne(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE slug = $1`, slug)
}

func (s *PGChallengeStore) Update(ctx context.Context, c *challenge.Challenge) error {
	cid, err := parseID(c.ID)
	if err != nil {
		return err
	}
	start, end, err := challengeDates(c)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE challenges SET
			title = $2, slug = $3, description = $4, start_date = $5, end_date = $6,
			duration = $7, difficulty = $8, cover_image = $9, daily_prompts = $10
		WHERE id = $1`,
		cid, c.Title, c.Slug, c.Description, start, end,
		c.Duration, string(c.Difficulty), c.CoverImage, promptsOrEmpty(c.DailyPrompts))
	if err != nil {
		if isDuplicateError(err) {
			return fmt.Errorf("%w: challenge slug %s", ErrDuplicate, c.Slug)
		}
		return fmt.Errorf("update challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for challenge_logs and challenge_participants.
func (s *PGChallengeStore) Delete(ctx context.Context, id string) error {
	cid, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, cid)
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGChallengeStore) List(ctx context.Context) ([]*challenge.Challenge, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+challengeColumns+` FROM challenges ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	out := []*challenge.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate challenges: %w", err)
	}
	return out, nil
}

// Join inserts the participant row and bumps the counter in one transaction.
// The challenge row is locked first so concurrent joins serialize.
func (s *PGChallengeStore) Join(ctx context.Context, userID, challengeID string) (bool, error) {
	uid, err := parseID(userID)
	if err != nil {
		return false, err
	}
	cid, err := parseID(challengeID)
	if err != nil {
		return false, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin join tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM challenges WHERE id = $1 FOR UPDATE`, cid).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%w: challenge %s", ErrNotFound, challengeID)
		}
		return false, fmt.Errorf("lock challenge: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO challenge_participants (user_id, challenge_id, joined_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, challenge_id) DO NOTHING`, uid, cid)
	if err != nil {
		if isForeignKeyError(err) {
			return false, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return false, fmt.Errorf("insert participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx, `UPDATE challenges SET participants = participants + 1 WHERE id = $1`, cid); err != nil {
		return false, fmt.Errorf("increment participants: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit join: %w", err)
	}
	return true, nil
}

func (s *PGChallengeStore) scanOne(ctx context.Context, query string, args ...any) (*challenge.Challenge, error) {
	c, err := scanChallenge(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func scanChallenge(row pgx.Row) (*challenge.Challenge, error) {
	var (
		c          challenge.Challenge
		id         uuid.UUID
		start, end time.Time
		difficulty string
	)
	err := row.Scan(&id, &c.Title, &c.Slug, &c.Description, &start, &end, &c.Duration, &difficulty,
		&c.CoverImage, &c.DailyPrompts, &c.Participants, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan challenge: %w", err)
	}
	c.ID = id.String()
	c.StartDate = utils.FormatDate(start)
	c.EndDate = utils.FormatDate(end)
	c.Difficulty = challenge.Difficulty(difficulty)
	if c.DailyPrompts == nil {
		c.DailyPrompts = []string{}
	}
	return &c, nil
}

func challengeDates(c *challenge.Challenge) (time.Time, time.Time, error) {
	start, err := utils.ParseDate(c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.ParseDate(c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func promptsOrEmpty(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}
