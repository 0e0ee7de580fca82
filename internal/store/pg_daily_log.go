package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"challengeTrackerAPI/internal/types/dailylog"
	"challengeTrackerAPI/utils"
)

// PGDailyLogStore implements DailyLogStore backed by challenge_logs. The
// (user_id, challenge_id, date) unique constraint makes Upsert safe against
// double submits.
type PGDailyLogStore struct {
	pool *pgxpool.Pool
}

const logColumns = `id, user_id, challenge_id, date, text, completed, photo_url, timestamp`

func (s *PGDailyLogStore) Upsert(ctx context.Context, l *dailylog.DailyLog) (*dailylog.DailyLog, error) {
	uid, err := parseID(l.UserID)
	if err != nil {
		return nil, err
	}
	cid, err := parseID(l.ChallengeID)
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(l.Date)
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	if l.ID != "" {
		if parsed, err := uuid.Parse(l.ID); err == nil {
			id = parsed
		}
	}

	query := `
        INSERT INTO challenge_logs (id, user_id, challenge_id, date, text, completed, photo_url, timestamp)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id, challenge_id, date)
        DO UPDATE SET
            text = EXCLUDED.text,
            completed = EXCLUDED.completed,
            photo_url = EXCLUDED.photo_url,
            timestamp = EXCLUDED.timestamp
        RETURNING ` + logColumns

	saved, err := scanLog(s.pool.QueryRow(ctx, query, id, uid, cid, date, l.Text, l.Completed, l.PhotoURL, l.Timestamp))
	if err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("%w: user %s or challenge %s", ErrNotFound, l.UserID, l.ChallengeID)
		}
		return nil, fmt.Errorf("upsert daily log: %w", err)
	}
	return saved, nil
}

func (s *PGDailyLogStore) Get(ctx context.Context, id string) (*dailylog.DailyLog, error) {
	lid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	l, err := scanLog(s.pool.QueryRow(ctx, `SELECT `+logColumns+` FROM challenge_logs WHERE id = $1`, lid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *PGDailyLogStore) List(ctx context.Context, f DailyLogFilter) ([]*dailylog.DailyLog, error) {
	query := `SELECT ` + logColumns + ` FROM challenge_logs WHERE 1=1`
	args := []any{}
	idx := 1

	if f.UserID != "" {
		uid, err := parseID(f.UserID)
		if err != nil {
			return []*dailylog.DailyLog{}, nil
		}
		query += fmt.Sprintf(` AND user_id = $%d`, idx)
		args = append(args, uid)
		idx++
	}
	if f.ChallengeID != "" {
		cid, err := parseID(f.ChallengeID)
		if err != nil {
			return []*dailylog.DailyLog{}, nil
		}
		query += fmt.Sprintf(` AND challenge_id = $%d`, idx)
		args = append(args, cid)
		idx++
	}
	if f.From != "" {
		from, err := utils.ParseDate(f.From)
		if err != nil {
			return nil, err
		}
		query += fmt.Sprintf(` AND date >= $%d`, idx)
		args = append(args, from)
		idx++
	}
	if f.To != "" {
		to, err := utils.ParseDate(f.To)
		if err != nil {
			return nil, err
		}
		query += fmt.Sprintf(` AND date <= $%d`, idx)
		args = append(args, to)
		idx++
	}
	if f.OnlyWithText {
		query += ` AND BTRIM(text) <> ''`
	}

	query += ` ORDER BY date DESC, timestamp DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, idx)
		args = append(args, f.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	defer rows.Close()

	logs := []*dailylog.DailyLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily logs: %w", err)
	}
	return logs, nil
}

func scanLog(row pgx.Row) (*dailylog.DailyLog, error) {
	var (
		l            dailylog.DailyLog
		id, uid, cid uuid.UUID
		date         time.Time
	)
	if err := row.Scan(&id, &uid, &cid, &date, &l.Text, &l.Completed, &l.PhotoURL, &l.Timestamp); err != nil {
		return nil, err
	}
	l.ID = id.String()
	l.UserID = uid.String()
	l.ChallengeID = cid.String()
	l.Date = utils.FormatDate(date)
	return &l, nil
}
