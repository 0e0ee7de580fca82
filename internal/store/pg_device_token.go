package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"challengeTrackerAPI/internal/types/notification"
)

// PGDeviceTokenStore implements DeviceTokenStore backed by PostgreSQL.
type PGDeviceTokenStore struct {
	pool *pgxpool.Pool
}

// Save registers a push token; a token moves to the latest user that registers it.
func (s *PGDeviceTokenStore) Save(ctx context.Context, t *notification.DeviceToken) error {
	uid, err := parseID(t.UserID)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO device_tokens (token, user_id, platform, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			platform = EXCLUDED.platform,
			updated_at = EXCLUDED.updated_at`,
		t.Token, uid, t.Platform, t.UpdatedAt)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: user %s", ErrNotFound, t.UserID)
		}
		return fmt.Errorf("save device token: %w", err)
	}
	return nil
}

func (s *PGDeviceTokenStore) ListByUsers(ctx context.Context, userIDs []string) ([]*notification.DeviceToken, error) {
	ids := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if parsed, err := uuid.Parse(id); err == nil {
			ids = append(ids, parsed)
		}
	}
	if len(ids) == 0 {
		return []*notification.DeviceToken{}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT token, user_id, platform, updated_at
		FROM device_tokens
		WHERE user_id = ANY($1)
		ORDER BY token`, ids)
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	defer rows.Close()

	tokens := []*notification.DeviceToken{}
	for rows.Next() {
		var (
			t   notification.DeviceToken
			uid uuid.UUID
		)
		if err := rows.Scan(&t.Token, &uid, &t.Platform, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		t.UserID = uid.String()
		tokens = append(tokens, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate device tokens: %w", err)
	}
	return tokens, nil
}
