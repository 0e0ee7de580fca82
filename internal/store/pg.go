package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGConfig holds PostgreSQL connection configuration.
type PGConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// PGStore wraps a pgxpool.Pool and provides access to all domain stores.
type PGStore struct {
	pool *pgxpool.Pool

	users        *PGUserStore
	challenges   *PGChallengeStore
	logs         *PGDailyLogStore
	deviceTokens *PGDeviceTokenStore
}

// NewPGStore connects to PostgreSQL and returns a PGStore with all sub-stores.
func NewPGStore(ctx context.Context, cfg PGConfig) (*PGStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse pg config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pg: %w", err)
	}

	return &PGStore{
		pool:         pool,
		users:        &PGUserStore{pool: pool},
		challenges:   &PGChallengeStore{pool: pool},
		logs:         &PGDailyLogStore{pool: pool},
		deviceTokens: &PGDeviceTokenStore{pool: pool},
	}, nil
}

func (s *PGStore) Pool() *pgxpool.Pool            { return s.pool }
func (s *PGStore) Users() UserStore               { return s.users }
func (s *PGStore) Challenges() ChallengeStore     { return s.challenges }
func (s *PGStore) DailyLogs() DailyLogStore       { return s.logs }
func (s *PGStore) DeviceTokens() DeviceTokenStore { return s.deviceTokens }
func (s *PGStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }
func (s *PGStore) Close()                         { s.pool.Close() }

// Migrate applies the embedded schema.
func (s *PGStore) Migrate(ctx context.Context) error {
	return NewMigrator(s.pool).Migrate(ctx)
}

// parseID maps a malformed identifier to ErrNotFound: no row can carry it.
func parseID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	return u, nil
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isDuplicateError(err error) bool {
	return sqlState(err) == "23505"
}

func isForeignKeyError(err error) bool {
	return sqlState(err) == "23503"
}
