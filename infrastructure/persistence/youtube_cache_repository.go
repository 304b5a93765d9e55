package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"viewtrap/infrastructure/logger"
	"viewtrap/infrastructure/utils"
)

// EnsureYouTubeCacheSchema creates the cache table if not exists
func EnsureYouTubeCacheSchema(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS youtube_cache_entries (
        cache_key TEXT PRIMARY KEY,
        data JSONB NOT NULL,
        expires_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create youtube_cache_entries table: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_youtube_cache_entries_expires_at ON youtube_cache_entries(expires_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_youtube_cache_entries_expires_at")
	}
	return nil
}

// YouTubeCacheRepository is a cache backend over a PostgreSQL table.
// Rows past expires_at are invisible to Get and removed by PurgeExpired.
type YouTubeCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewYouTubeCacheRepository(db *sql.DB) *YouTubeCacheRepository {
	return &YouTubeCacheRepository{db: db, now: utils.GetCurrentTime}
}

func (r *YouTubeCacheRepository) Name() string { return "postgres" }

func (r *YouTubeCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM youtube_cache_entries WHERE cache_key=$1 AND expires_at > $2`, key, r.now())
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

// Set stores or updates the row with expiry ttl from now
func (r *YouTubeCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := r.now()
	q := `INSERT INTO youtube_cache_entries(cache_key, data, expires_at, updated_at)
          VALUES ($1,$2,$3,$4)
          ON CONFLICT (cache_key) DO UPDATE SET data=EXCLUDED.data, expires_at=EXCLUDED.expires_at, updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, key, value, now.Add(ttl), now)
	return err
}

func (r *YouTubeCacheRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM youtube_cache_entries WHERE cache_key=$1`, key)
	return err
}

// Len counts live rows
func (r *YouTubeCacheRepository) Len(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM youtube_cache_entries WHERE expires_at > $1`, r.now()).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// PurgeExpired deletes rows past their physical expiry and returns how many were removed
func (r *YouTubeCacheRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM youtube_cache_entries WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *YouTubeCacheRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *YouTubeCacheRepository) Close() error {
	return r.db.Close()
}
