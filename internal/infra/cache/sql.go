package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQL is a cache backend over a single key/value table, usable with the
// sqlite3 and postgres drivers.
type SQL struct {
	db *sqlx.DB
}

const sqlSchema = `
CREATE TABLE IF NOT EXISTS http_cache (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at BIGINT NOT NULL DEFAULT 0
)`

// NewSQL opens the database and creates the cache table. driver is
// "sqlite3" or "postgres".
func NewSQL(driver, dsn string) (*SQL, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect cache db: %w", err)
	}
	if _, err := db.Exec(sqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}
	return &SQL{db: db}, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row struct {
		Value     string `db:"value"`
		ExpiresAt int64  `db:"expires_at"`
	}
	query := s.db.Rebind(`SELECT value, expires_at FROM http_cache WHERE key = ?`)
	err := s.db.GetContext(ctx, &row, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	if row.ExpiresAt != 0 && time.Now().Unix() > row.ExpiresAt {
		del := s.db.Rebind(`DELETE FROM http_cache WHERE key = ?`)
		_, _ = s.db.ExecContext(ctx, del, key)
		return nil, false, nil
	}
	return []byte(row.Value), true, nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires int64
	if ttl > 0 {
		expires = time.Now().Add(ttl).Unix()
	}
	query := s.db.Rebind(`
		INSERT INTO http_cache (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`)
	if _, err := s.db.ExecContext(ctx, query, key, string(value), expires); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
