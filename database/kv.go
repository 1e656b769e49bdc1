package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Get and Set make Database satisfy the pipeline's key-value Store.

func (d *Database) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := d.read.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading kv entry %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (d *Database) Set(ctx context.Context, key string, value []byte) error {
	_, err := d.write.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		string(value),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing kv entry %s: %w", key, err)
	}
	return nil
}
