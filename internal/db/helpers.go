package db

import (
	"context"
	"database/sql"
	"time"
)

type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullTime stores zero times as NULL.
func NullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// HasTable reports whether table exists in the current schema.
func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		// bad connection or missing row both mean "not usable"
		return false
	}
	return name.Valid && name.String != ""
}

// HasIndex reports whether table carries an index named index.
func HasIndex(ctx context.Context, q QueryRower, table, index string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT index_name
		FROM information_schema.statistics
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND index_name = ?
		LIMIT 1
	`, table, index).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}
