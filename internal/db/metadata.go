//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/pkg/version"
)

const metadataTable = "stockgen_metadata"

// Metadata keys.
const (
	KeyLastRun = "last_run_timestamp"
	KeyVersion = "version"
)

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS stockgen_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SaveWatermark records the timestamp the next incremental run starts from.
func SaveWatermark(ctx context.Context, q Querier, ts time.Time) error {
	if _, err := q.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		KeyLastRun: ts.UTC().Format(time.RFC3339Nano),
		KeyVersion: version.Short(),
	}
	for key, value := range metadata {
		_, err := q.Exec(ctx, `
            INSERT INTO stockgen_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Time("watermark", ts).
		Msg("Saved watermark")

	return nil
}

// GetWatermark returns the stored watermark. ok is false when the table or
// the key does not exist yet.
func GetWatermark(ctx context.Context, q Querier) (ts time.Time, ok bool, err error) {
	exists, err := MetadataExists(ctx, q)
	if err != nil || !exists {
		return time.Time{}, false, err
	}

	var value string
	err = q.QueryRow(ctx, `
        SELECT value FROM stockgen_metadata WHERE key = $1
    `, KeyLastRun).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	ts, err = time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid stored watermark %q: %w", value, err)
	}
	return ts, true, nil
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, q Querier) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}
