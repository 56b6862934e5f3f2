//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/model"
)

// TxStarter is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LoadPostgres copies the dataset into existing tables in one transaction.
// Any failure rolls back everything loaded so far.
func LoadPostgres(ctx context.Context, db TxStarter, ds *model.Dataset) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SET LOCAL session_replication_role = 'replica'"); err != nil {
		return fmt.Errorf("failed to disable triggers: %w", err)
	}

	for _, t := range Tables {
		rows := t.rows(ds)
		if len(rows) == 0 {
			continue
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{t.Name}, t.Columns, copyRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy %s: %w", t.Name, err)
		}
		logging.Info().
			Str("table", t.Name).
			Int64("rows", n).
			Msg("Loaded table")
	}

	if _, err := tx.Exec(ctx, "SET LOCAL session_replication_role = 'origin'"); err != nil {
		return fmt.Errorf("failed to restore triggers: %w", err)
	}
	for _, t := range Tables {
		if t.IDColumn == "" {
			continue
		}
		if _, err := tx.Exec(ctx, setvalStatement(t)); err != nil {
			return fmt.Errorf("failed to reset sequence %s: %w", t.Sequence(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func copyRows(rows [][]any) pgx.CopyFromSource {
	converted := make([][]any, len(rows))
	for i, row := range rows {
		out := make([]any, len(row))
		for j, v := range row {
			out[j] = copyValue(v)
		}
		converted[i] = out
	}
	return pgx.CopyFromRows(converted)
}
