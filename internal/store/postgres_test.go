//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration

// Run with: go test -tags=integration ./internal/store/...
// Set PGEDGE_TEST_CONN to override the connection string.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-stockgen/internal/testutil"
)

func TestLoadPostgres(t *testing.T) {
	pool := testutil.NewSchemaDB(t, "store")
	ctx := context.Background()

	require.NoError(t, LoadPostgres(ctx, pool, sampleDataset()))

	var movements, stock int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM stock_movements").Scan(&movements))
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM stock").Scan(&stock))
	assert.Equal(t, 5, movements)
	assert.Equal(t, 2, stock)

	var next int64
	require.NoError(t, pool.QueryRow(ctx, "SELECT nextval('stock_movements_movement_id_seq')").Scan(&next))
	assert.Equal(t, int64(6), next, "sequence should continue after the loaded ids")

	// A second load collides on primary keys and must leave nothing behind.
	err := LoadPostgres(ctx, pool, sampleDataset())
	require.Error(t, err)
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM stock_movements").Scan(&movements))
	assert.Equal(t, 5, movements)
}
