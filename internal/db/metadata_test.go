//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration

// Run with: go test -tags=integration ./internal/db/...
// Set PGEDGE_TEST_CONN to override the connection string.

package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-stockgen/internal/testutil"
)

func TestWatermark(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, baseConnStr, "db")
	cleanup := testutil.NewTestCleanup(t, baseConnStr, testutil.GetDBNameFromConnStr(connStr))
	defer cleanup.Cleanup()

	ctx := context.Background()
	pool, err := Connect(ctx, connStr)
	require.NoError(t, err)
	cleanup.SetPool(pool)

	_, ok, err := GetWatermark(ctx, pool)
	require.NoError(t, err)
	assert.False(t, ok, "fresh database has no watermark")

	ts := time.Date(2024, 6, 1, 8, 30, 15, 123000000, time.UTC)
	require.NoError(t, SaveWatermark(ctx, pool, ts))
	require.NoError(t, SaveWatermark(ctx, pool, ts.Add(time.Hour)))

	got, ok, err := GetWatermark(ctx, pool)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(ts.Add(time.Hour)))
}
