//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig()
	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.LessOrEqual(t, cfg.MinConns, cfg.MaxConns)
}

func TestConnectBadConnString(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}
