//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "pgedge-stockgen "+Version) {
		t.Errorf("Info() = %q, want prefix with binary name and version", info)
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
