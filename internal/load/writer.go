//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package load writes analytics frames to files and appends the run
// summary to a database table.
package load

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pgEdge/pgedge-stockgen/internal/table"
)

// Writer persists one frame to a file.
type Writer interface {
	// Format is the configured name, e.g. "csv".
	Format() string

	// Extension is the file suffix without the dot.
	Extension() string

	Write(path string, f *table.Frame) error
}

var (
	registry = make(map[string]Writer)
	mu       sync.RWMutex
)

// Register adds a writer to the registry.
func Register(w Writer) {
	mu.Lock()
	defer mu.Unlock()
	registry[w.Format()] = w
}

// Get retrieves a writer by format name.
func Get(format string) (Writer, error) {
	mu.RLock()
	defer mu.RUnlock()

	w, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
	return w, nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
