//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package load

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pgEdge/pgedge-stockgen/internal/logging"
	"github.com/pgEdge/pgedge-stockgen/internal/table"
)

// Report describes the outcome of a file load. A failed output does not
// stop the others.
type Report struct {
	Written []string
	Failed  map[string]error
}

// OK reports whether every output was written.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// FailedNames returns the names of the failed outputs, sorted.
func (r *Report) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for name := range r.Failed {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// FileLoader writes whitelisted frames into a directory.
type FileLoader struct {
	Dir    string
	Writer Writer

	// Allowed restricts which frames are written; nil allows all.
	Allowed []string
}

// NewFileLoader resolves format and prepares dir.
func NewFileLoader(dir, format string, allowed []string) (*FileLoader, error) {
	w, err := Get(format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileLoader{Dir: dir, Writer: w, Allowed: allowed}, nil
}

// Load writes each allowed frame to <Dir>/<name>.<ext>. Failures are
// logged and collected in the report.
func (l *FileLoader) Load(frames []*table.Frame) *Report {
	log := logging.With("load")
	report := &Report{Failed: make(map[string]error)}

	for _, f := range frames {
		if l.Allowed != nil && !slices.Contains(l.Allowed, f.Name) {
			continue
		}
		path := filepath.Join(l.Dir, f.Name+"."+l.Writer.Extension())
		if err := l.Writer.Write(path, f); err != nil {
			report.Failed[f.Name] = err
			log.Error().
				Err(err).
				Str("output", f.Name).
				Str("format", l.Writer.Format()).
				Msg("Failed to write output")
			continue
		}
		report.Written = append(report.Written, path)
		log.Info().
			Str("output", f.Name).
			Int("rows", f.Len()).
			Str("path", path).
			Msg("Wrote output")
	}
	return report
}
