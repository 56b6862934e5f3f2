//-------------------------------------------------------------------------
//
// pgEdge Stock Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"errors"
	"fmt"
)

// Failure kinds. Match them with errors.Is.
var (
	// ErrConfigLoad means the configuration could not be read; nothing ran.
	ErrConfigLoad = errors.New("configuration load failure")

	// ErrConnection means a source or sink was unreachable.
	ErrConnection = errors.New("connection failure")

	// ErrTransform means a metric computation failed; nothing was loaded.
	ErrTransform = errors.New("transform failure")

	// ErrLoad means the load stage could not start.
	ErrLoad = errors.New("load failure")
)

// Pipeline stages, as reported in errors and stage metrics.
const (
	StageExtract   = "extract"
	StageTransform = "transform"
	StageLoad      = "load"
	StageReport    = "report"
	StageWatermark = "watermark"
)

// StageError records the stage a run halted in.
type StageError struct {
	Stage string
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v: %v", e.Stage, e.Kind, e.Err)
}

// Unwrap exposes both the failure kind and the cause.
func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func stageError(stage string, kind, err error) error {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// ConfigError marks err as a configuration load failure.
func ConfigError(err error) error {
	return fmt.Errorf("%w: %w", ErrConfigLoad, err)
}
