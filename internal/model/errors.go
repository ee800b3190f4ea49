package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for artifact verification
var (
	ErrMissingOutput   = errors.New("tool produced no output file")
	ErrEmptyOutput     = errors.New("tool produced an empty output file")
	ErrInvalidArtifact = errors.New("output file is not a RIFF/WAVE file")
)

// ToolError is a failed external tool invocation
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int // -1 when the process did not start or was killed
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	if e.Err != nil && e.ExitCode <= 0 {
		msg = fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	}
	if tail := lastLine(e.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// StageError attributes a failure to a pipeline stage of one source
type StageError struct {
	Stage    Stage
	SourceID string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.SourceID, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.TrimSpace(s)
}
