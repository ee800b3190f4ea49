// Package config holds runtime configuration: defaults, CLI flag parsing and
// validation. Flag names keep the snake_case spelling of existing AudioSet
// download scripts (--num_workers, --clip_length).
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Default values
const (
	DefaultClipLengthMs = 10000
	MinClipLengthMs     = 1000
	MinWorkers          = 1
	MaxWorkers          = 64
	DefaultYTDLPPath    = "yt-dlp"
	DefaultSoxPath      = "sox"
)

// Validation errors
var (
	ErrMissingInput     = errors.New("--input is required")
	ErrInvalidClip      = fmt.Errorf("--clip_length must be at least %d ms", MinClipLengthMs)
	ErrInvalidTimeout   = errors.New("--tool_timeout must not be negative")
	ErrInvalidColorMode = errors.New("--color must be one of auto, always, never")
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags].
type Config struct {
	// Listing of SOURCEID_STARTMS descriptors, one per line.
	InputPath string

	// Pool size and batch size. Default: runtime.NumCPU().
	NumWorkers int

	// Clip length in milliseconds, shared across all items. Default: 10000.
	ClipLengthMs int

	// Streaming replaces the per-batch barrier with a bounded queue.
	Streaming bool

	// Per tool invocation timeout; zero disables it.
	ToolTimeout time.Duration

	// External tools.
	YTDLPPath    string
	SoxPath      string
	InstallYTDLP bool

	// Display / utility.
	CheckOnly   bool
	Verbose     bool
	ColorMode   ColorMode
	LogFile     string
	ShowVersion bool
}

// DefaultConfig returns a Config with every default applied
func DefaultConfig() Config {
	return Config{
		NumWorkers:   DefaultWorkers(),
		ClipLengthMs: DefaultClipLengthMs,
		YTDLPPath:    DefaultYTDLPPath,
		SoxPath:      DefaultSoxPath,
		ColorMode:    ColorAuto,
	}
}

// DefaultWorkers returns the platform concurrency level
func DefaultWorkers() int {
	return ClampWorkers(runtime.NumCPU())
}

// ClampWorkers bounds a worker count to [MinWorkers, MaxWorkers]
func ClampWorkers(count int) int {
	if count < MinWorkers {
		count = MinWorkers
	}
	if count > MaxWorkers {
		count = MaxWorkers
	}
	return count
}

// ClipDuration returns the configured clip length as a duration
func (c *Config) ClipDuration() time.Duration {
	return time.Duration(c.ClipLengthMs) * time.Millisecond
}

// Validate checks field values. Worker counts are clamped rather than rejected.
func (c *Config) Validate() error {
	if c.CheckOnly || c.ShowVersion {
		return nil
	}
	if strings.TrimSpace(c.InputPath) == "" {
		return ErrMissingInput
	}
	if c.ClipLengthMs < MinClipLengthMs {
		return ErrInvalidClip
	}
	if c.ToolTimeout < 0 {
		return ErrInvalidTimeout
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return ErrInvalidColorMode
	}
	c.NumWorkers = ClampWorkers(c.NumWorkers)
	if c.YTDLPPath == "" {
		c.YTDLPPath = DefaultYTDLPPath
	}
	if c.SoxPath == "" {
		c.SoxPath = DefaultSoxPath
	}
	return nil
}
