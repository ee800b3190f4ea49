package config

import (
	"errors"
	"io"
	"runtime"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ClipLengthMs != DefaultClipLengthMs {
		t.Errorf("Expected default clip length %d, got %d", DefaultClipLengthMs, cfg.ClipLengthMs)
	}
	if cfg.NumWorkers != ClampWorkers(runtime.NumCPU()) {
		t.Errorf("Expected default workers %d, got %d", ClampWorkers(runtime.NumCPU()), cfg.NumWorkers)
	}
	if cfg.ColorMode != ColorAuto {
		t.Errorf("Expected color mode auto, got %s", cfg.ColorMode)
	}
	if cfg.ClipDuration() != 10*time.Second {
		t.Errorf("Expected clip duration 10s, got %v", cfg.ClipDuration())
	}
}

func TestClampWorkers(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-3, MinWorkers},
		{0, MinWorkers},
		{1, 1},
		{8, 8},
		{MaxWorkers, MaxWorkers},
		{1000, MaxWorkers},
	}

	for _, test := range tests {
		if result := ClampWorkers(test.input); result != test.expected {
			t.Errorf("ClampWorkers(%d) = %d, expected %d", test.input, result, test.expected)
		}
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		input   string
		workers int
		clip    int
		stream  bool
	}{
		{
			name:    "long flags",
			args:    []string{"--input", "foo.txt", "--num_workers", "3", "--clip_length", "5000"},
			input:   "foo.txt",
			workers: 3,
			clip:    5000,
		},
		{
			name:    "short flags",
			args:    []string{"-i", "bar.txt", "-n", "2"},
			input:   "bar.txt",
			workers: 2,
			clip:    DefaultClipLengthMs,
		},
		{
			name:    "equals form and streaming",
			args:    []string{"--input=baz.txt", "--num_workers=0", "--streaming"},
			input:   "baz.txt",
			workers: MinWorkers,
			clip:    DefaultClipLengthMs,
			stream:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(tt.args, io.Discard)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.InputPath != tt.input {
				t.Errorf("expected input %q, got %q", tt.input, cfg.InputPath)
			}
			if cfg.NumWorkers != tt.workers {
				t.Errorf("expected %d workers, got %d", tt.workers, cfg.NumWorkers)
			}
			if cfg.ClipLengthMs != tt.clip {
				t.Errorf("expected clip %d, got %d", tt.clip, cfg.ClipLengthMs)
			}
			if cfg.Streaming != tt.stream {
				t.Errorf("expected streaming %v, got %v", tt.stream, cfg.Streaming)
			}
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected error
	}{
		{"missing input", []string{"-n", "2"}, ErrMissingInput},
		{"short clip", []string{"-i", "foo.txt", "--clip_length", "500"}, ErrInvalidClip},
		{"negative timeout", []string{"-i", "foo.txt", "--tool_timeout", "-1s"}, ErrInvalidTimeout},
		{"help", []string{"-h"}, ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, io.Discard)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestParseFlags_InvalidColor(t *testing.T) {
	if _, err := parseFlags([]string{"-i", "foo.txt", "--color", "rainbow"}, io.Discard); err == nil {
		t.Error("Expected error for invalid color mode")
	}
}

func TestParseFlags_CheckOnlyNeedsNoInput(t *testing.T) {
	cfg, err := parseFlags([]string{"--check"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.CheckOnly {
		t.Error("Expected CheckOnly to be set")
	}
}

func TestParseFlags_UnexpectedArgs(t *testing.T) {
	if _, err := parseFlags([]string{"-i", "foo.txt", "extra"}, io.Discard); err == nil {
		t.Error("Expected error for positional arguments")
	}
}
