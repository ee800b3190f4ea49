package convert

import (
	"context"
	"os"
	"time"

	"github.com/ytget/audioset-dl/internal/model"
)

// Executor runs one command line
type Executor func(ctx context.Context, argv []string) ExecResult

// Service handles sox conversions
type Service struct {
	soxPath string
	timeout time.Duration
	exec    Executor
}

// NewService creates a conversion service. A zero timeout disables it.
func NewService(soxPath string, timeout time.Duration) *Service {
	return &Service{
		soxPath: soxPath,
		timeout: timeout,
		exec:    Execute,
	}
}

// Normalize converts inputPath to the canonical format
func (s *Service) Normalize(ctx context.Context, inputPath, outputPath string) error {
	return s.run(ctx, BuildNormalizeArgs(s.soxPath, inputPath, outputPath), outputPath)
}

// Trim extracts the item's clip window from inputPath
func (s *Service) Trim(ctx context.Context, inputPath, outputPath string, item model.WorkItem) error {
	return s.run(ctx, BuildTrimArgs(s.soxPath, inputPath, outputPath, item), outputPath)
}

// run executes argv and removes the partial output on failure
func (s *Service) run(ctx context.Context, argv []string, outputPath string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.exec(ctx, argv).ToolError(); err != nil {
		os.Remove(outputPath)
		return err
	}
	return nil
}
