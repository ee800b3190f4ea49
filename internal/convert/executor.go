package convert

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"

	"github.com/ytget/audioset-dl/internal/model"
)

// ExecResult holds the outcome of a single tool invocation.
type ExecResult struct {
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

// ToolError converts a failed result into a typed error; nil on success.
func (r ExecResult) ToolError() error {
	if r.Err == nil {
		return nil
	}
	tool := ""
	if len(r.Args) > 0 {
		tool = filepath.Base(r.Args[0])
	}
	return &model.ToolError{
		Tool:     tool,
		Args:     r.Args,
		ExitCode: r.ExitCode,
		Stderr:   r.Stderr,
		Err:      r.Err,
	}
}

// Execute runs argv and captures stderr. ExitCode is -1 when the process
// could not be started or was terminated by a signal or ctx.
func Execute(ctx context.Context, argv []string) ExecResult {
	res := ExecResult{Args: argv, ExitCode: -1}
	if len(argv) == 0 {
		res.Err = errors.New("empty command")
		return res
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	res.Stderr = stderrBuf.String()
	res.Err = err

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case ctx.Err() != nil:
		res.Err = ctx.Err()
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	}
	return res
}
