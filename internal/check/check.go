// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation (CheckDeps) for yt-dlp and sox.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/audioset-dl/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrYTDLPNotFound = errors.New("yt-dlp not found (install it or pass --install_ytdlp)")
	ErrSoxNotFound   = errors.New("sox not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// Hooks replaced by tests
var (
	lookPath = exec.LookPath
	install  = func(ctx context.Context) (string, string, error) {
		resolved, err := ytdlp.Install(ctx, nil)
		if err != nil {
			return "", "", err
		}
		return resolved.Executable, resolved.Version, nil
	}
)

// CheckDeps verifies that yt-dlp and sox resolve. It is called before any
// batch is dispatched.
func CheckDeps(cfg *config.Config) error {
	if _, err := lookPath(cfg.YTDLPPath); err != nil {
		return ErrYTDLPNotFound
	}
	if _, err := lookPath(cfg.SoxPath); err != nil {
		return ErrSoxNotFound
	}
	return nil
}

// EnsureYTDLP resolves yt-dlp through go-ytdlp's installer (system binary,
// cached download, or a fresh download) and points cfg at it.
func EnsureYTDLP(ctx context.Context, cfg *config.Config, log Logger) error {
	if _, err := lookPath(cfg.YTDLPPath); err == nil {
		return nil
	}
	log.Info("yt-dlp not found, installing a managed copy...")
	executable, version, err := install(ctx)
	if err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	cfg.YTDLPPath = executable
	log.Success("yt-dlp %s: %s", version, executable)
	return nil
}

// RunCheck prints the availability and version of each external tool. It is
// informational only and does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")
	checkTool(log, "yt-dlp", cfg.YTDLPPath, "--version")
	checkTool(log, "sox", cfg.SoxPath, "--version")
}

// checkTool verifies name is resolvable and logs the first line of its version output.
func checkTool(log Logger, name, path string, versionArgs ...string) {
	resolved, err := lookPath(path)
	if err != nil {
		log.Error("%s not found", name)
		return
	}
	out, err := exec.Command(resolved, versionArgs...).Output()
	if err != nil {
		log.Warn("%s found at %s but version query failed: %v", name, resolved, err)
		return
	}
	log.Success("%s: %s (%s)", name, firstLine(string(out)), resolved)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return s
}
