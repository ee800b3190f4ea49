package download

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/audioset-dl/internal/model"
)

// yt-dlp settings
const (
	BestAudioFormat   = "ba"
	AudioFormatWAV    = "wav"
	ExtTemplate       = ".%(ext)s"
	DefaultExecutable = "yt-dlp"
	ToolName          = "yt-dlp"
)

// Retry policy
const (
	DefaultMaxRetries = 1
	DefaultRetryDelay = 2 * time.Second
)

// runFunc executes a prepared yt-dlp command for url
type runFunc func(ctx context.Context, cmd *ytdlp.Command, url string) (*ytdlp.Result, error)

// Service handles yt-dlp downloads
type Service struct {
	executable string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	log        Logger
	run        runFunc
}

// NewService creates a new download service. An empty executable lets
// go-ytdlp resolve yt-dlp itself; a zero timeout disables it.
func NewService(executable string, timeout time.Duration, log Logger) *Service {
	return &Service{
		executable: executable,
		timeout:    timeout,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		log:        log,
		run:        runCommand,
	}
}

// Download fetches item's best audio track and extracts it to outputPath
func (s *Service) Download(ctx context.Context, item model.WorkItem, outputPath string) error {
	dl := s.buildCommand(outputPath)
	_, err := s.downloadWithRetry(ctx, dl, item)
	return err
}

// buildCommand configures yt-dlp for best-audio WAV extraction
func (s *Service) buildCommand(outputPath string) *ytdlp.Command {
	dl := ytdlp.New().
		Format(BestAudioFormat).
		ExtractAudio().
		AudioFormat(AudioFormatWAV).
		NoPlaylist().
		NoProgress().
		ForceOverwrites().
		Output(OutputTemplate(outputPath))

	if s.executable != "" && s.executable != DefaultExecutable {
		dl.SetExecutable(s.executable)
	}
	return dl
}

// OutputTemplate turns ".../Yid.wav" into ".../Yid.%(ext)s" so yt-dlp names
// the extracted file itself. Literal percent signs are escaped.
func OutputTemplate(outputPath string) string {
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	return strings.ReplaceAll(base, "%", "%%") + ExtTemplate
}

// downloadWithRetry attempts download with retry logic
func (s *Service) downloadWithRetry(ctx context.Context, dl *ytdlp.Command, item model.WorkItem) (*ytdlp.Result, error) {
	var lastErr error
	var result *ytdlp.Result

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return result, ctx.Err()
			}

			s.log.Debug("%s: retrying download, attempt %d", item.SourceID, attempt+1)
		}

		res, err := s.attempt(ctx, dl, item)
		if err == nil {
			return res, nil
		}

		lastErr = err
		result = res
		s.log.Warn("%s: download attempt %d failed: %v", item.SourceID, attempt+1, err)

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
	}

	return result, lastErr
}

// attempt runs yt-dlp once under the configured timeout
func (s *Service) attempt(ctx context.Context, dl *ytdlp.Command, item model.WorkItem) (*ytdlp.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.run(ctx, dl, item.URL())
	if err != nil {
		return res, toolError(res, item, err)
	}
	return res, nil
}

// toolError converts a failed go-ytdlp run into a *model.ToolError
func toolError(res *ytdlp.Result, item model.WorkItem, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	te := &model.ToolError{
		Tool:     ToolName,
		Args:     []string{item.URL()},
		ExitCode: -1,
		Err:      err,
	}
	if res != nil {
		te.ExitCode = res.ExitCode
		te.Stderr = res.Stderr
		if len(res.Args) > 0 {
			te.Args = res.Args
		}
	}
	return te
}

func runCommand(ctx context.Context, cmd *ytdlp.Command, url string) (*ytdlp.Result, error) {
	return cmd.Run(ctx, url)
}
