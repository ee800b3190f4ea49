// Command audioset-dl downloads YouTube audio clips listed as
// SOURCEID_STARTMILLISECONDS lines: it fetches each source's best audio with
// yt-dlp, normalizes it with sox and cuts one fixed-length clip per line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/ytget/audioset-dl/internal/check"
	"github.com/ytget/audioset-dl/internal/config"
	"github.com/ytget/audioset-dl/internal/convert"
	"github.com/ytget/audioset-dl/internal/dispatch"
	"github.com/ytget/audioset-dl/internal/download"
	"github.com/ytget/audioset-dl/internal/logging"
	"github.com/ytget/audioset-dl/internal/model"
	"github.com/ytget/audioset-dl/internal/pipeline"
)

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// 1. Load config from defaults and CLI flags.
	cfg, err := config.ParseFlags(args)
	if err != nil {
		if config.IsHelp(err) {
			return exitOK
		}
		fmt.Fprintf(stderr, "audioset-dl: %v\n", err)
		return exitFailure
	}
	if cfg.ShowVersion {
		fmt.Fprintln(stdout, "audioset-dl v"+config.Version)
		return exitOK
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "audioset-dl: %v\n", err)
		return exitFailure
	}
	defer log.Close()

	// 2. --check prints tool availability and exits.
	if cfg.CheckOnly {
		check.RunCheck(cfg, log)
		return exitOK
	}

	// 3. Fail fast on a missing listing or missing tools, before any batch.
	if _, err := os.Stat(cfg.InputPath); err != nil {
		log.Error("Input not found: %s", cfg.InputPath)
		return exitFailure
	}
	if cfg.InstallYTDLP {
		if err := check.EnsureYTDLP(ctx, cfg, log); err != nil {
			log.Error("%v", err)
			return exitFailure
		}
	}
	if err := check.CheckDeps(cfg); err != nil {
		log.Error("%v", err)
		return exitFailure
	}

	// 4. Wire services and run.
	dataset := model.NewDataset(cfg.InputPath)
	downloader := download.NewService(cfg.YTDLPPath, cfg.ToolTimeout, log)
	converter := convert.NewService(cfg.SoxPath, cfg.ToolTimeout)
	p := pipeline.New(dataset, downloader, converter, log)
	if err := p.Prepare(); err != nil {
		log.Error("%v", err)
		return exitFailure
	}

	mode := "batch"
	if cfg.Streaming {
		mode = "streaming"
	}
	log.Info("=== audioset-dl v%s (run %s) ===", config.Version, uuid.NewString())
	log.Info("In:  %s", cfg.InputPath)
	log.Info("Out: %s_{downloaded,formatted,segmented}", dataset.Name)
	log.Info("Workers: %d, clip: %v, mode: %s", cfg.NumWorkers, cfg.ClipDuration(), mode)

	d := dispatch.New(cfg.NumWorkers, cfg.ClipDuration(), cfg.Streaming, p, log)
	summary, err := d.RunFile(ctx, cfg.InputPath)
	logSummary(log, summary)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Interrupted")
			return exitInterrupted
		}
		log.Error("%v", err)
		return exitFailure
	}
	return exitOK
}

func logSummary(log *logging.Logger, s dispatch.Summary) {
	log.Info("Lines: %d, clips ready: %d, failed: %d, rejected: %d, batches: %d",
		s.Lines, s.Completed, s.Failed, s.Invalid, s.Rounds)
}
