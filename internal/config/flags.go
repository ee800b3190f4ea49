package config

// This file implements CLI flag parsing and help text. Both the long flag
// names (--num_workers) and their short forms (-n) are accepted; Go's flag package also takes either one or two dashes.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// Version is shown by --version; override at build time with
// -ldflags "-X github.com/ytget/audioset-dl/internal/config.Version=...".
var Version = "dev"

// ErrHelp is returned when -h/--help was requested; usage has been printed.
var ErrHelp = flag.ErrHelp

// ParseFlags parses args (without the program name) into a Config built from
// DefaultConfig, then validates it.
func ParseFlags(args []string) (*Config, error) {
	return parseFlags(args, os.Stderr)
}

func parseFlags(args []string, output io.Writer) (*Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("audioset-dl", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() { printUsage(fs, output) }

	defineInputFlags(fs, &cfg)
	defineExecutionFlags(fs, &cfg)
	defineToolFlags(fs, &cfg)
	defineDisplayFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defineInputFlags registers --input/-i and --clip_length.
func defineInputFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.InputPath, "input", "", "List of YouTube file-intervals to download, one SOURCEID_STARTMILLISECONDS per line")
	fs.StringVar(&cfg.InputPath, "i", "", "Same as --input")
	fs.IntVar(&cfg.ClipLengthMs, "clip_length", cfg.ClipLengthMs, "Length (in ms) of the clip extracted from the starting timestamp")
}

// defineExecutionFlags registers --num_workers/-n, --streaming, --tool_timeout.
func defineExecutionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.NumWorkers, "num_workers", cfg.NumWorkers, "Number of parallel workers (and batch size)")
	fs.IntVar(&cfg.NumWorkers, "n", cfg.NumWorkers, "Same as --num_workers")
	fs.BoolVar(&cfg.Streaming, "streaming", false, "Feed workers from a bounded queue instead of fixed batches")
	fs.DurationVar(&cfg.ToolTimeout, "tool_timeout", 0, "Kill a yt-dlp or sox run after this long (0 = never)")
}

// defineToolFlags registers external tool locations and --install_ytdlp.
func defineToolFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.YTDLPPath, "ytdlp_path", cfg.YTDLPPath, "yt-dlp executable")
	fs.StringVar(&cfg.SoxPath, "sox_path", cfg.SoxPath, "sox executable")
	fs.BoolVar(&cfg.InstallYTDLP, "install_ytdlp", false, "Download a managed yt-dlp build if none is found")
}

// defineDisplayFlags registers --check, --verbose/-v, --color, --log_file, --version.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Check that yt-dlp and sox are available and exit")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Colored logs: auto | always | never")
	fs.StringVar(&cfg.LogFile, "log_file", "", "Append logs to file")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")
}

// colorModeValue adapts ColorMode to flag.Value.
type colorModeValue struct{ p *ColorMode }

func (v *colorModeValue) String() string {
	if v.p == nil {
		return string(ColorAuto)
	}
	return string(*v.p)
}

func (v *colorModeValue) Set(s string) error {
	mode := ColorMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case ColorAuto, ColorAlways, ColorNever:
		*v.p = mode
		return nil
	}
	return ErrInvalidColorMode
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "audioset-dl %s\n\n", Version)
	fmt.Fprintf(w, "Usage: audioset-dl --input <list.txt> [--num_workers N] [--clip_length MS]\n\n")
	fmt.Fprintf(w, "Downloads the best audio of each listed YouTube video, converts it to mono\n")
	fmt.Fprintf(w, "16-bit 44.1kHz WAV and cuts one clip per line. For list.txt the outputs go to\n")
	fmt.Fprintf(w, "list_downloaded/, list_formatted/ and list_segmented/. Existing outputs are kept.\n\n")
	fmt.Fprintf(w, "Requires yt-dlp and sox on PATH (or --ytdlp_path / --sox_path).\n\n")
	fmt.Fprintf(w, "Flags:\n")
	fs.PrintDefaults()
}

// IsHelp reports whether err came from a -h/--help request.
func IsHelp(err error) bool {
	return errors.Is(err, ErrHelp)
}
