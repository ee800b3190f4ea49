package convert

import (
	"strconv"

	"github.com/ytget/audioset-dl/internal/model"
)

// Canonical output format
const (
	Channels   = 1
	BitDepth   = 16
	SampleRate = 44100
)

// sox flags
const (
	GuardFlag      = "-G" // guard against clipping
	ChannelsFlag   = "-c"
	BitDepthFlag   = "-b"
	SampleRateFlag = "-r"
	TrimEffect     = "trim"
)

// BuildNormalizeArgs builds the sox argv converting inputPath to the
// canonical format. argv[0] is the executable.
func BuildNormalizeArgs(soxPath, inputPath, outputPath string) []string {
	return []string{
		soxPath,
		GuardFlag,
		inputPath,
		ChannelsFlag, strconv.Itoa(Channels),
		BitDepthFlag, strconv.Itoa(BitDepth),
		SampleRateFlag, strconv.Itoa(SampleRate),
		outputPath,
	}
}

// BuildTrimArgs builds the sox argv extracting the item's clip window.
func BuildTrimArgs(soxPath, inputPath, outputPath string, item model.WorkItem) []string {
	return []string{
		soxPath,
		inputPath,
		outputPath,
		TrimEffect, item.StartSeconds(), item.DurationSeconds(),
	}
}
