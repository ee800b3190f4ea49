package convert

import (
	"context"

	"github.com/ytget/audioset-dl/internal/model"
)

// Converter defines the interface for the audio conversion service.
type Converter interface {
	// Normalize converts input to mono 16-bit 44.1kHz WAV at output
	Normalize(ctx context.Context, inputPath, outputPath string) error

	// Trim cuts the item's [Start, Start+ClipDuration) window from input
	Trim(ctx context.Context, inputPath, outputPath string, item model.WorkItem) error
}
