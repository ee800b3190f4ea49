package download

import (
	"context"

	"github.com/ytget/audioset-dl/internal/model"
)

// Downloader defines the interface for the acquire stage.
type Downloader interface {
	// Download fetches the best audio track of item's source as WAV at outputPath
	Download(ctx context.Context, item model.WorkItem, outputPath string) error
}

// Logger is the minimal logging interface needed by the service.
type Logger interface {
	Warn(string, ...interface{})
	Debug(string, ...interface{})
}
