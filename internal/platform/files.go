package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytget/audioset-dl/internal/model"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// WAV header layout: "RIFF" <size:4> "WAVE"
const (
	wavHeaderSize = 12
	riffMagic     = "RIFF"
	waveMagic     = "WAVE"
)

// Leftovers yt-dlp writes next to an interrupted or unconverted download
var (
	LeftoverExtensions = []string{".part", ".ytdl", ".temp", ".webm", ".m4a", ".opus", ".mp4"}
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// EnsureDatasetDirs creates the download, formatted and segmented directories
func EnsureDatasetDirs(ds model.Dataset) error {
	for _, dir := range ds.Dirs() {
		if err := CreateDirectoryIfNotExists(dir); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// VerifyArtifact checks that path exists, is non-empty and carries a
// RIFF/WAVE header. It returns one of the model sentinel errors otherwise.
func VerifyArtifact(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ErrMissingOutput
		}
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		return model.ErrEmptyOutput
	}

	header := make([]byte, wavHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return model.ErrInvalidArtifact
	}
	if !bytes.Equal(header[0:4], []byte(riffMagic)) || !bytes.Equal(header[8:12], []byte(waveMagic)) {
		return model.ErrInvalidArtifact
	}
	return nil
}

// IsComplete reports whether path holds a usable artifact
func IsComplete(path string) bool {
	return VerifyArtifact(path) == nil
}

// RemovePartial deletes a failed stage output and any download leftovers
// sharing its stem (e.g. "Yid.webm.part"). Missing files are ignored.
func RemovePartial(path string) error {
	var errs []error
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), globEscape(stem)+".*"))
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	for _, match := range matches {
		if !isLeftover(match) {
			continue
		}
		if err := os.Remove(match); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// isLeftover reports whether name is an intermediate download file
func isLeftover(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, leftover := range LeftoverExtensions {
		if ext == leftover {
			return true
		}
	}
	return false
}

// globEscape quotes glob metacharacters; YouTube ids only use [A-Za-z0-9_-]
// but listings are user input.
func globEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
