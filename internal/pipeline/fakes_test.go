package pipeline

import (
	"context"
	"encoding/binary"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ytget/audioset-dl/internal/model"
)

// wavBytes returns a minimal RIFF/WAVE file body
func wavBytes() []byte {
	data := make([]byte, 44+32)
	copy(data[0:4], "RIFF")
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)-8))
	copy(data[8:12], "WAVE")
	return data
}

type fakeDownloader struct {
	calls   int32
	delay   time.Duration
	err     error
	payload []byte // nil writes a valid wav
}

func (f *fakeDownloader) Download(ctx context.Context, item model.WorkItem, outputPath string) error {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	payload := f.payload
	if payload == nil {
		payload = wavBytes()
	}
	if err := os.WriteFile(outputPath, payload, 0644); err != nil {
		return err
	}
	return f.err
}

func (f *fakeDownloader) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

type trimCall struct {
	output string
	start  string
	dur    string
}

type fakeConverter struct {
	normalizeCalls int32
	normalizeErr   error
	trimPanic      bool

	mu    sync.Mutex
	trims []trimCall
}

func (f *fakeConverter) Normalize(ctx context.Context, inputPath, outputPath string) error {
	atomic.AddInt32(&f.normalizeCalls, 1)
	if f.normalizeErr != nil {
		return f.normalizeErr
	}
	return os.WriteFile(outputPath, wavBytes(), 0644)
}

func (f *fakeConverter) Trim(ctx context.Context, inputPath, outputPath string, item model.WorkItem) error {
	if f.trimPanic {
		panic("sox wrapper exploded")
	}
	f.mu.Lock()
	f.trims = append(f.trims, trimCall{output: outputPath, start: item.StartSeconds(), dur: item.DurationSeconds()})
	f.mu.Unlock()
	return os.WriteFile(outputPath, wavBytes(), 0644)
}

func (f *fakeConverter) NormalizeCalls() int {
	return int(atomic.LoadInt32(&f.normalizeCalls))
}

func (f *fakeConverter) Trims() []trimCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]trimCall(nil), f.trims...)
}
