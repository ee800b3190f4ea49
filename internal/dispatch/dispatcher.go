package dispatch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ytget/audioset-dl/internal/model"
	"github.com/ytget/audioset-dl/internal/platform"
)

// Processor runs the stage pipeline for one item
type Processor interface {
	Process(ctx context.Context, item model.WorkItem) (*model.ClipTask, error)
}

// Logger is the logging interface needed by the dispatcher.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Summary counts what a run did. It is only used for the final log line.
type Summary struct {
	Rounds     int   // batches dispatched (zero in streaming mode)
	BatchSizes []int // lines per batch, in order
	Lines      int
	Invalid    int // lines rejected by the parser
	Completed  int
	Failed     int
}

// Dispatcher feeds listing lines to a worker pool
type Dispatcher struct {
	workers   int
	clip      time.Duration
	streaming bool
	processor Processor
	log       Logger

	mu      sync.Mutex
	summary Summary
}

// New creates a dispatcher. workers is both pool and batch size.
func New(workers int, clip time.Duration, streaming bool, processor Processor, log Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		workers:   workers,
		clip:      clip,
		streaming: streaming,
		processor: processor,
		log:       log,
	}
}

// RunFile opens path and dispatches its lines. A missing or unreadable file
// fails before any work starts.
func (d *Dispatcher) RunFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to stat input: %w", err)
	}
	if info.IsDir() {
		return Summary{}, fmt.Errorf("input %s is a directory", path)
	}

	return d.Run(ctx, f)
}

// Run dispatches every line of r and blocks until all of them are processed
// or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, r io.Reader) (Summary, error) {
	d.mu.Lock()
	d.summary = Summary{}
	d.mu.Unlock()

	var err error
	if d.streaming {
		err = d.runStreaming(ctx, bufio.NewReader(r))
	} else {
		err = d.runBatches(ctx, bufio.NewReader(r))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary, err
}

// line is one listing line with its 1-based position
type line struct {
	number int
	text   string
}

// lineReader yields lines until the input is exhausted
type lineReader struct {
	r      *bufio.Reader
	number int
	done   bool
}

// next returns the next line. ok is false once the input is exhausted; a
// final line without a trailing newline is still returned.
func (lr *lineReader) next() (line, bool, error) {
	if lr.done {
		return line{}, false, nil
	}
	text, err := lr.r.ReadString('\n')
	if err != nil {
		lr.done = true
		if !errors.Is(err, io.EOF) {
			return line{}, false, fmt.Errorf("failed to read input: %w", err)
		}
		if text == "" {
			return line{}, false, nil
		}
	}
	lr.number++
	return line{number: lr.number, text: strings.TrimRight(text, "\r\n")}, true, nil
}

// readBatch reads up to size lines. exhausted reports that no further read
// should be attempted.
func (lr *lineReader) readBatch(size int) (batch []line, exhausted bool, err error) {
	batch = make([]line, 0, size)
	for len(batch) < size {
		l, ok, err := lr.next()
		if err != nil {
			return batch, true, err
		}
		if !ok {
			return batch, true, nil
		}
		batch = append(batch, l)
	}
	return batch, lr.done, nil
}

// runBatches reads worker-sized batches and waits for each one to finish
// before reading the next.
func (d *Dispatcher) runBatches(ctx context.Context, r *bufio.Reader) error {
	lr := &lineReader{r: r}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, exhausted, readErr := lr.readBatch(d.workers)
		if len(batch) > 0 {
			var round int
			d.record(func(s *Summary) {
				s.Rounds++
				s.BatchSizes = append(s.BatchSizes, len(batch))
				round = s.Rounds
			})
			d.log.Debug("batch %d: %d lines", round, len(batch))
			d.runBatch(ctx, batch)
		}
		if readErr != nil {
			return readErr
		}
		if exhausted || len(batch) < d.workers {
			return ctx.Err()
		}
	}
}

// runBatch processes one batch on up to d.workers goroutines
func (d *Dispatcher) runBatch(ctx context.Context, batch []line) {
	var g errgroup.Group
	g.SetLimit(d.workers)
	for _, l := range batch {
		g.Go(func() error {
			d.handle(ctx, l)
			return nil
		})
	}
	_ = g.Wait()
}

// runStreaming feeds a bounded queue consumed by d.workers goroutines
func (d *Dispatcher) runStreaming(ctx context.Context, r *bufio.Reader) error {
	lr := &lineReader{r: r}
	queue := make(chan line, d.workers)

	var g errgroup.Group
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for l := range queue {
				d.handle(ctx, l)
			}
			return nil
		})
	}

	var readErr error
	func() {
		defer close(queue)
		for {
			l, ok, err := lr.next()
			if err != nil {
				readErr = err
				return
			}
			if !ok {
				return
			}
			select {
			case queue <- l:
			case <-ctx.Done():
				return
			}
		}
	}()

	_ = g.Wait()
	if readErr != nil {
		return readErr
	}
	return ctx.Err()
}

// handle parses and processes one line; failures are logged and counted
func (d *Dispatcher) handle(ctx context.Context, l line) {
	d.record(func(s *Summary) { s.Lines++ })

	item, err := platform.ParseDescriptor(l.text, d.clip)
	if err != nil {
		if errors.Is(err, platform.ErrEmptyLine) {
			d.log.Debug("line %d: blank, skipping", l.number)
		} else {
			d.log.Error("line %d: skipping: %v", l.number, err)
		}
		d.record(func(s *Summary) { s.Invalid++ })
		return
	}

	if ctx.Err() != nil {
		return
	}

	task, err := d.processor.Process(ctx, item)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			d.log.Warn("%s: Cancelled", item.SourceID)
		} else {
			d.log.Error("%s: Error - %v", item.SourceID, err)
		}
		d.record(func(s *Summary) { s.Failed++ })
		return
	}

	d.log.Success("%s: Done %s [%ss, %ss) in %s", item.SourceID, item.Descriptor, item.StartSeconds(), item.EndSeconds(), task.Elapsed().Round(time.Millisecond))
	d.record(func(s *Summary) { s.Completed++ })
}

func (d *Dispatcher) record(update func(*Summary)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	update(&d.summary)
}
