package dispatch

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/audioset-dl/internal/logging"
	"github.com/ytget/audioset-dl/internal/model"
)

// fakeProcessor records items and tracks how many run at once
type fakeProcessor struct {
	delay func(item model.WorkItem) time.Duration
	fail  map[string]bool

	inFlight    int32
	maxInFlight int32
	clock       int64

	mu     sync.Mutex
	items  []model.WorkItem
	starts map[string]int64
	ends   map[string]int64
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		fail:   map[string]bool{},
		starts: map[string]int64{},
		ends:   map[string]int64{},
	}
}

func (f *fakeProcessor) Process(ctx context.Context, item model.WorkItem) (*model.ClipTask, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	for {
		peak := atomic.LoadInt32(&f.maxInFlight)
		if n <= peak || atomic.CompareAndSwapInt32(&f.maxInFlight, peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.items = append(f.items, item)
	f.starts[item.Descriptor] = atomic.AddInt64(&f.clock, 1)
	f.mu.Unlock()

	if f.delay != nil {
		time.Sleep(f.delay(item))
	}

	f.mu.Lock()
	f.ends[item.Descriptor] = atomic.AddInt64(&f.clock, 1)
	f.mu.Unlock()
	atomic.AddInt32(&f.inFlight, -1)

	task := model.NewClipTask("clip-test", item)
	task.FinishedAt = time.Now()
	if f.fail[item.SourceID] {
		return task, errors.New("tool failed")
	}
	return task, nil
}

func (f *fakeProcessor) descriptors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it.Descriptor)
	}
	sort.Strings(out)
	return out
}

func listing(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("vid")
		b.WriteByte(byte('a' + i))
		b.WriteString("_1000\n")
	}
	return b.String()
}

func TestRun_BatchSizes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		workers  int
		expected []int
	}{
		{"seven lines three workers", listing(7), 3, []int{3, 3, 1}},
		{"exact multiple", listing(6), 3, []int{3, 3}},
		{"fewer lines than workers", listing(2), 4, []int{2}},
		{"single worker", listing(3), 1, []int{1, 1, 1}},
		{"no trailing newline", strings.TrimSuffix(listing(4), "\n"), 2, []int{2, 2}},
		{"empty input", "", 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := newFakeProcessor()
			d := New(tt.workers, 10*time.Second, false, proc, logging.Discard())

			summary, err := d.Run(context.Background(), strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.expected, summary.BatchSizes)
			assert.Equal(t, len(tt.expected), summary.Rounds)

			total := 0
			for _, n := range tt.expected {
				total += n
			}
			assert.Equal(t, total, summary.Completed)
			assert.Len(t, proc.descriptors(), total)
		})
	}
}

func TestRun_BatchIsABarrier(t *testing.T) {
	proc := newFakeProcessor()
	proc.delay = func(item model.WorkItem) time.Duration {
		// the first item of each batch straggles
		if item.SourceID == "vida" || item.SourceID == "vidd" {
			return 40 * time.Millisecond
		}
		return time.Millisecond
	}
	d := New(3, 10*time.Second, false, proc, logging.Discard())

	_, err := d.Run(context.Background(), strings.NewReader(listing(7)))
	require.NoError(t, err)

	proc.mu.Lock()
	defer proc.mu.Unlock()

	batches := [][]string{
		{"vida_1000", "vidb_1000", "vidc_1000"},
		{"vidd_1000", "vide_1000", "vidf_1000"},
		{"vidg_1000"},
	}
	for i := 1; i < len(batches); i++ {
		var lastEnd int64
		for _, desc := range batches[i-1] {
			if proc.ends[desc] > lastEnd {
				lastEnd = proc.ends[desc]
			}
		}
		for _, desc := range batches[i] {
			assert.Greater(t, proc.starts[desc], lastEnd, "%s started before batch %d finished", desc, i)
		}
	}
	assert.LessOrEqual(t, proc.maxInFlight, int32(3))
}

func TestRun_MalformedLineDoesNotHaltBatch(t *testing.T) {
	proc := newFakeProcessor()
	d := New(3, 10*time.Second, false, proc, logging.Discard())

	input := "good_0\nbad_notanumber\n\nother_id_2000\n"
	summary, err := d.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"good_0", "other_id_2000"}, proc.descriptors())
	assert.Equal(t, 2, summary.Invalid)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 4, summary.Lines)
	assert.Equal(t, []int{3, 1}, summary.BatchSizes)
}

func TestRun_ItemFailureIsCounted(t *testing.T) {
	proc := newFakeProcessor()
	proc.fail["broken"] = true
	d := New(2, 10*time.Second, false, proc, logging.Discard())

	summary, err := d.Run(context.Background(), strings.NewReader("broken_0\nfine_0\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Completed)
}

func TestRun_ClipDurationIsShared(t *testing.T) {
	proc := newFakeProcessor()
	d := New(2, 5*time.Second, false, proc, logging.Discard())

	_, err := d.Run(context.Background(), strings.NewReader("a_0\nb_123456\n"))
	require.NoError(t, err)

	proc.mu.Lock()
	defer proc.mu.Unlock()
	for _, it := range proc.items {
		assert.Equal(t, 5*time.Second, it.ClipDuration)
		if it.SourceID == "b" {
			assert.Equal(t, 123*time.Second, it.Start)
		}
	}
}

func TestRun_Streaming(t *testing.T) {
	proc := newFakeProcessor()
	proc.delay = func(model.WorkItem) time.Duration { return 2 * time.Millisecond }
	d := New(3, 10*time.Second, true, proc, logging.Discard())

	summary, err := d.Run(context.Background(), strings.NewReader(listing(10)))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Rounds)
	assert.Equal(t, 10, summary.Completed)
	assert.Len(t, proc.descriptors(), 10)
	assert.LessOrEqual(t, proc.maxInFlight, int32(3))
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	proc := newFakeProcessor()
	d := New(2, 10*time.Second, false, proc, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Run(ctx, strings.NewReader(listing(4)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, proc.descriptors())
}

func TestRunFile_MissingInputFailsFast(t *testing.T) {
	proc := newFakeProcessor()
	d := New(2, 10*time.Second, false, proc, logging.Discard())

	_, err := d.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Empty(t, proc.descriptors())
}

func TestRunFile_DirectoryIsRejected(t *testing.T) {
	d := New(2, 10*time.Second, false, newFakeProcessor(), logging.Discard())

	_, err := d.RunFile(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestNew_ClampsWorkers(t *testing.T) {
	d := New(0, time.Second, false, newFakeProcessor(), logging.Discard())
	assert.Equal(t, 1, d.workers)
}
