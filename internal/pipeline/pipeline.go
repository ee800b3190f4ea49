package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ytget/audioset-dl/internal/convert"
	"github.com/ytget/audioset-dl/internal/download"
	"github.com/ytget/audioset-dl/internal/model"
	"github.com/ytget/audioset-dl/internal/platform"
)

// TaskIDPrefix prefixes clip task ids
const TaskIDPrefix = "clip-"

// Logger is the logging interface needed by the pipeline.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// stageLabel holds the console wording of a stage
type stageLabel struct {
	running string
	done    string
}

var stageLabels = map[model.Stage]stageLabel{
	model.StageAcquire:   {running: "Downloading", done: "Downloaded"},
	model.StageNormalize: {running: "Formatting", done: "Formatted"},
	model.StageSegment:   {running: "Trimming", done: "Trimmed"},
}

// Pipeline runs the stages of one dataset
type Pipeline struct {
	dataset    model.Dataset
	downloader download.Downloader
	converter  convert.Converter
	log        Logger
	flight     singleflight.Group
	verify     func(path string) error
}

// New creates a pipeline writing into dataset's directory trees
func New(dataset model.Dataset, downloader download.Downloader, converter convert.Converter, log Logger) *Pipeline {
	return &Pipeline{
		dataset:    dataset,
		downloader: downloader,
		converter:  converter,
		log:        log,
		verify:     platform.VerifyArtifact,
	}
}

// Dataset returns the namespace the pipeline writes into
func (p *Pipeline) Dataset() model.Dataset {
	return p.dataset
}

// Prepare creates the three output directories
func (p *Pipeline) Prepare() error {
	return platform.EnsureDatasetDirs(p.dataset)
}

// Process runs acquire, normalize and segment for item. The returned task
// records each stage's status; the error is the first stage failure. Panics
// are recovered and reported as errors so sibling items keep running.
func (p *Pipeline) Process(ctx context.Context, item model.WorkItem) (task *model.ClipTask, err error) {
	task = model.NewClipTask(generateTaskID(), item)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: unexpected failure: %v", item.SourceID, r)
		}
		if err != nil {
			task.LastError = err.Error()
		}
		task.FinishedAt = time.Now()
	}()

	paths := p.dataset.Paths(item)
	p.log.Debug("%s: task %s window [%ss, %ss)", item.SourceID, task.ID, item.StartSeconds(), item.EndSeconds())

	stages := []struct {
		stage   model.Stage
		produce func(ctx context.Context) error
	}{
		{model.StageAcquire, func(ctx context.Context) error {
			return p.downloader.Download(ctx, item, paths.Download)
		}},
		{model.StageNormalize, func(ctx context.Context) error {
			return p.converter.Normalize(ctx, paths.Download, paths.Formatted)
		}},
		{model.StageSegment, func(ctx context.Context) error {
			return p.converter.Trim(ctx, paths.Formatted, paths.Segment, item)
		}},
	}

	for _, s := range stages {
		if ctx.Err() != nil {
			return task, ctx.Err()
		}
		status, stageErr := p.runShared(ctx, item, s.stage, paths.For(s.stage), s.produce)
		task.SetStatus(s.stage, status)
		if stageErr != nil {
			return task, &model.StageError{Stage: s.stage, SourceID: item.SourceID, Err: stageErr}
		}
	}

	return task, nil
}

// runShared collapses concurrent runs producing the same artifact
func (p *Pipeline) runShared(ctx context.Context, item model.WorkItem, stage model.Stage, path string, produce func(context.Context) error) (model.StageStatus, error) {
	v, err, shared := p.flight.Do(path, func() (interface{}, error) {
		return p.runStage(ctx, item, stage, path, produce)
	})
	if shared {
		p.log.Debug("%s: %s shared with a concurrent item", item.SourceID, stage)
	}
	status, ok := v.(model.StageStatus)
	if !ok {
		status = model.StageStatusError
	}
	return status, err
}

// runStage skips a complete artifact, otherwise produces and verifies it
func (p *Pipeline) runStage(ctx context.Context, item model.WorkItem, stage model.Stage, path string, produce func(context.Context) error) (model.StageStatus, error) {
	label := stageLabels[stage]
	p.log.Info("%s: %s...", item.SourceID, label.running)

	verr := p.verify(path)
	if verr == nil {
		p.log.Info("%s: %s file already exists.", item.SourceID, label.done)
		return model.StageStatusSkipped, nil
	}
	if !errors.Is(verr, model.ErrMissingOutput) {
		p.log.Warn("%s: discarding incomplete %s: %v", item.SourceID, path, verr)
		if err := platform.RemovePartial(path); err != nil {
			return model.StageStatusError, err
		}
	}

	if err := produce(ctx); err != nil {
		p.discard(item, path)
		return model.StageStatusError, err
	}
	if err := p.verify(path); err != nil {
		p.discard(item, path)
		return model.StageStatusError, fmt.Errorf("%s: %w", path, err)
	}
	return model.StageStatusCompleted, nil
}

// discard removes a failed stage's output; cleanup errors are only logged
func (p *Pipeline) discard(item model.WorkItem, path string) {
	if err := platform.RemovePartial(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.log.Warn("%s: failed to remove partial output %s: %v", item.SourceID, path, err)
	}
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
