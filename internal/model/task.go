package model

import (
	"fmt"
	"strconv"
	"time"
)

// YouTubeWatchURLTemplate is the watch URL used to resolve a source id
const YouTubeWatchURLTemplate = "https://www.youtube.com/watch?v=%s"

// DefaultClipDuration is the clip length used when none is configured
const DefaultClipDuration = 10 * time.Second

// WorkItem is one unit of work parsed from a listing line. It is never
// mutated after construction.
type WorkItem struct {
	Descriptor   string        // stripped input line, e.g. "abc_def_5000"
	SourceID     string        // YouTube video id, may contain underscores
	Start        time.Duration // whole seconds
	ClipDuration time.Duration // length of the extracted window
}

// URL returns the watch URL of the item's source
func (w WorkItem) URL() string {
	return fmt.Sprintf(YouTubeWatchURLTemplate, w.SourceID)
}

// End returns the exclusive end of the clip window
func (w WorkItem) End() time.Duration {
	return w.Start + w.ClipDuration
}

// StartSeconds returns the start offset formatted for command line tools
func (w WorkItem) StartSeconds() string {
	return formatSeconds(w.Start)
}

// EndSeconds returns the clip end formatted for command line tools
func (w WorkItem) EndSeconds() string {
	return formatSeconds(w.End())
}

// DurationSeconds returns the clip duration formatted for command line tools
func (w WorkItem) DurationSeconds() string {
	return formatSeconds(w.ClipDuration)
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// ClipTask tracks the runtime state of a single work item
type ClipTask struct {
	ID         string
	Item       WorkItem
	Acquire    StageStatus
	Normalize  StageStatus
	Segment    StageStatus
	LastError  string    // last error message if any
	StartedAt  time.Time // when processing started
	FinishedAt time.Time // when processing finished
}

// NewClipTask creates a pending task for item
func NewClipTask(id string, item WorkItem) *ClipTask {
	return &ClipTask{
		ID:        id,
		Item:      item,
		Acquire:   StageStatusPending,
		Normalize: StageStatusPending,
		Segment:   StageStatusPending,
		StartedAt: time.Now(),
	}
}

// Status returns the stage status for stage
func (t *ClipTask) Status(stage Stage) StageStatus {
	switch stage {
	case StageAcquire:
		return t.Acquire
	case StageNormalize:
		return t.Normalize
	case StageSegment:
		return t.Segment
	}
	return StageStatusPending
}

// SetStatus updates the stage status for stage
func (t *ClipTask) SetStatus(stage Stage, status StageStatus) {
	switch stage {
	case StageAcquire:
		t.Acquire = status
	case StageNormalize:
		t.Normalize = status
	case StageSegment:
		t.Segment = status
	}
}

// Succeeded reports whether every stage finished without error
func (t *ClipTask) Succeeded() bool {
	for _, stage := range Stages {
		if !t.Status(stage).IsDone() {
			return false
		}
	}
	return true
}

// Elapsed returns the processing time, or the time since start if unfinished
func (t *ClipTask) Elapsed() time.Duration {
	if t.FinishedAt.IsZero() {
		return time.Since(t.StartedAt)
	}
	return t.FinishedAt.Sub(t.StartedAt)
}
