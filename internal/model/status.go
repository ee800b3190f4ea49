package model

// Stage names one step of the per-clip pipeline
type Stage string

const (
	StageAcquire   Stage = "acquire"
	StageNormalize Stage = "normalize"
	StageSegment   Stage = "segment"
)

// Stages lists pipeline stages in execution order
var Stages = []Stage{StageAcquire, StageNormalize, StageSegment}

// StageStatus represents the status of one pipeline stage for a clip
type StageStatus string

const (
	// StageStatusPending means the stage has not run yet
	StageStatusPending StageStatus = "Pending"

	// StageStatusRunning means the external tool is running
	StageStatusRunning StageStatus = "Running"

	// StageStatusSkipped means a complete artifact already existed
	StageStatusSkipped StageStatus = "Skipped"

	// StageStatusCompleted means the stage produced its artifact
	StageStatusCompleted StageStatus = "Completed"

	// StageStatusError means the stage failed
	StageStatusError StageStatus = "Error"
)

// String returns the string representation of StageStatus
func (s StageStatus) String() string {
	return string(s)
}

// IsDone returns true if the stage's artifact is available (produced or reused)
func (s StageStatus) IsDone() bool {
	return s == StageStatusSkipped || s == StageStatusCompleted
}

// IsFinished returns true if the stage is in a terminal state
func (s StageStatus) IsFinished() bool {
	return s == StageStatusSkipped || s == StageStatusCompleted || s == StageStatusError
}
