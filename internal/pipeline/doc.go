// Package pipeline runs the three per-clip stages (acquire, normalize,
// segment) for one work item. A stage is skipped when its artifact already
// verifies as a complete WAV; otherwise the tool runs, its exit status is
// checked and the output is verified before the stage counts as done.
// Failed stages remove their partial output so a later run retries them.
//
// Concurrent items that share an artifact (same source id for acquire and
// normalize, same descriptor for segment) are collapsed onto a single tool
// run with singleflight.
package pipeline
