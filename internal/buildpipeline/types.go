// Package buildpipeline defines the progress vocabulary shared by the
// driver and the UI: stages, statuses, per-class events, and timings.
package buildpipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad reads and preprocesses source files.
	StageLoad Stage = "load"
	// StageParse builds the syntax tree.
	StageParse Stage = "parse"
	// StagePartition indexes declarations into class partitions.
	StagePartition Stage = "partition"
	// StageAnalyze resolves names and types and lowers bodies.
	StageAnalyze Stage = "analyze"
	// StageArchive writes output artifacts.
	StageArchive Stage = "archive"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the class is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the class is currently being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the class finished cleanly.
	StatusDone Status = "done"
	// StatusError indicates the class produced errors.
	StatusError Status = "error"
)

// Event reports progress for a class, or for the overall pipeline when
// Class is empty.
type Event struct {
	Class   string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
