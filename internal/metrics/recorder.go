package metrics

import (
	"time"

	"github.com/rich-iannone/great-docs/internal/catalog"
)

// Outcome labels the final status of a command.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Stage names used with ObserveStageDuration.
const (
	StageDiscover   = "discover"
	StagePlan       = "plan"
	StageMerge      = "merge"
	StageQuartodoc  = "quartodoc"
	StageRender     = "render"
	StagePostRender = "post_render"
)

// Recorder receives the measurements of one run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	SetDiscovered(kind catalog.Kind, n int)
	SetSections(n int)
	SetSplitClasses(n int)
	IncOutcome(command string, outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) SetDiscovered(catalog.Kind, int)            {}
func (NoopRecorder) SetSections(int)                            {}
func (NoopRecorder) SetSplitClasses(int)                        {}
func (NoopRecorder) IncOutcome(string, Outcome)                 {}

// Timed runs fn and records its duration under stage.
func Timed(r Recorder, stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.ObserveStageDuration(stage, time.Since(start))
	return err
}
