package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testRecorder struct {
	NoopRecorder
	stages map[string]int
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) { t.stages[stage]++ }

func TestTimedRecordsOnError(t *testing.T) {
	rec := &testRecorder{stages: map[string]int{}}
	boom := errors.New("boom")
	require.NoError(t, Timed(rec, StagePlan, func() error { return nil }))
	require.ErrorIs(t, Timed(rec, StagePlan, func() error { return boom }), boom)
	require.Equal(t, 2, rec.stages[StagePlan])
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.SetSections(3)
	r.IncOutcome("build", OutcomeSuccess)
}
