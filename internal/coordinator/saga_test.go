package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/order-splitter/internal/coordinator/sagalog"
)

type funcStep struct {
	name string
	fn   func(ctx context.Context) error
}

func (s funcStep) Name() string                      { return s.name }
func (s funcStep) Execute(ctx context.Context) error { return s.fn(ctx) }

func recordingStep(name string, trail *[]string, err error) Step {
	return funcStep{name: name, fn: func(context.Context) error {
		*trail = append(*trail, name)
		return err
	}}
}

func TestOrchestrator_RunsStepsInOrder(t *testing.T) {
	var trail []string
	o := NewOrchestrator("run-1", "order-1", []Step{
		recordingStep("a", &trail, nil),
		recordingStep("b", &trail, nil),
		recordingStep("c", &trail, nil),
	}, nil)

	require.NoError(t, o.Start(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, trail)
}

func TestOrchestrator_StopsAtFirstFailure(t *testing.T) {
	var trail []string
	boom := errors.New("boom")
	journal := &memoryJournal{}
	o := NewOrchestrator("run-1", "order-1", []Step{
		recordingStep("a", &trail, nil),
		recordingStep("b", &trail, boom),
		recordingStep("c", &trail, nil),
	}, journal)

	err := o.Start(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "b: boom", err.Error())
	assert.Equal(t, []string{"a", "b"}, trail)

	require.Len(t, journal.entries, 2)
	assert.Equal(t, "b", journal.entries[1].Step)
	assert.Equal(t, sagalog.StatusStepFailed, journal.entries[1].Status)
	assert.Equal(t, `["boom"]`, journal.entries[1].ErrorMessages)
	assert.Equal(t, "run-1", journal.entries[1].RunID)
	assert.Equal(t, "order-1", journal.entries[1].OrderID)
}

func TestOrchestrator_BestEffortFailureContinues(t *testing.T) {
	var trail []string
	o := NewOrchestrator("run-1", "order-1", []Step{
		BestEffort(recordingStep("a", &trail, errors.New("ignored"))),
		recordingStep("b", &trail, nil),
	}, nil)

	require.NoError(t, o.Start(context.Background()))
	assert.Equal(t, []string{"a", "b"}, trail)
}

type failingJournal struct{}

func (failingJournal) Save(context.Context, *sagalog.Entry) error { return errors.New("disk full") }

func TestOrchestrator_JournalFailureDoesNotAbort(t *testing.T) {
	var trail []string
	o := NewOrchestrator("run-1", "order-1", []Step{
		recordingStep("a", &trail, nil),
		recordingStep("b", &trail, nil),
	}, failingJournal{})

	require.NoError(t, o.Start(context.Background()))
	assert.Equal(t, []string{"a", "b"}, trail)
}
