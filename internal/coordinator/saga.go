package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/order-splitter/internal/coordinator/sagalog"
)

const tracerName = "github.com/jcmexdev/order-splitter/internal/coordinator"

// Step is a single remote mutation in the split pipeline.
// Steps have no compensating action: a failed run is reported, never undone.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
}

// bestEffortStep marks a step whose failure is logged and swallowed.
type bestEffortStep struct {
	Step
}

// BestEffort wraps step so that its failure does not abort the run.
func BestEffort(step Step) Step {
	return &bestEffortStep{Step: step}
}

// Orchestrator runs steps strictly in order and stops at the first fatal failure.
type Orchestrator struct {
	steps    []Step
	recorder recorder
}

// NewOrchestrator builds a runner for one pipeline invocation.
// journal may be nil, in which case transitions are only logged.
func NewOrchestrator(runID, orderID string, steps []Step, journal sagalog.Repository) *Orchestrator {
	return &Orchestrator{
		steps:    steps,
		recorder: recorder{repo: journal, runID: runID, orderID: orderID},
	}
}

// Start executes every step. A failing step aborts the remaining ones and its
// error is returned wrapped with the step name. Nothing already done is rolled back.
func (o *Orchestrator) Start(ctx context.Context) error {
	for _, step := range o.steps {
		slog.InfoContext(ctx, "executing step", "step", step.Name(), "order_id", o.recorder.orderID, "run_id", o.recorder.runID)

		err := o.execute(ctx, step)
		if err == nil {
			o.recorder.record(ctx, sagalog.StatusStepDone, step.Name(), nil, nil)
			continue
		}

		o.recorder.record(ctx, sagalog.StatusStepFailed, step.Name(), nil, err)

		if _, ok := step.(*bestEffortStep); ok {
			slog.WarnContext(ctx, "best-effort step failed, continuing",
				"step", step.Name(),
				"order_id", o.recorder.orderID,
				"error", err,
			)
			continue
		}

		slog.ErrorContext(ctx, "step failed, aborting run",
			"step", step.Name(),
			"order_id", o.recorder.orderID,
			"run_id", o.recorder.runID,
			"error", err,
		)
		return fmt.Errorf("%s: %w", step.Name(), err)
	}
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, step Step) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "split.step."+step.Name())
	defer span.End()
	span.SetAttributes(
		attribute.String("split.order_id", o.recorder.orderID),
		attribute.String("split.run_id", o.recorder.runID),
	)

	if err := step.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// recorder writes run transitions to the journal when one is configured.
// Journal failures are logged and never affect the run.
type recorder struct {
	repo    sagalog.Repository
	runID   string
	orderID string
}

func (r recorder) record(ctx context.Context, status sagalog.Status, step string, detail any, err error) {
	if r.repo == nil {
		return
	}
	var errs []string
	if err != nil {
		errs = []string{err.Error()}
	}
	entry := sagalog.NewEntry(ctx, r.runID, r.orderID, status, step, detail, errs)
	if saveErr := r.repo.Save(ctx, entry); saveErr != nil {
		slog.WarnContext(ctx, "failed to write run journal", "order_id", r.orderID, "status", status, "error", saveErr)
	}
}
