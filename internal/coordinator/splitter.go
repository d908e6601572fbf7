package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/order-splitter/internal/coordinator/sagalog"
	"github.com/jcmexdev/order-splitter/internal/core/domain"
	"github.com/jcmexdev/order-splitter/internal/core/ports"
	"github.com/jcmexdev/order-splitter/internal/core/split"
)

// Splitter drives one order through fetch, idempotency check, classification,
// allocation and, when the order mixes regions, the remote mutation steps.
type Splitter struct {
	gateway ports.OrderGateway
	policy  split.Policy
	journal sagalog.Repository
}

var _ ports.SplitService = (*Splitter)(nil)

// NewSplitter wires the pipeline. journal may be nil.
func NewSplitter(gateway ports.OrderGateway, policy split.Policy, journal sagalog.Repository) *Splitter {
	return &Splitter{gateway: gateway, policy: policy, journal: journal}
}

// RunSplit processes orderID. Skips and no-split outcomes are results, not errors;
// any error returned is fatal and may leave the order cancelled with fewer than
// two replacement orders.
func (s *Splitter) RunSplit(ctx context.Context, orderID string) (domain.SplitResult, error) {
	runID := uuid.NewString()
	rec := recorder{repo: s.journal, runID: runID, orderID: orderID}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "split.run")
	defer span.End()
	span.SetAttributes(attribute.String("split.order_id", orderID), attribute.String("split.run_id", runID))

	rec.record(ctx, sagalog.StatusStarted, "", nil, nil)

	result, err := s.run(ctx, rec, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		rec.record(ctx, sagalog.StatusFailed, "", nil, err)
		return domain.SplitResult{}, err
	}

	span.SetAttributes(attribute.String("split.outcome", string(result.Outcome)))
	switch result.Outcome {
	case domain.OutcomeSkipped:
		rec.record(ctx, sagalog.StatusSkipped, "", map[string]string{"reason": result.Reason}, nil)
	case domain.OutcomeNoSplitNeeded:
		rec.record(ctx, sagalog.StatusNoSplit, "", nil, nil)
	case domain.OutcomeSplit:
		rec.record(ctx, sagalog.StatusCompleted, "", result, nil)
	}
	return result, nil
}

func (s *Splitter) run(ctx context.Context, rec recorder, orderID string) (domain.SplitResult, error) {
	order, err := s.gateway.FetchOrder(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.InfoContext(ctx, "order not found, skipping", "order_id", orderID)
		return domain.Skipped(domain.ReasonOrderNotFound), nil
	}
	if err != nil {
		return domain.SplitResult{}, fmt.Errorf("failed to fetch order %s: %w", orderID, err)
	}

	if s.policy.IsProcessed(order) {
		slog.InfoContext(ctx, "skipping already-processed order", "order_id", order.ID, "order_name", order.Name)
		return domain.Skipped(domain.ReasonAlreadyProcessed), nil
	}

	plan := split.NewPlan(s.policy, order)
	if !plan.Groups.NeedsSplit() {
		slog.InfoContext(ctx, "no split needed, all items in same group",
			"order_id", order.ID,
			"order_name", order.Name,
			"domestic_count", len(plan.Groups.Domestic),
			"international_count", len(plan.Groups.International),
		)
		return domain.NoSplitNeeded(), nil
	}

	slog.InfoContext(ctx, "splitting order",
		"order_id", order.ID,
		"order_name", order.Name,
		"run_id", rec.runID,
		"domestic_items", len(plan.Groups.Domestic),
		"international_items", len(plan.Groups.International),
	)

	sr := newSplitRun(order, plan)
	orchestrator := NewOrchestrator(rec.runID, order.ID, s.mutationSteps(sr), s.journal)
	if err := orchestrator.Start(ctx); err != nil {
		return domain.SplitResult{}, err
	}

	slog.InfoContext(ctx, "order split complete",
		"original_order", order.Name,
		"domestic_order", sr.domestic.placed.Name,
		"international_order", sr.international.placed.Name,
	)
	return domain.Split(sr.domestic.placed, sr.international.placed), nil
}

// mutationSteps is the fixed remote sequence: mark, cancel, create domestic,
// create international, finalize both, cross-reference.
func (s *Splitter) mutationSteps(sr *splitRun) []Step {
	return []Step{
		NewMarkProcessedStep(s.gateway, sr, s.policy.ProcessedTag),
		NewCancelOriginalStep(s.gateway, sr),
		NewCreateDraftStep(s.gateway, sr, domain.RegionDomestic),
		NewCreateDraftStep(s.gateway, sr, domain.RegionInternational),
		NewFinalizeDraftsStep(s.gateway, sr),
		BestEffort(NewCrossReferenceStep(s.gateway, sr)),
	}
}

// PreviewSplit fetches and classifies the order without mutating anything.
// A missing order is returned as domain.ErrNotFound.
func (s *Splitter) PreviewSplit(ctx context.Context, orderID string) (*domain.Preview, error) {
	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", orderID, err)
	}

	plan := split.NewPlan(s.policy, order)
	preview := &domain.Preview{
		Order:            order,
		Domestic:         plan.Groups.Domestic,
		International:    plan.Groups.International,
		NeedsSplit:       plan.Groups.NeedsSplit(),
		AlreadyProcessed: s.policy.IsProcessed(order),
	}
	if preview.NeedsSplit {
		preview.Allocation = plan.Preview()
	}
	return preview, nil
}

// ResolveOrderNumber accepts "#1001", "1001" or " 1001 ".
func (s *Splitter) ResolveOrderNumber(ctx context.Context, number string) (string, error) {
	cleaned := strings.TrimSpace(strings.Replace(number, "#", "", 1))
	if cleaned == "" {
		return "", fmt.Errorf("order number %q: %w", number, domain.ErrNotFound)
	}

	ref, err := s.gateway.FindOrderByNumber(ctx, cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to resolve order #%s: %w", cleaned, err)
	}
	return ref.ID, nil
}
