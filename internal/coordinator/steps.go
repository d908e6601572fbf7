package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
	"github.com/jcmexdev/order-splitter/internal/core/ports"
	"github.com/jcmexdev/order-splitter/internal/core/split"
)

const (
	cancelStaffNote    = "Auto-split into domestic / international fulfillment orders"
	metafieldNamespace = "order_splitter"
	metafieldKey       = "split_orders"
)

// splitRun is the pipeline-local state shared by the mutation steps of one run.
type splitRun struct {
	order         *domain.Order
	plan          split.Plan
	domestic      regionRun
	international regionRun
}

type regionRun struct {
	spec   domain.DraftSpecification
	draft  domain.OrderRef
	placed domain.OrderRef
}

func newSplitRun(order *domain.Order, plan split.Plan) *splitRun {
	return &splitRun{
		order:         order,
		plan:          plan,
		domestic:      regionRun{spec: plan.Domestic},
		international: regionRun{spec: plan.International},
	}
}

func (r *splitRun) region(region domain.Region) *regionRun {
	if region == domain.RegionDomestic {
		return &r.domestic
	}
	return &r.international
}

// --- MarkProcessedStep ---

// MarkProcessedStep tags the original order before anything destructive happens,
// so an interrupted run is never picked up again.
type MarkProcessedStep struct {
	gateway ports.OrderGateway
	run     *splitRun
	tag     string
}

func NewMarkProcessedStep(gateway ports.OrderGateway, run *splitRun, tag string) *MarkProcessedStep {
	return &MarkProcessedStep{gateway: gateway, run: run, tag: tag}
}

func (s *MarkProcessedStep) Name() string { return "mark_processed" }

func (s *MarkProcessedStep) Execute(ctx context.Context) error {
	if err := s.gateway.AddTags(ctx, s.run.order.ID, []string{s.tag}); err != nil {
		return fmt.Errorf("failed to tag order %s: %w", s.run.order.Name, err)
	}
	return nil
}

// --- CancelOriginalStep ---

type CancelOriginalStep struct {
	gateway ports.OrderGateway
	run     *splitRun
}

func NewCancelOriginalStep(gateway ports.OrderGateway, run *splitRun) *CancelOriginalStep {
	return &CancelOriginalStep{gateway: gateway, run: run}
}

func (s *CancelOriginalStep) Name() string { return "cancel_original" }

// Execute cancels without refunding or notifying the customer and restocks the items.
func (s *CancelOriginalStep) Execute(ctx context.Context) error {
	err := s.gateway.CancelOrder(ctx, domain.CancelRequest{
		OrderID:        s.run.order.ID,
		Reason:         domain.CancelReasonOther,
		Restock:        true,
		NotifyCustomer: false,
		StaffNote:      cancelStaffNote,
		RefundPayment:  false,
	})
	if err != nil {
		return fmt.Errorf("failed to cancel order %s: %w", s.run.order.Name, err)
	}
	return nil
}

// --- CreateDraftStep ---

type CreateDraftStep struct {
	gateway ports.OrderGateway
	run     *splitRun
	region  domain.Region
}

func NewCreateDraftStep(gateway ports.OrderGateway, run *splitRun, region domain.Region) *CreateDraftStep {
	return &CreateDraftStep{gateway: gateway, run: run, region: region}
}

func (s *CreateDraftStep) Name() string { return "create_" + string(s.region) + "_draft" }

func (s *CreateDraftStep) Execute(ctx context.Context) error {
	rr := s.run.region(s.region)
	ref, err := s.gateway.CreateDraft(ctx, rr.spec)
	if err != nil {
		return fmt.Errorf("failed to create %s draft order: %w", s.region, err)
	}
	rr.draft = ref
	return nil
}

// --- FinalizeDraftsStep ---

// FinalizeDraftsStep completes both drafts concurrently. Both outcomes are
// collected before the step reports, so a single failure never hides the other.
type FinalizeDraftsStep struct {
	gateway ports.OrderGateway
	run     *splitRun
}

func NewFinalizeDraftsStep(gateway ports.OrderGateway, run *splitRun) *FinalizeDraftsStep {
	return &FinalizeDraftsStep{gateway: gateway, run: run}
}

func (s *FinalizeDraftsStep) Name() string { return "finalize_drafts" }

func (s *FinalizeDraftsStep) Execute(ctx context.Context) error {
	regions := [2]domain.Region{domain.RegionDomestic, domain.RegionInternational}
	var (
		placed [2]domain.OrderRef
		errs   [2]error
		g      errgroup.Group
	)

	for i, region := range regions {
		draft := s.run.region(region).draft
		g.Go(func() error {
			ref, err := s.gateway.FinalizeDraft(ctx, draft.ID)
			if err != nil {
				errs[i] = fmt.Errorf("failed to complete %s draft order %s: %w", region, draft.Name, err)
				return errs[i]
			}
			placed[i] = ref
			return nil
		})
	}

	// Wait only signals that something failed; errs holds both outcomes.
	if err := g.Wait(); err != nil {
		return errors.Join(errs[:]...)
	}

	for i, region := range regions {
		s.run.region(region).placed = placed[i]
	}
	return nil
}

// --- CrossReferenceStep ---

type splitLink struct {
	DomesticOrderID        string `json:"domesticOrderId"`
	DomesticOrderName      string `json:"domesticOrderName"`
	InternationalOrderID   string `json:"internationalOrderId"`
	InternationalOrderName string `json:"internationalOrderName"`
}

// CrossReferenceStep records the replacement orders on the original order.
// It runs wrapped in BestEffort: the split has already happened when it executes.
type CrossReferenceStep struct {
	gateway ports.OrderGateway
	run     *splitRun
}

func NewCrossReferenceStep(gateway ports.OrderGateway, run *splitRun) *CrossReferenceStep {
	return &CrossReferenceStep{gateway: gateway, run: run}
}

func (s *CrossReferenceStep) Name() string { return "cross_reference" }

func (s *CrossReferenceStep) Execute(ctx context.Context) error {
	value, err := json.Marshal(splitLink{
		DomesticOrderID:        s.run.domestic.placed.ID,
		DomesticOrderName:      s.run.domestic.placed.Name,
		InternationalOrderID:   s.run.international.placed.ID,
		InternationalOrderName: s.run.international.placed.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to encode split link: %w", err)
	}

	err = s.gateway.WriteMetafield(ctx, s.run.order.ID, domain.Metafield{
		Namespace: metafieldNamespace,
		Key:       metafieldKey,
		Value:     string(value),
	})
	if err != nil {
		return fmt.Errorf("failed to store split mapping on %s: %w", s.run.order.Name, err)
	}
	return nil
}
