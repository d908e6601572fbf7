package split

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

// Plan is everything the pipeline computes before touching the remote system.
type Plan struct {
	Groups                Groups
	DomesticSubtotal      decimal.Decimal
	InternationalSubtotal decimal.Decimal
	Shipping              ShippingAllocation
	Discount              DiscountAllocation
	Domestic              domain.DraftSpecification
	International         domain.DraftSpecification
}

// NewPlan classifies the order, allocates shipping and discount and builds both
// replacement drafts. Callers check Groups.NeedsSplit before acting on the drafts.
func NewPlan(p Policy, order *domain.Order) Plan {
	groups := Classify(order.LineItems, p.ClassificationTag)
	plan := Plan{
		Groups:                groups,
		DomesticSubtotal:      domain.Subtotal(groups.Domestic),
		InternationalSubtotal: domain.Subtotal(groups.International),
		Shipping:              AllocateShipping(order.ShippingLines),
	}
	plan.Discount = AllocateDiscount(order.TotalDiscount.Amount, plan.DomesticSubtotal, plan.InternationalSubtotal)

	plan.Domestic = BuildDraft(p, DraftParams{
		Order:    order,
		Items:    groups.Domestic,
		Region:   domain.RegionDomestic,
		Shipping: plan.Shipping.Domestic,
		Discount: plan.Discount.Domestic,
	})
	plan.International = BuildDraft(p, DraftParams{
		Order:    order,
		Items:    groups.International,
		Region:   domain.RegionInternational,
		Shipping: plan.Shipping.International,
		Discount: plan.Discount.International,
	})
	return plan
}

// Preview projects the plan into the operator-facing view.
func (pl Plan) Preview() *domain.AllocationPreview {
	return &domain.AllocationPreview{
		DomesticShipping:      pl.Shipping.Domestic,
		InternationalShipping: pl.Shipping.International,
		DomesticDiscount:      pl.Discount.Domestic,
		InternationalDiscount: pl.Discount.International,
		DomesticSubtotal:      pl.DomesticSubtotal,
		InternationalSubtotal: pl.InternationalSubtotal,
	}
}
