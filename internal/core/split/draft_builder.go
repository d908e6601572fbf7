package split

import (
	"fmt"
	"strings"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

// Policy carries the configurable tag literals used by the pipeline.
type Policy struct {
	// ClassificationTag marks products fulfilled domestically.
	ClassificationTag string
	// MarkerTag is stamped on every replacement order.
	MarkerTag string
	// ProcessedTag is stamped on the original order before it is cancelled.
	ProcessedTag string
	// BackReferencePrefix prefixes the original order number on replacement orders.
	BackReferencePrefix string
}

// IsProcessed reports whether the order already carries either idempotency marker.
func (p Policy) IsProcessed(order *domain.Order) bool {
	return order.HasTag(p.MarkerTag) || order.HasTag(p.ProcessedTag)
}

// DraftParams is the input of BuildDraft.
type DraftParams struct {
	Order    *domain.Order
	Items    []domain.LineItem
	Region   domain.Region
	Shipping domain.ShippingCharge
	Discount *domain.Discount
}

// BuildDraft maps the original order and one item group to a replacement order request.
// Items without a variant cannot be re-created remotely and are left out.
func BuildDraft(p Policy, params DraftParams) domain.DraftSpecification {
	order := params.Order

	spec := domain.DraftSpecification{
		Region:     params.Region,
		CustomerID: order.CustomerID,
		Email:      order.Email,
		Note: joinNonEmpty(
			fmt.Sprintf("Split order (%s items) from original order %s.", params.Region, order.Name),
			order.Note,
		),
		Tags: []string{
			p.MarkerTag,
			p.BackReferencePrefix + OrderNumber(order.Name),
			params.Region.FulfillmentTag(),
		},
		ShippingAddress: copyAddress(order.ShippingAddress),
		BillingAddress:  copyAddress(order.BillingAddress),
		ShippingLine:    params.Shipping,
		LineItems:       make([]domain.DraftLineItem, 0, len(params.Items)),
	}

	for _, item := range params.Items {
		if item.VariantID == "" {
			continue
		}
		spec.LineItems = append(spec.LineItems, domain.DraftLineItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	if d := params.Discount; d != nil {
		spec.AppliedDiscount = &domain.AppliedDiscount{
			Title:       d.Title,
			Description: "Proportional split of discount from " + order.Name,
			Value:       d.Amount,
			ValueType:   domain.DiscountValueTypeFixedAmount,
		}
	}

	return spec
}

// OrderNumber strips the leading "#" from a display name ("#1001" -> "1001").
func OrderNumber(name string) string {
	return strings.Replace(name, "#", "", 1)
}

func copyAddress(addr *domain.Address) *domain.Address {
	if addr == nil {
		return nil
	}
	out := *addr
	return &out
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
