package domain

import "github.com/shopspring/decimal"

// Region is the fulfillment region a replacement order is scoped to.
type Region string

const (
	RegionDomestic      Region = "domestic"
	RegionInternational Region = "international"
)

// FulfillmentTag is the tag stamped on replacement orders of this region.
func (r Region) FulfillmentTag() string {
	return string(r) + "-fulfillment"
}

// ShippingCharge is the single shipping line carried by a replacement order.
type ShippingCharge struct {
	Title string
	Price decimal.Decimal
}

// Discount is a monetary share of the original order discount.
type Discount struct {
	Title  string
	Amount decimal.Decimal
}

const DiscountValueTypeFixedAmount = "FIXED_AMOUNT"

type AppliedDiscount struct {
	Title       string
	Description string
	Value       decimal.Decimal
	ValueType   string
}

type DraftLineItem struct {
	VariantID string
	Quantity  int
}

// DraftSpecification is a region-scoped request to create a replacement order.
type DraftSpecification struct {
	Region          Region
	CustomerID      string
	Email           string
	Note            string
	Tags            []string
	ShippingAddress *Address
	BillingAddress  *Address
	ShippingLine    ShippingCharge
	LineItems       []DraftLineItem
	AppliedDiscount *AppliedDiscount
}

type CancelReason string

const CancelReasonOther CancelReason = "OTHER"

// CancelRequest describes how the original order is cancelled once it has been split.
type CancelRequest struct {
	OrderID        string
	Reason         CancelReason
	Restock        bool
	NotifyCustomer bool
	StaffNote      string
	RefundPayment  bool
}

// Metafield is a namespaced JSON value written onto an order.
type Metafield struct {
	Namespace string
	Key       string
	Value     string
}
