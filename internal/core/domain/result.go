package domain

import "github.com/shopspring/decimal"

// Outcome is the terminal state of one pipeline run.
type Outcome string

const (
	OutcomeSkipped       Outcome = "skipped"
	OutcomeNoSplitNeeded Outcome = "no-split-needed"
	OutcomeSplit         Outcome = "split"
)

const (
	ReasonOrderNotFound    = "Order not found"
	ReasonAlreadyProcessed = "Already processed"
)

// SplitResult is the only value returned to the caller of a split run.
// Domestic and International are set only when Outcome is OutcomeSplit.
type SplitResult struct {
	Outcome       Outcome
	Reason        string
	Domestic      *OrderRef
	International *OrderRef
}

func Skipped(reason string) SplitResult {
	return SplitResult{Outcome: OutcomeSkipped, Reason: reason}
}

func NoSplitNeeded() SplitResult {
	return SplitResult{Outcome: OutcomeNoSplitNeeded}
}

func Split(domestic, international OrderRef) SplitResult {
	return SplitResult{Outcome: OutcomeSplit, Domestic: &domestic, International: &international}
}

// Preview is the read-only view used by an operator before committing to a split.
type Preview struct {
	Order            *Order
	Domestic         []LineItem
	International    []LineItem
	NeedsSplit       bool
	AlreadyProcessed bool
	Allocation       *AllocationPreview
}

// AllocationPreview shows how shipping and discount would be apportioned.
type AllocationPreview struct {
	DomesticShipping      ShippingCharge
	InternationalShipping ShippingCharge
	DomesticDiscount      *Discount
	InternationalDiscount *Discount
	DomesticSubtotal      decimal.Decimal
	InternationalSubtotal decimal.Decimal
}
