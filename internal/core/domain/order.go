package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Money is an amount in a single currency. Amounts are fixed-point decimals.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// Order is a snapshot of an order owned by the remote order-management system.
// It is fetched fresh on every pipeline run and never mutated locally.
type Order struct {
	ID              string
	Name            string
	Tags            []string
	Note            string
	Email           string
	CustomerID      string
	ShippingAddress *Address
	BillingAddress  *Address
	TotalShipping   Money
	TotalDiscount   Money
	Currency        string
	ShippingLines   []ShippingLine
	LineItems       []LineItem
}

// HasTag reports whether the order carries tag (exact match, as stored remotely).
func (o *Order) HasTag(tag string) bool {
	return slices.Contains(o.Tags, tag)
}

type LineItem struct {
	ID                  string
	Title               string
	Quantity            int
	UnitPrice           Money
	DiscountAllocations []Money
	VariantID           string
	Product             *Product
}

// Subtotal is quantity × unit price, before any discount.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Amount.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ProductTags returns the tags of the associated product, or nil when the item has none.
func (i LineItem) ProductTags() []string {
	if i.Product == nil {
		return nil
	}
	return i.Product.Tags
}

type Product struct {
	ID   string
	Tags []string
}

type ShippingLine struct {
	Title string
	Price Money
}

type Address struct {
	FirstName    string
	LastName     string
	Company      string
	Address1     string
	Address2     string
	City         string
	Province     string
	ProvinceCode string
	Country      string
	CountryCode  string
	Zip          string
	Phone        string
}

// OrderRef identifies an order (or draft) by remote id and display name.
type OrderRef struct {
	ID   string
	Name string
}

// Subtotal sums the subtotals of items.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
