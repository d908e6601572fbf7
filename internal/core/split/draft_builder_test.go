package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

var testPolicy = Policy{
	ClassificationTag:   "US",
	MarkerTag:           "split-order",
	ProcessedTag:        "split-processed",
	BackReferencePrefix: "split-from-",
}

func scenarioOrder() *domain.Order {
	return &domain.Order{
		ID:         "gid://shopify/Order/1",
		Name:       "#1001",
		Tags:       []string{"vip"},
		Note:       "Leave at the door",
		Email:      "buyer@example.com",
		CustomerID: "gid://shopify/Customer/9",
		ShippingAddress: &domain.Address{
			FirstName: "Ada", LastName: "Lovelace", Address1: "1 Main St",
			City: "Springfield", Province: "Oregon", CountryCode: "US", Zip: "97477",
		},
		TotalShipping: domain.Money{Amount: dec("15"), Currency: "USD"},
		TotalDiscount: domain.Money{Amount: dec("20"), Currency: "USD"},
		Currency:      "USD",
		ShippingLines: []domain.ShippingLine{{Title: "Standard", Price: domain.Money{Amount: dec("15"), Currency: "USD"}}},
		LineItems: []domain.LineItem{
			lineItem("1", "20.00", 1, "US"),
			lineItem("2", "10.00", 2, "US"),
			lineItem("3", "30.00", 1, "EU"),
		},
	}
}

func TestBuildDraft(t *testing.T) {
	order := scenarioOrder()

	t.Run("maps order fields and tags", func(t *testing.T) {
		spec := BuildDraft(testPolicy, DraftParams{
			Order:    order,
			Items:    order.LineItems[:2],
			Region:   domain.RegionDomestic,
			Shipping: domain.ShippingCharge{Title: "Standard", Price: dec("15")},
			Discount: &domain.Discount{Title: "Proportional discount from original order", Amount: dec("11.43")},
		})

		assert.Equal(t, domain.RegionDomestic, spec.Region)
		assert.Equal(t, "gid://shopify/Customer/9", spec.CustomerID)
		assert.Equal(t, "buyer@example.com", spec.Email)
		assert.Equal(t, "Split order (domestic items) from original order #1001. Leave at the door", spec.Note)
		assert.Equal(t, []string{"split-order", "split-from-1001", "domestic-fulfillment"}, spec.Tags)
		assert.Equal(t, []domain.DraftLineItem{
			{VariantID: "gid://shopify/ProductVariant/1", Quantity: 1},
			{VariantID: "gid://shopify/ProductVariant/2", Quantity: 2},
		}, spec.LineItems)

		require.NotNil(t, spec.AppliedDiscount)
		assert.Equal(t, domain.DiscountValueTypeFixedAmount, spec.AppliedDiscount.ValueType)
		assert.Equal(t, "Proportional split of discount from #1001", spec.AppliedDiscount.Description)
		assert.Equal(t, "11.43", spec.AppliedDiscount.Value.StringFixed(2))
	})

	t.Run("copies addresses and keeps nil as nil", func(t *testing.T) {
		spec := BuildDraft(testPolicy, DraftParams{Order: order, Region: domain.RegionInternational})

		require.NotNil(t, spec.ShippingAddress)
		assert.Equal(t, *order.ShippingAddress, *spec.ShippingAddress)
		assert.NotSame(t, order.ShippingAddress, spec.ShippingAddress)
		assert.Nil(t, spec.BillingAddress)
		assert.Nil(t, spec.AppliedDiscount)
		assert.Equal(t, "international-fulfillment", spec.Tags[2])
	})

	t.Run("drops items without a variant", func(t *testing.T) {
		noVariant := lineItem("7", "3.00", 1)
		noVariant.VariantID = ""

		spec := BuildDraft(testPolicy, DraftParams{
			Order:  order,
			Items:  []domain.LineItem{noVariant, lineItem("8", "3.00", 4)},
			Region: domain.RegionInternational,
		})

		assert.Equal(t, []domain.DraftLineItem{{VariantID: "gid://shopify/ProductVariant/8", Quantity: 4}}, spec.LineItems)
	})

	t.Run("note without original note", func(t *testing.T) {
		bare := *order
		bare.Note = ""

		spec := BuildDraft(testPolicy, DraftParams{Order: &bare, Region: domain.RegionInternational})

		assert.Equal(t, "Split order (international items) from original order #1001.", spec.Note)
	})
}

func TestNewPlan_Scenario(t *testing.T) {
	plan := NewPlan(testPolicy, scenarioOrder())

	require.True(t, plan.Groups.NeedsSplit())
	assert.Equal(t, "40.00", plan.DomesticSubtotal.StringFixed(2))
	assert.Equal(t, "30.00", plan.InternationalSubtotal.StringFixed(2))
	assert.Equal(t, "15.00", plan.Domestic.ShippingLine.Price.StringFixed(2))
	assert.Equal(t, "0.00", plan.International.ShippingLine.Price.StringFixed(2))
	require.NotNil(t, plan.Domestic.AppliedDiscount)
	require.NotNil(t, plan.International.AppliedDiscount)
	assert.Equal(t, "11.43", plan.Domestic.AppliedDiscount.Value.StringFixed(2))
	assert.Equal(t, "8.57", plan.International.AppliedDiscount.Value.StringFixed(2))

	preview := plan.Preview()
	assert.Equal(t, "11.43", preview.DomesticDiscount.Amount.StringFixed(2))
}

func TestPolicy_IsProcessed(t *testing.T) {
	order := scenarioOrder()
	assert.False(t, testPolicy.IsProcessed(order))

	order.Tags = append(order.Tags, "split-processed")
	assert.True(t, testPolicy.IsProcessed(order))

	order.Tags = []string{"split-order"}
	assert.True(t, testPolicy.IsProcessed(order))
}

func TestOrderNumber(t *testing.T) {
	assert.Equal(t, "1001", OrderNumber("#1001"))
	assert.Equal(t, "1001", OrderNumber("1001"))
}
