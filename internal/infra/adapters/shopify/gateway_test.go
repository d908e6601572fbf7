package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

type staticToken string

func (s staticToken) AccessToken(context.Context) (string, error) { return string(s), nil }

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newTestGateway serves every GraphQL POST with respond and records the last request.
func newTestGateway(t *testing.T, status int, respond string) (*Gateway, *capturedRequest) {
	t.Helper()
	var last capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &last))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respond)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{Endpoint: srv.URL}, staticToken("shpat_test"))
	return NewGateway(client), &last
}

const orderPayload = `{"data":{"order":{
  "id":"gid://shopify/Order/1001","name":"#1001","tags":["vip"],"note":null,"email":"buyer@example.com",
  "customer":{"id":"gid://shopify/Customer/7"},
  "shippingAddress":{"firstName":"Ada","lastName":"Lovelace","company":null,"address1":"1 Main St","address2":null,
    "city":"Austin","province":"Texas","provinceCode":"TX","country":"United States","countryCodeV2":"US","zip":"78701","phone":null},
  "billingAddress":null,
  "totalShippingPriceSet":{"shopMoney":{"amount":"15.0","currencyCode":"USD"}},
  "totalDiscountsSet":{"shopMoney":{"amount":"20.0","currencyCode":"USD"}},
  "shippingLines":{"nodes":[{"title":"Standard","originalPriceSet":{"shopMoney":{"amount":"15.0","currencyCode":"USD"}}}]},
  "lineItems":{"nodes":[
    {"id":"gid://shopify/LineItem/1","title":"Widget","quantity":2,
     "originalUnitPriceSet":{"shopMoney":{"amount":"10.00","currencyCode":"USD"}},
     "discountAllocations":[{"allocatedAmountSet":{"shopMoney":{"amount":"2.50","currencyCode":"USD"}}}],
     "variant":{"id":"gid://shopify/ProductVariant/11"},"product":{"id":"gid://shopify/Product/1","tags":["US"]}},
    {"id":"gid://shopify/LineItem/2","title":"Custom fee","quantity":1,
     "originalUnitPriceSet":{"shopMoney":{"amount":"5.00","currencyCode":"USD"}},
     "discountAllocations":[],"variant":null,"product":null}
  ]}
}}}`

func TestGateway_FetchOrder(t *testing.T) {
	gw, req := newTestGateway(t, http.StatusOK, orderPayload)

	order, err := gw.FetchOrder(context.Background(), "gid://shopify/Order/1001")
	require.NoError(t, err)

	assert.Equal(t, "gid://shopify/Order/1001", req.Variables["id"])
	assert.Contains(t, req.Query, "GetOrderWithProductTags")

	assert.Equal(t, "#1001", order.Name)
	assert.Equal(t, []string{"vip"}, order.Tags)
	assert.Empty(t, order.Note)
	assert.Equal(t, "gid://shopify/Customer/7", order.CustomerID)
	assert.Equal(t, "USD", order.Currency)
	assert.True(t, order.TotalDiscount.Amount.Equal(decimal.NewFromInt(20)))

	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "US", order.ShippingAddress.CountryCode)
	assert.Equal(t, "TX", order.ShippingAddress.ProvinceCode)
	assert.Empty(t, order.ShippingAddress.Company)
	assert.Nil(t, order.BillingAddress)

	require.Len(t, order.ShippingLines, 1)
	assert.Equal(t, "15.00", order.ShippingLines[0].Price.Amount.StringFixed(2))

	require.Len(t, order.LineItems, 2)
	first := order.LineItems[0]
	assert.Equal(t, "gid://shopify/ProductVariant/11", first.VariantID)
	assert.Equal(t, []string{"US"}, first.ProductTags())
	assert.Equal(t, "20.00", first.Subtotal().StringFixed(2))
	require.Len(t, first.DiscountAllocations, 1)

	second := order.LineItems[1]
	assert.Empty(t, second.VariantID)
	assert.Nil(t, second.Product)
}

func TestGateway_FetchOrder_NotFound(t *testing.T) {
	gw, _ := newTestGateway(t, http.StatusOK, `{"data":{"order":null}}`)

	_, err := gw.FetchOrder(context.Background(), "gid://shopify/Order/404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_TransportFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"non-2xx status", http.StatusTooManyRequests, `{}`, "429"},
		{"top-level errors", http.StatusOK, `{"errors":[{"message":"Throttled"},{"message":"Try later"}]}`, "Throttled; Try later"},
		{"missing data", http.StatusOK, `{"data":null}`, "missing data"},
		{"malformed body", http.StatusOK, `<html>`, "invalid response body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw, _ := newTestGateway(t, tc.status, tc.body)

			_, err := gw.FetchOrder(context.Background(), "gid://shopify/Order/1")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRemoteTransport)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestGateway_FindOrderByNumber(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		gw, req := newTestGateway(t, http.StatusOK, `{"data":{"orders":{"nodes":[{"id":"gid://shopify/Order/1001","name":"#1001"}]}}}`)

		ref, err := gw.FindOrderByNumber(context.Background(), "1001")
		require.NoError(t, err)
		assert.Equal(t, "name:#1001", req.Variables["query"])
		assert.Equal(t, &domain.OrderRef{ID: "gid://shopify/Order/1001", Name: "#1001"}, ref)
	})

	t.Run("missing", func(t *testing.T) {
		gw, _ := newTestGateway(t, http.StatusOK, `{"data":{"orders":{"nodes":[]}}}`)

		_, err := gw.FindOrderByNumber(context.Background(), "9999")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGateway_CancelOrder(t *testing.T) {
	t.Run("sends cancel options", func(t *testing.T) {
		gw, req := newTestGateway(t, http.StatusOK, `{"data":{"orderCancel":{"job":{"id":"gid://shopify/Job/1"},"orderCancelUserErrors":[]}}}`)

		err := gw.CancelOrder(context.Background(), domain.CancelRequest{
			OrderID:   "gid://shopify/Order/1001",
			Reason:    domain.CancelReasonOther,
			Restock:   true,
			StaffNote: "note",
		})
		require.NoError(t, err)

		assert.Equal(t, "OTHER", req.Variables["reason"])
		assert.Equal(t, true, req.Variables["restock"])
		assert.Equal(t, false, req.Variables["notifyCustomer"])
		assert.Equal(t, map[string]any{"originalPaymentMethodsRefund": false}, req.Variables["refundMethod"])
	})

	t.Run("user errors", func(t *testing.T) {
		gw, _ := newTestGateway(t, http.StatusOK, `{"data":{"orderCancel":{"job":null,"orderCancelUserErrors":[
			{"field":["orderId"],"message":"Order has already been cancelled"}]}}}`)

		err := gw.CancelOrder(context.Background(), domain.CancelRequest{OrderID: "gid://shopify/Order/1001"})

		var verr *domain.RemoteValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "cancel order: Order has already been cancelled", verr.Error())
		assert.Equal(t, []string{"orderId"}, verr.Errors[0].Field)
	})
}

func TestGateway_CreateDraft(t *testing.T) {
	gw, req := newTestGateway(t, http.StatusOK, `{"data":{"draftOrderCreate":{"draftOrder":{"id":"gid://shopify/DraftOrder/9","name":"#D9"},"userErrors":[]}}}`)

	ref, err := gw.CreateDraft(context.Background(), domain.DraftSpecification{
		Region:          domain.RegionDomestic,
		CustomerID:      "gid://shopify/Customer/7",
		Note:            "Split order",
		Tags:            []string{"split-order", "split-from-1001", "domestic-fulfillment"},
		ShippingAddress: &domain.Address{City: "Austin", Province: "Texas", ProvinceCode: "TX", CountryCode: "US"},
		ShippingLine:    domain.ShippingCharge{Title: "Standard", Price: decimal.RequireFromString("15")},
		LineItems:       []domain.DraftLineItem{{VariantID: "gid://shopify/ProductVariant/11", Quantity: 2}},
		AppliedDiscount: &domain.AppliedDiscount{
			Title:     "Proportional discount from original order",
			Value:     decimal.RequireFromString("11.428"),
			ValueType: domain.DiscountValueTypeFixedAmount,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderRef{ID: "gid://shopify/DraftOrder/9", Name: "#D9"}, ref)

	input := req.Variables["input"].(map[string]any)
	assert.Equal(t, map[string]any{"title": "Standard", "price": "15.00"}, input["shippingLine"])
	assert.Equal(t, map[string]any{
		"city":         "Austin",
		"province":     "Texas",
		"provinceCode": "TX",
		"countryCode":  "US",
	}, input["shippingAddress"])
	assert.NotContains(t, input, "billingAddress")
	assert.NotContains(t, input, "email")

	discount := input["appliedDiscount"].(map[string]any)
	assert.Equal(t, 11.43, discount["value"])
	assert.Equal(t, "FIXED_AMOUNT", discount["valueType"])

	items := input["lineItems"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]any)["quantity"])
}

func TestGateway_CreateDraft_UserErrors(t *testing.T) {
	gw, _ := newTestGateway(t, http.StatusOK, `{"data":{"draftOrderCreate":{"draftOrder":null,"userErrors":[
		{"field":["lineItems"],"message":"Variant is archived"},{"field":null,"message":"Customer is disabled"}]}}}`)

	_, err := gw.CreateDraft(context.Background(), domain.DraftSpecification{})
	require.Error(t, err)
	assert.Equal(t, "create draft order: Variant is archived; Customer is disabled", err.Error())
}

func TestGateway_FinalizeDraft(t *testing.T) {
	gw, req := newTestGateway(t, http.StatusOK, `{"data":{"draftOrderComplete":{"draftOrder":{"order":{"id":"gid://shopify/Order/2001","name":"#2001"}},"userErrors":[]}}}`)

	ref, err := gw.FinalizeDraft(context.Background(), "gid://shopify/DraftOrder/9")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/DraftOrder/9", req.Variables["id"])
	assert.Equal(t, domain.OrderRef{ID: "gid://shopify/Order/2001", Name: "#2001"}, ref)
}

func TestGateway_AddTags(t *testing.T) {
	gw, req := newTestGateway(t, http.StatusOK, `{"data":{"tagsAdd":{"node":{"id":"gid://shopify/Order/1001"},"userErrors":[]}}}`)

	require.NoError(t, gw.AddTags(context.Background(), "gid://shopify/Order/1001", []string{"split-processed"}))
	assert.Equal(t, []any{"split-processed"}, req.Variables["tags"])
}

func TestGateway_WriteMetafield(t *testing.T) {
	gw, req := newTestGateway(t, http.StatusOK, `{"data":{"orderUpdate":{"order":{"id":"gid://shopify/Order/1001"},"userErrors":[]}}}`)

	err := gw.WriteMetafield(context.Background(), "gid://shopify/Order/1001", domain.Metafield{
		Namespace: "order_splitter",
		Key:       "split_orders",
		Value:     `{"domesticOrderId":"a"}`,
	})
	require.NoError(t, err)

	input := req.Variables["input"].(map[string]any)
	assert.Equal(t, "gid://shopify/Order/1001", input["id"])
	assert.Equal(t, []any{map[string]any{
		"namespace": "order_splitter",
		"key":       "split_orders",
		"type":      "json",
		"value":     `{"domesticOrderId":"a"}`,
	}}, input["metafields"])
}
