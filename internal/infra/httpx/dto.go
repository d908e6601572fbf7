package httpx

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/order-splitter/internal/coordinator/sagalog"
	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

// OrderRequest selects an order for the manual endpoints. OrderID wins when both are set.
type OrderRequest struct {
	OrderNumber string `json:"orderNumber"`
	OrderID     string `json:"orderId"`
}

// ordersPaidPayload is the subset of the orders/paid webhook body we read.
type ordersPaidPayload struct {
	AdminGraphQLAPIID string `json:"admin_graphql_api_id"`
	Name              string `json:"name"`
	Tags              string `json:"tags"`
}

type AccessTokenRequest struct {
	AccessToken string `json:"accessToken"`
}

type SplitResultResponse struct {
	Action                 string `json:"action"`
	Reason                 string `json:"reason,omitempty"`
	DomesticOrderID        string `json:"domesticOrderId,omitempty"`
	DomesticOrderName      string `json:"domesticOrderName,omitempty"`
	InternationalOrderID   string `json:"internationalOrderId,omitempty"`
	InternationalOrderName string `json:"internationalOrderName,omitempty"`
}

type PreviewResponse struct {
	Order              PreviewOrder              `json:"order"`
	DomesticItems      []PreviewItem             `json:"domesticItems"`
	InternationalItems []PreviewItem             `json:"internationalItems"`
	NeedsSplit         bool                      `json:"needsSplit"`
	AlreadyProcessed   bool                      `json:"alreadyProcessed"`
	Allocation         *AllocationPreviewPayload `json:"allocation,omitempty"`
}

type PreviewOrder struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Tags            []string        `json:"tags"`
	Email           string          `json:"email,omitempty"`
	ShippingAddress *AddressPayload `json:"shippingAddress,omitempty"`
	TotalShipping   string          `json:"totalShipping"`
	TotalDiscount   string          `json:"totalDiscount"`
	Currency        string          `json:"currency"`
}

type AddressPayload struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Company      string `json:"company,omitempty"`
	Address1     string `json:"address1,omitempty"`
	Address2     string `json:"address2,omitempty"`
	City         string `json:"city,omitempty"`
	Province     string `json:"province,omitempty"`
	ProvinceCode string `json:"provinceCode,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"countryCode,omitempty"`
	Zip          string `json:"zip,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type PreviewItem struct {
	Title       string   `json:"title"`
	Quantity    int      `json:"quantity"`
	UnitPrice   string   `json:"unitPrice"`
	ProductTags []string `json:"productTags"`
}

type ShippingPayload struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

type DiscountPayload struct {
	Title  string `json:"title"`
	Amount string `json:"amount"`
}

type AllocationPreviewPayload struct {
	DomesticSubtotal      string           `json:"domesticSubtotal"`
	InternationalSubtotal string           `json:"internationalSubtotal"`
	DomesticShipping      ShippingPayload  `json:"domesticShipping"`
	InternationalShipping ShippingPayload  `json:"internationalShipping"`
	DomesticDiscount      *DiscountPayload `json:"domesticDiscount,omitempty"`
	InternationalDiscount *DiscountPayload `json:"internationalDiscount,omitempty"`
}

type RunEntryResponse struct {
	RunID         string          `json:"runId"`
	Status        string          `json:"status"`
	Step          string          `json:"step,omitempty"`
	Detail        json.RawMessage `json:"detail,omitempty"`
	ErrorMessages json.RawMessage `json:"errorMessages"`
	TraceID       string          `json:"traceId,omitempty"`
	RecordedAt    string          `json:"recordedAt"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func mapSplitResult(r domain.SplitResult) SplitResultResponse {
	resp := SplitResultResponse{Action: string(r.Outcome), Reason: r.Reason}
	if r.Domestic != nil {
		resp.DomesticOrderID = r.Domestic.ID
		resp.DomesticOrderName = r.Domestic.Name
	}
	if r.International != nil {
		resp.InternationalOrderID = r.International.ID
		resp.InternationalOrderName = r.International.Name
	}
	return resp
}

func mapPreview(p *domain.Preview) PreviewResponse {
	o := p.Order
	tags := o.Tags
	if tags == nil {
		tags = []string{}
	}
	return PreviewResponse{
		Order: PreviewOrder{
			ID:              o.ID,
			Name:            o.Name,
			Tags:            tags,
			Email:           o.Email,
			ShippingAddress: mapAddress(o.ShippingAddress),
			TotalShipping:   money(o.TotalShipping.Amount),
			TotalDiscount:   money(o.TotalDiscount.Amount),
			Currency:        o.Currency,
		},
		DomesticItems:      mapItems(p.Domestic),
		InternationalItems: mapItems(p.International),
		NeedsSplit:         p.NeedsSplit,
		AlreadyProcessed:   p.AlreadyProcessed,
		Allocation:         mapAllocation(p.Allocation),
	}
}

func mapAddress(a *domain.Address) *AddressPayload {
	if a == nil {
		return nil
	}
	p := AddressPayload(*a)
	return &p
}

func mapItems(items []domain.LineItem) []PreviewItem {
	out := make([]PreviewItem, 0, len(items))
	for _, it := range items {
		tags := it.ProductTags()
		if tags == nil {
			tags = []string{}
		}
		out = append(out, PreviewItem{
			Title:       it.Title,
			Quantity:    it.Quantity,
			UnitPrice:   money(it.UnitPrice.Amount),
			ProductTags: tags,
		})
	}
	return out
}

func mapAllocation(a *domain.AllocationPreview) *AllocationPreviewPayload {
	if a == nil {
		return nil
	}
	return &AllocationPreviewPayload{
		DomesticSubtotal:      money(a.DomesticSubtotal),
		InternationalSubtotal: money(a.InternationalSubtotal),
		DomesticShipping:      ShippingPayload{Title: a.DomesticShipping.Title, Price: money(a.DomesticShipping.Price)},
		InternationalShipping: ShippingPayload{Title: a.InternationalShipping.Title, Price: money(a.InternationalShipping.Price)},
		DomesticDiscount:      mapDiscount(a.DomesticDiscount),
		InternationalDiscount: mapDiscount(a.InternationalDiscount),
	}
}

func mapDiscount(d *domain.Discount) *DiscountPayload {
	if d == nil {
		return nil
	}
	return &DiscountPayload{Title: d.Title, Amount: money(d.Amount)}
}

func mapRunEntries(entries []sagalog.Entry) []RunEntryResponse {
	out := make([]RunEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := RunEntryResponse{
			RunID:         e.RunID,
			Status:        string(e.Status),
			Step:          e.Step,
			ErrorMessages: json.RawMessage("[]"),
			TraceID:       e.TraceID,
			RecordedAt:    e.RecordedAt.UTC().Format(time.RFC3339Nano),
		}
		if e.Detail != "" && json.Valid([]byte(e.Detail)) {
			resp.Detail = json.RawMessage(e.Detail)
		}
		if e.ErrorMessages != "" && json.Valid([]byte(e.ErrorMessages)) {
			resp.ErrorMessages = json.RawMessage(e.ErrorMessages)
		}
		out = append(out, resp)
	}
	return out
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
