package shopify

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

// --- query payloads ---

type moneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type moneyBag struct {
	ShopMoney moneyV2 `json:"shopMoney"`
}

type addressNode struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Company       *string `json:"company"`
	Address1      *string `json:"address1"`
	Address2      *string `json:"address2"`
	City          *string `json:"city"`
	Province      *string `json:"province"`
	ProvinceCode  *string `json:"provinceCode"`
	Country       *string `json:"country"`
	CountryCodeV2 *string `json:"countryCodeV2"`
	Zip           *string `json:"zip"`
	Phone         *string `json:"phone"`
}

type idNode struct {
	ID string `json:"id"`
}

type productNode struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

type discountAllocationNode struct {
	AllocatedAmountSet moneyBag `json:"allocatedAmountSet"`
}

type lineItemNode struct {
	ID                   string                   `json:"id"`
	Title                string                   `json:"title"`
	Quantity             int                      `json:"quantity"`
	OriginalUnitPriceSet moneyBag                 `json:"originalUnitPriceSet"`
	DiscountAllocations  []discountAllocationNode `json:"discountAllocations"`
	Variant              *idNode                  `json:"variant"`
	Product              *productNode             `json:"product"`
}

type shippingLineNode struct {
	Title            string   `json:"title"`
	OriginalPriceSet moneyBag `json:"originalPriceSet"`
}

type orderNode struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Tags                  []string     `json:"tags"`
	Note                  *string      `json:"note"`
	Email                 *string      `json:"email"`
	Customer              *idNode      `json:"customer"`
	ShippingAddress       *addressNode `json:"shippingAddress"`
	BillingAddress        *addressNode `json:"billingAddress"`
	TotalShippingPriceSet moneyBag     `json:"totalShippingPriceSet"`
	TotalDiscountsSet     moneyBag     `json:"totalDiscountsSet"`
	ShippingLines         struct {
		Nodes []shippingLineNode `json:"nodes"`
	} `json:"shippingLines"`
	LineItems struct {
		Nodes []lineItemNode `json:"nodes"`
	} `json:"lineItems"`
}

type getOrderData struct {
	Order *orderNode `json:"order"`
}

type orderRefNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type getOrderByNumberData struct {
	Orders struct {
		Nodes []orderRefNode `json:"nodes"`
	} `json:"orders"`
}

// --- mutation payloads ---

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func toFieldErrors(errs []userError) []domain.FieldError {
	out := make([]domain.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, domain.FieldError{Field: e.Field, Message: e.Message})
	}
	return out
}

type orderCancelData struct {
	OrderCancel struct {
		Job        *idNode     `json:"job"`
		UserErrors []userError `json:"orderCancelUserErrors"`
	} `json:"orderCancel"`
}

type draftOrderCreateData struct {
	DraftOrderCreate struct {
		DraftOrder *orderRefNode `json:"draftOrder"`
		UserErrors []userError   `json:"userErrors"`
	} `json:"draftOrderCreate"`
}

type draftOrderCompleteData struct {
	DraftOrderComplete struct {
		DraftOrder *struct {
			Order *orderRefNode `json:"order"`
		} `json:"draftOrder"`
		UserErrors []userError `json:"userErrors"`
	} `json:"draftOrderComplete"`
}

type tagsAddData struct {
	TagsAdd struct {
		Node       *idNode     `json:"node"`
		UserErrors []userError `json:"userErrors"`
	} `json:"tagsAdd"`
}

type orderUpdateData struct {
	OrderUpdate struct {
		Order      *idNode     `json:"order"`
		UserErrors []userError `json:"userErrors"`
	} `json:"orderUpdate"`
}

// --- inputs ---

type mailingAddressInput struct {
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

type draftLineItemInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type appliedDiscountInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Value       json.Number `json:"value"`
	ValueType   string      `json:"valueType"`
}

type shippingLineInput struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

type draftOrderInput struct {
	CustomerID      string                `json:"customerId,omitempty"`
	Email           string                `json:"email,omitempty"`
	Note            string                `json:"note,omitempty"`
	Tags            []string              `json:"tags,omitempty"`
	ShippingAddress *mailingAddressInput  `json:"shippingAddress,omitempty"`
	BillingAddress  *mailingAddressInput  `json:"billingAddress,omitempty"`
	ShippingLine    *shippingLineInput    `json:"shippingLine,omitempty"`
	LineItems       []draftLineItemInput  `json:"lineItems"`
	AppliedDiscount *appliedDiscountInput `json:"appliedDiscount,omitempty"`
}

type metafieldInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

type orderInput struct {
	ID         string           `json:"id"`
	Metafields []metafieldInput `json:"metafields"`
}

// --- mapping ---

func parseMoney(m moneyBag) (domain.Money, error) {
	amount := m.ShopMoney.Amount
	if amount == "" {
		amount = "0"
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("shopify: %w: invalid amount %q", domain.ErrRemoteTransport, m.ShopMoney.Amount)
	}
	return domain.Money{Amount: d, Currency: m.ShopMoney.CurrencyCode}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toAddress(a *addressNode) *domain.Address {
	if a == nil {
		return nil
	}
	return &domain.Address{
		FirstName:    deref(a.FirstName),
		LastName:     deref(a.LastName),
		Company:      deref(a.Company),
		Address1:     deref(a.Address1),
		Address2:     deref(a.Address2),
		City:         deref(a.City),
		Province:     deref(a.Province),
		ProvinceCode: deref(a.ProvinceCode),
		Country:      deref(a.Country),
		CountryCode:  deref(a.CountryCodeV2),
		Zip:          deref(a.Zip),
		Phone:        deref(a.Phone),
	}
}

func toOrder(n *orderNode) (*domain.Order, error) {
	order := &domain.Order{
		ID:              n.ID,
		Name:            n.Name,
		Tags:            n.Tags,
		Note:            deref(n.Note),
		Email:           deref(n.Email),
		ShippingAddress: toAddress(n.ShippingAddress),
		BillingAddress:  toAddress(n.BillingAddress),
	}
	if n.Customer != nil {
		order.CustomerID = n.Customer.ID
	}

	var err error
	if order.TotalShipping, err = parseMoney(n.TotalShippingPriceSet); err != nil {
		return nil, err
	}
	if order.TotalDiscount, err = parseMoney(n.TotalDiscountsSet); err != nil {
		return nil, err
	}
	order.Currency = order.TotalShipping.Currency

	for _, sl := range n.ShippingLines.Nodes {
		price, err := parseMoney(sl.OriginalPriceSet)
		if err != nil {
			return nil, err
		}
		order.ShippingLines = append(order.ShippingLines, domain.ShippingLine{Title: sl.Title, Price: price})
	}

	for _, li := range n.LineItems.Nodes {
		item, err := toLineItem(li)
		if err != nil {
			return nil, err
		}
		order.LineItems = append(order.LineItems, item)
	}
	return order, nil
}

func toLineItem(n lineItemNode) (domain.LineItem, error) {
	price, err := parseMoney(n.OriginalUnitPriceSet)
	if err != nil {
		return domain.LineItem{}, err
	}
	item := domain.LineItem{
		ID:        n.ID,
		Title:     n.Title,
		Quantity:  n.Quantity,
		UnitPrice: price,
	}
	for _, da := range n.DiscountAllocations {
		m, err := parseMoney(da.AllocatedAmountSet)
		if err != nil {
			return domain.LineItem{}, err
		}
		item.DiscountAllocations = append(item.DiscountAllocations, m)
	}
	if n.Variant != nil {
		item.VariantID = n.Variant.ID
	}
	if n.Product != nil {
		item.Product = &domain.Product{ID: n.Product.ID, Tags: n.Product.Tags}
	}
	return item, nil
}

func toMailingAddressInput(a *domain.Address) *mailingAddressInput {
	if a == nil {
		return nil
	}
	return &mailingAddressInput{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		Address1:     a.Address1,
		Address2:     a.Address2,
		City:         a.City,
		Province:     a.Province,
		ProvinceCode: a.ProvinceCode,
		Country:      a.Country,
		CountryCode:  a.CountryCode,
		Zip:          a.Zip,
		Phone:        a.Phone,
	}
}

func toDraftOrderInput(spec domain.DraftSpecification) draftOrderInput {
	in := draftOrderInput{
		CustomerID:      spec.CustomerID,
		Email:           spec.Email,
		Note:            spec.Note,
		Tags:            spec.Tags,
		ShippingAddress: toMailingAddressInput(spec.ShippingAddress),
		BillingAddress:  toMailingAddressInput(spec.BillingAddress),
		ShippingLine: &shippingLineInput{
			Title: spec.ShippingLine.Title,
			Price: spec.ShippingLine.Price.StringFixed(2),
		},
		LineItems: make([]draftLineItemInput, 0, len(spec.LineItems)),
	}
	for _, li := range spec.LineItems {
		in.LineItems = append(in.LineItems, draftLineItemInput{VariantID: li.VariantID, Quantity: li.Quantity})
	}
	if d := spec.AppliedDiscount; d != nil {
		in.AppliedDiscount = &appliedDiscountInput{
			Title:       d.Title,
			Description: d.Description,
			Value:       json.Number(d.Value.StringFixed(2)),
			ValueType:   d.ValueType,
		}
	}
	return in
}
