package split

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

const (
	defaultShippingTitle = "Shipping"
	discountTitle        = "Proportional discount from original order"
	moneyPlaces          = 2
)

// ShippingAllocation assigns the whole shipping charge to the domestic order.
// The international order keeps the same title at zero.
type ShippingAllocation struct {
	Domestic      domain.ShippingCharge
	International domain.ShippingCharge
}

// AllocateShipping carries the first shipping line over to the domestic order.
// Later lines are ignored; with no lines the charge is zero.
func AllocateShipping(lines []domain.ShippingLine) ShippingAllocation {
	title := defaultShippingTitle
	price := decimal.Zero
	if len(lines) > 0 {
		if lines[0].Title != "" {
			title = lines[0].Title
		}
		price = lines[0].Price.Amount
	}
	return ShippingAllocation{
		Domestic:      domain.ShippingCharge{Title: title, Price: price.Round(moneyPlaces)},
		International: domain.ShippingCharge{Title: title, Price: decimal.Zero},
	}
}

// DiscountAllocation holds each group's share of the original discount.
// A nil share means no discount line is emitted for that group.
type DiscountAllocation struct {
	Domestic      *domain.Discount
	International *domain.Discount
}

// AllocateDiscount splits discount by subtotal weight. The domestic share is rounded
// to the cent and the international share takes the remainder, so the two always
// sum to the rounded original amount.
func AllocateDiscount(discount, domesticSubtotal, internationalSubtotal decimal.Decimal) DiscountAllocation {
	if discount.IsZero() {
		return DiscountAllocation{}
	}
	combined := domesticSubtotal.Add(internationalSubtotal)
	if combined.IsZero() {
		return DiscountAllocation{}
	}

	domesticShare := quoRound(discount.Mul(domesticSubtotal), combined)
	internationalShare := discount.Sub(domesticShare).Round(moneyPlaces)

	return DiscountAllocation{
		Domestic:      discountShare(domesticShare),
		International: discountShare(internationalShare),
	}
}

// quoRound divides num by den and rounds half away from zero to the cent,
// deciding the rounding from the exact remainder.
func quoRound(num, den decimal.Decimal) decimal.Decimal {
	q, r := num.QuoRem(den, moneyPlaces)
	cent := decimal.New(1, -moneyPlaces)
	if r.Abs().Mul(decimal.NewFromInt(2)).LessThan(den.Abs().Mul(cent)) {
		return q
	}
	if num.Sign()*den.Sign() < 0 {
		return q.Sub(cent)
	}
	return q.Add(cent)
}

func discountShare(amount decimal.Decimal) *domain.Discount {
	if !amount.IsPositive() {
		return nil
	}
	return &domain.Discount{Title: discountTitle, Amount: amount}
}
