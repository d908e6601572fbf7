package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

func lineItem(id, price string, qty int, tags ...string) domain.LineItem {
	item := domain.LineItem{
		ID:        id,
		Title:     "Item " + id,
		Quantity:  qty,
		UnitPrice: domain.Money{Amount: decimal.RequireFromString(price), Currency: "USD"},
		VariantID: "gid://shopify/ProductVariant/" + id,
	}
	if tags != nil {
		item.Product = &domain.Product{ID: "gid://shopify/Product/" + id, Tags: tags}
	}
	return item
}

func ids(items []domain.LineItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestClassify(t *testing.T) {
	t.Run("partitions by product tag preserving order", func(t *testing.T) {
		items := []domain.LineItem{
			lineItem("1", "20.00", 1, "US", "summer"),
			lineItem("2", "30.00", 1, "EU"),
			lineItem("3", "10.00", 2, "us"),
			lineItem("4", "5.00", 1),
		}

		g := Classify(items, "US")

		assert.Equal(t, []string{"1", "3"}, ids(g.Domestic))
		assert.Equal(t, []string{"2", "4"}, ids(g.International))
		assert.True(t, g.NeedsSplit())
	})

	t.Run("matches the configured tag case-insensitively", func(t *testing.T) {
		g := Classify([]domain.LineItem{lineItem("1", "1.00", 1, "Us")}, "uS")
		assert.Len(t, g.Domestic, 1)
		assert.Empty(t, g.International)
	})

	t.Run("items without a product are international", func(t *testing.T) {
		g := Classify([]domain.LineItem{lineItem("1", "1.00", 1)}, "US")
		assert.Empty(t, g.Domestic)
		assert.Len(t, g.International, 1)
	})

	t.Run("single group does not need a split", func(t *testing.T) {
		all := Classify([]domain.LineItem{
			lineItem("1", "1.00", 1, "US"),
			lineItem("2", "1.00", 1, "US"),
		}, "US")
		none := Classify([]domain.LineItem{lineItem("1", "1.00", 1, "EU")}, "US")

		assert.False(t, all.NeedsSplit())
		assert.False(t, none.NeedsSplit())
		assert.False(t, Classify(nil, "US").NeedsSplit())
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		items := []domain.LineItem{lineItem("1", "1.00", 1, "US"), lineItem("2", "1.00", 1)}
		before := append([]domain.LineItem(nil), items...)

		Classify(items, "US")

		assert.Equal(t, before, items)
	})
}
