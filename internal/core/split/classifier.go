// Package split holds the pure parts of the order split pipeline: line-item
// classification, shipping and discount allocation, and replacement draft assembly.
// Nothing in this package performs I/O.
package split

import (
	"strings"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

// Groups partitions an order's line items by fulfillment region.
// Every input item lands in exactly one group and input order is preserved.
type Groups struct {
	Domestic      []domain.LineItem
	International []domain.LineItem
}

// NeedsSplit is true only when both groups are non-empty.
func (g Groups) NeedsSplit() bool {
	return len(g.Domestic) > 0 && len(g.International) > 0
}

// Classify puts an item in the domestic group when its product carries tag
// (case-insensitive). Items without a product are international.
func Classify(items []domain.LineItem, tag string) Groups {
	var g Groups
	for _, item := range items {
		if hasTagFold(item.ProductTags(), tag) {
			g.Domestic = append(g.Domestic, item)
		} else {
			g.International = append(g.International, item)
		}
	}
	return g
}

func hasTagFold(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
