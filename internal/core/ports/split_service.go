package ports

import (
	"context"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

// SplitService is the caller-facing contract of the split pipeline.
type SplitService interface {
	RunSplit(ctx context.Context, orderID string) (domain.SplitResult, error)
	PreviewSplit(ctx context.Context, orderID string) (*domain.Preview, error)
	// ResolveOrderNumber maps a human order number ("#1001" or "1001") to an order id.
	ResolveOrderNumber(ctx context.Context, number string) (string, error)
}
