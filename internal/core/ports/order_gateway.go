package ports

import (
	"context"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
)

// OrderGateway is the boundary to the remote order-management API.
// Every method is a single request/response exchange with no internal retry.
// Field-level rejections surface as *domain.RemoteValidationError, network and
// HTTP failures wrap domain.ErrRemoteTransport.
type OrderGateway interface {
	// FetchOrder returns domain.ErrNotFound when no order has the given id.
	FetchOrder(ctx context.Context, id string) (*domain.Order, error)
	// FindOrderByNumber resolves a display number ("1001") to an order reference.
	FindOrderByNumber(ctx context.Context, number string) (*domain.OrderRef, error)
	AddTags(ctx context.Context, orderID string, tags []string) error
	CancelOrder(ctx context.Context, req domain.CancelRequest) error
	CreateDraft(ctx context.Context, spec domain.DraftSpecification) (domain.OrderRef, error)
	// FinalizeDraft converts a draft into a real order marked as paid without charging.
	FinalizeDraft(ctx context.Context, draftID string) (domain.OrderRef, error)
	WriteMetafield(ctx context.Context, orderID string, field domain.Metafield) error
}
