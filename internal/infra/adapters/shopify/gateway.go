package shopify

import (
	"context"
	"fmt"

	"github.com/jcmexdev/order-splitter/internal/core/domain"
	"github.com/jcmexdev/order-splitter/internal/core/ports"
)

var _ ports.OrderGateway = (*Gateway)(nil)

// Gateway maps the order operations of the split pipeline onto Admin API
// queries and mutations.
type Gateway struct {
	client *Client
}

func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) FetchOrder(ctx context.Context, id string) (*domain.Order, error) {
	var data getOrderData
	if err := g.client.Do(ctx, queryOrderWithProductTags, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Order == nil {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return toOrder(data.Order)
}

func (g *Gateway) FindOrderByNumber(ctx context.Context, number string) (*domain.OrderRef, error) {
	var data getOrderByNumberData
	vars := map[string]any{"query": "name:#" + number}
	if err := g.client.Do(ctx, queryOrderByNumber, vars, &data); err != nil {
		return nil, err
	}
	if len(data.Orders.Nodes) == 0 {
		return nil, fmt.Errorf("order #%s: %w", number, domain.ErrNotFound)
	}
	n := data.Orders.Nodes[0]
	return &domain.OrderRef{ID: n.ID, Name: n.Name}, nil
}

func (g *Gateway) AddTags(ctx context.Context, orderID string, tags []string) error {
	var data tagsAddData
	vars := map[string]any{"id": orderID, "tags": tags}
	if err := g.client.Do(ctx, mutationTagsAdd, vars, &data); err != nil {
		return err
	}
	return domain.NewRemoteValidationError("add tags", toFieldErrors(data.TagsAdd.UserErrors))
}

func (g *Gateway) CancelOrder(ctx context.Context, req domain.CancelRequest) error {
	var data orderCancelData
	vars := map[string]any{
		"orderId":        req.OrderID,
		"reason":         string(req.Reason),
		"restock":        req.Restock,
		"notifyCustomer": req.NotifyCustomer,
		"staffNote":      req.StaffNote,
		"refundMethod":   map[string]any{"originalPaymentMethodsRefund": req.RefundPayment},
	}
	if err := g.client.Do(ctx, mutationOrderCancel, vars, &data); err != nil {
		return err
	}
	return domain.NewRemoteValidationError("cancel order", toFieldErrors(data.OrderCancel.UserErrors))
}

func (g *Gateway) CreateDraft(ctx context.Context, spec domain.DraftSpecification) (domain.OrderRef, error) {
	var data draftOrderCreateData
	vars := map[string]any{"input": toDraftOrderInput(spec)}
	if err := g.client.Do(ctx, mutationDraftOrderCreate, vars, &data); err != nil {
		return domain.OrderRef{}, err
	}
	result := data.DraftOrderCreate
	if err := domain.NewRemoteValidationError("create draft order", toFieldErrors(result.UserErrors)); err != nil {
		return domain.OrderRef{}, err
	}
	if result.DraftOrder == nil {
		return domain.OrderRef{}, fmt.Errorf("shopify: %w: draftOrderCreate returned no draft order", domain.ErrRemoteTransport)
	}
	return domain.OrderRef{ID: result.DraftOrder.ID, Name: result.DraftOrder.Name}, nil
}

func (g *Gateway) FinalizeDraft(ctx context.Context, draftID string) (domain.OrderRef, error) {
	var data draftOrderCompleteData
	if err := g.client.Do(ctx, mutationDraftOrderComplete, map[string]any{"id": draftID}, &data); err != nil {
		return domain.OrderRef{}, err
	}
	result := data.DraftOrderComplete
	if err := domain.NewRemoteValidationError("complete draft order", toFieldErrors(result.UserErrors)); err != nil {
		return domain.OrderRef{}, err
	}
	if result.DraftOrder == nil || result.DraftOrder.Order == nil {
		return domain.OrderRef{}, fmt.Errorf("shopify: %w: draftOrderComplete returned no order", domain.ErrRemoteTransport)
	}
	return domain.OrderRef{ID: result.DraftOrder.Order.ID, Name: result.DraftOrder.Order.Name}, nil
}

func (g *Gateway) WriteMetafield(ctx context.Context, orderID string, field domain.Metafield) error {
	var data orderUpdateData
	vars := map[string]any{"input": orderInput{
		ID: orderID,
		Metafields: []metafieldInput{{
			Namespace: field.Namespace,
			Key:       field.Key,
			Type:      "json",
			Value:     field.Value,
		}},
	}}
	if err := g.client.Do(ctx, mutationOrderUpdate, vars, &data); err != nil {
		return err
	}
	return domain.NewRemoteValidationError("update order", toFieldErrors(data.OrderUpdate.UserErrors))
}
