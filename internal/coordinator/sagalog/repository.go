package sagalog

import "context"

// Repository persists journal entries. Implementations append; they never update.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// Reader is implemented by repositories that can replay a run for an order.
type Reader interface {
	ListByOrder(ctx context.Context, orderID string) ([]Entry, error)
}
