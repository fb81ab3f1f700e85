package order

import "context"

//go:generate mockgen -source order_repo.go -destination mock_order_repo.go -package order

type OrderRepo interface {
	TxOrderRepo
	InTransaction(ctx context.Context, fn func(repo TxOrderRepo) error) error
}

type TxOrderRepo interface {
	// LockKeys serializes writers touching any of the given provider keys
	// until the surrounding transaction ends.
	LockKeys(ctx context.Context, keys []string) error
	// FindByKeys returns every row matching either key, oldest first.
	FindByKeys(ctx context.Context, sessionID, paymentIntentID *string) ([]Order, error)

	Insert(ctx context.Context, o Order) error
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, id string) error
}

// Notifier is told about every committed order change.
type Notifier interface {
	OrderChanged(ctx context.Context, o Order) error
}
