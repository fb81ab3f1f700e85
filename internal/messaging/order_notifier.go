package messaging

import (
	"context"
	"fmt"

	"PaymentIntake/internal/domain/order"
)

const OrderChangedType = "order.changed"

// OrderNotifier publishes committed order changes, keyed by order id so all
// changes of one order land on the same partition.
type OrderNotifier struct {
	publisher Publisher
}

func NewOrderNotifier(publisher Publisher) *OrderNotifier {
	return &OrderNotifier{publisher: publisher}
}

func (n *OrderNotifier) OrderChanged(ctx context.Context, o order.Order) error {
	// raw provider payloads stay in storage
	o.Raw = nil

	env, err := NewEnvelope(o.ID, OrderChangedType, o)
	if err != nil {
		return fmt.Errorf("build order envelope: %w", err)
	}
	if err := n.publisher.Publish(ctx, env); err != nil {
		return fmt.Errorf("publish order %s: %w", o.ID, err)
	}
	return nil
}
