package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type OrderService struct {
	orderRepo OrderRepo
	notifier  Notifier
	now       func() time.Time
	newID     func() string
}

func NewOrderService(orderRepo OrderRepo, notifier Notifier) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Apply upserts the record fragment carried by evt. Rows are matched by
// whichever provider key the event carries, so the session event and the
// payment intent events of one order converge on a single row in either
// arrival order. Returns nil without touching storage for ignored events.
func (s *OrderService) Apply(ctx context.Context, evt Event) (*Order, error) {
	fragment, ok := FragmentOf(evt, s.now())
	if !ok {
		return nil, nil
	}

	var saved Order
	err := s.orderRepo.InTransaction(ctx, func(tx TxOrderRepo) error {
		if err := tx.LockKeys(ctx, fragment.Keys()); err != nil {
			return fmt.Errorf("lock order keys: %w", err)
		}

		existing, err := tx.FindByKeys(ctx, fragment.SessionID, fragment.PaymentIntentID)
		if err != nil {
			return fmt.Errorf("find order: %w", err)
		}

		if len(existing) == 0 {
			saved = NewOrder(s.newID(), fragment)
			if err := tx.Insert(ctx, saved); err != nil {
				return fmt.Errorf("insert order: %w", err)
			}
			return nil
		}

		primary := existing[0]
		for _, dup := range existing[1:] {
			if err := tx.Delete(ctx, dup.ID); err != nil {
				return fmt.Errorf("delete duplicate order %s: %w", dup.ID, err)
			}
			primary = primary.Absorb(dup)
		}

		saved = primary.Merge(fragment)
		if err := tx.Update(ctx, saved); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upsert order for event %s: %w", evt.EventID(), err)
	}

	if s.notifier != nil {
		if err := s.notifier.OrderChanged(ctx, saved); err != nil {
			slog.ErrorContext(ctx, "order change notification failed",
				"order_id", saved.ID, "event_id", evt.EventID(), "error", err)
		}
	}

	return &saved, nil
}
