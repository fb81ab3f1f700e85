package order

import (
	"encoding/json"
	"sort"
	"time"
)

// Order is the persisted payment record. It is identified internally by ID
// and externally by either provider key; one logical order ends up with both.
type Order struct {
	ID                string          `json:"id"`
	UserID            *string         `json:"user_id,omitempty"`
	ClientReferenceID *string         `json:"client_reference_id,omitempty"`
	SessionID         *string         `json:"stripe_checkout_session_id,omitempty"`
	PaymentIntentID   *string         `json:"stripe_payment_intent_id,omitempty"`
	Amount            int64           `json:"amount"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	Raw               json.RawMessage `json:"raw,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Fragment is the partial record a single webhook event contributes.
// Nil identity fields mean "unknown", not "clear".
type Fragment struct {
	SessionID         *string
	PaymentIntentID   *string
	UserID            *string
	ClientReferenceID *string
	Amount            int64
	Currency          string
	Status            string
	Raw               json.RawMessage
	UpdatedAt         time.Time
}

// Keys returns the provider keys carried by the fragment, sorted so that
// locks are always taken in the same order.
func (f Fragment) Keys() []string {
	keys := make([]string, 0, 2)
	if f.SessionID != nil {
		keys = append(keys, *f.SessionID)
	}
	if f.PaymentIntentID != nil {
		keys = append(keys, *f.PaymentIntentID)
	}
	sort.Strings(keys)
	return keys
}

func NewOrder(id string, f Fragment) Order {
	return Order{ID: id, CreatedAt: f.UpdatedAt}.Merge(f)
}

// Merge applies a fragment. Identity fields are filled when the fragment
// knows them and are never cleared; payment data is last-write-wins.
func (o Order) Merge(f Fragment) Order {
	o.SessionID = coalesce(f.SessionID, o.SessionID)
	o.PaymentIntentID = coalesce(f.PaymentIntentID, o.PaymentIntentID)
	o.UserID = coalesce(f.UserID, o.UserID)
	o.ClientReferenceID = coalesce(f.ClientReferenceID, o.ClientReferenceID)

	o.Amount = f.Amount
	o.Currency = f.Currency
	o.Status = f.Status
	o.Raw = f.Raw
	o.UpdatedAt = f.UpdatedAt
	return o
}

// Absorb folds a duplicate row of the same logical order into o.
func (o Order) Absorb(dup Order) Order {
	o.SessionID = coalesce(o.SessionID, dup.SessionID)
	o.PaymentIntentID = coalesce(o.PaymentIntentID, dup.PaymentIntentID)
	o.UserID = coalesce(o.UserID, dup.UserID)
	o.ClientReferenceID = coalesce(o.ClientReferenceID, dup.ClientReferenceID)

	if dup.CreatedAt.Before(o.CreatedAt) {
		o.CreatedAt = dup.CreatedAt
	}
	if dup.UpdatedAt.After(o.UpdatedAt) {
		o.Amount = dup.Amount
		o.Currency = dup.Currency
		o.Status = dup.Status
		o.Raw = dup.Raw
		o.UpdatedAt = dup.UpdatedAt
	}
	return o
}

func coalesce(preferred, fallback *string) *string {
	if preferred != nil {
		return preferred
	}
	return fallback
}
