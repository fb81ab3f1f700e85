package order

import (
	"encoding/json"
	"time"
)

// Provider event types the reconciler acts on.
const (
	TypeCheckoutSessionCompleted   = "checkout.session.completed"
	TypePaymentIntentSucceeded     = "payment_intent.succeeded"
	TypePaymentIntentPaymentFailed = "payment_intent.payment_failed"
	TypePaymentIntentProcessing    = "payment_intent.processing"
	TypePaymentIntentCanceled      = "payment_intent.canceled"
)

// IsPaymentIntentType reports whether t is one of the handled intent lifecycle types.
func IsPaymentIntentType(t string) bool {
	switch t {
	case TypePaymentIntentSucceeded,
		TypePaymentIntentPaymentFailed,
		TypePaymentIntentProcessing,
		TypePaymentIntentCanceled:
		return true
	}
	return false
}

// Event is a verified provider notification. The set of implementations is
// closed: SessionCompleted, PaymentIntentChanged and Ignored.
type Event interface {
	EventID() string
	EventType() string
	fragment(now time.Time) (Fragment, bool)
}

type EventMeta struct {
	ID   string
	Type string
}

func (m EventMeta) EventID() string   { return m.ID }
func (m EventMeta) EventType() string { return m.Type }

// SessionCompleted carries a checkout.session.completed payload.
type SessionCompleted struct {
	EventMeta
	SessionID         string
	PaymentIntentID   *string
	ClientReferenceID *string
	UserID            *string
	Amount            int64
	Currency          string
	PaymentStatus     string
	Raw               json.RawMessage
}

func (e SessionCompleted) fragment(now time.Time) (Fragment, bool) {
	return Fragment{
		SessionID:         &e.SessionID,
		PaymentIntentID:   e.PaymentIntentID,
		UserID:            e.UserID,
		ClientReferenceID: e.ClientReferenceID,
		Amount:            e.Amount,
		Currency:          e.Currency,
		Status:            e.PaymentStatus,
		Raw:               e.Raw,
		UpdatedAt:         now,
	}, true
}

// PaymentIntentChanged carries any of the payment_intent.* lifecycle payloads.
type PaymentIntentChanged struct {
	EventMeta
	PaymentIntentID string
	Amount          int64
	Currency        string
	Status          string
	Raw             json.RawMessage
}

func (e PaymentIntentChanged) fragment(now time.Time) (Fragment, bool) {
	return Fragment{
		PaymentIntentID: &e.PaymentIntentID,
		Amount:          e.Amount,
		Currency:        e.Currency,
		Status:          e.Status,
		Raw:             e.Raw,
		UpdatedAt:       now,
	}, true
}

// Ignored is any verified event type the reconciler does not store.
type Ignored struct {
	EventMeta
}

func (Ignored) fragment(time.Time) (Fragment, bool) {
	return Fragment{}, false
}

// FragmentOf returns the record fragment evt contributes, or false when the
// event has no storage effect.
func FragmentOf(evt Event, now time.Time) (Fragment, bool) {
	return evt.fragment(now)
}
