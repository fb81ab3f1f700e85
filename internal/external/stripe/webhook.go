package stripe

import (
	"encoding/json"
	"fmt"

	"PaymentIntake/internal/controller/apperror"
	"PaymentIntake/internal/domain/checkout"
	"PaymentIntake/internal/domain/order"
	"PaymentIntake/pkg/pointers"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// WebhookVerifier authenticates raw webhook deliveries and decodes them into
// order events.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify checks the Stripe-Signature header against the exact payload bytes
// before anything in the body is trusted.
func (v *WebhookVerifier) Verify(payload []byte, header string) (order.Event, error) {
	if v.secret == "" || header == "" {
		return nil, apperror.ErrConfigMissing
	}

	if err := webhook.ValidatePayload(payload, header, v.secret); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrSignatureInvalid, err)
	}

	var evt stripego.Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrMalformedEvent, err)
	}
	if evt.Data == nil || len(evt.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: event %s has no data.object", apperror.ErrMalformedEvent, evt.ID)
	}

	meta := order.EventMeta{ID: evt.ID, Type: string(evt.Type)}
	raw := json.RawMessage(append([]byte(nil), evt.Data.Raw...))

	switch {
	case meta.Type == order.TypeCheckoutSessionCompleted:
		return decodeSession(meta, raw)
	case order.IsPaymentIntentType(meta.Type):
		return decodePaymentIntent(meta, raw)
	default:
		return order.Ignored{EventMeta: meta}, nil
	}
}

func decodeSession(meta order.EventMeta, raw json.RawMessage) (order.Event, error) {
	var s stripego.CheckoutSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: checkout session: %v", apperror.ErrMalformedEvent, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: checkout session without id", apperror.ErrMalformedEvent)
	}

	evt := order.SessionCompleted{
		EventMeta:         meta,
		SessionID:         s.ID,
		ClientReferenceID: pointers.NonEmpty(s.ClientReferenceID),
		UserID:            sessionUserID(s.Metadata),
		Amount:            s.AmountTotal,
		Currency:          string(s.Currency),
		PaymentStatus:     string(s.PaymentStatus),
		Raw:               raw,
	}
	if s.PaymentIntent != nil {
		evt.PaymentIntentID = pointers.NonEmpty(s.PaymentIntent.ID)
	}
	return evt, nil
}

func decodePaymentIntent(meta order.EventMeta, raw json.RawMessage) (order.Event, error) {
	var pi stripego.PaymentIntent
	if err := json.Unmarshal(raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: payment intent: %v", apperror.ErrMalformedEvent, err)
	}
	if pi.ID == "" {
		return nil, fmt.Errorf("%w: payment intent without id", apperror.ErrMalformedEvent)
	}

	return order.PaymentIntentChanged{
		EventMeta:       meta,
		PaymentIntentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        string(pi.Currency),
		Status:          string(pi.Status),
		Raw:             raw,
	}, nil
}

func sessionUserID(metadata map[string]string) *string {
	if id := pointers.NonEmpty(metadata[checkout.MetadataUserID]); id != nil {
		return id
	}
	return pointers.NonEmpty(metadata[checkout.LegacyMetadataUserID])
}
