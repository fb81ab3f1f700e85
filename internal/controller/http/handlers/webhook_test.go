package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PaymentIntake/internal/domain/order"
	stripeadapter "PaymentIntake/internal/external/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookSecret = "whsec_handler_test"

var webhookCfg = WebhookConfig{StripeSecretKey: "sk_test", StripeWebhookSecret: webhookSecret}

type recordingApplier struct {
	events []order.Event
	err    error
}

func (a *recordingApplier) Apply(_ context.Context, evt order.Event) (*order.Order, error) {
	a.events = append(a.events, evt)
	if a.err != nil {
		return nil, a.err
	}
	return &order.Order{ID: "order-1", Status: "paid"}, nil
}

func newWebhookEngine(h *WebhookHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/stripe-webhook", h.Receive)
	return engine
}

func signedHeader(t *testing.T, payload string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

func deliver(engine *gin.Engine, payload, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", strings.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

const piSucceeded = `{"id":"evt_1","object":"event","type":"payment_intent.succeeded",
"data":{"object":{"id":"pi_1","object":"payment_intent","amount":500,"currency":"usd","status":"succeeded"}}}`

func TestWebhookHandler_Receive(t *testing.T) {
	verifier := stripeadapter.NewWebhookVerifier(webhookSecret)

	t.Run("should apply a verified event and acknowledge", func(t *testing.T) {
		// given
		applier := &recordingApplier{}
		engine := newWebhookEngine(NewWebhookHandler(verifier, applier, webhookCfg))

		// when
		w := deliver(engine, piSucceeded, signedHeader(t, piSucceeded))

		// then
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received":true}`, w.Body.String())
		require.Len(t, applier.events, 1)
		pi, ok := applier.events[0].(order.PaymentIntentChanged)
		require.True(t, ok)
		assert.Equal(t, "pi_1", pi.PaymentIntentID)
		assert.Equal(t, "succeeded", pi.Status)
	})

	t.Run("should reject a bad signature without touching storage", func(t *testing.T) {
		applier := &recordingApplier{}
		engine := newWebhookEngine(NewWebhookHandler(verifier, applier, webhookCfg))
		header := signedHeader(t, piSucceeded)

		w := deliver(engine, strings.Replace(piSucceeded, `"amount":500`, `"amount":1`, 1), header)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.HasPrefix(w.Body.String(), "Webhook Error: "))
		assert.Empty(t, applier.events)
	})

	t.Run("should report missing signature header as config error", func(t *testing.T) {
		applier := &recordingApplier{}
		engine := newWebhookEngine(NewWebhookHandler(verifier, applier, webhookCfg))

		w := deliver(engine, piSucceeded, "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Missing Stripe config", w.Body.String())
		assert.Empty(t, applier.events)
	})

	t.Run("should report missing secrets", func(t *testing.T) {
		applier := &recordingApplier{}
		engine := newWebhookEngine(NewWebhookHandler(verifier, applier, WebhookConfig{StripeSecretKey: "sk_test"}))

		w := deliver(engine, piSucceeded, signedHeader(t, piSucceeded))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Missing Stripe config", w.Body.String())
	})

	t.Run("should acknowledge even when storage fails", func(t *testing.T) {
		applier := &recordingApplier{err: errors.New("upsert order for event evt_1: connection reset")}
		engine := newWebhookEngine(NewWebhookHandler(verifier, applier, webhookCfg))

		w := deliver(engine, piSucceeded, signedHeader(t, piSucceeded))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received":true}`, w.Body.String())
		assert.Len(t, applier.events, 1)
	})

	t.Run("should acknowledge ignored types without storage", func(t *testing.T) {
		applier := &recordingApplier{}
		engine := newWebhookEngine(NewWebhookHandler(verifier, applier, webhookCfg))
		payload := `{"id":"evt_2","object":"event","type":"customer.created","data":{"object":{"id":"cus_1","object":"customer"}}}`

		w := deliver(engine, payload, signedHeader(t, payload))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"received":true}`, w.Body.String())
		assert.Empty(t, applier.events)
	})

	t.Run("should answer server error on a signed malformed event", func(t *testing.T) {
		applier := &recordingApplier{}
		engine := newWebhookEngine(NewWebhookHandler(verifier, applier, webhookCfg))
		payload := `{"id":"evt_3","object":"event","type":"checkout.session.completed","data":{"object":{"object":"checkout.session"}}}`

		w := deliver(engine, payload, signedHeader(t, payload))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Server error", w.Body.String())
		assert.Empty(t, applier.events)
	})
}

func TestWebhookHandler_ReplayIsIdempotent(t *testing.T) {
	applier := &recordingApplier{}
	engine := newWebhookEngine(NewWebhookHandler(stripeadapter.NewWebhookVerifier(webhookSecret), applier, webhookCfg))
	header := signedHeader(t, piSucceeded)

	first := deliver(engine, piSucceeded, header)
	second := deliver(engine, piSucceeded, header)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	require.Len(t, applier.events, 2)
	a, _ := json.Marshal(applier.events[0])
	b, _ := json.Marshal(applier.events[1])
	assert.JSONEq(t, string(a), string(b))
}
