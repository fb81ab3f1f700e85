package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"PaymentIntake/internal/controller/apperror"
	"PaymentIntake/internal/domain/order"
	"PaymentIntake/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Stripe caps event payloads well below this.
const maxWebhookBody = 1 << 20

const signatureHeader = "Stripe-Signature"

type EventVerifier interface {
	Verify(payload []byte, header string) (order.Event, error)
}

type OrderApplier interface {
	Apply(ctx context.Context, evt order.Event) (*order.Order, error)
}

type WebhookConfig struct {
	StripeSecretKey     string
	StripeWebhookSecret string
}

type WebhookHandler struct {
	verifier EventVerifier
	orders   OrderApplier
	cfg      WebhookConfig
}

func NewWebhookHandler(verifier EventVerifier, orders OrderApplier, cfg WebhookConfig) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, orders: orders, cfg: cfg}
}

// Receive verifies and applies one provider notification. Storage failures
// are logged and still acknowledged.
func (h *WebhookHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	sig := c.GetHeader(signatureHeader)
	if sig == "" || h.cfg.StripeWebhookSecret == "" || h.cfg.StripeSecretKey == "" {
		c.String(http.StatusInternalServerError, "Missing Stripe config")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "unreadable").Inc()
		c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
		return
	}

	evt, err := h.verifier.Verify(payload, sig)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrSignatureInvalid):
			metrics.WebhookEventsTotal.WithLabelValues("unknown", "invalid_signature").Inc()
			slog.WarnContext(ctx, "webhook signature verification failed", "error", err)
			c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
		case errors.Is(err, apperror.ErrConfigMissing):
			c.String(http.StatusInternalServerError, "Missing Stripe config")
		default:
			metrics.WebhookEventsTotal.WithLabelValues("unknown", "malformed").Inc()
			slog.ErrorContext(ctx, "webhook handler error", "error", err)
			c.String(http.StatusInternalServerError, "Server error")
		}
		return
	}

	if _, ignored := evt.(order.Ignored); ignored {
		metrics.WebhookEventsTotal.WithLabelValues(evt.EventType(), "ignored").Inc()
		slog.DebugContext(ctx, "webhook event ignored", "event_id", evt.EventID(), "type", evt.EventType())
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	saved, err := h.orders.Apply(ctx, evt)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(evt.EventType(), "storage_error").Inc()
		slog.ErrorContext(ctx, "order upsert failed",
			"event_id", evt.EventID(), "type", evt.EventType(), "error", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(evt.EventType(), "applied").Inc()
	if saved != nil {
		slog.InfoContext(ctx, "order upserted",
			"event_id", evt.EventID(), "type", evt.EventType(), "order_id", saved.ID, "status", saved.Status)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
