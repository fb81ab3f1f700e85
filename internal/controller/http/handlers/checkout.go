package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"PaymentIntake/internal/controller/apperror"
	"PaymentIntake/internal/domain/checkout"
	"PaymentIntake/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type SessionCreator interface {
	CreateSession(ctx context.Context, req checkout.Request) (checkout.Result, error)
}

type CheckoutConfig struct {
	StripeSecretKey string
}

type CheckoutHandler struct {
	service SessionCreator
	cfg     CheckoutConfig
}

func NewCheckoutHandler(service SessionCreator, cfg CheckoutConfig) *CheckoutHandler {
	return &CheckoutHandler{service: service, cfg: cfg}
}

type createSessionRequest struct {
	PriceID           string  `json:"price_id"`
	ClientReferenceID *string `json:"client_reference_id"`
}

func (h *CheckoutHandler) Create(c *gin.Context) {
	if h.cfg.StripeSecretKey == "" || h.service == nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("config_missing").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing STRIPE_SECRET_KEY"})
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.CreateSession(c.Request.Context(), checkout.Request{
		PriceID:           req.PriceID,
		ClientReferenceID: req.ClientReferenceID,
		Authorization:     c.GetHeader("Authorization"),
	})
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidSelector) {
			metrics.CheckoutSessionsTotal.WithLabelValues("invalid_price").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": apperror.ErrInvalidSelector.Error()})
			return
		}
		metrics.CheckoutSessionsTotal.WithLabelValues("error").Inc()
		slog.ErrorContext(c.Request.Context(), "create checkout session failed",
			"price_id", req.PriceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	slog.InfoContext(c.Request.Context(), "checkout session created",
		"session_id", res.SessionID, "client_reference_id", res.ClientReferenceID)
	c.JSON(http.StatusOK, gin.H{"url": res.URL})
}
