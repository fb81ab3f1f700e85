// Package stripe adapts the Stripe SDK to the checkout and order domains.
package stripe

import (
	"context"
	"fmt"
	"net/http"

	"PaymentIntake/internal/controller/apperror"
	"PaymentIntake/internal/domain/checkout"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

type Client struct {
	api *client.API
}

type Option func(*stripego.BackendConfig)

// WithAPIURL points the client at another API host, e.g. stripe-mock.
func WithAPIURL(url string) Option {
	return func(c *stripego.BackendConfig) {
		if url != "" {
			c.URL = stripego.String(url)
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *stripego.BackendConfig) {
		c.HTTPClient = httpClient
	}
}

func WithMaxNetworkRetries(n int64) Option {
	return func(c *stripego.BackendConfig) {
		c.MaxNetworkRetries = stripego.Int64(n)
	}
}

func NewClient(secretKey string, opts ...Option) (*Client, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("%w: STRIPE_SECRET_KEY", apperror.ErrConfigMissing)
	}

	cfg := &stripego.BackendConfig{
		LeveledLogger: &stripego.LeveledLogger{Level: stripego.LevelError},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	api := client.New(secretKey, &stripego.Backends{
		API: stripego.GetBackendWithConfig(stripego.APIBackend, cfg),
	})
	return &Client{api: api}, nil
}

// CreateCheckoutSession opens a payment-mode hosted checkout session with a
// single ad-hoc priced line item.
func (c *Client) CreateCheckoutSession(ctx context.Context, p checkout.SessionParams) (checkout.Session, error) {
	params := &stripego.CheckoutSessionParams{
		Mode:              stripego.String(string(stripego.CheckoutSessionModePayment)),
		ClientReferenceID: stripego.String(p.ClientReferenceID),
		SuccessURL:        stripego.String(p.SuccessURL),
		CancelURL:         stripego.String(p.CancelURL),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripego.String(p.LineItem.Currency),
					UnitAmount: stripego.Int64(p.LineItem.UnitAmount),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripego.String(p.LineItem.Name),
					},
				},
				Quantity: stripego.Int64(p.LineItem.Quantity),
			},
		},
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return checkout.Session{}, providerError(err)
	}

	return checkout.Session{ID: s.ID, URL: s.URL}, nil
}
