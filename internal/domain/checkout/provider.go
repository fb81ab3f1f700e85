package checkout

import "context"

//go:generate mockgen -source=provider.go -destination=mock_provider.go -package=checkout

// SessionProvider opens hosted checkout sessions at the payment provider.
type SessionProvider interface {
	CreateCheckoutSession(ctx context.Context, params SessionParams) (Session, error)
}

// LineItem is a single ad-hoc priced item. UnitAmount is in minor units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Currency   string
	Quantity   int64
}

type SessionParams struct {
	LineItem          LineItem
	ClientReferenceID string
	Metadata          map[string]string
	SuccessURL        string
	CancelURL         string
}

type Session struct {
	ID  string
	URL string
}
