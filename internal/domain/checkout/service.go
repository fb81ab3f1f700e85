package checkout

import (
	"context"
	"fmt"
	"strings"

	"PaymentIntake/internal/controller/apperror"
	"PaymentIntake/internal/domain/catalog"

	"github.com/google/uuid"
)

// Metadata keys written onto every session and read back by the webhook.
const (
	MetadataUserID = "user_id"
	MetadataApp    = "app"

	// Sessions opened by earlier deployments carry the user under this key.
	LegacyMetadataUserID = "supabase_user_id"
)

type Config struct {
	Catalog    catalog.Catalog
	SuccessURL string
	CancelURL  string
	AppTag     string
}

type Request struct {
	PriceID           string
	ClientReferenceID *string
	// Authorization is the raw Authorization header, if any.
	Authorization string
}

type Result struct {
	SessionID         string
	URL               string
	ClientReferenceID string
}

type Service struct {
	provider SessionProvider
	cfg      Config
	newID    func() string
}

func NewService(provider SessionProvider, cfg Config) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		newID:    uuid.NewString,
	}
}

func (s *Service) CreateSession(ctx context.Context, req Request) (Result, error) {
	if s.provider == nil {
		return Result{}, fmt.Errorf("%w: payment provider client", apperror.ErrConfigMissing)
	}

	entry, ok := s.cfg.Catalog.Lookup(req.PriceID)
	if !ok {
		return Result{}, apperror.ErrInvalidSelector
	}

	userID := ""
	if sub := UnverifiedSubject(req.Authorization); sub != nil {
		userID = *sub
	}

	clientRef := s.newID()
	if req.ClientReferenceID != nil && strings.TrimSpace(*req.ClientReferenceID) != "" {
		clientRef = *req.ClientReferenceID
	}

	params := SessionParams{
		LineItem: LineItem{
			Name:       entry.DisplayName(req.PriceID),
			UnitAmount: entry.Amount,
			Currency:   entry.Currency,
			Quantity:   1,
		},
		ClientReferenceID: clientRef,
		Metadata: map[string]string{
			MetadataUserID: userID,
			MetadataApp:    s.cfg.AppTag,
		},
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
	}

	session, err := s.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("create checkout session: %w", err)
	}

	return Result{
		SessionID:         session.ID,
		URL:               session.URL,
		ClientReferenceID: clientRef,
	}, nil
}
