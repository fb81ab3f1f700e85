package checkout

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"PaymentIntake/internal/controller/apperror"
	"PaymentIntake/internal/domain/catalog"
	"PaymentIntake/pkg/pointers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig() Config {
	return Config{
		Catalog: catalog.Catalog{
			"price_basic": {Amount: 500, Currency: "usd", Name: "Basic"},
			"price_raw":   {Amount: 999, Currency: "eur"},
		},
		SuccessURL: "https://shop.test/success",
		CancelURL:  "https://shop.test/cancel",
		AppTag:     "intake_test",
	}
}

func checkoutService(t *testing.T) (*Service, *MockSessionProvider) {
	t.Helper()

	provider := NewMockSessionProvider(gomock.NewController(t))
	return NewService(provider, testConfig()), provider
}

func unsignedToken(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + ".c2ln"
}

func TestService_CreateSession(t *testing.T) {
	t.Parallel()

	t.Run("should reject unknown price id without calling provider", func(t *testing.T) {
		// given
		service, _ := checkoutService(t)

		for _, priceID := range []string{"", "price_gold", "PRICE_BASIC", "price_basic "} {
			// when
			_, err := service.CreateSession(context.Background(), Request{PriceID: priceID})

			// then
			assert.ErrorIs(t, err, apperror.ErrInvalidSelector, priceID)
		}
	})

	t.Run("should take amount and currency from catalog only", func(t *testing.T) {
		// given
		service, provider := checkoutService(t)
		ctx := context.Background()

		provider.EXPECT().
			CreateCheckoutSession(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, params SessionParams) (Session, error) {
				assert.Equal(t, LineItem{Name: "Basic", UnitAmount: 500, Currency: "usd", Quantity: 1}, params.LineItem)
				assert.Equal(t, "https://shop.test/success", params.SuccessURL)
				assert.Equal(t, "https://shop.test/cancel", params.CancelURL)
				assert.Equal(t, "intake_test", params.Metadata[MetadataApp])
				return Session{ID: "cs_1", URL: "https://checkout.test/cs_1"}, nil
			})

		// when
		res, err := service.CreateSession(ctx, Request{PriceID: "price_basic"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.test/cs_1", res.URL)
		assert.Equal(t, "cs_1", res.SessionID)
	})

	t.Run("should fall back to selector as product name", func(t *testing.T) {
		// given
		service, provider := checkoutService(t)

		provider.EXPECT().
			CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params SessionParams) (Session, error) {
				assert.Equal(t, LineItem{Name: "price_raw", UnitAmount: 999, Currency: "eur", Quantity: 1}, params.LineItem)
				return Session{URL: "https://checkout.test/raw"}, nil
			})

		// when
		_, err := service.CreateSession(context.Background(), Request{PriceID: "price_raw"})

		// then
		require.NoError(t, err)
	})

	t.Run("should pass client reference id through unchanged", func(t *testing.T) {
		// given
		service, provider := checkoutService(t)

		provider.EXPECT().
			CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params SessionParams) (Session, error) {
				assert.Equal(t, "cart-42", params.ClientReferenceID)
				return Session{URL: "u"}, nil
			})

		// when
		res, err := service.CreateSession(context.Background(), Request{
			PriceID:           "price_basic",
			ClientReferenceID: pointers.Ptr("cart-42"),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "cart-42", res.ClientReferenceID)
	})

	t.Run("should generate a fresh client reference id per call", func(t *testing.T) {
		// given
		service, provider := checkoutService(t)

		var seen []string
		provider.EXPECT().
			CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params SessionParams) (Session, error) {
				seen = append(seen, params.ClientReferenceID)
				return Session{URL: "u"}, nil
			}).
			Times(3)

		// when
		for range 3 {
			_, err := service.CreateSession(context.Background(), Request{PriceID: "price_basic"})
			require.NoError(t, err)
		}

		// then
		require.Len(t, seen, 3)
		for _, id := range seen {
			assert.NotEmpty(t, id)
		}
		assert.NotEqual(t, seen[0], seen[1])
		assert.NotEqual(t, seen[1], seen[2])
		assert.NotEqual(t, seen[0], seen[2])
	})

	t.Run("should link user from bearer subject", func(t *testing.T) {
		// given
		service, provider := checkoutService(t)

		provider.EXPECT().
			CreateCheckoutSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params SessionParams) (Session, error) {
				assert.Equal(t, "user-7", params.Metadata[MetadataUserID])
				return Session{URL: "u"}, nil
			})

		// when
		_, err := service.CreateSession(context.Background(), Request{
			PriceID:       "price_basic",
			Authorization: "Bearer " + unsignedToken(`{"sub":"user-7"}`),
		})

		// then
		require.NoError(t, err)
	})

	t.Run("should wrap provider errors", func(t *testing.T) {
		// given
		service, provider := checkoutService(t)
		providerErr := errors.New("card_declined")

		provider.EXPECT().
			CreateCheckoutSession(gomock.Any(), gomock.Any()).
			Return(Session{}, providerErr)

		// when
		_, err := service.CreateSession(context.Background(), Request{PriceID: "price_basic"})

		// then
		assert.ErrorIs(t, err, providerErr)
		assert.EqualError(t, err, "create checkout session: card_declined")
	})

	t.Run("should report missing provider as config error", func(t *testing.T) {
		// given
		service := NewService(nil, testConfig())

		// when
		_, err := service.CreateSession(context.Background(), Request{PriceID: "price_basic"})

		// then
		assert.ErrorIs(t, err, apperror.ErrConfigMissing)
	})
}

func TestUnverifiedSubject(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected *string
	}{
		{name: "empty header", header: "", expected: nil},
		{name: "bearer with subject", header: "Bearer " + unsignedToken(`{"sub":"abc"}`), expected: pointers.Ptr("abc")},
		{name: "lowercase scheme", header: "bearer " + unsignedToken(`{"sub":"abc"}`), expected: pointers.Ptr("abc")},
		{name: "token without scheme", header: unsignedToken(`{"sub":"abc"}`), expected: pointers.Ptr("abc")},
		{name: "missing sub claim", header: "Bearer " + unsignedToken(`{"role":"anon"}`), expected: nil},
		{name: "payload is not json", header: "Bearer " + unsignedToken(`not-json`), expected: nil},
		{name: "two segments", header: "Bearer a.b", expected: nil},
		{name: "garbage segments", header: "Bearer !!.??.##", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, UnverifiedSubject(tc.header))
		})
	}
}
