package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"price_basic", "price_pro"}, c.Selectors())

	basic, ok := c.Lookup("price_basic")
	require.True(t, ok)
	assert.Equal(t, Entry{Amount: 500, Currency: "usd", Name: "Basic"}, basic)
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    Catalog
		expectedErr string
	}{
		{
			name: "should parse entries and normalize currency",
			raw:  `{"gold": {"amount": 2500, "currency": "EUR", "name": "Gold"}, "lite": {"amount": 100, "currency": "usd"}}`,
			expected: Catalog{
				"gold": {Amount: 2500, Currency: "eur", Name: "Gold"},
				"lite": {Amount: 100, Currency: "usd"},
			},
		},
		{
			name:        "should reject malformed json",
			raw:         `{"gold":`,
			expectedErr: "decode price catalog",
		},
		{
			name:        "should reject empty catalog",
			raw:         `{}`,
			expectedErr: ErrEmptyCatalog.Error(),
		},
		{
			name:        "should reject non-positive amount",
			raw:         `{"free": {"amount": 0, "currency": "usd"}}`,
			expectedErr: `price "free": amount must be positive`,
		},
		{
			name:        "should reject invalid currency",
			raw:         `{"gold": {"amount": 10, "currency": "dollars"}}`,
			expectedErr: `price "gold": invalid currency`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Parse([]byte(tc.raw))

			if tc.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, c)
		})
	}
}

func TestEntry_DisplayName(t *testing.T) {
	assert.Equal(t, "Gold", Entry{Name: "Gold"}.DisplayName("price_gold"))
	assert.Equal(t, "price_gold", Entry{}.DisplayName("price_gold"))
}
