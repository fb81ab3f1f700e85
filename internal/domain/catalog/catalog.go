// Package catalog holds the server-trusted price list. Amounts and
// currencies only ever come from here, never from a client request.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrEmptyCatalog = errors.New("price catalog is empty")

// Entry is a single purchasable tier. Amount is in minor currency units.
type Entry struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Name     string `json:"name,omitempty"`
}

// DisplayName returns the product name shown on the hosted checkout page,
// falling back to the selector itself.
func (e Entry) DisplayName(selector string) string {
	if e.Name != "" {
		return e.Name
	}
	return selector
}

// Catalog maps an opaque price selector to its entry.
type Catalog map[string]Entry

// Default is the two-tier example catalog used when none is configured.
func Default() Catalog {
	return Catalog{
		"price_basic": {Amount: 500, Currency: "usd", Name: "Basic"},
		"price_pro":   {Amount: 1500, Currency: "usd", Name: "Pro"},
	}
}

func Parse(raw []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode price catalog: %w", err)
	}
	for selector, entry := range c {
		entry.Currency = strings.ToLower(strings.TrimSpace(entry.Currency))
		c[selector] = entry
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	for _, selector := range c.Selectors() {
		entry := c[selector]
		if strings.TrimSpace(selector) == "" {
			return errors.New("price catalog contains an empty selector")
		}
		if entry.Amount <= 0 {
			return fmt.Errorf("price %q: amount must be positive, got %d", selector, entry.Amount)
		}
		if len(entry.Currency) != 3 {
			return fmt.Errorf("price %q: invalid currency %q", selector, entry.Currency)
		}
	}
	return nil
}

func (c Catalog) Lookup(selector string) (Entry, bool) {
	entry, ok := c[selector]
	return entry, ok
}

// Selectors returns the catalog keys in sorted order.
func (c Catalog) Selectors() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
