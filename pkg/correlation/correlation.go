// Package correlation carries a request correlation id through contexts,
// HTTP headers and Kafka headers.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName is used both on HTTP requests and on published Kafka messages.
const HeaderName = "X-Correlation-ID"

const KafkaHeaderName = HeaderName

const maxIDLength = 128

type contextKey struct{}

// FromContext returns "" when no id is set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func NewID() string {
	return uuid.New().String()
}

// Resolve keeps a caller supplied id when it is safe to echo into headers
// and logs, and mints a new one otherwise.
func Resolve(incoming string) string {
	if valid(incoming) {
		return incoming
	}
	return NewID()
}

func valid(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == ':':
		default:
			return false
		}
	}
	return true
}
