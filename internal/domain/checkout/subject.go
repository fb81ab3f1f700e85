package checkout

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// UnverifiedSubject reads the "sub" claim of a bearer token WITHOUT checking
// its signature, expiry or issuer. The value is only copied into session
// metadata so a paid order can be linked back to a user later. Never use it
// to make an access decision: anyone can mint a token carrying any subject.
//
// Returns nil for a missing header, a malformed token or an absent claim.
func UnverifiedSubject(authorization string) *string {
	token := strings.TrimSpace(authorization)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" || strings.Count(token, ".") != 2 {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil
	}
	return &sub
}
