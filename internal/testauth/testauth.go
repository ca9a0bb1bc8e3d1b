// Package testauth mints bearer tokens for tests and local tooling.
// Never wire it into the production server.
package testauth

import (
	"net/http"
	"time"

	"github.com/agenda-app/server/internal/auth"
)

const (
	Secret = "agenda-test-secret-0123456789abcdef"
	Issuer = "agenda-test"
)

func Manager() *auth.JWTManager {
	return auth.NewJWTManager(Secret, time.Hour, Issuer)
}

// Token signs a token for userID with the test secret and panics on failure.
func Token(userID int64) string {
	token, err := Manager().Generate(userID)
	if err != nil {
		panic("testauth: " + err.Error())
	}
	return token
}

// Authorize sets a bearer header for userID on req and returns it.
func Authorize(req *http.Request, userID int64) *http.Request {
	req.Header.Set("Authorization", "Bearer "+Token(userID))
	return req
}
