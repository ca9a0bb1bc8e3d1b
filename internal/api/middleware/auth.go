package middleware

import (
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agenda-app/server/internal/api/problem"
	"github.com/agenda-app/server/internal/auth"
)

// TokenValidator is satisfied by *auth.JWTManager.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// RequireUser rejects requests without a valid bearer token and stores
// the token's user id on the request context.
func RequireUser(validator TokenValidator, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(validator, r)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="agenda"`)
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, env,
					problem.WithDetail(unauthorizedDetail(err)))
				return
			}

			trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int64("enduser.id", userID))
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func authenticate(validator TokenValidator, r *http.Request) (int64, error) {
	if validator == nil {
		return 0, errors.New("token validator not configured")
	}
	token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return 0, err
	}
	claims, err := validator.Validate(token)
	if err != nil {
		return 0, err
	}
	return claims.User()
}

func unauthorizedDetail(err error) string {
	if errors.Is(err, auth.ErrMissingToken) {
		return "missing bearer token"
	}
	return "invalid or expired token"
}
