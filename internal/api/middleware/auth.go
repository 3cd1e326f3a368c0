package middleware

import (
	"net/http"
	"strings"

	"github.com/loglens/loglens/internal/api/response"
	"github.com/loglens/loglens/internal/token"
)

// Auth verifies bearer session tokens and binds the request to the package
// name embedded in the token.
type Auth struct {
	tokens *token.Service
}

// NewAuth creates a new Auth middleware.
func NewAuth(tokens *token.Service) *Auth {
	return &Auth{tokens: tokens}
}

// Authenticate validates the Bearer token and sets the verified package name
// in the request context. The package name from the token is authoritative
// for everything downstream; handlers never trust a name from the body.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := ExtractBearerToken(r)
		if raw == "" {
			response.Error(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}

		packageName, err := a.tokens.Verify(raw)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(SetPackageName(r.Context(), packageName)))
	})
}

// ExtractBearerToken returns the token from an "Authorization: Bearer" header,
// or "" if the header is missing or malformed.
func ExtractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
