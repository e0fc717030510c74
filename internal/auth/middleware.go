package auth

import (
	"context"
	"net/http"
)

type contextKey struct{}

var sessionKey contextKey

// SessionFromContext returns the session placed by RequireRole, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}

// RequireRole rejects requests without a valid session (401) or whose role
// is not in the allowed set (403). The verified session is stored on the
// request context.
func (m *SessionManager) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	allowed := map[Role]bool{}
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := m.FromRequest(r)
			if err != nil {
				deny(w, http.StatusUnauthorized,
					`{"error":"authentication required","code":"unauthenticated"}`)
				return
			}

			if !allowed[session.Role] {
				deny(w, http.StatusForbidden,
					`{"error":"insufficient role","code":"permission_denied"}`)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
