package middleware

import (
	"net/http"
	"strings"

	"github.com/brazzaeats/brazzaeats-backend/api/responses"
	pkgAuth "github.com/brazzaeats/brazzaeats-backend/pkg/auth"
	"github.com/brazzaeats/brazzaeats-backend/pkg/config"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
)

// SessionHeader carries the session token for clients that cannot set Authorization.
const SessionHeader = "X-BE-Session"

// Session validates the session token and seeds the request context with the
// session id. Whether the session still exists is decided by the session
// manager on first use.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token"))
				return
			}

			claims, err := pkgAuth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			ctx := WithSessionID(r.Context(), claims.SessionID())
			if logg != nil {
				ctx = logg.WithSessionID(ctx, claims.SessionID())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		if token := strings.TrimSpace(raw[7:]); token != "" {
			return token
		}
	}
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}
