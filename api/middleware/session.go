package middleware

import (
	"net/http"
	"strings"

	"github.com/lcorp/storefront/internal/session"
	"github.com/lcorp/storefront/pkg/logger"
)

// SessionHeader carries the browser session id in both directions.
const SessionHeader = "X-Storefront-Session"

// Session resolves the caller's session id. A missing or malformed header
// gets a fresh id, which is echoed back so the client can keep it.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := strings.TrimSpace(r.Header.Get(SessionHeader))
			if !session.ValidID(sid) {
				sid = session.NewID()
			}
			w.Header().Set(SessionHeader, sid)

			ctx := WithSessionID(r.Context(), sid)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sid)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
