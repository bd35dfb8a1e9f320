package middleware

import (
	"context"
	"net/http"

	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/internal/session"
	"github.com/lcorp/storefront/pkg/enums"
	"github.com/lcorp/storefront/pkg/logger"
)

type authorizer interface {
	Authorize(ctx context.Context, sessionID string, role enums.Role) (session.Session, error)
}

// RequireRole admits only sessions logged in as role with a live token.
// Rejections answer 401 with the role's login path as the redirect detail.
func RequireRole(auth authorizer, role enums.Role, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			s, err := auth.Authorize(ctx, SessionIDFromContext(ctx), role)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			ctx = WithSession(ctx, s)
			if logg != nil {
				ctx = logg.WithActorRole(ctx, string(s.Role))
				if uid := s.UserIDString(); uid != "" {
					ctx = logg.WithUserID(ctx, uid)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
