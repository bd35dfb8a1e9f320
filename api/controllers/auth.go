package controllers

import (
	"context"
	"net/http"

	"github.com/lcorp/storefront/api/middleware"
	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/api/validators"
	"github.com/lcorp/storefront/internal/session"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
)

// SessionService is the slice of session.Manager the auth routes use.
type SessionService interface {
	Login(ctx context.Context, sessionID string, in session.LoginInput) (*session.Info, error)
	Register(ctx context.Context, in models.CustomerRegister) (*models.CustomerRegisterResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Describe(ctx context.Context, sessionID string) (*session.Info, error)
}

// AuthLogin signs the session in. The body may name the admin portal, in
// which case non-admin accounts are refused.
func AuthLogin(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in session.LoginInput
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		info, err := svc.Login(r.Context(), middleware.SessionIDFromContext(r.Context()), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

func AuthRegister(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.CustomerRegister
		if err := validators.DecodeJSONBody(r, &in); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Register(r.Context(), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AuthLogout(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := middleware.SessionIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), sid); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Info{SessionID: sid})
	}
}

// AuthSession reports who the session belongs to, if anyone.
func AuthSession(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Describe(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}
