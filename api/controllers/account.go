package controllers

import (
	"context"
	"net/http"

	"github.com/lcorp/storefront/api/middleware"
	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/api/validators"
	"github.com/lcorp/storefront/internal/customers"
	"github.com/lcorp/storefront/internal/orders"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/lcorp/storefront/pkg/pagination"
)

type transactionReader interface {
	TransactionHistory(ctx context.Context, userID int, page pagination.Params) (pagination.Page[orders.Transaction], error)
	Transaction(ctx context.Context, userID, orderID int) (*orders.TransactionDetail, error)
}

type settingsService interface {
	Settings(ctx context.Context, userID int) (*customers.Settings, error)
	UpdateProfile(ctx context.Context, userID int, input models.ProfileUpdate) (*models.UserProfile, error)
	ChangeUsername(ctx context.Context, sessionID string, userID int, input models.UsernameUpdate) (*models.ActionResult, error)
	ChangePassword(ctx context.Context, userID int, input models.PasswordChange) (*models.ActionResult, error)
}

// TransactionHistory lists the logged-in customer's orders, newest first.
func TransactionHistory(svc transactionReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessionUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.TransactionHistory(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func TransactionDetail(svc transactionReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessionUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Transaction(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func SettingsGet(svc settingsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessionUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		settings, err := svc.Settings(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

func SettingsUpdateProfile(svc settingsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessionUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input models.ProfileUpdate
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.UpdateProfile(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// SettingsChangeUsername also rewrites the username held by the session.
func SettingsChangeUsername(svc settingsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessionUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input models.UsernameUpdate
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ChangeUsername(r.Context(), middleware.SessionIDFromContext(r.Context()), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SettingsChangePassword(svc settingsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := sessionUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input models.PasswordChange
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ChangePassword(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func sessionUserID(r *http.Request) (int, error) {
	uid := middleware.UserIDFromContext(r.Context())
	if uid == nil {
		return 0, pkgerrors.New(pkgerrors.CodeForbidden, "session has no user account")
	}
	return *uid, nil
}
