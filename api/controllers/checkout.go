package controllers

import (
	"context"
	"net/http"

	"github.com/lcorp/storefront/api/middleware"
	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/api/validators"
	"github.com/lcorp/storefront/internal/checkout"
	"github.com/lcorp/storefront/pkg/logger"
)

// CheckoutService is implemented by *checkout.Service.
type CheckoutService interface {
	BuyNow(ctx context.Context, sessionID string, productID int) (*checkout.Staged, error)
	StageFromCart(ctx context.Context, sessionID string) (*checkout.Staged, error)
	Staged(ctx context.Context, sessionID string) (*checkout.Staged, error)
	Cancel(ctx context.Context, sessionID string) error
	Submit(ctx context.Context, sessionID string, userID *int, form checkout.Form) (*checkout.Receipt, error)
}

type buyNowRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

// CheckoutBuyNow stages a single product without touching the cart.
func CheckoutBuyNow(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload buyNowRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		staged, err := svc.BuyNow(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, staged)
	}
}

// CheckoutFromCart stages the selected cart lines.
func CheckoutFromCart(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staged, err := svc.StageFromCart(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, staged)
	}
}

func CheckoutStaged(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staged, err := svc.Staged(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, staged)
	}
}

func CheckoutCancel(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Cancel(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CheckoutSubmit runs the order sequence for the staged items. A failure
// body carries the failed step and any ids already created.
func CheckoutSubmit(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form checkout.Form
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		receipt, err := svc.Submit(ctx, middleware.SessionIDFromContext(ctx), middleware.UserIDFromContext(ctx), form)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}
