package controllers

import (
	"context"
	"net/http"

	"github.com/lcorp/storefront/api/middleware"
	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/api/validators"
	"github.com/lcorp/storefront/internal/cart"
	"github.com/lcorp/storefront/pkg/logger"
)

// CartService is implemented by *cart.Service.
type CartService interface {
	View(ctx context.Context, sessionID string) (*cart.View, error)
	Add(ctx context.Context, sessionID string, productID int) (*cart.View, error)
	Remove(ctx context.Context, sessionID string, productID int) (*cart.View, error)
	RemoveItems(ctx context.Context, sessionID string, productIDs []int) (*cart.View, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int) (*cart.View, error)
	Clear(ctx context.Context, sessionID string) (*cart.View, error)
	ToggleSelected(ctx context.Context, sessionID string, productID int) (*cart.View, error)
	ToggleSelectAll(ctx context.Context, sessionID string) (*cart.View, error)
}

type addToCartRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type removeItemsRequest struct {
	ProductIDs []int `json:"product_ids" validate:"required,min=1,dive,gt=0"`
}

func CartView(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.View(r.Context(), middleware.SessionIDFromContext(r.Context()))
		writeView(w, r, logg, view, err)
	}
}

func CartAdd(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Add(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.ProductID)
		writeView(w, r, logg, view, err)
	}
}

// CartUpdateQuantity sets a line's quantity; zero or less removes the line.
func CartUpdateQuantity(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), id, *payload.Quantity)
		writeView(w, r, logg, view, err)
	}
}

func CartRemove(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Remove(r.Context(), middleware.SessionIDFromContext(r.Context()), id)
		writeView(w, r, logg, view, err)
	}
}

func CartRemoveItems(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload removeItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemoveItems(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.ProductIDs)
		writeView(w, r, logg, view, err)
	}
}

func CartClear(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context()))
		writeView(w, r, logg, view, err)
	}
}

func CartToggleSelected(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ToggleSelected(r.Context(), middleware.SessionIDFromContext(r.Context()), id)
		writeView(w, r, logg, view, err)
	}
}

func CartToggleSelectAll(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.ToggleSelectAll(r.Context(), middleware.SessionIDFromContext(r.Context()))
		writeView(w, r, logg, view, err)
	}
}

func writeView(w http.ResponseWriter, r *http.Request, logg *logger.Logger, view *cart.View, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}
