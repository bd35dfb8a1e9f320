package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/lcorp/storefront/api/middleware"
	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/api/validators"
	"github.com/lcorp/storefront/internal/orders"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/logger"
)

type assignRequest struct {
	EmployeeID int `json:"employee_id" validate:"required,gt=0"`
}

func listFilter(r *http.Request) (orders.ListFilter, error) {
	page, err := validators.ParsePage(r)
	if err != nil {
		return orders.ListFilter{}, err
	}
	q := r.URL.Query()
	return orders.ListFilter{
		Status:     strings.TrimSpace(q.Get("status")),
		Assignment: strings.TrimSpace(q.Get("assignment")),
		Page:       page,
	}, nil
}

// byID parses the named route id and writes whatever fn returns.
func byID[T any](key string, logg *logger.Logger, fn func(ctx context.Context, id int) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := fn(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func AdminSupplierOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListSupplierOrders(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminPendingSupplierOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.PendingSupplierOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminSupplierOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID("orderID", logg, svc.GetSupplierOrder)
}

func AdminArriveSupplierOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID("orderID", logg, svc.ArriveSupplierOrder)
}

func AdminCompleteSupplierOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID("orderID", logg, svc.CompleteSupplierOrder)
}

func AdminCancelSupplierOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.CancelSupplierOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminCustomerOrders lists customer orders filtered by ?status= and
// ?assignment=all|assigned|unassigned.
func AdminCustomerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListCustomerOrders(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminPendingCustomerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.PendingCustomerOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminCustomerOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID("orderID", logg, svc.GetCustomerOrder)
}

func AdminProcessCustomerOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID("orderID", logg, svc.ProcessCustomerOrder)
}

func AdminCompleteCustomerOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID("orderID", logg, svc.CompleteCustomerOrder)
}

func AdminCancelCustomerOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID("orderID", logg, svc.CancelCustomerOrder)
}

func AdminOrderPayments(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return byID("orderID", logg, svc.OrderPayments)
}

func AdminAssignEmployee(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload assignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.AssignEmployee(r.Context(), id, payload.EmployeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminAssignToSelf assigns the order to the acting admin's employee record.
func AdminAssignToSelf(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		uid := middleware.UserIDFromContext(r.Context())
		if uid == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "session has no user account"))
			return
		}
		result, err := svc.AssignToSelf(r.Context(), id, *uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminPayments(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListPayments(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
