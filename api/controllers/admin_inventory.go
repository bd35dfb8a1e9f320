package controllers

import (
	"context"
	"net/http"

	"github.com/lcorp/storefront/api/middleware"
	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/api/validators"
	"github.com/lcorp/storefront/internal/inventory"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
)

type employeeResolver interface {
	EmployeeByUserID(ctx context.Context, userID int) (*models.Employee, error)
}

type reorderRequest struct {
	Quantities map[int]int `json:"quantities"`
}

func AdminProducts(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func AdminCreateProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.ProductCreate
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input models.ProductUpdate
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AdminLowStock(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func AdminActiveSuppliers(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suppliers, err := svc.ActiveSuppliers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suppliers)
	}
}

// AdminReorder places one supplier order. The acting admin's employee record
// is attached when the body does not name one.
func AdminReorder(svc inventory.Service, employees employeeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.SupplierOrderCreate
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.EmployeeID == nil {
			employeeID, err := actingEmployee(r, employees, logg)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.EmployeeID = employeeID
		}
		order, err := svc.Reorder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// AdminReorderPlan previews the bulk reorder for the low-stock products.
func AdminReorderPlan(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reorderRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSON(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		plan, err := svc.PlanReorder(r.Context(), payload.Quantities)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

func AdminBulkReorder(svc inventory.Service, employees employeeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reorderRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSON(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		employeeID, err := actingEmployee(r, employees, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.SubmitBulkReorder(r.Context(), payload.Quantities, employeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// actingEmployee maps the admin's user id to an employee id. Admin accounts
// without an employee row place orders anonymously.
func actingEmployee(r *http.Request, employees employeeResolver, logg *logger.Logger) (*int, error) {
	uid := middleware.UserIDFromContext(r.Context())
	if uid == nil || employees == nil {
		return nil, nil
	}
	employee, err := employees.EmployeeByUserID(r.Context(), *uid)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		if logg != nil {
			logg.Warn(r.Context(), "no employee record for admin user")
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee.ID, nil
}
