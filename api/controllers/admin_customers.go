package controllers

import (
	"net/http"

	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/api/validators"
	"github.com/lcorp/storefront/internal/customers"
	"github.com/lcorp/storefront/pkg/logger"
)

// AdminCustomers lists customers; ?q= matches name, email, phone or username.
func AdminCustomers(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), 100)
		list, err := svc.ListCustomers(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return byID("customerID", logg, svc.GetCustomer)
}
