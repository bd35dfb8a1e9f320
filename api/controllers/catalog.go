package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/api/validators"
	"github.com/lcorp/storefront/internal/inventory"
	"github.com/lcorp/storefront/pkg/logger"
)

type catalogReader interface {
	ListProducts(ctx context.Context) ([]inventory.ProductDTO, error)
	GetProduct(ctx context.Context, id int) (*inventory.ProductDTO, error)
}

// CatalogProducts lists products, optionally narrowed by ?q= on name or
// category.
func CatalogProducts(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := strings.ToLower(validators.SanitizeString(r.URL.Query().Get("q"), 100))
		if q != "" {
			filtered := make([]inventory.ProductDTO, 0, len(products))
			for _, p := range products {
				if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
					filtered = append(filtered, p)
				}
			}
			products = filtered
		}
		responses.WriteSuccess(w, products)
	}
}

func CatalogProduct(svc catalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
