package controllers

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/lcorp/storefront/api/responses"
	"github.com/lcorp/storefront/internal/inventory"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
)

type pendingOrders interface {
	PendingCustomerOrders(ctx context.Context) ([]models.CustomerOrder, error)
	PendingSupplierOrders(ctx context.Context) ([]models.SupplierOrder, error)
}

type inventorySummary interface {
	Summary(ctx context.Context) (*inventory.Summary, error)
}

type dashboard struct {
	Inventory             *inventory.Summary `json:"inventory"`
	PendingCustomerOrders int                `json:"pending_customer_orders"`
	PendingSupplierOrders int                `json:"pending_supplier_orders"`
}

// AdminDashboard gathers the landing page counters concurrently.
func AdminDashboard(inv inventorySummary, ord pendingOrders, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var out dashboard
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			summary, err := inv.Summary(ctx)
			out.Inventory = summary
			return err
		})
		g.Go(func() error {
			list, err := ord.PendingCustomerOrders(ctx)
			out.PendingCustomerOrders = len(list)
			return err
		})
		g.Go(func() error {
			list, err := ord.PendingSupplierOrders(ctx)
			out.PendingSupplierOrders = len(list)
			return err
		})
		if err := g.Wait(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
