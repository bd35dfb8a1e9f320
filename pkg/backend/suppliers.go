package backend

import (
	"context"
	"fmt"

	"github.com/lcorp/storefront/pkg/models"
)

func (c *Client) ListActiveSuppliers(ctx context.Context) ([]models.SupplierBrief, error) {
	var out []models.SupplierBrief
	if err := c.get(ctx, "/suppliers/active", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListSupplierOrders(ctx context.Context) ([]models.SupplierOrder, error) {
	var out []models.SupplierOrder
	if err := c.get(ctx, "/supplier-orders/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPendingSupplierOrders returns orders that are processing or arrived.
func (c *Client) ListPendingSupplierOrders(ctx context.Context) ([]models.SupplierOrder, error) {
	var out []models.SupplierOrder
	if err := c.get(ctx, "/supplier-orders/pending", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSupplierOrder(ctx context.Context, id int) (*models.SupplierOrder, error) {
	var out models.SupplierOrder
	if err := c.get(ctx, fmt.Sprintf("/supplier-orders/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSupplierOrder(ctx context.Context, in models.SupplierOrderCreate) (*models.SupplierOrder, error) {
	var out models.SupplierOrder
	if err := c.post(ctx, "/supplier-orders/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBulkSupplierOrder places one order per supplier covering all items.
func (c *Client) CreateBulkSupplierOrder(ctx context.Context, in models.BulkSupplierOrderCreate) ([]models.SupplierOrder, error) {
	var out []models.SupplierOrder
	if err := c.post(ctx, "/supplier-orders/bulk", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkSupplierOrderArrived(ctx context.Context, id int) error {
	return c.put(ctx, fmt.Sprintf("/supplier-orders/%d/arrive", id), nil, nil)
}

func (c *Client) CompleteSupplierOrder(ctx context.Context, id int) (*models.SupplierOrderCompletion, error) {
	var out models.SupplierOrderCompletion
	if err := c.put(ctx, fmt.Sprintf("/supplier-orders/%d/complete", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelSupplierOrder(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/supplier-orders/%d", id), nil)
}
