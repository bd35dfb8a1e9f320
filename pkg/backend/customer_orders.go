package backend

import (
	"context"
	"fmt"

	"github.com/lcorp/storefront/pkg/models"
)

func (c *Client) CreateCustomerOrder(ctx context.Context, in models.CustomerOrderCreate) (*models.CustomerOrder, error) {
	var out models.CustomerOrder
	if err := c.post(ctx, "/customer-orders/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCustomerOrders(ctx context.Context) ([]models.CustomerOrderListItem, error) {
	var out []models.CustomerOrderListItem
	if err := c.get(ctx, "/customer-orders/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrdersByCustomer(ctx context.Context, customerID int) ([]models.CustomerOrderListItem, error) {
	var out []models.CustomerOrderListItem
	if err := c.get(ctx, fmt.Sprintf("/customer-orders/customer/%d", customerID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPendingCustomerOrders returns orders that are pending or processing.
func (c *Client) ListPendingCustomerOrders(ctx context.Context) ([]models.CustomerOrder, error) {
	var out []models.CustomerOrder
	if err := c.get(ctx, "/customer-orders/pending", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCustomerOrder(ctx context.Context, id int) (*models.CustomerOrder, error) {
	var out models.CustomerOrder
	if err := c.get(ctx, fmt.Sprintf("/customer-orders/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProcessCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error) {
	return c.orderAction(ctx, fmt.Sprintf("/customer-orders/%d/process", id))
}

func (c *Client) CompleteCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error) {
	return c.orderAction(ctx, fmt.Sprintf("/customer-orders/%d/complete", id))
}

func (c *Client) AssignEmployee(ctx context.Context, orderID, employeeID int) (*models.ActionResult, error) {
	return c.orderAction(ctx, fmt.Sprintf("/customer-orders/%d/assign/%d", orderID, employeeID))
}

func (c *Client) CancelCustomerOrder(ctx context.Context, id int) (*models.ActionResult, error) {
	var out models.ActionResult
	if err := c.delete(ctx, fmt.Sprintf("/customer-orders/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) orderAction(ctx context.Context, path string) (*models.ActionResult, error) {
	var out models.ActionResult
	if err := c.put(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
