package backend

import (
	"context"
	"fmt"

	"github.com/lcorp/storefront/pkg/models"
)

func (c *Client) CreatePayment(ctx context.Context, in models.PaymentCreate) (*models.Payment, error) {
	var out models.Payment
	if err := c.post(ctx, "/payments/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompletePayment marks a payment captured. No gateway is involved.
func (c *Client) CompletePayment(ctx context.Context, id int) (*models.PaymentCompletion, error) {
	var out models.PaymentCompletion
	if err := c.put(ctx, fmt.Sprintf("/payments/%d/complete", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var out []models.Payment
	if err := c.get(ctx, "/payments/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPaymentsForOrder(ctx context.Context, orderID int) ([]models.Payment, error) {
	var out []models.Payment
	if err := c.get(ctx, fmt.Sprintf("/payments/order/%d", orderID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPaymentSummary(ctx context.Context, orderID int) (*models.PaymentSummary, error) {
	var out models.PaymentSummary
	if err := c.get(ctx, fmt.Sprintf("/payments/order/%d/summary", orderID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
