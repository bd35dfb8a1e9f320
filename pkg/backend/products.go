package backend

import (
	"context"
	"fmt"

	"github.com/lcorp/storefront/pkg/models"
)

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.get(ctx, "/products/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var out models.Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductCreate) (*models.Product, error) {
	var out models.Product
	if err := c.post(ctx, "/products/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int, in models.ProductUpdate) (*models.Product, error) {
	var out models.Product
	if err := c.put(ctx, fmt.Sprintf("/products/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/products/%d", id), nil)
}
