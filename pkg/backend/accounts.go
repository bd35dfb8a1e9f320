package backend

import (
	"context"
	"fmt"

	"github.com/lcorp/storefront/pkg/models"
)

func (c *Client) Login(ctx context.Context, in models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.post(ctx, "/api/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterCustomer(ctx context.Context, in models.CustomerRegister) (*models.CustomerRegisterResponse, error) {
	var out models.CustomerRegisterResponse
	if err := c.post(ctx, "/api/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser resolves the bearer token attached to ctx.
func (c *Client) CurrentUser(ctx context.Context) (*models.CurrentUser, error) {
	var out models.CurrentUser
	if err := c.get(ctx, "/api/auth/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.get(ctx, fmt.Sprintf("/api/users/%d/profile", userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUserProfile(ctx context.Context, userID int, in models.ProfileUpdate) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.put(ctx, fmt.Sprintf("/api/users/%d/profile", userID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUsername(ctx context.Context, userID int, in models.UsernameUpdate) (*models.ActionResult, error) {
	var out models.ActionResult
	if err := c.put(ctx, fmt.Sprintf("/api/users/%d/username", userID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, userID int, in models.PasswordChange) (*models.ActionResult, error) {
	var out models.ActionResult
	if err := c.put(ctx, fmt.Sprintf("/api/users/%d/password", userID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserStatistics(ctx context.Context, userID int) (*models.UserStatistics, error) {
	var out models.UserStatistics
	if err := c.get(ctx, fmt.Sprintf("/api/users/%d/statistics", userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	if err := c.get(ctx, "/customers/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	var out models.Customer
	if err := c.get(ctx, fmt.Sprintf("/customers/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCustomerByUserID(ctx context.Context, userID int) (*models.Customer, error) {
	var out models.Customer
	if err := c.get(ctx, fmt.Sprintf("/customers/user/%d", userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetEmployeeByUserID(ctx context.Context, userID int) (*models.Employee, error) {
	var out models.Employee
	if err := c.get(ctx, fmt.Sprintf("/employees/user/%d", userID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
