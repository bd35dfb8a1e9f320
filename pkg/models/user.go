package models

import (
	"github.com/lcorp/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// LoginRequest is forwarded verbatim to the backend.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is what the backend hands back on a successful login.
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type,omitempty"`
	Role        enums.Role `json:"role"`
	Username    string     `json:"username"`
	UserID      *int       `json:"user_id"`
}

type CustomerRegister struct {
	Username    string  `json:"username" validate:"required,min=3"`
	Password    string  `json:"password" validate:"required,min=6"`
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	BirthDate   *string `json:"birth_date,omitempty"`
}

type CustomerRegisterResponse struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	CustomerID int    `json:"customer_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Message    string `json:"message"`
}

type CurrentUser struct {
	ID         int        `json:"id"`
	Username   string     `json:"username"`
	Role       enums.Role `json:"role"`
	CustomerID *int       `json:"customer_id,omitempty"`
	FirstName  *string    `json:"first_name,omitempty"`
	LastName   *string    `json:"last_name,omitempty"`
	Email      *string    `json:"email,omitempty"`
}

type UserProfile struct {
	UserID      int        `json:"user_id"`
	Username    string     `json:"username"`
	Role        enums.Role `json:"role"`
	CreatedAt   string     `json:"created_at"`
	CustomerID  *int       `json:"customer_id,omitempty"`
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	Email       *string    `json:"email,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	Address     *string    `json:"address,omitempty"`
	City        *string    `json:"city,omitempty"`
	PostalCode  *string    `json:"postal_code,omitempty"`
	BirthDate   *string    `json:"birth_date,omitempty"`
}

type ProfileUpdate struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	BirthDate   *string `json:"birth_date,omitempty"`
}

type UsernameUpdate struct {
	NewUsername string `json:"new_username" validate:"required,min=3,max=50"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type Customer struct {
	ID          int     `json:"id"`
	UserID      *int    `json:"user_id"`
	Username    *string `json:"username,omitempty"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	BirthDate   *string `json:"birth_date"`
}

type UserStatistics struct {
	TotalOrders     int             `json:"total_orders"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	CompletedOrders int             `json:"completed_orders"`
}

type Employee struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}
