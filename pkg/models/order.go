package models

import (
	"github.com/lcorp/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

type CustomerOrderItem struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CustomerOrder is the detailed order view including line items.
type CustomerOrder struct {
	ID               int                       `json:"id"`
	CustomerID       int                       `json:"customer_id"`
	CustomerName     string                    `json:"customer_name"`
	EmployeeID       *int                      `json:"employee_id"`
	EmployeeUsername *string                   `json:"employee_username"`
	Status           enums.CustomerOrderStatus `json:"status"`
	TotalAmount      decimal.Decimal           `json:"total_amount"`
	Notes            *string                   `json:"notes"`
	Items            []CustomerOrderItem       `json:"items"`
	CreatedAt        Timestamp                 `json:"created_at"`
	UpdatedAt        *Timestamp                `json:"updated_at"`
	CompletedAt      *Timestamp                `json:"completed_at"`
}

// CustomerOrderListItem is the row shape returned by list endpoints.
type CustomerOrderListItem struct {
	ID               int                       `json:"id"`
	CustomerID       int                       `json:"customer_id"`
	CustomerName     string                    `json:"customer_name"`
	EmployeeID       *int                      `json:"employee_id"`
	EmployeeUsername *string                   `json:"employee_username"`
	Status           enums.CustomerOrderStatus `json:"status"`
	TotalAmount      decimal.Decimal           `json:"total_amount"`
	ItemCount        int                       `json:"item_count"`
	CreatedAt        Timestamp                 `json:"created_at"`
	CompletedAt      *Timestamp                `json:"completed_at"`
}

type CustomerOrderItemCreate struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type CustomerOrderCreate struct {
	CustomerID int                       `json:"customer_id"`
	EmployeeID *int                      `json:"employee_id,omitempty"`
	Items      []CustomerOrderItemCreate `json:"items"`
	Notes      *string                   `json:"notes"`
}

// ActionResult is the generic `{"message": ...}` acknowledgement.
type ActionResult struct {
	Message string `json:"message"`
}
