package models

import (
	"github.com/lcorp/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

type SupplierBrief struct {
	ID          int     `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	FullName    string  `json:"full_name"`
	Description *string `json:"description"`
}

type SupplierOrderItem struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SupplierOrder is a restocking purchase order placed with a supplier.
type SupplierOrder struct {
	ID               int                       `json:"id"`
	SupplierID       int                       `json:"supplier_id"`
	SupplierName     string                    `json:"supplier_name"`
	EmployeeID       *int                      `json:"employee_id"`
	EmployeeUsername *string                   `json:"employee_username"`
	Status           enums.SupplierOrderStatus `json:"status"`
	TotalCost        decimal.Decimal           `json:"total_cost"`
	Items            []SupplierOrderItem       `json:"items"`
	CreatedAt        Timestamp                 `json:"created_at"`
	UpdatedAt        *Timestamp                `json:"updated_at"`
	CompletedAt      *Timestamp                `json:"completed_at"`
}

type SupplierOrderCreate struct {
	ProductID  int  `json:"product_id" validate:"required,gt=0"`
	Quantity   int  `json:"quantity" validate:"required,gt=0"`
	EmployeeID *int `json:"employee_id,omitempty"`
}

type BulkSupplierOrderItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type BulkSupplierOrderCreate struct {
	Items      []BulkSupplierOrderItem `json:"items"`
	EmployeeID *int                    `json:"employee_id,omitempty"`
}

type StockUpdate struct {
	ProductName   string `json:"product_name"`
	QuantityAdded int    `json:"quantity_added"`
	NewStock      int    `json:"new_stock"`
}

type SupplierOrderCompletion struct {
	Message      string        `json:"message"`
	StockUpdates []StockUpdate `json:"stock_updates"`
}
