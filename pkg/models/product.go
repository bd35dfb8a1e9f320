package models

import (
	"github.com/shopspring/decimal"
)

// Product is the catalog record owned by the backend.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SupplierID    int             `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	Stock         int             `json:"stock"`
	ReorderLevel  int             `json:"reorder_level"`
	ReorderAmount int             `json:"reorder_amount"`
	Category      string          `json:"category"`
	ImageURL      *string         `json:"image_url"`
	CreatedAt     Timestamp       `json:"created_at"`
	UpdatedAt     Timestamp       `json:"updated_at"`
}

// IsLowStock reports whether stock fell under the product's reorder level.
func (p Product) IsLowStock() bool {
	return p.Stock < p.ReorderLevel
}

// ProductCreate is the admin payload for a new catalog entry.
type ProductCreate struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Description   *string         `json:"description,omitempty"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SupplierID    int             `json:"supplier_id" validate:"required,gt=0"`
	Stock         int             `json:"stock" validate:"gte=0"`
	ReorderLevel  *int            `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`
	ReorderAmount *int            `json:"reorder_amount,omitempty" validate:"omitempty,gte=0"`
	Category      string          `json:"category" validate:"required,max=100"`
	ImageURL      *string         `json:"image_url,omitempty" validate:"omitempty,max=500"`
}

// ProductUpdate carries a partial edit; nil fields are left untouched.
type ProductUpdate struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description   *string          `json:"description,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	SupplierID    *int             `json:"supplier_id,omitempty" validate:"omitempty,gt=0"`
	Stock         *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ReorderLevel  *int             `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`
	ReorderAmount *int             `json:"reorder_amount,omitempty" validate:"omitempty,gte=0"`
	Category      *string          `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	ImageURL      *string          `json:"image_url,omitempty" validate:"omitempty,max=500"`
}
