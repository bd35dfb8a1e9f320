package inventory

import (
	"github.com/lcorp/storefront/pkg/enums"
	"github.com/lcorp/storefront/pkg/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is a backend product annotated with its stock badge.
type ProductDTO struct {
	models.Product
	StockStatus enums.StockStatus `json:"stock_status"`
	LowStock    bool              `json:"low_stock"`
}

func toDTO(p models.Product) ProductDTO {
	return ProductDTO{
		Product:     p,
		StockStatus: enums.StockStatusFor(p.Stock),
		LowStock:    p.IsLowStock(),
	}
}

func toDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toDTO(p))
	}
	return out
}

// ReorderLine is one low-stock product in a bulk reorder plan.
type ReorderLine struct {
	ProductID    int             `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SupplierID   int             `json:"supplier_id"`
	SupplierName string          `json:"supplier_name,omitempty"`
	Stock        int             `json:"stock"`
	ReorderLevel int             `json:"reorder_level"`
	Quantity     int             `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	LineCost     decimal.Decimal `json:"line_cost"`
}

// ReorderPlan lists every low-stock product with the quantity to order.
// Lines with a zero quantity stay in the plan but are not submitted.
type ReorderPlan struct {
	Lines         []ReorderLine   `json:"lines"`
	OrderedLines  int             `json:"ordered_lines"`
	TotalUnits    int             `json:"total_units"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// Items returns the lines that will actually be ordered.
func (p ReorderPlan) Items() []models.BulkSupplierOrderItem {
	items := make([]models.BulkSupplierOrderItem, 0, len(p.Lines))
	for _, line := range p.Lines {
		if line.Quantity <= 0 {
			continue
		}
		items = append(items, models.BulkSupplierOrderItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items
}

// BulkReorderResult is the outcome of submitting a plan.
type BulkReorderResult struct {
	Plan   ReorderPlan            `json:"plan"`
	Orders []models.SupplierOrder `json:"orders"`
}

// Summary backs the admin dashboard counters.
type Summary struct {
	TotalProducts  int             `json:"total_products"`
	TotalUnits     int             `json:"total_units"`
	LowStock       int             `json:"low_stock"`
	OutOfStock     int             `json:"out_of_stock"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
}
