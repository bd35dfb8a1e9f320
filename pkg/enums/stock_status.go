package enums

// StockStatus is the badge shown next to a product's stock count.
type StockStatus string

const (
	StockStatusOutOfStock    StockStatus = "OUT OF STOCK"
	StockStatusRestockNeeded StockStatus = "RESTOCK NEEDED"
	StockStatusInStock       StockStatus = "IN STOCK"
)

// restockBadgeThreshold is the fixed stock count below which the badge warns,
// independent of a product's own reorder level.
const restockBadgeThreshold = 50

// StockStatusFor classifies a stock count.
func StockStatusFor(stock int) StockStatus {
	switch {
	case stock <= 0:
		return StockStatusOutOfStock
	case stock < restockBadgeThreshold:
		return StockStatusRestockNeeded
	default:
		return StockStatusInStock
	}
}

// NeedsRestock reports whether the badge asks for a reorder.
func (s StockStatus) NeedsRestock() bool {
	return s != StockStatusInStock
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}
