package enums

import "fmt"

// SupplierOrderStatus tracks a restocking purchase order.
type SupplierOrderStatus string

const (
	SupplierOrderStatusProcessing SupplierOrderStatus = "processing"
	SupplierOrderStatusArrived    SupplierOrderStatus = "arrived"
	SupplierOrderStatusCompleted  SupplierOrderStatus = "completed"
)

var validSupplierOrderStatuses = []SupplierOrderStatus{
	SupplierOrderStatusProcessing,
	SupplierOrderStatusArrived,
	SupplierOrderStatusCompleted,
}

// String implements fmt.Stringer.
func (s SupplierOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplierOrderStatus.
func (s SupplierOrderStatus) IsValid() bool {
	for _, candidate := range validSupplierOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanArrive reports whether the order may be marked as arrived.
func (s SupplierOrderStatus) CanArrive() bool {
	return s == SupplierOrderStatusProcessing
}

// CanComplete reports whether received stock may be booked.
func (s SupplierOrderStatus) CanComplete() bool {
	return s == SupplierOrderStatusArrived
}

// CanCancel reports whether the order may still be cancelled.
func (s SupplierOrderStatus) CanCancel() bool {
	return s != SupplierOrderStatusCompleted
}

// ParseSupplierOrderStatus converts raw input into a SupplierOrderStatus.
func ParseSupplierOrderStatus(value string) (SupplierOrderStatus, error) {
	for _, candidate := range validSupplierOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supplier order status %q", value)
}
