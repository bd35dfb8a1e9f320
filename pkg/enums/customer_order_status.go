package enums

import "fmt"

// CustomerOrderStatus tracks a storefront order through fulfillment.
type CustomerOrderStatus string

const (
	CustomerOrderStatusPending    CustomerOrderStatus = "pending"
	CustomerOrderStatusProcessing CustomerOrderStatus = "processing"
	CustomerOrderStatusCompleted  CustomerOrderStatus = "completed"
	CustomerOrderStatusCancelled  CustomerOrderStatus = "cancelled"
)

var validCustomerOrderStatuses = []CustomerOrderStatus{
	CustomerOrderStatusPending,
	CustomerOrderStatusProcessing,
	CustomerOrderStatusCompleted,
	CustomerOrderStatusCancelled,
}

var customerOrderTransitions = map[CustomerOrderStatus][]CustomerOrderStatus{
	CustomerOrderStatusPending:    {CustomerOrderStatusProcessing, CustomerOrderStatusCancelled},
	CustomerOrderStatusProcessing: {CustomerOrderStatusCompleted, CustomerOrderStatusCancelled},
}

// String implements fmt.Stringer.
func (s CustomerOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CustomerOrderStatus.
func (s CustomerOrderStatus) IsValid() bool {
	for _, candidate := range validCustomerOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s CustomerOrderStatus) CanTransitionTo(next CustomerOrderStatus) bool {
	for _, candidate := range customerOrderTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsOpen reports whether the order still awaits fulfillment.
func (s CustomerOrderStatus) IsOpen() bool {
	return s == CustomerOrderStatusPending || s == CustomerOrderStatusProcessing
}

// ParseCustomerOrderStatus converts raw input into a CustomerOrderStatus.
func ParseCustomerOrderStatus(value string) (CustomerOrderStatus, error) {
	for _, candidate := range validCustomerOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer order status %q", value)
}
