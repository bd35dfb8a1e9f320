package orders

import (
	"time"

	"github.com/lcorp/storefront/pkg/models"
	"github.com/lcorp/storefront/pkg/pagination"
)

// Assignment filters for customer order listings.
const (
	AssignmentAll        = "all"
	AssignmentAssigned   = "assigned"
	AssignmentUnassigned = "unassigned"
)

// ListFilter narrows admin order listings. Assignment only applies to
// customer orders.
type ListFilter struct {
	Status     string
	Assignment string
	Page       pagination.Params
}

// Transaction is one row of a customer's purchase history.
type Transaction struct {
	models.CustomerOrderListItem
	Payment *models.PaymentSummary `json:"payment_summary,omitempty"`
}

// TransactionDetail is a customer's view of one of their orders.
type TransactionDetail struct {
	Order    *models.CustomerOrder  `json:"order"`
	Payments []models.Payment       `json:"payments"`
	Summary  *models.PaymentSummary `json:"payment_summary,omitempty"`
}

// OrderPayments is the admin view of an order's payment records.
type OrderPayments struct {
	Payments []models.Payment       `json:"payments"`
	Summary  *models.PaymentSummary `json:"summary"`
}

func customerOrderCursor(o models.CustomerOrderListItem) pagination.Cursor {
	return pagination.Cursor{CreatedAt: o.CreatedAt.Time, ID: o.ID}
}

func transactionCursor(t Transaction) pagination.Cursor {
	return customerOrderCursor(t.CustomerOrderListItem)
}

func supplierOrderCursor(o models.SupplierOrder) pagination.Cursor {
	return pagination.Cursor{CreatedAt: o.CreatedAt.Time, ID: o.ID}
}

func paymentCursor(p models.Payment) pagination.Cursor {
	at := p.CreatedAt.Time
	if at.IsZero() && p.PaymentDate != nil {
		at = p.PaymentDate.Time
	}
	return pagination.Cursor{CreatedAt: at.In(time.UTC), ID: p.ID}
}
