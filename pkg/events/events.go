// Package events publishes storefront domain events.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlaced is emitted once an order and its payment were both recorded.
type OrderPlaced struct {
	EventID              string          `json:"event_id"`
	OccurredAt           time.Time       `json:"occurred_at"`
	SessionID            string          `json:"session_id"`
	CustomerID           int             `json:"customer_id"`
	OrderID              int             `json:"order_id"`
	PaymentID            int             `json:"payment_id"`
	PaymentMethod        string          `json:"payment_method"`
	TransactionReference string          `json:"transaction_reference"`
	Total                decimal.Decimal `json:"total"`
	ItemCount            int             `json:"item_count"`
	FromCart             bool            `json:"from_cart"`
	ShipTo               Contact         `json:"ship_to"`
	BillTo               Contact         `json:"bill_to"`
}

// Contact is the addressee of a shipment or invoice.
type Contact struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
func (Noop) Close() error                                          { return nil }
