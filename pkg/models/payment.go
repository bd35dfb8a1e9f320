package models

import (
	"github.com/lcorp/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

type Payment struct {
	ID                   int                 `json:"id"`
	CustomerOrderID      int                 `json:"customer_order_id"`
	Amount               decimal.Decimal     `json:"amount"`
	PaymentMethod        enums.PaymentMethod `json:"payment_method"`
	PaymentStatus        enums.PaymentStatus `json:"payment_status"`
	TransactionReference *string             `json:"transaction_reference"`
	PaymentDate          *Timestamp          `json:"payment_date"`
	CreatedAt            Timestamp           `json:"created_at"`
	UpdatedAt            Timestamp           `json:"updated_at"`
}

type PaymentCreate struct {
	CustomerOrderID      int                 `json:"customer_order_id"`
	Amount               decimal.Decimal     `json:"amount"`
	PaymentMethod        enums.PaymentMethod `json:"payment_method"`
	TransactionReference string              `json:"transaction_reference,omitempty"`
}

type PaymentSummary struct {
	CustomerOrderID  int             `json:"customer_order_id"`
	OrderTotal       decimal.Decimal `json:"order_total"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PaymentCount     int             `json:"payment_count"`
	IsFullyPaid      bool            `json:"is_fully_paid"`
}

type PaymentCompletion struct {
	Message   string `json:"message"`
	PaymentID int    `json:"payment_id"`
}
