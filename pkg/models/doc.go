// Package models holds the backend's wire shapes.
package models

import "github.com/shopspring/decimal"

func init() {
	// The backend speaks JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}
