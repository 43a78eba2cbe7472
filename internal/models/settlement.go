package models

import "github.com/google/uuid"

type Settlement struct {
	ProductID     uuid.UUID
	OrderID       uuid.UUID
	Bought        Count
	TransactionID string
}

type SettlementResult struct {
	Product UpdateResult `json:"product"`
	Order   UpdateResult `json:"order"`

	Quantity Count `json:"-"`
	Sold     Count `json:"-"`
}

// ApplySale moves bought units from stock to sold. Stock is allowed to go
// below zero; overselling is reported by the caller, not prevented here.
func ApplySale(quantity, sold, bought Count) (Count, Count) {
	return quantity - bought, sold + bought
}
