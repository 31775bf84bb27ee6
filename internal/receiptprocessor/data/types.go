package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type Receipt struct {
	Retailer     string
	Total        decimal.Decimal
	Items        []Item
	PurchaseDate string
	PurchaseTime string
}

type Item struct {
	ShortDescription string
	Price            decimal.Decimal
}

type ScoredReceipt struct {
	CreatedAt time.Time
	ID        string
	Receipt   Receipt
	Points    int64
}
