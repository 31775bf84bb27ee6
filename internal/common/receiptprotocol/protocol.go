package receiptprotocol

import "github.com/shopspring/decimal"

const (
	ReceiptNotFoundMessage = "Receipt ID not found"
)

type Receipt struct {
	Retailer     string          `json:"retailer"`
	PurchaseDate string          `json:"purchaseDate"`
	PurchaseTime string          `json:"purchaseTime"`
	Items        []Item          `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

type Item struct {
	ShortDescription string          `json:"shortDescription"`
	Price            decimal.Decimal `json:"price"`
}

type ProcessResponse struct {
	ID string `json:"id"`
}

type PointsResponse struct {
	Points int64 `json:"points"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
