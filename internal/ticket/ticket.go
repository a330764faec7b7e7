package ticket

import "time"

// Product represents one receipt line item. For bulk (weight-priced) items
// Qty is the weight in kilograms and UnitPrice is the price per kg.
type Product struct {
	Qty        float64 `json:"qty"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// Ticket represents one parsed receipt. Products keep print order.
type Ticket struct {
	Number     string    `json:"number"`
	TotalCost  float64   `json:"total_cost"`
	CreditCard string    `json:"credit_card"`
	Date       time.Time `json:"date"`
	Products   []Product `json:"products"`
}
