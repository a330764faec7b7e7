package ticket

import (
	"sort"
	"time"
)

// Row is one projected (ticket, product) pair: ticket-level fields
// duplicated alongside the product-level fields. This is the flat shape
// handed to the aggregation layer and to exports.
type Row struct {
	TicketNumber      string    `json:"ticket_number"`
	Date              time.Time `json:"date"`
	CreditCard        string    `json:"credit_card"`
	TotalPrice        float64   `json:"total_price"`
	ProductName       string    `json:"product_name"`
	ProductQty        float64   `json:"product_qty"`
	ProductUnitPrice  float64   `json:"product_unit_price"`
	ProductTotalPrice float64   `json:"product_total_price"`
}

// Project flattens tickets into one row per line item, preserving input
// order. Sorting is the caller's concern; see SortRows.
func Project(tickets []*Ticket) []Row {
	rows := make([]Row, 0)
	for _, t := range tickets {
		for _, p := range t.Products {
			rows = append(rows, Row{
				TicketNumber:      t.Number,
				Date:              t.Date,
				CreditCard:        t.CreditCard,
				TotalPrice:        t.TotalCost,
				ProductName:       p.Name,
				ProductQty:        p.Qty,
				ProductUnitPrice:  p.UnitPrice,
				ProductTotalPrice: p.TotalPrice,
			})
		}
	}
	return rows
}

// SortRows orders rows by purchase date, then product name.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ProductName < rows[j].ProductName
	})
}
