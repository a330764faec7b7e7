package ticket

import (
	"fmt"
	"math"
)

// totalTolerance is the accepted relative drift between the printed total
// and the sum of line items. Per-unit prices are rounded to cents on the
// receipt, so the sum rarely lands exactly on the total.
const totalTolerance = 0.01

// Validate checks a built ticket for completeness and arithmetic
// consistency, short-circuiting on the first failure. The ticket itself is
// left unchanged.
func Validate(t *Ticket) error {
	if t.Number == "" || t.TotalCost <= 0 || len(t.Products) == 0 || t.Date.IsZero() {
		return fmt.Errorf("%w: number=%q total=%.2f products=%d date=%v",
			ErrIncompleteTicket, t.Number, t.TotalCost, len(t.Products), t.Date)
	}
	var sum float64
	for _, p := range t.Products {
		sum += p.TotalPrice
	}
	if math.Abs(sum-t.TotalCost)/t.TotalCost > totalTolerance {
		return fmt.Errorf("%w: products sum to %.2f, ticket says %.2f",
			ErrTotalMismatch, sum, t.TotalCost)
	}
	return nil
}
