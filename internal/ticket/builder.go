package ticket

// ParseFragments folds the ordered text fragments of one document into a
// Ticket. Extractors are tried in a fixed priority order and the first
// match wins; the order is part of the format contract, a fragment is never
// two field types at once. Scalar fields keep the last match when a marker
// repeats. Fragments that match nothing (headers, footers, disclaimers)
// are ignored.
//
// The result is not validated; see Validate.
func ParseFragments(fragments []string) (*Ticket, error) {
	var (
		t   Ticket
		asm bulkAssembler
	)
	for _, fragment := range fragments {
		if p, ok := matchStandardProduct(fragment); ok {
			t.Products = append(t.Products, p)
			continue
		}
		if name, ok := matchBulkName(fragment); ok {
			asm.announce(name)
			continue
		}
		if weight, unitPrice, totalPrice, ok := matchBulkWeight(fragment); ok {
			p, err := asm.complete(weight, unitPrice, totalPrice)
			if err != nil {
				return nil, err
			}
			t.Products = append(t.Products, p)
			continue
		}
		if total, ok := matchTotal(fragment); ok {
			t.TotalCost = total
			continue
		}
		if number, ok := matchTicketNumber(fragment); ok {
			t.Number = number
			continue
		}
		if ts, ok := matchDatetime(fragment); ok {
			t.Date = ts
			continue
		}
		if card, ok := matchCreditCard(fragment); ok {
			t.CreditCard = card
		}
	}
	return &t, nil
}
