package ticket

// bulkAssembler bridges the two fragments of a weight-priced item: the name
// fragment announces the product, the following weight fragment carries the
// numbers. State is local to one builder and never crosses documents.
type bulkAssembler struct {
	pending string
	armed   bool
}

// announce records a bulk product name awaiting its weight fragment. A
// second announce before the weight arrives overwrites the first: last
// name wins.
func (a *bulkAssembler) announce(name string) {
	a.pending = name
	a.armed = true
}

// complete combines the pending name with a weight fragment into one
// finished product, populating all numeric fields at once. A weight
// fragment with no pending name is unrecoverable; silently skipping it
// would corrupt the total consistency check.
func (a *bulkAssembler) complete(weight, unitPrice, totalPrice float64) (Product, error) {
	if !a.armed {
		return Product{}, ErrMalformedBulkSequence
	}
	p := Product{Qty: weight, Name: a.pending, UnitPrice: unitPrice, TotalPrice: totalPrice}
	a.pending = ""
	a.armed = false
	return p, nil
}
