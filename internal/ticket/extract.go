package ticket

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Receipt layout patterns. Each one matches a whole text fragment as
// segmented by the PDF extraction. Decimal separators are commas; the €,
// kg and €/kg markers are stripped by the capture groups.
var (
	reStandardProduct = regexp.MustCompile(`^(\d+)[ \n]([^\n]+)\n(?:(\d+,\d+)\n)?(\d+,\d+)\n?$`)
	reBulkName        = regexp.MustCompile(`^(\d+)[ \n]([^\n]+)\n?$`)
	reBulkWeight      = regexp.MustCompile(`^(\d+,\d+) kg\n(\d+,\d+) €/kg\n(\d+,\d+)\n?$`)
	reTotal           = regexp.MustCompile(`Importe: (\d+,\d+) €`)
	reTicketNumber    = regexp.MustCompile(`FACTURA SIMPLIFICADA: ([\d-]+)`)
	reDatetime        = regexp.MustCompile(`(\d{2}/\d{2}/\d{4} \d{2}:\d{2})`)
	reCreditCard      = regexp.MustCompile(`TARJ\. BANCARIA:[* ]+(\d+)`)
)

const dateLayout = "02/01/2006 15:04"

// priceToFloat converts a comma-decimal number as printed on the receipt.
func priceToFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// matchStandardProduct recognizes a unit-priced line item: quantity and
// name, an optional unit price and the line total. When the unit price is
// missing the line total doubles as the unit price (quantity 1 implied).
// A " kg" marker after the name means a weight-priced item, never a
// standard product; RE2 has no negative lookahead, so the guard is an
// explicit check. The name line itself is exempt: packaged goods print
// their size there ("Arroz redondo 1 kg").
func matchStandardProduct(fragment string) (Product, bool) {
	loc := reStandardProduct.FindStringSubmatchIndex(fragment)
	if loc == nil {
		return Product{}, false
	}
	name := fragment[loc[4]:loc[5]]
	if strings.Contains(fragment[loc[5]:], " kg") {
		return Product{}, false
	}
	qty, err := priceToFloat(fragment[loc[2]:loc[3]])
	if err != nil {
		return Product{}, false
	}
	total, err := priceToFloat(fragment[loc[8]:loc[9]])
	if err != nil {
		return Product{}, false
	}
	unit := total
	if loc[6] >= 0 {
		if unit, err = priceToFloat(fragment[loc[6]:loc[7]]); err != nil {
			return Product{}, false
		}
	}
	return Product{Qty: qty, Name: name, UnitPrice: unit, TotalPrice: total}, true
}

// matchBulkName recognizes the fragment announcing a weight-priced item:
// a small integer count followed by the product name, with no prices. The
// numbers arrive in the next weight fragment, so this alone cannot produce
// a Product.
//
// The pattern also matches unrelated `<digits> <text>` footer lines, like
// the postcode of the store address. That is harmless: a stray pending
// name is overwritten by the next real one and discarded at end of input,
// and on these receipts nothing of that shape appears between a bulk name
// and its weight fragment.
func matchBulkName(fragment string) (string, bool) {
	m := reBulkName.FindStringSubmatch(fragment)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// matchBulkWeight recognizes the numeric half of a weight-priced item:
// weight in kg, price per kg and the line total.
func matchBulkWeight(fragment string) (weight, unitPrice, totalPrice float64, ok bool) {
	m := reBulkWeight.FindStringSubmatch(fragment)
	if m == nil {
		return 0, 0, 0, false
	}
	var err error
	if weight, err = priceToFloat(m[1]); err != nil {
		return 0, 0, 0, false
	}
	if unitPrice, err = priceToFloat(m[2]); err != nil {
		return 0, 0, 0, false
	}
	if totalPrice, err = priceToFloat(m[3]); err != nil {
		return 0, 0, 0, false
	}
	return weight, unitPrice, totalPrice, true
}

// matchTotal recognizes the printed grand total.
func matchTotal(fragment string) (float64, bool) {
	m := reTotal.FindStringSubmatch(fragment)
	if m == nil {
		return 0, false
	}
	total, err := priceToFloat(m[1])
	if err != nil {
		return 0, false
	}
	return total, true
}

// matchTicketNumber recognizes the receipt identifier.
func matchTicketNumber(fragment string) (string, bool) {
	m := reTicketNumber.FindStringSubmatch(fragment)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// matchDatetime recognizes the purchase date and time.
func matchDatetime(fragment string) (time.Time, bool) {
	m := reDatetime.FindStringSubmatch(fragment)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.Parse(dateLayout, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// matchCreditCard recognizes the masked card line and keeps the visible
// digits.
func matchCreditCard(fragment string) (string, bool) {
	m := reCreditCard.FindStringSubmatch(fragment)
	if m == nil {
		return "", false
	}
	return m[1], true
}
