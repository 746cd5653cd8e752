package domain

import "github.com/shopspring/decimal"

// TaxRate is the flat sales tax applied at checkout (10%).
var TaxRate = decimal.New(1, -1)

type Totals struct {
	Items    int
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals sums price x quantity over the lines and adds tax. Values are exact; round for display.
func ComputeTotals(items []CartItem) Totals {
	t := Totals{Subtotal: decimal.Zero}
	for _, it := range items {
		t.Items += it.Quantity
		t.Subtotal = t.Subtotal.Add(it.LineTotal())
	}
	t.Tax = t.Subtotal.Mul(TaxRate)
	t.Total = t.Subtotal.Add(t.Tax)
	return t
}

// Rounded returns the totals rounded to cents, as shown to shoppers and stored on orders.
// Total is the sum of the rounded parts so the three figures always add up.
func (t Totals) Rounded() Totals {
	sub, tax := t.Subtotal.Round(2), t.Tax.Round(2)
	return Totals{Items: t.Items, Subtotal: sub, Tax: tax, Total: sub.Add(tax)}
}

func FormatMoney(d decimal.Decimal) string { return d.StringFixed(2) }
