package models

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
)

var (
	TaxRate     = decimal.RequireFromString("0.05")
	DeliveryFee = decimal.NewFromInt(30)
)

// CheckPrice reports whether d can be stored as a menu price: positive and
// with at most two decimal places, matching the decimal(12,2) columns.
func CheckPrice(d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperr.Invalid("price must be greater than zero")
	}
	if !d.Equal(d.Round(2)) {
		return apperr.Invalid("price must not have more than two decimal places")
	}
	return nil
}

// Totals is the money summary of an order.
type Totals struct {
	ItemsSubtotal decimal.Decimal
	TaxAmount     decimal.Decimal
	DeliveryFee   decimal.Decimal
	GrandTotal    decimal.Decimal
}

// PriceLines fills in each line's LineTotal and computes the order totals.
// Tax is rounded half away from zero to two decimals; the delivery fee
// applies to any non-empty order.
func PriceLines(lines []OrderLine) Totals {
	subtotal := decimal.Zero
	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		subtotal = subtotal.Add(lines[i].LineTotal)
	}

	fee := decimal.Zero
	if len(lines) > 0 {
		fee = DeliveryFee
	}
	tax := subtotal.Mul(TaxRate).Round(2)

	return Totals{
		ItemsSubtotal: subtotal,
		TaxAmount:     tax,
		DeliveryFee:   fee,
		GrandTotal:    subtotal.Add(tax).Add(fee),
	}
}
