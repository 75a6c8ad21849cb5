// models/money.go
package models

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Monetary figures are stored in Mongo as Decimal128 and computed with
// shopspring decimals. These helpers are the only crossing point between
// the two representations.

// ToDecimal converts a stored Decimal128 to a decimal.Decimal. A zero
// Decimal128 (the zero value of the struct) converts to decimal zero.
func ToDecimal(d primitive.Decimal128) decimal.Decimal {
	s := d.String()
	if s == "" || s == "0" {
		return decimal.Zero
	}
	out, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return out
}

// ToDecimal128 converts a computed decimal back to the storage type.
func ToDecimal128(d decimal.Decimal) primitive.Decimal128 {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		out, _ = primitive.ParseDecimal128("0")
	}
	return out
}

// MoneyString renders an amount rounded to 2 fractional digits, the
// precision used at presentation and storage boundaries.
func MoneyString(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
