// services/tds.go
package services

import (
	"github.com/shopspring/decimal"
)

// DefaultTDSPercent is the standard withholding applied to club bonuses.
var DefaultTDSPercent = decimal.NewFromInt(5)

// TDSBreakdown is the result of applying withholding to a gross bonus.
type TDSBreakdown struct {
	Gross     decimal.Decimal `json:"gross"`
	Percent   decimal.Decimal `json:"percent"`
	TDSAmount decimal.Decimal `json:"tdsAmount"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// Withhold deducts pct% tax at source from gross. The withheld amount is
// rounded to 2 fractional digits and the net is the exact remainder, so
// net + withheld always reconstructs gross.
func Withhold(gross, pct decimal.Decimal) TDSBreakdown {
	tds := gross.Mul(pct).Div(oneHundred).Round(2)
	return TDSBreakdown{
		Gross:     gross,
		Percent:   pct,
		TDSAmount: tds,
		NetAmount: gross.Sub(tds),
	}
}
