package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWithhold(t *testing.T) {
	breakdown := Withhold(decimal.NewFromInt(20000), DefaultTDSPercent)

	assert.True(t, breakdown.TDSAmount.Equal(decimal.NewFromInt(1000)), "got %s", breakdown.TDSAmount)
	assert.True(t, breakdown.NetAmount.Equal(decimal.NewFromInt(19000)), "got %s", breakdown.NetAmount)
	assert.True(t, breakdown.Gross.Equal(decimal.NewFromInt(20000)))
}

func TestWithholdZeroGross(t *testing.T) {
	breakdown := Withhold(decimal.Zero, DefaultTDSPercent)
	assert.True(t, breakdown.TDSAmount.IsZero())
	assert.True(t, breakdown.NetAmount.IsZero())
}

// Net plus withheld must reconstruct gross exactly, whatever the rounding
// of the withheld amount did.
func TestWithholdRoundTrip(t *testing.T) {
	grosses := []string{"0", "0.01", "1", "33.33", "999.99", "12345.67", "1000000", "0.005"}
	for _, g := range grosses {
		gross := decimal.RequireFromString(g)
		breakdown := Withhold(gross, DefaultTDSPercent)
		sum := breakdown.NetAmount.Add(breakdown.TDSAmount)
		assert.True(t, sum.Equal(gross), "gross %s: net %s + tds %s = %s",
			g, breakdown.NetAmount, breakdown.TDSAmount, sum)
	}
}

func TestWithholdRounding(t *testing.T) {
	// 5% of 33.33 is 1.6665, rounds to 1.67
	breakdown := Withhold(decimal.RequireFromString("33.33"), DefaultTDSPercent)
	assert.True(t, breakdown.TDSAmount.Equal(decimal.RequireFromString("1.67")), "got %s", breakdown.TDSAmount)
	assert.True(t, breakdown.NetAmount.Equal(decimal.RequireFromString("31.66")), "got %s", breakdown.NetAmount)
}
