package service

import (
	"github.com/shopspring/decimal"
)

// round2 rounds half away from zero to 2 decimals.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// safeAverage is total/count with 2 decimals, 0 when count is 0.
func safeAverage(total float64, count int64) float64 {
	if count == 0 {
		return 0
	}
	return decimal.NewFromFloat(total).
		Div(decimal.NewFromInt(count)).
		Round(2).
		InexactFloat64()
}

// percentage is part/whole*100 with 2 decimals, 0 when whole is 0.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Div(decimal.NewFromInt(whole)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

func sumAmounts(amounts ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total
}

func absDiff(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs().InexactFloat64()
}

// ratio is part/whole with 4 decimals, 0 when whole is 0.
func ratio(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Div(decimal.NewFromInt(whole)).
		Round(4).
		InexactFloat64()
}
