package savings

import "github.com/shopspring/decimal"

const moneyPlaces = 2

// Allocate splits total into n shares rounded half-up to cents. Whatever the
// rounding leaves over goes to the last share, so the shares always sum to total.
// A non-positive total or n yields zero shares.
func Allocate(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return []decimal.Decimal{}
	}

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = decimal.Zero
	}
	if !total.IsPositive() {
		return shares
	}

	base := total.DivRound(decimal.NewFromInt(int64(n)), moneyPlaces)
	sum := decimal.Zero
	for i := range shares {
		shares[i] = base
		sum = sum.Add(base)
	}

	if diff := total.Sub(sum).Round(moneyPlaces); !diff.IsZero() {
		shares[n-1] = shares[n-1].Add(diff)
	}
	return shares
}

func sumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum
}

// hasCentPrecision reports whether the amount needs no more than two decimal places.
func hasCentPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(moneyPlaces))
}
