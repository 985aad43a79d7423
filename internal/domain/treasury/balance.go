package treasury

import "github.com/shopspring/decimal"

// Balance is the initial amount plus incomes minus outcomes, rounded to
// cents.
func Balance(initial decimal.Decimal, totals Totals) decimal.Decimal {
	return initial.Add(totals.Incomes).Sub(totals.Outcomes).Round(amountPlaces)
}

// amountLimit is the first value NUMERIC(12,2) columns cannot hold.
var amountLimit = decimal.New(1, 10)

func validAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThan(amountLimit) && amount.Equal(amount.Round(amountPlaces))
}

func validInitialAmount(amount decimal.Decimal) bool {
	return !amount.IsNegative() && amount.LessThan(amountLimit) && amount.Equal(amount.Round(amountPlaces))
}
