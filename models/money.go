package models

import (
	"math"

	"github.com/shopspring/decimal"
)

func init() {
	// Money is rendered as a JSON number, e.g. 25.5 rather than "25.5".
	decimal.MarshalJSONWithoutQuotes = true
}

// MoneyPlaces is the number of decimal places stored for monetary columns.
const MoneyPlaces = 2

// MaxQuantity is the largest quantity an order line can store (INTEGER column).
const MaxQuantity = math.MaxInt32

var (
	// MaxPrice is the largest unit price a NUMERIC(10,2) column holds.
	MaxPrice = decimal.RequireFromString("99999999.99")
	// MaxOrderTotal is the largest order total a NUMERIC(12,2) column holds.
	MaxOrderTotal = decimal.RequireFromString("9999999999.99")
)

// IsValidPrice reports whether p is positive, fits in MoneyPlaces and does not
// exceed MaxPrice.
func IsValidPrice(p decimal.Decimal) bool {
	return p.IsPositive() && p.Equal(p.Round(MoneyPlaces)) && p.LessThanOrEqual(MaxPrice)
}
