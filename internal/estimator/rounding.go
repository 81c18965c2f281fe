package estimator

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	daysPerMonth  = decimal.NewFromInt(30)
	daysPerYear   = decimal.NewFromInt(365)
	monthsPerYear = decimal.NewFromInt(12)
	whPerKWh      = decimal.NewFromInt(1000)
	minutesPerH   = decimal.NewFromInt(60)
	hoursPerDay   = decimal.NewFromInt(24)
)

// Round arredonda x para places casas decimais com a regra única do motor
func Round(x float64, places int32) float64 {
	if !finite(x) {
		return x
	}
	return toFloat(decimal.NewFromFloat(x).Round(places))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
