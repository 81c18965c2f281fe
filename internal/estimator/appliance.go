package estimator

import (
	"fmt"

	"github.com/rbbhati/solar-estimator/internal/catalog"
	"github.com/rbbhati/solar-estimator/internal/model"
	"github.com/shopspring/decimal"
)

// DailyEnergyWh soma o consumo diário em Wh dos aparelhos ligados.
// Entradas desligadas (count 0 ou enabled=false) não contribuem,
// independentemente das horas que ainda estejam preenchidas.
func DailyEnergyWh(usages []model.ApplianceUsage) (decimal.Decimal, error) {
	total := decimal.Zero

	for _, u := range usages {
		spec, ok := catalog.Appliance(u.Type)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: aparelho desconhecido %q", model.ErrInvalidInput, u.Type)
		}
		if u.Count < 0 {
			return decimal.Zero, fmt.Errorf("%w: quantidade negativa para %s", model.ErrInvalidInput, u.Type)
		}
		if !finite(u.HoursPerDay) || u.HoursPerDay < 0 || !finite(u.MinutesPerDay) || u.MinutesPerDay < 0 {
			return decimal.Zero, fmt.Errorf("%w: uso diário inválido para %s", model.ErrInvalidInput, u.Type)
		}

		units := spec.Units(u)
		if units == 0 {
			continue
		}

		load := decimal.NewFromInt(int64(units)).Mul(decimal.NewFromFloat(spec.PowerWatts))
		switch {
		case spec.AlwaysOn:
			total = total.Add(load.Mul(hoursPerDay))
		case spec.UsesMinutes:
			total = total.Add(load.Mul(decimal.NewFromFloat(u.MinutesPerDay)).Div(minutesPerH))
		default:
			total = total.Add(load.Mul(decimal.NewFromFloat(u.HoursPerDay)))
		}
	}

	return total, nil
}
