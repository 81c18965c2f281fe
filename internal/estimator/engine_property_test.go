package estimator

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rbbhati/solar-estimator/internal/model"
	"github.com/shopspring/decimal"
)

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return parameters
}

// expectedBatteryCount recalcula a cadeia de bateria a partir da energia diária
func expectedBatteryCount(daily float64) int {
	d := decimal.NewFromFloat(daily).
		Div(decimal.NewFromFloat(0.8)).Round(2).
		Mul(decimal.NewFromInt(1000)).
		Div(decimal.NewFromInt(12)).Round(0).
		Div(decimal.NewFromInt(150)).Ceil()
	return int(d.IntPart())
}

// **Property 1: Sizing monotonicity**
// Para qualquer consumo >= 0 e horas de sol em [1,7], o sistema exigido é >= 0,
// não diminui com o consumo e não aumenta com as horas de sol.
func TestRequiredSystemMonotonicity(t *testing.T) {
	engine := NewEngine(DefaultParams())
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("required kW is non-decreasing in usage", prop.ForAll(
		func(a, b, sun float64) bool {
			low, high := a, b
			if low > high {
				low, high = high, low
			}
			outLow, err := engine.EstimateBill(model.BillInput{MonthlyUsageKWh: low, GridRatePerUnit: 8, SunHoursPerDay: sun})
			if err != nil {
				return false
			}
			outHigh, err := engine.EstimateBill(model.BillInput{MonthlyUsageKWh: high, GridRatePerUnit: 8, SunHoursPerDay: sun})
			if err != nil {
				return false
			}
			return outLow.RequiredSystemKW >= 0 && outLow.RequiredSystemKW <= outHigh.RequiredSystemKW
		},
		gen.Float64Range(1, 5000),
		gen.Float64Range(1, 5000),
		gen.Float64Range(1, 7),
	))

	properties.Property("required kW is non-increasing in sun hours", prop.ForAll(
		func(usage, s1, s2 float64) bool {
			low, high := s1, s2
			if low > high {
				low, high = high, low
			}
			outLow, err := engine.EstimateBill(model.BillInput{MonthlyUsageKWh: usage, GridRatePerUnit: 8, SunHoursPerDay: low})
			if err != nil {
				return false
			}
			outHigh, err := engine.EstimateBill(model.BillInput{MonthlyUsageKWh: usage, GridRatePerUnit: 8, SunHoursPerDay: high})
			if err != nil {
				return false
			}
			return outHigh.RequiredSystemKW >= 0 && outHigh.RequiredSystemKW <= outLow.RequiredSystemKW
		},
		gen.Float64Range(1, 5000),
		gen.Float64Range(1, 7),
		gen.Float64Range(1, 7),
	))

	properties.TestingRun(t)
}

// **Property 2: Fixed ratios and determinism**
// A área é sempre round(kW * 10, 2), a contagem de baterias segue a cadeia
// DoD -> Ah -> unidades de 150Ah e a mesma entrada produz a mesma saída.
func TestEstimateInvariants(t *testing.T) {
	engine := NewEngine(DefaultParams())
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("area, battery and determinism invariants", prop.ForAll(
		func(usage, rate, sun float64) bool {
			in := model.BillInput{MonthlyUsageKWh: usage, GridRatePerUnit: rate, SunHoursPerDay: sun}
			first, err := engine.EstimateBill(in)
			if err != nil {
				return false
			}
			second, err := engine.EstimateBill(in)
			if err != nil {
				return false
			}

			if first != second {
				return false
			}
			if first.AreaNeededSqm != Round(first.RequiredSystemKW*10, 2) {
				return false
			}
			return first.BatteryCount150Ah == expectedBatteryCount(first.DailyEnergyKWh)
		},
		gen.Float64Range(1, 5000),
		gen.Float64Range(1, 20),
		gen.Float64Range(1, 7),
	))

	properties.TestingRun(t)
}

// **Property 3: Cross-mode consistency**
// Para qualquer combinação de aparelhos, usar o consumo mensal calculado como
// entrada do modo conta produz o mesmo dimensionamento e os mesmos custos.
func TestCrossModeConsistency(t *testing.T) {
	engine := NewEngine(DefaultParams())
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("appliance and bill modes agree on sizing", prop.ForAll(
		func(fans, bulbs int, fanHours, bulbHours float64, ac bool, acHours, ovenMinutes, sun float64) bool {
			appliances := []model.ApplianceUsage{
				{Type: model.ApplianceFan, Count: fans, HoursPerDay: fanHours},
				{Type: model.ApplianceBulb, Count: bulbs, HoursPerDay: bulbHours},
				{Type: model.ApplianceFridge, Enabled: true},
				{Type: model.ApplianceRouter, Enabled: true},
				{Type: model.ApplianceAC, Enabled: ac, HoursPerDay: acHours},
				{Type: model.ApplianceOven, Enabled: true, MinutesPerDay: ovenMinutes},
			}

			byAppliance, err := engine.EstimateAppliances(model.ApplianceInput{
				Appliances:      appliances,
				GridRatePerUnit: 8,
				SunHoursPerDay:  sun,
			})
			if err != nil {
				return false
			}

			byBill, err := engine.EstimateBill(model.BillInput{
				MonthlyUsageKWh: byAppliance.MonthlyEnergyKWh,
				GridRatePerUnit: 8,
				SunHoursPerDay:  sun,
			})
			if err != nil {
				return false
			}

			return byBill.MonthlyEnergyKWh == byAppliance.MonthlyEnergyKWh &&
				byBill.SolarOutputPerKWPerYear == byAppliance.SolarOutputPerKWPerYear &&
				byBill.RequiredSystemKW == byAppliance.RequiredSystemKW &&
				byBill.AreaNeededSqm == byAppliance.AreaNeededSqm &&
				byBill.EstimatedCost == byAppliance.EstimatedCost &&
				byBill.MonthlyGridCost == byAppliance.MonthlyGridCost &&
				byBill.PaybackYears == byAppliance.PaybackYears
		},
		gen.IntRange(0, 10),
		gen.IntRange(0, 20),
		gen.Float64Range(0, 24),
		gen.Float64Range(0, 24),
		gen.Bool(),
		gen.Float64Range(0, 24),
		gen.Float64Range(0, 60),
		gen.Float64Range(1, 7),
	))

	properties.TestingRun(t)
}
