package estimator

import (
	"fmt"

	"github.com/rbbhati/solar-estimator/internal/model"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCostPerKW é o custo de instalação por kW usado na estimativa
	DefaultCostPerKW = 50000.0
	// AlternateCostPerKW é a variante de custo por kW aceita na configuração
	AlternateCostPerKW = 55000.0

	DefaultAreaPerKW        = 10.0
	DefaultDepthOfDischarge = 0.8
	DefaultBatteryVoltage   = 12.0
	DefaultBatteryUnitAh    = 150.0
)

// Params reúne os parâmetros fixos do processo
type Params struct {
	CostPerKW        float64
	AreaPerKW        float64
	DepthOfDischarge float64
	BatteryVoltage   float64
	BatteryUnitAh    float64
}

// DefaultParams retorna os parâmetros padrão
func DefaultParams() Params {
	return Params{
		CostPerKW:        DefaultCostPerKW,
		AreaPerKW:        DefaultAreaPerKW,
		DepthOfDischarge: DefaultDepthOfDischarge,
		BatteryVoltage:   DefaultBatteryVoltage,
		BatteryUnitAh:    DefaultBatteryUnitAh,
	}
}

// Engine calcula estimativas com parâmetros fixos
type Engine struct {
	params Params
}

// NewEngine cria um motor; campos não positivos recebem o valor padrão
func NewEngine(params Params) *Engine {
	d := DefaultParams()
	if !(params.CostPerKW > 0) {
		params.CostPerKW = d.CostPerKW
	}
	if !(params.AreaPerKW > 0) {
		params.AreaPerKW = d.AreaPerKW
	}
	if !(params.DepthOfDischarge > 0) || params.DepthOfDischarge > 1 {
		params.DepthOfDischarge = d.DepthOfDischarge
	}
	if !(params.BatteryVoltage > 0) {
		params.BatteryVoltage = d.BatteryVoltage
	}
	if !(params.BatteryUnitAh > 0) {
		params.BatteryUnitAh = d.BatteryUnitAh
	}
	return &Engine{params: params}
}

// Params retorna os parâmetros em uso
func (e *Engine) Params() Params {
	return e.params
}

// Estimate despacha a entrada para o modo ativo
func (e *Engine) Estimate(in model.EstimationInput) (model.EstimationOutput, error) {
	switch in.Mode {
	case model.ModeBill:
		if in.Bill == nil || in.Appliance != nil {
			return model.EstimationOutput{}, fmt.Errorf("%w: modo bill exige somente a entrada da conta", model.ErrInvalidInput)
		}
		return e.EstimateBill(*in.Bill)
	case model.ModeAppliance:
		if in.Appliance == nil || in.Bill != nil {
			return model.EstimationOutput{}, fmt.Errorf("%w: modo appliance exige somente a lista de aparelhos", model.ErrInvalidInput)
		}
		return e.EstimateAppliances(*in.Appliance)
	default:
		return model.EstimationOutput{}, fmt.Errorf("%w: modo desconhecido %q", model.ErrInvalidInput, in.Mode)
	}
}

// EstimateBill estima a partir do consumo mensal em kWh
func (e *Engine) EstimateBill(in model.BillInput) (model.EstimationOutput, error) {
	if err := checkAssumptions(in.SunHoursPerDay, in.GridRatePerUnit); err != nil {
		return model.EstimationOutput{}, err
	}
	if !finite(in.MonthlyUsageKWh) || in.MonthlyUsageKWh < 0 {
		return model.EstimationOutput{}, fmt.Errorf("%w: consumo mensal deve ser >= 0", model.ErrInvalidInput)
	}

	monthly := decimal.NewFromFloat(in.MonthlyUsageKWh)
	daily := monthly.Div(daysPerMonth).Round(2)

	return e.size(model.ModeBill, daily, monthly, in.SunHoursPerDay, in.GridRatePerUnit)
}

// EstimateAppliances estima a partir do uso diário dos aparelhos
func (e *Engine) EstimateAppliances(in model.ApplianceInput) (model.EstimationOutput, error) {
	if err := checkAssumptions(in.SunHoursPerDay, in.GridRatePerUnit); err != nil {
		return model.EstimationOutput{}, err
	}

	wh, err := DailyEnergyWh(in.Appliances)
	if err != nil {
		return model.EstimationOutput{}, err
	}

	daily := wh.Div(whPerKWh)
	monthly := daily.Mul(daysPerMonth).Round(2)

	return e.size(model.ModeAppliance, daily, monthly, in.SunHoursPerDay, in.GridRatePerUnit)
}

// size executa a cadeia comum de dimensionamento, custo e bateria
func (e *Engine) size(mode model.Mode, daily, monthly decimal.Decimal, sunHours, gridRate float64) (model.EstimationOutput, error) {
	p := e.params

	yearlyYield := decimal.NewFromFloat(sunHours).Mul(daysPerYear).Round(1)
	if yearlyYield.IsZero() {
		return model.EstimationOutput{}, fmt.Errorf("%w: geração anual por kW arredondada para zero", model.ErrDivisionByZero)
	}

	requiredKW := monthly.Div(yearlyYield.Div(monthsPerYear)).Round(2)
	area := requiredKW.Mul(decimal.NewFromFloat(p.AreaPerKW)).Round(2)
	cost := requiredKW.Mul(decimal.NewFromFloat(p.CostPerKW)).Round(0)

	gridCost := monthly.Mul(decimal.NewFromFloat(gridRate)).Round(0)
	if gridCost.IsZero() {
		return model.EstimationOutput{}, fmt.Errorf("%w: custo mensal da rede é zero, payback indefinido", model.ErrDivisionByZero)
	}
	payback := cost.Div(gridCost.Mul(monthsPerYear)).Round(1)

	usable := daily.Div(decimal.NewFromFloat(p.DepthOfDischarge)).Round(2)
	capacityAh := usable.Mul(whPerKWh).Div(decimal.NewFromFloat(p.BatteryVoltage)).Round(0)
	count := capacityAh.Div(decimal.NewFromFloat(p.BatteryUnitAh)).Ceil()

	return model.EstimationOutput{
		Mode:            mode,
		SunHoursPerDay:  sunHours,
		GridRatePerUnit: gridRate,
		CostPerKW:       p.CostPerKW,

		DailyEnergyKWh:          toFloat(daily),
		MonthlyEnergyKWh:        toFloat(monthly),
		AnnualEnergyKWh:         toFloat(monthly.Mul(monthsPerYear).Round(2)),
		SolarOutputPerKWPerYear: toFloat(yearlyYield),
		RequiredSystemKW:        toFloat(requiredKW),
		AreaNeededSqm:           toFloat(area),
		EstimatedCost:           toFloat(cost),
		MonthlyGridCost:         toFloat(gridCost),
		PaybackYears:            toFloat(payback),
		UsableBatteryKWh:        toFloat(usable),
		BatteryCapacityAh:       toFloat(capacityAh),
		BatteryCount150Ah:       int(count.IntPart()),
	}, nil
}

// checkAssumptions rejeita divisores inválidos antes do cálculo
func checkAssumptions(sunHours, gridRate float64) error {
	if !finite(sunHours) || sunHours <= 0 {
		return fmt.Errorf("%w: horas de sol devem ser positivas", model.ErrInvalidInput)
	}
	if !finite(gridRate) || gridRate <= 0 {
		return fmt.Errorf("%w: tarifa da rede deve ser positiva", model.ErrInvalidInput)
	}
	return nil
}
