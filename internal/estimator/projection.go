package estimator

import (
	"fmt"
	"math"

	"github.com/rbbhati/solar-estimator/internal/model"
)

const (
	DefaultHorizonYears     = 25
	MaxHorizonYears         = 50
	DefaultInstallCostPerKW = 75000.0
)

// Project gera a projeção plurianual de custo rede x solar a partir de uma
// estimativa. Campos zerados da entrada recebem os padrões: tarifa da
// estimativa, horizonte de 25 anos, método cumulative e 75000 por kW.
func Project(out model.EstimationOutput, in model.ProjectionInput) (model.ProjectionSeries, error) {
	in, err := normalizeProjection(out, in)
	if err != nil {
		return model.ProjectionSeries{}, err
	}

	series := model.ProjectionSeries{
		Method:         in.Method,
		InstallCost:    Round(out.RequiredSystemKW*in.InstallCostPerKW, 0),
		AnnualUnitsKWh: out.AnnualEnergyKWh,
		Points:         make([]model.ProjectionPoint, 0, in.HorizonYears),
	}

	inflation := in.InflationPct / 100
	degradation := in.DegradationPct / 100

	switch in.Method {
	case model.ProjectionSavings:
		projectSavings(&series, in.GridRate, inflation, degradation, in.HorizonYears)
	default:
		projectCumulative(&series, in.GridRate, inflation, degradation, in.HorizonYears)
	}

	if !series.PaybackReached {
		series.PaybackYear = in.HorizonYears
	}
	return series, nil
}

// projectCumulative: o custo solar acumulado começa no custo de instalação e
// cai a cada ano pelo valor da energia gerada, com piso em zero. O payback é o
// primeiro ano em que fica abaixo do custo acumulado da rede.
func projectCumulative(s *model.ProjectionSeries, rate, inflation, degradation float64, horizon int) {
	annual := s.AnnualUnitsKWh
	var cumGrid, cumSolar float64

	for y := 1; y <= horizon; y++ {
		rateY := rate * math.Pow(1+inflation, float64(y-1))
		solarUnits := annual * math.Pow(1-degradation, float64(y-1))
		gridCost := annual * rateY
		cumGrid += gridCost

		solarCost := 0.0
		if y == 1 {
			solarCost = s.InstallCost
			cumSolar = s.InstallCost
		} else {
			cumSolar = math.Max(0, cumSolar-solarUnits*rateY)
		}

		if !s.PaybackReached && cumSolar < cumGrid {
			s.PaybackYear = y
			s.PaybackReached = true
		}

		s.Points = append(s.Points, point(y, rateY, solarUnits, gridCost, solarCost, cumGrid, cumSolar, cumGrid-cumSolar))
	}

	s.TotalSavings = Round(cumGrid-cumSolar, 2)
}

// projectSavings: a economia anual é o valor da energia solar gerada; o custo
// solar anual é a compra residual da rede. O payback é o primeiro ano em que a
// economia acumulada cobre o custo de instalação.
func projectSavings(s *model.ProjectionSeries, rate, inflation, degradation float64, horizon int) {
	annual := s.AnnualUnitsKWh
	var cumGrid, cumSavings float64
	cumSolar := s.InstallCost

	for y := 1; y <= horizon; y++ {
		rateY := rate * math.Pow(1+inflation, float64(y-1))
		solarUnits := annual * math.Pow(1-degradation, float64(y-1))
		gridCost := annual * rateY
		solarCost := math.Max(0, annual-solarUnits) * rateY

		cumGrid += gridCost
		cumSolar += solarCost
		cumSavings += gridCost - solarCost

		if !s.PaybackReached && cumSavings >= s.InstallCost {
			s.PaybackYear = y
			s.PaybackReached = true
		}

		s.Points = append(s.Points, point(y, rateY, solarUnits, gridCost, solarCost, cumGrid, cumSolar, cumSavings))
	}

	s.TotalSavings = Round(cumSavings-s.InstallCost, 2)
}

func point(year int, rate, solarUnits, gridCost, solarCost, cumGrid, cumSolar, cumSavings float64) model.ProjectionPoint {
	return model.ProjectionPoint{
		Year:                year,
		GridRate:            Round(rate, 2),
		SolarUnitsKWh:       Round(solarUnits, 2),
		GridCost:            Round(gridCost, 2),
		SolarCost:           Round(solarCost, 2),
		CumulativeGridCost:  Round(cumGrid, 2),
		CumulativeSolarCost: Round(cumSolar, 2),
		CumulativeSavings:   Round(cumSavings, 2),
	}
}

func normalizeProjection(out model.EstimationOutput, in model.ProjectionInput) (model.ProjectionInput, error) {
	if !finite(out.AnnualEnergyKWh) || out.AnnualEnergyKWh < 0 || !finite(out.RequiredSystemKW) || out.RequiredSystemKW < 0 {
		return in, fmt.Errorf("%w: estimativa base inválida", model.ErrInvalidInput)
	}

	if in.GridRate == 0 {
		in.GridRate = out.GridRatePerUnit
	}
	if in.HorizonYears == 0 {
		in.HorizonYears = DefaultHorizonYears
	}
	if in.Method == "" {
		in.Method = model.ProjectionCumulative
	}
	if in.InstallCostPerKW == 0 {
		in.InstallCostPerKW = DefaultInstallCostPerKW
	}

	switch {
	case !finite(in.GridRate) || in.GridRate <= 0:
		return in, fmt.Errorf("%w: tarifa da projeção deve ser positiva", model.ErrInvalidInput)
	case !finite(in.InflationPct) || in.InflationPct < 0 || in.InflationPct > 100:
		return in, fmt.Errorf("%w: inflação deve estar entre 0 e 100%%", model.ErrInvalidInput)
	case !finite(in.DegradationPct) || in.DegradationPct < 0 || in.DegradationPct >= 100:
		return in, fmt.Errorf("%w: degradação deve estar entre 0 e 100%%", model.ErrInvalidInput)
	case in.HorizonYears < 1 || in.HorizonYears > MaxHorizonYears:
		return in, fmt.Errorf("%w: horizonte deve estar entre 1 e %d anos", model.ErrInvalidInput, MaxHorizonYears)
	case !in.Method.Valid():
		return in, fmt.Errorf("%w: método de projeção desconhecido %q", model.ErrInvalidInput, in.Method)
	case !finite(in.InstallCostPerKW) || in.InstallCostPerKW < 0:
		return in, fmt.Errorf("%w: custo de instalação por kW inválido", model.ErrInvalidInput)
	}

	return in, nil
}
