package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbbhati/solar-estimator/internal/catalog"
	"github.com/rbbhati/solar-estimator/internal/estimator"
	"github.com/rbbhati/solar-estimator/internal/logger"
	"github.com/rbbhati/solar-estimator/internal/metrics"
	"github.com/rbbhati/solar-estimator/internal/model"
)

// EstimationService orquestra a estimativa: resolve horas de sol, aplica os
// limites do formulário, executa o motor e opcionalmente a projeção.
type EstimationService struct {
	engine   *estimator.Engine
	defaults model.ProjectionInput
}

// NewEstimationService cria o serviço; defaults preenche os campos omitidos das projeções
func NewEstimationService(engine *estimator.Engine, defaults model.ProjectionInput) *EstimationService {
	return &EstimationService{
		engine:   engine,
		defaults: defaults,
	}
}

// CostPerKW retorna o custo por kW usado pelo motor
func (s *EstimationService) CostPerKW() float64 {
	return s.engine.Params().CostPerKW
}

// EstimationResult contém o resultado de uma ação "Estimar"
type EstimationResult struct {
	Location   string                  `json:"location"`
	SunHours   float64                 `json:"sun_hours"`
	Preset     string                  `json:"preset,omitempty"`
	Input      model.EstimationInput   `json:"input"`
	Output     model.EstimationOutput  `json:"output"`
	Projection *model.ProjectionSeries `json:"projection,omitempty"`
	Warnings   []string                `json:"warnings,omitempty"`
}

// Report monta o relatório a partir do resultado
func (r *EstimationResult) Report() model.Report {
	return NewReport(r.Location, r.Preset, r.Output, r.Projection)
}

// BuildInput converte a requisição na entrada do motor e valida os limites do formulário
func (s *EstimationService) BuildInput(req model.EstimateRequest) (model.EstimationInput, string, string, error) {
	location := LocationLabel(req.City)

	if err := ValidateRequest(req); err != nil {
		return model.EstimationInput{}, location, "", err
	}

	sunHours, err := catalog.ResolveSunHours(req.City, req.SunHoursPerDay)
	if err != nil {
		return model.EstimationInput{}, location, "", err
	}

	switch req.Mode {
	case model.ModeBill:
		return model.NewBillEstimation(model.BillInput{
			MonthlyUsageKWh: req.MonthlyUsageKWh,
			GridRatePerUnit: req.GridRatePerUnit,
			SunHoursPerDay:  sunHours,
		}), location, "", nil

	case model.ModeAppliance:
		preset := req.Preset
		if preset == "" {
			preset = catalog.PresetCustom
		}

		// Lista explícita substitui o perfil; o perfil vira apenas o rótulo
		appliances := req.Appliances
		if len(appliances) == 0 {
			appliances, err = catalog.PresetAppliances(preset)
			if err != nil {
				return model.EstimationInput{}, location, "", err
			}
		}

		if err := ValidateAppliances(appliances); err != nil {
			return model.EstimationInput{}, location, "", err
		}
		return model.NewApplianceEstimation(model.ApplianceInput{
			Appliances:      appliances,
			GridRatePerUnit: req.GridRatePerUnit,
			SunHoursPerDay:  sunHours,
		}), location, preset, nil

	default:
		return model.EstimationInput{}, location, "", fmt.Errorf("%w: modo desconhecido %q", model.ErrInvalidInput, req.Mode)
	}
}

// Estimate executa uma estimativa completa a partir da requisição
func (s *EstimationService) Estimate(ctx context.Context, req model.EstimateRequest) (*EstimationResult, error) {
	log := logger.Get(ctx)

	in, location, preset, err := s.BuildInput(req)
	if err != nil {
		metrics.Get().IncrementEstimate(string(req.Mode), false)
		logger.AuditOperation(ctx, logger.AuditActionEstimateCreate, "estimate", string(req.Mode), nil, err)
		return nil, err
	}

	out, err := s.engine.Estimate(in)
	metrics.Get().IncrementEstimate(string(req.Mode), err == nil)
	if err != nil {
		logger.AuditOperation(ctx, logger.AuditActionEstimateCreate, "estimate", string(req.Mode), nil, err)
		return nil, fmt.Errorf("calcular estimativa: %w", err)
	}

	result := &EstimationResult{
		Location: location,
		SunHours: out.SunHoursPerDay,
		Preset:   preset,
		Input:    in,
		Output:   out,
	}

	if req.AvailableAreaSqm > 0 && out.AreaNeededSqm > req.AvailableAreaSqm {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Required area %.2f sq. meters exceeds the available %.2f sq. meters", out.AreaNeededSqm, req.AvailableAreaSqm))
	}

	logger.AuditOperation(ctx, logger.AuditActionEstimateCreate, "estimate", string(req.Mode), map[string]interface{}{
		"location":    location,
		"required_kw": out.RequiredSystemKW,
		"monthly_kwh": out.MonthlyEnergyKWh,
	}, nil)

	log.Info().
		Str("mode", string(out.Mode)).
		Str("location", location).
		Float64("required_kw", out.RequiredSystemKW).
		Float64("payback_years", out.PaybackYears).
		Msg("Estimativa calculada")

	if req.Projection != nil {
		series, err := s.Project(ctx, out, *req.Projection)
		if err != nil {
			return nil, err
		}
		result.Projection = &series
	}

	return result, nil
}

// Project executa a projeção plurianual sobre uma estimativa já calculada
func (s *EstimationService) Project(ctx context.Context, out model.EstimationOutput, opts model.ProjectionOptions) (model.ProjectionSeries, error) {
	in := s.withDefaults(opts)

	series, err := estimator.Project(out, in)
	metrics.Get().IncrementProjection(err == nil)
	if err != nil {
		logger.AuditOperation(ctx, logger.AuditActionProjectionRun, "projection", string(in.Method), nil, err)
		return model.ProjectionSeries{}, fmt.Errorf("calcular projeção: %w", err)
	}

	logger.AuditOperation(ctx, logger.AuditActionProjectionRun, "projection", string(series.Method), map[string]interface{}{
		"horizon_years":   len(series.Points),
		"payback_year":    series.PaybackYear,
		"payback_reached": series.PaybackReached,
	}, nil)

	return series, nil
}

// DefaultProjection retorna a entrada de projeção configurada
func (s *EstimationService) DefaultProjection() model.ProjectionInput {
	return s.defaults
}

// withDefaults completa as opções com os valores configurados. Só campos
// omitidos são substituídos; 0% explícito é mantido.
func (s *EstimationService) withDefaults(opts model.ProjectionOptions) model.ProjectionInput {
	in := s.defaults

	if opts.GridRate != 0 {
		in.GridRate = opts.GridRate
	}
	if opts.Method != "" {
		in.Method = opts.Method
	}
	if opts.HorizonYears != 0 {
		in.HorizonYears = opts.HorizonYears
	}
	if opts.InflationPct != nil {
		in.InflationPct = *opts.InflationPct
	}
	if opts.DegradationPct != nil {
		in.DegradationPct = *opts.DegradationPct
	}
	if opts.InstallCostPerKW != 0 {
		in.InstallCostPerKW = opts.InstallCostPerKW
	}
	return in
}

// LocationLabel retorna o nome exibido da cidade, com a grafia do catálogo
func LocationLabel(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return catalog.UnknownLocation
	}
	for _, c := range catalog.Cities() {
		if strings.EqualFold(c.Name, city) {
			return c.Name
		}
	}
	return city
}
