package estimator

import (
	"errors"
	"math"
	"testing"

	"github.com/rbbhati/solar-estimator/internal/catalog"
	"github.com/rbbhati/solar-estimator/internal/model"
)

func TestEstimateBill_DelhiScenario(t *testing.T) {
	engine := NewEngine(DefaultParams())

	out, err := engine.EstimateBill(model.BillInput{
		MonthlyUsageKWh: 300,
		GridRatePerUnit: 8,
		SunHoursPerDay:  5.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"daily_energy_kwh", out.DailyEnergyKWh, 10.0},
		{"monthly_energy_kwh", out.MonthlyEnergyKWh, 300},
		{"annual_energy_kwh", out.AnnualEnergyKWh, 3600},
		{"solar_output_per_kw_per_year", out.SolarOutputPerKWPerYear, 2007.5},
		{"required_system_kw", out.RequiredSystemKW, 1.79},
		{"area_needed_sqm", out.AreaNeededSqm, 17.9},
		{"estimated_cost", out.EstimatedCost, 89500},
		{"monthly_grid_cost", out.MonthlyGridCost, 2400},
		{"payback_years", out.PaybackYears, 3.1},
		{"usable_battery_kwh", out.UsableBatteryKWh, 12.5},
		{"battery_capacity_ah", out.BatteryCapacityAh, 1042},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if out.BatteryCount150Ah != 7 {
		t.Errorf("battery_count_150ah = %d, want 7", out.BatteryCount150Ah)
	}
	if out.Mode != model.ModeBill || out.CostPerKW != DefaultCostPerKW {
		t.Errorf("assumptions not echoed: %+v", out)
	}
}

func TestEstimateBill_AlternateCostPerKW(t *testing.T) {
	engine := NewEngine(Params{CostPerKW: AlternateCostPerKW})

	out, err := engine.EstimateBill(model.BillInput{MonthlyUsageKWh: 300, GridRatePerUnit: 8, SunHoursPerDay: 5.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.EstimatedCost != 98450 {
		t.Errorf("estimated_cost = %v, want 98450", out.EstimatedCost)
	}
	if out.PaybackYears != 3.4 {
		t.Errorf("payback_years = %v, want 3.4", out.PaybackYears)
	}
	if engine.Params().AreaPerKW != DefaultAreaPerKW {
		t.Errorf("zero params should fall back to defaults, got %+v", engine.Params())
	}
}

func TestEstimateAppliances_FridgeAndRouterOnly(t *testing.T) {
	engine := NewEngine(DefaultParams())

	appliances, err := catalog.PresetAppliances(catalog.PresetCustom)
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	for i := range appliances {
		switch appliances[i].Type {
		case model.ApplianceFridge, model.ApplianceRouter:
			appliances[i].Enabled = true
		case model.ApplianceTV, model.ApplianceAC:
			// horas antigas com o aparelho desligado não podem contar
			appliances[i].HoursPerDay = 12
		}
	}

	out, err := engine.EstimateAppliances(model.ApplianceInput{
		Appliances:      appliances,
		GridRatePerUnit: 8,
		SunHoursPerDay:  5.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.DailyEnergyKWh != 3.84 {
		t.Errorf("daily_energy_kwh = %v, want 3.84", out.DailyEnergyKWh)
	}
	if out.MonthlyEnergyKWh != 115.2 {
		t.Errorf("monthly_energy_kwh = %v, want 115.2", out.MonthlyEnergyKWh)
	}
	if out.Mode != model.ModeAppliance {
		t.Errorf("mode = %q", out.Mode)
	}
}

func TestDailyEnergyWh_Presets(t *testing.T) {
	tests := []struct {
		preset string
		want   float64
	}{
		{catalog.PresetCustom, 0},
		{catalog.PresetRural, 5296},
		{catalog.PresetUrban, 6770},
		{catalog.PresetVilla, 15650},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			appliances, err := catalog.PresetAppliances(tt.preset)
			if err != nil {
				t.Fatalf("preset: %v", err)
			}
			wh, err := DailyEnergyWh(appliances)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := toFloat(wh); got != tt.want {
				t.Errorf("daily wh = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDailyEnergyWh_OvenMinutes(t *testing.T) {
	wh, err := DailyEnergyWh([]model.ApplianceUsage{
		{Type: model.ApplianceOven, Enabled: true, MinutesPerDay: 10, HoursPerDay: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := toFloat(wh); got != 200 {
		t.Errorf("oven wh = %v, want 200", got)
	}
}

func TestEstimateBill_ZeroUsage(t *testing.T) {
	engine := NewEngine(DefaultParams())

	_, err := engine.EstimateBill(model.BillInput{MonthlyUsageKWh: 0, GridRatePerUnit: 8, SunHoursPerDay: 5.5})
	if !errors.Is(err, model.ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestEstimateBill_TinyLoadRoundsToZeroSystem(t *testing.T) {
	engine := NewEngine(DefaultParams())

	out, err := engine.EstimateBill(model.BillInput{MonthlyUsageKWh: 0.5, GridRatePerUnit: 8, SunHoursPerDay: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.RequiredSystemKW != 0 || out.AreaNeededSqm != 0 || out.EstimatedCost != 0 {
		t.Errorf("expected zero sizing, got %+v", out)
	}
	if out.PaybackYears != 0 {
		t.Errorf("payback_years = %v, want 0", out.PaybackYears)
	}
	if out.MonthlyGridCost != 4 {
		t.Errorf("monthly_grid_cost = %v, want 4", out.MonthlyGridCost)
	}
}

func TestEstimate_InvalidInput(t *testing.T) {
	engine := NewEngine(DefaultParams())

	tests := []struct {
		name string
		in   model.EstimationInput
	}{
		{"zero sun hours", model.NewBillEstimation(model.BillInput{MonthlyUsageKWh: 300, GridRatePerUnit: 8})},
		{"negative rate", model.NewBillEstimation(model.BillInput{MonthlyUsageKWh: 300, GridRatePerUnit: -1, SunHoursPerDay: 5})},
		{"negative usage", model.NewBillEstimation(model.BillInput{MonthlyUsageKWh: -1, GridRatePerUnit: 8, SunHoursPerDay: 5})},
		{"nan usage", model.NewBillEstimation(model.BillInput{MonthlyUsageKWh: math.NaN(), GridRatePerUnit: 8, SunHoursPerDay: 5})},
		{"inf sun hours", model.NewBillEstimation(model.BillInput{MonthlyUsageKWh: 300, GridRatePerUnit: 8, SunHoursPerDay: math.Inf(1)})},
		{"unknown mode", model.EstimationInput{Mode: "solar"}},
		{"missing bill payload", model.EstimationInput{Mode: model.ModeBill}},
		{"both payloads", model.EstimationInput{
			Mode:      model.ModeBill,
			Bill:      &model.BillInput{MonthlyUsageKWh: 300, GridRatePerUnit: 8, SunHoursPerDay: 5},
			Appliance: &model.ApplianceInput{GridRatePerUnit: 8, SunHoursPerDay: 5},
		}},
		{"unknown appliance", model.NewApplianceEstimation(model.ApplianceInput{
			Appliances:      []model.ApplianceUsage{{Type: "heater", Enabled: true, HoursPerDay: 2}},
			GridRatePerUnit: 8,
			SunHoursPerDay:  5,
		})},
		{"negative count", model.NewApplianceEstimation(model.ApplianceInput{
			Appliances:      []model.ApplianceUsage{{Type: model.ApplianceFan, Count: -2, HoursPerDay: 2}},
			GridRatePerUnit: 8,
			SunHoursPerDay:  5,
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Estimate(tt.in)
			if !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestEstimate_SunHoursRoundingToZeroYield(t *testing.T) {
	engine := NewEngine(DefaultParams())

	_, err := engine.EstimateBill(model.BillInput{MonthlyUsageKWh: 300, GridRatePerUnit: 8, SunHoursPerDay: 0.0001})
	if !errors.Is(err, model.ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in     float64
		places int32
		want   float64
	}{
		{2.675, 2, 2.68},
		{1.005, 2, 1.01},
		{0.125, 2, 0.13},
		{-0.125, 2, -0.13},
		{1041.5, 0, 1042},
		{2.5, 0, 3},
	}
	for _, tt := range tests {
		if got := Round(tt.in, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
	if !math.IsNaN(Round(math.NaN(), 2)) {
		t.Error("Round(NaN) should pass NaN through")
	}
}
