package catalog

import (
	"fmt"

	"github.com/rbbhati/solar-estimator/internal/model"
)

// Nomes dos perfis de residência
const (
	PresetCustom = "Custom (Manual Entry)"
	PresetRural  = "Basic Rural Home"
	PresetUrban  = "Urban Middle-Class Flat"
	PresetVilla  = "Modern Urban Villa"
)

// Preset é um modelo nomeado de entrada do modo aparelhos
type Preset struct {
	Name       string                 `json:"name"`
	Appliances []model.ApplianceUsage `json:"appliances"`
}

var presets = []Preset{
	{Name: PresetCustom},
	{
		Name: PresetRural,
		Appliances: []model.ApplianceUsage{
			{Type: model.ApplianceFan, Count: 2, HoursPerDay: 6},
			{Type: model.ApplianceBulb, Count: 4, HoursPerDay: 6},
			{Type: model.ApplianceTV, Enabled: true, HoursPerDay: 3},
			{Type: model.ApplianceFridge, Enabled: true},
			{Type: model.ApplianceRouter, Enabled: true},
			{Type: model.ApplianceMobile, Count: 2, HoursPerDay: 2},
		},
	},
	{
		Name: PresetUrban,
		Appliances: []model.ApplianceUsage{
			{Type: model.ApplianceFan, Count: 3, HoursPerDay: 6},
			{Type: model.ApplianceBulb, Count: 6, HoursPerDay: 5},
			{Type: model.ApplianceTV, Enabled: true, HoursPerDay: 3},
			{Type: model.ApplianceFridge, Enabled: true},
			{Type: model.ApplianceRouter, Enabled: true},
			{Type: model.ApplianceMobile, Count: 3, HoursPerDay: 2},
			{Type: model.ApplianceLaptop, Count: 1, HoursPerDay: 5},
			{Type: model.ApplianceWashing, Enabled: true, HoursPerDay: 0.5},
			{Type: model.AppliancePurifier, Enabled: true, HoursPerDay: 2},
			{Type: model.ApplianceOven, Enabled: true, MinutesPerDay: 15},
		},
	},
	{
		Name: PresetVilla,
		Appliances: []model.ApplianceUsage{
			{Type: model.ApplianceFan, Count: 4, HoursPerDay: 6},
			{Type: model.ApplianceBulb, Count: 10, HoursPerDay: 5},
			{Type: model.ApplianceTV, Enabled: true, HoursPerDay: 3},
			{Type: model.ApplianceFridge, Enabled: true},
			{Type: model.ApplianceRouter, Enabled: true},
			{Type: model.ApplianceMobile, Count: 4, HoursPerDay: 2},
			{Type: model.ApplianceLaptop, Count: 2, HoursPerDay: 4},
			{Type: model.ApplianceAC, Enabled: true, HoursPerDay: 5},
			{Type: model.ApplianceWashing, Enabled: true, HoursPerDay: 1},
			{Type: model.AppliancePurifier, Enabled: true, HoursPerDay: 2},
			{Type: model.ApplianceOven, Enabled: true, MinutesPerDay: 30},
		},
	},
}

// Presets lista os perfis disponíveis, com o personalizado primeiro
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, Preset{Name: p.Name, Appliances: expand(p.Appliances)})
	}
	return out
}

// PresetAppliances retorna a lista completa de aparelhos de um perfil,
// uma entrada por tipo do catálogo. Tipos ausentes no perfil ficam desligados.
// Nome vazio equivale ao perfil personalizado.
func PresetAppliances(name string) ([]model.ApplianceUsage, error) {
	if name == "" {
		name = PresetCustom
	}
	for _, p := range presets {
		if p.Name == name {
			return expand(p.Appliances), nil
		}
	}
	return nil, fmt.Errorf("%w: perfil desconhecido %q", model.ErrInvalidInput, name)
}

func expand(defined []model.ApplianceUsage) []model.ApplianceUsage {
	byType := make(map[model.ApplianceType]model.ApplianceUsage, len(defined))
	for _, u := range defined {
		byType[u.Type] = u
	}

	out := make([]model.ApplianceUsage, 0, len(appliances))
	for _, spec := range appliances {
		if u, ok := byType[spec.Type]; ok {
			out = append(out, u)
			continue
		}
		out = append(out, model.ApplianceUsage{Type: spec.Type})
	}
	return out
}
