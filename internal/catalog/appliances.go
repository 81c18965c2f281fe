package catalog

import "github.com/rbbhati/solar-estimator/internal/model"

// ApplianceSpec descreve um tipo de aparelho e os limites do formulário
type ApplianceSpec struct {
	Type        model.ApplianceType `json:"type"`
	Label       string              `json:"label"`
	PowerWatts  float64             `json:"power_watts"`
	AlwaysOn    bool                `json:"always_on,omitempty"`
	Countable   bool                `json:"countable,omitempty"`
	UsesMinutes bool                `json:"uses_minutes,omitempty"`
	MaxCount    int                 `json:"max_count,omitempty"`

	// MaxUsage é o limite de horas/dia (ou minutos/dia quando UsesMinutes)
	MaxUsage float64 `json:"max_usage"`
}

var appliances = []ApplianceSpec{
	{Type: model.ApplianceFan, Label: "Ceiling Fans", PowerWatts: 75, Countable: true, MaxCount: 10, MaxUsage: 24},
	{Type: model.ApplianceBulb, Label: "LED Bulbs", PowerWatts: 9, Countable: true, MaxCount: 20, MaxUsage: 24},
	{Type: model.ApplianceFridge, Label: "Refrigerator", PowerWatts: 150, AlwaysOn: true, MaxUsage: 24},
	{Type: model.ApplianceRouter, Label: "Wi-Fi Router", PowerWatts: 10, AlwaysOn: true, MaxUsage: 24},
	{Type: model.ApplianceTV, Label: "TV", PowerWatts: 100, MaxUsage: 24},
	{Type: model.ApplianceMobile, Label: "Mobile Chargers", PowerWatts: 10, Countable: true, MaxCount: 10, MaxUsage: 24},
	{Type: model.ApplianceLaptop, Label: "Laptops", PowerWatts: 60, Countable: true, MaxCount: 5, MaxUsage: 24},
	{Type: model.ApplianceAC, Label: "Air Conditioner", PowerWatts: 1500, MaxUsage: 24},
	{Type: model.ApplianceWashing, Label: "Washing Machine", PowerWatts: 500, MaxUsage: 4},
	{Type: model.AppliancePurifier, Label: "Water Purifier (RO)", PowerWatts: 50, MaxUsage: 24},
	{Type: model.ApplianceOven, Label: "Microwave/Oven", PowerWatts: 1200, UsesMinutes: true, MaxUsage: 60},
}

// Appliances retorna o catálogo na ordem do formulário
func Appliances() []ApplianceSpec {
	out := make([]ApplianceSpec, len(appliances))
	copy(out, appliances)
	return out
}

// Appliance busca a especificação de um tipo
func Appliance(t model.ApplianceType) (ApplianceSpec, bool) {
	for _, a := range appliances {
		if a.Type == t {
			return a, true
		}
	}
	return ApplianceSpec{}, false
}

// Units retorna quantas unidades de um aparelho estão ligadas.
// Aparelhos não contáveis valem uma unidade quando habilitados.
func (s ApplianceSpec) Units(u model.ApplianceUsage) int {
	if s.Countable {
		if u.Count < 0 {
			return 0
		}
		return u.Count
	}
	if u.Enabled {
		return 1
	}
	return 0
}

// Usage retorna o valor de uso informado no campo relevante (horas ou minutos)
func (s ApplianceSpec) Usage(u model.ApplianceUsage) float64 {
	if s.UsesMinutes {
		return u.MinutesPerDay
	}
	return u.HoursPerDay
}
