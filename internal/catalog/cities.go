// Package catalog contém os dados de referência estáticos do estimador:
// horas de sol por cidade, potência dos aparelhos, perfis de residência e instaladores.
package catalog

import (
	"fmt"
	"strings"

	"github.com/rbbhati/solar-estimator/internal/model"
)

// CustomCity é a opção que pede as horas de sol manualmente
const CustomCity = "Custom (Enter manually)"

const (
	// DefaultSunHours é o valor inicial do campo manual
	DefaultSunHours = 5.0
	// MinSunHours e MaxSunHours delimitam a entrada manual
	MinSunHours = 1.0
	MaxSunHours = 7.0
	// UnknownLocation é exibido quando nenhuma cidade foi escolhida
	UnknownLocation = "Unknown Location"
)

// City associa uma cidade à média diária de horas de sol pleno
type City struct {
	Name     string  `json:"name"`
	SunHours float64 `json:"sun_hours"`
	Custom   bool    `json:"custom,omitempty"`
}

var cities = []City{
	{Name: "Delhi", SunHours: 5.5},
	{Name: "Mumbai", SunHours: 4.5},
	{Name: "Chennai", SunHours: 5.3},
	{Name: "Bangalore", SunHours: 5.2},
	{Name: "Hyderabad", SunHours: 5.4},
	{Name: "Ahmedabad", SunHours: 5.6},
	{Name: "Kolkata", SunHours: 4.8},
	{Name: "Jaipur", SunHours: 5.7},
	{Name: "Lucknow", SunHours: 5.2},
	{Name: CustomCity, Custom: true},
}

// Cities retorna a tabela na ordem de exibição, com a opção manual por último
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

// SunHours busca as horas de sol de uma cidade fixa
func SunHours(city string) (float64, bool) {
	for _, c := range cities {
		if !c.Custom && strings.EqualFold(c.Name, city) {
			return c.SunHours, true
		}
	}
	return 0, false
}

// ResolveSunHours resolve as horas de sol antes do cálculo.
// Cidade vazia ou CustomCity usam o valor manual, que deve estar em [1,7].
func ResolveSunHours(city string, manual float64) (float64, error) {
	city = strings.TrimSpace(city)
	if city != "" && city != CustomCity {
		hours, ok := SunHours(city)
		if !ok {
			return 0, fmt.Errorf("%w: cidade desconhecida %q", model.ErrInvalidInput, city)
		}
		return hours, nil
	}

	if manual < MinSunHours || manual > MaxSunHours {
		return 0, fmt.Errorf("%w: horas de sol devem estar entre %.0f e %.0f", model.ErrInvalidInput, MinSunHours, MaxSunHours)
	}
	return manual, nil
}
