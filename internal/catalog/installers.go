package catalog

import (
	"fmt"
	"math"

	"github.com/rbbhati/solar-estimator/internal/model"
)

// Installer é um instalador do diretório estático
type Installer struct {
	Name      string  `json:"name"`
	RatePerKW float64 `json:"rate_per_kw"`
	Warranty  string  `json:"warranty"`
	Rating    float64 `json:"rating"`
}

var installers = []Installer{
	{Name: "SolarTech Pvt Ltd", RatePerKW: 52000, Warranty: "10 Years", Rating: 4.6},
	{Name: "SunPro Installers", RatePerKW: 55000, Warranty: "12 Years", Rating: 4.8},
	{Name: "BrightFuture Solar", RatePerKW: 50000, Warranty: "8 Years", Rating: 4.5},
}

// Installers retorna o diretório de instaladores
func Installers() []Installer {
	out := make([]Installer, len(installers))
	copy(out, installers)
	return out
}

// FindInstaller busca um instalador pelo nome
func FindInstaller(name string) (Installer, error) {
	for _, i := range installers {
		if i.Name == name {
			return i, nil
		}
	}
	return Installer{}, fmt.Errorf("%w: %q", model.ErrUnknownInstaller, name)
}

// IndicativeQuote retorna o preço indicativo para um sistema de systemKW
func (i Installer) IndicativeQuote(systemKW float64) float64 {
	if systemKW <= 0 {
		return 0
	}
	return math.Round(i.RatePerKW * systemKW)
}
