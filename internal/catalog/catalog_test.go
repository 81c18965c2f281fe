package catalog

import (
	"errors"
	"testing"

	"github.com/rbbhati/solar-estimator/internal/model"
)

func TestResolveSunHours(t *testing.T) {
	tests := []struct {
		name    string
		city    string
		manual  float64
		want    float64
		wantErr bool
	}{
		{"fixed city ignores manual value", "Delhi", 2, 5.5, false},
		{"case insensitive", "jaipur", 0, 5.7, false},
		{"custom uses manual", CustomCity, 6.2, 6.2, false},
		{"empty city uses manual", "", 3, 3, false},
		{"manual below range", CustomCity, 0.9, 0, true},
		{"manual above range", "", 7.1, 0, true},
		{"unknown city", "Gotham", 5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSunHours(tt.city, tt.manual)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ResolveSunHours(%q, %v) = %v, %v; want %v", tt.city, tt.manual, got, err, tt.want)
			}
		})
	}
}

func TestCitiesCustomLast(t *testing.T) {
	list := Cities()
	if !list[len(list)-1].Custom {
		t.Error("custom option should be listed last")
	}

	list[0].SunHours = 99
	if h, _ := SunHours("Delhi"); h != 5.5 {
		t.Error("Cities must return a copy")
	}
}

func TestPresetAppliances(t *testing.T) {
	for _, p := range Presets() {
		got, err := PresetAppliances(p.Name)
		if err != nil {
			t.Fatalf("%s: %v", p.Name, err)
		}
		if len(got) != len(Appliances()) {
			t.Errorf("%s: expected one entry per catalog appliance, got %d", p.Name, len(got))
		}
		for i, spec := range Appliances() {
			if got[i].Type != spec.Type {
				t.Errorf("%s: entry %d = %s, want %s", p.Name, i, got[i].Type, spec.Type)
			}
		}
	}

	custom, _ := PresetAppliances("")
	for _, u := range custom {
		if u.Enabled || u.Count != 0 {
			t.Errorf("custom preset should start with everything off, got %+v", u)
		}
	}

	if _, err := PresetAppliances("Castle"); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestApplianceUnitsAndUsage(t *testing.T) {
	fan, _ := Appliance(model.ApplianceFan)
	tv, _ := Appliance(model.ApplianceTV)
	oven, _ := Appliance(model.ApplianceOven)

	if fan.Units(model.ApplianceUsage{Count: 3}) != 3 || fan.Units(model.ApplianceUsage{Count: -2}) != 0 {
		t.Error("countable units should follow Count and never go negative")
	}
	if tv.Units(model.ApplianceUsage{Enabled: true}) != 1 || tv.Units(model.ApplianceUsage{}) != 0 {
		t.Error("toggle appliances count as one unit when enabled")
	}
	if oven.Usage(model.ApplianceUsage{HoursPerDay: 2, MinutesPerDay: 15}) != 15 {
		t.Error("oven usage should be read from minutes")
	}
	if _, ok := Appliance("heater"); ok {
		t.Error("unknown appliance should not be found")
	}
}

func TestInstallers(t *testing.T) {
	installer, err := FindInstaller("SolarTech Pvt Ltd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := installer.IndicativeQuote(2.5); got != 130000 {
		t.Errorf("quote = %v, want 130000", got)
	}
	if got := installer.IndicativeQuote(0); got != 0 {
		t.Errorf("quote for 0 kW = %v, want 0", got)
	}

	if _, err := FindInstaller("solartech pvt ltd"); !errors.Is(err, model.ErrUnknownInstaller) {
		t.Errorf("installer lookup is exact, got %v", err)
	}
	if len(Installers()) != 3 {
		t.Errorf("expected 3 installers, got %d", len(Installers()))
	}
}
