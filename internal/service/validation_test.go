package service

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rbbhati/solar-estimator/internal/model"
)

func TestValidateRequest(t *testing.T) {
	valid := func(mod func(*model.EstimateRequest)) model.EstimateRequest {
		req := model.EstimateRequest{Mode: model.ModeBill, MonthlyUsageKWh: 300, GridRatePerUnit: 8, SunHoursPerDay: 5}
		if mod != nil {
			mod(&req)
		}
		return req
	}
	zero := 0.0
	minusOne := -1.0
	hundred := 100.0

	tests := []struct {
		name    string
		req     model.EstimateRequest
		wantErr bool
	}{
		{"valid", valid(nil), false},
		{"zero usage is accepted by the form", valid(func(r *model.EstimateRequest) { r.MonthlyUsageKWh = 0 }), false},
		{"negative usage", valid(func(r *model.EstimateRequest) { r.MonthlyUsageKWh = -1 }), true},
		{"NaN usage", valid(func(r *model.EstimateRequest) { r.MonthlyUsageKWh = math.NaN() }), true},
		{"rate below minimum", valid(func(r *model.EstimateRequest) { r.GridRatePerUnit = 0.99 }), true},
		{"rate missing", valid(func(r *model.EstimateRequest) { r.GridRatePerUnit = 0 }), true},
		{"unknown mode", valid(func(r *model.EstimateRequest) { r.Mode = "solar" }), true},
		{"sun hours below range", valid(func(r *model.EstimateRequest) { r.SunHoursPerDay = 0.5 }), true},
		{"sun hours above range", valid(func(r *model.EstimateRequest) { r.SunHoursPerDay = 7.5 }), true},
		{"sun hours at upper bound", valid(func(r *model.EstimateRequest) { r.SunHoursPerDay = 7 }), false},
		{"sun hours omitted", valid(func(r *model.EstimateRequest) { r.SunHoursPerDay = 0 }), false},
		{"negative area", valid(func(r *model.EstimateRequest) { r.AvailableAreaSqm = -5 }), true},
		{"negative inflation", valid(func(r *model.EstimateRequest) {
			r.Projection = &model.ProjectionOptions{InflationPct: &minusOne}
		}), true},
		{"degradation of 100%", valid(func(r *model.EstimateRequest) {
			r.Projection = &model.ProjectionOptions{DegradationPct: &hundred}
		}), true},
		{"explicit zero percentages", valid(func(r *model.EstimateRequest) {
			r.Projection = &model.ProjectionOptions{InflationPct: &zero, DegradationPct: &zero}
		}), false},
		{"horizon above limit", valid(func(r *model.EstimateRequest) {
			r.Projection = &model.ProjectionOptions{HorizonYears: 51}
		}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if tt.wantErr && !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateAppliances(t *testing.T) {
	tests := []struct {
		name    string
		in      model.ApplianceUsage
		wantErr bool
	}{
		{"valid", model.ApplianceUsage{Type: model.ApplianceFan, Count: 2, HoursPerDay: 6}, false},
		{"fan count at limit", model.ApplianceUsage{Type: model.ApplianceFan, Count: 10, HoursPerDay: 6}, false},
		{"fan count above limit", model.ApplianceUsage{Type: model.ApplianceFan, Count: 11, HoursPerDay: 6}, true},
		{"negative count", model.ApplianceUsage{Type: model.ApplianceBulb, Count: -1}, true},
		{"hours above 24", model.ApplianceUsage{Type: model.ApplianceTV, Enabled: true, HoursPerDay: 25}, true},
		{"washing above 4 hours", model.ApplianceUsage{Type: model.ApplianceWashing, Enabled: true, HoursPerDay: 4.5}, true},
		{"disabled appliance ignores hours", model.ApplianceUsage{Type: model.ApplianceWashing, HoursPerDay: 9}, false},
		{"always-on ignores hours", model.ApplianceUsage{Type: model.ApplianceFridge, Enabled: true, HoursPerDay: 99}, false},
		{"oven minutes at limit", model.ApplianceUsage{Type: model.ApplianceOven, Enabled: true, MinutesPerDay: 60}, false},
		{"oven minutes above limit", model.ApplianceUsage{Type: model.ApplianceOven, Enabled: true, MinutesPerDay: 61}, true},
		{"unknown appliance", model.ApplianceUsage{Type: "heater", Enabled: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAppliances([]model.ApplianceUsage{tt.in})
			if tt.wantErr && !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name       string
		req        model.QuoteRequest
		wantFields []string
	}{
		{"valid", model.QuoteRequest{Name: "Ravi", Phone: "9876543210", Email: "ravi@mail.in"}, nil},
		{"all empty", model.QuoteRequest{}, []string{"name", "phone", "email"}},
		{"phone with letters", model.QuoteRequest{Name: "Ravi", Phone: "98765abcde", Email: "ravi@mail.in"}, []string{"phone"}},
		{"phone too long", model.QuoteRequest{Name: "Ravi", Phone: "98765432101", Email: "ravi@mail.in"}, []string{"phone"}},
		{"email without dot", model.QuoteRequest{Name: "Ravi", Phone: "9876543210", Email: "ravi@mail"}, []string{"email"}},
		{"email without user", model.QuoteRequest{Name: "Ravi", Phone: "9876543210", Email: "@mail.in"}, []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContact(tt.req)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Fatalf("fields = %+v, want %v", verr.Fields, tt.wantFields)
			}
			for i, f := range verr.Fields {
				if f.Field != tt.wantFields[i] {
					t.Errorf("field %d = %q, want %q", i, f.Field, tt.wantFields[i])
				}
			}
		})
	}
}

// **Property 1: Phone validation accepts exactly ten digits**
// Para qualquer string numérica, o telefone é aceito se e somente se tiver 10 dígitos;
// qualquer caractere não numérico invalida o telefone.
func TestPhoneValidationProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("numeric strings are valid only with length 10", prop.ForAll(
		func(s string) bool {
			return validPhone(s) == (len(s) == 10)
		},
		gen.NumString(),
	))

	properties.Property("a letter anywhere invalidates the phone", prop.ForAll(
		func(pos int, letter rune) bool {
			phone := []rune("9876543210")
			phone[pos] = letter
			return !validPhone(string(phone))
		},
		gen.IntRange(0, 9),
		gen.AlphaChar(),
	))

	properties.TestingRun(t)
}

// **Property 2: Contact errors are reported together**
// Para qualquer combinação de campos inválidos, cada campo inválido aparece
// exatamente uma vez no erro de validação.
func TestContactErrorsReportedTogetherProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every invalid field is listed once", prop.ForAll(
		func(badName, badPhone, badEmail bool) bool {
			req := model.QuoteRequest{Name: "Ravi", Phone: "9876543210", Email: "ravi@mail.in"}
			want := 0
			if badName {
				req.Name = strings.Repeat(" ", 3)
				want++
			}
			if badPhone {
				req.Phone = "123"
				want++
			}
			if badEmail {
				req.Email = "ravi"
				want++
			}

			err := ValidateContact(req)
			if want == 0 {
				return err == nil
			}
			var verr *model.ValidationError
			return errors.As(err, &verr) && len(verr.Fields) == want
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
