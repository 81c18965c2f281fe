package service

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/rbbhati/solar-estimator/internal/catalog"
	"github.com/rbbhati/solar-estimator/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

// ValidateRequest aplica os limites declarados nas tags binding da requisição.
// A API já os aplica no ShouldBindJSON; o assistente monta a requisição a partir
// do formulário e passa por aqui.
func ValidateRequest(req model.EstimateRequest) error {
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return nil
}

// ValidateAppliances aplica os limites do catálogo a cada aparelho
func ValidateAppliances(appliances []model.ApplianceUsage) error {
	for _, u := range appliances {
		spec, ok := catalog.Appliance(u.Type)
		if !ok {
			return fmt.Errorf("%w: aparelho desconhecido %q", model.ErrInvalidInput, u.Type)
		}

		if spec.Countable && (u.Count < 0 || u.Count > spec.MaxCount) {
			return fmt.Errorf("%w: %s aceita de 0 a %d unidades", model.ErrInvalidInput, spec.Label, spec.MaxCount)
		}

		usage := spec.Usage(u)
		if spec.Units(u) > 0 && !spec.AlwaysOn && (!isFinite(usage) || usage < 0 || usage > spec.MaxUsage) {
			return fmt.Errorf("%w: uso diário de %s deve estar entre 0 e %g", model.ErrInvalidInput, spec.Label, spec.MaxUsage)
		}
	}
	return nil
}

// ValidateContact valida o formulário de orçamento e retorna todos os campos
// inválidos de uma vez.
func ValidateContact(req model.QuoteRequest) error {
	verr := &model.ValidationError{}

	if strings.TrimSpace(req.Name) == "" {
		verr.Add("name", "Full Name is required.")
	}
	if !validPhone(req.Phone) {
		verr.Add("phone", "Phone Number must be 10 digits.")
	}
	if !emailPattern.MatchString(req.Email) {
		verr.Add("email", "Enter a valid Email Address.")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// validPhone exige exatamente 10 dígitos ASCII
func validPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
