package model

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput indica entrada numérica ausente ou fora do intervalo
	ErrInvalidInput = errors.New("entrada inválida")

	// ErrDivisionByZero indica que um divisor do cálculo resultou em zero
	ErrDivisionByZero = errors.New("divisão por zero no cálculo")

	// ErrValidation indica campos inválidos no formulário de contato
	ErrValidation = errors.New("formulário inválido")

	// ErrEstimationRequired indica que a etapa exige uma estimativa concluída
	ErrEstimationRequired = errors.New("estimativa ainda não realizada")

	// ErrRateLimited indica excesso de solicitações de orçamento
	ErrRateLimited = errors.New("limite de solicitações excedido")

	// ErrSessionNotFound indica sessão do assistente ausente ou expirada
	ErrSessionNotFound = errors.New("sessão não encontrada")

	// ErrUnknownInstaller indica instalador fora do catálogo
	ErrUnknownInstaller = errors.New("instalador não encontrado")

	// ErrInvalidStep indica transição inválida no assistente
	ErrInvalidStep = errors.New("etapa inválida no assistente")
)

// FieldError descreve um campo inválido
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrega os erros de validação do formulário de contato
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Add registra um campo inválido
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors indica se algum campo foi rejeitado
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Unwrap permite errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
