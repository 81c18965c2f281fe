package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbbhati/solar-estimator/internal/logger"
	"github.com/rbbhati/solar-estimator/internal/model"
)

// apiError é a tradução de um erro de domínio para HTTP
type apiError struct {
	status  int
	message string
	details string
	fields  []model.FieldError
}

// translateError mapeia os erros sentinela para status e mensagem exibida
func translateError(err error) apiError {
	var verr *model.ValidationError

	switch {
	case errors.As(err, &verr):
		return apiError{http.StatusBadRequest, "Please correct the errors before submitting.", "", verr.Fields}
	case errors.Is(err, model.ErrInvalidInput):
		return apiError{http.StatusBadRequest, "Invalid input.", err.Error(), nil}
	case errors.Is(err, model.ErrInvalidStep):
		return apiError{http.StatusBadRequest, "That action is not available at this step.", err.Error(), nil}
	case errors.Is(err, model.ErrDivisionByZero):
		return apiError{http.StatusUnprocessableEntity, "Usage is too low to size a system; enter a non-zero consumption.", err.Error(), nil}
	case errors.Is(err, model.ErrEstimationRequired):
		return apiError{http.StatusConflict, "Please run an estimate first.", "", nil}
	case errors.Is(err, model.ErrRateLimited):
		return apiError{http.StatusTooManyRequests, "Too many quote requests, please wait a minute and try again.", "", nil}
	case errors.Is(err, model.ErrUnknownInstaller):
		return apiError{http.StatusNotFound, "Installer not found.", err.Error(), nil}
	case errors.Is(err, model.ErrSessionNotFound):
		return apiError{http.StatusNotFound, "Session expired, please start again.", "", nil}
	default:
		return apiError{http.StatusInternalServerError, "Internal error.", "", nil}
	}
}

// respondError escreve o ErrorResponse padrão da API
func respondError(c *gin.Context, err error) {
	e := translateError(err)

	log := logger.FromGin(c)
	if e.status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Erro interno")
	} else {
		log.Warn().Err(err).Int("status", e.status).Msg("Requisição rejeitada")
	}

	c.JSON(e.status, model.ErrorResponse{
		Success: false,
		Error:   e.message,
		Details: e.details,
		Fields:  e.fields,
	})
}

// respondBindError responde a payloads que não passaram no binding do gin
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Success: false,
		Error:   "payload inválido",
		Details: err.Error(),
	})
}
