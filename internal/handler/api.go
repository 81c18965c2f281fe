package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rbbhati/solar-estimator/internal/catalog"
	"github.com/rbbhati/solar-estimator/internal/logger"
	"github.com/rbbhati/solar-estimator/internal/middleware"
	"github.com/rbbhati/solar-estimator/internal/model"
	"github.com/rbbhati/solar-estimator/internal/service"
)

// APIHandler expõe o estimador como API JSON
type APIHandler struct {
	estimation *service.EstimationService
	reports    *service.ReportService
	quotes     *service.QuoteService
}

// NewAPIHandler cria um novo handler da API
func NewAPIHandler(estimation *service.EstimationService, reports *service.ReportService, quotes *service.QuoteService) *APIHandler {
	return &APIHandler{
		estimation: estimation,
		reports:    reports,
		quotes:     quotes,
	}
}

// Register registra as rotas da API no grupo informado
func (h *APIHandler) Register(api *gin.RouterGroup) {
	api.POST("/estimate", h.Estimate)
	api.POST("/projection", h.Projection)
	api.POST("/reports", h.Report)
	api.POST("/quotes", h.Quote)

	api.GET("/cities", h.Cities)
	api.GET("/presets", h.Presets)
	api.GET("/appliances", h.Appliances)
	api.GET("/installers", h.Installers)
}

// Estimate calcula uma estimativa
// @Summary      Calcula a estimativa solar
// @Tags         estimate
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.EstimateRequest true "Entrada da estimativa"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Failure      422 {object} model.ErrorResponse
// @Router       /api/v1/estimate [post]
func (h *APIHandler) Estimate(c *gin.Context) {
	var req model.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.estimation.Estimate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    result,
		Meta: &model.Meta{
			Mode:      result.Output.Mode,
			Location:  result.Location,
			Preset:    result.Preset,
			CostPerKW: result.Output.CostPerKW,
		},
		Errors: result.Warnings,
	})
}

// Projection projeta custos sobre uma estimativa já calculada
// @Summary      Projeção plurianual rede x solar
// @Tags         estimate
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.ProjectionRequest true "Saída da estimativa e premissas"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/projection [post]
func (h *APIHandler) Projection(c *gin.Context) {
	var req model.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	series, err := h.estimation.Project(c.Request.Context(), req.Output, req.Projection)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    series,
	})
}

// Report calcula a estimativa e devolve o relatório como arquivo
// @Summary      Gera o relatório da estimativa
// @Tags         reports
// @Accept       json
// @Produce      text/plain,text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        format query string false "txt, csv ou xlsx"
// @Param        request body model.ReportRequest true "Estimativa e formato"
// @Success      200 {file} binary "Relatório"
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/reports [post]
func (h *APIHandler) Report(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	raw := req.Format
	if q := c.Query("format"); q != "" {
		raw = q
	}
	format, err := service.ParseReportFormat(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.estimation.Estimate(c.Request.Context(), req.Estimate)
	if err != nil {
		respondError(c, err)
		return
	}

	rendered, err := h.reports.Render(c.Request.Context(), format, result.Report())
	if err != nil {
		respondError(c, err)
		return
	}

	sendReport(c, rendered)
}

// Quote registra um pedido de orçamento
// @Summary      Pede orçamento a um instalador
// @Tags         installers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.QuoteRequest true "Dados de contato"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Failure      404 {object} model.ErrorResponse
// @Failure      429 {object} model.ErrorResponse
// @Router       /api/v1/quotes [post]
func (h *APIHandler) Quote(c *gin.Context) {
	var req model.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	middleware.SanitizeQuoteRequest(&req)

	// Sem sessão na API: o limite é por IP
	confirmation, err := h.quotes.Submit(c.Request.Context(), "ip:"+c.ClientIP(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    confirmation,
	})
}

// Cities lista as cidades e horas de sol
func (h *APIHandler) Cities(c *gin.Context) {
	c.JSON(http.StatusOK, model.Response{Success: true, Data: catalog.Cities()})
}

// Presets lista os perfis de residência
func (h *APIHandler) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, model.Response{Success: true, Data: catalog.Presets()})
}

// Appliances lista o catálogo de aparelhos
func (h *APIHandler) Appliances(c *gin.Context) {
	c.JSON(http.StatusOK, model.Response{Success: true, Data: catalog.Appliances()})
}

// installerQuote é um instalador com o preço indicativo para o sistema pedido
type installerQuote struct {
	catalog.Installer
	Quote float64 `json:"indicative_quote,omitempty"`
}

// Installers lista os instaladores; system_kw opcional calcula o preço indicativo
func (h *APIHandler) Installers(c *gin.Context) {
	var systemKW float64
	if raw := c.Query("system_kw"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			respondError(c, fmt.Errorf("%w: system_kw inválido %q", model.ErrInvalidInput, raw))
			return
		}
		systemKW = v
	}

	logger.FromGin(c).Debug().Float64("system_kw", systemKW).Msg("Listando instaladores")
	c.JSON(http.StatusOK, model.Response{Success: true, Data: installerQuotes(systemKW)})
}

func installerQuotes(systemKW float64) []installerQuote {
	installers := catalog.Installers()
	out := make([]installerQuote, 0, len(installers))
	for _, i := range installers {
		out = append(out, installerQuote{Installer: i, Quote: i.IndicativeQuote(systemKW)})
	}
	return out
}

// sendReport escreve o relatório como download
func sendReport(c *gin.Context, r *service.RenderedReport) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", r.Filename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(r.Body)))
	c.Data(http.StatusOK, r.ContentType, r.Body)
}
