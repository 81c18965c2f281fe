package model

import "time"

// EstimateRequest representa o payload de entrada da API de estimativa
type EstimateRequest struct {
	Mode            Mode             `json:"mode" binding:"required,oneof=bill appliance"`
	City            string           `json:"city"`
	GridRatePerUnit float64          `json:"grid_rate_per_unit" binding:"required,gte=1"`
	MonthlyUsageKWh float64          `json:"monthly_usage_kwh" binding:"gte=0"`
	Preset          string           `json:"preset"`
	Appliances      []ApplianceUsage `json:"appliances"`

	// SunHoursPerDay só vale com a cidade "Custom" ou vazia
	SunHoursPerDay float64 `json:"sun_hours_per_day" binding:"omitempty,gte=1,lte=7"`

	// AvailableAreaSqm é opcional; quando informado gera aviso se a área necessária não couber
	AvailableAreaSqm float64 `json:"available_area_sqm,omitempty" binding:"omitempty,gte=0"`

	Projection *ProjectionOptions `json:"projection,omitempty"`
}

// ProjectionRequest representa o payload da API de projeção
type ProjectionRequest struct {
	Output     EstimationOutput  `json:"output"`
	Projection ProjectionOptions `json:"projection"`
}

// ReportRequest representa o payload da API de relatórios
type ReportRequest struct {
	Estimate EstimateRequest `json:"estimate"`
	Format   string          `json:"format" binding:"omitempty,oneof=txt csv xlsx"`
}

// QuoteRequest representa o formulário de contato com o instalador
type QuoteRequest struct {
	Installer       string  `json:"installer" form:"installer" binding:"required"`
	Name            string  `json:"name" form:"name"`
	Phone           string  `json:"phone" form:"phone"`
	Email           string  `json:"email" form:"email"`
	Location        string  `json:"location" form:"location"`
	SystemKW        float64 `json:"system_kw" form:"system_kw"`
	MonthlyUsageKWh float64 `json:"monthly_usage_kwh" form:"monthly_usage_kwh"`
}

// QuoteConfirmation é a resposta do envio de orçamento (sem backend real)
type QuoteConfirmation struct {
	ReferenceID    string    `json:"reference_id"`
	Installer      string    `json:"installer"`
	EstimatedPrice float64   `json:"estimated_price"`
	Message        string    `json:"message"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Response representa a resposta padrão da API
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// Meta contém metadados da resposta
type Meta struct {
	Mode      Mode    `json:"mode,omitempty"`
	Location  string  `json:"location,omitempty"`
	Preset    string  `json:"preset,omitempty"`
	CostPerKW float64 `json:"cost_per_kw,omitempty"`
}

// ErrorResponse representa uma resposta de erro
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}
