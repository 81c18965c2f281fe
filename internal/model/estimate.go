package model

// Mode identifica o modo de estimativa
type Mode string

const (
	// ModeBill estima a partir do consumo mensal da conta de luz
	ModeBill Mode = "bill"
	// ModeAppliance estima a partir da lista de aparelhos
	ModeAppliance Mode = "appliance"
)

// Valid indica se o modo é conhecido
func (m Mode) Valid() bool {
	return m == ModeBill || m == ModeAppliance
}

// Label retorna o nome exibido no assistente
func (m Mode) Label() string {
	switch m {
	case ModeBill:
		return "Monthly Units Estimator"
	case ModeAppliance:
		return "Appliance-Based Estimator"
	default:
		return ""
	}
}

// ApplianceType identifica um tipo de aparelho do catálogo
type ApplianceType string

const (
	ApplianceFan      ApplianceType = "fan"
	ApplianceBulb     ApplianceType = "bulb"
	ApplianceFridge   ApplianceType = "fridge"
	ApplianceRouter   ApplianceType = "router"
	ApplianceTV       ApplianceType = "tv"
	ApplianceMobile   ApplianceType = "mobile"
	ApplianceLaptop   ApplianceType = "laptop"
	ApplianceAC       ApplianceType = "ac"
	ApplianceWashing  ApplianceType = "washing"
	AppliancePurifier ApplianceType = "ro"
	ApplianceOven     ApplianceType = "oven"
)

// BillInput é a entrada do modo conta de luz
type BillInput struct {
	MonthlyUsageKWh float64 `json:"monthly_usage_kwh"`
	GridRatePerUnit float64 `json:"grid_rate_per_unit"`
	SunHoursPerDay  float64 `json:"sun_hours_per_day"`
}

// ApplianceUsage representa o uso diário de um tipo de aparelho.
// Aparelhos contáveis usam Count; os demais usam Enabled.
// O forno informa MinutesPerDay em vez de HoursPerDay.
type ApplianceUsage struct {
	Type          ApplianceType `json:"type"`
	Enabled       bool          `json:"enabled,omitempty"`
	Count         int           `json:"count,omitempty"`
	HoursPerDay   float64       `json:"hours_per_day,omitempty"`
	MinutesPerDay float64       `json:"minutes_per_day,omitempty"`
}

// ApplianceInput é a entrada do modo aparelhos
type ApplianceInput struct {
	Appliances      []ApplianceUsage `json:"appliances"`
	GridRatePerUnit float64          `json:"grid_rate_per_unit"`
	SunHoursPerDay  float64          `json:"sun_hours_per_day"`
}

// EstimationInput é a entrada do motor, com exatamente um modo ativo
type EstimationInput struct {
	Mode      Mode            `json:"mode"`
	Bill      *BillInput      `json:"bill,omitempty"`
	Appliance *ApplianceInput `json:"appliance,omitempty"`
}

// NewBillEstimation monta uma entrada no modo conta de luz
func NewBillEstimation(in BillInput) EstimationInput {
	return EstimationInput{Mode: ModeBill, Bill: &in}
}

// NewApplianceEstimation monta uma entrada no modo aparelhos
func NewApplianceEstimation(in ApplianceInput) EstimationInput {
	return EstimationInput{Mode: ModeAppliance, Appliance: &in}
}

// EstimationOutput é o registro imutável produzido pelo motor.
// Os campos de premissa (modo, horas de sol, tarifa, custo por kW) são copiados
// da entrada para que relatórios não precisem da entrada original.
type EstimationOutput struct {
	Mode            Mode    `json:"mode"`
	SunHoursPerDay  float64 `json:"sun_hours_per_day"`
	GridRatePerUnit float64 `json:"grid_rate_per_unit"`
	CostPerKW       float64 `json:"cost_per_kw"`

	DailyEnergyKWh          float64 `json:"daily_energy_kwh"`
	MonthlyEnergyKWh        float64 `json:"monthly_energy_kwh"`
	AnnualEnergyKWh         float64 `json:"annual_energy_kwh"`
	SolarOutputPerKWPerYear float64 `json:"solar_output_per_kw_per_year"`
	RequiredSystemKW        float64 `json:"required_system_kw"`
	AreaNeededSqm           float64 `json:"area_needed_sqm"`
	EstimatedCost           float64 `json:"estimated_cost"`
	MonthlyGridCost         float64 `json:"monthly_grid_cost"`
	PaybackYears            float64 `json:"payback_years"`
	UsableBatteryKWh        float64 `json:"usable_battery_kwh"`
	BatteryCapacityAh       float64 `json:"battery_capacity_ah"`
	BatteryCount150Ah       int     `json:"battery_count_150ah"`
}

// MonthlySavings é a economia mensal exibida no resultado (igual à conta evitada)
func (o EstimationOutput) MonthlySavings() float64 {
	return o.MonthlyGridCost
}
