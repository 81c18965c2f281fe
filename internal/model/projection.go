package model

// ProjectionMethod seleciona o algoritmo da projeção plurianual
type ProjectionMethod string

const (
	// ProjectionCumulative compara custo acumulado da rede com custo acumulado solar
	ProjectionCumulative ProjectionMethod = "cumulative"
	// ProjectionSavings acumula a economia anual até cobrir o custo de instalação
	ProjectionSavings ProjectionMethod = "savings"
)

// Valid indica se o método é conhecido
func (m ProjectionMethod) Valid() bool {
	return m == ProjectionCumulative || m == ProjectionSavings
}

// ProjectionInput contém as premissas da projeção
type ProjectionInput struct {
	GridRate         float64          `json:"grid_rate"`
	InflationPct     float64          `json:"inflation_pct"`
	DegradationPct   float64          `json:"degradation_pct"`
	HorizonYears     int              `json:"horizon_years"`
	Method           ProjectionMethod `json:"method"`
	InstallCostPerKW float64          `json:"install_cost_per_kw"`
}

// ProjectionOptions é a projeção pedida pela API ou pelo formulário do assistente.
// Campos omitidos recebem os padrões configurados; os percentuais são ponteiros
// para que 0% explícito não seja confundido com campo ausente.
type ProjectionOptions struct {
	GridRate         float64          `json:"grid_rate,omitempty" form:"grid_rate" binding:"omitempty,gt=0"`
	InflationPct     *float64         `json:"inflation_pct,omitempty" form:"inflation_pct" binding:"omitempty,gte=0,lte=100"`
	DegradationPct   *float64         `json:"degradation_pct,omitempty" form:"degradation_pct" binding:"omitempty,gte=0,lt=100"`
	HorizonYears     int              `json:"horizon_years,omitempty" form:"horizon_years" binding:"omitempty,min=1,max=50"`
	Method           ProjectionMethod `json:"method,omitempty" form:"method" binding:"omitempty,oneof=cumulative savings"`
	InstallCostPerKW float64          `json:"install_cost_per_kw,omitempty" form:"install_cost_per_kw" binding:"omitempty,gt=0"`
}

// ProjectionPoint representa um ano da projeção
type ProjectionPoint struct {
	Year                int     `json:"year"`
	GridRate            float64 `json:"grid_rate"`
	SolarUnitsKWh       float64 `json:"solar_units_kwh"`
	GridCost            float64 `json:"grid_cost"`
	SolarCost           float64 `json:"solar_cost"`
	CumulativeGridCost  float64 `json:"cumulative_grid_cost"`
	CumulativeSolarCost float64 `json:"cumulative_solar_cost"`
	CumulativeSavings   float64 `json:"cumulative_savings"`
}

// ProjectionSeries é o resultado da projeção
type ProjectionSeries struct {
	Method         ProjectionMethod  `json:"method"`
	InstallCost    float64           `json:"install_cost"`
	AnnualUnitsKWh float64           `json:"annual_units_kwh"`
	Points         []ProjectionPoint `json:"points"`
	PaybackYear    int               `json:"payback_year"`
	PaybackReached bool              `json:"payback_reached"`
	TotalSavings   float64           `json:"total_savings"`
}
