package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rbbhati/solar-estimator/internal/catalog"
	"github.com/rbbhati/solar-estimator/internal/logger"
	"github.com/rbbhati/solar-estimator/internal/metrics"
	"github.com/rbbhati/solar-estimator/internal/middleware"
	"github.com/rbbhati/solar-estimator/internal/model"
	"github.com/rbbhati/solar-estimator/internal/service"
	"github.com/rbbhati/solar-estimator/internal/session"
)

// Valores iniciais dos formulários
const (
	defaultMonthlyUsage = 300.0
	defaultGridRate     = 8.0
)

// WizardHandler serve o assistente HTML. Cada ação altera o estado da sessão
// e redireciona para GET /wizard, que renderiza a etapa atual.
type WizardHandler struct {
	store      *session.Store
	csrf       *middleware.CSRFMiddleware
	estimation *service.EstimationService
	reports    *service.ReportService
	quotes     *service.QuoteService
}

// NewWizardHandler cria o handler do assistente
func NewWizardHandler(
	store *session.Store,
	csrf *middleware.CSRFMiddleware,
	estimation *service.EstimationService,
	reports *service.ReportService,
	quotes *service.QuoteService,
) *WizardHandler {
	return &WizardHandler{
		store:      store,
		csrf:       csrf,
		estimation: estimation,
		reports:    reports,
		quotes:     quotes,
	}
}

// Register registra a página inicial e as rotas do assistente
func (h *WizardHandler) Register(r *gin.Engine, sessions *middleware.SessionMiddleware) {
	r.GET("/", sessions.RequireSession(), h.Welcome)

	w := r.Group("/wizard")
	w.Use(sessions.RequireSession())
	w.Use(h.csrf.RequireCSRF())
	{
		w.GET("", h.Show)
		w.POST("/start", h.Start)
		w.POST("/mode", h.SelectMode)
		w.POST("/back", h.Back)
		w.POST("/estimate/bill", h.EstimateBill)
		w.POST("/estimate/appliance", h.EstimateAppliance)
		w.POST("/projection", h.Projection)
		w.POST("/installers", h.Installers)
		w.POST("/quote", h.Quote)
		w.POST("/finish", h.Finish)

		w.GET("/report.txt", h.Download(service.FormatTXT))
		w.GET("/report.csv", h.Download(service.FormatCSV))
		w.GET("/report.xlsx", h.Download(service.FormatXLSX))
	}
}

// applianceRow é uma linha do formulário de aparelhos
type applianceRow struct {
	Spec  catalog.ApplianceSpec
	Usage model.ApplianceUsage
}

// wizardPage contém tudo o que o template do assistente usa
type wizardPage struct {
	Step      string
	State     session.State
	ModeLabel string
	CSRFToken string
	Flash     string
	Error     string
	Fields    map[string]string

	// Formulários de entrada
	Cities        []catalog.City
	Presets       []catalog.Preset
	Appliances    []applianceRow
	City          string
	SunHours      float64
	GridRate      float64
	MonthlyUsage  float64
	AvailableArea float64
	Preset        string

	// Resultado
	Location           string
	Output             *model.EstimationOutput
	Projection         *model.ProjectionSeries
	ProjectionDefaults model.ProjectionInput
	Methods            []model.ProjectionMethod

	// Instaladores
	Installers []installerQuote
	Contact    model.QuoteRequest
}

func (h *WizardHandler) newPage(state session.State) *wizardPage {
	p := &wizardPage{
		Step:      state.Step.String(),
		State:     state,
		ModeLabel: state.Mode.Label(),
		Fields:    make(map[string]string),

		Cities:       catalog.Cities(),
		Presets:      catalog.Presets(),
		City:         state.City,
		SunHours:     state.SunHours,
		GridRate:     defaultGridRate,
		MonthlyUsage: defaultMonthlyUsage,
		Preset:       state.Preset,

		Location:           state.City,
		Output:             state.Output,
		Projection:         state.Projection,
		ProjectionDefaults: h.estimation.DefaultProjection(),
		Methods:            []model.ProjectionMethod{model.ProjectionCumulative, model.ProjectionSavings},

		Contact: model.QuoteRequest{
			Installer: state.SelectedInstaller,
			Location:  state.City,
		},
	}

	if state.Bill != nil {
		p.GridRate = state.Bill.GridRatePerUnit
		p.MonthlyUsage = state.Bill.MonthlyUsageKWh
	}
	if state.Appliance != nil {
		p.GridRate = state.Appliance.GridRatePerUnit
	}
	p.Appliances = applianceRows(state.Preset, state.Appliance)

	if state.Output != nil {
		p.Installers = installerQuotes(state.Output.RequiredSystemKW)
		p.Contact.SystemKW = state.Output.RequiredSystemKW
		p.Contact.MonthlyUsageKWh = state.Output.MonthlyEnergyKWh
	}

	return p
}

// fillForm repreenche o formulário com os valores enviados
func (p *wizardPage) fillForm(req model.EstimateRequest) {
	p.City = req.City
	p.SunHours = req.SunHoursPerDay
	p.GridRate = req.GridRatePerUnit
	p.AvailableArea = req.AvailableAreaSqm
	if req.Mode == model.ModeBill {
		p.MonthlyUsage = req.MonthlyUsageKWh
		return
	}
	p.Preset = req.Preset
	p.Appliances = applianceRows(req.Preset, &model.ApplianceInput{Appliances: req.Appliances})
}

// applianceRows monta uma linha por aparelho do catálogo a partir da última
// entrada da sessão ou, sem ela, do perfil selecionado
func applianceRows(preset string, in *model.ApplianceInput) []applianceRow {
	var usages []model.ApplianceUsage
	if in != nil {
		usages = in.Appliances
	} else {
		usages, _ = catalog.PresetAppliances(preset)
	}

	byType := make(map[model.ApplianceType]model.ApplianceUsage, len(usages))
	for _, u := range usages {
		byType[u.Type] = u
	}

	specs := catalog.Appliances()
	rows := make([]applianceRow, 0, len(specs))
	for _, spec := range specs {
		u, ok := byType[spec.Type]
		if !ok {
			u = model.ApplianceUsage{Type: spec.Type}
		}
		rows = append(rows, applianceRow{Spec: spec, Usage: u})
	}
	return rows
}

// render renderiza a etapa atual; err vira a mensagem de erro da página
func (h *WizardHandler) render(c *gin.Context, p *wizardPage, err error) {
	token, tokenErr := h.csrf.EnsureToken(p.State.ID)
	if tokenErr != nil {
		logger.FromGin(c).Error().Err(tokenErr).Msg("Erro ao gerar token CSRF")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	p.CSRFToken = token

	status := http.StatusOK
	if err != nil {
		e := translateError(err)
		status = e.status
		p.Error = e.message
		for _, f := range e.fields {
			p.Fields[f.Field] = f.Message
		}
		logger.FromGin(c).Warn().Err(err).Str("step", p.Step).Msg("Ação do assistente rejeitada")
	}

	c.HTML(status, "wizard.html", p)
}

// current lê o estado da sessão do contexto; false quando a sessão sumiu
func (h *WizardHandler) current(c *gin.Context) (session.State, bool) {
	state, err := h.store.Get(middleware.SessionID(c))
	if err != nil {
		// Expirou entre o middleware e o handler
		c.Redirect(http.StatusSeeOther, "/")
		return session.State{}, false
	}
	return state, true
}

// update aplica fn ao estado e redireciona para o assistente.
// Se fn falhar o estado não muda e a etapa atual é renderizada com o erro.
func (h *WizardHandler) update(c *gin.Context, fn func(*session.State) error) {
	if _, err := h.store.Update(middleware.SessionID(c), fn); err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		state, ok := h.current(c)
		if !ok {
			return
		}
		h.render(c, h.newPage(state), err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/wizard")
}

// Welcome renderiza a tela de boas-vindas
func (h *WizardHandler) Welcome(c *gin.Context) {
	state, ok := h.current(c)
	if !ok {
		return
	}
	if state.Started {
		c.Redirect(http.StatusSeeOther, "/wizard")
		return
	}

	token, err := h.csrf.EnsureToken(state.ID)
	if err != nil {
		logger.FromGin(c).Error().Err(err).Msg("Erro ao gerar token CSRF")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.HTML(http.StatusOK, "welcome.html", gin.H{
		"CSRFToken": token,
	})
}

// Show renderiza a etapa atual. ?preset= troca o perfil do formulário de aparelhos.
func (h *WizardHandler) Show(c *gin.Context) {
	preset := c.Query("preset")

	var (
		flash     string
		presetErr error
	)
	state, err := h.store.Update(middleware.SessionID(c), func(s *session.State) error {
		if preset != "" {
			presetErr = s.SelectPreset(preset)
		}
		flash = s.TakeFlash()
		return nil
	})
	if err != nil || !state.Started {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	p := h.newPage(state)
	p.Flash = flash
	h.render(c, p, presetErr)
}

// Start sai da tela de boas-vindas
func (h *WizardHandler) Start(c *gin.Context) {
	h.update(c, func(s *session.State) error {
		s.Start()
		return nil
	})
}

// SelectMode escolhe o modo de estimativa
func (h *WizardHandler) SelectMode(c *gin.Context) {
	mode := model.Mode(c.PostForm("mode"))
	h.update(c, func(s *session.State) error {
		return s.SelectMode(mode)
	})
}

// Back volta uma etapa
func (h *WizardHandler) Back(c *gin.Context) {
	h.update(c, func(s *session.State) error {
		s.Back()
		return nil
	})
}

type billForm struct {
	City          string  `form:"city"`
	SunHours      float64 `form:"sun_hours"`
	GridRate      float64 `form:"grid_rate"`
	MonthlyUsage  float64 `form:"monthly_usage"`
	AvailableArea float64 `form:"available_area"`
}

// EstimateBill calcula a estimativa do modo conta de luz
func (h *WizardHandler) EstimateBill(c *gin.Context) {
	state, ok := h.current(c)
	if !ok {
		return
	}
	if state.Mode != model.ModeBill {
		h.render(c, h.newPage(state), fmt.Errorf("%w: modo atual %q", model.ErrInvalidStep, state.Mode))
		return
	}

	var form billForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, h.newPage(state), fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}

	h.estimate(c, state, model.EstimateRequest{
		Mode:             model.ModeBill,
		City:             form.City,
		SunHoursPerDay:   form.SunHours,
		GridRatePerUnit:  form.GridRate,
		MonthlyUsageKWh:  form.MonthlyUsage,
		AvailableAreaSqm: form.AvailableArea,
	})
}

// applianceForm usa os nomes de campo gerados pelo template: <tipo>_count,
// <tipo>_hours, <tipo> para os liga/desliga e oven_minutes.
type applianceForm struct {
	City          string  `form:"city"`
	SunHours      float64 `form:"sun_hours"`
	GridRate      float64 `form:"grid_rate"`
	AvailableArea float64 `form:"available_area"`
	Preset        string  `form:"preset"`

	FanCount    int     `form:"fan_count"`
	FanHours    float64 `form:"fan_hours"`
	BulbCount   int     `form:"bulb_count"`
	BulbHours   float64 `form:"bulb_hours"`
	Fridge      bool    `form:"fridge"`
	Router      bool    `form:"router"`
	TV          bool    `form:"tv"`
	TVHours     float64 `form:"tv_hours"`
	MobileCount int     `form:"mobile_count"`
	MobileHours float64 `form:"mobile_hours"`
	LaptopCount int     `form:"laptop_count"`
	LaptopHours float64 `form:"laptop_hours"`
	AC          bool    `form:"ac"`
	ACHours     float64 `form:"ac_hours"`
	Washing     bool    `form:"washing"`
	WashHours   float64 `form:"washing_hours"`
	RO          bool    `form:"ro"`
	ROHours     float64 `form:"ro_hours"`
	Oven        bool    `form:"oven"`
	OvenMinutes float64 `form:"oven_minutes"`
}

func (f applianceForm) usages() []model.ApplianceUsage {
	return []model.ApplianceUsage{
		{Type: model.ApplianceFan, Count: f.FanCount, HoursPerDay: f.FanHours},
		{Type: model.ApplianceBulb, Count: f.BulbCount, HoursPerDay: f.BulbHours},
		{Type: model.ApplianceFridge, Enabled: f.Fridge},
		{Type: model.ApplianceRouter, Enabled: f.Router},
		{Type: model.ApplianceTV, Enabled: f.TV, HoursPerDay: f.TVHours},
		{Type: model.ApplianceMobile, Count: f.MobileCount, HoursPerDay: f.MobileHours},
		{Type: model.ApplianceLaptop, Count: f.LaptopCount, HoursPerDay: f.LaptopHours},
		{Type: model.ApplianceAC, Enabled: f.AC, HoursPerDay: f.ACHours},
		{Type: model.ApplianceWashing, Enabled: f.Washing, HoursPerDay: f.WashHours},
		{Type: model.AppliancePurifier, Enabled: f.RO, HoursPerDay: f.ROHours},
		{Type: model.ApplianceOven, Enabled: f.Oven, MinutesPerDay: f.OvenMinutes},
	}
}

// EstimateAppliance calcula a estimativa do modo aparelhos
func (h *WizardHandler) EstimateAppliance(c *gin.Context) {
	state, ok := h.current(c)
	if !ok {
		return
	}
	if state.Mode != model.ModeAppliance {
		h.render(c, h.newPage(state), fmt.Errorf("%w: modo atual %q", model.ErrInvalidStep, state.Mode))
		return
	}

	var form applianceForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, h.newPage(state), fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}

	preset := form.Preset
	if preset == "" {
		preset = state.Preset
	}

	h.estimate(c, state, model.EstimateRequest{
		Mode:             model.ModeAppliance,
		City:             form.City,
		SunHoursPerDay:   form.SunHours,
		GridRatePerUnit:  form.GridRate,
		Preset:           preset,
		Appliances:       form.usages(),
		AvailableAreaSqm: form.AvailableArea,
	})
}

// estimate executa o motor uma vez e guarda a saída na sessão
func (h *WizardHandler) estimate(c *gin.Context, state session.State, req model.EstimateRequest) {
	result, err := h.estimation.Estimate(c.Request.Context(), req)
	if err != nil {
		p := h.newPage(state)
		p.fillForm(req)
		h.render(c, p, err)
		return
	}

	h.update(c, func(s *session.State) error {
		switch result.Input.Mode {
		case model.ModeBill:
			s.RecordBillInput(*result.Input.Bill)
		case model.ModeAppliance:
			s.RecordApplianceInput(result.Preset, *result.Input.Appliance)
		}
		s.RecordEstimate(result.Location, result.SunHours, result.Output)
		s.Flash = strings.Join(result.Warnings, " ")
		return nil
	})
}

// Projection calcula a projeção plurianual sobre a estimativa da sessão
func (h *WizardHandler) Projection(c *gin.Context) {
	state, ok := h.current(c)
	if !ok {
		return
	}
	if err := state.RequireEstimate(); err != nil {
		h.render(c, h.newPage(state), err)
		return
	}

	var opts model.ProjectionOptions
	if err := c.ShouldBind(&opts); err != nil {
		h.render(c, h.newPage(state), fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}

	series, err := h.estimation.Project(c.Request.Context(), *state.Output, opts)
	if err != nil {
		h.render(c, h.newPage(state), err)
		return
	}

	h.update(c, func(s *session.State) error {
		return s.RecordProjection(series)
	})
}

// Installers abre a lista de instaladores; com installer no form abre o contato
func (h *WizardHandler) Installers(c *gin.Context) {
	name := c.PostForm("installer")
	h.update(c, func(s *session.State) error {
		if name == "" {
			return s.GoToInstallers()
		}
		return s.SelectInstaller(name)
	})
}

// Quote envia o formulário de contato do instalador selecionado
func (h *WizardHandler) Quote(c *gin.Context) {
	state, ok := h.current(c)
	if !ok {
		return
	}
	if err := state.RequireEstimate(); err != nil {
		h.render(c, h.newPage(state), err)
		return
	}
	if !state.ShowContactForm || state.SelectedInstaller == "" {
		h.render(c, h.newPage(state), fmt.Errorf("%w: nenhum instalador selecionado", model.ErrInvalidStep))
		return
	}

	req := model.QuoteRequest{
		Installer:       state.SelectedInstaller,
		Name:            c.PostForm("name"),
		Phone:           c.PostForm("phone"),
		Email:           c.PostForm("email"),
		Location:        c.PostForm("location"),
		SystemKW:        state.Output.RequiredSystemKW,
		MonthlyUsageKWh: state.Output.MonthlyEnergyKWh,
	}
	middleware.SanitizeQuoteRequest(&req)

	confirmation, err := h.quotes.Submit(c.Request.Context(), state.ID, req)
	if err != nil {
		p := h.newPage(state)
		p.Contact = req
		h.render(c, p, err)
		return
	}

	h.update(c, func(s *session.State) error {
		s.CompleteQuote(confirmation.Message)
		return nil
	})
}

// Finish volta à tela de boas-vindas com o estado zerado
func (h *WizardHandler) Finish(c *gin.Context) {
	id := middleware.SessionID(c)
	_, err := h.store.Update(id, func(s *session.State) error {
		s.Finish(time.Now())
		return nil
	})

	metrics.Get().IncrementSessionReset()
	logger.AuditOperation(c.Request.Context(), logger.AuditActionSessionReset, "session", id, nil, err)

	c.Redirect(http.StatusSeeOther, "/")
}

// Download gera o relatório da estimativa da sessão no formato indicado
func (h *WizardHandler) Download(format service.ReportFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, ok := h.current(c)
		if !ok {
			return
		}
		if err := state.RequireEstimate(); err != nil {
			h.render(c, h.newPage(state), err)
			return
		}

		preset := ""
		if state.Output.Mode == model.ModeAppliance {
			preset = state.Preset
		}
		report := service.NewReport(state.City, preset, *state.Output, state.Projection)

		rendered, err := h.reports.Render(c.Request.Context(), format, report)
		if err != nil {
			h.render(c, h.newPage(state), err)
			return
		}

		sendReport(c, rendered)
	}
}
