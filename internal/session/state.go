// Package session guarda o estado do assistente de cada navegador.
// O estado é um objeto explícito passado aos serviços; o motor de estimativa
// nunca o lê.
package session

import (
	"fmt"
	"time"

	"github.com/rbbhati/solar-estimator/internal/catalog"
	"github.com/rbbhati/solar-estimator/internal/model"
)

// Step identifica a tela atual do assistente
type Step int

const (
	StepMode       Step = iota // escolha do modo
	StepInputs                 // formulário do modo escolhido
	StepResults                // resultado da estimativa
	StepInstallers             // instaladores e pedido de orçamento
)

// String retorna o nome da etapa usado nos logs e templates
func (s Step) String() string {
	switch s {
	case StepMode:
		return "mode"
	case StepInputs:
		return "inputs"
	case StepResults:
		return "results"
	case StepInstallers:
		return "installers"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// State é o estado do assistente de uma sessão
type State struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Started bool       `json:"started"`
	Step    Step       `json:"step"`
	Mode    model.Mode `json:"mode,omitempty"`

	City     string  `json:"city"`
	SunHours float64 `json:"sun_hours"`
	Preset   string  `json:"preset"`

	Bill       *model.BillInput        `json:"bill,omitempty"`
	Appliance  *model.ApplianceInput   `json:"appliance,omitempty"`
	Output     *model.EstimationOutput `json:"output,omitempty"`
	Projection *model.ProjectionSeries `json:"projection,omitempty"`

	CalculationDone   bool   `json:"calculation_done"`
	SelectedInstaller string `json:"selected_installer,omitempty"`
	ShowContactForm   bool   `json:"show_contact_form"`

	// Flash é a mensagem exibida uma única vez na próxima renderização
	Flash string `json:"flash,omitempty"`
}

// New cria o estado inicial de uma sessão
func New(id string, now time.Time) *State {
	return &State{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Step:      StepMode,
		City:      catalog.UnknownLocation,
		SunHours:  catalog.DefaultSunHours,
		Preset:    catalog.PresetCustom,
	}
}

// Start sai da tela de boas-vindas
func (s *State) Start() {
	s.Started = true
	s.Step = StepMode
}

// SelectMode escolhe o modo e avança para o formulário.
// O resultado anterior deixa de valer até a próxima estimativa.
func (s *State) SelectMode(mode model.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: modo desconhecido %q", model.ErrInvalidInput, mode)
	}
	s.Started = true
	s.Mode = mode
	s.Step = StepInputs
	s.CalculationDone = false
	return nil
}

// Back volta uma etapa; na primeira etapa não faz nada
func (s *State) Back() {
	if s.Step > StepMode {
		s.Step--
	}
	s.ShowContactForm = false
}

// RecordEstimate guarda a saída do motor e avança para o resultado.
// A projeção anterior é descartada porque pertence à estimativa substituída.
func (s *State) RecordEstimate(city string, sunHours float64, out model.EstimationOutput) {
	s.City = city
	s.SunHours = sunHours
	s.Output = &out
	s.Projection = nil
	s.CalculationDone = true
	s.Step = StepResults
}

// RecordBillInput guarda a última entrada do modo conta para repreencher o formulário
func (s *State) RecordBillInput(in model.BillInput) {
	s.Bill = &in
	s.Appliance = nil
}

// RecordApplianceInput guarda a última entrada do modo aparelhos
func (s *State) RecordApplianceInput(preset string, in model.ApplianceInput) {
	in.Appliances = append([]model.ApplianceUsage(nil), in.Appliances...)
	s.Preset = preset
	s.Appliance = &in
	s.Bill = nil
}

// SelectPreset troca o perfil do formulário de aparelhos e descarta a lista
// editada, para que o formulário volte aos valores do perfil.
func (s *State) SelectPreset(name string) error {
	if _, err := catalog.PresetAppliances(name); err != nil {
		return err
	}
	s.Preset = name
	s.Appliance = nil
	return nil
}

// RequireEstimate falha quando ainda não existe uma estimativa válida
func (s *State) RequireEstimate() error {
	if !s.CalculationDone || s.Output == nil {
		return model.ErrEstimationRequired
	}
	return nil
}

// RecordProjection guarda a projeção calculada sobre a estimativa atual
func (s *State) RecordProjection(series model.ProjectionSeries) error {
	if err := s.RequireEstimate(); err != nil {
		return err
	}
	s.Projection = &series
	return nil
}

// GoToInstallers abre a lista de instaladores
func (s *State) GoToInstallers() error {
	if err := s.RequireEstimate(); err != nil {
		return err
	}
	s.Step = StepInstallers
	return nil
}

// SelectInstaller abre o formulário de contato do instalador escolhido
func (s *State) SelectInstaller(name string) error {
	if err := s.RequireEstimate(); err != nil {
		return err
	}
	installer, err := catalog.FindInstaller(name)
	if err != nil {
		return err
	}
	s.Step = StepInstallers
	s.SelectedInstaller = installer.Name
	s.ShowContactForm = true
	return nil
}

// CompleteQuote fecha o formulário após um pedido aceito
func (s *State) CompleteQuote(message string) {
	s.SelectedInstaller = ""
	s.ShowContactForm = false
	s.Flash = message
}

// Finish volta à tela de boas-vindas mantendo a identidade da sessão
func (s *State) Finish(now time.Time) {
	*s = *New(s.ID, s.CreatedAt)
	s.UpdatedAt = now
}

// TakeFlash retorna e limpa a mensagem pendente
func (s *State) TakeFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}

// clone copia o estado sem compartilhar ponteiros nem slices
func (s *State) clone() *State {
	c := *s
	if s.Bill != nil {
		b := *s.Bill
		c.Bill = &b
	}
	if s.Appliance != nil {
		a := *s.Appliance
		a.Appliances = append([]model.ApplianceUsage(nil), s.Appliance.Appliances...)
		c.Appliance = &a
	}
	if s.Output != nil {
		o := *s.Output
		c.Output = &o
	}
	if s.Projection != nil {
		p := *s.Projection
		p.Points = append([]model.ProjectionPoint(nil), s.Projection.Points...)
		c.Projection = &p
	}
	return &c
}
