package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/rbbhati/solar-estimator/internal/cache"
	"github.com/rbbhati/solar-estimator/internal/logger"
	"github.com/rbbhati/solar-estimator/internal/metrics"
	"github.com/rbbhati/solar-estimator/internal/model"
)

// ReportFormat identifica o formato de exportação
type ReportFormat string

const (
	FormatTXT  ReportFormat = "txt"
	FormatCSV  ReportFormat = "csv"
	FormatXLSX ReportFormat = "xlsx"
)

var contentTypes = map[ReportFormat]string{
	FormatTXT:  "text/plain; charset=utf-8",
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseReportFormat valida o formato pedido; vazio equivale a txt
func ParseReportFormat(raw string) (ReportFormat, error) {
	f := ReportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		return FormatTXT, nil
	}
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("%w: formato de relatório desconhecido %q", model.ErrInvalidInput, raw)
	}
	return f, nil
}

// NewReport monta o relatório a partir da saída imutável do motor
func NewReport(location, preset string, out model.EstimationOutput, projection *model.ProjectionSeries) model.Report {
	return model.Report{
		GeneratedAt: time.Now(),
		Location:    location,
		Preset:      preset,
		Output:      out,
		Projection:  projection,
	}
}

// RenderedReport é um arquivo pronto para download
type RenderedReport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// reportCacheTTL é quanto tempo um relatório renderizado é reaproveitado
const reportCacheTTL = 10 * time.Minute

// ReportService formata relatórios em texto, CSV e planilha
type ReportService struct {
	excelGenerator *ExcelGenerator
	text           *template.Template
	cache          *cache.Cache
}

// NewReportService cria um novo serviço de relatórios
func NewReportService() *ReportService {
	return &ReportService{
		excelGenerator: NewExcelGenerator(),
		text:           template.Must(template.New("report").Funcs(reportFuncs).Parse(textReportTemplate)),
		cache:          cache.NewCache(reportCacheTTL),
	}
}

// Close encerra a limpeza do cache de relatórios
func (s *ReportService) Close() {
	s.cache.Stop()
}

// CacheStats retorna as estatísticas do cache de relatórios
func (s *ReportService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// Render gera o relatório no formato pedido. Relatórios com o mesmo conteúdo
// são servidos do cache enquanto não expiram.
func (s *ReportService) Render(ctx context.Context, format ReportFormat, report model.Report) (*RenderedReport, error) {
	key := reportKey(format, report)
	if key != "" {
		if cached, ok := s.cache.Get(key); ok {
			s.record(ctx, format, report, nil)
			logger.Get(ctx).Debug().Str("format", string(format)).Msg("Relatório servido do cache")
			return cached.(*RenderedReport).clone(), nil
		}
	}

	body, err := s.render(format, report)
	s.record(ctx, format, report, err)
	if err != nil {
		return nil, fmt.Errorf("gerar relatório %s: %w", format, err)
	}

	logger.Get(ctx).Info().
		Str("format", string(format)).
		Int("bytes", len(body)).
		Msg("Relatório gerado")

	rendered := &RenderedReport{
		Filename:    ReportFilename(report.Output.Mode, format),
		ContentType: contentTypes[format],
		Body:        body,
	}
	if key != "" {
		s.cache.Set(key, rendered.clone())
	}
	return rendered, nil
}

func (s *ReportService) render(format ReportFormat, report model.Report) ([]byte, error) {
	switch format {
	case FormatTXT:
		return s.Text(report)
	case FormatCSV:
		return s.CSV(report)
	case FormatXLSX:
		buf, err := s.excelGenerator.Generate(report)
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: formato de relatório desconhecido %q", model.ErrInvalidInput, format)
	}
}

// record contabiliza o download e registra a auditoria
func (s *ReportService) record(ctx context.Context, format ReportFormat, report model.Report, err error) {
	metrics.Get().IncrementReport(string(format), err == nil)
	logger.AuditOperation(ctx, logger.AuditActionReportDownload, "report", string(format), map[string]interface{}{
		"mode":     string(report.Output.Mode),
		"location": report.Location,
	}, err)
}

// reportKey identifica o conteúdo do relatório, ignorando o horário de geração.
// Retorna vazio quando o conteúdo não pode ser serializado.
func reportKey(format ReportFormat, report model.Report) string {
	report.GeneratedAt = time.Time{}
	raw, err := json.Marshal(report)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return string(format) + ":" + hex.EncodeToString(sum[:])
}

func (r *RenderedReport) clone() *RenderedReport {
	c := *r
	c.Body = append([]byte(nil), r.Body...)
	return &c
}

// ReportFilename retorna o nome do arquivo de download
func ReportFilename(mode model.Mode, format ReportFormat) string {
	return fmt.Sprintf("solar_estimate_%s.%s", mode, format)
}

// Text renderiza o resumo em texto puro
func (s *ReportService) Text(report model.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.text.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("executar template: %w", err)
	}
	return buf.Bytes(), nil
}

// CSV renderiza a exportação tabular de uma linha
func (s *ReportService) CSV(report model.Report) ([]byte, error) {
	headers, row := summaryColumns(report)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("escrever csv: %w", err)
	}
	return buf.Bytes(), nil
}

// summaryColumns define as colunas da exportação tabular de cada modo
func summaryColumns(r model.Report) ([]string, []string) {
	o := r.Output

	if o.Mode == model.ModeAppliance {
		return []string{
				"Location", "Sun Hours", "Preset", "Monthly Usage (kWh)", "Required kW",
				"Required Area (sqm)", "Solar Cost (₹)", "Battery Daily kWh", "Usable Battery (kWh)",
				"150Ah Batteries", "Monthly Grid Bill (₹)", "Payback (yrs)",
			}, []string{
				r.Location, num(o.SunHoursPerDay), r.Preset, num(o.MonthlyEnergyKWh), num(o.RequiredSystemKW),
				num(o.AreaNeededSqm), num(o.EstimatedCost), num(o.DailyEnergyKWh), num(o.UsableBatteryKWh),
				strconv.Itoa(o.BatteryCount150Ah), num(o.MonthlyGridCost), num(o.PaybackYears),
			}
	}

	return []string{
			"Location", "Sun Hours", "Monthly Bill (₹)", "Rate (₹/unit)", "Yearly Units",
			"Suggested kW", "Area (sqm)", "Cost (₹)", "Savings (₹/month)", "Payback (yrs)",
		}, []string{
			r.Location, num(o.SunHoursPerDay), num(o.MonthlyGridCost), num(o.GridRatePerUnit), num(o.AnnualEnergyKWh),
			num(o.RequiredSystemKW), num(o.AreaNeededSqm), num(o.EstimatedCost), num(o.MonthlySavings()), num(o.PaybackYears),
		}
}

// num imprime o valor sem zeros à direita (300, 1.79, 5.5)
func num(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func fixed(places int, x float64) string {
	return strconv.FormatFloat(x, 'f', places, 64)
}

var reportFuncs = template.FuncMap{
	"num":    num,
	"fixed1": func(x float64) string { return fixed(1, x) },
	"fixed2": func(x float64) string { return fixed(2, x) },
}

const textReportTemplate = `Smart Solar System Estimation Report
-----------------------------------
Location: {{.Location}}
Sun Hours: {{num .Output.SunHoursPerDay}} hours/day
{{- if eq .Output.Mode "appliance"}}
Household Type: {{.Preset}}

Appliance-Based Energy Use:
- Estimated Monthly Usage: {{num .Output.MonthlyEnergyKWh}} kWh
- Required Solar Size: {{num .Output.RequiredSystemKW}} kW
- Required Area: {{num .Output.AreaNeededSqm}} sq. meters
- Estimated Solar Cost: ₹{{num .Output.EstimatedCost}}

Battery Backup Suggestion:
- Daily Usage: {{fixed2 .Output.DailyEnergyKWh}} kWh
- Usable Battery Required: {{fixed2 .Output.UsableBatteryKWh}} kWh
- Suggested Batteries: {{.Output.BatteryCount150Ah}} x 150Ah (12V)

Financials:
- Monthly Grid Cost: ₹{{num .Output.MonthlyGridCost}}
- Monthly Savings: ₹{{num .Output.MonthlySavings}}
- Payback Period: {{num .Output.PaybackYears}} years
{{- else}}

Monthly Bill: ₹ {{num .Output.MonthlyGridCost}}
Electricity Rate: ₹ {{num .Output.GridRatePerUnit}}/unit
Estimated Annual Units: {{fixed1 .Output.AnnualEnergyKWh}} kWh
Suggested Solar Size: {{num .Output.RequiredSystemKW}} kW
Area Needed: {{num .Output.AreaNeededSqm}} sq. meters
Estimated Cost: ₹ {{num .Output.EstimatedCost}}

Battery Backup Suggestion:
- Daily Usage: {{fixed2 .Output.DailyEnergyKWh}} kWh
- Usable Battery Required: {{fixed2 .Output.UsableBatteryKWh}} kWh
- Suggested Batteries: {{.Output.BatteryCount150Ah}} x 150Ah (12V)

Monthly Savings: ₹ {{num .Output.MonthlySavings}}
Payback Period: {{num .Output.PaybackYears}} years
{{- end}}
{{- with .Projection}}

Cost Projection ({{.Method}}, {{len .Points}} years):
- Installation Cost: ₹ {{num .InstallCost}}
{{- if .PaybackReached}}
- Payback Year: {{.PaybackYear}}
{{- else}}
- Payback Year: not reached within {{.PaybackYear}} years
{{- end}}
- Total Savings: ₹ {{fixed2 .TotalSavings}}
{{- end}}
`
