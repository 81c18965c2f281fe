package service

import (
	"bytes"
	"fmt"

	"github.com/rbbhati/solar-estimator/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	projectionSheet = "Projection"
)

var projectionHeaders = []string{
	"Year", "Grid Rate (₹/unit)", "Solar Units (kWh)", "Grid Cost (₹)", "Solar Cost (₹)",
	"Cumulative Grid (₹)", "Cumulative Solar (₹)", "Cumulative Savings (₹)",
}

// ExcelGenerator gera a planilha do relatório
type ExcelGenerator struct{}

// NewExcelGenerator cria um novo gerador de Excel
func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Generate gera a planilha com o resumo e, quando houver, a projeção com gráfico
func (g *ExcelGenerator) Generate(report model.Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Renomeia a sheet padrão
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, summarySheet); err != nil {
		return nil, fmt.Errorf("renomear sheet: %w", err)
	}

	headerStyle, err := g.headerStyle(f)
	if err != nil {
		return nil, fmt.Errorf("criar estilo: %w", err)
	}

	if err := g.writeSummary(f, report, headerStyle); err != nil {
		return nil, fmt.Errorf("escrever resumo: %w", err)
	}

	if report.Projection != nil && len(report.Projection.Points) > 0 {
		if _, err := f.NewSheet(projectionSheet); err != nil {
			return nil, fmt.Errorf("criar sheet de projeção: %w", err)
		}
		if err := g.writeProjection(f, report.Projection, headerStyle); err != nil {
			return nil, fmt.Errorf("escrever projeção: %w", err)
		}
		if err := g.addProjectionChart(f, len(report.Projection.Points)); err != nil {
			return nil, fmt.Errorf("adicionar gráfico: %w", err)
		}
	}

	// Escreve para buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("escrever buffer: %w", err)
	}

	return buf, nil
}

// headerStyle é o estilo do cabeçalho das tabelas
func (g *ExcelGenerator) headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
}

// writeSummary escreve uma linha por métrica, reaproveitando as colunas do CSV
func (g *ExcelGenerator) writeSummary(f *excelize.File, report model.Report, headerStyle int) error {
	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Metric", "Value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	labels, values := summaryColumns(report)
	row := 2
	for i, label := range labels {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{label, values[i]}); err != nil {
			return err
		}
		row++
	}

	if p := report.Projection; p != nil {
		extra := [][]interface{}{
			{"Installation Cost (₹)", num(p.InstallCost)},
			{"Payback Year", p.PaybackYear},
			{"Payback Reached", p.PaybackReached},
			{"Total Savings (₹)", fixed(2, p.TotalSavings)},
		}
		for _, values := range extra {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := values
			if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "B", 24)
}

// writeProjection escreve a série ano a ano
func (g *ExcelGenerator) writeProjection(f *excelize.File, series *model.ProjectionSeries, headerStyle int) error {
	header := make([]interface{}, len(projectionHeaders))
	for i, h := range projectionHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(projectionSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(projectionHeaders))
	if err := f.SetCellStyle(projectionSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, p := range series.Points {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			p.Year, p.GridRate, p.SolarUnitsKWh, p.GridCost, p.SolarCost,
			p.CumulativeGridCost, p.CumulativeSolarCost, p.CumulativeSavings,
		}
		if err := f.SetSheetRow(projectionSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(projectionSheet, "A", lastCol, 20)
}

// addProjectionChart desenha o custo acumulado da rede contra o solar
func (g *ExcelGenerator) addProjectionChart(f *excelize.File, years int) error {
	last := years + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", projectionSheet, last)

	return f.AddChart(projectionSheet, "J2", &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       projectionSheet + "!$F$1",
				Categories: categories,
				Values:     fmt.Sprintf("%s!$F$2:$F$%d", projectionSheet, last),
			},
			{
				Name:       projectionSheet + "!$G$1",
				Categories: categories,
				Values:     fmt.Sprintf("%s!$G$2:$G$%d", projectionSheet, last),
			},
		},
		Title:  []excelize.RichTextRun{{Text: "Grid vs Solar: cumulative cost"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	})
}
