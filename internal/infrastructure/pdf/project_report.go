// Package pdf genera el reporte de proyecto (costos, avance y ruta crítica) con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proyecto + ID          │  Fecha de generación      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CRONOGRAMA: inicio / fin plan / fin estimado / variación    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Paso | Duración | Predecesores | Crítico | Estado    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COSTOS: Mano de obra / Materiales / Gastos / TOTAL          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID del proyecto                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 176, Green: 0, Blue: 32}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa analytics.ProjectReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateProjectReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateProjectReport(
	_ context.Context,
	project *entity.Project,
	metrics *dto.ProjectMetricsDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de proyecto", true).
		WithAuthor(project.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(project, metrics))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(scheduleRow(project, metrics))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range stepRows(project) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(costsRow(metrics))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(project))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(project *entity.Project, metrics *dto.ProjectMetricsDTO) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(project.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Proyecto: "+project.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("REPORTE DE PROYECTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+metrics.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func scheduleRow(project *entity.Project, metrics *dto.ProjectMetricsDTO) core.Row {
	progress := "sin pasos"
	if metrics.ProgressPercentage != nil {
		progress = metrics.ProgressPercentage.StringFixed(2) + "%"
	}
	varColor := colorGray
	if metrics.ScheduleVarianceDays.IsPositive() {
		varColor = colorAlert
	}
	return row.New(20).Add(
		col.New(6).Add(
			text.New("CRONOGRAMA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Inicio: %s   |   Fin planeado: %s",
				project.StartDate.Format("02/01/2006 15:04"),
				metrics.PlannedEndDate.Format("02/01/2006 15:04"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
			text.New(fmt.Sprintf("Ruta crítica: %d min   |   Órdenes activas: %d",
				metrics.CriticalPathMinutes, metrics.WorkOrders,
			), props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("Avance: "+progress, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Fin estimado: "+metrics.ForecastEndDate.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Variación: "+metrics.ScheduleVarianceDays.StringFixed(2)+" días", props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: varColor,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Paso", 4, align.Left),
		h("Duración", 2, align.Right),
		h("Predecesores", 3, align.Left),
		h("Crítico", 1, align.Center),
		h("Estado", 2, align.Center),
	)
}

func stepRows(project *entity.Project) []core.Row {
	critical := make(map[string]bool, len(project.Workflow.CriticalPath))
	for _, id := range project.Workflow.CriticalPath {
		critical[id] = true
	}
	steps := project.Workflow.Workflow.Steps
	result := make([]core.Row, 0, len(steps))
	for _, s := range steps {
		status := "Pendiente"
		if project.Workflow.Completed[s.ID] {
			status = "Completado"
		}
		mark := ""
		if critical[s.ID] {
			mark = "Sí"
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				nonEmpty(s.Name, s.ID),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d min", s.EstimatedDuration),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				nonEmpty(strings.Join(s.PredecessorSteps, ", "), "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(mark, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(status, props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return result
}

func costsRow(metrics *dto.ProjectMetricsDTO) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(34).Add(
		col.New(3),
		col.New(3).Add(
			label("Mano de obra ("+metrics.LaborHours.StringFixed(2)+" h):"),
			label("Materiales:"),
			label("Gastos:"),
			label("COSTO TOTAL:"),
			label("Presupuesto / saldo:"),
		),
		col.New(3).Add(
			value(money(metrics.LaborCost)),
			value(money(metrics.MaterialCost)),
			value(money(metrics.ExpenseCost)),
			grand(money(metrics.TotalCost)),
			value(money(metrics.Budget)+" / "+money(metrics.BudgetVariance)),
		),
		col.New(3),
	)
}

func footerRow(project *entity.Project) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr("project:"+project.ID, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Escanea el código para abrir el proyecto\nen el tablero de planta.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func money(d decimal.Decimal) string {
	s := formatMoney(d.Abs().StringFixed(0))
	if d.IsNegative() && s != "0" {
		return "-$" + s
	}
	return "$" + s
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
