// Package pdf implementa la hoja de conteo imprimible de una inventarización.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Almacén + ciudad    │  N° Documento + Fecha + Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Item | Unidad | Sistema | Contado | Diferencia       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: líneas contadas / sobrantes / faltantes            │
//	│  FOOTER: QR con el ID + firmas                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/marketplace-api/internal/application/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 60}
)

var statusLabels = map[string]string{
	entity.CheckStatusDraft:      "BORRADOR",
	entity.CheckStatusInProgress: "EN CONTEO",
	entity.CheckStatusCompleted:  "COMPLETADA",
	entity.CheckStatusCancelled:  "CANCELADA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.CountSheetRenderer = (*MarotoCountSheet)(nil)

// MarotoCountSheet implementa inventory.CountSheetRenderer usando Maroto v2.
type MarotoCountSheet struct{}

// NewMarotoCountSheet construye el generador.
func NewMarotoCountSheet() *MarotoCountSheet { return &MarotoCountSheet{} }

// RenderCountSheet genera el PDF y devuelve sus bytes.
func (g *MarotoCountSheet) RenderCountSheet(_ context.Context, sheet *inventory.CountSheet) ([]byte, error) {
	if sheet == nil || sheet.Check == nil || sheet.Storage == nil {
		return nil, fmt.Errorf("pdf: hoja de conteo incompleta")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de conteo "+documentNumber(sheet.Check), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sheet))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(sheet.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(sheet.Lines))
	m.AddRows(line.NewRow(4))
	m.AddRows(footerRow(sheet.Check))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar hoja de conteo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(sheet *inventory.CountSheet) core.Row {
	check := sheet.Check
	fecha := check.CreatedAt.Format("02/01/2006")
	return row.New(20).Add(
		col.New(7).Add(
			text.New(sheet.Storage.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(sheet.Storage.City, "-")+"   "+nonEmpty(sheet.Storage.Address, ""), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INVENTARIZACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(documentNumber(check), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Fecha: "+fecha+"   Estado: "+statusLabels[check.Status], props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Item", 5, align.Left),
		h("Unidad", 1, align.Center),
		h("Sistema", 2, align.Right),
		h("Contado", 2, align.Right),
		h("Diferencia", 2, align.Right),
	)
}

// tableLineRows: una fila por línea. Las no contadas dejan la casilla en blanco para escribir a mano.
func tableLineRows(lines []inventory.CountSheetLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		counted, diff := "________", ""
		diffColor := colorGray
		if l.Counted {
			counted = strconv.FormatInt(l.ActualAmount, 10)
			diff = signed(l.Difference())
			switch {
			case l.Difference() < 0:
				diffColor = colorRed
			case l.Difference() > 0:
				diffColor = colorGreen
			}
		}
		out = append(out, row.New(7).Add(
			col.New(5).Add(text.New(l.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.UnitMeasure, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(strconv.FormatInt(l.ExpectedAmount, 10), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(counted, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(diff, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: diffColor})),
		))
	}
	return out
}

func summaryRow(lines []inventory.CountSheetLine) core.Row {
	var counted, surplus, shortage int
	for _, l := range lines {
		if !l.Counted {
			continue
		}
		counted++
		switch d := l.Difference(); {
		case d > 0:
			surplus++
		case d < 0:
			shortage++
		}
	}
	return row.New(8).Add(col.New(12).Add(text.New(
		fmt.Sprintf("Líneas: %d   |   Contadas: %d   |   Sobrantes: %d   |   Faltantes: %d",
			len(lines), counted, surplus, shortage),
		props.Text{Style: fontstyle.Bold, Size: 9, Top: 2},
	)))
}

func footerRow(check *entity.InventoryCheck) core.Row {
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(check.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Contó: ______________________", props.Text{Size: 9, Top: 6, Left: 4}),
			text.New("Revisó: ______________________", props.Text{Size: 9, Top: 18, Left: 4}),
			text.New(nonEmpty(check.Notes, ""), props.Text{Size: 7, Top: 28, Left: 4, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func documentNumber(c *entity.InventoryCheck) string {
	if c.DocumentNumber != "" {
		return c.DocumentNumber
	}
	if len(c.ID) >= 8 {
		return "INV-" + c.ID[:8]
	}
	return "INV-" + c.ID
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// signed formatea la diferencia con signo explícito: +3, -2, 0.
func signed(n int64) string {
	if n > 0 {
		return "+" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
