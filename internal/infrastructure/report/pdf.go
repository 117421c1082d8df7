package report

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/warehouse-inventory/internal/application/audit"
)

// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────┐
//	│  TÍTULO + fecha de generación + filtros + autor          │
//	│  TARJETAS: Added | Edited | Deleted | Transaction | Alert│
//	│  TABLA: # | Item | Acción | Usuario | Fecha | Detalle    │
//	│  PIE: total de registros                                 │
//	└──────────────────────────────────────────────────────────┘

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 249, Green: 250, Blue: 251}
)

// PDF genera el reporte de la bitácora con Maroto v2.
type PDF struct{}

// NewPDF construye el renderer PDF.
func NewPDF() PDF { return PDF{} }

func (PDF) Format() audit.Format { return audit.FormatPDF }
func (PDF) Extension() string    { return "pdf" }
func (PDF) ContentType() string  { return "application/pdf" }

// Render genera el PDF y devuelve sus bytes.
func (PDF) Render(_ context.Context, r audit.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Activity Logs Report", true).
		WithAuthor(nonEmpty(r.GeneratedBy, "Warehouse Inventory System"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(statsRow(r))
	m.AddRows(line.NewRow(2))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(r)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r audit.Report) core.Row {
	return row.New(24).Add(
		col.New(8).Add(
			text.New("Warehouse Inventory System", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Activity Logs Report", props.Text{Size: 11, Top: 9}),
			text.New("Filters Applied: "+r.Filters, props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generated on", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.GeneratedAt.Format(generatedLayout), props.Text{Size: 9, Align: align.Right, Top: 6}),
			text.New("Generated by: "+nonEmpty(r.GeneratedBy, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func statsRow(r audit.Report) core.Row {
	cols := make([]core.Col, 0, 6)
	for _, c := range countsOf(r) {
		cols = append(cols, col.New(2).Add(
			text.New(c.Label, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
			text.New(printer.Sprintf("%d", c.Count), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Top: 7,
			}),
		))
	}
	cols = append(cols, col.New(2).Add(
		text.New("Total", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
		text.New(printer.Sprintf("%d", r.Summary.Total), props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 7,
		}),
	))
	return row.New(16).Add(cols...)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Item Name", 2, align.Left),
		h("Action", 1, align.Center),
		h("User", 2, align.Left),
		h("Timestamp", 2, align.Left),
		h("Details", 4, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(r audit.Report) []core.Row {
	loc := r.GeneratedAt.Location()
	rows := make([]core.Row, 0, len(r.Logs))
	for i, l := range r.Logs {
		rw := row.New(9).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.ItemName, props.Text{Style: fontstyle.Bold, Size: 7, Top: 1, Left: 1})),
			col.New(1).Add(text.New(string(l.Action), props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.User+" ("+l.UserRole+")", props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.Timestamp.In(loc).Format(TimestampLayout), props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(l.Details, "N/A"), props.Text{Size: 7, Top: 1, Left: 1, Right: 1})),
		)
		if i%2 == 1 {
			rw = rw.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		rows = append(rows, rw)
	}
	return rows
}

func footerRow(r audit.Report) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(printer.Sprintf("Total Records: %d activities", r.Summary.Total), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 2,
		}),
		text.New(fmt.Sprintf("Warehouse Inventory System © %d", r.GeneratedAt.Year()), props.Text{
			Size: 7, Align: align.Center, Top: 6, Color: colorGray,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
