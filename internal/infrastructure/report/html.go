package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/warehouse-inventory/internal/application/audit"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

const generatedLayout = "January 2, 2006 03:04 PM"

var printer = message.NewPrinter(language.English)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"lower": func(a entity.ActivityAction) string { return strings.ToLower(string(a)) },
	"num":   func(n int) string { return printer.Sprintf("%d", n) },
	"ts":    func(l entity.ActivityLog, loc *time.Location) string { return l.Timestamp.In(loc).Format(TimestampLayout) },
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Activity Logs Report</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 40px; color: #333; }
    .header { text-align: center; margin-bottom: 30px; border-bottom: 2px solid #2563eb; padding-bottom: 20px; }
    .header h1 { margin: 0; color: #1e40af; }
    .header p { margin: 5px 0; color: #666; }
    .stats { display: grid; grid-template-columns: repeat(5, 1fr); gap: 15px; margin-bottom: 30px; }
    .stat-card { border: 1px solid #e5e7eb; border-radius: 8px; padding: 15px; text-align: center; }
    .stat-card h3 { margin: 0 0 10px 0; color: #666; font-size: 14px; font-weight: normal; }
    .stat-card p { margin: 0; font-size: 28px; font-weight: bold; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    th { background-color: #f3f4f6; padding: 12px; text-align: left; border: 1px solid #e5e7eb; }
    td { padding: 10px 12px; border: 1px solid #e5e7eb; font-size: 12px; }
    tr:nth-child(even) { background-color: #f9fafb; }
    .badge { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; }
    .badge.added { background-color: #dcfce7; color: #16a34a; }
    .badge.edited { background-color: #dbeafe; color: #2563eb; }
    .badge.deleted { background-color: #fee2e2; color: #dc2626; }
    .badge.transaction { background-color: #f3e8ff; color: #7c3aed; }
    .badge.alert { background-color: #fef3c7; color: #d97706; }
    .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; text-align: center; color: #666; font-size: 12px; }
    @media print { body { margin: 10mm; } }
  </style>
</head>
<body>
  <div class="header">
    <h1>Warehouse Inventory System</h1>
    <h2>Activity Logs Report</h2>
    <p>Generated on: {{.GeneratedAt.Format "` + generatedLayout + `"}}</p>
    <p><strong>Filters Applied:</strong> {{.Filters}}</p>
    {{- if .GeneratedBy}}
    <p><strong>Generated by:</strong> {{.GeneratedBy}}</p>
    {{- end}}
  </div>

  <div class="stats">
    {{- range .Counts}}
    <div class="stat-card"><h3>{{.Label}}</h3><p>{{num .Count}}</p></div>
    {{- end}}
  </div>

  <table>
    <thead>
      <tr><th style="width: 50px;">#</th><th>Item Name</th><th style="width: 100px;">Action</th><th>User</th><th>Timestamp</th><th>Details</th></tr>
    </thead>
    <tbody>
    {{- range $i, $l := .Logs}}
      <tr>
        <td>{{inc $i}}</td>
        <td><strong>{{$l.ItemName}}</strong></td>
        <td><span class="badge {{lower $l.Action}}">{{$l.Action}}</span></td>
        <td>{{$l.User}}<br><small>{{$l.UserRole}}</small></td>
        <td>{{ts $l $.GeneratedAt.Location}}</td>
        <td>{{orNA $l.Details}}</td>
      </tr>
    {{- end}}
    </tbody>
  </table>

  <div class="footer">
    <p><strong>Total Records:</strong> {{num .Summary.Total}} activities</p>
    <p>Warehouse Inventory System © {{.GeneratedAt.Year}}</p>
  </div>
</body>
</html>
`))

type actionCount struct {
	Label string
	Count int
}

// actionLabels títulos de las tarjetas de resumen, en el orden de entity.Actions.
var actionLabels = map[entity.ActivityAction]string{
	entity.ActionAdded:       "Items Added",
	entity.ActionEdited:      "Items Edited",
	entity.ActionDeleted:     "Items Deleted",
	entity.ActionTransaction: "Transactions",
	entity.ActionAlert:       "Alerts",
}

func countsOf(r audit.Report) []actionCount {
	out := make([]actionCount, 0, len(entity.Actions))
	for _, a := range entity.Actions {
		out = append(out, actionCount{Label: actionLabels[a], Count: r.Summary.ByAction[a]})
	}
	return out
}

// HTML documento imprimible (el navegador lo convierte a PDF con su diálogo de impresión).
type HTML struct{}

// NewHTML construye el renderer HTML.
func NewHTML() HTML { return HTML{} }

func (HTML) Format() audit.Format { return audit.FormatHTML }
func (HTML) Extension() string    { return "html" }
func (HTML) ContentType() string  { return "text/html; charset=utf-8" }

// Render ejecuta la plantilla. Los textos se escapan con html/template.
func (HTML) Render(_ context.Context, r audit.Report) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		audit.Report
		Counts []actionCount
	}{Report: r, Counts: countsOf(r)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("html: ejecutar plantilla: %w", err)
	}
	return buf.Bytes(), nil
}
