// Package report implementa los renderers de exportación de la bitácora.
package report

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/warehouse-inventory/internal/application/audit"
)

// TimestampLayout formato de fecha de las filas exportadas. Sin comas para no romper el CSV.
const TimestampLayout = "01/02/2006 03:04 PM"

const utf8BOM = "\uFEFF"

var csvHeader = []string{"#", "Item Name", "Action", "User", "Role", "Timestamp", "Details"}

// quote encierra s entre comillas dobles duplicando las internas.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// writeCSV escribe la bitácora. Item Name, User y Details siempre van entre comillas;
// encoding/csv solo cita cuando hace falta, por eso la escritura es manual.
func writeCSV(buf *bytes.Buffer, r audit.Report) {
	buf.WriteString(strings.Join(csvHeader, ","))
	buf.WriteByte('\n')
	for i, l := range r.Logs {
		fields := []string{
			strconv.Itoa(i + 1),
			quote(l.ItemName),
			string(l.Action),
			quote(l.User),
			l.UserRole,
			l.Timestamp.In(r.GeneratedAt.Location()).Format(TimestampLayout),
			quote(l.Details),
		}
		buf.WriteString(strings.Join(fields, ","))
		buf.WriteByte('\n')
	}
}

// CSV exporta text/csv.
type CSV struct{}

// NewCSV construye el renderer CSV.
func NewCSV() CSV { return CSV{} }

func (CSV) Format() audit.Format { return audit.FormatCSV }
func (CSV) Extension() string    { return "csv" }
func (CSV) ContentType() string  { return "text/csv; charset=utf-8" }

// Render genera el CSV.
func (CSV) Render(_ context.Context, r audit.Report) ([]byte, error) {
	var buf bytes.Buffer
	writeCSV(&buf, r)
	return buf.Bytes(), nil
}

// Excel es el mismo CSV precedido por BOM UTF-8 con extensión .xls.
type Excel struct{}

// NewExcel construye el renderer Excel.
func NewExcel() Excel { return Excel{} }

func (Excel) Format() audit.Format { return audit.FormatExcel }
func (Excel) Extension() string    { return "xls" }
func (Excel) ContentType() string  { return "application/vnd.ms-excel; charset=utf-8" }

// Render genera el CSV con BOM.
func (Excel) Render(_ context.Context, r audit.Report) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	writeCSV(&buf, r)
	return buf.Bytes(), nil
}
