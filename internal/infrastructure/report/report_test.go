package report_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-inventory/internal/application/audit"
	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/report"
)

func sampleReport() audit.Report {
	at := time.Date(2025, 11, 20, 14, 5, 0, 0, time.UTC)
	return audit.Report{
		Logs: []entity.ActivityLog{
			{ItemName: `12" Monitor`, Action: entity.ActionEdited, User: "Ana Staff", UserRole: "Staff",
				Timestamp: at, Details: `Updated: location: "A1" → B2`},
			{ItemName: "Office Desk", Action: entity.ActionAlert, User: "System", UserRole: "Automated",
				Timestamp: at.Add(-time.Hour), Details: ""},
		},
		Summary: dto.ActivitySummaryDTO{Total: 2, ByAction: map[entity.ActivityAction]int{
			entity.ActionEdited: 1, entity.ActionAlert: 1,
		}},
		Filters:     "No filters applied",
		GeneratedBy: "Administrator",
		GeneratedAt: at,
	}
}

func TestCSV_CitaYDuplicaComillas(t *testing.T) {
	body, err := report.NewCSV().Render(context.Background(), sampleReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "#,Item Name,Action,User,Role,Timestamp,Details", lines[0])
	assert.Equal(t, `1,"12"" Monitor",Edited,"Ana Staff",Staff,11/20/2025 02:05 PM,"Updated: location: ""A1"" → B2"`, lines[1])
	assert.Equal(t, `2,"Office Desk",Alert,"System",Automated,11/20/2025 01:05 PM,""`, lines[2],
		"los campos de texto se citan aunque estén vacíos")
}

func TestExcel_AgregaBOM(t *testing.T) {
	r := report.NewExcel()
	body, err := r.Render(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}), "debe iniciar con BOM UTF-8")
	csv, err := report.NewCSV().Render(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, csv, body[3:])
	assert.Equal(t, "xls", r.Extension())
}

func TestHTML_EscapaYResume(t *testing.T) {
	rep := sampleReport()
	rep.Logs[0].ItemName = "<script>alert(1)</script>"
	body, err := report.NewHTML().Render(context.Background(), rep)
	require.NoError(t, err)

	html := string(body)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Generated by:</strong> Administrator")
	assert.Contains(t, html, "Total Records:</strong> 2 activities")
	assert.Contains(t, html, `class="badge alert"`)
	assert.Contains(t, html, "N/A", "detalle vacío")
}

func TestPDF_GeneraDocumento(t *testing.T) {
	body, err := report.NewPDF().Render(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")), "debe ser un PDF")
}
