package audit_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-inventory/internal/application/audit"
	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/report"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

var now = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

func logAt(ts time.Time, user string, action entity.ActivityAction, item string) entity.ActivityLog {
	return entity.ActivityLog{ID: item + ts.String(), ItemName: item, Action: action, User: user, UserRole: "Staff", Timestamp: ts}
}

// setup abre una sesión con una bitácora conocida, en orden cronológico.
func setup(t *testing.T) *audit.UseCase {
	t.Helper()
	logs := []entity.ActivityLog{
		logAt(time.Date(2024, 12, 5, 10, 0, 0, 0, time.UTC), "Ana", entity.ActionAdded, "A4 Bond Paper"),
		logAt(time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC), "Ana", entity.ActionTransaction, "Ballpen"),
		logAt(time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC), "Luis", entity.ActionEdited, "Office Desk"),
		logAt(time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC), "Ana", entity.ActionTransaction, "HP Printer"),
		logAt(time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC), "System", entity.ActionAlert, "Office Desk"),
	}
	s, err := state.Open(context.Background(), memory.NewCollectionStore(), logger.Nop(),
		state.WithClock(func() time.Time { return now }),
		state.WithSeed(func(time.Time) state.Collections { return state.Collections{ActivityLogs: logs} }))
	require.NoError(t, err)
	return audit.NewUseCase(s, report.NewCSV(), report.NewExcel(), report.NewHTML(), report.NewPDF())
}

func names(items []entity.ActivityLog) []string {
	out := make([]string, 0, len(items))
	for _, l := range items {
		out = append(out, l.ItemName)
	}
	return out
}

func TestList_FiltrosYOrden(t *testing.T) {
	uc := setup(t)

	cases := []struct {
		name   string
		filter dto.ActivityLogFilter
		want   []string
	}{
		{"sin filtros, más reciente primero", dto.ActivityLogFilter{},
			[]string{"Office Desk", "HP Printer", "Office Desk", "Ballpen", "A4 Bond Paper"}},
		{"por acción", dto.ActivityLogFilter{Action: entity.ActionTransaction}, []string{"HP Printer", "Ballpen"}},
		{"por mes", dto.ActivityLogFilter{Month: 11}, []string{"Office Desk", "HP Printer", "Office Desk"}},
		{"por año", dto.ActivityLogFilter{Year: 2024}, []string{"A4 Bond Paper"}},
		{"mes y año", dto.ActivityLogFilter{Month: 10, Year: 2025}, []string{"Ballpen"}},
		{"búsqueda por usuario", dto.ActivityLogFilter{Search: "luis"}, []string{"Office Desk"}},
		{"búsqueda por acción", dto.ActivityLogFilter{Search: "ALERT"}, []string{"Office Desk"}},
		{"búsqueda por ítem", dto.ActivityLogFilter{Search: "printer"}, []string{"HP Printer"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := uc.List(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(out.Items))
			assert.Equal(t, len(tc.want), out.Page.Total)
		})
	}
}

func TestList_PaginacionYValidacion(t *testing.T) {
	uc := setup(t)

	out, err := uc.List(dto.ActivityLogFilter{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ballpen", "A4 Bond Paper"}, names(out.Items))
	assert.Equal(t, 5, out.Page.Total)

	out, err = uc.List(dto.ActivityLogFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	_, err = uc.List(dto.ActivityLogFilter{Month: 13})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.List(dto.ActivityLogFilter{Action: "Viewed"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummary_ConteosYTopUsuarios(t *testing.T) {
	uc := setup(t)

	s, err := uc.Summary(dto.ActivityLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.ByAction[entity.ActionTransaction])
	assert.Equal(t, 0, s.ByAction[entity.ActionDeleted], "las acciones sin entradas aparecen en cero")
	require.Len(t, s.TopUsers, 3)
	assert.Equal(t, dto.UserActivityDTO{User: "Ana", Count: 3}, s.TopUsers[0])
	assert.Equal(t, time.Date(2024, 12, 5, 10, 0, 0, 0, time.UTC), *s.First)
	assert.Equal(t, time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC), *s.Last)

	empty, err := uc.Summary(dto.ActivityLogFilter{Year: 2001})
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Nil(t, empty.First)
	assert.NotNil(t, empty.TopUsers)
}

func TestExport_FormatosYNombre(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()
	actor := entity.Actor{Name: "Administrator", Role: entity.RoleAdmin}

	f, err := uc.Export(ctx, actor, audit.FormatCSV, dto.ActivityLogFilter{Month: 11, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "activity_logs_report_1763629200000.csv", f.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType)
	lines := strings.Split(strings.TrimSpace(string(f.Body)), "\n")
	assert.Len(t, lines, 4, "la exportación ignora la paginación: cabecera + 3 filas")

	for _, format := range []audit.Format{audit.FormatExcel, audit.FormatHTML, audit.FormatPDF} {
		f, err := uc.Export(ctx, actor, format, dto.ActivityLogFilter{})
		require.NoError(t, err, string(format))
		assert.NotEmpty(t, f.Body)
	}

	_, err = uc.Export(ctx, actor, "docx", dto.ActivityLogFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, []audit.Format{"csv", "excel", "html", "pdf"}, uc.Formats())
}

func TestDescribeFilters(t *testing.T) {
	assert.Equal(t, "No filters applied", audit.DescribeFilters(dto.ActivityLogFilter{}))
	assert.Equal(t, "November | 2025 | Action: Added",
		audit.DescribeFilters(dto.ActivityLogFilter{Month: 11, Year: 2025, Action: entity.ActionAdded}))
}
