package audit

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

const (
	defaultPageSize = 50
	topUsersLimit   = 5
	exportBaseName  = "activity_logs_report"
)

// UseCase lectura y exportación de la bitácora. La bitácora solo crece: no hay edición ni borrado.
type UseCase struct {
	state     state.Runner
	renderers map[Format]Renderer
}

// NewUseCase construye el caso de uso con los renderers disponibles.
func NewUseCase(st state.Runner, renderers ...Renderer) *UseCase {
	m := make(map[Format]Renderer, len(renderers))
	for _, r := range renderers {
		m[r.Format()] = r
	}
	return &UseCase{state: st, renderers: m}
}

// Formats formatos de exportación registrados.
func (uc *UseCase) Formats() []Format {
	out := make([]Format, 0, len(uc.renderers))
	for f := range uc.renderers {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// filtered devuelve las entradas que cumplen el filtro, más reciente primero.
// Mes y año se evalúan en la zona horaria del reloj de la sesión.
func (uc *UseCase) filtered(f dto.ActivityLogFilter) []entity.ActivityLog {
	loc := uc.state.Now().Location()
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var out []entity.ActivityLog
	uc.state.View(func(c *state.Collections) {
		for i := len(c.ActivityLogs) - 1; i >= 0; i-- {
			l := c.ActivityLogs[i]
			ts := l.Timestamp.In(loc)
			switch {
			case f.Action != "" && l.Action != f.Action,
				f.Month != 0 && int(ts.Month()) != f.Month,
				f.Year != 0 && ts.Year() != f.Year:
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(l.ItemName), search) &&
				!strings.Contains(strings.ToLower(l.User), search) &&
				!strings.Contains(strings.ToLower(string(l.Action)), search) {
				continue
			}
			out = append(out, l)
		}
	})
	return out
}

// List devuelve una página de la bitácora filtrada, más reciente primero.
func (uc *UseCase) List(f dto.ActivityLogFilter) (*dto.ActivityLogListResponse, error) {
	if err := dto.Validate(f); err != nil {
		return nil, err
	}
	all := uc.filtered(f)
	limit := f.Limit
	if limit == 0 {
		limit = defaultPageSize
	}
	start := min(f.Offset, len(all))
	end := min(start+limit, len(all))

	items := make([]entity.ActivityLog, end-start)
	copy(items, all[start:end])
	return &dto.ActivityLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: f.Offset, Total: len(all)},
	}, nil
}

// Summary cuenta las entradas filtradas por acción y por usuario.
func (uc *UseCase) Summary(f dto.ActivityLogFilter) (*dto.ActivitySummaryDTO, error) {
	if err := dto.Validate(f); err != nil {
		return nil, err
	}
	s := summarize(uc.filtered(f))
	return &s, nil
}

func summarize(logs []entity.ActivityLog) dto.ActivitySummaryDTO {
	s := dto.ActivitySummaryDTO{
		Total:    len(logs),
		ByAction: make(map[entity.ActivityAction]int, len(entity.Actions)),
		TopUsers: []dto.UserActivityDTO{},
	}
	for _, a := range entity.Actions {
		s.ByAction[a] = 0
	}

	perUser := map[string]int{}
	for _, l := range logs {
		s.ByAction[l.Action]++
		perUser[l.User]++
		ts := l.Timestamp
		if s.First == nil || ts.Before(*s.First) {
			s.First = &ts
		}
		if s.Last == nil || ts.After(*s.Last) {
			s.Last = &ts
		}
	}
	for u, n := range perUser {
		s.TopUsers = append(s.TopUsers, dto.UserActivityDTO{User: u, Count: n})
	}
	slices.SortFunc(s.TopUsers, func(a, b dto.UserActivityDTO) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.User, b.User))
	})
	if len(s.TopUsers) > topUsersLimit {
		s.TopUsers = s.TopUsers[:topUsersLimit]
	}
	return s
}

// DescribeFilters texto de los filtros aplicados, o "No filters applied".
func DescribeFilters(f dto.ActivityLogFilter) string {
	var parts []string
	if f.Month != 0 {
		parts = append(parts, time.Month(f.Month).String())
	}
	if f.Year != 0 {
		parts = append(parts, fmt.Sprint(f.Year))
	}
	if f.Action != "" {
		parts = append(parts, "Action: "+string(f.Action))
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", f.Search))
	}
	if len(parts) == 0 {
		return "No filters applied"
	}
	return strings.Join(parts, " | ")
}

// Export genera el archivo de la bitácora filtrada (sin paginar) en el formato pedido.
func (uc *UseCase) Export(ctx context.Context, actor entity.Actor, format Format, f dto.ActivityLogFilter) (*dto.ExportFile, error) {
	r, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación %q", domain.ErrInvalidInput, format)
	}
	f.Limit, f.Offset = 0, 0
	if err := dto.Validate(f); err != nil {
		return nil, err
	}

	logs := uc.filtered(f)
	now := uc.state.Now()
	body, err := r.Render(ctx, Report{
		Logs:        logs,
		Summary:     summarize(logs),
		Filters:     DescribeFilters(f),
		GeneratedBy: actor.Name,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("exportar bitácora (%s): %w", format, err)
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s_%d.%s", exportBaseName, now.UnixMilli(), r.Extension()),
		ContentType: r.ContentType(),
		Body:        body,
	}, nil
}
