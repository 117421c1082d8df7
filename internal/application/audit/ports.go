// Package audit consulta, resume y exporta la bitácora de actividad.
package audit

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// Format formato de exportación.
type Format string

// Formatos soportados.
const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatHTML  Format = "html"
	FormatPDF   Format = "pdf"
)

// Report datos de entrada para un renderer. Logs viene filtrado y más reciente primero.
type Report struct {
	Logs        []entity.ActivityLog
	Summary     dto.ActivitySummaryDTO
	Filters     string // descripción legible, ej. "November | 2025 | Action: Added"
	GeneratedBy string
	GeneratedAt time.Time
}

// Renderer genera el archivo de un formato (implementado en infrastructure/report).
type Renderer interface {
	Format() Format
	Extension() string
	ContentType() string
	Render(ctx context.Context, r Report) ([]byte, error)
}
