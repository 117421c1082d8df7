package dto

import (
	"time"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// ActivityLogFilter filtros de la bitácora. Month y Year en cero no filtran.
type ActivityLogFilter struct {
	Action entity.ActivityAction `query:"action" validate:"omitempty,oneof=Added Edited Deleted Transaction Alert"`
	Month  int                   `query:"month" validate:"min=0,max=12"`
	Year   int                   `query:"year" validate:"min=0,max=9999"`
	Search string                `query:"search" validate:"max=200"`
	Limit  int                   `query:"limit" validate:"min=0,max=500"`
	Offset int                   `query:"offset" validate:"min=0"`
}

// ActivityLogListResponse página de la bitácora, más reciente primero.
type ActivityLogListResponse struct {
	Items []entity.ActivityLog `json:"items"`
	Page  PageResponse         `json:"page"`
}

// UserActivityDTO cantidad de entradas por usuario.
type UserActivityDTO struct {
	User  string `json:"user"`
	Count int    `json:"count"`
}

// ActivitySummaryDTO resumen de la bitácora filtrada.
type ActivitySummaryDTO struct {
	Total    int                           `json:"total"`
	ByAction map[entity.ActivityAction]int `json:"byAction"`
	TopUsers []UserActivityDTO             `json:"topUsers"`
	First    *time.Time                    `json:"first,omitempty"`
	Last     *time.Time                    `json:"last,omitempty"`
}

// ExportFile archivo generado por la exportación de la bitácora.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
