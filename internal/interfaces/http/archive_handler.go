package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// archiveSource lo implementa *mongodb.AuditArchive.
type archiveSource interface {
	Recent(ctx context.Context, limit int64) ([]entity.ActivityLog, error)
}

// ArchiveHandler consulta el archivo de largo plazo de la bitácora.
type ArchiveHandler struct {
	src archiveSource
}

// NewArchiveHandler construye el handler.
func NewArchiveHandler(src archiveSource) *ArchiveHandler {
	return &ArchiveHandler{src: src}
}

// Recent godoc
// @Summary      Últimas entradas archivadas de la bitácora
// @Tags         activity-logs
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de entradas"  default(100)
// @Success      200  {array}   entity.ActivityLog
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/activity-logs/archive [get]
func (h *ArchiveHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	logs, err := h.src.Recent(c.UserContext(), int64(limit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}
