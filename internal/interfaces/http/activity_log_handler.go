package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/audit"
	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
)

// ActivityLogHandler consulta y exportación de la bitácora de auditoría.
type ActivityLogHandler struct {
	uc *audit.UseCase
}

// NewActivityLogHandler construye el handler.
func NewActivityLogHandler(uc *audit.UseCase) *ActivityLogHandler {
	return &ActivityLogHandler{uc: uc}
}

// List godoc
// @Summary      Bitácora filtrada, más reciente primero
// @Tags         activity-logs
// @Security     Bearer
// @Produce      json
// @Param        action  query  string  false  "Added, Edited, Deleted, Transaction o Alert"
// @Param        month   query  int     false  "1-12"
// @Param        year    query  int     false  "Año"
// @Param        search  query  string  false  "Ítem, usuario o acción"
// @Param        limit   query  int     false  "Límite"   default(50)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.ActivityLogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/activity-logs [get]
func (h *ActivityLogHandler) List(c *fiber.Ctx) error {
	var f dto.ActivityLogFilter
	if err := c.QueryParser(&f); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Conteos por acción y usuarios más activos
// @Tags         activity-logs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ActivitySummaryDTO
// @Router       /api/activity-logs/summary [get]
func (h *ActivityLogHandler) Summary(c *fiber.Ctx) error {
	var f dto.ActivityLogFilter
	if err := c.QueryParser(&f); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.Summary(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar la bitácora filtrada
// @Description  Ignora limit y offset: exporta todas las entradas que cumplen los filtros.
// @Tags         activity-logs
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  true  "csv, excel, html o pdf"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/activity-logs/export [get]
func (h *ActivityLogHandler) Export(c *fiber.Ctx) error {
	var f dto.ActivityLogFilter
	if err := c.QueryParser(&f); err != nil {
		return badQuery(c)
	}
	format := audit.Format(c.Query("format", string(audit.FormatCSV)))
	file, err := h.uc.Export(c.UserContext(), actorFrom(c), format, f)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(file.Filename))
	return c.Send(file.Body)
}

// Formats formatos de exportación disponibles.
// GET /api/activity-logs/formats
func (h *ActivityLogHandler) Formats(c *fiber.Ctx) error {
	return c.JSON(h.uc.Formats())
}
