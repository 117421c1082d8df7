package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
)

// advisorySource lo implementa *notification.Outbox.
type advisorySource interface {
	Advisories(limit int) []notification.Advisory
}

// NotificationHandler expone los resultados de los envíos (éxitos y fallos).
type NotificationHandler struct {
	src advisorySource
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(src advisorySource) *NotificationHandler {
	return &NotificationHandler{src: src}
}

// Advisories godoc
// @Summary      Avisos de notificación, más reciente primero
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de avisos"  default(50)
// @Success      200  {array}  notification.Advisory
// @Router       /api/notifications/advisories [get]
func (h *NotificationHandler) Advisories(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}
	return c.JSON(h.src.Advisories(limit))
}
