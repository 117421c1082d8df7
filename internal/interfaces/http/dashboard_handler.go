package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/usecase"
)

// DashboardHandler maneja el endpoint del tablero.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los totales del inventario, stock bajo, valor y próximas citas.
// GET /api/dashboard
//
// No requiere parámetros; se calcula sobre el estado actual de la sesión.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	return c.JSON(h.uc.Summary())
}
