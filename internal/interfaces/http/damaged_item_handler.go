package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/usecase"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// DamagedItemHandler registro de ítems dañados (protegido).
type DamagedItemHandler struct {
	uc *usecase.DamagedItemUseCase
}

// NewDamagedItemHandler construye el handler.
func NewDamagedItemHandler(uc *usecase.DamagedItemUseCase) *DamagedItemHandler {
	return &DamagedItemHandler{uc: uc}
}

// List godoc
// @Summary      Listar ítems dañados
// @Tags         damaged-items
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Standby o Thrown"
// @Success      200  {object}  dto.DamagedItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/damaged-items [get]
func (h *DamagedItemHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(entity.DamagedStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Cambiar estado o notas
// @Tags         damaged-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del registro"
// @Param        body  body  dto.UpdateDamagedItemRequest  true  "status, notes"
// @Success      200   {object}  entity.DamagedItem
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/damaged-items/{id} [put]
func (h *DamagedItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDamagedItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Quitar registro de ítem dañado
// @Tags         damaged-items
// @Security     Bearer
// @Param        id   path  string  true  "ID del registro"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/damaged-items/{id} [delete]
func (h *DamagedItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
