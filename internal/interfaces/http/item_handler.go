package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/inventory"
	"github.com/jhoicas/warehouse-inventory/internal/application/usecase"
)

// ItemHandler maneja las peticiones HTTP del inventario (protegido).
type ItemHandler struct {
	uc            *usecase.ItemUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, replenishment *inventory.ReplenishmentUseCase) *ItemHandler {
	return &ItemHandler{uc: uc, replenishment: replenishment}
}

// Create godoc
// @Summary      Crear ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse  "categoría o proveedor inexistente"
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search      query  string  false  "Nombre, ubicación o categoría"
// @Param        category    query  string  false  "Categoría exacta"
// @Param        supplierId  query  string  false  "Proveedor"
// @Param        lowStock    query  bool    false  "Solo stock bajo"
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var f dto.ItemFilter
	if err := c.QueryParser(&f); err != nil {
		return badQuery(c)
	}
	return c.JSON(h.uc.List(f))
}

// Update godoc
// @Summary      Editar ítem
// @Description  Registra en la bitácora solo los campos que cambiaron.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
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
// @Summary      Eliminar ítem
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LowStock godoc
// @Summary      Ítems en o bajo su nivel de reorden
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/low-stock [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	return c.JSON(h.uc.LowStock())
}

// Replenishment godoc
// @Summary      Sugerencias de reabastecimiento
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/items/replenishment [get]
func (h *ItemHandler) Replenishment(c *fiber.Ctx) error {
	return c.JSON(h.replenishment.GenerateReplenishmentList())
}
