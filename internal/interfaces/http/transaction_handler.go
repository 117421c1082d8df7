package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/inventory"
)

// TransactionHandler movimientos de stock. Cualquier usuario autenticado puede registrarlos.
type TransactionHandler struct {
	uc *inventory.RegisterTransactionUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *inventory.RegisterTransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar movimiento de stock
// @Description  Una salida con motivo "Damaged/Discarded" crea además un ítem dañado en Standby.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterTransactionRequest  true  "itemId, type (IN|OUT), quantity, reason"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/transactions [post]
func (h *TransactionHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterFromRequest(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de movimientos, más reciente primero
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        itemId  query  string  false  "Ítem"
// @Param        type    query  string  false  "IN u OUT"
// @Param        limit   query  int     false  "Límite"
// @Success      200  {array}  entity.Transaction
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var f dto.TransactionFilter
	if err := c.QueryParser(&f); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.ListTransactions(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reasons godoc
// @Summary      Motivos aceptados por tipo de movimiento
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TransactionReasonsDTO
// @Router       /api/transactions/reasons [get]
func (h *TransactionHandler) Reasons(c *fiber.Ctx) error {
	return c.JSON(h.uc.Reasons())
}
