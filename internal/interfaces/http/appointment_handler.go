package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/appointment"
	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
)

// AppointmentHandler ciclo de vida de las citas de reabastecimiento (protegido).
type AppointmentHandler struct {
	uc *appointment.UseCase
}

// NewAppointmentHandler construye el handler.
func NewAppointmentHandler(uc *appointment.UseCase) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// List godoc
// @Summary      Listar citas por fecha y hora
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "pending, confirmed, completed o cancelled"
// @Param        supplierId  query  string  false  "Proveedor"
// @Param        overdue     query  bool    false  "Solo vencidas"
// @Param        upcoming    query  bool    false  "Solo próximas"
// @Success      200  {array}   dto.AppointmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	var f dto.AppointmentFilter
	if err := c.QueryParser(&f); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cita por ID
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cita"
// @Success      200  {object}  dto.AppointmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Conteos por estado
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AppointmentStatsDTO
// @Router       /api/appointments/stats [get]
func (h *AppointmentHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.uc.Stats())
}

// Schedule godoc
// @Summary      Agendar cita
// @Description  Si el proveedor tiene email se encola la confirmación.
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppointmentRequest  true  "supplierId, date, time, items, notes, status"
// @Success      201   {object}  dto.AppointmentActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Schedule(c *fiber.Ctx) error {
	var in dto.AppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Schedule(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar cita abierta
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cita"
// @Param        body  body  dto.AppointmentRequest  true  "Datos de la cita"
// @Success      200   {object}  dto.AppointmentActionResponse
// @Failure      422   {object}  dto.ErrorResponse  "cita completada o cancelada"
// @Router       /api/appointments/{id} [put]
func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	var in dto.AppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar cita pendiente
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cita"
// @Success      200  {object}  dto.AppointmentActionResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/appointments/{id}/confirm [post]
func (h *AppointmentHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.uc.Confirm(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar cita
// @Description  Registra una entrada de stock por línea y asigna el proveedor a cada ítem.
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cita"
// @Success      200  {object}  dto.AppointmentActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar cita
// @Description  Con reason (aunque vacío) se avisa al proveedor.
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cita"
// @Param        body  body  dto.CancelAppointmentRequest  false  "reason"
// @Success      200   {object}  dto.AppointmentActionResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelAppointmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		if err := dto.Validate(in); err != nil {
			return respondError(c, err)
		}
	}
	out, err := h.uc.Cancel(c.UserContext(), actorFrom(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
