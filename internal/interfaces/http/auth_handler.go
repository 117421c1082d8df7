package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/auth"
	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
)

// AuthHandler maneja registro, login y aprobación de cuentas.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Signup godoc
// @Summary      Solicitar una cuenta Staff
// @Description  La cuenta queda pendiente hasta que el administrador la apruebe.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "username, email, password, confirmPassword, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.uc.Signup(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "usuario o email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "cuenta pendiente de aprobación"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me devuelve los claims del token actual.
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"id": GetUserID(c), "name": GetName(c), "role": GetRole(c)})
}

// ListPending godoc
// @Summary      Cuentas pendientes de aprobación
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/pending [get]
func (h *AuthHandler) ListPending(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListPending())
}

// ListApproved godoc
// @Summary      Cuentas Staff aprobadas
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Router       /api/users [get]
func (h *AuthHandler) ListApproved(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListApproved())
}

// Approve godoc
// @Summary      Aprobar cuenta pendiente
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/approve [post]
func (h *AuthHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar cuenta pendiente
// @Tags         users
// @Security     Bearer
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/reject [post]
func (h *AuthHandler) Reject(c *fiber.Ctx) error {
	if err := h.uc.Reject(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
