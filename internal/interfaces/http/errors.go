package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
)

// errorStatus traduce un error de dominio a status HTTP y código estable.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrCannotDelete):
		return fiber.StatusConflict, "IN_USE"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusUnprocessableEntity, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrPendingApproval):
		return fiber.StatusForbidden, "PENDING_APPROVAL"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// respondError escribe el ErrorResponse correspondiente a err.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:     code,
		Message:  err.Error(),
		Category: string(domain.Category(err)),
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido", Category: string(domain.CategoryValidation)})
}

func badQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos", Category: string(domain.CategoryValidation)})
}
