package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrPendingApproval   = errors.New("la cuenta está pendiente de aprobación del administrador")

	// ErrCannotDelete bloquea un borrado que dejaría referencias huérfanas.
	ErrCannotDelete = errors.New("no se puede eliminar: el recurso está en uso")

	// ErrNotification solo viaja dentro de avisos; nunca lo devuelve una mutación.
	ErrNotification = errors.New("fallo en la notificación")
)

// ErrorCategory clasifica un error para que la capa de presentación decida cómo mostrarlo.
type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "validation"
	CategoryIntegrity    ErrorCategory = "integrity"
	CategoryNotification ErrorCategory = "notification"
	CategoryInternal     ErrorCategory = "internal"
)

// Category devuelve la categoría de err. Los errores no reconocidos son internos.
func Category(err error) ErrorCategory {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCannotDelete):
		return CategoryIntegrity
	case errors.Is(err, ErrNotification):
		return CategoryNotification
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrPendingApproval),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrForbidden):
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
