// Package notification canal lateral de notificaciones: nunca bloquea ni revierte la mutación
// que lo disparó. Los resultados se registran como avisos consultables.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/warehouse-inventory/internal/domain"
)

// Kind tipo de mensaje saliente.
type Kind string

// Tipos de mensaje.
const (
	KindLowStock     Kind = "low_stock"
	KindConfirmation Kind = "appointment_confirmation"
	KindCancellation Kind = "appointment_cancellation"
)

// Result resultado discriminado de un envío. Un Notifier nunca devuelve error de Go.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// OK resultado exitoso.
func OK() Result { return Result{Success: true} }

// Failed resultado fallido.
func Failed(err error) Result {
	if err == nil {
		err = errors.New("error desconocido")
	}
	return Result{Error: err.Error()}
}

// Err convierte el resultado en un error de categoría notificación, o nil si tuvo éxito.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrNotification, r.Error)
}

// Notifier puerto hacia el relay de correo.
type Notifier interface {
	SendLowStockAlert(ctx context.Context, alert LowStockAlert) Result
	SendAppointmentConfirmation(ctx context.Context, notice AppointmentNotice) Result
	SendAppointmentCancellation(ctx context.Context, notice CancellationNotice) Result
}

// Advisory registro observable de un intento de envío.
type Advisory struct {
	MessageID string               `json:"messageId"`
	Kind      Kind                 `json:"kind"`
	Subject   string               `json:"subject"`
	Success   bool                 `json:"success"`
	Error     string               `json:"error,omitempty"`
	Category  domain.ErrorCategory `json:"category,omitempty"`
	At        time.Time            `json:"at"`
	ElapsedMS int64                `json:"elapsedMs"`
}

// EventPublisher emite cada aviso hacia un sistema externo (ej. Kafka).
type EventPublisher interface {
	Publish(ctx context.Context, a Advisory) error
}
