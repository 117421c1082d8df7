package inventory

import (
	"fmt"

	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// ApplyDelta calcula el stock resultante de un movimiento (servicio de dominio).
// Una salida mayor al stock disponible devuelve ErrInsufficientStock sin recortar.
func ApplyDelta(before int, typ entity.TransactionType, qty int) (int, error) {
	if qty <= 0 {
		return before, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	switch typ {
	case entity.TransactionIN:
		return before + qty, nil
	case entity.TransactionOUT:
		if qty > before {
			return before, fmt.Errorf("%w: no se pueden retirar %d unidades, solo hay %d disponibles",
				domain.ErrInsufficientStock, qty, before)
		}
		return before - qty, nil
	default:
		return before, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidInput, typ)
	}
}

// TransactionDetails texto de bitácora para un movimiento: "Stock IN: +N (old → new) - reason".
func TransactionDetails(typ entity.TransactionType, qty, before, after int, reason string) string {
	sign := "+"
	if typ == entity.TransactionOUT {
		sign = "-"
	}
	return fmt.Sprintf("Stock %s: %s%d (%d → %d) - %s", typ, sign, qty, before, after, reason)
}

// IsDamageReason indica si una salida con este motivo genera un registro de ítem dañado.
func IsDamageReason(typ entity.TransactionType, reason string) bool {
	return typ == entity.TransactionOUT && reason == entity.ReasonDamaged
}
