package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/domain/inventory"
)

// RegisterTransactionUseCase registra movimientos de stock (IN, OUT) sobre un ítem.
// Toda la mutación corre dentro de un state.Tx: si algo falla, nada cambia.
type RegisterTransactionUseCase struct {
	state state.Runner
}

// NewRegisterTransactionUseCase construye el caso de uso.
func NewRegisterTransactionUseCase(st state.Runner) *RegisterTransactionUseCase {
	return &RegisterTransactionUseCase{state: st}
}

// TransactionInput entrada para registrar un movimiento.
type TransactionInput struct {
	Actor    entity.Actor
	ItemID   string
	Type     entity.TransactionType
	Quantity int
	Reason   string
}

// Register aplica el movimiento, agrega la transacción al historial y una entrada
// Transaction a la bitácora. Una salida con motivo Damaged/Discarded además crea
// un DamagedItem en Standby y una segunda entrada Added.
func (uc *RegisterTransactionUseCase) Register(ctx context.Context, input TransactionInput) (*dto.TransactionResponse, error) {
	if input.ItemID == "" {
		return nil, fmt.Errorf("%w: itemId es requerido", domain.ErrInvalidInput)
	}
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidInput, input.Type)
	}
	if !input.Type.AllowsReason(input.Reason) {
		return nil, fmt.Errorf("%w: el motivo %q no es válido para %s", domain.ErrInvalidInput, input.Reason, input.Type)
	}

	var out dto.TransactionResponse
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		t, item, err := ApplyTransaction(tx, input.Actor, input.ItemID, input.Type, input.Quantity, input.Reason)
		if err != nil {
			return err
		}
		tx.Log(input.Actor, item.Name, entity.ActionTransaction,
			inventory.TransactionDetails(t.Type, t.Quantity, t.StockBefore, t.StockAfter, t.Reason))

		out.Transaction = t
		out.Item = dto.ToItemResponse(item)

		if inventory.IsDamageReason(t.Type, t.Reason) {
			d := entity.DamagedItem{
				ID:          uuid.New().String(),
				ItemID:      item.ID,
				ItemName:    item.Name,
				Quantity:    t.Quantity,
				Location:    item.Location,
				Reason:      entity.ReasonDamaged,
				Status:      entity.DamagedStandby,
				Price:       item.Price,
				DateDamaged: tx.Now(),
			}
			tx.PutDamagedItem(d)
			tx.Log(input.Actor, item.Name, entity.ActionAdded,
				fmt.Sprintf("%d units marked as damaged and moved to Damaged Items list", t.Quantity))
			out.Damaged = &d
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplyTransaction aplica un movimiento sobre el ítem dentro de tx y agrega el registro
// al historial con stockBefore/stockAfter tomados del estado actual de la transacción.
// No escribe en la bitácora: cada llamador decide cómo resumir el cambio.
func ApplyTransaction(
	tx *state.Tx,
	actor entity.Actor,
	itemID string,
	typ entity.TransactionType,
	qty int,
	reason string,
) (entity.Transaction, entity.Item, error) {
	item, ok := tx.Item(itemID)
	if !ok {
		return entity.Transaction{}, entity.Item{}, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	before := item.Quantity
	after, err := inventory.ApplyDelta(before, typ, qty)
	if err != nil {
		return entity.Transaction{}, item, fmt.Errorf("%s: %w", item.Name, err)
	}
	item.Quantity = after
	tx.PutItem(item)

	t := entity.Transaction{
		ID:          uuid.New().String(),
		ItemID:      item.ID,
		ItemName:    item.Name,
		Type:        typ,
		Quantity:    qty,
		Reason:      reason,
		User:        actor.Name,
		UserRole:    actor.Role,
		Timestamp:   tx.Now(),
		StockBefore: before,
		StockAfter:  after,
	}
	tx.AppendTransaction(t)
	return t, item, nil
}

// ListTransactions devuelve el historial, más reciente primero.
func (uc *RegisterTransactionUseCase) ListTransactions(filter dto.TransactionFilter) ([]entity.Transaction, error) {
	if err := dto.Validate(filter); err != nil {
		return nil, err
	}
	var out []entity.Transaction
	uc.state.View(func(c *state.Collections) {
		for i := len(c.Transactions) - 1; i >= 0; i-- {
			t := c.Transactions[i]
			if filter.ItemID != "" && t.ItemID != filter.ItemID {
				continue
			}
			if filter.Type != "" && t.Type != filter.Type {
				continue
			}
			out = append(out, t)
			if filter.Limit > 0 && len(out) == filter.Limit {
				break
			}
		}
	})
	if out == nil {
		out = []entity.Transaction{}
	}
	return out, nil
}

// Reasons motivos aceptados por tipo de transacción.
func (uc *RegisterTransactionUseCase) Reasons() dto.TransactionReasonsDTO {
	return dto.TransactionReasonsDTO{
		IN:  entity.TransactionIN.Reasons(),
		OUT: entity.TransactionOUT.Reasons(),
	}
}
