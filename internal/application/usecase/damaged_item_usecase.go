package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// DamagedItemUseCase gestión de los ítems dañados creados por salidas Damaged/Discarded.
type DamagedItemUseCase struct {
	state state.Runner
}

// NewDamagedItemUseCase construye el caso de uso.
func NewDamagedItemUseCase(st state.Runner) *DamagedItemUseCase {
	return &DamagedItemUseCase{state: st}
}

// List devuelve los registros, más reciente primero, con totales por estado.
func (uc *DamagedItemUseCase) List(status entity.DamagedStatus) (*dto.DamagedItemListResponse, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	out := &dto.DamagedItemListResponse{Items: []entity.DamagedItem{}}
	uc.state.View(func(c *state.Collections) {
		for i := len(c.DamagedItems) - 1; i >= 0; i-- {
			d := c.DamagedItems[i]
			if status != "" && d.Status != status {
				continue
			}
			out.Items = append(out.Items, d)
			out.TotalUnits += d.Quantity
			switch d.Status {
			case entity.DamagedStandby:
				out.Standby++
			case entity.DamagedThrown:
				out.Thrown++
			}
		}
	})
	return out, nil
}

// Update cambia estado y/o notas.
func (uc *DamagedItemUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateDamagedItemRequest) (*entity.DamagedItem, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var out entity.DamagedItem
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		old, ok := tx.DamagedItem(id)
		if !ok {
			return fmt.Errorf("%w: ítem dañado %s", domain.ErrNotFound, id)
		}
		d := old
		if in.Status != nil {
			d.Status = *in.Status
		}
		if in.Notes != nil {
			d.Notes = strings.TrimSpace(*in.Notes)
		}
		tx.PutDamagedItem(d)

		details := "Damaged item updated."
		if old.Status != d.Status {
			details += fmt.Sprintf(" Status changed: %s → %s", old.Status, d.Status)
		}
		if d.Notes != "" {
			details += " Notes: " + d.Notes
		}
		tx.Log(actor, d.ItemName, entity.ActionEdited, details)
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete quita el registro de la lista de dañados. No devuelve unidades al inventario.
func (uc *DamagedItemUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.state.Run(ctx, func(tx *state.Tx) error {
		d, ok := tx.DamagedItem(id)
		if !ok {
			return fmt.Errorf("%w: ítem dañado %s", domain.ErrNotFound, id)
		}
		tx.DeleteDamagedItem(id)
		tx.Log(actor, d.ItemName, entity.ActionDeleted,
			fmt.Sprintf("Removed from damaged items list (%d units, Status: %s)", d.Quantity, d.Status))
		return nil
	})
}
