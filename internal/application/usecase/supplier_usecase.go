package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// Valores de los ítems creados desde el alta de un proveedor.
const (
	quickItemCategory = "Other"
	quickItemLocation = "Warehouse"
)

// SupplierUseCase casos de uso para proveedores.
// Editar un proveedor no actualiza la copia desnormalizada en los ítems.
type SupplierUseCase struct {
	state state.Runner
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(st state.Runner) *SupplierUseCase {
	return &SupplierUseCase{state: st}
}

// Create registra un proveedor, enlaza los ítems existentes indicados y crea los nuevos.
func (uc *SupplierUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateSupplierRequest) (*dto.CreateSupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	out := &dto.CreateSupplierResponse{LinkedItems: []string{}, CreatedItems: []string{}}
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		name := strings.TrimSpace(in.Name)
		if _, dup := tx.SupplierByName(name); dup {
			return fmt.Errorf("%w: ya existe un proveedor llamado %q", domain.ErrDuplicate, name)
		}
		sup := entity.Supplier{
			ID:            uuid.New().String(),
			Name:          name,
			ContactPerson: strings.TrimSpace(in.ContactPerson),
			Email:         strings.TrimSpace(in.Email),
			Phone:         strings.TrimSpace(in.Phone),
			Address:       strings.TrimSpace(in.Address),
			IsActive:      in.IsActive == nil || *in.IsActive,
			DateAdded:     tx.Now(),
		}
		tx.PutSupplier(sup)

		for _, id := range in.SuppliedItemIDs {
			item, ok := tx.Item(id)
			if !ok {
				return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
			}
			item.AssignSupplier(sup)
			tx.PutItem(item)
			out.LinkedItems = append(out.LinkedItems, item.ID)
		}

		for _, raw := range in.NewItems {
			itemName := strings.TrimSpace(raw)
			if _, dup := tx.ItemByName(itemName); dup {
				return fmt.Errorf("%w: ya existe un ítem llamado %q", domain.ErrDuplicate, itemName)
			}
			item := entity.Item{
				ID:            uuid.New().String(),
				Name:          itemName,
				Category:      quickItemCategory,
				Location:      quickItemLocation,
				ReorderLevel:  entity.DefaultReorderLevel,
				Price:         decimal.Zero,
				DamagedStatus: entity.DamagedStatusGood,
				DateAdded:     tx.Now(),
			}
			item.AssignSupplier(sup)
			tx.PutItem(item)
			out.CreatedItems = append(out.CreatedItems, item.ID)
		}

		tx.Log(actor, sup.Name, entity.ActionAdded, "New supplier added")
		out.Supplier = dto.SupplierResponse{Supplier: sup, ItemCount: tx.CountItemsOfSupplier(sup.ID)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(id string) (*dto.SupplierResponse, error) {
	var out *dto.SupplierResponse
	uc.state.View(func(c *state.Collections) {
		if s, ok := c.Supplier(id); ok {
			out = &dto.SupplierResponse{Supplier: s, ItemCount: c.CountItemsOfSupplier(id)}
		}
	})
	if out == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	return out, nil
}

// List lista los proveedores en orden de alta.
func (uc *SupplierUseCase) List() []dto.SupplierResponse {
	out := []dto.SupplierResponse{}
	uc.state.View(func(c *state.Collections) {
		for _, s := range c.Suppliers {
			out = append(out, dto.SupplierResponse{Supplier: s, ItemCount: c.CountItemsOfSupplier(s.ID)})
		}
	})
	return out
}

// Update reemplaza los datos del proveedor. Los ítems conservan el nombre anterior
// hasta que se editen.
func (uc *SupplierUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var out dto.SupplierResponse
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		sup, ok := tx.Supplier(id)
		if !ok {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if other, dup := tx.SupplierByName(name); dup && other.ID != id {
				return fmt.Errorf("%w: ya existe un proveedor llamado %q", domain.ErrDuplicate, name)
			}
			sup.Name = name
		}
		if in.ContactPerson != nil {
			sup.ContactPerson = strings.TrimSpace(*in.ContactPerson)
		}
		if in.Email != nil {
			sup.Email = strings.TrimSpace(*in.Email)
		}
		if in.Phone != nil {
			sup.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.Address != nil {
			sup.Address = strings.TrimSpace(*in.Address)
		}
		if in.IsActive != nil {
			sup.IsActive = *in.IsActive
		}
		tx.PutSupplier(sup)
		tx.Log(actor, sup.Name, entity.ActionEdited, "Supplier information updated")
		out = dto.SupplierResponse{Supplier: sup, ItemCount: tx.CountItemsOfSupplier(id)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina el proveedor aunque tenga ítems enlazados; la respuesta advierte cuántos.
func (uc *SupplierUseCase) Delete(ctx context.Context, actor entity.Actor, id string) (*dto.DeleteSupplierResponse, error) {
	out := &dto.DeleteSupplierResponse{ID: id}
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		sup, ok := tx.Supplier(id)
		if !ok {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
		}
		out.DependentItems = tx.CountItemsOfSupplier(id)
		tx.DeleteSupplier(id)
		tx.Log(actor, sup.Name, entity.ActionDeleted, "Supplier removed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.DependentItems > 0 {
		out.Warning = fmt.Sprintf("%d ítem(s) siguen enlazados a este proveedor", out.DependentItems)
	}
	return out, nil
}
