package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// ItemUseCase casos de uso CRUD para ítems. Los movimientos de stock van por el motor de inventario.
type ItemUseCase struct {
	state state.Runner
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(st state.Runner) *ItemUseCase {
	return &ItemUseCase{state: st}
}

// Create crea un ítem nuevo. La categoría debe existir y el nombre no puede repetirse.
func (uc *ItemUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	reorder := entity.DefaultReorderLevel
	if in.ReorderLevel != nil {
		reorder = *in.ReorderLevel
	}

	var out dto.ItemResponse
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		name := strings.TrimSpace(in.Name)
		if _, dup := tx.ItemByName(name); dup {
			return fmt.Errorf("%w: ya existe un ítem llamado %q", domain.ErrDuplicate, name)
		}
		cat, ok := tx.CategoryByName(in.Category)
		if !ok {
			return fmt.Errorf("%w: la categoría %q no existe", domain.ErrInvalidInput, in.Category)
		}
		item := entity.Item{
			ID:            uuid.New().String(),
			Name:          name,
			Category:      cat.Name,
			Quantity:      in.Quantity,
			Location:      strings.TrimSpace(in.Location),
			ReorderLevel:  reorder,
			Price:         in.Price,
			DamagedStatus: entity.DamagedStatusGood,
			DateAdded:     tx.Now(),
		}
		if in.SupplierID != nil && *in.SupplierID != "" {
			sup, ok := tx.Supplier(*in.SupplierID)
			if !ok {
				return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, *in.SupplierID)
			}
			item.AssignSupplier(sup)
		}
		tx.PutItem(item)
		tx.Log(actor, item.Name, entity.ActionAdded, fmt.Sprintf("Added %d units to inventory", item.Quantity))
		out = dto.ToItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	var (
		item entity.Item
		ok   bool
	)
	uc.state.View(func(c *state.Collections) { item, ok = c.Item(id) })
	if !ok {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
	}
	out := dto.ToItemResponse(item)
	return &out, nil
}

// Update reemplaza los campos enviados y registra en la bitácora qué cambió.
func (uc *ItemUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}

	var out dto.ItemResponse
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		old, ok := tx.Item(id)
		if !ok {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
		}
		item := old
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if other, dup := tx.ItemByName(name); dup && other.ID != id {
				return fmt.Errorf("%w: ya existe un ítem llamado %q", domain.ErrDuplicate, name)
			}
			item.Name = name
		}
		if in.Category != nil {
			cat, ok := tx.CategoryByName(*in.Category)
			if !ok {
				return fmt.Errorf("%w: la categoría %q no existe", domain.ErrInvalidInput, *in.Category)
			}
			item.Category = cat.Name
		}
		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if in.Location != nil {
			item.Location = strings.TrimSpace(*in.Location)
		}
		if in.ReorderLevel != nil {
			item.ReorderLevel = *in.ReorderLevel
		}
		if in.Price != nil {
			item.Price = *in.Price
		}
		if in.SupplierID != nil {
			if *in.SupplierID == "" {
				item.ClearSupplier()
			} else {
				sup, ok := tx.Supplier(*in.SupplierID)
				if !ok {
					return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, *in.SupplierID)
				}
				item.AssignSupplier(sup)
			}
		}
		tx.PutItem(item)
		tx.Log(actor, item.Name, entity.ActionEdited, itemDiff(old, item))
		out = dto.ToItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// itemDiff describe los campos rastreados que cambiaron.
func itemDiff(old, updated entity.Item) string {
	var changes []string
	if old.Quantity != updated.Quantity {
		changes = append(changes, fmt.Sprintf("quantity: %d → %d", old.Quantity, updated.Quantity))
	}
	if old.Location != updated.Location {
		changes = append(changes, fmt.Sprintf("location: %s → %s", old.Location, updated.Location))
	}
	if old.Category != updated.Category {
		changes = append(changes, fmt.Sprintf("category: %s → %s", old.Category, updated.Category))
	}
	if before, after := old.SupplierLabel("None"), updated.SupplierLabel("None"); before != after {
		changes = append(changes, fmt.Sprintf("supplier: %s → %s", before, after))
	}
	if len(changes) == 0 {
		return "Updated item information"
	}
	return "Updated: " + strings.Join(changes, ", ")
}

// Delete elimina un ítem por ID.
func (uc *ItemUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.state.Run(ctx, func(tx *state.Tx) error {
		item, ok := tx.Item(id)
		if !ok {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
		}
		tx.DeleteItem(id)
		tx.Log(actor, item.Name, entity.ActionDeleted, "Item removed from inventory")
		return nil
	})
}

// List lista ítems aplicando los filtros.
func (uc *ItemUseCase) List(filter dto.ItemFilter) *dto.ItemListResponse {
	out := &dto.ItemListResponse{Items: []dto.ItemResponse{}}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	uc.state.View(func(c *state.Collections) {
		for _, it := range c.Items {
			if filter.Category != "" && !state.SameName(it.Category, filter.Category) {
				continue
			}
			if filter.SupplierID != "" && (it.SupplierID == nil || *it.SupplierID != filter.SupplierID) {
				continue
			}
			if filter.LowStock && !it.IsLowStock() {
				continue
			}
			if search != "" && !matchesItem(it, search) {
				continue
			}
			r := dto.ToItemResponse(it)
			out.Items = append(out.Items, r)
			out.TotalUnits += it.Quantity
			out.TotalValue = out.TotalValue.Add(r.Value)
		}
	})
	return out
}

func matchesItem(it entity.Item, search string) bool {
	for _, field := range []string{it.Name, it.Category, it.Location, it.SupplierLabel("")} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// LowStock ítems con quantity <= reorderLevel.
func (uc *ItemUseCase) LowStock() []dto.ItemResponse {
	return uc.List(dto.ItemFilter{LowStock: true}).Items
}
