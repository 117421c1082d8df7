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

// CategoryUseCase casos de uso para categorías. Los ítems las referencian por nombre.
type CategoryUseCase struct {
	state state.Runner
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(st state.Runner) *CategoryUseCase {
	return &CategoryUseCase{state: st}
}

// Create crea una categoría nueva.
func (uc *CategoryUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var out dto.CategoryResponse
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		name := strings.TrimSpace(in.Name)
		if _, dup := tx.CategoryByName(name); dup {
			return fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, name)
		}
		cat := entity.Category{
			ID:          uuid.New().String(),
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			DateAdded:   tx.Now(),
		}
		tx.PutCategory(cat)
		tx.Log(actor, cat.Name, entity.ActionAdded, "New category added")
		out = dto.CategoryResponse{Category: cat}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List lista las categorías con el número de ítems de cada una.
func (uc *CategoryUseCase) List() []dto.CategoryResponse {
	out := []dto.CategoryResponse{}
	uc.state.View(func(c *state.Collections) {
		for _, cat := range c.Categories {
			out = append(out, dto.CategoryResponse{Category: cat, ItemCount: c.CountItemsInCategory(cat.Name)})
		}
	})
	return out
}

// Update edita la categoría. Un cambio de nombre se propaga a todos los ítems
// cuyo campo category es exactamente el nombre anterior.
func (uc *CategoryUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateCategoryRequest) (*dto.UpdateCategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var out dto.UpdateCategoryResponse
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		cat, ok := tx.Category(id)
		if !ok {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
		}
		oldName := cat.Name
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if other, dup := tx.CategoryByName(name); dup && other.ID != id {
				return fmt.Errorf("%w: ya existe una categoría llamada %q", domain.ErrDuplicate, name)
			}
			cat.Name = name
		}
		if in.Description != nil {
			cat.Description = strings.TrimSpace(*in.Description)
		}
		tx.PutCategory(cat)

		if cat.Name != oldName {
			for _, item := range tx.Items {
				if item.Category != oldName {
					continue
				}
				item.Category = cat.Name
				tx.PutItem(item)
				out.ItemsRenamed++
			}
		}
		tx.Log(actor, cat.Name, entity.ActionEdited, "Category information updated")
		out.Category = dto.CategoryResponse{Category: cat, ItemCount: tx.CountItemsInCategory(cat.Name)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina la categoría. Se bloquea con ErrCannotDelete mientras algún ítem la use.
func (uc *CategoryUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.state.Run(ctx, func(tx *state.Tx) error {
		cat, ok := tx.Category(id)
		if !ok {
			return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
		}
		if n := tx.CountItemsInCategory(cat.Name); n > 0 {
			return fmt.Errorf("%w: la categoría %q tiene %d ítem(s)", domain.ErrCannotDelete, cat.Name, n)
		}
		tx.DeleteCategory(id)
		tx.Log(actor, cat.Name, entity.ActionDeleted, "Category removed")
		return nil
	})
}
