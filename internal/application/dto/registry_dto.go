package dto

import "github.com/jhoicas/warehouse-inventory/internal/domain/entity"

// CreateSupplierRequest entrada para crear un proveedor. SuppliedItemIDs enlaza ítems
// existentes; NewItems crea ítems nuevos con stock 0 ya enlazados.
type CreateSupplierRequest struct {
	Name            string   `json:"name" validate:"required,max=200"`
	ContactPerson   string   `json:"contactPerson" validate:"required,max=200"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Phone           string   `json:"phone" validate:"max=50"`
	Address         string   `json:"address" validate:"max=300"`
	IsActive        *bool    `json:"isActive"`
	SuppliedItemIDs []string `json:"suppliedItemIds" validate:"dive,required"`
	NewItems        []string `json:"newItems" validate:"dive,required,max=200"`
}

// UpdateSupplierRequest entrada para editar un proveedor.
type UpdateSupplierRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	ContactPerson *string `json:"contactPerson" validate:"omitempty,min=1,max=200"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Address       *string `json:"address" validate:"omitempty,max=300"`
	IsActive      *bool   `json:"isActive"`
}

// SupplierResponse proveedor con el número de ítems enlazados.
type SupplierResponse struct {
	entity.Supplier
	ItemCount int `json:"itemCount"`
}

// CreateSupplierResponse proveedor creado y los ítems enlazados o creados en el mismo paso.
type CreateSupplierResponse struct {
	Supplier     SupplierResponse `json:"supplier"`
	LinkedItems  []string         `json:"linkedItems"`
	CreatedItems []string         `json:"createdItems"`
}

// DeleteSupplierResponse el borrado no se bloquea; DependentItems advierte cuántos ítems
// quedan con la copia desnormalizada del proveedor.
type DeleteSupplierResponse struct {
	ID             string `json:"id"`
	DependentItems int    `json:"dependentItems"`
	Warning        string `json:"warning,omitempty"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateCategoryRequest entrada para editar una categoría. Renombrar propaga el nombre a los ítems.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CategoryResponse categoría con el número de ítems que la usan.
type CategoryResponse struct {
	entity.Category
	ItemCount int `json:"itemCount"`
}

// UpdateCategoryResponse categoría editada y cuántos ítems se renombraron.
type UpdateCategoryResponse struct {
	Category     CategoryResponse `json:"category"`
	ItemsRenamed int              `json:"itemsRenamed"`
}

// UpdateDamagedItemRequest entrada para cambiar estado o notas de un ítem dañado.
type UpdateDamagedItemRequest struct {
	Status *entity.DamagedStatus `json:"status" validate:"omitempty,oneof=Standby Thrown"`
	Notes  *string               `json:"notes" validate:"omitempty,max=1000"`
}

// DamagedItemListResponse lista de ítems dañados con totales.
type DamagedItemListResponse struct {
	Items      []entity.DamagedItem `json:"items"`
	TotalUnits int                  `json:"totalUnits"`
	Standby    int                  `json:"standby"`
	Thrown     int                  `json:"thrown"`
}
