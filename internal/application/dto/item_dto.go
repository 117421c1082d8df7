package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	Name         string          `json:"itemName" validate:"required,max=200"`
	Category     string          `json:"category" validate:"required"`
	Quantity     int             `json:"quantity" validate:"min=0"`
	Location     string          `json:"location" validate:"required,max=100"`
	ReorderLevel *int            `json:"reorderLevel" validate:"omitempty,min=0"`
	Price        decimal.Decimal `json:"price"`
	SupplierID   *string         `json:"supplierId"`
}

// UpdateItemRequest entrada para editar un ítem. Los campos nil no cambian;
// SupplierID vacío deja el ítem sin proveedor.
type UpdateItemRequest struct {
	Name         *string          `json:"itemName" validate:"omitempty,min=1,max=200"`
	Category     *string          `json:"category" validate:"omitempty,min=1"`
	Quantity     *int             `json:"quantity" validate:"omitempty,min=0"`
	Location     *string          `json:"location" validate:"omitempty,min=1,max=100"`
	ReorderLevel *int             `json:"reorderLevel" validate:"omitempty,min=0"`
	Price        *decimal.Decimal `json:"price"`
	SupplierID   *string          `json:"supplierId"`
}

// ItemFilter filtros de GET /api/items.
type ItemFilter struct {
	Search     string `query:"search"`
	Category   string `query:"category"`
	SupplierID string `query:"supplierId"`
	LowStock   bool   `query:"lowStock"`
}

// ItemResponse ítem con sus propiedades derivadas.
type ItemResponse struct {
	entity.Item
	LowStock bool            `json:"lowStock"`
	Value    decimal.Decimal `json:"value"`
}

// ItemListResponse lista de ítems con totales.
type ItemListResponse struct {
	Items      []ItemResponse  `json:"items"`
	TotalUnits int             `json:"totalUnits"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem en o bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"itemId"`
	ItemName           string          `json:"itemName"`
	Category           string          `json:"category"`
	Supplier           string          `json:"supplier"`
	CurrentStock       int             `json:"currentStock"`
	ReorderLevel       int             `json:"reorderLevel"`
	IdealStock         int             `json:"idealStock"`         // ReorderLevel * 1.5, redondeado hacia arriba
	SuggestedOrderQty  int             `json:"suggestedOrderQty"`  // IdealStock - CurrentStock
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	EstimatedOrderCost decimal.Decimal `json:"estimatedOrderCost"` // SuggestedOrderQty * UnitPrice
	Priority           int             `json:"priority"`           // 1 = más urgente
}

// ToItemResponse agrega las propiedades derivadas al ítem.
func ToItemResponse(it entity.Item) ItemResponse {
	return ItemResponse{Item: it, LowStock: it.IsLowStock(), Value: it.Value()}
}
