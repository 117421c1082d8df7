package dto

import "github.com/jhoicas/warehouse-inventory/internal/domain/entity"

// RegisterTransactionRequest body para POST /api/transactions.
type RegisterTransactionRequest struct {
	ItemID   string                 `json:"itemId" validate:"required"`
	Type     entity.TransactionType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity int                    `json:"quantity" validate:"gt=0"`
	Reason   string                 `json:"reason" validate:"required"`
}

// TransactionFilter filtros de GET /api/transactions.
type TransactionFilter struct {
	ItemID string                 `query:"itemId"`
	Type   entity.TransactionType `query:"type" validate:"omitempty,oneof=IN OUT"`
	Limit  int                    `query:"limit" validate:"min=0"`
}

// TransactionResponse resultado de registrar un movimiento.
// Damaged solo viene cuando la salida generó un registro de ítem dañado.
type TransactionResponse struct {
	Transaction entity.Transaction  `json:"transaction"`
	Item        ItemResponse        `json:"item"`
	Damaged     *entity.DamagedItem `json:"damaged,omitempty"`
}

// TransactionReasonsDTO motivos aceptados por tipo.
type TransactionReasonsDTO struct {
	IN  []string `json:"IN"`
	OUT []string `json:"OUT"`
}
