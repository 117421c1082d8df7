package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// RegisterFromRequest adapta el request HTTP al caso de uso Register(ctx, TransactionInput).
func (uc *RegisterTransactionUseCase) RegisterFromRequest(ctx context.Context, actor entity.Actor, in dto.RegisterTransactionRequest) (*dto.TransactionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	input := TransactionInput{
		Actor:    actor,
		ItemID:   in.ItemID,
		Type:     in.Type,
		Quantity: in.Quantity,
		Reason:   in.Reason,
	}
	return uc.Register(ctx, input)
}
