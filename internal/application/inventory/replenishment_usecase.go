package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
)

// idealFactor stock ideal = punto de reorden * 1.5.
var idealFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera la lista de reposición de los ítems en stock bajo.
type ReplenishmentUseCase struct {
	state state.Runner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(st state.Runner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{state: st}
}

// GenerateReplenishmentList devuelve los ítems con quantity <= reorderLevel, la cantidad
// sugerida de pedido y un ranking de prioridad por déficit relativo.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList() []dto.ReplenishmentSuggestionDTO {
	suggestions := []dto.ReplenishmentSuggestionDTO{}
	uc.state.View(func(c *state.Collections) {
		for _, item := range c.Items {
			if !item.IsLowStock() {
				continue
			}
			ideal := int(decimal.NewFromInt(int64(item.ReorderLevel)).Mul(idealFactor).Ceil().IntPart())
			suggested := ideal - item.Quantity
			if suggested < 0 {
				suggested = 0
			}
			suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
				ItemID:             item.ID,
				ItemName:           item.Name,
				Category:           item.Category,
				Supplier:           item.SupplierLabel(""),
				CurrentStock:       item.Quantity,
				ReorderLevel:       item.ReorderLevel,
				IdealStock:         ideal,
				SuggestedOrderQty:  suggested,
				UnitPrice:          item.Price,
				EstimatedOrderCost: item.Price.Mul(decimal.NewFromInt(int64(suggested))),
			})
		}
	})

	// Primero mayor déficit relativo (caída bajo el reorden), luego mayor déficit absoluto.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra, rb := deficitRatio(a), deficitRatio(b)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return a.ReorderLevel-a.CurrentStock > b.ReorderLevel-b.CurrentStock
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions
}

func deficitRatio(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if s.ReorderLevel <= 0 {
		if s.CurrentStock <= 0 {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}
	deficit := decimal.NewFromInt(int64(s.ReorderLevel - s.CurrentStock))
	return deficit.Div(decimal.NewFromInt(int64(s.ReorderLevel)))
}
