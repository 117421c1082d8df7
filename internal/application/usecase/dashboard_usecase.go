package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// recentActivityN entradas recientes que muestra el dashboard.
const recentActivityN = 10

// DashboardUseCase agrega los KPIs de inventario, dañados y citas.
type DashboardUseCase struct {
	state state.Runner
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(st state.Runner) *DashboardUseCase {
	return &DashboardUseCase{state: st}
}

// Summary calcula el resumen sobre una vista consistente del estado.
func (uc *DashboardUseCase) Summary() *dto.DashboardSummaryDTO {
	now := uc.state.Now()
	out := &dto.DashboardSummaryDTO{
		ByCategory:     []dto.CategoryStockDTO{},
		LowStockItems:  []dto.ItemResponse{},
		RecentActivity: []entity.ActivityLog{},
	}

	uc.state.View(func(c *state.Collections) {
		byCategory := make(map[string]*dto.CategoryStockDTO)
		for _, it := range c.Items {
			out.TotalItems++
			out.TotalUnits += it.Quantity
			out.InventoryValue = out.InventoryValue.Add(it.Value())
			if it.IsLowStock() {
				out.LowStockCount++
				out.LowStockItems = append(out.LowStockItems, dto.ToItemResponse(it))
			}
			if it.Quantity == 0 {
				out.OutOfStock++
			}
			agg, ok := byCategory[it.Category]
			if !ok {
				agg = &dto.CategoryStockDTO{Category: it.Category, Value: decimal.Zero}
				byCategory[it.Category] = agg
			}
			agg.Items++
			agg.Units += it.Quantity
			agg.Value = agg.Value.Add(it.Value())
		}
		for _, agg := range byCategory {
			out.ByCategory = append(out.ByCategory, *agg)
		}

		for _, d := range c.DamagedItems {
			out.DamagedUnits += d.Quantity
			out.DamagedValue = out.DamagedValue.Add(d.Value())
		}

		for _, a := range c.Appointments {
			if a.Status == entity.AppointmentPending {
				out.PendingAppointments++
			}
			if a.IsUpcoming(now) {
				out.UpcomingAppointments++
			}
			if a.IsOverdue(now) {
				out.OverdueAppointments++
			}
		}

		out.Suppliers = len(c.Suppliers)
		out.Categories = len(c.Categories)

		for i := len(c.ActivityLogs) - 1; i >= 0 && len(out.RecentActivity) < recentActivityN; i-- {
			out.RecentActivity = append(out.RecentActivity, c.ActivityLogs[i])
		}
	})

	// Categorías por valor descendente; empate por nombre.
	sort.Slice(out.ByCategory, func(i, j int) bool {
		a, b := out.ByCategory[i], out.ByCategory[j]
		if !a.Value.Equal(b.Value) {
			return a.Value.GreaterThan(b.Value)
		}
		return a.Category < b.Category
	})
	return out
}
