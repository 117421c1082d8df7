package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalItems     int             `json:"totalItems"`
	TotalUnits     int             `json:"totalUnits"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	LowStockCount  int             `json:"lowStockCount"`
	OutOfStock     int             `json:"outOfStock"`

	DamagedUnits int             `json:"damagedUnits"`
	DamagedValue decimal.Decimal `json:"damagedValue"`

	PendingAppointments  int `json:"pendingAppointments"`
	UpcomingAppointments int `json:"upcomingAppointments"`
	OverdueAppointments  int `json:"overdueAppointments"`

	Suppliers  int `json:"suppliers"`
	Categories int `json:"categories"`

	ByCategory     []CategoryStockDTO   `json:"byCategory"`
	LowStockItems  []ItemResponse       `json:"lowStockItems"`
	RecentActivity []entity.ActivityLog `json:"recentActivity"`
}

// CategoryStockDTO stock agregado de una categoría.
type CategoryStockDTO struct {
	Category string          `json:"category"`
	Items    int             `json:"items"`
	Units    int             `json:"units"`
	Value    decimal.Decimal `json:"value"`
}
