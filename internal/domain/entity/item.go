package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de daño del ítem.
const (
	DamagedStatusGood    = "Good"
	DamagedStatusDamaged = "Damaged"
)

// DefaultReorderLevel se aplica cuando el ítem se crea sin punto de reorden.
const DefaultReorderLevel = 10

// Item representa un ítem del inventario de la bodega.
// Quantity es el conteo autoritativo en mano; SupplierID/SupplierName son una copia
// desnormalizada del proveedor y pueden quedar desactualizados si el proveedor se renombra.
type Item struct {
	ID            string          `json:"id"`
	Name          string          `json:"itemName"`
	Category      string          `json:"category"` // nombre de la categoría, no es FK
	Quantity      int             `json:"quantity"`
	Location      string          `json:"location"`
	ReorderLevel  int             `json:"reorderLevel"`
	Price         decimal.Decimal `json:"price"`
	SupplierID    *string         `json:"supplierId"`
	SupplierName  *string         `json:"supplier"`
	DamagedStatus string          `json:"damagedStatus"`
	DateAdded     time.Time       `json:"dateAdded"`
}

// IsLowStock indica si el ítem está en o por debajo del punto de reorden.
func (i Item) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

// Value es quantity * price.
func (i Item) Value() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SupplierLabel devuelve el nombre del proveedor o fallback si no tiene.
func (i Item) SupplierLabel(fallback string) string {
	if i.SupplierName == nil || *i.SupplierName == "" {
		return fallback
	}
	return *i.SupplierName
}

// AssignSupplier sobrescribe la referencia desnormalizada al proveedor.
func (i *Item) AssignSupplier(s Supplier) {
	id, name := s.ID, s.Name
	i.SupplierID = &id
	i.SupplierName = &name
}

// ClearSupplier deja el ítem sin proveedor.
func (i *Item) ClearSupplier() {
	i.SupplierID = nil
	i.SupplierName = nil
}
