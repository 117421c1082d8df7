package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DamagedStatus estado de un ítem dañado.
type DamagedStatus string

// Estados de ítems dañados.
const (
	DamagedStandby DamagedStatus = "Standby"
	DamagedThrown  DamagedStatus = "Thrown"
)

// Valid indica si s es un estado conocido.
func (s DamagedStatus) Valid() bool {
	return s == DamagedStandby || s == DamagedThrown
}

// DamagedItem unidades retiradas por daño. Se crea como efecto de una salida "Damaged/Discarded".
type DamagedItem struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"itemId"`
	ItemName    string          `json:"itemName"`
	Quantity    int             `json:"quantity"`
	Location    string          `json:"location"`
	Reason      string          `json:"reason"`
	Status      DamagedStatus   `json:"status"`
	Price       decimal.Decimal `json:"price"`
	DateDamaged time.Time       `json:"dateDamaged"`
	Notes       string          `json:"notes"`
}

// Value es quantity * price.
func (d DamagedItem) Value() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
