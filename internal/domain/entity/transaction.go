package entity

import "time"

// TransactionType tipo de movimiento de stock.
type TransactionType string

// Tipos de transacción de inventario.
const (
	TransactionIN  TransactionType = "IN"  // entrada
	TransactionOUT TransactionType = "OUT" // salida
)

// Motivos permitidos por tipo de transacción.
const (
	ReasonRestockFromSupplier  = "Restock from supplier"
	ReasonReturnFromCustomer   = "Return from customer"
	ReasonTransferIn           = "Transfer from other warehouse"
	ReasonInventoryAdjustment  = "Inventory adjustment"
	ReasonSoldToCustomer       = "Sold to customer"
	ReasonUsedInOperations     = "Used in operations"
	ReasonTransferOut          = "Transfer to other warehouse"
	ReasonDamaged              = "Damaged/Discarded"
	ReasonOther                = "Other"
	reasonRestockFromAppointmt = "Restock from appointment with "
)

var reasonsByType = map[TransactionType][]string{
	TransactionIN: {
		ReasonRestockFromSupplier,
		ReasonReturnFromCustomer,
		ReasonTransferIn,
		ReasonInventoryAdjustment,
		ReasonOther,
	},
	TransactionOUT: {
		ReasonSoldToCustomer,
		ReasonUsedInOperations,
		ReasonTransferOut,
		ReasonDamaged,
		ReasonOther,
	},
}

// Valid indica si t es IN u OUT.
func (t TransactionType) Valid() bool {
	return t == TransactionIN || t == TransactionOUT
}

// Reasons devuelve los motivos aceptados para el tipo.
func (t TransactionType) Reasons() []string {
	out := make([]string, len(reasonsByType[t]))
	copy(out, reasonsByType[t])
	return out
}

// AllowsReason indica si reason pertenece al conjunto cerrado del tipo.
func (t TransactionType) AllowsReason(reason string) bool {
	for _, r := range reasonsByType[t] {
		if r == reason {
			return true
		}
	}
	return false
}

// AppointmentRestockReason es el motivo de las entradas generadas al completar una cita.
func AppointmentRestockReason(supplierName string) string {
	return reasonRestockFromAppointmt + supplierName
}

// Transaction registro inmutable de un movimiento de stock.
type Transaction struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"itemId"`
	ItemName    string          `json:"itemName"`
	Type        TransactionType `json:"type"`
	Quantity    int             `json:"quantity"`
	Reason      string          `json:"reason"`
	User        string          `json:"user"`
	UserRole    string          `json:"userRole"`
	Timestamp   time.Time       `json:"timestamp"`
	StockBefore int             `json:"stockBefore"`
	StockAfter  int             `json:"stockAfter"`
}
