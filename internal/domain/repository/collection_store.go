package repository

import (
	"context"
	"encoding/json"
)

// Claves de las colecciones persistidas. Cada una guarda un arreglo JSON de registros planos.
const (
	KeySuppliers          = "suppliers"
	KeyCategories         = "categories"
	KeyItems              = "inventoryData"
	KeyActivityLogs       = "activityLogs"
	KeyTransactions       = "transactionHistory"
	KeyAppointments       = "appointments"
	KeyDamagedItems       = "damagedItems"
	KeyLowStockAlertsSent = "lowStockAlertsSent"
	KeyPendingUsers       = "pendingUsers"
	KeyApprovedUsers      = "approvedUsers"
)

// Keys orden fijo en que se cargan y se escriben las colecciones.
var Keys = []string{
	KeySuppliers,
	KeyCategories,
	KeyItems,
	KeyTransactions,
	KeyAppointments,
	KeyDamagedItems,
	KeyActivityLogs,
	KeyLowStockAlertsSent,
	KeyPendingUsers,
	KeyApprovedUsers,
}

// ChangeEvent notificación de escritura de una colección completa.
// Quien la recibe reemplaza su copia en memoria; no hay merge por registro.
type ChangeEvent struct {
	Key    string          `json:"key"`
	Value  json.RawMessage `json:"value"`
	Origin string          `json:"origin"`
}

// CollectionStore define el puerto de persistencia clave-valor de colecciones (DIP).
type CollectionStore interface {
	// Load devuelve la colección serializada; ok=false si la clave no existe.
	Load(ctx context.Context, key string) (value json.RawMessage, ok bool, err error)
	// Save sobrescribe la colección y emite un ChangeEvent a todos los suscriptores.
	Save(ctx context.Context, key string, value json.RawMessage, origin string) error
	// Subscribe abre el feed de cambios; el canal se cierra cuando ctx termina.
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}
