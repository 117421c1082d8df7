package entity

import "time"

// ActivityAction acción registrada en la bitácora.
type ActivityAction string

// Acciones de la bitácora.
const (
	ActionAdded       ActivityAction = "Added"
	ActionEdited      ActivityAction = "Edited"
	ActionDeleted     ActivityAction = "Deleted"
	ActionTransaction ActivityAction = "Transaction"
	ActionAlert       ActivityAction = "Alert"
)

// Actions lista todas las acciones en orden de presentación.
var Actions = []ActivityAction{ActionAdded, ActionEdited, ActionDeleted, ActionTransaction, ActionAlert}

// Actor instantánea del usuario que ejecuta una mutación.
type Actor struct {
	Name string
	Role string
}

// SystemActor firma las entradas generadas por procesos automáticos.
var SystemActor = Actor{Name: "System", Role: "Automated"}

// ActivityLog entrada append-only de la bitácora de auditoría.
type ActivityLog struct {
	ID        string         `json:"id"`
	ItemName  string         `json:"itemName"` // o etiqueta sintética, ej. "Appointment: X"
	Action    ActivityAction `json:"action"`
	User      string         `json:"user"`
	UserRole  string         `json:"userRole"`
	Timestamp time.Time      `json:"timestamp"`
	Details   string         `json:"details"`
}
