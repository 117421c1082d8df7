package dto

import "github.com/jhoicas/warehouse-inventory/internal/domain/entity"

// RestockLineRequest una línea de reabastecimiento.
type RestockLineRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// AppointmentRequest entrada para agendar o editar una cita.
type AppointmentRequest struct {
	SupplierID string               `json:"supplierId" validate:"required"`
	Date       string               `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string               `json:"time" validate:"required,datetime=15:04"`
	Items      []RestockLineRequest `json:"items" validate:"required,min=1,dive"`
	Notes      string               `json:"notes" validate:"max=1000"`

	// Status inicial o nuevo estado; solo pending o confirmed. Vacío conserva el actual.
	Status entity.AppointmentStatus `json:"status" validate:"omitempty,oneof=pending confirmed"`
}

// CancelAppointmentRequest body opcional de la cancelación. Si Reason viene (aunque vacío)
// se notifica al proveedor.
type CancelAppointmentRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// AppointmentFilter filtros de GET /api/appointments.
type AppointmentFilter struct {
	Status     entity.AppointmentStatus `query:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	SupplierID string                   `query:"supplierId"`
	Overdue    bool                     `query:"overdue"`
	Upcoming   bool                     `query:"upcoming"`
}

// AppointmentResponse cita con propiedades derivadas (no persistidas).
type AppointmentResponse struct {
	entity.Appointment
	Overdue    bool `json:"overdue"`
	Upcoming   bool `json:"upcoming"`
	TotalUnits int  `json:"totalUnits"`
}

// AppointmentActionResponse resultado de una transición. NotificationID identifica el
// mensaje encolado; su resultado se consulta en los avisos.
type AppointmentActionResponse struct {
	Appointment    AppointmentResponse `json:"appointment"`
	NotificationID string              `json:"notificationId,omitempty"`
}

// AppointmentStatsDTO conteos por estado.
type AppointmentStatsDTO struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Overdue   int `json:"overdue"`
	Upcoming  int `json:"upcoming"`
}
