package entity

import "time"

// AppointmentStatus estado de una cita de reabastecimiento.
type AppointmentStatus string

// Estados de la cita. completed y cancelled son terminales.
const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Formatos de fecha y hora de las citas.
const (
	AppointmentDateLayout = "2006-01-02"
	AppointmentTimeLayout = "15:04"
)

// UpcomingWindow ventana en la que una cita se considera próxima.
const UpcomingWindow = 7 * 24 * time.Hour

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

// IsTerminal indica si no se permiten más transiciones.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

// CanTransitionTo indica si la transición s → next es válida.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RestockLine una línea (ítem, cantidad) esperada del proveedor.
type RestockLine struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

// Appointment cita de reabastecimiento con un proveedor.
type Appointment struct {
	ID            string            `json:"id"`
	SupplierID    string            `json:"supplierId"`
	SupplierName  string            `json:"supplierName"`
	Date          string            `json:"date"` // 2006-01-02
	Time          string            `json:"time"` // 15:04
	Status        AppointmentStatus `json:"status"`
	Items         []RestockLine     `json:"items"`
	Notes         string            `json:"notes"`
	ScheduledBy   string            `json:"scheduledBy"`
	ScheduledDate time.Time         `json:"scheduledDate"`
	LastUpdated   time.Time         `json:"lastUpdated"`
}

// Clone copia la cita incluyendo sus líneas.
func (a Appointment) Clone() Appointment {
	c := a
	c.Items = append([]RestockLine(nil), a.Items...)
	return c
}

// TotalUnits suma las cantidades de todas las líneas.
func (a Appointment) TotalUnits() int {
	total := 0
	for _, l := range a.Items {
		total += l.Quantity
	}
	return total
}

// ScheduledAt combina Date y Time en la zona de loc.
func (a Appointment) ScheduledAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(AppointmentDateLayout+" "+AppointmentTimeLayout, a.Date+" "+a.Time, loc)
}

// IsOverdue indica si la fecha ya pasó y la cita sigue abierta. Propiedad derivada, no se persiste.
func (a Appointment) IsOverdue(now time.Time) bool {
	if a.Status.IsTerminal() {
		return false
	}
	d, err := time.ParseInLocation(AppointmentDateLayout, a.Date, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}

// IsUpcoming indica si la cita abierta cae dentro de UpcomingWindow desde now.
func (a Appointment) IsUpcoming(now time.Time) bool {
	if a.Status.IsTerminal() {
		return false
	}
	at, err := a.ScheduledAt(now.Location())
	if err != nil {
		return false
	}
	return !at.Before(now) && at.Sub(now) <= UpcomingWindow
}
