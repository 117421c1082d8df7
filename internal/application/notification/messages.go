package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// Textos por defecto de las plantillas.
const (
	NoSupplier = "No supplier assigned"
	NoNotes    = "No additional notes"
	NoPhone    = "Not provided"
	NoReason   = "No reason provided"
)

const (
	alertDateLayout       = "January 2, 2006 03:04 PM"
	appointmentDateLayout = "Monday, January 2, 2006"
)

// Recipient destinatario de un correo.
type Recipient struct {
	Name  string
	Email string
}

// LowStockAlert alerta de stock bajo para el administrador.
type LowStockAlert struct {
	To              Recipient
	ItemID          string
	ItemName        string
	CurrentQuantity int
	ReorderLevel    int
	Location        string
	Category        string
	Supplier        string
	Timestamp       time.Time
}

// AppointmentNotice confirmación de cita para el proveedor.
type AppointmentNotice struct {
	To            Recipient
	AppointmentID string
	SupplierName  string
	Phone         string
	Date          string // 2006-01-02
	Time          string
	Items         []entity.RestockLine
	Notes         string
	Actor         string
	Status        entity.AppointmentStatus
}

// CancellationNotice aviso de cancelación para el proveedor.
type CancellationNotice struct {
	AppointmentNotice
	Reason      string
	CancelledBy string
	CancelledAt time.Time
}

// NewLowStockAlert arma la alerta a partir del ítem.
func NewLowStockAlert(to Recipient, item entity.Item, now time.Time) LowStockAlert {
	return LowStockAlert{
		To:              to,
		ItemID:          item.ID,
		ItemName:        item.Name,
		CurrentQuantity: item.Quantity,
		ReorderLevel:    item.ReorderLevel,
		Location:        item.Location,
		Category:        item.Category,
		Supplier:        item.SupplierLabel(NoSupplier),
		Timestamp:       now,
	}
}

// NewAppointmentNotice arma la confirmación a partir de la cita y el proveedor.
func NewAppointmentNotice(a entity.Appointment, s entity.Supplier, actor string) AppointmentNotice {
	return AppointmentNotice{
		To:            Recipient{Name: s.ContactPerson, Email: s.Email},
		AppointmentID: a.ID,
		SupplierName:  s.Name,
		Phone:         s.Phone,
		Date:          a.Date,
		Time:          a.Time,
		Items:         append([]entity.RestockLine(nil), a.Items...),
		Notes:         a.Notes,
		Actor:         actor,
		Status:        a.Status,
	}
}

// NewCancellationNotice arma el aviso de cancelación. Un motivo vacío usa NoReason.
func NewCancellationNotice(a entity.Appointment, s entity.Supplier, actor, reason string, now time.Time) CancellationNotice {
	return CancellationNotice{
		AppointmentNotice: NewAppointmentNotice(a, s, a.ScheduledBy),
		Reason:            reason,
		CancelledBy:       actor,
		CancelledAt:       now,
	}
}

// ItemsList una línea "• nombre - N units" por ítem.
func ItemsList(lines []entity.RestockLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("• %s - %d units", l.ItemName, l.Quantity))
	}
	return strings.Join(parts, "\n")
}

func formatAppointmentDate(date string) string {
	d, err := time.Parse(entity.AppointmentDateLayout, date)
	if err != nil {
		return date
	}
	return d.Format(appointmentDateLayout)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Params parámetros de plantilla de la alerta.
func (a LowStockAlert) Params() map[string]string {
	p := message.NewPrinter(language.English)
	return map[string]string{
		"to_name":          orDefault(a.To.Name, "Admin"),
		"to_email":         a.To.Email,
		"item_name":        a.ItemName,
		"current_quantity": p.Sprintf("%d", a.CurrentQuantity),
		"reorder_level":    p.Sprintf("%d", a.ReorderLevel),
		"location":         a.Location,
		"category":         a.Category,
		"supplier":         orDefault(a.Supplier, NoSupplier),
		"alert_date":       a.Timestamp.Format(alertDateLayout),
	}
}

// Params parámetros de plantilla de la confirmación. total_items cuenta líneas, no unidades.
func (n AppointmentNotice) Params() map[string]string {
	return map[string]string{
		"to_name":          n.To.Name,
		"to_email":         n.To.Email,
		"supplier_name":    n.SupplierName,
		"appointment_date": formatAppointmentDate(n.Date),
		"appointment_time": n.Time,
		"items_list":       ItemsList(n.Items),
		"total_items":      fmt.Sprint(len(n.Items)),
		"notes":            orDefault(n.Notes, NoNotes),
		"scheduled_by":     n.Actor,
		"status":           string(n.Status),
		"contact_phone":    orDefault(n.Phone, NoPhone),
	}
}

// Params parámetros de plantilla de la cancelación.
func (n CancellationNotice) Params() map[string]string {
	p := n.AppointmentNotice.Params()
	delete(p, "notes")
	delete(p, "scheduled_by")
	delete(p, "status")
	p["cancel_reason"] = orDefault(n.Reason, NoReason)
	p["cancelled_by"] = n.CancelledBy
	p["cancelled_date"] = n.CancelledAt.Format(alertDateLayout)
	return p
}

// Message unidad de trabajo del outbox. Solo uno de los payloads viene poblado según Kind.
type Message struct {
	ID           string
	Kind         Kind
	Subject      string
	LowStock     *LowStockAlert
	Confirmation *AppointmentNotice
	Cancellation *CancellationNotice
	CreatedAt    time.Time
}

// LowStockMessage envuelve una alerta.
func LowStockMessage(a LowStockAlert) Message {
	return Message{
		ID: uuid.New().String(), Kind: KindLowStock, LowStock: &a, CreatedAt: a.Timestamp,
		Subject: fmt.Sprintf("Low stock: %s", a.ItemName),
	}
}

// ConfirmationMessage envuelve una confirmación.
func ConfirmationMessage(n AppointmentNotice, now time.Time) Message {
	return Message{
		ID: uuid.New().String(), Kind: KindConfirmation, Confirmation: &n, CreatedAt: now,
		Subject: fmt.Sprintf("Appointment confirmed: %s", n.SupplierName),
	}
}

// CancellationMessage envuelve una cancelación.
func CancellationMessage(n CancellationNotice) Message {
	return Message{
		ID: uuid.New().String(), Kind: KindCancellation, Cancellation: &n, CreatedAt: n.CancelledAt,
		Subject: fmt.Sprintf("Appointment cancelled: %s", n.SupplierName),
	}
}
