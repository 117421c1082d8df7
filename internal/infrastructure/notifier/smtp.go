package notifier

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
)

var _ notification.Notifier = (*SMTP)(nil)

// SMTPConfig servidor de salida.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// dialer subconjunto de *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTP envía los correos directamente con gomail.
type SMTP struct {
	from   string
	dialer dialer
}

// NewSMTP construye el adaptador.
func NewSMTP(cfg SMTPConfig) *SMTP {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTP{from: from, dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)}
}

// ── Cuerpos ───────────────────────────────────────────────────────────────────

var (
	lowStockBody = template.Must(template.New("low_stock").Parse(`<p>Hello {{.to_name}},</p>
<p><strong>{{.item_name}}</strong> is running low: {{.current_quantity}} units remaining (reorder level {{.reorder_level}}).</p>
<ul>
<li>Location: {{.location}}</li>
<li>Category: {{.category}}</li>
<li>Supplier: {{.supplier}}</li>
</ul>
<p>Alert generated on {{.alert_date}}.</p>`))

	confirmationBody = template.Must(template.New("confirmation").Parse(`<p>Hello {{.to_name}},</p>
<p>A restock appointment with <strong>{{.supplier_name}}</strong> is scheduled for {{.appointment_date}} at {{.appointment_time}}.</p>
<pre>{{.items_list}}</pre>
<p>Total items: {{.total_items}}<br>Status: {{.status}}<br>Contact phone: {{.contact_phone}}</p>
<p>Notes: {{.notes}}</p>
<p>Scheduled by {{.scheduled_by}}.</p>`))

	cancellationBody = template.Must(template.New("cancellation").Parse(`<p>Hello {{.to_name}},</p>
<p>The appointment with <strong>{{.supplier_name}}</strong> on {{.appointment_date}} at {{.appointment_time}} was cancelled.</p>
<pre>{{.items_list}}</pre>
<p>Reason: {{.cancel_reason}}</p>
<p>Cancelled by {{.cancelled_by}} on {{.cancelled_date}}.</p>`))
)

// ── Implementación del puerto ─────────────────────────────────────────────────

func (s *SMTP) SendLowStockAlert(ctx context.Context, a notification.LowStockAlert) notification.Result {
	return s.send(ctx, "Low Stock Alert: "+a.ItemName, lowStockBody, a.Params())
}

func (s *SMTP) SendAppointmentConfirmation(ctx context.Context, n notification.AppointmentNotice) notification.Result {
	return s.send(ctx, "Restock Appointment: "+n.SupplierName, confirmationBody, n.Params())
}

func (s *SMTP) SendAppointmentCancellation(ctx context.Context, n notification.CancellationNotice) notification.Result {
	return s.send(ctx, "Appointment Cancelled: "+n.SupplierName, cancellationBody, n.Params())
}

func (s *SMTP) send(ctx context.Context, subject string, body *template.Template, params map[string]string) notification.Result {
	if params["to_email"] == "" {
		return notification.Failed(errors.New("smtp: destinatario sin email"))
	}
	var html strings.Builder
	if err := body.Execute(&html, params); err != nil {
		return notification.Failed(fmt.Errorf("smtp: renderizar cuerpo: %w", err))
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", params["to_email"], params["to_name"])
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html.String())

	// gomail no acepta context: el envío corre aparte y se abandona si ctx vence.
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return notification.Failed(fmt.Errorf("smtp: enviar: %w", err))
		}
		return notification.OK()
	case <-ctx.Done():
		return notification.Failed(fmt.Errorf("smtp: timeout o cancelación: %w", ctx.Err()))
	}
}
