// Package notifier adaptadores del puerto notification.Notifier: relay HTTP (EmailJS),
// SMTP directo y un notificador de log para desarrollo.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
)

var _ notification.Notifier = (*EmailJS)(nil)

// DefaultEmailJSEndpoint endpoint REST del relay.
const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSConfig credenciales y plantillas del relay.
type EmailJSConfig struct {
	Endpoint            string
	ServiceID           string
	PublicKey           string
	PrivateKey          string
	LowStockTemplate    string
	AppointmentTemplate string
	CancelTemplate      string
}

// EmailJS envía los correos a través del relay HTTP de EmailJS.
type EmailJS struct {
	cfg        EmailJSConfig
	httpClient *http.Client
}

// NewEmailJS construye el adaptador. Con credenciales vacías cada envío devuelve un
// resultado fallido descriptivo en lugar de llamar al relay.
func NewEmailJS(cfg EmailJSConfig) *EmailJS {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEmailJSEndpoint
	}
	return &EmailJS{
		cfg: cfg,
		// El outbox impone además su propio context.WithTimeout por envío.
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// ── Protocolo del relay ───────────────────────────────────────────────────────

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

func (e *EmailJS) SendLowStockAlert(ctx context.Context, a notification.LowStockAlert) notification.Result {
	return e.send(ctx, e.cfg.LowStockTemplate, a.Params())
}

func (e *EmailJS) SendAppointmentConfirmation(ctx context.Context, n notification.AppointmentNotice) notification.Result {
	return e.send(ctx, e.cfg.AppointmentTemplate, n.Params())
}

func (e *EmailJS) SendAppointmentCancellation(ctx context.Context, n notification.CancellationNotice) notification.Result {
	return e.send(ctx, e.cfg.CancelTemplate, n.Params())
}

func (e *EmailJS) send(ctx context.Context, template string, params map[string]string) notification.Result {
	if e.cfg.ServiceID == "" || e.cfg.PublicKey == "" || template == "" {
		return notification.Failed(errors.New("emailjs: servicio, clave pública o plantilla no configurados"))
	}
	if params["to_email"] == "" {
		return notification.Failed(errors.New("emailjs: destinatario sin email"))
	}

	body, err := json.Marshal(emailJSRequest{
		ServiceID:      e.cfg.ServiceID,
		TemplateID:     template,
		UserID:         e.cfg.PublicKey,
		AccessToken:    e.cfg.PrivateKey,
		TemplateParams: params,
	})
	if err != nil {
		return notification.Failed(fmt.Errorf("emailjs: serializar request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return notification.Failed(fmt.Errorf("emailjs: crear HTTP request: %w", err))
	}
	req.Header.Set("content-type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return notification.Failed(fmt.Errorf("emailjs: timeout o cancelación: %w", ctx.Err()))
		}
		return notification.Failed(fmt.Errorf("emailjs: llamada HTTP fallida: %w", err))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	if resp.StatusCode != http.StatusOK {
		return notification.Failed(fmt.Errorf("emailjs: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}
	return notification.OK()
}
