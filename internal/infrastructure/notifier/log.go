package notifier

import (
	"context"

	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

var _ notification.Notifier = (*Log)(nil)

// Log notificador de desarrollo: escribe el correo en el log y siempre tiene éxito.
type Log struct {
	log *logger.Logger
}

// NewLog construye el notificador.
func NewLog(log *logger.Logger) *Log {
	return &Log{log: log.Named("notifier")}
}

func (l *Log) SendLowStockAlert(_ context.Context, a notification.LowStockAlert) notification.Result {
	return l.write(notification.KindLowStock, a.Params())
}

func (l *Log) SendAppointmentConfirmation(_ context.Context, n notification.AppointmentNotice) notification.Result {
	return l.write(notification.KindConfirmation, n.Params())
}

func (l *Log) SendAppointmentCancellation(_ context.Context, n notification.CancellationNotice) notification.Result {
	return l.write(notification.KindCancellation, n.Params())
}

func (l *Log) write(kind notification.Kind, params map[string]string) notification.Result {
	ev := l.log.Info().Str("kind", string(kind))
	for k, v := range params {
		ev = ev.Str(k, v)
	}
	ev.Msg("correo simulado")
	return notification.OK()
}
