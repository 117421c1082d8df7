package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

// errQueueFull se registra como aviso cuando el outbox no acepta más mensajes.
var errQueueFull = errors.New("cola de notificaciones llena")

// OutboxConfig parámetros del outbox. Los ceros toman valores por defecto.
type OutboxConfig struct {
	Workers       int
	QueueSize     int
	Timeout       time.Duration
	AdvisoryLimit int
	Publisher     EventPublisher
}

func (c *OutboxConfig) defaults() {
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 100
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.AdvisoryLimit <= 0 {
		c.AdvisoryLimit = 200
	}
}

// Outbox desacopla los envíos de la ruta de mutación: Enqueue nunca bloquea y cada
// resultado queda como Advisory (anillo acotado), en el log y, si hay publisher, como evento.
type Outbox struct {
	notifier Notifier
	cfg      OutboxConfig
	log      *logger.Logger
	queue    chan Message
	now      func() time.Time

	mu         sync.Mutex
	advisories []Advisory // anillo; next es la próxima posición a escribir
	next       int
	full       bool
}

// NewOutbox construye el outbox. Los workers arrancan con Run.
func NewOutbox(n Notifier, log *logger.Logger, cfg OutboxConfig) *Outbox {
	cfg.defaults()
	return &Outbox{
		notifier:   n,
		cfg:        cfg,
		log:        log.Named("outbox"),
		queue:      make(chan Message, cfg.QueueSize),
		now:        time.Now,
		advisories: make([]Advisory, cfg.AdvisoryLimit),
	}
}

// Enqueue agrega el mensaje a la cola y devuelve su ID. Si la cola está llena el
// mensaje se descarta y queda un aviso fallido.
func (o *Outbox) Enqueue(m Message) string {
	select {
	case o.queue <- m:
		o.log.Debug().Str("id", m.ID).Str("kind", string(m.Kind)).Msg("notificación encolada")
	default:
		o.record(context.Background(), m, Failed(errQueueFull), 0)
	}
	return m.ID
}

// Run arranca los workers y bloquea hasta que ctx termine. Los mensajes que sigan
// en cola al cerrar se descartan.
func (o *Outbox) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < o.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case m := <-o.queue:
					o.Deliver(ctx, m)
				}
			}
		}()
	}
	wg.Wait()
	if pending := len(o.queue); pending > 0 {
		o.log.Warn().Int("pending", pending).Msg("outbox detenido con mensajes sin enviar")
	}
}

// Deliver envía el mensaje de forma síncrona con el timeout configurado y registra el aviso.
func (o *Outbox) Deliver(ctx context.Context, m Message) Result {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	start := o.now()
	res := o.send(ctx, m)
	o.record(ctx, m, res, o.now().Sub(start))
	return res
}

func (o *Outbox) send(ctx context.Context, m Message) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failed(fmt.Errorf("panic en notifier: %v", r))
		}
	}()
	switch {
	case m.Kind == KindLowStock && m.LowStock != nil:
		return o.notifier.SendLowStockAlert(ctx, *m.LowStock)
	case m.Kind == KindConfirmation && m.Confirmation != nil:
		return o.notifier.SendAppointmentConfirmation(ctx, *m.Confirmation)
	case m.Kind == KindCancellation && m.Cancellation != nil:
		return o.notifier.SendAppointmentCancellation(ctx, *m.Cancellation)
	default:
		return Failed(fmt.Errorf("mensaje %s sin payload para %q", m.ID, m.Kind))
	}
}

func (o *Outbox) record(ctx context.Context, m Message, res Result, elapsed time.Duration) {
	a := Advisory{
		MessageID: m.ID,
		Kind:      m.Kind,
		Subject:   m.Subject,
		Success:   res.Success,
		Error:     res.Error,
		At:        o.now(),
		ElapsedMS: elapsed.Milliseconds(),
	}
	if !res.Success {
		a.Category = domain.Category(res.Err())
		o.log.Warn().Str("id", m.ID).Str("kind", string(m.Kind)).Str("error", res.Error).Msg("notificación fallida")
	} else {
		o.log.Info().Str("id", m.ID).Str("kind", string(m.Kind)).Int64("elapsed_ms", a.ElapsedMS).Msg("notificación enviada")
	}

	o.mu.Lock()
	o.advisories[o.next] = a
	o.next = (o.next + 1) % len(o.advisories)
	if o.next == 0 {
		o.full = true
	}
	o.mu.Unlock()

	if o.cfg.Publisher != nil {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.Timeout)
		defer cancel()
		if err := o.cfg.Publisher.Publish(pctx, a); err != nil {
			o.log.Warn().Err(err).Str("id", m.ID).Msg("no se pudo publicar el aviso")
		}
	}
}

// Advisories devuelve hasta limit avisos, más reciente primero. limit <= 0 devuelve todos.
func (o *Outbox) Advisories(limit int) []Advisory {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := o.next
	if o.full {
		n = len(o.advisories)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Advisory, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (o.next - i + len(o.advisories)) % len(o.advisories)
		out = append(out, o.advisories[idx])
	}
	return out
}
