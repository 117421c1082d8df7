package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

// DefaultSweepInterval intervalo del barrido de stock bajo.
const DefaultSweepInterval = 30 * time.Second

// SweepReport resultado de un barrido.
type SweepReport struct {
	Candidates int
	Sent       int
	Failed     int
}

// Sweeper revisa periódicamente los ítems en stock bajo y envía como máximo una alerta
// por ítem y episodio. La memoria de alertas vive en el estado (lowStockAlertsSent).
type Sweeper struct {
	state    state.Runner
	outbox   *Outbox
	admin    Recipient
	interval time.Duration
	log      *logger.Logger
}

// NewSweeper construye el barrido. interval <= 0 usa DefaultSweepInterval.
func NewSweeper(st state.Runner, outbox *Outbox, admin Recipient, interval time.Duration, log *logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{state: st, outbox: outbox, admin: admin, interval: interval, log: log.Named("sweeper")}
}

// Run ejecuta un barrido inmediato y luego uno por intervalo hasta que ctx termine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if _, err := s.Tick(ctx); err != nil && ctx.Err() == nil {
			s.log.Error().Err(err).Msg("barrido de stock bajo fallido")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Tick ejecuta un barrido. Los envíos son síncronos: el ID entra en la memoria y se
// registra la entrada Alert solo si el envío tuvo éxito; si falla se reintenta en el
// siguiente barrido.
func (s *Sweeper) Tick(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	// Una transacción vacía reconcilia la memoria con el stock actual.
	if err := s.state.Run(ctx, func(*state.Tx) error { return nil }); err != nil {
		return report, err
	}

	var candidates []entity.Item
	s.state.View(func(c *state.Collections) {
		for _, it := range c.Items {
			if it.IsLowStock() && !c.AlertSent(it.ID) {
				candidates = append(candidates, it)
			}
		}
	})
	report.Candidates = len(candidates)

	for _, item := range candidates {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		res := s.outbox.Deliver(ctx, LowStockMessage(NewLowStockAlert(s.admin, item, s.state.Now())))
		if !res.Success {
			report.Failed++
			continue
		}
		report.Sent++
		err := s.state.Run(ctx, func(tx *state.Tx) error {
			tx.MarkAlertSent(item.ID)
			tx.Log(entity.SystemActor, item.Name, entity.ActionAlert,
				fmt.Sprintf("Low stock email alert sent to admin (%d units remaining, reorder at %d)",
					item.Quantity, item.ReorderLevel))
			return nil
		})
		if err != nil {
			return report, err
		}
	}
	if report.Candidates > 0 {
		s.log.Info().Int("candidates", report.Candidates).Int("sent", report.Sent).Int("failed", report.Failed).Msg("barrido de stock bajo")
	}
	return report, nil
}
