package notification_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

// fakeNotifier registra los envíos y falla mientras fail sea true.
type fakeNotifier struct {
	mu        sync.Mutex
	fail      bool
	panics    bool
	alerts    []notification.LowStockAlert
	confirmed []notification.AppointmentNotice
	cancelled []notification.CancellationNotice
}

func (f *fakeNotifier) result() notification.Result {
	if f.panics {
		panic("relay caído")
	}
	if f.fail {
		return notification.Failed(errors.New("relay respondió 500"))
	}
	return notification.OK()
}

func (f *fakeNotifier) SendLowStockAlert(_ context.Context, a notification.LowStockAlert) notification.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a)
	return f.result()
}

func (f *fakeNotifier) SendAppointmentConfirmation(_ context.Context, n notification.AppointmentNotice) notification.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, n)
	return f.result()
}

func (f *fakeNotifier) SendAppointmentCancellation(_ context.Context, n notification.CancellationNotice) notification.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, n)
	return f.result()
}

func (f *fakeNotifier) alertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

func (f *fakeNotifier) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []notification.Advisory
}

func (p *recordingPublisher) Publish(_ context.Context, a notification.Advisory) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, a)
	return nil
}

var admin = notification.Recipient{Name: "Admin", Email: "admin@warehouse.example"}

func newSession(t *testing.T) *state.Session {
	t.Helper()
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	s, err := state.Open(context.Background(), memory.NewCollectionStore(), logger.Nop(),
		state.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return s
}

func setQuantity(t *testing.T, s *state.Session, itemID string, qty int) {
	t.Helper()
	require.NoError(t, s.Run(context.Background(), func(tx *state.Tx) error {
		it, ok := tx.Item(itemID)
		require.True(t, ok)
		it.Quantity = qty
		tx.PutItem(it)
		return nil
	}))
}

func alertLogs(s *state.Session) []entity.ActivityLog {
	var out []entity.ActivityLog
	s.View(func(c *state.Collections) {
		for _, l := range c.ActivityLogs {
			if l.Action == entity.ActionAlert {
				out = append(out, l)
			}
		}
	})
	return out
}

func alertSent(s *state.Session, itemID string) bool {
	var ok bool
	s.View(func(c *state.Collections) { ok = c.AlertSent(itemID) })
	return ok
}

// ── Sweeper ──────────────────────────────────────────────────────────────────

func TestSweeper_UnaAlertaPorEpisodio(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	fake := &fakeNotifier{}
	sw := notification.NewSweeper(s, notification.NewOutbox(fake, logger.Nop(), notification.OutboxConfig{}), admin, 0, logger.Nop())

	report, err := sw.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Candidates, "el seed no tiene ítems en stock bajo")

	// Primer episodio: el escritorio baja a su punto de reorden.
	setQuantity(t, s, state.SeedItemDesk, 5)
	report, err = sw.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, notification.SweepReport{Candidates: 1, Sent: 1}, report)
	assert.True(t, alertSent(s, state.SeedItemDesk))
	require.Len(t, alertLogs(s), 1)
	last := alertLogs(s)[0]
	assert.Equal(t, "Office Desk", last.ItemName)
	assert.Equal(t, entity.SystemActor.Name, last.User)
	assert.Equal(t, entity.SystemActor.Role, last.UserRole)
	assert.Equal(t, "Low stock email alert sent to admin (5 units remaining, reorder at 5)", last.Details)

	// Sigue bajando dentro del mismo episodio: sin nueva alerta.
	setQuantity(t, s, state.SeedItemDesk, 3)
	report, err = sw.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Candidates)
	assert.Equal(t, 1, fake.alertCount())

	// Reabastecer cierra el episodio.
	setQuantity(t, s, state.SeedItemDesk, 12)
	assert.False(t, alertSent(s, state.SeedItemDesk), "el commit debe expulsar el ítem de la memoria")

	// Nuevo episodio: nueva alerta.
	setQuantity(t, s, state.SeedItemDesk, 4)
	_, err = sw.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.alertCount())
	assert.Len(t, alertLogs(s), 2)
	assert.Equal(t, 4, fake.alerts[1].CurrentQuantity)
	assert.Equal(t, admin, fake.alerts[1].To)
}

func TestSweeper_FalloNoMarcaYSeReintenta(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	fake := &fakeNotifier{fail: true}
	outbox := notification.NewOutbox(fake, logger.Nop(), notification.OutboxConfig{})
	sw := notification.NewSweeper(s, outbox, admin, time.Minute, logger.Nop())

	setQuantity(t, s, state.SeedItemPrinter, 2)
	report, err := sw.Tick(ctx)
	require.NoError(t, err, "un fallo de envío nunca es error del barrido")
	assert.Equal(t, notification.SweepReport{Candidates: 1, Failed: 1}, report)
	assert.False(t, alertSent(s, state.SeedItemPrinter))
	assert.Empty(t, alertLogs(s))

	adv := outbox.Advisories(1)
	require.Len(t, adv, 1)
	assert.False(t, adv[0].Success)
	assert.Equal(t, domain.CategoryNotification, adv[0].Category)

	fake.setFail(false)
	report, err = sw.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.True(t, alertSent(s, state.SeedItemPrinter))
	assert.Equal(t, 2, fake.alertCount())
}

func TestSweeper_RunBarreAlArrancar(t *testing.T) {
	s := newSession(t)
	fake := &fakeNotifier{}
	sw := notification.NewSweeper(s, notification.NewOutbox(fake, logger.Nop(), notification.OutboxConfig{}), admin, time.Hour, logger.Nop())
	setQuantity(t, s, state.SeedItemBallpen, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return fake.alertCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run debe terminar al cancelar el contexto")
	}
}

// ── Outbox ───────────────────────────────────────────────────────────────────

func sampleAppointment() (entity.Appointment, entity.Supplier) {
	s := entity.Supplier{ID: "sup-1", Name: "Office Warehouse", ContactPerson: "Juan Dela Cruz", Email: "orders@officewarehouse.example"}
	a := entity.Appointment{
		ID: "appt-9", SupplierID: s.ID, SupplierName: s.Name, Date: "2025-11-25", Time: "10:00",
		Status: entity.AppointmentConfirmed, ScheduledBy: "Administrator",
		Items: []entity.RestockLine{
			{ItemID: "item-1", ItemName: "A4 Bond Paper", Quantity: 100},
			{ItemID: "item-4", ItemName: "Ballpen (Black)", Quantity: 500},
		},
	}
	return a, s
}

func TestOutbox_EntregaEnSegundoPlanoYPublicaAvisos(t *testing.T) {
	fake := &fakeNotifier{}
	pub := &recordingPublisher{}
	outbox := notification.NewOutbox(fake, logger.Nop(), notification.OutboxConfig{Workers: 1, Publisher: pub})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go outbox.Run(ctx)

	a, s := sampleAppointment()
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	id := outbox.Enqueue(notification.ConfirmationMessage(notification.NewAppointmentNotice(a, s, "Administrator"), now))
	require.NotEmpty(t, id)

	assert.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return len(pub.got) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Len(t, outbox.Advisories(0), 1)
	adv := outbox.Advisories(0)[0]
	assert.Equal(t, id, adv.MessageID)
	assert.Equal(t, notification.KindConfirmation, adv.Kind)
	assert.True(t, adv.Success)
	assert.Empty(t, adv.Category)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.got, 1)
	assert.Equal(t, id, pub.got[0].MessageID)
}

func TestOutbox_ColaLlenaRegistraFallo(t *testing.T) {
	outbox := notification.NewOutbox(&fakeNotifier{}, logger.Nop(), notification.OutboxConfig{QueueSize: 1})
	a, s := sampleAppointment()
	now := time.Now()

	outbox.Enqueue(notification.ConfirmationMessage(notification.NewAppointmentNotice(a, s, "x"), now))
	dropped := outbox.Enqueue(notification.ConfirmationMessage(notification.NewAppointmentNotice(a, s, "x"), now))

	adv := outbox.Advisories(0)
	require.Len(t, adv, 1, "solo el mensaje descartado deja aviso")
	assert.Equal(t, dropped, adv[0].MessageID)
	assert.False(t, adv[0].Success)
	assert.Contains(t, adv[0].Error, "llena")
}

func TestOutbox_PanicDelNotifierSeConvierteEnFallo(t *testing.T) {
	outbox := notification.NewOutbox(&fakeNotifier{panics: true}, logger.Nop(), notification.OutboxConfig{})
	a, s := sampleAppointment()

	res := outbox.Deliver(context.Background(),
		notification.CancellationMessage(notification.NewCancellationNotice(a, s, "Ana", "", time.Now())))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "relay caído")
	assert.ErrorIs(t, res.Err(), domain.ErrNotification)
}

func TestOutbox_MensajeSinPayloadFalla(t *testing.T) {
	outbox := notification.NewOutbox(&fakeNotifier{}, logger.Nop(), notification.OutboxConfig{})
	res := outbox.Deliver(context.Background(), notification.Message{ID: "m-1", Kind: notification.KindLowStock})
	assert.False(t, res.Success)
}

func TestOutbox_AvisosEnAnilloMasRecientePrimero(t *testing.T) {
	outbox := notification.NewOutbox(&fakeNotifier{}, logger.Nop(), notification.OutboxConfig{AdvisoryLimit: 3})
	item := entity.Item{ID: "item-1", Name: "A4 Bond Paper", Quantity: 3, ReorderLevel: 20}
	var ids []string
	for i := 0; i < 5; i++ {
		m := notification.LowStockMessage(notification.NewLowStockAlert(admin, item, time.Now()))
		ids = append(ids, m.ID)
		outbox.Deliver(context.Background(), m)
	}

	adv := outbox.Advisories(0)
	require.Len(t, adv, 3)
	assert.Equal(t, ids[4], adv[0].MessageID)
	assert.Equal(t, ids[3], adv[1].MessageID)
	assert.Equal(t, ids[2], adv[2].MessageID)
	assert.Len(t, outbox.Advisories(2), 2)
}

// ── Plantillas ───────────────────────────────────────────────────────────────

func TestParams_ConfirmacionYCancelacion(t *testing.T) {
	a, s := sampleAppointment()
	p := notification.NewAppointmentNotice(a, s, "Administrator").Params()

	assert.Equal(t, "Juan Dela Cruz", p["to_name"])
	assert.Equal(t, "Tuesday, November 25, 2025", p["appointment_date"])
	assert.Equal(t, "2", p["total_items"], "total_items cuenta líneas")
	assert.Equal(t, "• A4 Bond Paper - 100 units\n• Ballpen (Black) - 500 units", p["items_list"])
	assert.Equal(t, notification.NoNotes, p["notes"])
	assert.Equal(t, notification.NoPhone, p["contact_phone"])
	assert.Equal(t, "confirmed", p["status"])

	at := time.Date(2025, 11, 20, 15, 30, 0, 0, time.UTC)
	c := notification.NewCancellationNotice(a, s, "Ana Staff", "", at).Params()
	assert.Equal(t, notification.NoReason, c["cancel_reason"])
	assert.Equal(t, "Ana Staff", c["cancelled_by"])
	assert.Equal(t, "November 20, 2025 03:30 PM", c["cancelled_date"])
	_, hasNotes := c["notes"]
	assert.False(t, hasNotes)
}

func TestParams_AlertaFormateaMiles(t *testing.T) {
	item := entity.Item{ID: "item-9", Name: "Staples", Quantity: 1200, ReorderLevel: 1500, Category: "Office Supplies", Location: "Shelf A3"}
	p := notification.NewLowStockAlert(admin, item, time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)).Params()

	assert.Equal(t, "1,200", p["current_quantity"])
	assert.Equal(t, "1,500", p["reorder_level"])
	assert.Equal(t, notification.NoSupplier, p["supplier"])
	assert.True(t, strings.HasPrefix(p["alert_date"], "November 20, 2025"))
}
