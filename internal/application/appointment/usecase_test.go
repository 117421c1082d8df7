package appointment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-inventory/internal/application/appointment"
	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

const seedAppointment = "appt-1"

var admin = entity.Actor{Name: "Administrator", Role: entity.RoleAdmin}

type recorder struct {
	msgs []notification.Message
}

func (r *recorder) Enqueue(m notification.Message) string {
	r.msgs = append(r.msgs, m)
	return m.ID
}

func setup(t *testing.T) (*state.Session, *appointment.UseCase, *recorder) {
	t.Helper()
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	s, err := state.Open(context.Background(), memory.NewCollectionStore(), logger.Nop(),
		state.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	rec := &recorder{}
	return s, appointment.NewUseCase(s, rec), rec
}

func item(t *testing.T, s *state.Session, id string) entity.Item {
	t.Helper()
	var it entity.Item
	var ok bool
	s.View(func(c *state.Collections) { it, ok = c.Item(id) })
	require.True(t, ok)
	return it
}

func snapshot(s *state.Session) (txs, logs int) {
	s.View(func(c *state.Collections) { txs, logs = len(c.Transactions), len(c.ActivityLogs) })
	return
}

func lastLog(s *state.Session) entity.ActivityLog {
	var l entity.ActivityLog
	s.View(func(c *state.Collections) { l = c.ActivityLogs[len(c.ActivityLogs)-1] })
	return l
}

func request(supplierID string, lines ...dto.RestockLineRequest) dto.AppointmentRequest {
	return dto.AppointmentRequest{SupplierID: supplierID, Date: "2025-11-24", Time: "14:30", Items: lines}
}

// ── Completar ────────────────────────────────────────────────────────────────

func TestComplete_UnaTransaccionPorLineaYUnSoloLog(t *testing.T) {
	ctx := context.Background()
	s, uc, _ := setup(t)
	txsBefore, logsBefore := snapshot(s)

	out, err := uc.Complete(ctx, admin, seedAppointment)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentCompleted, out.Appointment.Status)

	assert.Equal(t, 200, item(t, s, state.SeedItemBondPaper).Quantity)
	assert.Equal(t, 700, item(t, s, state.SeedItemBallpen).Quantity)

	txs, logs := snapshot(s)
	assert.Equal(t, txsBefore+2, txs, "una transacción IN por línea")
	assert.Equal(t, logsBefore+1, logs, "un solo log resumen")

	s.View(func(c *state.Collections) {
		for _, tr := range c.Transactions[txsBefore:] {
			assert.Equal(t, entity.TransactionIN, tr.Type)
			assert.Equal(t, "Restock from appointment with Office Warehouse", tr.Reason)
			assert.Equal(t, tr.StockBefore+tr.Quantity, tr.StockAfter)
		}
	})
	last := lastLog(s)
	assert.Equal(t, "Appointment: Office Warehouse", last.ItemName)
	assert.Equal(t, entity.ActionEdited, last.Action)
	assert.Equal(t, "Completed appointment - Restocked 2 item(s): A4 Bond Paper (100), Ballpen (Black) (500)", last.Details)
}

func TestComplete_SobrescribeProveedorDelItem(t *testing.T) {
	ctx := context.Background()
	s, uc, _ := setup(t)

	out, err := uc.Schedule(ctx, admin, request(state.SeedSupplierCosco,
		dto.RestockLineRequest{ItemID: state.SeedItemPrinter, Quantity: 5},
		dto.RestockLineRequest{ItemID: state.SeedItemDesk, Quantity: 3},
	))
	require.NoError(t, err)
	_, err = uc.Complete(ctx, admin, out.Appointment.ID)
	require.NoError(t, err)

	printer := item(t, s, state.SeedItemPrinter)
	assert.Equal(t, 45, printer.Quantity)
	require.NotNil(t, printer.SupplierID)
	assert.Equal(t, state.SeedSupplierCosco, *printer.SupplierID, "el proveedor anterior se sobrescribe")
	assert.Equal(t, "COSCO SHIPPING", *printer.SupplierName)

	desk := item(t, s, state.SeedItemDesk)
	assert.Equal(t, 53, desk.Quantity)
	require.NotNil(t, desk.SupplierID, "un ítem sin proveedor queda enlazado")
	assert.Equal(t, state.SeedSupplierCosco, *desk.SupplierID)
}

func TestComplete_ItemEliminadoNoCambiaNada(t *testing.T) {
	ctx := context.Background()
	s, uc, _ := setup(t)
	require.NoError(t, s.Run(ctx, func(tx *state.Tx) error {
		tx.DeleteItem(state.SeedItemBallpen)
		return nil
	}))
	txsBefore, logsBefore := snapshot(s)

	_, err := uc.Complete(ctx, admin, seedAppointment)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 100, item(t, s, state.SeedItemBondPaper).Quantity, "la primera línea no debe aplicarse")
	txs, logs := snapshot(s)
	assert.Equal(t, txsBefore, txs)
	assert.Equal(t, logsBefore, logs)
	got, err := uc.GetByID(seedAppointment)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentPending, got.Status)
}

// ── Estados terminales ───────────────────────────────────────────────────────

func TestTerminal_RechazaTodaOperacion(t *testing.T) {
	ctx := context.Background()
	s, uc, _ := setup(t)
	_, err := uc.Complete(ctx, admin, seedAppointment)
	require.NoError(t, err)
	_, logs := snapshot(s)

	reason := "late"
	ops := map[string]func() error{
		"complete": func() error { _, err := uc.Complete(ctx, admin, seedAppointment); return err },
		"cancel":   func() error { _, err := uc.Cancel(ctx, admin, seedAppointment, &reason); return err },
		"confirm":  func() error { _, err := uc.Confirm(ctx, admin, seedAppointment); return err },
		"update": func() error {
			_, err := uc.Update(ctx, admin, seedAppointment, request(state.SeedSupplierOffice,
				dto.RestockLineRequest{ItemID: state.SeedItemBondPaper, Quantity: 1}))
			return err
		},
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), domain.ErrInvalidTransition)
		})
	}
	_, after := snapshot(s)
	assert.Equal(t, logs, after, "ninguna operación rechazada deja log")
	assert.Equal(t, 200, item(t, s, state.SeedItemBondPaper).Quantity, "completar dos veces no suma de nuevo")
}

func TestConfirm_SoloDesdePendiente(t *testing.T) {
	ctx := context.Background()
	_, uc, rec := setup(t)

	out, err := uc.Confirm(ctx, admin, seedAppointment)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentConfirmed, out.Appointment.Status)
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, notification.KindConfirmation, rec.msgs[0].Kind)
	assert.Equal(t, out.NotificationID, rec.msgs[0].ID)
	assert.Equal(t, "orders@officewarehouse.example", rec.msgs[0].Confirmation.To.Email)

	_, err = uc.Confirm(ctx, admin, seedAppointment)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ── Cancelar ─────────────────────────────────────────────────────────────────

func TestCancel_MotivoDecideLaNotificacion(t *testing.T) {
	ctx := context.Background()
	s, uc, rec := setup(t)

	out, err := uc.Cancel(ctx, admin, seedAppointment, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentCancelled, out.Appointment.Status)
	assert.Empty(t, out.NotificationID)
	assert.Empty(t, rec.msgs, "sin motivo no se notifica")
	last := lastLog(s)
	assert.Equal(t, "Appointment with Office Warehouse", last.ItemName)
	assert.Equal(t, entity.ActionDeleted, last.Action)
	assert.Equal(t, "Appointment cancelled", last.Details)

	sched, err := uc.Schedule(ctx, admin, request(state.SeedSupplierTech,
		dto.RestockLineRequest{ItemID: state.SeedItemStand, Quantity: 10}))
	require.NoError(t, err)
	rec.msgs = nil

	empty := ""
	out, err = uc.Cancel(ctx, admin, sched.Appointment.ID, &empty)
	require.NoError(t, err)
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, notification.KindCancellation, rec.msgs[0].Kind)
	assert.Equal(t, notification.NoReason, rec.msgs[0].Cancellation.Params()["cancel_reason"])
	assert.Equal(t, out.NotificationID, rec.msgs[0].ID)
}

// ── Agendar y editar ─────────────────────────────────────────────────────────

func TestSchedule_ValidaYRegistra(t *testing.T) {
	ctx := context.Background()
	s, uc, rec := setup(t)

	cases := []struct {
		name string
		in   dto.AppointmentRequest
		err  error
	}{
		{"sin líneas", request(state.SeedSupplierOffice), domain.ErrInvalidInput},
		{"cantidad cero", request(state.SeedSupplierOffice, dto.RestockLineRequest{ItemID: state.SeedItemDesk}), domain.ErrInvalidInput},
		{"proveedor inexistente", request("sup-x", dto.RestockLineRequest{ItemID: state.SeedItemDesk, Quantity: 1}), domain.ErrNotFound},
		{"ítem inexistente", request(state.SeedSupplierOffice, dto.RestockLineRequest{ItemID: "item-x", Quantity: 1}), domain.ErrNotFound},
		{"ítem repetido", request(state.SeedSupplierOffice,
			dto.RestockLineRequest{ItemID: state.SeedItemDesk, Quantity: 1},
			dto.RestockLineRequest{ItemID: state.SeedItemDesk, Quantity: 2}), domain.ErrInvalidInput},
		{"fecha inválida", dto.AppointmentRequest{SupplierID: state.SeedSupplierOffice, Date: "24/11/2025", Time: "14:30",
			Items: []dto.RestockLineRequest{{ItemID: state.SeedItemDesk, Quantity: 1}}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Schedule(ctx, admin, tc.in)
			assert.ErrorIs(t, err, tc.err)
		})
	}
	assert.Empty(t, rec.msgs)

	out, err := uc.Schedule(ctx, admin, request(state.SeedSupplierOffice,
		dto.RestockLineRequest{ItemID: state.SeedItemDesk, Quantity: 4}))
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentPending, out.Appointment.Status)
	assert.Equal(t, "Office Desk", out.Appointment.Items[0].ItemName)
	assert.Equal(t, admin.Name, out.Appointment.ScheduledBy)
	assert.True(t, out.Appointment.Upcoming)
	assert.Equal(t, 4, out.Appointment.TotalUnits)
	assert.Empty(t, out.NotificationID, "agendar no notifica al proveedor")
	assert.Empty(t, rec.msgs)

	last := lastLog(s)
	assert.Equal(t, "Appointment with Office Warehouse", last.ItemName)
	assert.Equal(t, entity.ActionAdded, last.Action)
	assert.Equal(t, "Scheduled for 2025-11-24 at 14:30", last.Details)
}

func TestSchedule_AltaConfirmadaNoNotifica(t *testing.T) {
	ctx := context.Background()
	_, uc, rec := setup(t)

	in := request(state.SeedSupplierOffice, dto.RestockLineRequest{ItemID: state.SeedItemDesk, Quantity: 2})
	in.Status = entity.AppointmentConfirmed
	out, err := uc.Schedule(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentConfirmed, out.Appointment.Status)
	assert.Empty(t, out.NotificationID)
	assert.Empty(t, rec.msgs, "la confirmación solo sale al transicionar, no en el alta")

	pending, err := uc.Schedule(ctx, admin, request(state.SeedSupplierOffice,
		dto.RestockLineRequest{ItemID: state.SeedItemDesk, Quantity: 2}))
	require.NoError(t, err)
	confirmed, err := uc.Confirm(ctx, admin, pending.Appointment.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, confirmed.NotificationID)
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, notification.KindConfirmation, rec.msgs[0].Kind)
}

func TestUpdate_ConfirmarDesdeEdicionNotifica(t *testing.T) {
	ctx := context.Background()
	s, uc, rec := setup(t)

	in := request(state.SeedSupplierOffice, dto.RestockLineRequest{ItemID: state.SeedItemBondPaper, Quantity: 50})
	out, err := uc.Update(ctx, admin, seedAppointment, in)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentPending, out.Appointment.Status, "status vacío conserva el actual")
	assert.Empty(t, rec.msgs)
	assert.Equal(t, "Appointment details updated", lastLog(s).Details)
	assert.Len(t, out.Appointment.Items, 1)

	in.Status = entity.AppointmentConfirmed
	out, err = uc.Update(ctx, admin, seedAppointment, in)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentConfirmed, out.Appointment.Status)
	assert.Len(t, rec.msgs, 1)

	in.Status = entity.AppointmentPending
	_, err = uc.Update(ctx, admin, seedAppointment, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "confirmed no vuelve a pending")
}

// ── Consultas ────────────────────────────────────────────────────────────────

func TestListYStats_PropiedadesDerivadas(t *testing.T) {
	ctx := context.Background()
	_, uc, _ := setup(t)

	past := request(state.SeedSupplierTech, dto.RestockLineRequest{ItemID: state.SeedItemPrinter, Quantity: 2})
	past.Date = "2025-11-10"
	_, err := uc.Schedule(ctx, admin, past)
	require.NoError(t, err)

	overdue, err := uc.List(dto.AppointmentFilter{Overdue: true})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "2025-11-10", overdue[0].Date)

	all, err := uc.List(dto.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2025-11-10", all[0].Date, "ordenadas por fecha")

	bySupplier, err := uc.List(dto.AppointmentFilter{SupplierID: state.SeedSupplierOffice})
	require.NoError(t, err)
	assert.Len(t, bySupplier, 1)

	_, err = uc.List(dto.AppointmentFilter{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	st := uc.Stats()
	assert.Equal(t, dto.AppointmentStatsDTO{Total: 2, Pending: 2, Overdue: 1, Upcoming: 1}, st)
}
