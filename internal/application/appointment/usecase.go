// Package appointment ciclo de vida de las citas de reabastecimiento con proveedores.
package appointment

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/inventory"
	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// Notifications puerto hacia el outbox. Encolar nunca bloquea ni falla la mutación.
type Notifications interface {
	Enqueue(m notification.Message) string
}

// UseCase agenda, edita y cierra citas.
type UseCase struct {
	state  state.Runner
	notify Notifications
}

// NewUseCase construye el caso de uso. notify puede ser nil (sin notificaciones).
func NewUseCase(st state.Runner, notify Notifications) *UseCase {
	return &UseCase{state: st, notify: notify}
}

func scheduleLabel(supplierName string) string { return "Appointment with " + supplierName }

// pendingNotice mensaje a encolar después del commit.
type pendingNotice struct {
	msg notification.Message
	ok  bool
}

func (uc *UseCase) enqueue(p pendingNotice) string {
	if !p.ok || uc.notify == nil {
		return ""
	}
	return uc.notify.Enqueue(p.msg)
}

func confirmationFor(a entity.Appointment, s entity.Supplier, actor string, tx *state.Tx) pendingNotice {
	if strings.TrimSpace(s.Email) == "" {
		return pendingNotice{}
	}
	return pendingNotice{msg: notification.ConfirmationMessage(notification.NewAppointmentNotice(a, s, actor), tx.Now()), ok: true}
}

// buildLines valida las líneas contra el inventario y copia el nombre de cada ítem.
func buildLines(tx *state.Tx, in []dto.RestockLineRequest) ([]entity.RestockLine, error) {
	seen := make(map[string]bool, len(in))
	lines := make([]entity.RestockLine, 0, len(in))
	for _, l := range in {
		if seen[l.ItemID] {
			return nil, fmt.Errorf("%w: el ítem %s aparece más de una vez", domain.ErrInvalidInput, l.ItemID)
		}
		seen[l.ItemID] = true
		item, ok := tx.Item(l.ItemID)
		if !ok {
			return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, l.ItemID)
		}
		lines = append(lines, entity.RestockLine{ItemID: item.ID, ItemName: item.Name, Quantity: l.Quantity})
	}
	return lines, nil
}

func (uc *UseCase) response(a entity.Appointment) dto.AppointmentResponse {
	now := uc.state.Now()
	return dto.AppointmentResponse{
		Appointment: a,
		Overdue:     a.IsOverdue(now),
		Upcoming:    a.IsUpcoming(now),
		TotalUnits:  a.TotalUnits(),
	}
}

// ── Alta y edición ───────────────────────────────────────────────────────────

// Schedule agenda una cita nueva. El alta no notifica al proveedor, aunque llegue ya
// confirmada: la confirmación sale solo al transicionar a confirmed.
func (uc *UseCase) Schedule(ctx context.Context, actor entity.Actor, in dto.AppointmentRequest) (*dto.AppointmentActionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var a entity.Appointment
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		sup, ok := tx.Supplier(in.SupplierID)
		if !ok {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
		}
		lines, err := buildLines(tx, in.Items)
		if err != nil {
			return err
		}
		status := in.Status
		if status == "" {
			status = entity.AppointmentPending
		}
		a = entity.Appointment{
			ID:            uuid.New().String(),
			SupplierID:    sup.ID,
			SupplierName:  sup.Name,
			Date:          in.Date,
			Time:          in.Time,
			Status:        status,
			Items:         lines,
			Notes:         strings.TrimSpace(in.Notes),
			ScheduledBy:   actor.Name,
			ScheduledDate: tx.Now(),
			LastUpdated:   tx.Now(),
		}
		tx.PutAppointment(a)
		tx.Log(actor, scheduleLabel(sup.Name), entity.ActionAdded,
			fmt.Sprintf("Scheduled for %s at %s", a.Date, a.Time))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.AppointmentActionResponse{Appointment: uc.response(a)}, nil
}

// Update reemplaza los datos de una cita abierta. Si el estado pasa a confirmed se
// encola la confirmación.
func (uc *UseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.AppointmentRequest) (*dto.AppointmentActionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var a entity.Appointment
	var notice pendingNotice
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		cur, err := openAppointment(tx, id)
		if err != nil {
			return err
		}
		sup, ok := tx.Supplier(in.SupplierID)
		if !ok {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
		}
		lines, err := buildLines(tx, in.Items)
		if err != nil {
			return err
		}
		if in.Status != "" && in.Status != cur.Status && !cur.Status.CanTransitionTo(in.Status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, cur.Status, in.Status)
		}

		a = cur.Clone()
		a.SupplierID = sup.ID
		a.SupplierName = sup.Name
		a.Date = in.Date
		a.Time = in.Time
		a.Items = lines
		a.Notes = strings.TrimSpace(in.Notes)
		if in.Status != "" {
			a.Status = in.Status
		}
		a.LastUpdated = tx.Now()
		tx.PutAppointment(a)
		tx.Log(actor, scheduleLabel(sup.Name), entity.ActionEdited, "Appointment details updated")

		if a.Status == entity.AppointmentConfirmed && cur.Status != entity.AppointmentConfirmed {
			notice = confirmationFor(a, sup, actor.Name, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.AppointmentActionResponse{Appointment: uc.response(a), NotificationID: uc.enqueue(notice)}, nil
}

// ── Transiciones ─────────────────────────────────────────────────────────────

func openAppointment(tx *state.Tx, id string) (entity.Appointment, error) {
	a, ok := tx.Appointment(id)
	if !ok {
		return entity.Appointment{}, fmt.Errorf("%w: cita %s", domain.ErrNotFound, id)
	}
	if a.Status.IsTerminal() {
		return entity.Appointment{}, fmt.Errorf("%w: la cita ya está %s", domain.ErrInvalidTransition, a.Status)
	}
	return a, nil
}

// Confirm pasa una cita pendiente a confirmed y encola la confirmación al proveedor.
func (uc *UseCase) Confirm(ctx context.Context, actor entity.Actor, id string) (*dto.AppointmentActionResponse, error) {
	var a entity.Appointment
	var notice pendingNotice
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		cur, err := openAppointment(tx, id)
		if err != nil {
			return err
		}
		if !cur.Status.CanTransitionTo(entity.AppointmentConfirmed) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, cur.Status, entity.AppointmentConfirmed)
		}
		a = cur.Clone()
		a.Status = entity.AppointmentConfirmed
		a.LastUpdated = tx.Now()
		tx.PutAppointment(a)
		tx.Log(actor, scheduleLabel(a.SupplierName), entity.ActionEdited, "Appointment confirmed")

		// El proveedor pudo haberse eliminado después de agendar.
		if sup, ok := tx.Supplier(a.SupplierID); ok {
			notice = confirmationFor(a, sup, actor.Name, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.AppointmentActionResponse{Appointment: uc.response(a), NotificationID: uc.enqueue(notice)}, nil
}

// Complete cierra la cita: cada línea suma su cantidad al ítem, sobrescribe su proveedor
// y genera una transacción IN. Todo o nada: si un ítem ya no existe nada cambia.
func (uc *UseCase) Complete(ctx context.Context, actor entity.Actor, id string) (*dto.AppointmentActionResponse, error) {
	var a entity.Appointment
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		cur, err := openAppointment(tx, id)
		if err != nil {
			return err
		}
		supplier := entity.Supplier{ID: cur.SupplierID, Name: cur.SupplierName}
		reason := entity.AppointmentRestockReason(cur.SupplierName)

		restocked := make([]string, 0, len(cur.Items))
		for _, line := range cur.Items {
			_, item, err := inventory.ApplyTransaction(tx, actor, line.ItemID, entity.TransactionIN, line.Quantity, reason)
			if err != nil {
				return err
			}
			item.AssignSupplier(supplier)
			tx.PutItem(item)
			restocked = append(restocked, fmt.Sprintf("%s (%d)", line.ItemName, line.Quantity))
		}

		a = cur.Clone()
		a.Status = entity.AppointmentCompleted
		a.LastUpdated = tx.Now()
		tx.PutAppointment(a)
		tx.Log(actor, "Appointment: "+a.SupplierName, entity.ActionEdited,
			fmt.Sprintf("Completed appointment - Restocked %d item(s): %s", len(a.Items), strings.Join(restocked, ", ")))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.AppointmentActionResponse{Appointment: uc.response(a)}, nil
}

// Cancel cancela la cita. Con reason != nil (aunque sea vacío) se notifica al proveedor.
func (uc *UseCase) Cancel(ctx context.Context, actor entity.Actor, id string, reason *string) (*dto.AppointmentActionResponse, error) {
	var a entity.Appointment
	var notice pendingNotice
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		cur, err := openAppointment(tx, id)
		if err != nil {
			return err
		}
		a = cur.Clone()
		a.Status = entity.AppointmentCancelled
		a.LastUpdated = tx.Now()
		tx.PutAppointment(a)
		tx.Log(actor, scheduleLabel(a.SupplierName), entity.ActionDeleted, "Appointment cancelled")

		if reason == nil {
			return nil
		}
		if sup, ok := tx.Supplier(a.SupplierID); ok && strings.TrimSpace(sup.Email) != "" {
			n := notification.NewCancellationNotice(cur, sup, actor.Name, strings.TrimSpace(*reason), tx.Now())
			notice = pendingNotice{msg: notification.CancellationMessage(n), ok: true}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.AppointmentActionResponse{Appointment: uc.response(a), NotificationID: uc.enqueue(notice)}, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

// GetByID devuelve una cita con sus propiedades derivadas.
func (uc *UseCase) GetByID(id string) (*dto.AppointmentResponse, error) {
	var a entity.Appointment
	var ok bool
	uc.state.View(func(c *state.Collections) { a, ok = c.Appointment(id) })
	if !ok {
		return nil, fmt.Errorf("%w: cita %s", domain.ErrNotFound, id)
	}
	out := uc.response(a)
	return &out, nil
}

// List devuelve las citas ordenadas por fecha y hora, aplicando los filtros.
func (uc *UseCase) List(filter dto.AppointmentFilter) ([]dto.AppointmentResponse, error) {
	if err := dto.Validate(filter); err != nil {
		return nil, err
	}
	var all []entity.Appointment
	uc.state.View(func(c *state.Collections) {
		all = make([]entity.Appointment, 0, len(c.Appointments))
		for _, a := range c.Appointments {
			all = append(all, a.Clone())
		}
	})

	out := make([]dto.AppointmentResponse, 0, len(all))
	for _, a := range all {
		r := uc.response(a)
		switch {
		case filter.Status != "" && a.Status != filter.Status,
			filter.SupplierID != "" && a.SupplierID != filter.SupplierID,
			filter.Overdue && !r.Overdue,
			filter.Upcoming && !r.Upcoming:
			continue
		}
		out = append(out, r)
	}
	sortBySchedule(out)
	return out, nil
}

// Stats cuenta las citas por estado y las vencidas/próximas.
func (uc *UseCase) Stats() dto.AppointmentStatsDTO {
	now := uc.state.Now()
	var st dto.AppointmentStatsDTO
	uc.state.View(func(c *state.Collections) {
		for _, a := range c.Appointments {
			st.Total++
			switch a.Status {
			case entity.AppointmentPending:
				st.Pending++
			case entity.AppointmentConfirmed:
				st.Confirmed++
			case entity.AppointmentCompleted:
				st.Completed++
			case entity.AppointmentCancelled:
				st.Cancelled++
			}
			if a.IsOverdue(now) {
				st.Overdue++
			}
			if a.IsUpcoming(now) {
				st.Upcoming++
			}
		}
	})
	return st
}

func sortBySchedule(list []dto.AppointmentResponse) {
	slices.SortStableFunc(list, func(a, b dto.AppointmentResponse) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Time, b.Time))
	})
}
