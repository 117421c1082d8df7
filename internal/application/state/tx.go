package state

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/domain/repository"
)

// Tx vista de escritura sobre una copia de las colecciones.
// Cada colección se clona la primera vez que se escribe (copy-on-write); si la
// función de Run devuelve error la copia se descarta y el estado queda intacto.
type Tx struct {
	*Collections
	now   time.Time
	dirty map[string]bool
	logs  []entity.ActivityLog
}

func newTx(base Collections, now time.Time) *Tx {
	work := base
	return &Tx{Collections: &work, now: now, dirty: make(map[string]bool)}
}

// Now instante fijo de la transacción; todas las marcas de tiempo lo comparten.
func (tx *Tx) Now() time.Time { return tx.now }

// Dirty indica si la colección key fue modificada.
func (tx *Tx) Dirty(key string) bool { return tx.dirty[key] }

func (tx *Tx) write(key string) {
	if !tx.dirty[key] {
		tx.Collections.detach(key)
		tx.dirty[key] = true
	}
}

// ── Ítems ────────────────────────────────────────────────────────────────────

// PutItem reemplaza el ítem por ID o lo agrega al final.
func (tx *Tx) PutItem(it entity.Item) {
	tx.write(repository.KeyItems)
	tx.Items = put(tx.Items, it, func(i entity.Item) string { return i.ID })
}

// DeleteItem elimina el ítem por ID.
func (tx *Tx) DeleteItem(id string) bool {
	tx.write(repository.KeyItems)
	var ok bool
	tx.Items, ok = remove(tx.Items, id, func(i entity.Item) string { return i.ID })
	return ok
}

// ── Proveedores y categorías ─────────────────────────────────────────────────

// PutSupplier reemplaza o agrega un proveedor.
func (tx *Tx) PutSupplier(s entity.Supplier) {
	tx.write(repository.KeySuppliers)
	tx.Suppliers = put(tx.Suppliers, s, func(v entity.Supplier) string { return v.ID })
}

// DeleteSupplier elimina un proveedor por ID.
func (tx *Tx) DeleteSupplier(id string) bool {
	tx.write(repository.KeySuppliers)
	var ok bool
	tx.Suppliers, ok = remove(tx.Suppliers, id, func(v entity.Supplier) string { return v.ID })
	return ok
}

// PutCategory reemplaza o agrega una categoría.
func (tx *Tx) PutCategory(c entity.Category) {
	tx.write(repository.KeyCategories)
	tx.Categories = put(tx.Categories, c, func(v entity.Category) string { return v.ID })
}

// DeleteCategory elimina una categoría por ID.
func (tx *Tx) DeleteCategory(id string) bool {
	tx.write(repository.KeyCategories)
	var ok bool
	tx.Categories, ok = remove(tx.Categories, id, func(v entity.Category) string { return v.ID })
	return ok
}

// ── Historial, citas y dañados ───────────────────────────────────────────────

// AppendTransaction agrega un movimiento al historial.
func (tx *Tx) AppendTransaction(t entity.Transaction) {
	tx.write(repository.KeyTransactions)
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = tx.now
	}
	tx.Transactions = append(tx.Transactions, t)
}

// PutAppointment reemplaza o agrega una cita.
func (tx *Tx) PutAppointment(a entity.Appointment) {
	tx.write(repository.KeyAppointments)
	tx.Appointments = put(tx.Appointments, a.Clone(), func(v entity.Appointment) string { return v.ID })
}

// PutDamagedItem reemplaza o agrega un registro de ítem dañado.
func (tx *Tx) PutDamagedItem(d entity.DamagedItem) {
	tx.write(repository.KeyDamagedItems)
	tx.DamagedItems = put(tx.DamagedItems, d, func(v entity.DamagedItem) string { return v.ID })
}

// DeleteDamagedItem elimina un registro de ítem dañado.
func (tx *Tx) DeleteDamagedItem(id string) bool {
	tx.write(repository.KeyDamagedItems)
	var ok bool
	tx.DamagedItems, ok = remove(tx.DamagedItems, id, func(v entity.DamagedItem) string { return v.ID })
	return ok
}

// ── Bitácora ─────────────────────────────────────────────────────────────────

// Log agrega una entrada a la bitácora firmada por actor.
func (tx *Tx) Log(actor entity.Actor, itemName string, action entity.ActivityAction, details string) entity.ActivityLog {
	tx.write(repository.KeyActivityLogs)
	entry := entity.ActivityLog{
		ID:        uuid.New().String(),
		ItemName:  itemName,
		Action:    action,
		User:      actor.Name,
		UserRole:  actor.Role,
		Timestamp: tx.now,
		Details:   details,
	}
	tx.ActivityLogs = append(tx.ActivityLogs, entry)
	tx.logs = append(tx.logs, entry)
	return entry
}

// NewLogs entradas agregadas durante esta transacción.
func (tx *Tx) NewLogs() []entity.ActivityLog { return tx.logs }

// ── Memoria de alertas de stock bajo ─────────────────────────────────────────

// MarkAlertSent registra que ya se envió la alerta del episodio actual.
func (tx *Tx) MarkAlertSent(itemID string) {
	if tx.AlertSent(itemID) {
		return
	}
	tx.write(repository.KeyLowStockAlertsSent)
	tx.AlertsSent = append(tx.AlertsSent, itemID)
}

// ReconcileAlerts expulsa de la memoria los ítems que ya superan su punto de reorden
// o que ya no existen. Devuelve los IDs expulsados.
func (tx *Tx) ReconcileAlerts() []string {
	var evicted []string
	keep := func(id string) bool {
		it, ok := tx.Item(id)
		return ok && it.IsLowStock()
	}
	for _, id := range tx.AlertsSent {
		if !keep(id) {
			evicted = append(evicted, id)
		}
	}
	if len(evicted) == 0 {
		return nil
	}
	tx.write(repository.KeyLowStockAlertsSent)
	tx.AlertsSent = slices.DeleteFunc(tx.AlertsSent, func(id string) bool { return !keep(id) })
	return evicted
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

// PutPendingUser agrega o reemplaza una cuenta pendiente.
func (tx *Tx) PutPendingUser(u entity.User) {
	tx.write(repository.KeyPendingUsers)
	tx.PendingUsers = put(tx.PendingUsers, u, func(v entity.User) string { return v.ID })
}

// DeletePendingUser elimina una cuenta pendiente.
func (tx *Tx) DeletePendingUser(id string) bool {
	tx.write(repository.KeyPendingUsers)
	var ok bool
	tx.PendingUsers, ok = remove(tx.PendingUsers, id, func(v entity.User) string { return v.ID })
	return ok
}

// PutApprovedUser agrega o reemplaza una cuenta aprobada.
func (tx *Tx) PutApprovedUser(u entity.User) {
	tx.write(repository.KeyApprovedUsers)
	tx.ApprovedUsers = put(tx.ApprovedUsers, u, func(v entity.User) string { return v.ID })
}

func put[T any](s []T, v T, idOf func(T) string) []T {
	id := idOf(v)
	for i := range s {
		if idOf(s[i]) == id {
			s[i] = v
			return s
		}
	}
	return append(s, v)
}

func remove[T any](s []T, id string, idOf func(T) string) ([]T, bool) {
	n := len(s)
	s = slices.DeleteFunc(s, func(v T) bool { return idOf(v) == id })
	return s, len(s) != n
}
