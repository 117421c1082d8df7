package state

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/domain/repository"
)

// Collections copia en memoria de todas las colecciones persistidas.
// Los helpers de lectura devuelven copias; para escribir se usa Tx.
type Collections struct {
	Suppliers     []entity.Supplier
	Categories    []entity.Category
	Items         []entity.Item
	Transactions  []entity.Transaction
	Appointments  []entity.Appointment
	DamagedItems  []entity.DamagedItem
	ActivityLogs  []entity.ActivityLog
	AlertsSent    []string
	PendingUsers  []entity.User
	ApprovedUsers []entity.User
}

// SameName compara nombres sin distinguir mayúsculas (case folding Unicode) ni espacios extremos.
func SameName(a, b string) bool {
	return foldName(a) == foldName(b)
}

func foldName(s string) string {
	// cases.Caser tiene estado: uno nuevo por llamada.
	return cases.Fold().String(strings.TrimSpace(s))
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

// Item busca un ítem por ID.
func (c *Collections) Item(id string) (entity.Item, bool) {
	return find(c.Items, func(i entity.Item) bool { return i.ID == id })
}

// ItemByName busca un ítem por nombre (sin distinguir mayúsculas).
func (c *Collections) ItemByName(name string) (entity.Item, bool) {
	return find(c.Items, func(i entity.Item) bool { return SameName(i.Name, name) })
}

// Supplier busca un proveedor por ID.
func (c *Collections) Supplier(id string) (entity.Supplier, bool) {
	return find(c.Suppliers, func(s entity.Supplier) bool { return s.ID == id })
}

// SupplierByName busca un proveedor por nombre (sin distinguir mayúsculas).
func (c *Collections) SupplierByName(name string) (entity.Supplier, bool) {
	return find(c.Suppliers, func(s entity.Supplier) bool { return SameName(s.Name, name) })
}

// Category busca una categoría por ID.
func (c *Collections) Category(id string) (entity.Category, bool) {
	return find(c.Categories, func(cat entity.Category) bool { return cat.ID == id })
}

// CategoryByName busca una categoría por nombre (sin distinguir mayúsculas).
func (c *Collections) CategoryByName(name string) (entity.Category, bool) {
	return find(c.Categories, func(cat entity.Category) bool { return SameName(cat.Name, name) })
}

// Appointment busca una cita por ID; devuelve una copia profunda.
func (c *Collections) Appointment(id string) (entity.Appointment, bool) {
	a, ok := find(c.Appointments, func(a entity.Appointment) bool { return a.ID == id })
	return a.Clone(), ok
}

// DamagedItem busca un registro de ítem dañado por ID.
func (c *Collections) DamagedItem(id string) (entity.DamagedItem, bool) {
	return find(c.DamagedItems, func(d entity.DamagedItem) bool { return d.ID == id })
}

// CountItemsInCategory cuenta ítems cuyo campo category es exactamente name.
func (c *Collections) CountItemsInCategory(name string) int {
	n := 0
	for _, it := range c.Items {
		if it.Category == name {
			n++
		}
	}
	return n
}

// CountItemsOfSupplier cuenta ítems enlazados al proveedor.
func (c *Collections) CountItemsOfSupplier(supplierID string) int {
	n := 0
	for _, it := range c.Items {
		if it.SupplierID != nil && *it.SupplierID == supplierID {
			n++
		}
	}
	return n
}

// AlertSent indica si el ítem está en la memoria de alertas de stock bajo.
func (c *Collections) AlertSent(itemID string) bool {
	return slices.Contains(c.AlertsSent, itemID)
}

// PendingUser busca una cuenta pendiente por ID.
func (c *Collections) PendingUser(id string) (entity.User, bool) {
	return find(c.PendingUsers, func(u entity.User) bool { return u.ID == id })
}

// FindUser busca entre cuentas aprobadas y pendientes por username o email.
func (c *Collections) FindUser(identifier string) (entity.User, bool) {
	match := func(u entity.User) bool {
		return SameName(u.Username, identifier) || SameName(u.Email, identifier)
	}
	if u, ok := find(c.ApprovedUsers, match); ok {
		return u, true
	}
	return find(c.PendingUsers, match)
}

func find[T any](s []T, match func(T) bool) (T, bool) {
	for _, v := range s {
		if match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// ── Acceso por clave ─────────────────────────────────────────────────────────

// field devuelve un puntero al slice de la colección para (de)serializar; nil si la clave no existe.
func (c *Collections) field(key string) any {
	switch key {
	case repository.KeySuppliers:
		return &c.Suppliers
	case repository.KeyCategories:
		return &c.Categories
	case repository.KeyItems:
		return &c.Items
	case repository.KeyTransactions:
		return &c.Transactions
	case repository.KeyAppointments:
		return &c.Appointments
	case repository.KeyDamagedItems:
		return &c.DamagedItems
	case repository.KeyActivityLogs:
		return &c.ActivityLogs
	case repository.KeyLowStockAlertsSent:
		return &c.AlertsSent
	case repository.KeyPendingUsers:
		return &c.PendingUsers
	case repository.KeyApprovedUsers:
		return &c.ApprovedUsers
	default:
		return nil
	}
}

// replace copia la colección key desde src.
func (c *Collections) replace(key string, src *Collections) {
	switch key {
	case repository.KeySuppliers:
		c.Suppliers = src.Suppliers
	case repository.KeyCategories:
		c.Categories = src.Categories
	case repository.KeyItems:
		c.Items = src.Items
	case repository.KeyTransactions:
		c.Transactions = src.Transactions
	case repository.KeyAppointments:
		c.Appointments = src.Appointments
	case repository.KeyDamagedItems:
		c.DamagedItems = src.DamagedItems
	case repository.KeyActivityLogs:
		c.ActivityLogs = src.ActivityLogs
	case repository.KeyLowStockAlertsSent:
		c.AlertsSent = src.AlertsSent
	case repository.KeyPendingUsers:
		c.PendingUsers = src.PendingUsers
	case repository.KeyApprovedUsers:
		c.ApprovedUsers = src.ApprovedUsers
	}
}

// detach clona el backing array de la colección key para que las escrituras no la compartan.
func (c *Collections) detach(key string) {
	switch key {
	case repository.KeySuppliers:
		c.Suppliers = slices.Clone(c.Suppliers)
	case repository.KeyCategories:
		c.Categories = slices.Clone(c.Categories)
	case repository.KeyItems:
		c.Items = slices.Clone(c.Items)
	case repository.KeyTransactions:
		c.Transactions = slices.Clone(c.Transactions)
	case repository.KeyAppointments:
		c.Appointments = slices.Clone(c.Appointments)
	case repository.KeyDamagedItems:
		c.DamagedItems = slices.Clone(c.DamagedItems)
	case repository.KeyActivityLogs:
		c.ActivityLogs = slices.Clone(c.ActivityLogs)
	case repository.KeyLowStockAlertsSent:
		c.AlertsSent = slices.Clone(c.AlertsSent)
	case repository.KeyPendingUsers:
		c.PendingUsers = slices.Clone(c.PendingUsers)
	case repository.KeyApprovedUsers:
		c.ApprovedUsers = slices.Clone(c.ApprovedUsers)
	}
}
