package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "Admin"
	RoleStaff = "Staff"
)

// Estados de la cuenta.
const (
	UserStatusPending  = "pending"
	UserStatusApproved = "approved"
)

// AdminUserID identificador fijo de la cuenta administradora.
const AdminUserID = "admin-1"

// User cuenta de acceso. Las cuentas creadas por registro inician en pending.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"passwordHash"` // bcrypt
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
}

// Actor devuelve la instantánea del usuario para auditoría.
func (u User) Actor() Actor {
	return Actor{Name: u.Name, Role: u.Role}
}
