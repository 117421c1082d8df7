package dto

import (
	"time"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// SignupRequest entrada para el registro (la cuenta queda pendiente de aprobación).
type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Name            string `json:"name" validate:"required,max=200"`
}

// LoginRequest entrada para login; Username acepta usuario o email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ToUserResponse oculta el hash de la contraseña.
func ToUserResponse(u entity.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		ApprovedAt: u.ApprovedAt,
	}
}
