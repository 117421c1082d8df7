package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/domain"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminAccount la cuenta privilegiada fija. Password vacío deshabilita su login.
type AdminAccount struct {
	Username string
	Password string
	Name     string
	Email    string
}

// Config configuración del caso de uso. BcryptCost 0 usa bcrypt.DefaultCost.
type Config struct {
	Admin      AdminAccount
	JWT        JWTConfig
	BcryptCost int
}

// AuthUseCase registro con aprobación, login y administración de cuentas pendientes.
type AuthUseCase struct {
	state     state.Runner
	jwtCfg    JWTConfig
	cost      int
	admin     entity.User
	adminHash []byte // nil si el admin no tiene password configurado
}

// NewAuthUseCase construye el caso de uso. El password del admin se hashea una vez al arrancar.
func NewAuthUseCase(st state.Runner, cfg Config) (*AuthUseCase, error) {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	uc := &AuthUseCase{
		state:  st,
		jwtCfg: cfg.JWT,
		cost:   cost,
		admin: entity.User{
			ID:       entity.AdminUserID,
			Username: cfg.Admin.Username,
			Email:    cfg.Admin.Email,
			Name:     cfg.Admin.Name,
			Role:     entity.RoleAdmin,
			Status:   entity.UserStatusApproved,
		},
	}
	if cfg.Admin.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hashear password del admin: %w", err)
		}
		uc.adminHash = hash
	}
	return uc, nil
}

func (uc *AuthUseCase) isAdmin(identifier string) bool {
	return state.SameName(uc.admin.Username, identifier) ||
		(uc.admin.Email != "" && state.SameName(uc.admin.Email, identifier))
}

// Signup crea una cuenta Staff pendiente de aprobación. Usuario y email deben ser únicos
// entre el admin, las cuentas aprobadas y las pendientes.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, fmt.Errorf("hashear password: %w", err)
	}

	var user entity.User
	err = uc.state.Run(ctx, func(tx *state.Tx) error {
		if uc.isAdmin(username) || uc.isAdmin(email) {
			return fmt.Errorf("%w: el usuario o email ya está registrado", domain.ErrDuplicate)
		}
		if _, taken := tx.FindUser(username); taken {
			return fmt.Errorf("%w: el usuario %q ya existe", domain.ErrDuplicate, username)
		}
		if _, taken := tx.FindUser(email); taken {
			return fmt.Errorf("%w: el email %q ya está registrado", domain.ErrDuplicate, email)
		}
		user = entity.User{
			ID:           uuid.New().String(),
			Username:     username,
			Email:        email,
			Name:         strings.TrimSpace(in.Name),
			PasswordHash: string(hash),
			Role:         entity.RoleStaff,
			Status:       entity.UserStatusPending,
			CreatedAt:    tx.Now(),
		}
		tx.PutPendingUser(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(user)
	return &out, nil
}

// Login verifica usuario o email + password y emite un JWT. Una cuenta pendiente recibe
// ErrPendingApproval.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	identifier := strings.TrimSpace(in.Username)

	if uc.isAdmin(identifier) && uc.adminHash != nil {
		if bcrypt.CompareHashAndPassword(uc.adminHash, []byte(in.Password)) == nil {
			return uc.issue(uc.admin)
		}
	}

	var user entity.User
	var found bool
	uc.state.View(func(c *state.Collections) { user, found = c.FindUser(identifier) })
	if !found {
		return nil, fmt.Errorf("%w: usuario o contraseña incorrectos", domain.ErrUnauthorized)
	}
	if user.Status == entity.UserStatusPending {
		return nil, domain.ErrPendingApproval
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: usuario o contraseña incorrectos", domain.ErrUnauthorized)
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(u entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, u.ID, u.Name, u.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.ToUserResponse(u)}, nil
}

// ListPending cuentas esperando aprobación, en orden de registro.
func (uc *AuthUseCase) ListPending() []dto.UserResponse {
	var out []dto.UserResponse
	uc.state.View(func(c *state.Collections) {
		out = make([]dto.UserResponse, 0, len(c.PendingUsers))
		for _, u := range c.PendingUsers {
			out = append(out, dto.ToUserResponse(u))
		}
	})
	return out
}

// ListApproved cuentas Staff aprobadas.
func (uc *AuthUseCase) ListApproved() []dto.UserResponse {
	var out []dto.UserResponse
	uc.state.View(func(c *state.Collections) {
		out = make([]dto.UserResponse, 0, len(c.ApprovedUsers))
		for _, u := range c.ApprovedUsers {
			out = append(out, dto.ToUserResponse(u))
		}
	})
	return out
}

// Approve mueve la cuenta de pendientes a aprobadas.
func (uc *AuthUseCase) Approve(ctx context.Context, id string) (*dto.UserResponse, error) {
	var user entity.User
	err := uc.state.Run(ctx, func(tx *state.Tx) error {
		u, ok := tx.PendingUser(id)
		if !ok {
			return fmt.Errorf("%w: cuenta pendiente %s", domain.ErrUserNotFound, id)
		}
		now := tx.Now()
		u.Status = entity.UserStatusApproved
		u.ApprovedAt = &now
		tx.DeletePendingUser(id)
		tx.PutApprovedUser(u)
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(user)
	return &out, nil
}

// Reject descarta una cuenta pendiente.
func (uc *AuthUseCase) Reject(ctx context.Context, id string) error {
	return uc.state.Run(ctx, func(tx *state.Tx) error {
		if !tx.DeletePendingUser(id) {
			return fmt.Errorf("%w: cuenta pendiente %s", domain.ErrUserNotFound, id)
		}
		return nil
	})
}
