package http

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalUserID = "user_id"
	LocalName   = "user_name"
	LocalRole   = "user_role"
)

// AuthMiddleware valida el Bearer Token JWT y deja UserID, Name y Role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalName, claims.Name)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe ir DESPUÉS de AuthMiddleware.
// Un token sin rol responde 401 MISSING_ROLE; un rol no permitido, 403 FORBIDDEN.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !slices.Contains(roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// AdminOnly atajo de RequireRole(entity.RoleAdmin).
func AdminOnly() fiber.Handler { return RequireRole(entity.RoleAdmin) }

func local(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return local(c, LocalUserID) }

// GetName devuelve el nombre visible del usuario autenticado.
func GetName(c *fiber.Ctx) string { return local(c, LocalName) }

// GetRole devuelve el rol del usuario autenticado.
func GetRole(c *fiber.Ctx) string { return local(c, LocalRole) }

// actorFrom instantánea del usuario que firma la bitácora.
func actorFrom(c *fiber.Ctx) entity.Actor {
	return entity.Actor{Name: GetName(c), Role: GetRole(c)}
}
