package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-inventory/internal/application/appointment"
	"github.com/jhoicas/warehouse-inventory/internal/application/audit"
	"github.com/jhoicas/warehouse-inventory/internal/application/auth"
	"github.com/jhoicas/warehouse-inventory/internal/application/inventory"
	"github.com/jhoicas/warehouse-inventory/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ItemUC        *usecase.ItemUseCase
	SupplierUC    *usecase.SupplierUseCase
	CategoryUC    *usecase.CategoryUseCase
	DamagedUC     *usecase.DamagedItemUseCase
	DashboardUC   *usecase.DashboardUseCase
	Transactions  *inventory.RegisterTransactionUseCase
	Replenishment *inventory.ReplenishmentUseCase
	AppointmentUC *appointment.UseCase
	AuditUC       *audit.UseCase
	Advisories    advisorySource
	Archive       archiveSource // nil si no hay archivo configurado
	JWTSecret     string
}

// Router registra las rutas de la API. Lecturas y movimientos de stock para cualquier
// usuario autenticado; altas, ediciones y bajas de registros solo para Admin.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := AdminOnly()

	protected.Get("/auth/me", authHandler.Me)

	// Usuarios (solo Admin)
	users := protected.Group("/users", admin)
	users.Get("/", authHandler.ListApproved)
	users.Get("/pending", authHandler.ListPending)
	users.Post("/:id/approve", authHandler.Approve)
	users.Post("/:id/reject", authHandler.Reject)

	// Items
	itemHandler := NewItemHandler(deps.ItemUC, deps.Replenishment)
	items := protected.Group("/items")
	items.Get("/", itemHandler.List)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/replenishment", itemHandler.Replenishment)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", admin, itemHandler.Create)
	items.Put("/:id", admin, itemHandler.Update)
	items.Delete("/:id", admin, itemHandler.Delete)

	// Movimientos de stock
	txHandler := NewTransactionHandler(deps.Transactions)
	transactions := protected.Group("/transactions")
	transactions.Get("/", txHandler.List)
	transactions.Get("/reasons", txHandler.Reasons)
	transactions.Post("/", txHandler.Register)

	// Proveedores
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", admin, supplierHandler.Create)
	suppliers.Put("/:id", admin, supplierHandler.Update)
	suppliers.Delete("/:id", admin, supplierHandler.Delete)

	// Categorías
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", admin, categoryHandler.Create)
	categories.Put("/:id", admin, categoryHandler.Update)
	categories.Delete("/:id", admin, categoryHandler.Delete)

	// Citas de reabastecimiento
	apptHandler := NewAppointmentHandler(deps.AppointmentUC)
	appointments := protected.Group("/appointments")
	appointments.Get("/", apptHandler.List)
	appointments.Get("/stats", apptHandler.Stats)
	appointments.Get("/:id", apptHandler.GetByID)
	appointments.Post("/", admin, apptHandler.Schedule)
	appointments.Put("/:id", admin, apptHandler.Update)
	appointments.Post("/:id/confirm", admin, apptHandler.Confirm)
	appointments.Post("/:id/complete", admin, apptHandler.Complete)
	appointments.Post("/:id/cancel", admin, apptHandler.Cancel)

	// Ítems dañados
	damagedHandler := NewDamagedItemHandler(deps.DamagedUC)
	damaged := protected.Group("/damaged-items")
	damaged.Get("/", damagedHandler.List)
	damaged.Put("/:id", admin, damagedHandler.Update)
	damaged.Delete("/:id", admin, damagedHandler.Delete)

	// Bitácora
	logHandler := NewActivityLogHandler(deps.AuditUC)
	logs := protected.Group("/activity-logs")
	logs.Get("/", logHandler.List)
	logs.Get("/summary", logHandler.Summary)
	logs.Get("/formats", logHandler.Formats)
	logs.Get("/export", logHandler.Export)
	if deps.Archive != nil {
		logs.Get("/archive", admin, NewArchiveHandler(deps.Archive).Recent)
	}

	// Avisos de notificación
	protected.Get("/notifications/advisories", NewNotificationHandler(deps.Advisories).Advisories)

	// Dashboard
	protected.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).GetSummary)
}
