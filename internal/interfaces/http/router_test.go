package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/warehouse-inventory/internal/application/appointment"
	"github.com/jhoicas/warehouse-inventory/internal/application/audit"
	"github.com/jhoicas/warehouse-inventory/internal/application/auth"
	"github.com/jhoicas/warehouse-inventory/internal/application/dto"
	"github.com/jhoicas/warehouse-inventory/internal/application/inventory"
	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/application/usecase"
	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/report"
	apphttp "github.com/jhoicas/warehouse-inventory/internal/interfaces/http"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

type okNotifier struct{}

func (okNotifier) SendLowStockAlert(context.Context, notification.LowStockAlert) notification.Result {
	return notification.OK()
}

func (okNotifier) SendAppointmentConfirmation(context.Context, notification.AppointmentNotice) notification.Result {
	return notification.OK()
}

func (okNotifier) SendAppointmentCancellation(context.Context, notification.CancellationNotice) notification.Result {
	return notification.OK()
}

type fakeArchive struct {
	logs  []entity.ActivityLog
	limit int64
}

func (f *fakeArchive) Recent(_ context.Context, limit int64) ([]entity.ActivityLog, error) {
	f.limit = limit
	return f.logs, nil
}

// newAPI arma la API completa sobre un store en memoria con la semilla por defecto.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	return newAPIWithArchive(t, nil)
}

func newAPIWithArchive(t *testing.T, archive *fakeArchive) *fiber.App {
	t.Helper()
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	s, err := state.Open(context.Background(), memory.NewCollectionStore(), logger.Nop(),
		state.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	authUC, err := auth.NewAuthUseCase(s, auth.Config{
		Admin:      auth.AdminAccount{Username: "admin", Password: "admin-pass", Name: "Administrator"},
		JWT:        auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	outbox := notification.NewOutbox(okNotifier{}, logger.Nop(), notification.OutboxConfig{})

	deps := apphttp.RouterDeps{
		AuthUC:        authUC,
		ItemUC:        usecase.NewItemUseCase(s),
		SupplierUC:    usecase.NewSupplierUseCase(s),
		CategoryUC:    usecase.NewCategoryUseCase(s),
		DamagedUC:     usecase.NewDamagedItemUseCase(s),
		DashboardUC:   usecase.NewDashboardUseCase(s),
		Transactions:  inventory.NewRegisterTransactionUseCase(s),
		Replenishment: inventory.NewReplenishmentUseCase(s),
		AppointmentUC: appointment.NewUseCase(s, outbox),
		AuditUC:       audit.NewUseCase(s, report.NewCSV(), report.NewExcel(), report.NewHTML(), report.NewPDF()),
		Advisories:    outbox,
		JWTSecret:     testJWTSecret,
	}
	if archive != nil {
		deps.Archive = archive
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp, raw := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.Token
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))
	return e.Code
}

func TestRouter_SignupAprobacionYRoles(t *testing.T) {
	app := newAPI(t)
	adminToken := login(t, app, "admin", "admin-pass")

	resp, raw := call(t, app, http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		Username: "ana", Email: "ana@warehouse.example", Password: "secret1", ConfirmPassword: "secret1", Name: "Ana Reyes",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, raw = call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "secret1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PENDING_APPROVAL", errorCode(t, raw))

	resp, _ = call(t, app, http.MethodPost, "/api/users/"+created.ID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	staffToken := login(t, app, "ana", "secret1")

	resp, raw = call(t, app, http.MethodGet, "/api/users/pending", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "Staff no administra cuentas")
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))

	resp, _ = call(t, app, http.MethodPost, "/api/items", staffToken, dto.CreateItemRequest{
		Name: "Stapler", Category: "Office Supplies", Location: "A3",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "Staff no crea ítems")

	resp, raw = call(t, app, http.MethodPost, "/api/items", adminToken, dto.CreateItemRequest{
		Name: "Stapler", Category: "Office Supplies", Location: "A3",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, _ = call(t, app, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_MovimientosYErrores(t *testing.T) {
	app := newAPI(t)
	token := login(t, app, "admin", "admin-pass")

	resp, raw := call(t, app, http.MethodPost, "/api/transactions", token, dto.RegisterTransactionRequest{
		ItemID: state.SeedItemBondPaper, Type: entity.TransactionOUT, Quantity: 10, Reason: entity.ReasonSoldToCustomer,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var tx dto.TransactionResponse
	require.NoError(t, json.Unmarshal(raw, &tx))
	assert.Equal(t, 90, tx.Item.Quantity)

	resp, raw = call(t, app, http.MethodPost, "/api/transactions", token, dto.RegisterTransactionRequest{
		ItemID: state.SeedItemBondPaper, Type: entity.TransactionOUT, Quantity: 1000, Reason: entity.ReasonSoldToCustomer,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, raw))

	resp, raw = call(t, app, http.MethodGet, "/api/items/no-existe", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))

	resp, raw = call(t, app, http.MethodDelete, "/api/categories/cat-1", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "categoría con ítems")
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "IN_USE", e.Code)
	assert.Equal(t, "integrity", e.Category)
}

func TestRouter_CitaYAvisos(t *testing.T) {
	app := newAPI(t)
	token := login(t, app, "admin", "admin-pass")

	resp, raw := call(t, app, http.MethodPost, "/api/appointments/appt-1/confirm", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out dto.AppointmentActionResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, entity.AppointmentConfirmed, out.Appointment.Status)
	assert.NotEmpty(t, out.NotificationID, "el proveedor tiene email")

	resp, raw = call(t, app, http.MethodPost, "/api/appointments/appt-1/confirm", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, raw))

	resp, raw = call(t, app, http.MethodPost, "/api/appointments/appt-1/cancel", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	out = dto.AppointmentActionResponse{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Empty(t, out.NotificationID, "sin reason no se avisa")

	resp, raw = call(t, app, http.MethodGet, "/api/notifications/advisories", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(raw), "el outbox no corre en este test")
}

func TestRouter_ExportaBitacora(t *testing.T) {
	app := newAPI(t)
	token := login(t, app, "admin", "admin-pass")

	resp, raw := call(t, app, http.MethodGet, "/api/activity-logs/export?format=csv&action=Added", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="activity_logs_report_`)
	assert.Contains(t, string(raw), "A4 Bond Paper")

	resp, raw = call(t, app, http.MethodGet, "/api/activity-logs/export?format=docx", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))

	resp, _ = call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ArchivoDeBitacora(t *testing.T) {
	app := newAPI(t)
	admin := login(t, app, "admin", "admin-pass")
	resp, _ := call(t, app, http.MethodGet, "/api/activity-logs/archive", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "sin archivo configurado la ruta no existe")

	archive := &fakeArchive{logs: []entity.ActivityLog{{ID: "log-1", ItemName: "Ballpen", Action: entity.ActionAlert}}}
	app = newAPIWithArchive(t, archive)
	admin = login(t, app, "admin", "admin-pass")

	resp, raw := call(t, app, http.MethodGet, "/api/activity-logs/archive?limit=5", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var logs []entity.ActivityLog
	require.NoError(t, json.Unmarshal(raw, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "Ballpen", logs[0].ItemName)
	assert.Equal(t, int64(5), archive.limit)

	_, _ = call(t, app, http.MethodGet, "/api/activity-logs/archive?limit=0", admin, nil)
	assert.Equal(t, int64(100), archive.limit, "límite inválido usa el valor por defecto")
}
