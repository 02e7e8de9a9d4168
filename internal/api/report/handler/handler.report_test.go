package reporthdl_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sales_crm/config"
	authmodels "sales_crm/internal/api/auth/models"
	"sales_crm/internal/api/middleware"
	reportrouter "sales_crm/internal/api/report/router"
	reportsvc "sales_crm/internal/api/report/service"
	apirouter "sales_crm/internal/api/router"
	"sales_crm/internal/common"
	"sales_crm/internal/datastore"
	"sales_crm/internal/global"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticResolver token "admin" -> admin, "sales" -> user 2
type staticResolver struct{}

func (staticResolver) ResolveRequester(_ context.Context, raw string) (authmodels.Requester, error) {
	switch raw {
	case "admin":
		return authmodels.Requester{ID: 1, Role: authmodels.RoleAdmin}, nil
	case "sales":
		return authmodels.Requester{ID: 2, Role: authmodels.RoleStandard}, nil
	}
	return authmodels.Requester{}, common.ErrTokenInvalid
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	svc := reportsvc.NewReportService(datastore.NewMemoryStore())
	require.NoError(t, apirouter.SetupRoutes(app, middleware.AuthMiddleware(staticResolver{}), reportrouter.Register(svc)))
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestGetReport_Success(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?period=week", nil), "admin"))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "sales", body["reportType"])
	assert.Equal(t, "week", body["period"])
	_, err := time.Parse(time.RFC3339, body["generatedAt"].(string))
	assert.NoError(t, err)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["dealCount"])
}

func TestGetReport_UnknownPeriodFallsBackToMonth(t *testing.T) {
	app := newTestApp(t)
	for _, period := range []string{"fortnight", "7d", "last-month"} {
		status, body := do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?period="+period, nil), "admin"))
		assert.Equal(t, http.StatusOK, status, period)
		assert.Equal(t, "month", body["period"], period)
	}
}

func TestGetReport_Errors(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales", nil))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["error"])

	status, _ = do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales", nil), "forged"))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/v1/reports/revenue", nil), "sales"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Loại báo cáo không hợp lệ", body["error"])
	assert.NotNil(t, body["details"])

	status, _ = do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?startDate=2024-01-01", nil), "sales"))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?startDate=01-01-2024&endDate=2024-02-01", nil), "sales"))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPostReport_ExplicitRange(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports",
		strings.NewReader(`{"reportType":"forecast","period":"year","startDate":"2024-01-01","endDate":"2024-01-31"}`))
	req.Header.Set("Content-Type", "application/json")

	status, body := do(t, app, withToken(req, "sales"))
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "custom", body["period"])
	rng := body["range"].(map[string]interface{})
	assert.Equal(t, "2024-01-01T00:00:00Z", rng["start"])
	assert.Equal(t, "2024-01-31T23:59:59.999Z", rng["end"])
}

func TestListReportTypes(t *testing.T) {
	app := newTestApp(t)
	status, body := do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil), "sales"))
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["reportTypes"], 5)
}

func TestErrorDetailsHiddenInProduction(t *testing.T) {
	global.ServerConfig = &config.Configuration{Environment: "production"}
	t.Cleanup(func() { global.ServerConfig = nil })

	app := newTestApp(t)
	status, body := do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/v1/reports/revenue", nil), "sales"))
	assert.Equal(t, http.StatusBadRequest, status)
	_, hasDetails := body["details"]
	assert.False(t, hasDetails)
}
