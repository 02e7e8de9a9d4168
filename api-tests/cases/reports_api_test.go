//go:build integration

// Kiểm thử API trên server đang chạy.
// Chạy: API_ADMIN_TOKEN=... API_SALES_TOKEN=... go test -tags integration ./api-tests/...
// Token lấy bằng: go run ./cmd/reportctl token --user <id>
package tests

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{baseURL: baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *apiClient) do(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

// waitForHealth đợi server sẵn sàng
func waitForHealth(t *testing.T, baseURL string, attempts int, delay time.Duration) {
	t.Helper()
	for i := 0; i < attempts; i++ {
		resp, err := http.Get(baseURL + "/system/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(delay)
	}
	t.Fatalf("❌ Server không sẵn sàng sau %d lần thử", attempts)
}

func setup(t *testing.T) (admin, sales *apiClient) {
	t.Helper()
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api/v1"
	}
	adminToken, salesToken := os.Getenv("API_ADMIN_TOKEN"), os.Getenv("API_SALES_TOKEN")
	if adminToken == "" || salesToken == "" {
		t.Skip("cần API_ADMIN_TOKEN và API_SALES_TOKEN")
	}
	waitForHealth(t, baseURL, 10, time.Second)
	return newAPIClient(baseURL, adminToken), newAPIClient(baseURL, salesToken)
}

func TestReportsAPI(t *testing.T) {
	admin, sales := setup(t)

	t.Run("📊 mọi loại báo cáo", func(t *testing.T) {
		status, body := admin.do(t, http.MethodGet, "/reports", "")
		require.Equal(t, http.StatusOK, status)
		types := body["reportTypes"].([]interface{})
		require.NotEmpty(t, types)
		for _, rt := range types {
			status, body := admin.do(t, http.MethodGet, fmt.Sprintf("/reports/%s?period=quarter", rt), "")
			assert.Equal(t, http.StatusOK, status, rt)
			assert.Equal(t, rt, body["reportType"])
		}
	})

	t.Run("🔒 sales chỉ thấy dữ liệu của mình", func(t *testing.T) {
		_, all := admin.do(t, http.MethodGet, "/reports/sales?period=year", "")
		_, own := sales.do(t, http.MethodGet, "/reports/sales?period=year", "")
		allCount := all["data"].(map[string]interface{})["dealCount"].(float64)
		ownCount := own["data"].(map[string]interface{})["dealCount"].(float64)
		assert.LessOrEqual(t, ownCount, allCount)
	})

	t.Run("❌ input lỗi", func(t *testing.T) {
		status, _ := admin.do(t, http.MethodGet, "/reports/revenue", "")
		assert.Equal(t, http.StatusBadRequest, status)
		status, _ = admin.do(t, http.MethodGet, "/reports/sales?startDate=2024-01-01", "")
		assert.Equal(t, http.StatusBadRequest, status)
		status, _ = newAPIClient(admin.baseURL, "").do(t, http.MethodGet, "/reports/sales", "")
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("📅 POST với khoảng tùy chỉnh", func(t *testing.T) {
		status, body := admin.do(t, http.MethodPost, "/reports", `{"reportType":"forecast","startDate":"2024-01-01","endDate":"2024-03-31"}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "custom", body["period"])
	})
}

func TestNotificationsAndAttendanceAPI(t *testing.T) {
	_, sales := setup(t)

	status, body := sales.do(t, http.MethodPost, "/attendance", `{"status":"PRESENT","note":"api-test"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "PRESENT", body["data"].(map[string]interface{})["status"])

	status, body = sales.do(t, http.MethodGet, "/attendance/today", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]interface{})["submitted"])

	status, _ = sales.do(t, http.MethodGet, "/notifications?limit=10", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = sales.do(t, http.MethodPatch, "/notifications/read-all", "")
	assert.Equal(t, http.StatusOK, status)

	status, body = sales.do(t, http.MethodGet, "/notifications/unread-count", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["data"].(map[string]interface{})["count"])
}
