package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/config"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/storage/sqlite"
)

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		Port:            "8000",
		CORSOrigin:      "*",
		JWTSecret:       testSecret,
		TokenTTL:        time.Hour,
		RateLimitWindow: time.Minute,
		// Generous limits so the limiter does not interfere with most tests.
		RateLimitMax: 10000,
		AuthLimitMax: 10000,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	cfg.DBPath = filepath.Join(t.TempDir(), "test.db")
	store, err := sqlite.New(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return New(cfg, store)
}

// doJSON performs a request against the app and decodes the JSON response
// into a generic map. An empty token omits the Authorization header.
func doJSON(t *testing.T, srv *Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	resp := do(t, srv, method, path, token, body)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func do(t *testing.T, srv *Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func register(t *testing.T, srv *Server, name, email string) (id, token string) {
	t.Helper()

	status, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, "register %s: %v", email, body)
	return body["id"].(string), body["token"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t, testConfig())

	t.Run("register returns identity and token, never the password", func(t *testing.T) {
		resp := do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Ann", "email": "ann@x.com", "password": "secret1",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, strings.ToLower(string(raw)), "password")

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "Ann", body["name"])
		assert.Equal(t, "ann@x.com", body["email"])
		assert.NotEmpty(t, body["id"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("registration seeds eight default categories", func(t *testing.T) {
		status, loginBody := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ann@x.com", "password": "secret1",
		})
		require.Equal(t, http.StatusOK, status)
		token := loginBody["token"].(string)

		resp := do(t, srv, http.MethodGet, "/api/categories", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var categories []models.Category
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
		assert.Len(t, categories, 8)
	})

	t.Run("duplicate email", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Ann Again", "email": "ANN@x.com", "password": "secret2",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "User already exists", body["error"])
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ann@x.com", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid credentials", body["error"])

		status, body = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "nobody@x.com", "password": "secret1",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("invalid registration input", func(t *testing.T) {
		cases := []map[string]string{
			{"name": "A", "email": "a@x.com", "password": "secret1"},
			{"name": "Ann", "email": "not-an-email", "password": "secret1"},
			{"name": "Ann", "email": "ok@x.com", "password": "short"},
		}
		for _, payload := range cases {
			status, _ := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", payload)
			assert.Equal(t, http.StatusBadRequest, status)
		}
	})
}

func TestAuthGate(t *testing.T) {
	srv := newTestServer(t, testConfig())
	userID, token := register(t, srv, "Ann", "ann@x.com")

	t.Run("no token", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodGet, "/api/transactions", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Unauthorized, no token", body["error"])
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		req.Header.Set("Authorization", "Basic "+token)
		resp, err := srv.App().Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Unauthorized, no token", body["error"])
	})

	t.Run("tampered token", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		payload := []byte(parts[1])
		payload[0] ^= 1
		tampered := parts[0] + "." + string(payload) + "." + parts[2]

		status, body := doJSON(t, srv, http.MethodGet, "/api/transactions", tampered, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Unauthorized, token failed", body["error"])
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := auth.NewJWTManager(testSecret, -time.Hour).Generate(&models.User{
			ID: userID, Email: "ann@x.com",
		})
		require.NoError(t, err)

		status, body := doJSON(t, srv, http.MethodGet, "/api/transactions", expired, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Unauthorized, token failed", body["error"])
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		foreign, err := auth.NewJWTManager("other-secret", time.Hour).Generate(&models.User{
			ID: userID, Email: "ann@x.com",
		})
		require.NoError(t, err)

		status, body := doJSON(t, srv, http.MethodGet, "/api/transactions", foreign, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Unauthorized, token failed", body["error"])
	})
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t, testConfig())
	_, annToken := register(t, srv, "Ann", "ann@x.com")
	_, bobToken := register(t, srv, "Bob", "bob@x.com")

	resp := do(t, srv, http.MethodGet, "/api/categories", annToken, nil)
	var categories []models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	resp.Body.Close()
	require.NotEmpty(t, categories)
	food := categories[0]

	var txID string

	t.Run("create populates the category name", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPost, "/api/transactions", annToken, map[string]any{
			"description": "Coffee",
			"amount":      4.5,
			"type":        "expense",
			"category":    food.ID,
			"date":        "2024-01-01",
		})
		require.Equal(t, http.StatusCreated, status, "%v", body)
		assert.Equal(t, food.Name, body["category_name"])
		assert.Equal(t, 4.5, body["amount"])
		txID = body["id"].(string)
	})

	t.Run("missing fields", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPost, "/api/transactions", annToken, map[string]any{
			"description": "Coffee",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "All fields are required", body["error"])
	})

	t.Run("another user's update is forbidden", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPut, "/api/transactions/"+txID, bobToken, map[string]any{
			"description": "Hijacked",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Forbidden", body["error"])
	})

	t.Run("owner merge-patch", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPut, "/api/transactions/"+txID, annToken, map[string]any{
			"amount": 6.0,
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 6.0, body["amount"])
		assert.Equal(t, "Coffee", body["description"], "absent fields keep stored values")
	})

	t.Run("unknown id is 404, even before ownership", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPut, "/api/transactions/no-such-id", bobToken, map[string]any{
			"description": "X",
		})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Resource not found", body["error"])
	})

	t.Run("csv export", func(t *testing.T) {
		resp := do(t, srv, http.MethodGet, "/api/transactions/export/csv", annToken, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment; filename=")

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Date,Description,Type,Category,Amount", lines[0])
		assert.Equal(t, fmt.Sprintf("2024-01-01,Coffee,expense,%s,6.00", food.Name), lines[1])
	})

	t.Run("delete, then delete again", func(t *testing.T) {
		status, _ := doJSON(t, srv, http.MethodDelete, "/api/transactions/"+txID, annToken, nil)
		require.Equal(t, http.StatusOK, status)

		status, body := doJSON(t, srv, http.MethodDelete, "/api/transactions/"+txID, annToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Resource not found", body["error"])
	})
}

func TestCategoryEndpoints(t *testing.T) {
	srv := newTestServer(t, testConfig())
	_, annToken := register(t, srv, "Ann", "ann@x.com")
	_, bobToken := register(t, srv, "Bob", "bob@x.com")

	status, created := doJSON(t, srv, http.MethodPost, "/api/categories", annToken, map[string]string{
		"name": "Travel", "icon": "travel", "color": "#123ABC",
	})
	require.Equal(t, http.StatusCreated, status)
	categoryID := created["id"].(string)

	t.Run("invalid color", func(t *testing.T) {
		status, _ := doJSON(t, srv, http.MethodPost, "/api/categories", annToken, map[string]string{
			"name": "Bad", "color": "red",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("foreign delete is forbidden", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodDelete, "/api/categories/"+categoryID, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Forbidden", body["error"])
	})

	t.Run("owner update and delete", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPut, "/api/categories/"+categoryID, annToken, map[string]string{
			"name": "Trips",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Trips", body["name"])
		assert.Equal(t, "travel", body["icon"], "absent fields keep stored values")

		status, _ = doJSON(t, srv, http.MethodDelete, "/api/categories/"+categoryID, annToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestProfileEndpoints(t *testing.T) {
	srv := newTestServer(t, testConfig())
	userID, token := register(t, srv, "Ann", "ann@x.com")

	t.Run("get", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodGet, "/api/users/profile", token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, userID, body["id"])
		assert.Equal(t, "ann@x.com", body["email"])
	})

	t.Run("update", func(t *testing.T) {
		status, body := doJSON(t, srv, http.MethodPut, "/api/users/profile", token, map[string]string{
			"name": "Annie",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Annie", body["name"])
		assert.Equal(t, "ann@x.com", body["email"])
	})

	t.Run("delete account, token now resolves to nothing", func(t *testing.T) {
		status, _ := doJSON(t, srv, http.MethodDelete, "/api/users/profile", token, nil)
		require.Equal(t, http.StatusOK, status)

		status, body := doJSON(t, srv, http.MethodGet, "/api/users/profile", token, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Resource not found", body["error"])
	})
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.AuthLimitMax = 2
	srv := newTestServer(t, cfg)

	login := func() (int, map[string]any) {
		return doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "nobody@x.com", "password": "whatever",
		})
	}

	for i := 0; i < 2; i++ {
		status, _ := login()
		require.Equal(t, http.StatusUnauthorized, status)
	}

	status, body := login()
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Too many requests, please try again later", body["error"])
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp := do(t, srv, http.MethodGet, "/health", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "fintrack_http_requests_total")
}
