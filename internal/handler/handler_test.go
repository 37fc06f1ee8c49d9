package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/asoline/lawncare-booking/internal/config"
	"github.com/asoline/lawncare-booking/internal/handler"
	"github.com/asoline/lawncare-booking/internal/payments"
	"github.com/asoline/lawncare-booking/internal/router"
	"github.com/asoline/lawncare-booking/internal/store"
	"github.com/asoline/lawncare-booking/internal/utils"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		JWTSecret:    testSecret,
		AccessTTLMin: 60,
		BcryptCost:   4,
		SquareAppID:  "sandbox-sq0idb-test",
		SquareLocID:  "sandbox-location-test",
	}
}

// newTestServer wires the full route table against a fresh memory store
// and the simulated gateway, with no rate limiting.
func newTestServer(t *testing.T) (*echo.Echo, *store.MemoryStore) {
	t.Helper()
	cfg := testConfig()
	st := store.NewMemoryStore()

	e := echo.New()
	noLimit := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	router.Register(e, router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, st),
		Contact:     handler.NewContactHandler(st),
		Appointment: handler.NewAppointmentHandler(st),
		Payment:     handler.NewPaymentHandler(cfg, st, payments.NewSquareSimulator()),
	}, cfg.JWTSecret, noLimit)
	return e, st
}

// seedUser creates an account directly in the store and returns a
// bearer token for it.
func seedUser(t *testing.T, st *store.MemoryStore, username string, admin bool) string {
	t.Helper()
	hash, err := utils.HashPassword("hunter22", 4)
	require.NoError(t, err)
	u, err := st.CreateUser(context.Background(), store.NewUser{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      admin,
	})
	require.NoError(t, err)
	tok, err := utils.NewAccessToken(testSecret, u.ID, u.Username, u.IsAdmin, 60)
	require.NoError(t, err)
	return tok.Token
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope unpacks the {success, data, message} response wrapper.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (bool, map[string]interface{}, string) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	data := map[string]interface{}{}
	if len(env.Data) > 0 && env.Data[0] == '{' {
		require.NoError(t, json.Unmarshal(env.Data, &data))
	}
	return env.Success, data, env.Message
}

func validAppointmentBody() map[string]interface{} {
	return map[string]interface{}{
		"customerName":   "Dana Reed",
		"customerEmail":  "dana@example.com",
		"customerPhone":  "5155550134",
		"serviceType":    "lawn-care",
		"serviceAddress": "9 Oak Ave",
		"scheduledDate":  "2026-04-12",
		"scheduledTime":  "09:00",
	}
}
