package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carpool/internal/config"
	"carpool/internal/handlers"
	"carpool/internal/models"
	"carpool/internal/services"
	"carpool/internal/utils"
	"carpool/pkg/logger"
	"carpool/pkg/realtime"
	"carpool/pkg/store"
	"carpool/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: "stderr"})
	require.NoError(t, err)

	st := store.NewMemoryStore()
	storageCfg := &config.StorageConfig{Backend: "memory", KeyPrefix: "carpool"}
	bookingCfg := &config.BookingConfig{
		HistoryDeleteMode: config.HistoryDeleteModeRecord,
		AllowRepeatJoin:   true,
	}

	ledger := services.NewLedgerService(st, log, storageCfg, bookingCfg)
	catalog := services.NewCatalogService(st, ledger, services.NopNotifier{}, nil, log, storageCfg, bookingCfg)
	history := services.NewHistoryService(catalog, ledger, log)
	identity := services.NewIdentityService()

	rideHandler := handlers.NewRideHandler(catalog, identity, realtime.NewHub())
	historyHandler := handlers.NewHistoryHandler(history, identity)

	r := gin.New()
	api := r.Group("/api/v1")
	routes.SetupRideRoutes(api, rideHandler, testSecret)
	routes.SetupHistoryRoutes(api, historyHandler, testSecret)
	return r
}

func mintToken(t *testing.T, email string, role models.UserRole) string {
	t.Helper()
	token, err := utils.GenerateToken(&models.User{
		Email: email,
		Name:  "Test User",
		Phone: "+911234567890",
		Role:  role,
	}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func publishRideBody() map[string]interface{} {
	return map[string]interface{}{
		"starting_point":     "Campus Gate",
		"destination":        "Downtown",
		"time":               time.Now().Add(2 * time.Hour).Format(time.RFC3339),
		"car_model":          "Swift",
		"car_number":         "KA-01-1234",
		"seats_available":    2,
		"cost_per_passenger": 50,
	}
}

func publishRide(t *testing.T, r *gin.Engine, captainToken string) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/v1/rides", captainToken, publishRideBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	ride, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	id, _ := ride["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestListRidesRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/v1/rides", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublishAndListRides(t *testing.T) {
	r := newTestRouter(t)
	captain := mintToken(t, "captain@x.com", models.UserRoleCaptain)
	passenger := mintToken(t, "ravi@x.com", models.UserRolePassenger)

	publishRide(t, r, captain)

	w := doRequest(t, r, http.MethodGet, "/api/v1/rides", passenger, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	rides, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, rides, 1)
}

func TestPublishRideRequiresCaptainRole(t *testing.T) {
	r := newTestRouter(t)
	passenger := mintToken(t, "ravi@x.com", models.UserRolePassenger)

	w := doRequest(t, r, http.MethodPost, "/api/v1/rides", passenger, publishRideBody())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPublishRideValidation(t *testing.T) {
	r := newTestRouter(t)
	captain := mintToken(t, "captain@x.com", models.UserRoleCaptain)

	body := publishRideBody()
	body["destination"] = ""
	body["seats_available"] = 0

	w := doRequest(t, r, http.MethodPost, "/api/v1/rides", captain, body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "destination")
	assert.Contains(t, resp.Error.Details, "seats_available")
}

func TestSearchRidesByDestination(t *testing.T) {
	r := newTestRouter(t)
	captain := mintToken(t, "captain@x.com", models.UserRoleCaptain)
	passenger := mintToken(t, "ravi@x.com", models.UserRolePassenger)

	publishRide(t, r, captain)

	w := doRequest(t, r, http.MethodGet, "/api/v1/rides?destination=down", passenger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	rides, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, rides, 1)

	w = doRequest(t, r, http.MethodGet, "/api/v1/rides?destination=airport", passenger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	assert.Empty(t, resp.Data)
}

func TestJoinRide(t *testing.T) {
	r := newTestRouter(t)
	captain := mintToken(t, "captain@x.com", models.UserRoleCaptain)
	passenger := mintToken(t, "ravi@x.com", models.UserRolePassenger)

	rideID := publishRide(t, r, captain)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/join", rideID), passenger, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	payload, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	ride, ok := payload["ride"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), ride["seats_available"])
}

func TestJoinUnknownRideReturnsNotFound(t *testing.T) {
	r := newTestRouter(t)
	passenger := mintToken(t, "ravi@x.com", models.UserRolePassenger)

	w := doRequest(t, r, http.MethodPost, "/api/v1/rides/no-such-ride/join", passenger, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, utils.CodeRideNotFound, resp.Error.Code)
}

func TestJoinSoldOutRideConflicts(t *testing.T) {
	r := newTestRouter(t)
	captain := mintToken(t, "captain@x.com", models.UserRoleCaptain)

	rideID := publishRide(t, r, captain)

	for i := 0; i < 2; i++ {
		p := mintToken(t, fmt.Sprintf("p%d@x.com", i), models.UserRolePassenger)
		w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/join", rideID), p, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	late := mintToken(t, "late@x.com", models.UserRolePassenger)
	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/join", rideID), late, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, utils.CodeNoSeatsAvailable, resp.Error.Code)
}

func TestJoinRequiresPassengerRole(t *testing.T) {
	r := newTestRouter(t)
	captain := mintToken(t, "captain@x.com", models.UserRoleCaptain)

	rideID := publishRide(t, r, captain)

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/join", rideID), captain, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	r := newTestRouter(t)
	captain := mintToken(t, "captain@x.com", models.UserRoleCaptain)
	passenger := mintToken(t, "ravi@x.com", models.UserRolePassenger)

	rideID := publishRide(t, r, captain)
	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/rides/%s/join", rideID), passenger, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/history/captain", captain, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	entries, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, entries, 1)

	w = doRequest(t, r, http.MethodGet, "/api/v1/history/passenger", passenger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	entries, ok = resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, entries, 1)

	w = doRequest(t, r, http.MethodDelete, "/api/v1/history/passenger", passenger, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/history/passenger", passenger, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	assert.Empty(t, resp.Data)
}
