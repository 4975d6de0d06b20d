package eventx_api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventx/internal/clock"
	"eventx/internal/engine"
	"eventx/internal/eventx_api"
	"eventx/internal/kafka"
	"eventx/internal/logger"
	"eventx/internal/qr"
	"eventx/internal/store"
	"eventx/internal/utils"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	eng := engine.New(store.NewMemory(), clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
	handler := eventx_api.NewHandler(
		eng,
		kafka.NewProducer(nil, true), // mock mode: notifications print instead of send
		qr.NewGenerator("test-secret"),
		logger.NewLogger("eventx-api-test"),
	)

	srv := httptest.NewServer(handler.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func bearerToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, utils.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func initialize(t *testing.T, srv *httptest.Server, admin string) {
	t.Helper()
	resp, envelope := doJSON(t, "POST", srv.URL+"/admin/initialize", "", map[string]string{"admin": admin})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, envelope.Success)
}

func createEvent(t *testing.T, srv *httptest.Server, adminToken string, capacity uint32) string {
	t.Helper()
	resp, envelope := doJSON(t, "POST", srv.URL+"/events", adminToken, map[string]any{
		"title":         "Show",
		"total_tickets": capacity,
		"ticket_price":  1000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := envelope.Data.(map[string]any)
	return data["event_id"].(string)
}

func TestUninitializedEngine(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := doJSON(t, "GET", srv.URL+"/admin/", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.False(t, envelope.Success)
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	adminToken := bearerToken(t, "admin-1")
	initialize(t, srv, "admin-1")

	eventID := createEvent(t, srv, adminToken, 1)

	// Anyone can read events without a token.
	resp, envelope := doJSON(t, "GET", srv.URL+"/events/"+eventID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	event := envelope.Data.(map[string]any)
	assert.Equal(t, "Show", event["title"])
	assert.Equal(t, true, event["is_active"])

	// Non-admin creation is rejected.
	resp, _ = doJSON(t, "POST", srv.URL+"/events", bearerToken(t, "eve"), map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// No token at all is rejected before reaching the engine.
	resp, _ = doJSON(t, "POST", srv.URL+"/events", "", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Cancel, then verify the conflict on repeat.
	resp, _ = doJSON(t, "POST", srv.URL+"/events/"+eventID+"/cancel", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, "POST", srv.URL+"/events/"+eventID+"/cancel", adminToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTicketFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	adminToken := bearerToken(t, "admin-1")
	carolToken := bearerToken(t, "carol")
	initialize(t, srv, "admin-1")

	eventID := createEvent(t, srv, adminToken, 1)

	// Carol buys the only ticket.
	resp, envelope := doJSON(t, "POST", srv.URL+"/tickets", carolToken, map[string]string{"event_id": eventID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ticketID := envelope.Data.(map[string]any)["ticket_id"].(string)

	resp, envelope = doJSON(t, "GET", srv.URL+"/events/"+eventID+"/ticket-count", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), envelope.Data.(map[string]any)["tickets_sold"])

	// Sold out for the next buyer.
	resp, _ = doJSON(t, "POST", srv.URL+"/tickets", bearerToken(t, "dave"), map[string]string{"event_id": eventID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Transfer to bob, owner stated in the request body.
	resp, _ = doJSON(t, "POST", srv.URL+"/tickets/"+ticketID+"/transfer", carolToken,
		map[string]string{"from": "carol", "to": "bob"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope = doJSON(t, "GET", srv.URL+"/tickets/"+ticketID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bob", envelope.Data.(map[string]any)["owner"])

	// Validity is public.
	resp, envelope = doJSON(t, "GET", srv.URL+"/tickets/"+ticketID+"/valid", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, envelope.Data.(map[string]any)["valid"])

	// Check-in is admin-gated and terminal.
	resp, _ = doJSON(t, "POST", srv.URL+"/tickets/"+ticketID+"/checkin", carolToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, "POST", srv.URL+"/tickets/"+ticketID+"/checkin", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, "POST", srv.URL+"/tickets/"+ticketID+"/checkin", adminToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTicketQROverHTTP(t *testing.T) {
	srv := newTestServer(t)
	adminToken := bearerToken(t, "admin-1")
	initialize(t, srv, "admin-1")

	eventID := createEvent(t, srv, adminToken, 1)
	resp, envelope := doJSON(t, "POST", srv.URL+"/tickets", bearerToken(t, "carol"), map[string]string{"event_id": eventID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ticketID := envelope.Data.(map[string]any)["ticket_id"].(string)

	qrResp, err := http.Get(srv.URL + "/tickets/" + ticketID + "/qr")
	require.NoError(t, err)
	defer qrResp.Body.Close()

	assert.Equal(t, http.StatusOK, qrResp.StatusCode)
	assert.Equal(t, "image/png", qrResp.Header.Get("Content-Type"))
}

func TestUnknownTicketOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	initialize(t, srv, "admin-1")

	resp, _ := doJSON(t, "GET", srv.URL+"/tickets/ticket-99", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, "GET", srv.URL+"/tickets/ticket-99/valid", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserTicketsAlwaysEmptyOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	adminToken := bearerToken(t, "admin-1")
	initialize(t, srv, "admin-1")

	eventID := createEvent(t, srv, adminToken, 2)
	resp, _ := doJSON(t, "POST", srv.URL+"/tickets", bearerToken(t, "carol"), map[string]string{"event_id": eventID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := doJSON(t, "GET", srv.URL+"/users/carol/tickets", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, envelope.Data.(map[string]any)["ticket_ids"])
}
