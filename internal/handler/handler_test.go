package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weblarek/backend/internal/cache"
	"github.com/weblarek/backend/internal/events"
	"github.com/weblarek/backend/internal/middleware"
	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/service"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/internal/store/memory"
)

func price(v float64) *float64 { return &v }

type testServer struct {
	engine *gin.Engine
	store  *memory.Store
	alice  model.Customer
	admin  model.Customer
	lamp   model.Product
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mem := memory.New()
	log := zap.NewNop()

	c := cache.New(4, time.Minute, time.Minute)
	t.Cleanup(c.Close)
	products := store.NewCachedProducts(mem.Products(), c)

	h := New(
		service.NewCustomers(mem.Customers(), mem.Orders(), log),
		service.NewOrders(mem.Orders(), products, events.Noop{}, log),
		service.NewProducts(products),
		log,
	)
	engine := gin.New()
	h.Register(engine)

	return &testServer{
		engine: engine,
		store:  mem,
		alice:  mem.SeedCustomer(model.Customer{Name: "Alice", Role: model.RoleCustomer, Email: "alice@example.com"}),
		admin:  mem.SeedCustomer(model.Customer{Name: "Root", Role: model.RoleAdmin}),
		lamp:   mem.SeedProduct(model.Product{Title: "Desk Lamp", Price: price(25)}),
	}
}

func (ts *testServer) do(t *testing.T, method, target string, body any, who *model.Customer) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if who != nil {
		req.Header.Set(middleware.HeaderUserID, who.ID)
		req.Header.Set(middleware.HeaderUserRole, string(who.Role))
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthGuards(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/orders", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/customers/"+ts.alice.ID, nil, &ts.alice)
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, "forbidden", body["error"].(map[string]any)["kind"])

	// Products stay public.
	w = ts.do(t, http.MethodGet, "/api/products", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// A directive smuggled through nested-parameter bracket syntax is rejected
// before any parameter reaches the filter builder.
func TestQueryFirewallRejectsSentinels(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{
		"/api/orders?status=$ne",
		"/api/orders?filters[$where]=sleep(1000)",
		"/api/customers?search[$regex]=.*",
	} {
		w := ts.do(t, http.MethodGet, target, nil, &ts.admin)
		assert.Equal(t, http.StatusBadRequest, w.Code, "target %s", target)
		body := decode(t, w)
		assert.Equal(t, "bad_request", body["error"].(map[string]any)["kind"])
	}
}

func TestCreateOrderEndToEnd(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/orders", gin.H{
		"items":   []string{ts.lamp.ID},
		"payment": "card",
		"email":   "alice@example.com",
		"phone":   "555-0100",
		"address": "<script>alert(1)</script>123 Main St",
		"total":   25,
	}, &ts.alice)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "123 Main St", body["deliveryAddress"])
	assert.Equal(t, float64(1), body["orderNumber"])
	assert.Equal(t, string(model.StatusNew), body["status"])
}

func TestCreateOrderValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing items", gin.H{"payment": "card", "email": "a@b.c", "phone": "1", "address": "x", "total": 25}},
		{"unknown payment", gin.H{"items": []string{ts.lamp.ID}, "payment": "cash", "email": "a@b.c", "phone": "1", "address": "x", "total": 25}},
		{"bad email", gin.H{"items": []string{ts.lamp.ID}, "payment": "card", "email": "nope", "phone": "1", "address": "x", "total": 25}},
		{"wrong total", gin.H{"items": []string{ts.lamp.ID}, "payment": "card", "email": "a@b.c", "phone": "1", "address": "x", "total": 26}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/orders", tt.body, &ts.alice)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// Markup that reached the store through some other write path is still
// stripped on the way out.
func TestOutputSanitizer(t *testing.T) {
	ts := newTestServer(t)
	tainted := ts.store.SeedCustomer(model.Customer{
		Name: `<script>x</script>Mallory`,
		Role: model.RoleCustomer,
	})

	w := ts.do(t, http.MethodGet, "/api/customers/"+tainted.ID, nil, &tainted)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Mallory", body["name"])
}

func TestListEnvelopes(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/customers?limit=100", nil, &ts.admin)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Contains(t, body, "customers")
	require.Contains(t, body, "pagination")
	page := body["pagination"].(map[string]any)
	assert.Equal(t, float64(10), page["pageSize"])

	// Non-admins get themselves back as a one-item page.
	w = ts.do(t, http.MethodGet, "/api/customers", nil, &ts.alice)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	customers := body["customers"].([]any)
	require.Len(t, customers, 1)
	assert.Equal(t, ts.alice.ID, customers[0].(map[string]any)["id"])
}

func TestCrossAccountReads(t *testing.T) {
	ts := newTestServer(t)
	bob := ts.store.SeedCustomer(model.Customer{Name: "Bob", Role: model.RoleCustomer})

	w := ts.do(t, http.MethodGet, "/api/customers/"+bob.ID, nil, &ts.alice)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/customers/"+bob.ID, nil, &ts.admin)
	assert.Equal(t, http.StatusOK, w.Code)
}
