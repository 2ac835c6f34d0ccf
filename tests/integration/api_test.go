// README: End-to-end API tests over the full router, auth, and database.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	httptransport "freshfold/internal/http"
	"freshfold/internal/modules/driver"
	"freshfold/internal/modules/order"
	"freshfold/internal/modules/revenue"
	"freshfold/internal/testutil"
)

const testSecret = "integration-secret"

func buildServer(t *testing.T) (http.Handler, *pgxpool.Pool) {
	t.Helper()
	db := testutil.SetupDB(t)

	orderSvc := order.NewService(order.NewStore(db), nil, nil)
	driverSvc := driver.NewService(driver.NewStore(db), orderSvc, nil)
	revenueSvc := revenue.NewService(revenue.NewStore(db), nil, nil)

	return httptransport.NewRouter(httptransport.RouterDeps{
		Order:     orderSvc,
		Driver:    driverSvc,
		Revenue:   revenueSvc,
		JWTSecret: testSecret,
		Log:       nil,
	}), db
}

func bearerToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + raw
}

func call(t *testing.T, h http.Handler, method, path string, body any, auth string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %s: %v", w.Body.String(), err)
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	h, _ := buildServer(t)
	if w := call(t, h, http.MethodGet, "/api/orders", nil, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}
	if w := call(t, h, http.MethodGet, "/health", nil, ""); w.Code != http.StatusOK {
		t.Errorf("health needs no auth: expected 200, got %d", w.Code)
	}
	if w := call(t, h, http.MethodGet, "/metrics", nil, ""); w.Code != http.StatusOK {
		t.Errorf("metrics needs no auth: expected 200, got %d", w.Code)
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	h, _ := buildServer(t)
	auth := bearerToken(t, "op_frontdesk")

	w := call(t, h, http.MethodPost, "/api/orders", map[string]any{
		"customer_id":  "cust1",
		"service_type": "wash_fold",
		"subtotal":     "40.00",
		"delivery_fee": "5.00",
		"discount":     "10.00",
		"total":        "35.00",
	}, auth)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID          string `json:"id"`
		OrderNumber string `json:"order_number"`
		Status      string `json:"status"`
	}
	decode(t, w, &created)
	if created.Status != "pending" {
		t.Errorf("new order status = %q, want pending", created.Status)
	}
	if len(created.OrderNumber) != 9 || created.OrderNumber[:3] != "FF-" {
		t.Errorf("order number = %q", created.OrderNumber)
	}

	w = call(t, h, http.MethodPost, "/api/orders/"+created.ID+"/transition",
		map[string]any{"status": "confirmed"}, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("transition: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// out_for_delivery without a driver is a guard violation surfaced verbatim
	w = call(t, h, http.MethodPost, "/api/orders/"+created.ID+"/transition",
		map[string]any{"status": "out_for_delivery"}, auth)
	if w.Code != http.StatusConflict {
		t.Fatalf("guard: expected 409, got %d: %s", w.Code, w.Body.String())
	}
	var guardResp struct {
		Error string `json:"error"`
	}
	decode(t, w, &guardResp)
	if guardResp.Error != "assign a driver before marking Out for Delivery" {
		t.Errorf("guard message = %q", guardResp.Error)
	}

	w = call(t, h, http.MethodGet, "/api/orders/"+created.ID+"/history?order=desc", nil, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", w.Code)
	}
	var hist struct {
		History []struct {
			Status  string `json:"status"`
			ActorID string `json:"actor_id"`
		} `json:"history"`
	}
	decode(t, w, &hist)
	if len(hist.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(hist.History))
	}
	if hist.History[0].Status != "confirmed" {
		t.Errorf("latest-first order broken: %+v", hist.History)
	}
	if hist.History[0].ActorID != "op_frontdesk" {
		t.Errorf("actor from token = %q, want op_frontdesk", hist.History[0].ActorID)
	}
}

func TestDriverTripAndReportOverHTTP(t *testing.T) {
	h, _ := buildServer(t)
	auth := bearerToken(t, "op_manager")

	w := call(t, h, http.MethodPost, "/api/drivers",
		map[string]any{"name": "Ravi", "phone": "555-0101"}, auth)
	if w.Code != http.StatusCreated {
		t.Fatalf("create driver: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var drv struct {
		ID string `json:"id"`
	}
	decode(t, w, &drv)

	w = call(t, h, http.MethodPatch, "/api/drivers/"+drv.ID+"/status",
		map[string]any{"status": "active"}, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("set status: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = call(t, h, http.MethodPost, "/api/orders", map[string]any{
		"customer_id":  "cust2",
		"service_type": "dry_clean",
		"subtotal":     "25.00",
		"total":        "25.00",
	}, auth)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var ord struct {
		ID string `json:"id"`
	}
	decode(t, w, &ord)

	w = call(t, h, http.MethodPost, "/api/drivers/"+drv.ID+"/trips",
		map[string]any{"order_id": ord.ID, "trip_type": "pickup"}, auth)
	if w.Code != http.StatusCreated {
		t.Fatalf("start trip: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var trip struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &trip)

	w = call(t, h, http.MethodPost, "/api/trips/"+strconv.FormatInt(trip.ID, 10)+"/complete", nil, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("complete trip: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = call(t, h, http.MethodGet, "/api/drivers/"+drv.ID+"/performance", nil, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("performance: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var stats struct {
		Pickups          int  `json:"pickups"`
		CompletedPickups int  `json:"completed_pickups"`
		BaselineUsed     bool `json:"baseline_used"`
	}
	decode(t, w, &stats)
	if stats.Pickups != 1 || stats.CompletedPickups != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.BaselineUsed {
		t.Errorf("expected computed rate, not baseline")
	}

	w = call(t, h, http.MethodGet, "/api/reports/revenue?period=week", nil, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("revenue: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var report struct {
		TotalRevenue string `json:"total_revenue"`
		OrderCount   int    `json:"order_count"`
	}
	decode(t, w, &report)
	if report.OrderCount != 1 {
		t.Errorf("order count = %d, want 1", report.OrderCount)
	}
}
