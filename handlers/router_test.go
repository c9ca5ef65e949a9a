package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"store-manager/auth"
	"store-manager/database"
	"store-manager/events"
	"store-manager/logger"
	"store-manager/metrics"
	"store-manager/service"
	"store-manager/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	ownerEmail = "owner@store.com"
	aliceEmail = "alice@store.com"
	bobEmail   = "bob@store.com"
	password   = "pass1234"
)

type testApp struct {
	router *gin.Engine
	hub    *events.Hub
	users  *service.Users
}

// setupApp builds the full stack on a fresh SQLite file with one owner and
// two attendants.
func setupApp(t *testing.T, loginRate string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	st := store.NewGorm(db)
	log := logger.Discard()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	hub := events.NewHub()

	users := service.NewUsers(st, auth.NewBcryptHasher(bcrypt.MinCost), tokens, log)
	h := New(users, service.NewProducts(st, events.Nop{}, log), service.NewSales(st, hub, log), hub, log)

	r, err := NewRouter(h, Options{
		Resolver:  auth.NewResolver(tokens, st),
		Metrics:   metrics.New(),
		LoginRate: loginRate,
		Logger:    log,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = users.CreateOwner(ctx, signup(ownerEmail))
	require.NoError(t, err)
	for _, email := range []string{aliceEmail, bobEmail} {
		_, err = users.SignupAttendant(ctx, signup(email))
		require.NoError(t, err)
	}
	return &testApp{router: r, hub: hub, users: users}
}

func signup(email string) service.SignupInput {
	return service.SignupInput{
		FirstName:       "Test",
		LastName:        "User",
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	msg, _ := decode(t, w)["error"].(string)
	return msg
}

func newProduct(name string, cost, qty int) gin.H {
	return gin.H{"name": name, "unit_cost": cost, "quantity": qty}
}

func TestLogin(t *testing.T) {
	app := setupApp(t, "")

	tests := []struct {
		name   string
		body   gin.H
		status int
		errMsg string
	}{
		{"unknown email", gin.H{"email": "nobody@store.com", "password": password}, http.StatusUnauthorized, "Please register to login"},
		{"wrong password", gin.H{"email": aliceEmail, "password": "nope"}, http.StatusUnauthorized, "Invalid email or password"},
		{"missing password", gin.H{"email": aliceEmail}, http.StatusBadRequest, "Password field is required"},
		{"wrong type", gin.H{"email": 42, "password": password}, http.StatusBadRequest, "email has an invalid type"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/auth/login", "", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.errMsg, errorOf(t, w))
		})
	}
}

func TestLoginTokensSatisfyTheirRole(t *testing.T) {
	app := setupApp(t, "")
	owner := app.login(t, ownerEmail)
	alice := app.login(t, aliceEmail)

	w := app.do(t, http.MethodPost, "/products", owner, newProduct("rice", 120, 10))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodPost, "/products", alice, newProduct("beans", 80, 5))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, auth.ReasonLoginOwner, errorOf(t, w))

	w = app.do(t, http.MethodPost, "/sales", alice, gin.H{"cart_items": []gin.H{}})
	assert.Equal(t, http.StatusCreated, w.Code)

	for _, token := range []string{owner, alice} {
		w = app.do(t, http.MethodGet, "/products", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestUnauthenticatedReadsAreRejected(t *testing.T) {
	app := setupApp(t, "")

	for _, path := range []string{"/sales", "/products", "/products/1", "/sales/1"} {
		for _, token := range []string{"", "not-a-jwt"} {
			w := app.do(t, http.MethodGet, path, token, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "GET %s with token %q", path, token)
		}
	}
}

func TestSignup(t *testing.T) {
	app := setupApp(t, "")
	owner := app.login(t, ownerEmail)
	alice := app.login(t, aliceEmail)
	body := signup("carol@store.com")

	w := app.do(t, http.MethodPost, "/auth/signup", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/auth/signup", alice, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPost, "/auth/signup", owner, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "carol@store.com", user["email"])
	assert.Equal(t, false, user["is_admin"])
	assert.NotContains(t, w.Body.String(), "password")

	w = app.do(t, http.MethodPost, "/auth/signup", owner, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User with this email address already exists", errorOf(t, w))

	mismatch := signup("dave@store.com")
	mismatch.ConfirmPassword = "other"
	w = app.do(t, http.MethodPost, "/auth/signup", owner, mismatch)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "The passwords must match", errorOf(t, w))

	app.login(t, "carol@store.com")

	// emails match exactly, so a case variant is a different user
	w = app.do(t, http.MethodPost, "/auth/signup", owner, signup("Carol@store.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Carol@store.com", decode(t, w)["user"].(map[string]any)["email"])
	app.login(t, "Carol@store.com")
}

func TestSaleVisibility(t *testing.T) {
	app := setupApp(t, "")
	owner := app.login(t, ownerEmail)
	alice := app.login(t, aliceEmail)
	bob := app.login(t, bobEmail)

	cart := gin.H{"cart_items": []gin.H{
		{"name": "rice", "price": 120, "quantity": 2},
		{"name": "beans", "price": 80, "quantity": 1},
	}}
	w := app.do(t, http.MethodPost, "/sales", alice, cart)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode(t, w)["sale"].(map[string]any)
	assert.EqualValues(t, 200, sale["total"])
	path := fmt.Sprintf("/sales/%v", sale["id"])

	w = app.do(t, http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, auth.ReasonNotSaleMaker, errorOf(t, w))

	w = app.do(t, http.MethodGet, "/sales/999", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/sales", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/sales", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["sales"], 1)
}

func TestSaleTotalMustFit(t *testing.T) {
	app := setupApp(t, "")
	owner := app.login(t, ownerEmail)
	alice := app.login(t, aliceEmail)

	cart := gin.H{"cart_items": []gin.H{
		{"name": "gold", "price": math.MaxInt, "quantity": 1},
		{"name": "soap", "price": 1, "quantity": 1},
	}}
	w := app.do(t, http.MethodPost, "/sales", alice, cart)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cart total is too large", errorOf(t, w))

	w = app.do(t, http.MethodGet, "/sales", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["sales"])
}

func TestOwnerCannotRecordSales(t *testing.T) {
	app := setupApp(t, "")
	owner := app.login(t, ownerEmail)

	w := app.do(t, http.MethodPost, "/sales", owner, gin.H{"cart_items": []gin.H{}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, auth.ReasonLoginAttendant, errorOf(t, w))
}

func TestUpdateProduct(t *testing.T) {
	app := setupApp(t, "")
	owner := app.login(t, ownerEmail)

	w := app.do(t, http.MethodPost, "/products", owner, newProduct("rice", 120, 10))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["product"].(map[string]any)["id"]

	w = app.do(t, http.MethodPut, fmt.Sprintf("/products/%v", id), owner, gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := decode(t, w)["product"].(map[string]any)
	assert.EqualValues(t, 4, p["quantity"])
	assert.EqualValues(t, 120, p["unit_cost"])

	before := app.do(t, http.MethodGet, "/products", owner, nil).Body.String()
	for _, path := range []string{"/products/999", "/products/abc"} {
		w = app.do(t, http.MethodPut, path, owner, gin.H{"quantity": 1})
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "Product not found", errorOf(t, w))
	}
	assert.JSONEq(t, before, app.do(t, http.MethodGet, "/products", owner, nil).Body.String())
}

func TestCreateProductValidation(t *testing.T) {
	app := setupApp(t, "")
	owner := app.login(t, ownerEmail)

	w := app.do(t, http.MethodPost, "/products", owner, gin.H{"name": "rice", "unit_cost": "ten", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unit_cost has an invalid type", errorOf(t, w))

	w = app.do(t, http.MethodPost, "/products", owner, gin.H{"name": "rice", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Product price is required", errorOf(t, w))

	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/products", owner, newProduct("rice", 1, 1)).Code)
	w = app.do(t, http.MethodPost, "/products", owner, newProduct("rice", 2, 2))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Product with this name already exists", errorOf(t, w))
}

func TestLoginIsRateLimited(t *testing.T) {
	app := setupApp(t, "3-M")

	for i := 0; i < 3; i++ {
		w := app.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": aliceEmail, "password": "nope"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := app.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": aliceEmail, "password": password})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestBadLoginRateIsRejected(t *testing.T) {
	_, err := NewRouter(&Handler{}, Options{Resolver: auth.NewResolver(nil, nil), LoginRate: "often"})
	assert.Error(t, err)
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupApp(t, "")

	w := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	app.do(t, http.MethodGet, "/sales", "", nil)
	w = app.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `store_authorization_decisions_total{outcome="deny",requirement="owner"} 1`)
	assert.Contains(t, w.Body.String(), "store_http_requests_total")
}

func TestSalesFeed(t *testing.T) {
	app := setupApp(t, "")
	owner := app.login(t, ownerEmail)
	alice := app.login(t, aliceEmail)

	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sales/feed"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {"Bearer " + alice}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {"Bearer " + owner}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return app.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	w := app.do(t, http.MethodPost, "/sales", alice, gin.H{"cart_items": []gin.H{{"name": "rice", "price": 50, "quantity": 1}}})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt struct {
		Type    string            `json:"type"`
		Payload service.SaleEvent `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, events.SaleRecorded, evt.Type)
	assert.Equal(t, aliceEmail, evt.Payload.AttendantEmail)
	assert.Equal(t, 50, evt.Payload.Total)
}
