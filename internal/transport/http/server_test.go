package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/msoohome/storefront/internal/cart"
	"github.com/msoohome/storefront/internal/catalog"
	"github.com/msoohome/storefront/internal/checkout"
	"github.com/msoohome/storefront/internal/credentials"
	"github.com/msoohome/storefront/internal/describe"
	"github.com/msoohome/storefront/internal/service/payment"
	"github.com/msoohome/storefront/internal/session"
	"github.com/msoohome/storefront/internal/storage/memory"
)

type testHarness struct {
	router *gin.Engine

	// cookies accumulated across requests, like a browser would keep them
	cookies map[string]string
	token   string

	t *testing.T
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := log.NewEntry(log.New())

	products := memory.NewProductRepository()
	users := memory.NewUserRepository()
	orders := memory.NewOrderRepository()
	outbox := memory.NewOutboxRepository()
	timeline := memory.NewTimelineRepository()
	idempotency := memory.NewIdempotencyRepository()

	cat := catalog.New(products, logger)
	_, err := cat.LoadOrSeed(t.Context())
	require.NoError(t, err)

	creds := credentials.NewService(users, credentials.Config{
		AdminEmails:      []string{"admin@msoohome.com"},
		AdminSetupSecret: "Acces465#",
	}, logger)

	pipeline := checkout.NewPipelineWithoutMetrics(orders, outbox, timeline, idempotency, payment.NewMock(), logger)
	pipeline.SetConfirmDelay(0)

	srv := NewServer(Deps{
		Catalog:     cat,
		Carts:       cart.NewManager(nil, "msooCart", logger),
		Credentials: creds,
		Gate:        session.NewGate(creds),
		Checkout:    pipeline,
		Orders:      orders,
		Users:       users,
		Timeline:    timeline,
		Describer:   &describe.StaticGenerator{Text: "A fine product."},
		Logger:      logger,
	})

	return &testHarness{
		router:  srv.Router(nil),
		cookies: make(map[string]string),
		t:       t,
	}
}

func (h *testHarness) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	h.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for name, value := range h.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(h.cookies, c.Name)
			continue
		}
		h.cookies[c.Name] = c.Value
	}
	return w
}

func (h *testHarness) decode(w *httptest.ResponseRecorder, v interface{}) {
	h.t.Helper()
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), v))
}

func (h *testHarness) signUp(name, email, password, setupSecret string) {
	h.t.Helper()

	w := h.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"name":        name,
		"email":       email,
		"password":    password,
		"setupSecret": setupSecret,
	}, nil)
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	h.decode(w, &resp)
	h.token = resp.Token
}

func TestListProducts_SeededCatalog(t *testing.T) {
	h := newTestHarness(t)

	w := h.do(http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []productDTO `json:"items"`
	}
	h.decode(w, &resp)
	require.Len(t, resp.Items, 6)
	require.Equal(t, "Luxury Velvet Curtains", resp.Items[0].Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	h := newTestHarness(t)

	w := h.do(http.MethodGet, "/api/products/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartFlow(t *testing.T) {
	h := newTestHarness(t)

	w := h.do(http.MethodGet, "/api/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp cartDTO
	h.decode(w, &resp)
	require.Empty(t, resp.Items)

	w = h.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": "1"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": "1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	h.decode(w, &resp)
	require.Len(t, resp.Items, 1)
	require.Equal(t, 2, resp.Items[0].Quantity)
	require.Equal(t, 2, resp.Count)

	w = h.do(http.MethodPut, "/api/cart/items/1", map[string]int{"quantity": 5}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	h.decode(w, &resp)
	require.Equal(t, 5, resp.Items[0].Quantity)
	require.Equal(t, int64(5*4500), resp.Total)

	w = h.do(http.MethodPut, "/api/cart/items/1", map[string]int{"quantity": 0}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	h.decode(w, &resp)
	require.Empty(t, resp.Items)

	w = h.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": "2"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = h.do(http.MethodDelete, "/api/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	h.decode(w, &resp)
	require.Empty(t, resp.Items)
}

func TestCartAdd_UnknownProduct(t *testing.T) {
	h := newTestHarness(t)

	w := h.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": "nope"}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuth_SignUpAndMe(t *testing.T) {
	h := newTestHarness(t)

	h.signUp("Jane", "jane@example.com", "secret1", "")

	w := h.do(http.MethodGet, "/api/me", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me userDTO
	h.decode(w, &me)
	require.Equal(t, "jane@example.com", me.Email)
	require.Equal(t, "customer", me.Role)
}

func TestAuth_SignInWrongPassword(t *testing.T) {
	h := newTestHarness(t)
	h.signUp("Jane", "jane@example.com", "secret1", "")
	h.token = ""

	w := h.do(http.MethodPost, "/api/auth/signin", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_SignOutInvalidatesSession(t *testing.T) {
	h := newTestHarness(t)
	h.signUp("Jane", "jane@example.com", "secret1", "")

	w := h.do(http.MethodPost, "/api/auth/signout", nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = h.do(http.MethodGet, "/api/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckout_RequiresAuth(t *testing.T) {
	h := newTestHarness(t)

	w := h.do(http.MethodPost, "/api/checkout", map[string]string{
		"deliveryLocation": "Nairobi",
		"phone":            "+254700000001",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckout_FullFlow(t *testing.T) {
	h := newTestHarness(t)
	h.signUp("Jane", "jane@example.com", "secret1", "")

	w := h.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": "1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodPost, "/api/checkout", map[string]string{
		"deliveryLocation": "Nairobi",
		"phone":            "+254700000001",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var attempt attemptDTO
	h.decode(w, &attempt)
	require.Equal(t, "PROMPT", attempt.Stage)
	require.Equal(t, int64(4500), attempt.Total)

	w = h.do(http.MethodPost, "/api/checkout/"+attempt.ID+"/confirm", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	h.decode(w, &attempt)
	require.Equal(t, "SUCCESS", attempt.Stage)
	require.NotEmpty(t, attempt.OrderID)

	// the successful checkout clears the cart
	var cartResp cartDTO
	w = h.do(http.MethodGet, "/api/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	h.decode(w, &cartResp)
	require.Empty(t, cartResp.Items)

	w = h.do(http.MethodGet, "/api/orders", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ordersResp struct {
		Items []orderDTO `json:"items"`
	}
	h.decode(w, &ordersResp)
	require.Len(t, ordersResp.Items, 1)
	require.Equal(t, attempt.OrderID, ordersResp.Items[0].ID)
	require.Equal(t, "Processing", ordersResp.Items[0].Status)
}

func TestCheckout_ValidationErrors(t *testing.T) {
	h := newTestHarness(t)
	h.signUp("Jane", "jane@example.com", "secret1", "")

	// empty cart
	w := h.do(http.MethodPost, "/api/checkout", map[string]string{
		"deliveryLocation": "Nairobi",
		"phone":            "+254700000001",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": "1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// missing delivery location
	w = h.do(http.MethodPost, "/api/checkout", map[string]string{
		"phone": "+254700000001",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_OtherUserCannotConfirm(t *testing.T) {
	h := newTestHarness(t)
	h.signUp("Jane", "jane@example.com", "secret1", "")

	w := h.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": "1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = h.do(http.MethodPost, "/api/checkout", map[string]string{
		"deliveryLocation": "Nairobi",
		"phone":            "+254700000001",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var attempt attemptDTO
	h.decode(w, &attempt)

	h.signUp("Mallory", "mallory@example.com", "secret2", "")
	w = h.do(http.MethodPost, "/api/checkout/"+attempt.ID+"/confirm", nil, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}
