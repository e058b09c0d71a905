package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/config"
	"github.com/d60-Lab/shop-api/internal/api/handler"
	"github.com/d60-Lab/shop-api/internal/cache"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/internal/service"
	"github.com/d60-Lab/shop-api/pkg/database"
	"github.com/d60-Lab/shop-api/pkg/token"
)

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	tokens   *token.Manager
	admin    string
	customer string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			DSN:          ":memory:",
			MaxOpenConns: 1,
			LogLevel:     "silent",
		},
	}
	db, err := database.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	tm := token.NewManager("test-secret", "shop-api", time.Hour)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	h := handler.New(handler.Services{
		Categories: service.NewCategoryService(categoryRepo),
		Products:   service.NewProductService(productRepo, categoryRepo, cache.NopProductCache{}),
		Posts:      service.NewPostService(repository.NewPostRepository(db)),
		Contacts:   service.NewContactService(repository.NewContactRepository(db)),
		Orders: service.NewOrderService(db,
			repository.NewOrderRepository(db),
			repository.NewCustomerRepository(db),
			productRepo,
			repository.NewOutboxRepository(db),
		),
		Counters: service.NewCounterService(counterRepo, nil),
		Auth:     service.NewAuthService(repository.NewUserRepository(db), tm, cache.NewMemoryCodeStore(time.Minute), nil),
	})

	admin, _, err := tm.Issue("admin-1", "admin@example.com", model.RoleAdmin)
	require.NoError(t, err)
	customer, _, err := tm.Issue("user-1", "user@example.com", model.RoleCustomer)
	require.NoError(t, err)

	return &testServer{router: NewRouter(cfg, h, tm), db: db, tokens: tm, admin: admin, customer: customer}
}

func (s *testServer) do(t *testing.T, method, path, tok string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func (s *testServer) seedProduct(t *testing.T, code string, regular, sale int64) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:         "Product " + code,
		Code:         code,
		Slug:         strings.ToLower("product-" + code),
		RegularPrice: model.MoneyFromInt(regular),
		SalePrice:    model.MoneyFromInt(sale),
		Currency:     model.DefaultCurrency,
		IsActive:     true,
	}
	require.NoError(t, repository.NewProductRepository(s.db).Create(context.Background(), p))
	return p
}

func TestHealthAndRequestID(t *testing.T) {
	s := setupServer(t)
	w, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["data"].(map[string]any)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCreateOrderEndpoint(t *testing.T) {
	s := setupServer(t)
	p := s.seedProduct(t, "TS1", 200, 150)

	req := map[string]any{
		"customer": map[string]any{"full_name": "Jane Doe", "email": "jane@example.com"},
		"items":    []map[string]any{{"product_id": p.ID, "quantity": 2, "selected_size": "M"}},
	}

	w, body := s.do(t, http.MethodPost, "/api/orders", "", req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", body["error_code"])

	w, body = s.do(t, http.MethodPost, "/api/orders", s.customer, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, http.StatusCreated, body["code"])

	data := body["data"].(map[string]any)
	assert.True(t, strings.HasPrefix(data["order_code"].(string), "OD"))
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "COD", data["payment_method"])
	assert.Equal(t, "VND", data["currency"])
	assert.EqualValues(t, 2, data["total_items"])
	assert.Equal(t, "400.00", data["subtotal_amount"])
	assert.Equal(t, "100.00", data["discount_amount"])
	assert.Equal(t, "300.00", data["total_amount"])
	assert.Equal(t, "Jane Doe", data["customer"].(map[string]any)["full_name"])

	items := data["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "200.00", item["unit_price"])
	assert.Equal(t, "50.00", item["unit_discount_value"])
	assert.Equal(t, "150.00", item["unit_discounted_price"])
	assert.Equal(t, "M", item["selected_size"])

	var events int64
	require.NoError(t, s.db.Model(&model.Outbox{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestCreateOrderValidation(t *testing.T) {
	s := setupServer(t)

	w, body := s.do(t, http.MethodPost, "/api/orders", s.customer, map[string]any{
		"customer": map[string]any{"full_name": "Jane"},
		"items":    []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	assert.EqualValues(t, http.StatusBadRequest, body["status"])
	assert.NotEmpty(t, body["option"])

	w, body = s.do(t, http.MethodPost, "/api/orders", s.customer, map[string]any{
		"customer": map[string]any{"full_name": "Jane"},
		"items":    []map[string]any{{"product_id": "missing"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ORDER_PRODUCT_NOT_FOUND", body["error_code"])
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := setupServer(t)

	w, body := s.do(t, http.MethodGet, "/api/orders", s.customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["error_code"])

	w, _ = s.do(t, http.MethodGet, "/api/orders", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/orders", s.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["rows"])
	assert.EqualValues(t, 0, body["pagination"].(map[string]any)["count"])

	w, body = s.do(t, http.MethodPost, "/api/categories", s.customer, map[string]any{"name": "Shoes"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["error_code"])
}

func TestOrderStatusEndpoint(t *testing.T) {
	s := setupServer(t)
	p := s.seedProduct(t, "TS2", 100, 0)
	_, created := s.do(t, http.MethodPost, "/api/orders", s.customer, map[string]any{
		"customer": map[string]any{"full_name": "Bob", "phone": "0900000000"},
		"items":    []map[string]any{{"product_id": p.ID}},
	})
	id := created["data"].(map[string]any)["id"].(string)

	w, body := s.do(t, http.MethodPatch, "/api/orders/"+id+"/status", s.admin, map[string]any{"status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])

	w, body = s.do(t, http.MethodPatch, "/api/orders/missing/status", s.admin, map[string]any{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", body["error_code"])

	w, body = s.do(t, http.MethodPatch, "/api/orders/"+id+"/status", s.admin, map[string]any{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "CONFIRMED", body["data"].(map[string]any)["status"])

	w, body = s.do(t, http.MethodGet, "/api/orders/search?phone=0900000000", s.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["rows"], 1)

	w, body = s.do(t, http.MethodGet, "/api/orders/search", s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
}

func TestCategoryEndpoints(t *testing.T) {
	s := setupServer(t)

	ids := make([]string, 0, 3)
	for _, name := range []string{"Shoes", "Shirts", "Hats"} {
		w, body := s.do(t, http.MethodPost, "/api/categories", s.admin, map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := body["data"].(map[string]any)
		assert.Equal(t, strings.ToLower(name), data["slug"])
		ids = append(ids, data["id"].(string))
	}

	w, body := s.do(t, http.MethodPut, "/api/categories/"+ids[0], s.admin, map[string]any{"parent_id": ids[0]})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CATEGORY_PARENT_INVALID", body["error_code"])

	w, body = s.do(t, http.MethodPut, "/api/categories/"+ids[1], s.admin, map[string]any{"parent_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PARENT_CATEGORY_NOT_FOUND", body["error_code"])

	w, body = s.do(t, http.MethodGet, "/api/categories?per_page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["rows"], 2)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 2, pagination["total_page"])
	assert.EqualValues(t, 2, pagination["per_page"])
	assert.EqualValues(t, 1, pagination["current_page"])
	assert.EqualValues(t, 3, pagination["count"])

	w, body = s.do(t, http.MethodGet, "/api/categories/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", body["error_code"])
}

func TestCounterEndpoints(t *testing.T) {
	s := setupServer(t)
	for i := 0; i < 2; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/system/counter", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, body := s.do(t, http.MethodGet, "/api/system/counter", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, model.DefaultCounterName, data["name"])
	assert.EqualValues(t, 2, data["today"])
	assert.EqualValues(t, 2, data["total"])
}

func TestAuthFlow(t *testing.T) {
	s := setupServer(t)
	creds := map[string]any{"email": "new@example.com", "password": "s3cret-pass"}

	w, _ := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "s3cret-pass")

	w, body := s.do(t, http.MethodPost, "/api/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USER_EMAIL_EXISTS", body["error_code"])

	w, body = s.do(t, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tok := body["data"].(map[string]any)["access_token"].(string)

	w, body = s.do(t, http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new@example.com", body["data"].(map[string]any)["email"])

	w, body = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "new@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", body["error_code"])
}
