package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"ecohaat/internal/app"
	"ecohaat/internal/config"
	"ecohaat/internal/database"
	"ecohaat/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@ecohaat.test"
	adminPassword = "admin-secret"
)

// recordingPublisher keeps the routing keys of published events.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	publisher *recordingPublisher
}

// setupApp builds the full application on a private in-memory SQLite database.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		JWTSecret:     "test_jwt_secret",
		TokenTTL:      time.Hour,
		CORSOrigins:   "*",
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		AdminName:     "Admin",
	}

	db, err := database.Open(database.DriverSQLite, "file:"+uuid.New().String()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, app.SeedAdmin(context.Background(), cfg, db))

	publisher := &recordingPublisher{}
	return &testEnv{app: app.New(cfg, db, publisher), db: db, publisher: publisher}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// do sends a JSON request and decodes the response body into out when out is not nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "%s %s", method, path)
	}
	return resp.StatusCode
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	var loginResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	status := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password}, &loginResp)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "bearer", loginResp.TokenType)
	require.NotEmpty(t, loginResp.AccessToken)
	return loginResp.AccessToken
}

func (e *testEnv) signUp(t *testing.T, email string, role models.Role) string {
	t.Helper()
	status := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":     email,
		"password":  "password123",
		"full_name": "User " + email,
		"role":      string(role),
	}, nil)
	require.Equal(t, http.StatusCreated, status)
	return e.login(t, email, "password123")
}

type marketplace struct {
	admin, seller, buyer string
	productA, productB   models.Product
}

// openMarketplace registers a seller and a buyer and lists two approved
// products: A at 10.0 with 5 in stock and B at 4.5 with 10 in stock.
func (e *testEnv) openMarketplace(t *testing.T) *marketplace {
	t.Helper()
	m := &marketplace{
		admin:  e.login(t, adminEmail, adminPassword),
		seller: e.signUp(t, "seller@ecohaat.test", models.RoleSeller),
		buyer:  e.signUp(t, "buyer@ecohaat.test", models.RoleBuyer),
	}

	var category models.Category
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/admin/categories", m.admin, map[string]string{"name": "Personal Care"}, &category))

	create := func(name string, price float64, stock int, material string) models.Product {
		var p models.Product
		status := e.do(t, http.MethodPost, "/products", m.seller, map[string]interface{}{
			"name":           name,
			"price":          price,
			"stock_quantity": stock,
			"material":       material,
			"category_id":    category.ID,
		}, &p)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, models.ProductPending, p.Status)
		require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, fmt.Sprintf("/admin/products/%d/approve", p.ID), m.admin, map[string]int{"eco_rating": 80}, nil))
		return p
	}
	m.productA = create("Bamboo Toothbrush", 10.0, 5, "Bamboo")
	m.productB = create("Jute Bag", 4.5, 10, "Jute")
	return m
}

func (e *testEnv) stockOf(t *testing.T, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, e.db.First(&p, id).Error)
	return p.StockQuantity
}

func (e *testEnv) fillCart(t *testing.T, m *marketplace) {
	t.Helper()
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/cart", m.buyer, map[string]interface{}{"product_id": m.productA.ID, "quantity": 2}, nil))
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/cart", m.buyer, map[string]interface{}{"product_id": m.productB.ID}, nil))
}

func TestHealthAndRoot(t *testing.T) {
	env := setupApp(t)

	var health map[string]interface{}
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "connected", health["database"])

	var root map[string]interface{}
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/", "", nil, &root))
	assert.Equal(t, app.Version, root["version"])
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env := setupApp(t)

	// Role defaults to buyer
	var registered struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
	status := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":     "test@example.com",
		"password":  "password123",
		"full_name": "Test User",
	}, &registered)
	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, registered.Success)
	assert.Equal(t, models.RoleBuyer, registered.User.Role)
	assert.Empty(t, registered.User.Password)

	// Duplicate email
	status = env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":     "test@example.com",
		"password":  "password123",
		"full_name": "Again",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Admin accounts cannot be self-registered
	status = env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":     "root@example.com",
		"password":  "password123",
		"full_name": "Root",
		"role":      "admin",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Validation failure
	var invalid map[string]interface{}
	status = env.do(t, http.MethodPost, "/auth/register", "", map[string]string{"email": "not-an-email", "password": "123"}, &invalid)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", invalid["message"])

	// Wrong password
	status = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "test@example.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := env.login(t, "test@example.com", "password123")

	var me models.User
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/auth/me", token, nil, &me))
	assert.Equal(t, "test@example.com", me.Email)

	var updated models.User
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/auth/me", token, map[string]string{"address": "12 Green Lane"}, &updated))
	require.NotNil(t, updated.Address)
	assert.Equal(t, "12 Green Lane", *updated.Address)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/auth/logout", token, nil, nil))
}

func TestAuthRequired(t *testing.T) {
	env := setupApp(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/auth/me", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/auth/me", "garbage", nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleGating(t *testing.T) {
	env := setupApp(t)
	m := env.openMarketplace(t)

	// Browsing is public
	var products []models.ProductDetails
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/products", "", nil, &products))
	assert.Len(t, products, 2)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/cart", "", nil, nil))
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/cart", m.seller, nil, nil))
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/orders", m.seller, map[string]string{"shipping_address": "x"}, nil))
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/products", m.buyer, map[string]interface{}{"name": "x"}, nil))
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/admin/stats", m.buyer, nil, nil))
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/orders/admin/all", m.seller, nil, nil))
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/orders/seller/my-orders", m.buyer, nil, nil))

	var categories []models.Category
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/admin/categories", "", nil, &categories))
	assert.Len(t, categories, 1)
}

func TestCatalogAndModeration(t *testing.T) {
	env := setupApp(t)
	m := env.openMarketplace(t)

	// A new listing is invisible until approved
	var pending models.Product
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/products", m.seller, map[string]interface{}{
		"name":        "Hemp Rope",
		"price":       3.0,
		"material":    "Hemp",
		"category_id": m.productA.CategoryID,
	}, &pending))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/cart", m.buyer, map[string]interface{}{"product_id": pending.ID}, nil))

	var queue []models.ProductDetails
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/admin/products/pending", m.admin, nil, &queue))
	require.Len(t, queue, 1)
	assert.Equal(t, pending.ID, queue[0].ID)

	// Rejection, then an edit sends it back to review
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, fmt.Sprintf("/admin/products/%d/reject", pending.ID), m.admin, map[string]string{}, nil))
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, fmt.Sprintf("/admin/products/%d/reject", pending.ID), m.admin, map[string]string{"rejection_reason": "Needs photos"}, nil))

	var mine []models.Product
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/products/seller/my-products?status_filter=rejected", m.seller, nil, &mine))
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].RejectionReason)
	assert.Equal(t, "Needs photos", *mine[0].RejectionReason)

	var edited models.Product
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/products/%d", pending.ID), m.seller, map[string]interface{}{"price": 3.5}, &edited))
	assert.Equal(t, models.ProductPending, edited.Status)
	assert.Nil(t, edited.RejectionReason)

	// Catalog filters
	var filtered []models.ProductDetails
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/products?material=bamboo", "", nil, &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, m.productA.ID, filtered[0].ID)
	require.NotNil(t, filtered[0].SellerName)
	require.NotNil(t, filtered[0].CategoryName)
	assert.Equal(t, "Personal Care", *filtered[0].CategoryName)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/products?search=JUTE&page=1&page_size=1", "", nil, &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, m.productB.ID, filtered[0].ID)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/products?page_size=100", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/products?min_eco_rating=101", "", nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/products/999", "", nil, nil))

	// Eco rating out of range
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d/eco-rating", m.productA.ID), m.admin, map[string]int{"eco_rating": 150}, nil))
	var rerated models.Product
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d/eco-rating", m.productA.ID), m.admin, map[string]int{"eco_rating": 95}, &rerated))
	require.NotNil(t, rerated.EcoRating)
	assert.Equal(t, 95, *rerated.EcoRating)

	// Categories in use cannot be deleted
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", m.productA.CategoryID), m.admin, nil, nil))

	// Sellers cannot touch other sellers' products
	other := env.signUp(t, "other@ecohaat.test", models.RoleSeller)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, fmt.Sprintf("/products/%d", m.productA.ID), other, map[string]interface{}{"price": 1.0}, nil))
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, fmt.Sprintf("/products/%d", m.productA.ID), other, nil, nil))
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, fmt.Sprintf("/products/%d", pending.ID), m.admin, nil, nil))

	assert.Contains(t, env.publisher.published(), models.EventProductApproved)
	assert.Contains(t, env.publisher.published(), models.EventProductRejected)
}

func TestCartOperations(t *testing.T) {
	env := setupApp(t)
	m := env.openMarketplace(t)

	env.fillCart(t, m)
	// Adding the same product merges lines
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/cart", m.buyer, map[string]interface{}{"product_id": m.productA.ID, "quantity": 1}, nil))

	var cart []models.CartItem
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/cart", m.buyer, nil, &cart))
	require.Len(t, cart, 2)
	assert.Equal(t, 3, cart[0].Quantity)
	require.NotNil(t, cart[0].Product)
	assert.Equal(t, "Bamboo Toothbrush", cart[0].Product.Name)

	var count struct {
		Count int `json:"count"`
	}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/cart/count", m.buyer, nil, &count))
	assert.Equal(t, 4, count.Count)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, fmt.Sprintf("/cart/%d", cart[0].ID), m.buyer, map[string]int{"quantity": 6}, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, fmt.Sprintf("/cart/%d", cart[0].ID), m.buyer, map[string]int{"quantity": 0}, nil))
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/cart/%d", cart[0].ID), m.buyer, map[string]int{"quantity": 1}, nil))

	// Another buyer's line is off limits
	other := env.signUp(t, "other@ecohaat.test", models.RoleBuyer)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, fmt.Sprintf("/cart/%d", cart[0].ID), other, nil, nil))

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, fmt.Sprintf("/cart/%d", cart[0].ID), m.buyer, nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, fmt.Sprintf("/cart/%d", cart[0].ID), m.buyer, nil, nil))
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/cart", m.buyer, nil, nil))
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/cart/count", m.buyer, nil, &count))
	assert.Zero(t, count.Count)
}

func TestPlaceOrder(t *testing.T) {
	env := setupApp(t)
	m := env.openMarketplace(t)
	env.fillCart(t, m)

	var order models.Order
	status := env.do(t, http.MethodPost, "/orders", m.buyer, map[string]string{"shipping_address": "12 Green Lane, Dhaka"}, &order)

	require.Equal(t, http.StatusCreated, status)
	assert.NotZero(t, order.ID)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.InDelta(t, 24.5, order.TotalAmount, 1e-9)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 10.0, order.Items[0].PriceAtPurchase)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 4.5, order.Items[1].PriceAtPurchase)
	assert.Equal(t, 1, order.Items[1].Quantity)

	assert.Equal(t, 3, env.stockOf(t, m.productA.ID))
	assert.Equal(t, 9, env.stockOf(t, m.productB.ID))
	var cart []models.CartItem
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/cart", m.buyer, nil, &cart))
	assert.Empty(t, cart)
	assert.Contains(t, env.publisher.published(), models.EventOrderCreated)

	// Later price changes do not touch the snapshot
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/products/%d", m.productA.ID), m.seller, map[string]interface{}{"price": 99.0}, nil))
	var fetched models.Order
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), m.buyer, nil, &fetched))
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, 10.0, fetched.Items[0].PriceAtPurchase)
	assert.InDelta(t, 24.5, fetched.TotalAmount, 1e-9)

	// Visibility
	other := env.signUp(t, "other@ecohaat.test", models.RoleBuyer)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), other, nil, nil))
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), m.admin, nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/orders/999", m.buyer, nil, nil))

	var mine []models.Order
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/orders", m.buyer, nil, &mine))
	assert.Len(t, mine, 1)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/orders", other, nil, &mine))
	assert.Empty(t, mine)

	var sellerOrders []models.Order
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/orders/seller/my-orders", m.seller, nil, &sellerOrders))
	require.Len(t, sellerOrders, 1)
	assert.Len(t, sellerOrders[0].Items, 2)

	// Status updates, by body or by query
	var updated models.Order
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/orders/%d/status", order.ID), m.admin, map[string]string{"status": "shipped"}, &updated))
	assert.Equal(t, models.OrderShipped, updated.Status)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/orders/%d/status?new_status=delivered", order.ID), m.admin, nil, &updated))
	assert.Equal(t, models.OrderDelivered, updated.Status)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, fmt.Sprintf("/orders/%d/status", order.ID), m.admin, map[string]string{"status": "lost"}, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, fmt.Sprintf("/orders/%d/status", order.ID), m.admin, nil, nil))
	assert.Contains(t, env.publisher.published(), models.EventOrderStatusUpdated)

	var all []models.Order
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/orders/admin/all?status_filter=delivered", m.admin, nil, &all))
	assert.Len(t, all, 1)

	var stats map[string]int
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/admin/stats", m.admin, nil, &stats))
	assert.Equal(t, 1, stats["total_orders"])
	assert.Equal(t, 1, stats["total_sellers"])
	assert.Equal(t, 2, stats["total_buyers"])
	assert.Equal(t, 2, stats["approved_products"])
}

func TestPlaceOrder_LastUnitOfStock(t *testing.T) {
	env := setupApp(t)
	m := env.openMarketplace(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/products/%d", m.productB.ID), m.seller, map[string]interface{}{"stock_quantity": 1}, nil))
	env.fillCart(t, m)

	var order models.Order
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/orders", m.buyer, map[string]string{"shipping_address": "12 Green Lane"}, &order))
	assert.InDelta(t, 24.5, order.TotalAmount, 1e-9)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 3, env.stockOf(t, m.productA.ID))
	assert.Equal(t, 0, env.stockOf(t, m.productB.ID))

	// B is gone, so the next buyer cannot take it
	late := env.signUp(t, "late@ecohaat.test", models.RoleBuyer)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/cart", late, map[string]interface{}{"product_id": m.productB.ID}, nil))
	assert.Equal(t, 0, env.stockOf(t, m.productB.ID))
}

func TestPaginationBounds(t *testing.T) {
	env := setupApp(t)
	m := env.openMarketplace(t)

	var products []models.ProductDetails
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/products?page=2&page_size=1", "", nil, &products))
	assert.Len(t, products, 1)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/products?page=3&page_size=1", "", nil, &products))
	assert.Empty(t, products)

	for _, page := range []string{"0", "-1", "abc", "42949673", "9223372036854775807"} {
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/products?page="+page, "", nil, nil), "page %s", page)
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/orders/admin/all?page="+page, m.admin, nil, nil), "page %s", page)
	}
}

func TestPlaceOrder_InsufficientStockChangesNothing(t *testing.T) {
	env := setupApp(t)
	m := env.openMarketplace(t)
	env.fillCart(t, m)

	// B sells out after it was put in the cart
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/products/%d", m.productB.ID), m.seller, map[string]interface{}{"stock_quantity": 0}, nil))

	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Product struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"product"`
	}
	status := env.do(t, http.MethodPost, "/orders", m.buyer, map[string]string{"shipping_address": "12 Green Lane"}, &errResp)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, errResp.Error, "insufficient stock")
	assert.Contains(t, errResp.Error, "Jute Bag")
	assert.Equal(t, m.productB.ID, errResp.Product.ID)
	assert.Equal(t, "Jute Bag", errResp.Product.Name)

	assert.Equal(t, 5, env.stockOf(t, m.productA.ID))
	var cart []models.CartItem
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/cart", m.buyer, nil, &cart))
	assert.Len(t, cart, 2)
	var orders []models.Order
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/orders", m.buyer, nil, &orders))
	assert.Empty(t, orders)
	assert.NotContains(t, env.publisher.published(), models.EventOrderCreated)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	env := setupApp(t)
	m := env.openMarketplace(t)

	var errResp map[string]interface{}
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/orders", m.buyer, map[string]string{"shipping_address": "12 Green Lane"}, &errResp))
	assert.Equal(t, "cart is empty", errResp["error"])

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/orders", m.buyer, map[string]string{}, &errResp))
	assert.Equal(t, "Validation failed", errResp["message"])

	// A product sent back to moderation can no longer be bought
	env.fillCart(t, m)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, fmt.Sprintf("/admin/products/%d/reject", m.productA.ID), m.admin, map[string]string{"rejection_reason": "Unverified claims"}, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/orders", m.buyer, map[string]string{"shipping_address": "12 Green Lane"}, &errResp))
	assert.Contains(t, errResp["error"], "Bamboo Toothbrush")
	assert.Equal(t, 10, env.stockOf(t, m.productB.ID))
}
