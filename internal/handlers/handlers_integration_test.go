package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"apotek/internal/handlers"
	"apotek/internal/middleware"
	"apotek/internal/models"
	"apotek/internal/repositories"
	"apotek/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv bundles the Fiber app with the in-memory stores so tests can
// inspect state the API does not expose directly.
type testEnv struct {
	app       *fiber.App
	medicines *repositories.MockMedicineRepository
	orders    *repositories.MockOrderRepository
	auth      *services.AuthService
}

// setupApp sets up a Fiber app for testing: in-memory SQLite for accounts so
// the real register/login flow issues real tokens, and in-memory mock
// repositories for the domain stores.
func setupApp() (*testEnv, error) {
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	medicineRepo := repositories.NewMockMedicineRepository()
	cartRepo := repositories.NewMockCartRepository()
	orderRepo := repositories.NewMockOrderRepository()
	reservationRepo := repositories.NewMockReservationRepository(orderRepo, medicineRepo)

	authService := services.NewAuthService(userRepo, jwtSecret)
	medicineService := services.NewMedicineService(medicineRepo)
	cartService := services.NewCartService(cartRepo, medicineRepo, services.DuplicateIgnore)
	orderService := services.NewOrderService(orderRepo, cartRepo, reservationRepo, nil) // nil for RabbitMQ client

	authHandler := handlers.NewAuthHandler(authService)
	medicineHandler := handlers.NewMedicineHandler(medicineService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, cartService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)

	authRequired := middleware.AuthRequired(authService)
	medicineHandler.RegisterRoutes(apiV1, authRequired)
	cartHandler.RegisterRoutes(apiV1, authRequired)
	orderHandler.RegisterRoutes(apiV1, authRequired)

	return &testEnv{
		app:       app,
		medicines: medicineRepo,
		orders:    orderRepo,
		auth:      authService,
	}, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(ioutil.Discard)
	code := m.Run()
	os.Exit(code)
}

// doJSON performs a request against the app, JSON-encoding body when present
// and attaching the bearer token when non-empty.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

// registerAndLogin creates an account through the public auth endpoints and
// returns a usable bearer token. Usernames must be unique per test because the
// shared-cache SQLite database survives between setupApp calls.
func registerAndLogin(t *testing.T, app *fiber.App, username string, role models.Role) string {
	t.Helper()

	registration := map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}
	if role != "" {
		registration["role"] = string(role)
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", registration)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// createMedicine adds a catalog entry through the company-facing endpoint.
func createMedicine(t *testing.T, app *fiber.App, companyToken, name string, price float64, stock int) models.Medicine {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/medicines", companyToken, map[string]interface{}{
		"name":        name,
		"description": "For testing purposes",
		"price":       price,
		"stock":       stock,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Medicine
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	return created
}

// checkoutInfo is a valid customer snapshot reused across order tests.
func checkoutInfo() map[string]string {
	return map[string]string{
		"display_name": "Rahim Uddin",
		"phone_number": "01712345678",
		"address":      "House 7, Road 2, Dhanmondi, Dhaka",
		"email":        "rahim@example.com",
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	registration := map[string]string{
		"username": "authflow",
		"email":    "authflow@example.com",
		"password": "password123",
	}
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", "", registration)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registerResp map[string]interface{}
	decodeBody(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])

	// Duplicate username
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", "", registration)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Admin accounts cannot be self-registered.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "wannabe_admin",
		"email":    "wannabe@example.com",
		"password": "password123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Login and check the claims the token carries.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "authflow",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])

	claims, err := env.auth.ValidateToken(loginResp["token"])
	assert.NoError(t, err)
	assert.Equal(t, "authflow", claims["username"])
	assert.Equal(t, "customer", claims["role"])
}

func TestOrderEndpointsRequireAuth(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestSubmitOrderBuyNow(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	companyToken := registerAndLogin(t, env.app, "pharma_buy_now", models.RoleCompany)
	customerToken := registerAndLogin(t, env.app, "buyer_buy_now", models.RoleCustomer)
	otherToken := registerAndLogin(t, env.app, "bystander_buy_now", models.RoleCustomer)

	medicine := createMedicine(t, env.app, companyToken, "Aspirin", 10.0, 5)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"medicine_id": medicine.ID, "name": medicine.Name, "quantity": 2, "price": medicine.Price},
		},
		"payment_method": "cash",
		"customer_info":  checkoutInfo(),
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed models.Order
	decodeBody(t, resp, &placed)
	assert.NotEmpty(t, placed.ID)
	assert.Contains(t, placed.InvoiceNumber, "INV-")
	assert.Equal(t, models.OrderStatusProcessing, placed.Status)
	assert.Equal(t, 20.0, placed.Total)

	// Stock was decremented by the reservation.
	stored, err := env.medicines.GetByID(medicine.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, stored.Stock)

	// The owner sees the order in their history and by ID.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders", customerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var myOrders []models.Order
	decodeBody(t, resp, &myOrders)
	assert.Len(t, myOrders, 1)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/"+placed.ID, customerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Another customer must not see it, not even its existence.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/"+placed.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// An operator sees it both by ID and in the full listing.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/"+placed.ID, companyToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/all", companyToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var allOrders []models.Order
	decodeBody(t, resp, &allOrders)
	assert.Len(t, allOrders, 1)

	// The full listing is operator-only.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders/all", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestSubmitOrderFromCart(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	companyToken := registerAndLogin(t, env.app, "pharma_cart", models.RoleCompany)
	customerToken := registerAndLogin(t, env.app, "buyer_cart", models.RoleCustomer)

	medicine := createMedicine(t, env.app, companyToken, "Napa Extra", 3.5, 10)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/cart", customerToken, map[string]interface{}{
		"medicine_id": medicine.ID,
		"quantity":    4,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var line models.CartLine
	decodeBody(t, resp, &line)
	assert.Equal(t, "Napa Extra", line.Name)
	assert.Equal(t, 4, line.Quantity)

	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"from_cart":      true,
		"payment_method": "cash",
		"customer_info":  checkoutInfo(),
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed models.Order
	decodeBody(t, resp, &placed)
	assert.Equal(t, models.OrderStatusProcessing, placed.Status)
	assert.Equal(t, 14.0, placed.Total)

	stored, err := env.medicines.GetByID(medicine.ID)
	assert.NoError(t, err)
	assert.Equal(t, 6, stored.Stock)

	// The consumed cart lines are gone.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/cart", customerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var lines []models.CartLine
	decodeBody(t, resp, &lines)
	assert.Empty(t, lines)
}

func TestSubmitOrderInsufficientStock(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	companyToken := registerAndLogin(t, env.app, "pharma_short", models.RoleCompany)
	customerToken := registerAndLogin(t, env.app, "buyer_short", models.RoleCustomer)

	medicine := createMedicine(t, env.app, companyToken, "Seclo", 7.0, 1)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"medicine_id": medicine.ID, "name": medicine.Name, "quantity": 2, "price": medicine.Price},
		},
		"payment_method": "cash",
		"customer_info":  checkoutInfo(),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Nothing was persisted and the stock is untouched.
	stored, err := env.medicines.GetByID(medicine.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, stored.Stock)

	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/orders", customerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var myOrders []models.Order
	decodeBody(t, resp, &myOrders)
	assert.Empty(t, myOrders)
}

func TestSubmitOrderValidationFailures(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	companyToken := registerAndLogin(t, env.app, "pharma_invalid", models.RoleCompany)
	customerToken := registerAndLogin(t, env.app, "buyer_invalid", models.RoleCustomer)

	medicine := createMedicine(t, env.app, companyToken, "Alatrol", 2.5, 10)

	// No items at all.
	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"payment_method": "cash",
		"customer_info":  checkoutInfo(),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Bad phone number.
	badInfo := checkoutInfo()
	badInfo["phone_number"] = "12345"
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"medicine_id": medicine.ID, "name": medicine.Name, "quantity": 1, "price": medicine.Price},
		},
		"payment_method": "cash",
		"customer_info":  badInfo,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Mobile payment without a wallet.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"medicine_id": medicine.ID, "name": medicine.Name, "quantity": 1, "price": medicine.Price},
		},
		"payment_method": "mobile",
		"customer_info":  checkoutInfo(),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	stored, err := env.medicines.GetByID(medicine.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, stored.Stock)
}

func TestCancelAndStatusTransitions(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	companyToken := registerAndLogin(t, env.app, "pharma_status", models.RoleCompany)
	customerToken := registerAndLogin(t, env.app, "buyer_status", models.RoleCustomer)

	medicine := createMedicine(t, env.app, companyToken, "Monas", 9.0, 10)

	resp := doJSON(t, env.app, http.MethodPost, "/api/v1/orders", customerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"medicine_id": medicine.ID, "name": medicine.Name, "quantity": 1, "price": medicine.Price},
		},
		"payment_method": "cash",
		"customer_info":  checkoutInfo(),
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed models.Order
	decodeBody(t, resp, &placed)
	assert.Equal(t, models.OrderStatusProcessing, placed.Status)

	// The customer window closed when the stock was reserved.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/orders/"+placed.ID+"/cancel", customerToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Status changes are operator-only.
	resp = doJSON(t, env.app, http.MethodPatch, "/api/v1/orders/"+placed.ID+"/status", customerToken, map[string]string{
		"status": "shipped",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPatch, "/api/v1/orders/"+placed.ID+"/status", companyToken, map[string]string{
		"status": "shipped",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	stored, err := env.orders.GetByID(placed.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)

	// An unknown status is rejected.
	resp = doJSON(t, env.app, http.MethodPatch, "/api/v1/orders/"+placed.ID+"/status", companyToken, map[string]string{
		"status": "teleported",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestMedicineOwnership(t *testing.T) {
	env, err := setupApp()
	assert.NoError(t, err)

	ownerToken := registerAndLogin(t, env.app, "pharma_owner", models.RoleCompany)
	rivalToken := registerAndLogin(t, env.app, "pharma_rival", models.RoleCompany)
	customerToken := registerAndLogin(t, env.app, "buyer_owner", models.RoleCustomer)

	medicine := createMedicine(t, env.app, ownerToken, "Fexo", 8.0, 30)

	// The catalog is public.
	resp := doJSON(t, env.app, http.MethodGet, "/api/v1/medicines", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var catalog []models.Medicine
	decodeBody(t, resp, &catalog)
	assert.Len(t, catalog, 1)

	// Customers cannot create medicines.
	resp = doJSON(t, env.app, http.MethodPost, "/api/v1/medicines", customerToken, map[string]interface{}{
		"name": "Bootleg", "price": 1.0, "stock": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Another company cannot edit or delete someone else's medicine.
	resp = doJSON(t, env.app, http.MethodPut, "/api/v1/medicines/"+medicine.ID, rivalToken, map[string]interface{}{
		"name": "Fexo 120", "price": 9.0, "stock": 30,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodDelete, "/api/v1/medicines/"+medicine.ID, rivalToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The owner can.
	resp = doJSON(t, env.app, http.MethodPut, "/api/v1/medicines/"+medicine.ID, ownerToken, map[string]interface{}{
		"name": "Fexo 120", "price": 9.0, "stock": 25,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Medicine
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Fexo 120", updated.Name)
	assert.Equal(t, medicine.CompanyID, updated.CompanyID)

	// The owner's inventory view only lists their own stock.
	resp = doJSON(t, env.app, http.MethodGet, "/api/v1/inventory", rivalToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rivalInventory []models.Medicine
	decodeBody(t, resp, &rivalInventory)
	assert.Empty(t, rivalInventory)

	resp = doJSON(t, env.app, http.MethodDelete, "/api/v1/medicines/"+medicine.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
