package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agrimarket-dev/agrimarket/db"
	"github.com/agrimarket-dev/agrimarket/internal/middleware"
	"github.com/agrimarket-dev/agrimarket/internal/models"
	"github.com/agrimarket-dev/agrimarket/internal/types"
)

type marketFixture struct {
	gdb      *gorm.DB
	customer models.User
	grower   models.User
	farm     models.FarmerProfile
	product  models.Product
}

func setupMarket(t *testing.T) *marketFixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{}, &models.FarmerProfile{}, &models.Product{},
		&models.Order{}, &models.OrderItem{}, &models.ProductReview{},
		&models.Notification{}, &models.Event{},
	))

	db.DB = gdb
	InitStores()

	f := &marketFixture{gdb: gdb}

	f.customer = models.User{Name: "Cara", Email: "cara@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&f.customer).Error)

	f.grower = models.User{Name: "Greta", Email: "greta@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&f.grower).Error)

	f.farm = models.FarmerProfile{UserID: f.grower.ID, FarmName: "Greenfield", Location: "Valley"}
	require.NoError(t, gdb.Create(&f.farm).Error)

	harvest := datatypes.Date(time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC))
	expiry := datatypes.Date(time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))

	f.product = models.Product{
		FarmerID:    f.farm.ID,
		Name:        "Tomatoes",
		Description: "Vine ripened",
		Price:       2.50,
		Category:    models.CategoryVegetables,
		Quantity:    5,
		HarvestDate: harvest,
		ExpiryDate:  expiry,
	}
	require.NoError(t, gdb.Create(&f.product).Error)

	return f
}

func invokeAs(t *testing.T, user models.User, handler gin.HandlerFunc, method, path string, body any, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	ctx.Request = httptest.NewRequest(method, path, bytes.NewReader(payload))
	ctx.Request.Header.Set("Content-Type", "application/json")
	ctx.Params = params
	ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{ID: user.ID, Name: user.Name, Email: user.Email})

	handler(ctx)

	return w
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	f := setupMarket(t)

	body := CreateOrderRequest{Items: []OrderItemRequest{{ProductID: 999, Quantity: 1}}}
	w := invokeAs(t, f.customer, CreateOrder, http.MethodPost, "/api/orders", body, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	f := setupMarket(t)

	body := CreateOrderRequest{Items: []OrderItemRequest{{ProductID: f.product.ID, Quantity: 10}}}
	w := invokeAs(t, f.customer, CreateOrder, http.MethodPost, "/api/orders", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")
}

func TestCreateOrderInfrastructureFailure(t *testing.T) {
	f := setupMarket(t)

	// A broken schema is not the caller's fault.
	require.NoError(t, f.gdb.Migrator().DropTable(&models.OrderItem{}))

	body := CreateOrderRequest{Items: []OrderItemRequest{{ProductID: f.product.ID, Quantity: 1}}}
	w := invokeAs(t, f.customer, CreateOrder, http.MethodPost, "/api/orders", body, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateOrderDecrementsStockAndNotifies(t *testing.T) {
	f := setupMarket(t)

	body := CreateOrderRequest{Items: []OrderItemRequest{{ProductID: f.product.ID, Quantity: 2}}}
	w := invokeAs(t, f.customer, CreateOrder, http.MethodPost, "/api/orders", body, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var response OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, models.OrderPending, response.Status)
	assert.InDelta(t, 5.0, response.Total, 0.001)

	var product models.Product
	require.NoError(t, f.gdb.First(&product, f.product.ID).Error)
	assert.Equal(t, uint(3), product.Quantity)

	var notifications []models.Notification
	require.NoError(t, f.gdb.Where("user_id = ?", f.grower.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationOrder, notifications[0].NotificationType)
}

func orderParams(order models.Order) gin.Params {
	return gin.Params{{Key: "order_id", Value: fmt.Sprint(order.ID)}}
}

func TestCustomerCancelsPendingOrder(t *testing.T) {
	f := setupMarket(t)

	order := models.Order{CustomerID: f.customer.ID, Status: models.OrderPending}
	require.NoError(t, f.gdb.Create(&order).Error)

	body := UpdateOrderStatusRequest{Status: models.OrderCancelled}
	w := invokeAs(t, f.customer, UpdateOrderStatus, http.MethodPatch, "/api/orders/1/status", body, orderParams(order))

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Order
	require.NoError(t, f.gdb.First(&updated, order.ID).Error)
	assert.Equal(t, models.OrderCancelled, updated.Status)
}

func TestCustomerCannotCancelCompletedOrder(t *testing.T) {
	f := setupMarket(t)

	order := models.Order{CustomerID: f.customer.ID, Status: models.OrderCompleted}
	require.NoError(t, f.gdb.Create(&order).Error)

	body := UpdateOrderStatusRequest{Status: models.OrderCancelled}
	w := invokeAs(t, f.customer, UpdateOrderStatus, http.MethodPatch, "/api/orders/1/status", body, orderParams(order))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var unchanged models.Order
	require.NoError(t, f.gdb.First(&unchanged, order.ID).Error)
	assert.Equal(t, models.OrderCompleted, unchanged.Status)
}

func TestFarmerCompletesOrder(t *testing.T) {
	f := setupMarket(t)

	order := models.Order{CustomerID: f.customer.ID, Status: models.OrderPending}
	require.NoError(t, f.gdb.Create(&order).Error)

	item := models.OrderItem{OrderID: order.ID, ProductID: f.product.ID, Quantity: 1, Price: f.product.Price}
	require.NoError(t, f.gdb.Create(&item).Error)

	body := UpdateOrderStatusRequest{Status: models.OrderCompleted}
	w := invokeAs(t, f.grower, UpdateOrderStatus, http.MethodPatch, "/api/orders/1/status", body, orderParams(order))

	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Order
	require.NoError(t, f.gdb.First(&updated, order.ID).Error)
	assert.Equal(t, models.OrderCompleted, updated.Status)
}
