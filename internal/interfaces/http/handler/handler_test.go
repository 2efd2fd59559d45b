package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appfulfillment "github.com/retail/backoffice/internal/application/fulfillment"
	appinventory "github.com/retail/backoffice/internal/application/inventory"
	appprocurement "github.com/retail/backoffice/internal/application/procurement"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/cache"
	"github.com/retail/backoffice/internal/infrastructure/persistence"
	"github.com/retail/backoffice/internal/infrastructure/persistence/models"
	"github.com/retail/backoffice/internal/interfaces/http/middleware"
	"github.com/retail/backoffice/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testAPI wires the handlers against an in-memory database, with the
// X-Actor-ID fallback standing in for real tokens.
type testAPI struct {
	engine *gin.Engine
	actor  uuid.UUID
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.PurchaseOrderModel{},
		&models.PurchaseOrderDetailModel{},
		&models.InventoryReceiptModel{},
		&models.InventoryReceiptLineModel{},
		&models.InventoryCheckModel{},
		&models.InventoryCheckItemModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderHistoryModel{},
	))

	purchaseOrderService := appprocurement.NewPurchaseOrderService(persistence.NewGormPurchaseOrderRepository(db))
	receiptService := appprocurement.NewInventoryReceiptService(persistence.NewGormInventoryReceiptRepository(db))
	checkService := appinventory.NewInventoryCheckService(persistence.NewGormInventoryCheckRepository(db))

	orderService := appfulfillment.NewOrderService(persistence.NewGormOrderRepository(db))
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	orderService.SetIdempotencyStore(store, shared.IdempotencyConfig{TTL: time.Minute})

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Auth(nil, nil, zap.NewNop(), middleware.AuthConfig{
		SkipPaths:        []string{"/health"},
		AllowActorHeader: true,
	}))

	r := router.New(engine)
	r.Register(
		NewPurchaseOrderHandler(purchaseOrderService),
		NewInventoryReceiptHandler(receiptService, 30),
		NewInventoryCheckHandler(checkService),
		NewOrderHandler(orderService),
	)
	r.RegisterRoot(NewSystemHandler(nil, "backoffice-test", "dev"))

	return &testAPI{engine: engine, actor: uuid.New()}
}

type apiResponse struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, apiResponse) {
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
	req.Header.Set("X-Actor-ID", a.actor.String())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (a *testAPI) get(t *testing.T, path string) (*httptest.ResponseRecorder, apiResponse) {
	return a.do(t, http.MethodGet, path, nil, nil)
}

func (a *testAPI) post(t *testing.T, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	return a.do(t, http.MethodPost, path, body, nil)
}

func (a *testAPI) put(t *testing.T, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	return a.do(t, http.MethodPut, path, body, nil)
}

func (a *testAPI) delete(t *testing.T, path string) (*httptest.ResponseRecorder, apiResponse) {
	return a.do(t, http.MethodDelete, path, nil, nil)
}
