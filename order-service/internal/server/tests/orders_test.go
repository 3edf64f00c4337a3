package tests

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/adrwal/bookshop/order-service/internal/config"
	"github.com/adrwal/bookshop/order-service/internal/domain/models"
	"github.com/adrwal/bookshop/order-service/internal/server"
	"github.com/adrwal/bookshop/order-service/internal/server/mocks"
	storerrros "github.com/adrwal/bookshop/order-service/internal/storage/errors"
)

const (
	testUID = "3a2d07a3-7ccd-4a36-9466-1a1dc2a5e1a2"
	testOID = "8e9d3c36-68c8-4f4e-8a64-6b8f9b3b61a4"
	testBID = "5f6f2c2a-9c63-4f2a-8a6c-0f18a61f6f10"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(s *server.Server) *gin.Engine {
	r := gin.New()
	r.GET("/orders/user/:userId", s.OrdersByUser)
	r.GET("/orders/:id", s.OrderInfo)
	return r
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testOrder() models.Order {
	return models.Order{
		OID:       testOID,
		UID:       testUID,
		Items:     []models.OrderItem{{BID: testBID, Title: "Dune", Price: 12.5, Quantity: 2}},
		Total:     25,
		Status:    "created",
		CreatedAt: time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestOrdersByUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	s := server.New(config.Config{Addr: ":8084"}, mockStorage)
	router := setupRouter(s)

	t.Run("success", func(t *testing.T) {
		mockStorage.EXPECT().GetOrdersByUser(testUID).Return([]models.Order{testOrder()}, nil)

		w := doGet(router, "/orders/user/"+testUID)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), testOID)
		assert.Contains(t, w.Body.String(), "Dune")
	})

	t.Run("no orders", func(t *testing.T) {
		mockStorage.EXPECT().GetOrdersByUser(testUID).Return(nil, nil)

		w := doGet(router, "/orders/user/"+testUID)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("malformed user id", func(t *testing.T) {
		w := doGet(router, "/orders/user/not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage error", func(t *testing.T) {
		mockStorage.EXPECT().GetOrdersByUser(testUID).Return(nil, errors.New("db down"))

		w := doGet(router, "/orders/user/"+testUID)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestOrderInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	s := server.New(config.Config{Addr: ":8084"}, mockStorage)
	router := setupRouter(s)

	t.Run("success", func(t *testing.T) {
		mockStorage.EXPECT().GetOrder(testOID).Return(testOrder(), nil)

		w := doGet(router, "/orders/"+testOID)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":25`)
		assert.Contains(t, w.Body.String(), `"status":"created"`)
	})

	t.Run("malformed order id", func(t *testing.T) {
		w := doGet(router, "/orders/abc")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockStorage.EXPECT().GetOrder(testOID).Return(models.Order{}, storerrros.ErrOrderNotFound)

		w := doGet(router, "/orders/"+testOID)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("storage error", func(t *testing.T) {
		mockStorage.EXPECT().GetOrder(testOID).Return(models.Order{}, errors.New("db down"))

		w := doGet(router, "/orders/"+testOID)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
