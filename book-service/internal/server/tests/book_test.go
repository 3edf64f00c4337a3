package tests

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/adrwal/bookshop/book-service/internal/domain/models"
	"github.com/adrwal/bookshop/book-service/internal/events"
	"github.com/adrwal/bookshop/book-service/internal/server"
	"github.com/adrwal/bookshop/book-service/internal/server/mocks"
	storerrros "github.com/adrwal/bookshop/book-service/internal/storage/errors"
)

const testBID = "5f6f2c2a-9c63-4f2a-8a6c-0f18a61f6f10"

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// failingSink always errors, standing in for a broken broker connection.
type failingSink struct{}

func (failingSink) Publish(string, any) error { return errors.New("channel closed") }

func jsonRequest(ctx *gin.Context, method, body string) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req
}

func TestServer_AllBooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	s := &server.Server{Storage: mockStorage}

	t.Run("success", func(t *testing.T) {
		books := []models.Book{{Title: "Book1"}, {Title: "Book2"}}
		mockStorage.EXPECT().GetBooks().Return(books, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		s.AllBooks(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Book1")
		assert.Contains(t, w.Body.String(), "Book2")
	})

	t.Run("empty list", func(t *testing.T) {
		mockStorage.EXPECT().GetBooks().Return(nil, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		s.AllBooks(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("internal error", func(t *testing.T) {
		mockStorage.EXPECT().GetBooks().Return(nil, errors.New("db error"))

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)

		s.AllBooks(ctx)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "db error")
	})
}

func TestServer_SearchBooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	s := &server.Server{Storage: mockStorage}

	t.Run("missing query", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/books/search", nil)

		s.SearchBooks(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		books := []models.Book{{Title: "Go in Action"}}
		mockStorage.EXPECT().SearchBooks("go").Return(books, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/books/search?q=go", nil)

		s.SearchBooks(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Go in Action")
	})

	t.Run("no matches", func(t *testing.T) {
		mockStorage.EXPECT().SearchBooks("nope").Return(nil, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/books/search?q=nope", nil)

		s.SearchBooks(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})
}

func TestServer_BookInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	s := &server.Server{Storage: mockStorage}

	t.Run("success", func(t *testing.T) {
		book := models.Book{BID: testBID, Title: "Book1"}
		mockStorage.EXPECT().GetBook(testBID).Return(book, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}

		s.BookInfo(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Book1")
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		s.BookInfo(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockStorage.EXPECT().GetBook(testBID).Return(models.Book{}, storerrros.ErrBookNotFound)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}

		s.BookInfo(ctx)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), storerrros.ErrBookNotFound.Error())
	})

	t.Run("internal error", func(t *testing.T) {
		mockStorage.EXPECT().GetBook(testBID).Return(models.Book{}, errors.New("db error"))

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}

		s.BookInfo(ctx)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "db error")
	})
}

func TestServer_AddBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	s := &server.Server{Storage: mockStorage, Events: events.NopSink{}}

	t.Run("success", func(t *testing.T) {
		mockStorage.EXPECT().SaveBook(gomock.Any()).Return(testBID, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		jsonRequest(ctx, http.MethodPost, `{"title":"A","author":"B","price":9.99,"description":"d","category":"c"}`)

		s.AddBook(ctx)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), testBID)
		assert.Contains(t, w.Body.String(), `"price":9.99`)
	})

	t.Run("price as numeric string", func(t *testing.T) {
		mockStorage.EXPECT().SaveBook(gomock.Any()).DoAndReturn(func(book models.Book) (string, error) {
			assert.Equal(t, 9.99, book.Price)
			assert.Equal(t, 5, book.Stock)
			return testBID, nil
		})

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		jsonRequest(ctx, http.MethodPost, `{"title":"A","author":"B","price":"9.99","stock":"5","description":"d","category":"c"}`)

		s.AddBook(ctx)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"stock":5`)
	})

	t.Run("missing required field", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		jsonRequest(ctx, http.MethodPost, `{"title":"A","price":9.99}`)

		s.AddBook(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative price", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		jsonRequest(ctx, http.MethodPost, `{"title":"A","author":"B","price":-1,"description":"d","category":"c"}`)

		s.AddBook(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-numeric price", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		jsonRequest(ctx, http.MethodPost, `{"title":"A","author":"B","price":"cheap","description":"d","category":"c"}`)

		s.AddBook(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("publish failure still succeeds", func(t *testing.T) {
		failing := &server.Server{Storage: mockStorage, Events: failingSink{}}
		mockStorage.EXPECT().SaveBook(gomock.Any()).Return(testBID, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		jsonRequest(ctx, http.MethodPost, `{"title":"A","author":"B","price":9.99,"description":"d","category":"c"}`)

		failing.AddBook(ctx)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("no sink configured still succeeds", func(t *testing.T) {
		bare := &server.Server{Storage: mockStorage}
		mockStorage.EXPECT().SaveBook(gomock.Any()).Return(testBID, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		jsonRequest(ctx, http.MethodPost, `{"title":"A","author":"B","price":9.99,"description":"d","category":"c"}`)

		bare.AddBook(ctx)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestServer_UpdateBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	s := &server.Server{Storage: mockStorage, Events: events.NopSink{}}

	t.Run("success partial update", func(t *testing.T) {
		updated := models.Book{BID: testBID, Title: "New", Author: "B", Price: 12.5}
		mockStorage.EXPECT().UpdateBook(testBID, gomock.Any()).DoAndReturn(
			func(bid string, upd models.BookUpdate) (models.Book, error) {
				assert.NotNil(t, upd.Title)
				assert.Equal(t, "New", *upd.Title)
				assert.Nil(t, upd.Author)
				assert.NotNil(t, upd.Price)
				assert.Equal(t, 12.5, *upd.Price)
				return updated, nil
			})

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}
		jsonRequest(ctx, http.MethodPut, `{"title":"New","price":12.5}`)

		s.UpdateBook(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "New")
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: "123"}}
		jsonRequest(ctx, http.MethodPut, `{"title":"New"}`)

		s.UpdateBook(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative price", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}
		jsonRequest(ctx, http.MethodPut, `{"price":-5}`)

		s.UpdateBook(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockStorage.EXPECT().UpdateBook(testBID, gomock.Any()).Return(models.Book{}, storerrros.ErrBookNotFound)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}
		jsonRequest(ctx, http.MethodPut, `{"title":"New"}`)

		s.UpdateBook(ctx)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_UpdateStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	s := &server.Server{Storage: mockStorage, Events: events.NopSink{}}

	t.Run("stock as numeric string", func(t *testing.T) {
		book := models.Book{BID: testBID, Title: "A", Stock: 5}
		mockStorage.EXPECT().UpdateStock(testBID, 5).Return(book, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}
		jsonRequest(ctx, http.MethodPatch, `{"stock":"5"}`)

		s.UpdateStock(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"stock":5`)
	})

	t.Run("missing stock", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}
		jsonRequest(ctx, http.MethodPatch, `{}`)

		s.UpdateStock(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative stock", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}
		jsonRequest(ctx, http.MethodPatch, `{"stock":-1}`)

		s.UpdateStock(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockStorage.EXPECT().UpdateStock(testBID, 3).Return(models.Book{}, storerrros.ErrBookNotFound)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}
		jsonRequest(ctx, http.MethodPatch, `{"stock":3}`)

		s.UpdateStock(ctx)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_RemoveBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	s := &server.Server{Storage: mockStorage, Events: events.NopSink{}}

	t.Run("success", func(t *testing.T) {
		mockStorage.EXPECT().DeleteBook(testBID).Return(nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}

		s.RemoveBook(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "book deleted")
	})

	t.Run("not found", func(t *testing.T) {
		mockStorage.EXPECT().DeleteBook(testBID).Return(storerrros.ErrBookNotFound)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: testBID}}

		s.RemoveBook(ctx)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: "xxx"}}

		s.RemoveBook(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
