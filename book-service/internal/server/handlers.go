package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adrwal/bookshop/book-service/internal/domain/models"
	"github.com/adrwal/bookshop/book-service/internal/events"
	"github.com/adrwal/bookshop/book-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/book-service/internal/storage/errors"
)

type bookRequest struct {
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	Price       *models.Price `json:"price"`
	Stock       *models.Stock `json:"stock"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
}

type stockRequest struct {
	Stock *models.Stock `json:"stock"`
}

func (s *Server) AllBooks(ctx *gin.Context) {
	books, err := s.Storage.GetBooks()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	ctx.JSON(http.StatusOK, books)
}

func (s *Server) SearchBooks(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	books, err := s.Storage.SearchBooks(query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	ctx.JSON(http.StatusOK, books)
}

func (s *Server) BookInfo(ctx *gin.Context) {
	bid := ctx.Param("id")
	if _, err := uuid.Parse(bid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	book, err := s.Storage.GetBook(bid)
	if err != nil {
		if errors.Is(err, storerrros.ErrBookNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, book)
}

func (s *Server) AddBook(ctx *gin.Context) {
	log := logger.Get()

	var req bookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("unmarshal body failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}

	if req.Title == "" || req.Author == "" || req.Category == "" || req.Description == "" || req.Price == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "title, author, price, category and description are required"})
		return
	}
	if *req.Price < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "price must be non-negative"})
		return
	}
	var stock int
	if req.Stock != nil {
		if *req.Stock < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "stock must be non-negative"})
			return
		}
		stock = int(*req.Stock)
	}

	book := models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Price:       float64(*req.Price),
		Stock:       stock,
		Category:    req.Category,
		Description: req.Description,
	}
	bid, err := s.Storage.SaveBook(book)
	if err != nil {
		log.Error().Err(err).Msg("save book failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	book.BID = bid

	s.notify(events.TopicBookCreated, book)
	ctx.JSON(http.StatusCreated, book)
}

func (s *Server) UpdateBook(ctx *gin.Context) {
	log := logger.Get()

	bid := ctx.Param("id")
	if _, err := uuid.Parse(bid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req bookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("unmarshal body failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	if req.Price != nil && *req.Price < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "price must be non-negative"})
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "stock must be non-negative"})
		return
	}

	upd := models.BookUpdate{}
	if req.Title != "" {
		upd.Title = &req.Title
	}
	if req.Author != "" {
		upd.Author = &req.Author
	}
	if req.Price != nil {
		price := float64(*req.Price)
		upd.Price = &price
	}
	if req.Stock != nil {
		stock := int(*req.Stock)
		upd.Stock = &stock
	}
	if req.Category != "" {
		upd.Category = &req.Category
	}
	if req.Description != "" {
		upd.Description = &req.Description
	}

	book, err := s.Storage.UpdateBook(bid, upd)
	if err != nil {
		if errors.Is(err, storerrros.ErrBookNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("update book failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.notify(events.TopicBookUpdated, book)
	ctx.JSON(http.StatusOK, book)
}

func (s *Server) UpdateStock(ctx *gin.Context) {
	log := logger.Get()

	bid := ctx.Param("id")
	if _, err := uuid.Parse(bid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req stockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("unmarshal body failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	if req.Stock == nil || *req.Stock < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "stock must be a non-negative number"})
		return
	}

	book, err := s.Storage.UpdateStock(bid, int(*req.Stock))
	if err != nil {
		if errors.Is(err, storerrros.ErrBookNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("update stock failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.notify(events.TopicStockUpdated, events.StockDelta{BID: book.BID, Stock: book.Stock})
	ctx.JSON(http.StatusOK, book)
}

func (s *Server) RemoveBook(ctx *gin.Context) {
	log := logger.Get()

	bid := ctx.Param("id")
	if _, err := uuid.Parse(bid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	if err := s.Storage.DeleteBook(bid); err != nil {
		if errors.Is(err, storerrros.ErrBookNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to delete book")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}

	s.notify(events.TopicBookDeleted, events.Deleted{BID: bid})
	ctx.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}
