package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adrwal/bookshop/cart-service/internal/domain/models"
	"github.com/adrwal/bookshop/cart-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/cart-service/internal/storage/errors"
)

type addItemRequest struct {
	BID      string  `json:"bid" validate:"required,uuid"`
	Title    string  `json:"title" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"required,gte=1"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

func (s *Server) GetCart(ctx *gin.Context) {
	uid := ctx.Param("userId")
	if _, err := uuid.Parse(uid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	cart, err := s.Storage.GetCart(uid)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func (s *Server) AddItem(ctx *gin.Context) {
	log := logger.Get()

	uid := ctx.Param("userId")
	if _, err := uuid.Parse(uid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req addItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("unmarshal body failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	if err := s.valid.Struct(req); err != nil {
		log.Error().Err(err).Msg("validate add item request failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}

	cart, err := s.Storage.AddItem(uid, models.CartItem{
		BID:      req.BID,
		Title:    req.Title,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to add item to cart")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func (s *Server) UpdateItem(ctx *gin.Context) {
	log := logger.Get()

	uid := ctx.Param("userId")
	bid := ctx.Param("bookId")
	if _, err := uuid.Parse(uid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if _, err := uuid.Parse(bid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req quantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("unmarshal body failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "incorrectly entered data"})
		return
	}
	if req.Quantity < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
		return
	}

	cart, err := s.Storage.UpdateItemQuantity(uid, bid, req.Quantity)
	if err != nil {
		if errors.Is(err, storerrros.ErrItemNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to update item quantity")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func (s *Server) RemoveItem(ctx *gin.Context) {
	log := logger.Get()

	uid := ctx.Param("userId")
	bid := ctx.Param("bookId")
	if _, err := uuid.Parse(uid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if _, err := uuid.Parse(bid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	cart, err := s.Storage.RemoveItem(uid, bid)
	if err != nil {
		if errors.Is(err, storerrros.ErrItemNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to remove item from cart")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

func (s *Server) Checkout(ctx *gin.Context) {
	log := logger.Get()

	uid := ctx.Param("userId")
	if _, err := uuid.Parse(uid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	order, err := s.Storage.Checkout(uid)
	if err != nil {
		if errors.Is(err, storerrros.ErrCartEmpty) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("checkout failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, order)
}
