package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adrwal/bookshop/order-service/internal/domain/models"
	"github.com/adrwal/bookshop/order-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/order-service/internal/storage/errors"
)

func (s *Server) OrdersByUser(ctx *gin.Context) {
	log := logger.Get()

	uid := ctx.Param("userId")
	if _, err := uuid.Parse(uid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	orders, err := s.Storage.GetOrdersByUser(uid)
	if err != nil {
		log.Error().Err(err).Msg("failed to get orders")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	ctx.JSON(http.StatusOK, orders)
}

func (s *Server) OrderInfo(ctx *gin.Context) {
	log := logger.Get()

	oid := ctx.Param("id")
	if _, err := uuid.Parse(oid); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := s.Storage.GetOrder(oid)
	if err != nil {
		if errors.Is(err, storerrros.ErrOrderNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to get order")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, order)
}
