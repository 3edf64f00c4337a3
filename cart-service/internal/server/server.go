package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"

	"github.com/adrwal/bookshop/cart-service/internal/config"
	"github.com/adrwal/bookshop/cart-service/internal/domain/models"
	"github.com/adrwal/bookshop/cart-service/internal/logger"
)

//go:generate mockgen -source=server.go -destination=./mocks/service_mock.go -package=mocks

type Storage interface {
	GetCart(string) (models.Cart, error)
	AddItem(string, models.CartItem) (models.Cart, error)
	UpdateItemQuantity(string, string, int) (models.Cart, error)
	RemoveItem(string, string) (models.Cart, error)
	Checkout(string) (models.Order, error)
}

type Server struct {
	serv    *http.Server
	valid   *validator.Validate
	Storage Storage
	ErrChan chan error
}

func New(cfg config.Config, stor Storage) *Server {
	server := http.Server{ //nolint:gosec // not today
		Addr: cfg.Addr,
	}
	valid := validator.New()
	return &Server{
		serv:    &server,
		valid:   valid,
		Storage: stor,
		ErrChan: make(chan error),
	}
}

func (s *Server) ShutdownServer() error {
	return s.serv.Shutdown(context.Background())
}

func (s *Server) Run(ctx context.Context) error {
	log := logger.Get()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))
	cart := router.Group("/cart")
	{
		cart.GET("/:userId", s.GetCart)
		cart.POST("/:userId/items", s.AddItem)
		cart.PUT("/:userId/items/:bookId", s.UpdateItem)
		cart.DELETE("/:userId/items/:bookId", s.RemoveItem)
		cart.POST("/:userId/checkout", s.Checkout)
	}

	s.serv.Handler = router
	log.Info().Str("host", s.serv.Addr).Msg("server started")
	if err := s.serv.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Close() error {
	return s.serv.Shutdown(context.TODO())
}
