package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"

	"github.com/adrwal/bookshop/book-service/internal/config"
	"github.com/adrwal/bookshop/book-service/internal/domain/models"
	"github.com/adrwal/bookshop/book-service/internal/events"
	"github.com/adrwal/bookshop/book-service/internal/logger"
)

//go:generate mockgen -source=server.go -destination=./mocks/service_mock.go -package=mocks

type Storage interface {
	SaveBook(models.Book) (string, error)
	GetBooks() ([]models.Book, error)
	SearchBooks(string) ([]models.Book, error)
	GetBook(string) (models.Book, error)
	UpdateBook(string, models.BookUpdate) (models.Book, error)
	UpdateStock(string, int) (models.Book, error)
	DeleteBook(string) error
}

type Server struct {
	serv    *http.Server
	valid   *validator.Validate
	Storage Storage
	Events  events.Sink
	ErrChan chan error
}

func New(cfg config.Config, stor Storage, sink events.Sink) *Server {
	server := http.Server{ //nolint:gosec // not today
		Addr: cfg.Addr,
	}
	if sink == nil {
		sink = events.NopSink{}
	}
	valid := validator.New()
	return &Server{
		serv:    &server,
		valid:   valid,
		Storage: stor,
		Events:  sink,
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
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))
	books := router.Group("/books")
	{
		books.GET("", s.AllBooks)
		books.GET("/search", s.SearchBooks)
		books.GET("/:id", s.BookInfo)
		books.POST("", s.AddBook)
		books.PUT("/:id", s.UpdateBook)
		books.DELETE("/:id", s.RemoveBook)
		books.PATCH("/:id/stock", s.UpdateStock)
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

// notify publishes a mutation event; delivery is best effort and a failed
// publish never changes the HTTP response.
func (s *Server) notify(topic string, payload any) {
	log := logger.Get()
	if s.Events == nil {
		log.Warn().Str("topic", topic).Msg("no event sink configured, event dropped")
		return
	}
	if err := s.Events.Publish(topic, payload); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("event publish failed")
	}
}
