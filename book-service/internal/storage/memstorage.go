package storage

import (
	"strings"

	"github.com/google/uuid"

	"github.com/adrwal/bookshop/book-service/internal/domain/models"
	"github.com/adrwal/bookshop/book-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/book-service/internal/storage/errors"
)

type MemStorage struct {
	bookStor map[string]models.Book
}

func New() *MemStorage {
	return &MemStorage{
		bookStor: make(map[string]models.Book),
	}
}

func (ms *MemStorage) SaveBook(book models.Book) (string, error) {
	bid := uuid.New().String()
	book.BID = bid
	ms.bookStor[bid] = book
	return bid, nil
}

func (ms *MemStorage) GetBooks() ([]models.Book, error) {
	var books []models.Book
	for _, book := range ms.bookStor {
		books = append(books, book)
	}
	return books, nil
}

func (ms *MemStorage) SearchBooks(query string) ([]models.Book, error) {
	query = strings.ToLower(query)
	var books []models.Book
	for _, book := range ms.bookStor {
		if strings.Contains(strings.ToLower(book.Title), query) ||
			strings.Contains(strings.ToLower(book.Author), query) ||
			strings.Contains(strings.ToLower(book.Description), query) ||
			strings.Contains(strings.ToLower(book.Category), query) {
			books = append(books, book)
		}
	}
	return books, nil
}

func (ms *MemStorage) GetBook(bid string) (models.Book, error) {
	log := logger.Get()
	book, ok := ms.bookStor[bid]
	if !ok {
		log.Error().Str("bid", bid).Msg("book not found")
		return models.Book{}, storerrros.ErrBookNotFound
	}
	return book, nil
}

func (ms *MemStorage) UpdateBook(bid string, upd models.BookUpdate) (models.Book, error) {
	book, ok := ms.bookStor[bid]
	if !ok {
		return models.Book{}, storerrros.ErrBookNotFound
	}
	applyUpdate(&book, upd)
	ms.bookStor[bid] = book
	return book, nil
}

func (ms *MemStorage) UpdateStock(bid string, stock int) (models.Book, error) {
	book, ok := ms.bookStor[bid]
	if !ok {
		return models.Book{}, storerrros.ErrBookNotFound
	}
	book.Stock = stock
	ms.bookStor[bid] = book
	return book, nil
}

func (ms *MemStorage) DeleteBook(bid string) error {
	log := logger.Get()
	if _, exists := ms.bookStor[bid]; !exists {
		log.Warn().Str("bid", bid).Msg("book not found")
		return storerrros.ErrBookNotFound
	}
	delete(ms.bookStor, bid)
	log.Info().Str("bid", bid).Msg("book deleted successfully")
	return nil
}
