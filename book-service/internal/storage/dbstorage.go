package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adrwal/bookshop/book-service/internal/domain/consts"
	"github.com/adrwal/bookshop/book-service/internal/domain/models"
	"github.com/adrwal/bookshop/book-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/book-service/internal/storage/errors"
)

const bookColumns = `bid, title, author, price, stock, category, description`

type DBStorage struct {
	pool *pgxpool.Pool
}

func NewDB(ctx context.Context, addr string) (*DBStorage, error) {
	config, err := pgxpool.ParseConfig(addr)
	if err != nil {
		return nil, err
	}
	config.MaxConns = 20
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	return &DBStorage{pool: pool}, nil
}

func (dbs *DBStorage) SaveBook(book models.Book) (string, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	bid := uuid.New().String()
	_, err := dbs.pool.Exec(ctx,
		`INSERT INTO books (bid, title, author, price, stock, category, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		bid, book.Title, book.Author, book.Price, book.Stock, book.Category, book.Description)
	if err != nil {
		log.Error().Err(err).Msg("save book failed")
		return "", err
	}
	return bid, nil
}

func (dbs *DBStorage) GetBooks() ([]models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()
	rows, err := dbs.pool.Query(ctx, `SELECT `+bookColumns+` FROM books`)
	if err != nil {
		log.Error().Err(err).Msg("failed get all books from db")
		return nil, err
	}
	defer rows.Close()

	return scanBooks(rows)
}

func (dbs *DBStorage) SearchBooks(query string) ([]models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	pattern := "%" + query + "%"
	rows, err := dbs.pool.Query(ctx,
		`SELECT `+bookColumns+` FROM books
		WHERE title ILIKE $1 OR author ILIKE $1 OR description ILIKE $1 OR category ILIKE $1`,
		pattern)
	if err != nil {
		log.Error().Err(err).Msg("failed to search books in db")
		return nil, err
	}
	defer rows.Close()

	return scanBooks(rows)
}

func (dbs *DBStorage) GetBook(bid string) (models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()
	row := dbs.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE bid = $1`, bid)

	var book models.Book
	if err := row.Scan(&book.BID, &book.Title, &book.Author, &book.Price, &book.Stock, &book.Category, &book.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Book{}, storerrros.ErrBookNotFound
		}
		log.Error().Err(err).Msg("failed to scan data from db")
		return models.Book{}, err
	}
	return book, nil
}

// UpdateBook is a plain read-modify-write; concurrent updates to the same
// book can overwrite each other.
func (dbs *DBStorage) UpdateBook(bid string, upd models.BookUpdate) (models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	book, err := dbs.GetBook(bid)
	if err != nil {
		return models.Book{}, err
	}
	applyUpdate(&book, upd)

	_, err = dbs.pool.Exec(ctx,
		`UPDATE books SET title = $1, author = $2, price = $3, stock = $4, category = $5, description = $6
		WHERE bid = $7`,
		book.Title, book.Author, book.Price, book.Stock, book.Category, book.Description, bid)
	if err != nil {
		log.Error().Err(err).Msg("update book failed")
		return models.Book{}, err
	}
	return book, nil
}

func (dbs *DBStorage) UpdateStock(bid string, stock int) (models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	row := dbs.pool.QueryRow(ctx,
		`UPDATE books SET stock = $1 WHERE bid = $2 RETURNING `+bookColumns, stock, bid)
	var book models.Book
	if err := row.Scan(&book.BID, &book.Title, &book.Author, &book.Price, &book.Stock, &book.Category, &book.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Book{}, storerrros.ErrBookNotFound
		}
		log.Error().Err(err).Msg("update stock failed")
		return models.Book{}, err
	}
	return book, nil
}

func (dbs *DBStorage) DeleteBook(bid string) error {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := dbs.pool.Exec(ctx, "DELETE FROM books WHERE bid = $1", bid)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete book")
		return err
	}
	if res.RowsAffected() == 0 {
		log.Warn().Str("bid", bid).Msg("book not found")
		return storerrros.ErrBookNotFound
	}
	log.Info().Str("bid", bid).Msg("book deleted successfully")
	return nil
}

func scanBooks(rows pgx.Rows) ([]models.Book, error) {
	log := logger.Get()
	var books []models.Book
	for rows.Next() {
		var book models.Book
		if err := rows.Scan(&book.BID, &book.Title, &book.Author, &book.Price, &book.Stock, &book.Category, &book.Description); err != nil {
			log.Error().Err(err).Msg("failed to scan data from db")
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

func applyUpdate(book *models.Book, upd models.BookUpdate) {
	if upd.Title != nil {
		book.Title = *upd.Title
	}
	if upd.Author != nil {
		book.Author = *upd.Author
	}
	if upd.Price != nil {
		book.Price = *upd.Price
	}
	if upd.Stock != nil {
		book.Stock = *upd.Stock
	}
	if upd.Category != nil {
		book.Category = *upd.Category
	}
	if upd.Description != nil {
		book.Description = *upd.Description
	}
}

func Migrations(dbDsn string, migrationsPath string) error {
	log := logger.Get()
	migratePath := fmt.Sprintf("file://%s", migrationsPath)
	m, err := migrate.New(migratePath, dbDsn)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("no migrations apply")
			return nil
		}
		return err
	}
	log.Info().Msg("all migrations apply")
	return nil
}
