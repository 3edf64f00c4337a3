package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adrwal/bookshop/cart-service/internal/domain/consts"
	"github.com/adrwal/bookshop/cart-service/internal/domain/models"
	"github.com/adrwal/bookshop/cart-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/cart-service/internal/storage/errors"
)

type DBStorage struct {
	conn *pgx.Conn
}

func NewDB(ctx context.Context, addr string) (*DBStorage, error) {
	conn, err := pgx.Connect(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &DBStorage{
		conn: conn,
	}, nil
}

func (dbs *DBStorage) GetCart(uid string) (models.Cart, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	rows, err := dbs.conn.Query(ctx,
		"SELECT book_id, title, price, quantity FROM cart_items WHERE user_id = $1", uid)
	if err != nil {
		log.Error().Err(err).Msg("failed to get cart items")
		return models.Cart{}, err
	}
	defer rows.Close()

	cart := models.Cart{UID: uid, Items: []models.CartItem{}}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.BID, &item.Title, &item.Price, &item.Quantity); err != nil {
			log.Error().Err(err).Msg("failed to scan cart item")
			return models.Cart{}, err
		}
		cart.Items = append(cart.Items, item)
		cart.Total += item.Price * float64(item.Quantity)
	}
	return cart, nil
}

// AddItem inserts the line item or bumps its quantity when the book is
// already in the cart.
func (dbs *DBStorage) AddItem(uid string, item models.CartItem) (models.Cart, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	_, err := dbs.conn.Exec(ctx,
		`INSERT INTO cart_items (user_id, book_id, title, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		uid, item.BID, item.Title, item.Price, item.Quantity)
	if err != nil {
		log.Error().Err(err).Msg("failed to add item to cart")
		return models.Cart{}, err
	}
	return dbs.GetCart(uid)
}

func (dbs *DBStorage) UpdateItemQuantity(uid, bid string, quantity int) (models.Cart, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := dbs.conn.Exec(ctx,
		"UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND book_id = $3",
		quantity, uid, bid)
	if err != nil {
		log.Error().Err(err).Msg("failed to update item quantity")
		return models.Cart{}, err
	}
	if res.RowsAffected() == 0 {
		return models.Cart{}, storerrros.ErrItemNotFound
	}
	return dbs.GetCart(uid)
}

func (dbs *DBStorage) RemoveItem(uid, bid string) (models.Cart, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := dbs.conn.Exec(ctx,
		"DELETE FROM cart_items WHERE user_id = $1 AND book_id = $2", uid, bid)
	if err != nil {
		log.Error().Err(err).Msg("failed to remove item from cart")
		return models.Cart{}, err
	}
	if res.RowsAffected() == 0 {
		return models.Cart{}, storerrros.ErrItemNotFound
	}
	return dbs.GetCart(uid)
}

// Checkout snapshots the cart into the orders tables and clears it inside
// one transaction, so callers never observe a half-checked-out cart.
func (dbs *DBStorage) Checkout(uid string) (models.Order, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	tx, err := dbs.conn.Begin(ctx)
	if err != nil {
		return models.Order{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rows, err := tx.Query(ctx,
		"SELECT book_id, title, price, quantity FROM cart_items WHERE user_id = $1", uid)
	if err != nil {
		log.Error().Err(err).Msg("failed to read cart for checkout")
		return models.Order{}, err
	}

	var items []models.CartItem
	var total float64
	for rows.Next() {
		var item models.CartItem
		if err = rows.Scan(&item.BID, &item.Title, &item.Price, &item.Quantity); err != nil {
			rows.Close()
			log.Error().Err(err).Msg("failed to scan cart item")
			return models.Order{}, err
		}
		items = append(items, item)
		total += item.Price * float64(item.Quantity)
	}
	rows.Close()

	if len(items) == 0 {
		err = storerrros.ErrCartEmpty
		return models.Order{}, err
	}

	order := models.Order{
		OID:       uuid.New().String(),
		UID:       uid,
		Items:     items,
		Total:     total,
		Status:    "created",
		CreatedAt: time.Now().UTC(),
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO orders (oid, user_id, total, status, created_at) VALUES ($1, $2, $3, $4, $5)",
		order.OID, order.UID, order.Total, order.Status, order.CreatedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert order")
		return models.Order{}, err
	}
	for _, item := range items {
		_, err = tx.Exec(ctx,
			"INSERT INTO order_items (oid, book_id, title, price, quantity) VALUES ($1, $2, $3, $4, $5)",
			order.OID, item.BID, item.Title, item.Price, item.Quantity)
		if err != nil {
			log.Error().Err(err).Msg("failed to insert order item")
			return models.Order{}, err
		}
	}

	_, err = tx.Exec(ctx, "DELETE FROM cart_items WHERE user_id = $1", uid)
	if err != nil {
		log.Error().Err(err).Msg("failed to clear cart")
		return models.Order{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Order{}, err
	}
	log.Info().Str("oid", order.OID).Str("uid", uid).Msg("cart checked out")
	return order, nil
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
