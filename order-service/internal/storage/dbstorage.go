package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5"

	"github.com/adrwal/bookshop/order-service/internal/domain/consts"
	"github.com/adrwal/bookshop/order-service/internal/domain/models"
	"github.com/adrwal/bookshop/order-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/order-service/internal/storage/errors"
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

func (dbs *DBStorage) GetOrdersByUser(uid string) ([]models.Order, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	rows, err := dbs.conn.Query(ctx,
		"SELECT oid, user_id, total, status, created_at FROM orders WHERE user_id = $1 ORDER BY created_at DESC", uid)
	if err != nil {
		log.Error().Err(err).Msg("failed to get orders")
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.OID, &order.UID, &order.Total, &order.Status, &order.CreatedAt); err != nil {
			log.Error().Err(err).Msg("failed to scan order")
			return nil, err
		}
		orders = append(orders, order)
	}

	for i := range orders {
		items, err := dbs.orderItems(ctx, orders[i].OID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (dbs *DBStorage) GetOrder(oid string) (models.Order, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	row := dbs.conn.QueryRow(ctx,
		"SELECT oid, user_id, total, status, created_at FROM orders WHERE oid = $1", oid)
	var order models.Order
	if err := row.Scan(&order.OID, &order.UID, &order.Total, &order.Status, &order.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, storerrros.ErrOrderNotFound
		}
		log.Error().Err(err).Msg("failed to scan order")
		return models.Order{}, err
	}

	items, err := dbs.orderItems(ctx, oid)
	if err != nil {
		return models.Order{}, err
	}
	order.Items = items
	return order, nil
}

func (dbs *DBStorage) orderItems(ctx context.Context, oid string) ([]models.OrderItem, error) {
	log := logger.Get()
	rows, err := dbs.conn.Query(ctx,
		"SELECT book_id, title, price, quantity FROM order_items WHERE oid = $1", oid)
	if err != nil {
		log.Error().Err(err).Msg("failed to get order items")
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.BID, &item.Title, &item.Price, &item.Quantity); err != nil {
			log.Error().Err(err).Msg("failed to scan order item")
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
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
