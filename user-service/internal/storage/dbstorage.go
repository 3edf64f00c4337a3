package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/adrwal/bookshop/user-service/internal/domain/consts"
	"github.com/adrwal/bookshop/user-service/internal/domain/models"
	"github.com/adrwal/bookshop/user-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/user-service/internal/storage/errors"
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

func (dbs *DBStorage) SaveUser(user models.User) (string, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var existing string
	row := dbs.conn.QueryRow(ctx, "SELECT email FROM users WHERE email = $1", user.Email)
	if err := row.Scan(&existing); err == nil {
		return "", storerrros.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("hash password failed")
		return "", err
	}

	uid := uuid.New().String()
	_, err = dbs.conn.Exec(ctx,
		"INSERT INTO users (uid, email, pass, name, lastname) VALUES ($1, $2, $3, $4, $5)",
		uid, user.Email, string(hash), user.Name, user.LastName)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert user")
		return "", err
	}
	return uid, nil
}

func (dbs *DBStorage) ValidUser(email, pass string) (string, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var usr models.User
	row := dbs.conn.QueryRow(ctx, "SELECT uid, email, pass, name, lastname FROM users WHERE email = $1", email)
	if err := row.Scan(&usr.UID, &usr.Email, &usr.Pass, &usr.Name, &usr.LastName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storerrros.ErrUserNotFound
		}
		log.Error().Err(err).Msg("failed scan db data")
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.Pass), []byte(pass)); err != nil {
		log.Error().Err(err).Msg("failed compare hash and password")
		return "", storerrros.ErrInvalidPassword
	}
	return usr.UID, nil
}

func (dbs *DBStorage) GetUser(uid string) (models.User, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()
	row := dbs.conn.QueryRow(ctx, "SELECT uid, email, pass, name, lastname FROM users WHERE uid = $1", uid)
	var usr models.User
	if err := row.Scan(&usr.UID, &usr.Email, &usr.Pass, &usr.Name, &usr.LastName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storerrros.ErrUserNotFound
		}
		log.Error().Err(err).Msg("failed scan db data")
		return models.User{}, err
	}
	return usr, nil
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
