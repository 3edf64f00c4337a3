package storage

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adrwal/bookshop/user-service/internal/domain/models"
	"github.com/adrwal/bookshop/user-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/user-service/internal/storage/errors"
)

type MemStorage struct {
	userStor map[string]models.User
	emails   map[string]string
}

func New() *MemStorage {
	return &MemStorage{
		userStor: make(map[string]models.User),
		emails:   make(map[string]string),
	}
}

func (ms *MemStorage) SaveUser(user models.User) (string, error) {
	if _, exists := ms.emails[user.Email]; exists {
		return "", storerrros.ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Pass), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	uid := uuid.New().String()
	user.UID = uid
	user.Pass = string(hash)
	ms.userStor[uid] = user
	ms.emails[user.Email] = uid
	return uid, nil
}

func (ms *MemStorage) ValidUser(email, pass string) (string, error) {
	log := logger.Get()
	uid, ok := ms.emails[email]
	if !ok {
		return "", storerrros.ErrUserNotFound
	}
	user := ms.userStor[uid]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Pass), []byte(pass)); err != nil {
		log.Error().Str("email", email).Msg("invalid password")
		return "", storerrros.ErrInvalidPassword
	}
	return uid, nil
}

func (ms *MemStorage) GetUser(uid string) (models.User, error) {
	user, ok := ms.userStor[uid]
	if !ok {
		return models.User{}, storerrros.ErrUserNotFound
	}
	return user, nil
}
