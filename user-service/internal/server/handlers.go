package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adrwal/bookshop/user-service/internal/domain/models"
	"github.com/adrwal/bookshop/user-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/user-service/internal/storage/errors"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Pass     string `json:"pass" validate:"required,min=8"`
	Name     string `json:"name"`
	LastName string `json:"lastname"`
}

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Pass  string `json:"pass" validate:"required"`
}

func (s *Server) Register(ctx *gin.Context) {
	log := logger.Get()

	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("unmarshal body failed")
		ctx.String(http.StatusBadRequest, "incorrectly entered data")
		return
	}
	if err := s.valid.Struct(req); err != nil {
		log.Error().Err(err).Msg("validate register request failed")
		ctx.String(http.StatusBadRequest, "incorrectly entered data")
		return
	}

	uid, err := s.Storage.SaveUser(models.User{
		Email:    req.Email,
		Pass:     req.Pass,
		Name:     req.Name,
		LastName: req.LastName,
	})
	if err != nil {
		if errors.Is(err, storerrros.ErrUserExists) {
			ctx.String(http.StatusConflict, "User already exists")
			return
		}
		log.Error().Err(err).Msg("save user failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := s.createJWTToken(uid)
	if err != nil {
		log.Error().Err(err).Msg("create jwt failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Authorization", "Bearer "+token)
	ctx.JSON(http.StatusCreated, gin.H{"uid": uid, "token": token})
}

func (s *Server) Login(ctx *gin.Context) {
	log := logger.Get()

	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("unmarshal body failed")
		ctx.String(http.StatusBadRequest, "incorrectly entered data")
		return
	}

	uid, err := s.Storage.ValidUser(req.Email, req.Pass)
	if err != nil {
		if errors.Is(err, storerrros.ErrUserNotFound) {
			log.Error().Err(err).Msg("user not found")
			ctx.String(http.StatusNotFound, "invalid login or password")
			return
		}
		if errors.Is(err, storerrros.ErrInvalidPassword) {
			log.Error().Err(err).Msg("invalid pass")
			ctx.String(http.StatusUnauthorized, err.Error())
			return
		}
		log.Error().Err(err).Msg("validate user failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := s.createJWTToken(uid)
	if err != nil {
		log.Error().Err(err).Msg("create jwt failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Authorization", "Bearer "+token)
	ctx.JSON(http.StatusOK, gin.H{"uid": uid, "token": token})
}

func (s *Server) UserInfo(ctx *gin.Context) {
	log := logger.Get()

	uid := ctx.GetString("uid")
	user, err := s.Storage.GetUser(uid)
	if err != nil {
		if errors.Is(err, storerrros.ErrUserNotFound) {
			ctx.String(http.StatusNotFound, err.Error())
			return
		}
		log.Error().Err(err).Msg("failed get user from db")
		ctx.String(http.StatusInternalServerError, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, user)
}
