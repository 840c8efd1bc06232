package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rag-document-backend/internal/config"
	"rag-document-backend/internal/store"
	"rag-document-backend/models"
	"rag-document-backend/utils"
)

// SetupAuthRoutes registers the unauthenticated register/login
// endpoints.
func SetupAuthRoutes(router *gin.Engine, cfg *config.Config, users UserStore) {
	router.POST("/register", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_input",
				"Invalid request data", gin.H{"error": err.Error()})
			return
		}

		hashedPassword, err := utils.HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to process password", nil)
			return
		}

		now := time.Now()
		user := &models.User{
			ID:           uuid.New(),
			Email:        req.Email,
			PasswordHash: hashedPassword,
			FullName:     req.FullName,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		if err := users.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrEmailExists) {
				utils.RespondWithError(c, http.StatusBadRequest, "email_exists",
					"Email already registered", nil)
				return
			}
			utils.RespondWithInternalError(c, "Failed to create user", err.Error())
			return
		}

		token, err := utils.GenerateJWT(user.Email, cfg.JWTSecret, tokenTTL(cfg))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate token", nil)
			return
		}

		c.JSON(http.StatusCreated, models.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	})

	router.POST("/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_input",
				"Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		// Unknown email and wrong password produce the identical
		// response so callers cannot probe which emails exist.
		user, err := users.GetUserByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				respondInvalidCredentials(c)
				return
			}
			utils.RespondWithInternalError(c, "Failed to look up user", err.Error())
			return
		}

		if !utils.CheckPassword(req.Password, user.PasswordHash) {
			respondInvalidCredentials(c)
			return
		}

		if !user.IsActive {
			utils.RespondWithError(c, http.StatusBadRequest, "inactive_user",
				"Inactive user account", nil)
			return
		}

		token, err := utils.GenerateJWT(user.Email, cfg.JWTSecret, tokenTTL(cfg))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate token", nil)
			return
		}

		c.JSON(http.StatusOK, models.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	})
}

func respondInvalidCredentials(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	utils.RespondWithError(c, http.StatusUnauthorized, "invalid_credentials",
		"Incorrect email or password", nil)
}

// tokenTTL parses the configured token lifetime, falling back to the
// 30-minute default on a bad value.
func tokenTTL(cfg *config.Config) time.Duration {
	duration, err := time.ParseDuration(cfg.JWTExpiresIn)
	if err != nil || duration <= 0 {
		return utils.DefaultTokenTTL
	}
	return duration
}
