package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rag-document-backend/internal/config"
	"rag-document-backend/internal/store"
	"rag-document-backend/models"
	"rag-document-backend/utils"
)

// UserResolver resolves a token subject to a user row.
type UserResolver interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthMiddleware struct {
	config *config.Config
	users  UserResolver
}

func NewAuthMiddleware(cfg *config.Config, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{
		config: cfg,
		users:  users,
	}
}

// RequireAuth validates the bearer token and resolves the subject to a
// user before any handler logic touches user-owned data. Missing,
// malformed, invalid, and expired tokens all produce the same 401.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := utils.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			utils.RespondWithUnauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		email, err := utils.ValidateJWT(tokenString, a.config.JWTSecret)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		user, err := a.users.GetUserByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				utils.RespondWithUnauthorized(c, "Could not validate credentials")
			} else {
				utils.RespondWithInternalError(c, "Failed to resolve user", err.Error())
			}
			c.Abort()
			return
		}

		// Activity is enforced at login; the resolved row is kept here
		// so handlers (or a future is_active gate) can read it.
		c.Set("user_email", user.Email)
		c.Set("user_id", user.ID)

		c.Next()
	}
}

// GetUserEmail retrieves the authenticated user's email from context.
func GetUserEmail(c *gin.Context) string {
	if email, exists := c.Get("user_email"); exists {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}

// GetUserID retrieves the authenticated user's id from context.
func GetUserID(c *gin.Context) uuid.UUID {
	if id, exists := c.Get("user_id"); exists {
		if u, ok := id.(uuid.UUID); ok {
			return u
		}
	}
	return uuid.Nil
}
