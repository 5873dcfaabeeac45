package middlewares

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"company-onboarding/app/models"
	"company-onboarding/app/store"
	"company-onboarding/app/utils"
)

const (
	UserIDKey = "user_id"
	UserKey   = "user"
)

// Auth requires "Authorization: Bearer <jwt>" naming an existing user.
func Auth(secret string, users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			unauthorized(c, "Missing Authorization header")
			return
		}
		parts := strings.Split(h, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			unauthorized(c, "Invalid Authorization header")
			return
		}
		claims, err := utils.ParseJWT(secret, parts[1])
		if err != nil {
			unauthorized(c, "Invalid token")
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		u, err := users.FindUserByID(ctx, claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			unauthorized(c, "Invalid token: user not found")
			return
		}
		if err != nil {
			log.Printf("auth user lookup: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
			return
		}
		c.Set(UserIDKey, u.ID)
		c.Set(UserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user attached by Auth.
func CurrentUser(c *gin.Context) *models.User {
	u, _ := c.Get(UserKey)
	user, _ := u.(*models.User)
	return user
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msg})
}
