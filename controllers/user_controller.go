package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"company-onboarding/app/middlewares"
	"company-onboarding/app/models"
)

func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Company onboarding API running"})
	}
}

// Me returns the authenticated user.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.Envelope[*models.User]{Success: true, Data: middlewares.CurrentUser(c)})
	}
}

func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Not Found")
	}
}
