package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-onboarding/app/models"
	"company-onboarding/app/store"
	"company-onboarding/app/utils"
)

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := store.NewMemory()
	u := &models.User{Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, users.CreateUser(context.Background(), u))

	valid, err := utils.GenerateJWT("secret", u.ID, u.Email, time.Hour)
	require.NoError(t, err)
	ghost, err := utils.GenerateJWT("secret", 999, "ghost@x.com", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/p", Auth("secret", users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetInt64(UserIDKey), "email": CurrentUser(c).Email})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Missing Authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Invalid Authorization header"},
		{"extra parts", "Bearer a b", http.StatusUnauthorized, "Invalid Authorization header"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"unknown user", "Bearer " + ghost, http.StatusUnauthorized, "Invalid token: user not found"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
				assert.Equal(t, false, body["success"])
			} else {
				assert.Equal(t, "a@x.com", body["email"])
				assert.Equal(t, float64(u.ID), body["id"])
			}
		})
	}
}

type brokenUsers struct{ store.UserStore }

func (brokenUsers) FindUserByID(context.Context, int64) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuth_LookupFailureIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token, err := utils.GenerateJWT("secret", 1, "a@x.com", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/p", Auth("secret", brokenUsers{}), func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body["message"])
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
