package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"company-onboarding/app/config"
	"company-onboarding/app/models"
	"company-onboarding/app/store"
	"company-onboarding/app/utils"
	"company-onboarding/app/verification"
)

const invalidMobileMsg = "Invalid mobile number format. Use international format like +1234567890 or +919876543210"

// OTPService issues SMS codes and exchanges confirmed codes for uid tickets.
type OTPService interface {
	Request(ctx context.Context, phone string) error
	Confirm(ctx context.Context, phone, code string) (string, error)
}

func Register(users store.UserStore, hasher *utils.Hasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, bindMessage(err))
			return
		}
		email := strings.ToLower(utils.Sanitize(req.Email))
		mobile := utils.Sanitize(req.MobileNo)
		if !utils.ValidPhoneNumber(mobile) {
			fail(c, http.StatusBadRequest, invalidMobileMsg)
			return
		}
		signup := req.SignupType
		if signup == "" {
			signup = "e"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if _, err := users.FindUserByEmail(ctx, email); err == nil {
			fail(c, http.StatusBadRequest, "Email already registered")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			serverError(c, "register lookup", err)
			return
		}

		pw, err := hasher.Hash(req.Password)
		if errors.Is(err, utils.ErrPasswordTooLong) {
			fail(c, http.StatusBadRequest, "Password max 72 bytes")
			return
		}
		if err != nil {
			serverError(c, "register hash", err)
			return
		}
		u := &models.User{
			Email:        email,
			PasswordHash: pw,
			FullName:     utils.Sanitize(req.FullName),
			SignupType:   signup,
			Gender:       req.Gender,
			MobileNo:     utils.NormalizePhoneNumber(mobile),
		}
		if err := users.CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrEmailTaken) {
				fail(c, http.StatusBadRequest, "Email already registered")
				return
			}
			serverError(c, "register insert", err)
			return
		}

		var resp models.RegisterResponse
		resp.Success = true
		resp.Message = "User registered successfully. Please verify mobile OTP."
		resp.Data.UserID = u.ID
		c.JSON(http.StatusOK, resp)
	}
}

func Login(cfg config.Config, users store.UserStore, hasher *utils.Hasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, bindMessage(err))
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		u, err := users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
		if errors.Is(err, store.ErrNotFound) || (err == nil && !hasher.Verify(u.PasswordHash, req.Password)) {
			fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			serverError(c, "login lookup", err)
			return
		}
		token, err := utils.GenerateJWT(cfg.JWTSecret, u.ID, u.Email, cfg.JWTTTL)
		if err != nil {
			serverError(c, "login token", err)
			return
		}
		c.JSON(http.StatusOK, models.LoginResponse{
			Success: true,
			Token:   token,
			User: models.LoginUser{
				ID:       u.ID,
				Email:    u.Email,
				FullName: u.FullName,
				MobileNo: u.MobileNo,
				Gender:   u.Gender,
			},
		})
	}
}

// VerifyMobile marks the user owning the phone number behind uid as mobile
// verified. A nil verifier means no provider is configured.
func VerifyMobile(users store.UserStore, verifier verification.MobileVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VerifyMobileRequest
		_ = c.ShouldBindJSON(&req)
		uid := strings.TrimSpace(req.UID)
		if uid == "" {
			fail(c, http.StatusBadRequest, "uid required")
			return
		}
		if verifier == nil {
			fail(c, http.StatusNotImplemented, "Mobile verification is not configured")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		phone, err := verifier.ResolvePhone(ctx, uid)
		switch {
		case errors.Is(err, verification.ErrInvalidUID):
			fail(c, http.StatusBadRequest, "Invalid UID")
			return
		case errors.Is(err, verification.ErrUnavailable):
			fail(c, http.StatusNotImplemented, "Mobile verification is not configured")
			return
		case err != nil:
			serverError(c, "verify mobile", err)
			return
		}

		u, err := users.FindUserByMobile(ctx, utils.NormalizePhoneNumber(phone))
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			serverError(c, "verify mobile lookup", err)
			return
		}
		verified := true
		u, err = users.UpdateUser(ctx, u.ID, store.UserPatch{IsMobileVerified: &verified})
		if err != nil {
			serverError(c, "verify mobile update", err)
			return
		}
		c.JSON(http.StatusOK, models.VerifyResponse{Success: true, Message: "Mobile verified", User: u})
	}
}

func VerifyEmail(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.Query("email")))
		if email == "" {
			fail(c, http.StatusBadRequest, "email required")
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		u, err := users.FindUserByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			serverError(c, "verify email lookup", err)
			return
		}
		verified := true
		u, err = users.UpdateUser(ctx, u.ID, store.UserPatch{IsEmailVerified: &verified})
		if err != nil {
			serverError(c, "verify email update", err)
			return
		}
		c.JSON(http.StatusOK, models.VerifyResponse{Success: true, Message: "Email verified", User: u})
	}
}

func RequestOTP(otp OTPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if otp == nil {
			fail(c, http.StatusNotImplemented, "OTP delivery is not configured")
			return
		}
		var req models.OTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, bindMessage(err))
			return
		}
		if !utils.ValidPhoneNumber(req.MobileNo) {
			fail(c, http.StatusBadRequest, invalidMobileMsg)
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		err := otp.Request(ctx, utils.NormalizePhoneNumber(req.MobileNo))
		if errors.Is(err, verification.ErrResendThrottled) {
			fail(c, http.StatusTooManyRequests, "OTP recently sent, try again later")
			return
		}
		if err != nil {
			serverError(c, "request otp", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent"})
	}
}

func ConfirmOTP(otp OTPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if otp == nil {
			fail(c, http.StatusNotImplemented, "OTP delivery is not configured")
			return
		}
		var req models.OTPConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, bindMessage(err))
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		uid, err := otp.Confirm(ctx, utils.NormalizePhoneNumber(req.MobileNo), strings.TrimSpace(req.Code))
		switch {
		case errors.Is(err, verification.ErrInvalidCode):
			fail(c, http.StatusBadRequest, "Invalid OTP")
			return
		case errors.Is(err, verification.ErrTooManyAttempts):
			fail(c, http.StatusTooManyRequests, "Too many attempts, request a new OTP")
			return
		case err != nil:
			serverError(c, "confirm otp", err)
			return
		}
		c.JSON(http.StatusOK, models.Envelope[gin.H]{Success: true, Data: gin.H{"uid": uid}})
	}
}
