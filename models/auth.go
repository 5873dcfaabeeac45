package models

type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8,max=72"`
	FullName   string `json:"full_name" binding:"required"`
	Gender     string `json:"gender" binding:"required,oneof=m f o"`
	MobileNo   string `json:"mobile_no" binding:"required"`
	SignupType string `json:"signup_type" binding:"omitempty,oneof=e g"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		UserID int64 `json:"user_id"`
	} `json:"data"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser is the user projection returned alongside a token.
type LoginUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	MobileNo string `json:"mobile_no,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

type LoginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

type VerifyMobileRequest struct {
	UID string `json:"uid"`
}

type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

type OTPRequest struct {
	MobileNo string `json:"mobile_no" binding:"required"`
}

type OTPConfirmRequest struct {
	MobileNo string `json:"mobile_no" binding:"required"`
	Code     string `json:"code" binding:"required"`
}
