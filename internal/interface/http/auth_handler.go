package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-medicine-tracker/internal/application"
	"github.com/oksasatya/go-medicine-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-medicine-tracker/pkg/response"
)

type AuthHandler struct {
	Auth        *application.AuthService
	Revocations *application.RevocationService
	Logger      *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, revocations *application.RevocationService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Revocations: revocations, Logger: logger}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toAuthResponse(res), "registered", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAuthResponse(res), "login successful", nil)
}

// ForgotPassword POST /api/auth/forgot-password
// Sets the new password directly and returns a fresh token. Every token issued
// before the change stops validating.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Auth.ResetPassword(c.Request.Context(), req.Email, req.NewPassword)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAuthResponse(res), "password updated", nil)
}

// Logout POST /api/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		fail(c, h.Logger, application.ErrAuthRequired)
		return
	}
	if err := h.Revocations.Revoke(c.Request.Context(), id.Token, id.UserID, id.ExpiresAt); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
