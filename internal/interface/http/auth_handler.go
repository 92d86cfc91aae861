package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/budgetwise/backend/internal/application"
	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/pkg/response"
	"github.com/budgetwise/backend/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,pwd"`
}

// userProjection is the subset of user fields safe to return to a client.
// Never the password hash, never the reset-token internals.
type userProjection struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func projectUser(u *entity.User) userProjection {
	return userProjection{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, "user already exists", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "error creating user", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"token": token,
		"user":  projectUser(u),
	}, "user registered", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusBadRequest, "invalid credentials", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "error logging in", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  projectUser(u),
	}, "login successful", nil)
}

// ForgotPassword POST /api/auth/forgot-password
// Always answers 200 with the same message so the endpoint cannot be used to
// probe which emails have accounts.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "error processing request", nil)
		return
	}

	response.Success[any](c, http.StatusOK, nil, "password reset instructions sent to email", nil)
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, application.ErrResetTokenInvalid) {
			response.Error[any](c, http.StatusBadRequest, "invalid or expired reset token", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "error resetting password", nil)
		return
	}

	response.Success[any](c, http.StatusOK, nil, "password successfully reset", nil)
}
