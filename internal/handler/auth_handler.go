package handler

import (
	"net/http"
	"strings"

	"chronicles/backend/internal/database"
	"chronicles/backend/internal/logger"
	"chronicles/backend/internal/mail"
	"chronicles/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username string `json:"username" binding:"required,max=64" example:"susan"`
	Email    string `json:"email" binding:"required,email,max=120" example:"susan@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Username string `json:"username" binding:"required" example:"susan"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// ResetPasswordRequestInput names the account that forgot its password.
type ResetPasswordRequestInput struct {
	Email string `json:"email" binding:"required,email" example:"susan@example.com"`
}

// ResetPasswordInput carries the new password.
type ResetPasswordInput struct {
	Password string `json:"password" binding:"required,min=8" example:"new-password123"`
}

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := svc.Users.Create(c.Request.Context(), strings.TrimSpace(input.Username), strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      429  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := svc.Users.ByUsername(c.Request.Context(), input.Username)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		respondError(c, err, "User not found")
		return
	}
	if user == nil || !user.CheckPassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RequestPasswordReset godoc
// @Summary      Request a password reset
// @Description  Mails a reset token to the account's address. The response does not reveal whether the address is registered.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body ResetPasswordRequestInput true "Account email"
// @Success      202  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Router       /auth/reset_password_request [post]
func RequestPasswordReset(c *gin.Context) {
	var input ResetPasswordRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := svc.Users.ByEmail(c.Request.Context(), strings.TrimSpace(input.Email))
	switch {
	case err == nil:
		token, err := jwt.GenerateResetToken(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		svc.Mailer.SendAsync(mail.PasswordReset(user.Username, user.Email, token))
	case !errors.Is(err, database.ErrNotFound):
		logger.Log.WithError(err).Error("password reset lookup failed")
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Check your email for the instructions to reset your password"})
}

// ResetPassword godoc
// @Summary      Reset a password
// @Description  Sets a new password using a token from the reset mail.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token path string true "Reset token"
// @Param        input body ResetPasswordInput true "New password"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse "Invalid or expired token"
// @Failure      429  {object}  ErrorResponse
// @Router       /auth/reset_password/{token} [post]
func ResetPassword(c *gin.Context) {
	userID, err := jwt.VerifyResetToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := svc.Users.SetPassword(c.Request.Context(), userID, input.Password); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Your password has been reset."})
}
