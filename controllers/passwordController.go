package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shariquenadim/Jio-EVA-auth/services"
	"github.com/shariquenadim/Jio-EVA-auth/utils"
)

// ResetTokenTTL is the redemption window of a password-reset link.
const ResetTokenTTL = time.Hour

// PasswordController runs the parallel forgot/reset flow.
type PasswordController struct {
	Users   UserStore
	Mail    Mailer
	BaseURL string
}

func NewPasswordController(users UserStore, mail Mailer, baseURL string) *PasswordController {
	return &PasswordController{Users: users, Mail: mail, BaseURL: baseURL}
}

// ForgetPasswordHandler issues an opaque reset token and emails the reset
// link. An unknown email answers 404, which leaks account existence; kept
// because the client UI distinguishes the two messages.
func (pc *PasswordController) ForgetPasswordHandler(ctx *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing email"})
		return
	}

	token := uuid.NewString()
	err := pc.Users.SetResetToken(req.Email, token, time.Now().Add(ResetTokenTTL))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Failed to set reset token for %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while requesting a password reset"})
		return
	}

	url := fmt.Sprintf("%s/reset-password?token=%s", pc.BaseURL, token)
	body := fmt.Sprintf(`Click <strong><a href="%s">here</a></strong> to reset your password. The link expires in 1 hour. <br> If you didn't request this, you can ignore this email.`, url)
	if err := pc.Mail.Send(req.Email, "Reset your password for Jio EVA", body); err != nil {
		log.Printf("Failed to send reset email to %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while requesting a password reset"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "A password reset link has been sent to your email"})
}

// ResetPasswordHandler redeems the token. Mismatched confirmation is 400,
// an unknown or expired token 401, reusing the current password 403.
func (pc *PasswordController) ResetPasswordHandler(ctx *gin.Context) {
	var req struct {
		Token           string `json:"token"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing token or password"})
		return
	}

	if !utils.ValidPassword(req.NewPassword) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password does not meet the complexity requirements"})
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	if err := pc.Users.ResetPassword(req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrResetTokenInvalid), errors.Is(err, services.ErrResetTokenExpired):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token"})
		case errors.Is(err, services.ErrSamePassword):
			ctx.JSON(http.StatusForbidden, gin.H{"error": "New password must be different from the old password"})
		default:
			log.Printf("Password reset failed: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while resetting the password"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}
