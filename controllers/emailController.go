package controllers

import (
	_ "embed"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/services"
)

//go:embed views/email-verification-success.html
var verificationSuccessPage string

// EmailController consumes the verification link sent at signup.
type EmailController struct {
	Users  UserStore
	Tokens TokenSigner
}

func NewEmailController(users UserStore, tokens TokenSigner) *EmailController {
	return &EmailController{Users: users, Tokens: tokens}
}

// VerifyEmailHandler consumes the token from the verification link and
// flips emailVerified. The response is an HTML page since the link is
// opened in a browser, not by the SPA.
func (ec *EmailController) VerifyEmailHandler(ctx *gin.Context) {
	token := ctx.Query("token")

	email, err := ec.Tokens.VerifyEmailToken(token)
	if err != nil {
		log.Printf("Email verification failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during email verification"})
		return
	}

	if err := ec.Users.MarkEmailVerified(email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
			return
		}
		log.Printf("Failed to mark %s verified: %v", email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during email verification"})
		return
	}

	page := strings.ReplaceAll(verificationSuccessPage, "{{email}}", email)
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
