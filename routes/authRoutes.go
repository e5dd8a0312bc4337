package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/controllers"
	"github.com/shariquenadim/Jio-EVA-auth/middleware"
)

// SetupAuthRoutes registers the account and session endpoints.
func SetupAuthRoutes(
	router *gin.Engine,
	auth *controllers.AuthController,
	email *controllers.EmailController,
	password *controllers.PasswordController,
	tokens middleware.TokenVerifier,
) {
	router.POST("/signup", auth.SignupHandler)
	router.GET("/verify-email", email.VerifyEmailHandler)
	router.POST("/login", auth.LoginHandler)
	router.POST("/otp", auth.VerifyOTPHandler)
	router.POST("/logout", auth.LogoutHandler)
	router.GET("/me", middleware.CurrentUser(tokens), auth.MeHandler)

	router.POST("/forget-password", password.ForgetPasswordHandler)
	router.POST("/reset-password", password.ResetPasswordHandler)
}
