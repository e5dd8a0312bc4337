package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/models"
	"github.com/shariquenadim/Jio-EVA-auth/services"
	"github.com/shariquenadim/Jio-EVA-auth/utils"
)

// UserStore is the slice of the user service the controllers consume;
// tests swap in an in-memory fake.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	Register(user models.User) (*models.User, error)
	CheckPasswordHash(password, hash string) bool
	MarkEmailVerified(email string) error
	SetResetToken(email, token string, expiry time.Time) error
	ResetPassword(token, newPassword string) error
}

// TokenSigner signs and verifies the email-claim tokens used for both the
// verification link and the session.
type TokenSigner interface {
	SignEmailToken(email string, ttl time.Duration) (string, error)
	VerifyEmailToken(token string) (string, error)
}

// Mailer delivers one HTML email. No retry; a failure surfaces to the
// caller.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// AuthController drives the login state machine: signup, password login,
// OTP second factor, session issuance, logout and session introspection.
type AuthController struct {
	Users   UserStore
	OTP     services.OTPStore
	Tokens  TokenSigner
	Mail    Mailer
	BaseURL string
}

func NewAuthController(users UserStore, otp services.OTPStore, tokens TokenSigner, mail Mailer, baseURL string) *AuthController {
	return &AuthController{
		Users:   users,
		OTP:     otp,
		Tokens:  tokens,
		Mail:    mail,
		BaseURL: baseURL,
	}
}

// SignupHandler creates an unverified user and emails the verification
// link. Complexity and confirmation failures are 401, a taken email or
// phone is 400.
func (ac *AuthController) SignupHandler(ctx *gin.Context) {
	var req struct {
		Name            string `json:"name" validate:"required"`
		Email           string `json:"email" validate:"required,email"`
		Phone           string `json:"phone" validate:"required"`
		Password        string `json:"password" validate:"required"`
		ConfirmPassword string `json:"confirmPassword" validate:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := models.Validate.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidPassword(req.Password) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Password does not meet the complexity requirements"})
		return
	}
	if req.Password != req.ConfirmPassword {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Passwords do not match"})
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
	if _, err := ac.Users.Register(user); err != nil {
		if errors.Is(err, services.ErrDuplicateUser) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		log.Printf("Signup failed for %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during signup"})
		return
	}

	token, err := ac.Tokens.SignEmailToken(req.Email, services.TokenTTL)
	if err != nil {
		log.Printf("Failed to sign verification token for %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during signup"})
		return
	}
	url := fmt.Sprintf("%s/verify-email?token=%s", ac.BaseURL, token)
	body := fmt.Sprintf(`Click <strong><a href="%s">here</a></strong> to verify your email address. <br> Please don't share this email with others.`, url)
	if err := ac.Mail.Send(req.Email, "Verify your Email ID for JIO EVA", body); err != nil {
		log.Printf("Failed to send verification email to %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during signup"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "message": "User created successfully"})
}

// LoginHandler is the first half of the login: on a correct password it
// issues an OTP challenge, emails the code, and parks the pending identity
// in cookies for the /otp step. No session exists yet.
func (ac *AuthController) LoginHandler(ctx *gin.Context) {
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		RememberMe bool   `json:"rememberMe"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := ac.Users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Login lookup failed for %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login"})
		return
	}

	if !user.EmailVerified {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email address not verified"})
		return
	}
	if !ac.Users.CheckPasswordHash(req.Password, user.Password) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	code, err := ac.OTP.Issue(ctx, req.Email, req.RememberMe)
	if err != nil {
		log.Printf("Failed to issue OTP for %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login"})
		return
	}

	// The pending-challenge identity travels in cookies regardless of the
	// OTP backing; the /otp step reads them back.
	ctx.SetCookie("email", req.Email, int(services.OTPTTL.Seconds()), "/", "", false, true)
	if req.RememberMe {
		ctx.SetCookie("rememberMe", "true", int(services.OTPTTL.Seconds()), "/", "", false, true)
	}

	body := fmt.Sprintf(`Your new OTP code is <strong>%s</strong>. This OTP is active only for 2 minutes.`, code)
	if err := ac.Mail.Send(req.Email, "OTP For Login in Jio EVA", body); err != nil {
		log.Printf("Failed to send OTP email to %s: %v", req.Email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "An otp has been sent to your email"})
}

// VerifyOTPHandler is the second half of the login: a Valid code mints the
// session token, anything else is 401 with Invalid and Expired kept
// distinguishable for the client.
func (ac *AuthController) VerifyOTPHandler(ctx *gin.Context) {
	var req struct {
		OTP string `json:"otp"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.OTP == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing OTP"})
		return
	}

	email, err := ctx.Cookie("email")
	if err != nil || email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "No pending login challenge"})
		return
	}

	result, err := ac.OTP.Check(ctx, email, req.OTP)
	if err != nil {
		log.Printf("OTP check failed for %s: %v", email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login"})
		return
	}
	switch result {
	case services.OTPInvalid:
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid OTP"})
		return
	case services.OTPExpired:
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "OTP expired"})
		return
	}

	token, err := ac.Tokens.SignEmailToken(email, services.TokenTTL)
	if err != nil {
		log.Printf("Failed to sign session token for %s: %v", email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login"})
		return
	}

	// A remembered session gets a persistent cookie for the token's full
	// lifetime; otherwise the cookie dies with the browser session.
	remembered, _ := ctx.Cookie("rememberMe")
	maxAge := 0
	if remembered == "true" {
		maxAge = int(services.TokenTTL.Seconds())
	}
	ctx.SetCookie("token", token, maxAge, "/", "", false, true)

	// The challenge is consumed, drop its cookies.
	ctx.SetCookie("email", "", -1, "/", "", false, true)
	ctx.SetCookie("rememberMe", "", -1, "/", "", false, true)

	ctx.JSON(http.StatusOK, gin.H{"token": token, "message": "Login successful"})
}

// LogoutHandler clears the client-held session cookie. The token itself
// stays valid until its natural expiry; there is no server-side
// revocation.
func (ac *AuthController) LogoutHandler(ctx *gin.Context) {
	ctx.SetCookie("token", "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// MeHandler returns the user named by the verified session token.
// The middleware has already verified the token and stashed the email.
func (ac *AuthController) MeHandler(ctx *gin.Context) {
	email := ctx.GetString("email")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := ac.Users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User does not exist"})
			return
		}
		log.Printf("Failed to load current user %s: %v", email, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while fetching user details"})
		return
	}

	ctx.JSON(http.StatusOK, user)
}
