package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/middleware"
	"github.com/shariquenadim/Jio-EVA-auth/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authTestEnv struct {
	router *gin.Engine
	users  *fakeUserStore
	otp    *fakeOTPStore
	mail   *fakeMailer
	tokens *services.TokenService
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newFakeUserStore()
	otp := &fakeOTPStore{}
	mail := &fakeMailer{}
	tokens := services.NewTokenService("test-secret")

	auth := NewAuthController(users, otp, tokens, mail, "http://localhost:3000")
	email := NewEmailController(users, tokens)

	router := gin.New()
	router.POST("/signup", auth.SignupHandler)
	router.GET("/verify-email", email.VerifyEmailHandler)
	router.POST("/login", auth.LoginHandler)
	router.POST("/otp", auth.VerifyOTPHandler)
	router.POST("/logout", auth.LogoutHandler)
	router.GET("/me", middleware.CurrentUser(tokens), auth.MeHandler)

	return &authTestEnv{router: router, users: users, otp: otp, mail: mail, tokens: tokens}
}

func (env *authTestEnv) do(method, path string, body gin.H, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func signupBody(email, phone string) gin.H {
	return gin.H{
		"name":            "Ann",
		"email":           email,
		"phone":           phone,
		"password":        "Abc@1234",
		"confirmPassword": "Abc@1234",
	}
}

// signupVerified registers a user and marks the email verified, the state
// a password login requires.
func (env *authTestEnv) signupVerified(t *testing.T, email, phone string) {
	t.Helper()
	w := env.do(http.MethodPost, "/signup", signupBody(email, phone))
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, env.users.MarkEmailVerified(email))
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestSignupWeakPassword(t *testing.T) {
	env := newAuthTestEnv(t)

	body := signupBody("ann@x.com", "9999999999")
	body["password"] = "abc12345"
	body["confirmPassword"] = "abc12345"

	w := env.do(http.MethodPost, "/signup", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "complexity requirements")
	assert.Empty(t, env.mail.sent)
}

func TestSignupPasswordMismatch(t *testing.T) {
	env := newAuthTestEnv(t)

	body := signupBody("ann@x.com", "9999999999")
	body["confirmPassword"] = "Abc@1235"

	w := env.do(http.MethodPost, "/signup", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match")
}

func TestSignupMissingFields(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodPost, "/signup", gin.H{"email": "ann@x.com", "password": "Abc@1234", "confirmPassword": "Abc@1234"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupSuccess(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodPost, "/signup", signupBody("ann@x.com", "9999999999"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User created successfully")

	user, err := env.users.FindByEmail("ann@x.com")
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
	assert.NotEqual(t, "Abc@1234", user.Password)
	assert.True(t, env.users.CheckPasswordHash("Abc@1234", user.Password))

	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "ann@x.com", env.mail.sent[0].To)
	assert.Equal(t, "Verify your Email ID for JIO EVA", env.mail.sent[0].Subject)
	assert.Contains(t, env.mail.sent[0].Body, "/verify-email?token=")
}

func TestSignupDuplicate(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodPost, "/signup", signupBody("ann@x.com", "9999999999"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Same email.
	w = env.do(http.MethodPost, "/signup", signupBody("ann@x.com", "8888888888"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")

	// Same phone, different email.
	w = env.do(http.MethodPost, "/signup", signupBody("bob@x.com", "9999999999"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
}

func TestSignupMailFailure(t *testing.T) {
	env := newAuthTestEnv(t)
	env.mail.err = fmt.Errorf("relay down")

	w := env.do(http.MethodPost, "/signup", signupBody("ann@x.com", "9999999999"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestVerifyEmail(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodPost, "/signup", signupBody("ann@x.com", "9999999999"))
	require.Equal(t, http.StatusCreated, w.Code)

	link := regexp.MustCompile(`token=([\w.\-]+)`).FindStringSubmatch(env.mail.sent[0].Body)
	require.Len(t, link, 2)

	w = env.do(http.MethodGet, "/verify-email?token="+link[1], nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "ann@x.com")

	user, err := env.users.FindByEmail("ann@x.com")
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
}

func TestVerifyEmailInvalidToken(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodGet, "/verify-email?token=garbage", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestVerifyEmailUnknownUser(t *testing.T) {
	env := newAuthTestEnv(t)

	token, err := env.tokens.SignEmailToken("ghost@x.com", services.TokenTTL)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/verify-email?token="+token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestLoginUnknownUser(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodPost, "/login", gin.H{"email": "ghost@x.com", "password": "Abc@1234"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestLoginUnverifiedEmail(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodPost, "/signup", signupBody("ann@x.com", "9999999999"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Correct password, but the email was never verified.
	w = env.do(http.MethodPost, "/login", gin.H{"email": "ann@x.com", "password": "Abc@1234"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email address not verified")
	assert.Empty(t, env.otp.issuedTo)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newAuthTestEnv(t)
	env.signupVerified(t, "ann@x.com", "9999999999")

	w := env.do(http.MethodPost, "/login", gin.H{"email": "ann@x.com", "password": "Wrong@123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
	assert.Empty(t, env.otp.issuedTo)
}

func TestLoginSuccessIssuesOTP(t *testing.T) {
	env := newAuthTestEnv(t)
	env.signupVerified(t, "ann@x.com", "9999999999")
	env.mail.sent = nil

	w := env.do(http.MethodPost, "/login", gin.H{"email": "ann@x.com", "password": "Abc@1234", "rememberMe": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "An otp has been sent to your email")

	assert.Equal(t, []string{"ann@x.com"}, env.otp.issuedTo)

	emailCookie := cookieByName(w, "email")
	require.NotNil(t, emailCookie)
	assert.Equal(t, "ann@x.com", emailCookie.Value)
	assert.True(t, emailCookie.HttpOnly)

	rememberCookie := cookieByName(w, "rememberMe")
	require.NotNil(t, rememberCookie)
	assert.Equal(t, "true", rememberCookie.Value)

	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "OTP For Login in Jio EVA", env.mail.sent[0].Subject)
	assert.Contains(t, env.mail.sent[0].Body, "123456")
}

func TestVerifyOTPNoChallenge(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodPost, "/otp", gin.H{"otp": "123456"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No pending login challenge")
}

func TestVerifyOTPInvalid(t *testing.T) {
	env := newAuthTestEnv(t)
	env.otp.result = services.OTPInvalid

	w := env.do(http.MethodPost, "/otp", gin.H{"otp": "000000"},
		&http.Cookie{Name: "email", Value: "ann@x.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid OTP")
}

func TestVerifyOTPExpired(t *testing.T) {
	env := newAuthTestEnv(t)
	env.otp.result = services.OTPExpired

	w := env.do(http.MethodPost, "/otp", gin.H{"otp": "123456"},
		&http.Cookie{Name: "email", Value: "ann@x.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "OTP expired")
}

func TestVerifyOTPSuccess(t *testing.T) {
	env := newAuthTestEnv(t)
	env.otp.result = services.OTPValid

	w := env.do(http.MethodPost, "/otp", gin.H{"otp": "123456"},
		&http.Cookie{Name: "email", Value: "ann@x.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp.Message)

	email, err := env.tokens.VerifyEmailToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", email)

	tokenCookie := cookieByName(w, "token")
	require.NotNil(t, tokenCookie)
	assert.Equal(t, resp.Token, tokenCookie.Value)
	assert.Equal(t, 0, tokenCookie.MaxAge)

	// The consumed challenge cookies are cleared.
	emailCookie := cookieByName(w, "email")
	require.NotNil(t, emailCookie)
	assert.Less(t, emailCookie.MaxAge, 0)
}

func TestVerifyOTPRememberMePersistsSession(t *testing.T) {
	env := newAuthTestEnv(t)
	env.otp.result = services.OTPValid

	w := env.do(http.MethodPost, "/otp", gin.H{"otp": "123456"},
		&http.Cookie{Name: "email", Value: "ann@x.com"},
		&http.Cookie{Name: "rememberMe", Value: "true"})
	require.Equal(t, http.StatusOK, w.Code)

	tokenCookie := cookieByName(w, "token")
	require.NotNil(t, tokenCookie)
	assert.Equal(t, int(services.TokenTTL.Seconds()), tokenCookie.MaxAge)
}

func TestLogoutClearsSessionCookie(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")

	tokenCookie := cookieByName(w, "token")
	require.NotNil(t, tokenCookie)
	assert.Less(t, tokenCookie.MaxAge, 0)
}

func TestMe(t *testing.T) {
	env := newAuthTestEnv(t)
	env.signupVerified(t, "ann@x.com", "9999999999")

	token, err := env.tokens.SignEmailToken("ann@x.com", services.TokenTTL)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/me", nil, &http.Cookie{Name: "token", Value: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ann@x.com")
	// Credential fields never leave the server.
	assert.NotContains(t, w.Body.String(), "password")
}

func TestMeMissingToken(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeExpiredToken(t *testing.T) {
	env := newAuthTestEnv(t)
	env.signupVerified(t, "ann@x.com", "9999999999")

	token, err := env.tokens.SignEmailToken("ann@x.com", -time.Minute)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/me", nil, &http.Cookie{Name: "token", Value: token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeUserGone(t *testing.T) {
	env := newAuthTestEnv(t)

	// A valid token whose user no longer exists is still unauthorized.
	token, err := env.tokens.SignEmailToken("ghost@x.com", services.TokenTTL)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/me", nil, &http.Cookie{Name: "token", Value: token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User does not exist")
}
