package services

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieOTPStore keeps the challenge on the client: the code and its issue
// time travel in httpOnly cookies and come back with the /otp submission.
// The server trusts the client-presented timestamp, which is exactly why
// the server-side backings are preferred; the expiry check still applies
// either way.
type CookieOTPStore struct{}

func NewCookieOTPStore() *CookieOTPStore {
	return &CookieOTPStore{}
}

func (s *CookieOTPStore) Issue(c *gin.Context, email string, rememberMe bool) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}

	// The cookies outlive the validity window so a late submission of the
	// right code reports expired rather than invalid.
	maxAge := int((5 * OTPTTL).Seconds())
	c.SetCookie("otp", code, maxAge, "/", "", false, true)
	c.SetCookie("otp_time", strconv.FormatInt(time.Now().UnixMilli(), 10), maxAge, "/", "", false, true)
	return code, nil
}

func (s *CookieOTPStore) Check(c *gin.Context, email, code string) (OTPResult, error) {
	stored, err := c.Cookie("otp")
	if err != nil || stored != code {
		return OTPInvalid, nil
	}

	issuedAt, err := c.Cookie("otp_time")
	if err != nil {
		return OTPInvalid, nil
	}
	ms, err := strconv.ParseInt(issuedAt, 10, 64)
	if err != nil || time.Since(time.UnixMilli(ms)) >= OTPTTL {
		return OTPExpired, nil
	}

	// Consume the challenge.
	c.SetCookie("otp", "", -1, "/", "", false, true)
	c.SetCookie("otp_time", "", -1, "/", "", false, true)
	return OTPValid, nil
}
