package services

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// OTPTTL is the window inside which a pending login code is accepted.
const OTPTTL = 2 * time.Minute

// OTPResult classifies a submitted code. Invalid and Expired stay distinct
// so the client can tell the user which happened.
type OTPResult int

const (
	OTPValid OTPResult = iota
	OTPInvalid
	OTPExpired
)

// OTPStore holds the pending second factor of a login attempt, one active
// challenge per email. Issue supersedes any prior challenge for the email;
// a Valid Check consumes the challenge so the code cannot be replayed.
// The gin context is passed through so the cookie backing can carry its
// state on the client; the server-side backings only use its request
// context.
type OTPStore interface {
	Issue(c *gin.Context, email string, rememberMe bool) (string, error)
	Check(c *gin.Context, email, code string) (OTPResult, error)
}

// GenerateOTP draws a 6-digit code in [100000, 999999] from crypto/rand.
func GenerateOTP() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint32(b[:])
	return fmt.Sprintf("%d", 100000+n%900000), nil
}
