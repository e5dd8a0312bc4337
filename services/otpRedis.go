package services

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisOTPStore is the preferred backing: one SET with a native 120s expiry
// per email, so superseding a pending challenge is race-free and the client
// never holds anything it could forge.
type RedisOTPStore struct {
	RDB *redis.Client
}

func NewRedisOTPStore(rdb *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{RDB: rdb}
}

func otpKey(email string) string {
	return "otp:" + email
}

func (s *RedisOTPStore) Issue(c *gin.Context, email string, rememberMe bool) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	if err := s.RDB.Set(c.Request.Context(), otpKey(email), code, OTPTTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

func (s *RedisOTPStore) Check(c *gin.Context, email, code string) (OTPResult, error) {
	stored, err := s.RDB.Get(c.Request.Context(), otpKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// The key either never existed or expiry removed it.
			return OTPExpired, nil
		}
		return OTPInvalid, err
	}

	if stored != code {
		return OTPInvalid, nil
	}

	if err := s.RDB.Del(c.Request.Context(), otpKey(email)).Err(); err != nil {
		return OTPInvalid, err
	}
	return OTPValid, nil
}
