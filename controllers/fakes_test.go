package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shariquenadim/Jio-EVA-auth/models"
	"github.com/shariquenadim/Jio-EVA-auth/services"
	"github.com/shariquenadim/Jio-EVA-auth/utils"
)

// fakeUserStore mirrors the user service semantics in memory: it hashes on
// Register, enforces email/phone uniqueness, and redeems reset tokens with
// the same expiry and same-password rules.
type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) FindByEmail(email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) Register(user models.User) (*models.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Phone == user.Phone {
			return nil, services.ErrDuplicateUser
		}
	}

	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed
	user.EmailVerified = false
	user.CreatedAt = time.Now()

	stored := user
	f.users[user.Email] = &stored
	return &user, nil
}

func (f *fakeUserStore) CheckPasswordHash(password, hash string) bool {
	return utils.VerifyPassword(password, hash)
}

func (f *fakeUserStore) MarkEmailVerified(email string) error {
	user, ok := f.users[email]
	if !ok {
		return services.ErrUserNotFound
	}
	user.EmailVerified = true
	return nil
}

func (f *fakeUserStore) SetResetToken(email, token string, expiry time.Time) error {
	user, ok := f.users[email]
	if !ok {
		return services.ErrUserNotFound
	}
	user.ResetToken = token
	user.ResetTokenExpiry = expiry
	return nil
}

func (f *fakeUserStore) ResetPassword(token, newPassword string) error {
	for _, user := range f.users {
		if user.ResetToken != token || token == "" {
			continue
		}
		if time.Now().After(user.ResetTokenExpiry) {
			return services.ErrResetTokenExpired
		}
		if utils.VerifyPassword(newPassword, user.Password) {
			return services.ErrSamePassword
		}
		hashed, err := utils.HashPassword(newPassword)
		if err != nil {
			return err
		}
		user.PreviousPassword = user.Password
		user.Password = hashed
		user.ResetToken = ""
		return nil
	}
	return services.ErrResetTokenInvalid
}

func modelsUser(email, password string) models.User {
	return models.User{Name: "Ann", Email: email, Phone: "9999999999", Password: password}
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// fakeOTPStore scripts the challenge outcome per test.
type fakeOTPStore struct {
	code     string
	issueErr error
	result   services.OTPResult
	checkErr error
	issuedTo []string
}

func (f *fakeOTPStore) Issue(c *gin.Context, email string, rememberMe bool) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.issuedTo = append(f.issuedTo, email)
	if f.code == "" {
		return "123456", nil
	}
	return f.code, nil
}

func (f *fakeOTPStore) Check(c *gin.Context, email, code string) (services.OTPResult, error) {
	return f.result, f.checkErr
}
