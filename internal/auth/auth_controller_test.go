package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/user"
	"github.com/teamup-app/teamup/pkg/utils"
)

type fakeAuthRepo struct {
	usersByPhone map[string]*user.User
	otps         map[string]*OTP
	nextID       uint
	phoneErr     error
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		usersByPhone: make(map[string]*user.User),
		otps:         make(map[string]*OTP),
		nextID:       1,
	}
}

func (f *fakeAuthRepo) CreateUser(u *user.User) error {
	u.ID = f.nextID
	f.nextID++
	copied := *u
	f.usersByPhone[u.Phone] = &copied
	return nil
}

func (f *fakeAuthRepo) GetUserByPhone(phone string) (*user.User, error) {
	if f.phoneErr != nil {
		return nil, f.phoneErr
	}
	u, ok := f.usersByPhone[phone]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeAuthRepo) GetUserByID(id uint) (*user.User, error) {
	for _, u := range f.usersByPhone {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepo) UpdateUser(u *user.User) error {
	copied := *u
	f.usersByPhone[u.Phone] = &copied
	return nil
}

func (f *fakeAuthRepo) SaveOTP(otp *OTP) error {
	copied := *otp
	f.otps[otp.Phone] = &copied
	return nil
}

func (f *fakeAuthRepo) GetLatestOTP(phone string) (*OTP, error) {
	otp, ok := f.otps[phone]
	if !ok {
		return nil, nil
	}
	copied := *otp
	return &copied, nil
}

func (f *fakeAuthRepo) UpdateOTP(otp *OTP) error {
	copied := *otp
	f.otps[otp.Phone] = &copied
	return nil
}

func authTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiryHours = 168
	cfg.SMS.Provider = "log"
	return cfg
}

func setupAuthRouter(repo AuthRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ac := NewAuthController(repo, authTestConfig())
	r := gin.New()
	r.POST("/auth/register", ac.Register)
	r.POST("/auth/login", ac.Login)
	r.POST("/auth/send-code", ac.SendCode)
	r.POST("/auth/verify-code", ac.VerifyCode)
	r.POST("/auth/forgot-password", ac.ForgotPassword)
	r.POST("/auth/reset-password", ac.ResetPassword)
	return r
}

func authJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const testPhone = "+37491234567"

func registerPayload() RegisterRequest {
	return RegisterRequest{
		FirstName: "Aram",
		LastName:  "Petrosyan",
		Phone:     testPhone,
		Password:  "longenough",
		BirthDate: time.Date(1998, 4, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	repo := newFakeAuthRepo()
	r := setupAuthRouter(repo)

	w := authJSON(r, "/auth/register", registerPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	u := repo.usersByPhone[testPhone]
	require.NotNil(t, u)
	assert.False(t, u.Verified)
	assert.Equal(t, user.RolePlayer, u.Role)
	assert.NotEqual(t, "longenough", u.PasswordHash)

	// The password hash never leaves the API.
	assert.NotContains(t, w.Body.String(), u.PasswordHash)
}

func TestRegister_DuplicatePhone(t *testing.T) {
	repo := newFakeAuthRepo()
	r := setupAuthRouter(repo)

	require.Equal(t, http.StatusCreated, authJSON(r, "/auth/register", registerPayload()).Code)
	assert.Equal(t, http.StatusConflict, authJSON(r, "/auth/register", registerPayload()).Code)
}

func TestRegister_LookupErrorIsNotAConflict(t *testing.T) {
	repo := newFakeAuthRepo()
	r := setupAuthRouter(repo)
	repo.phoneErr = errors.New("connection refused")

	w := authJSON(r, "/auth/register", registerPayload())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, repo.usersByPhone)
}

func TestRegister_Validation(t *testing.T) {
	r := setupAuthRouter(newFakeAuthRepo())

	payload := registerPayload()
	payload.Phone = "not-a-phone"
	assert.Equal(t, http.StatusBadRequest, authJSON(r, "/auth/register", payload).Code)

	payload = registerPayload()
	payload.Password = "short"
	assert.Equal(t, http.StatusBadRequest, authJSON(r, "/auth/register", payload).Code)
}

func TestLogin_RejectsUnverified(t *testing.T) {
	repo := newFakeAuthRepo()
	r := setupAuthRouter(repo)
	require.Equal(t, http.StatusCreated, authJSON(r, "/auth/register", registerPayload()).Code)

	w := authJSON(r, "/auth/login", LoginRequest{Phone: testPhone, Password: "longenough"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	r := setupAuthRouter(repo)
	require.Equal(t, http.StatusCreated, authJSON(r, "/auth/register", registerPayload()).Code)
	repo.usersByPhone[testPhone].Verified = true

	w := authJSON(r, "/auth/login", LoginRequest{Phone: testPhone, Password: "wrongwrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = authJSON(r, "/auth/login", LoginRequest{Phone: "+37499999999", Password: "longenough"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSendCodeAndVerify_IssuesToken(t *testing.T) {
	repo := newFakeAuthRepo()
	r := setupAuthRouter(repo)
	require.Equal(t, http.StatusCreated, authJSON(r, "/auth/register", registerPayload()).Code)

	w := authJSON(r, "/auth/send-code", SendCodeRequest{Phone: testPhone})
	require.Equal(t, http.StatusOK, w.Code)

	code := repo.usersByPhone[testPhone].VerificationCode
	require.Len(t, code, 6)
	require.NotNil(t, repo.otps[testPhone])
	assert.Equal(t, 1, repo.otps[testPhone].Attempt)

	w = authJSON(r, "/auth/verify-code", VerifyCodeRequest{Phone: testPhone, Code: code})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)
	assert.True(t, resp.Data.User.Verified)

	u := repo.usersByPhone[testPhone]
	assert.True(t, u.Verified)
	assert.Empty(t, u.VerificationCode)
	assert.True(t, repo.otps[testPhone].Verified)

	// Verified users can log in now.
	w = authJSON(r, "/auth/login", LoginRequest{Phone: testPhone, Password: "longenough"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyCode_WrongAndExpired(t *testing.T) {
	repo := newFakeAuthRepo()
	r := setupAuthRouter(repo)
	require.Equal(t, http.StatusCreated, authJSON(r, "/auth/register", registerPayload()).Code)
	require.Equal(t, http.StatusOK, authJSON(r, "/auth/send-code", SendCodeRequest{Phone: testPhone}).Code)

	w := authJSON(r, "/auth/verify-code", VerifyCodeRequest{Phone: testPhone, Code: "000000"})
	if repo.usersByPhone[testPhone].VerificationCode == "000000" {
		t.Skip("generated code collided with the test constant")
	}
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, repo.usersByPhone[testPhone].Verified)

	// Walk the expiry into the past.
	u := repo.usersByPhone[testPhone]
	expired := time.Now().Add(-time.Minute)
	u.VerificationCodeExpires = &expired

	w = authJSON(r, "/auth/verify-code", VerifyCodeRequest{Phone: testPhone, Code: u.VerificationCode})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestSendCode_CooldownAfterTooManyAttempts(t *testing.T) {
	repo := newFakeAuthRepo()
	r := setupAuthRouter(repo)
	require.Equal(t, http.StatusCreated, authJSON(r, "/auth/register", registerPayload()).Code)

	repo.otps[testPhone] = &OTP{
		Phone:     testPhone,
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
		Attempt:   maxOTPSendAttempts,
	}
	repo.otps[testPhone].UpdatedAt = time.Now()

	w := authJSON(r, "/auth/send-code", SendCodeRequest{Phone: testPhone})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestResetPassword_Flow(t *testing.T) {
	repo := newFakeAuthRepo()
	r := setupAuthRouter(repo)
	require.Equal(t, http.StatusCreated, authJSON(r, "/auth/register", registerPayload()).Code)
	repo.usersByPhone[testPhone].Verified = true

	require.Equal(t, http.StatusOK, authJSON(r, "/auth/forgot-password", ForgotPasswordRequest{Phone: testPhone}).Code)
	code := repo.usersByPhone[testPhone].VerificationCode
	require.Len(t, code, 6)

	w := authJSON(r, "/auth/reset-password", ResetPasswordRequest{
		Phone: testPhone, Code: code, NewPassword: "freshpassword",
	})
	require.Equal(t, http.StatusOK, w.Code)

	u := repo.usersByPhone[testPhone]
	assert.True(t, utils.CheckPassword(u.PasswordHash, "freshpassword"))
	assert.Empty(t, u.VerificationCode)
}
