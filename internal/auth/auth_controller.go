package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/user"
	"github.com/teamup-app/teamup/pkg/responses"
	"github.com/teamup-app/teamup/pkg/token"
	"github.com/teamup-app/teamup/pkg/utils"
)

const (
	maxOTPSendAttempts = 5 // max sends before cooldown kicks in
	otpCooldownMinutes = 1
	otpExpiryMinutes   = 5
	otpDigits          = 6
)

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, config: cfg}
}

// sendCodeToPhone hands the code to the configured SMS provider. The "log"
// provider just prints it, which is what development and tests use.
func (ac *AuthController) sendCodeToPhone(phone, code string) error {
	if ac.config.SMS.Provider == "log" {
		log.Printf("verification code for %s: %s", phone, code)
		return nil
	}
	return fmt.Errorf("unknown sms provider: %s", ac.config.SMS.Provider)
}

func (ac *AuthController) issueCode(c *gin.Context, u *user.User) bool {
	latest, err := ac.repo.GetLatestOTP(u.Phone)
	if err != nil {
		responses.InternalServerError(c, "Failed to check verification state")
		return false
	}
	if latest != nil && latest.Attempt >= maxOTPSendAttempts &&
		time.Since(latest.UpdatedAt) < otpCooldownMinutes*time.Minute {
		responses.SendError(c, http.StatusTooManyRequests, "Too many code requests, try again later")
		return false
	}

	code := utils.GenerateVerificationCode(otpDigits)
	expires := time.Now().Add(otpExpiryMinutes * time.Minute)

	if latest != nil && !latest.Verified {
		latest.Code = code
		latest.ExpiresAt = expires
		latest.Attempt++
		if err := ac.repo.UpdateOTP(latest); err != nil {
			responses.InternalServerError(c, "Failed to save verification code")
			return false
		}
	} else {
		otp := &OTP{Phone: u.Phone, Code: code, ExpiresAt: expires, Attempt: 1}
		if err := ac.repo.SaveOTP(otp); err != nil {
			responses.InternalServerError(c, "Failed to save verification code")
			return false
		}
	}

	u.VerificationCode = code
	u.VerificationCodeExpires = &expires
	if err := ac.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, "Failed to save verification code")
		return false
	}

	if err := ac.sendCodeToPhone(u.Phone, code); err != nil {
		log.Printf("failed to send verification code to %s: %v", u.Phone, err)
	}
	return true
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an unverified account; a verification code must be requested and confirmed before login.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user body RegisterRequest true "Registration details"
// @Success      201 {object} responses.SuccessResponse{data=UserResponse}
// @Failure      400 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	if _, err := ac.repo.GetUserByPhone(req.Phone); err == nil {
		responses.Conflict(c, "User with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.InternalServerError(c, "Failed to check phone number")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}

	newUser := &user.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: hashed,
		Role:         user.RolePlayer,
		About:        req.About,
		BirthDate:    req.BirthDate,
		Verified:     false,
	}

	if err := ac.repo.CreateUser(newUser); err != nil {
		log.Printf("CreateUser failed: %v", err)
		responses.InternalServerError(c, "User creation failed")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Registered. Verify your phone to log in.", FilterUserRecord(newUser))
}

// Login godoc
// @Summary      Log in with phone and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body LoginRequest true "Login credentials"
// @Success      200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByPhone(req.Phone)
	if err != nil {
		responses.Unauthorized(c, "Invalid phone or password")
		return
	}
	if !utils.CheckPassword(u.PasswordHash, req.Password) {
		responses.Unauthorized(c, "Invalid phone or password")
		return
	}
	if !u.Verified {
		responses.Forbidden(c, "Phone number is not verified")
		return
	}

	signed, err := token.GenerateJWT(u.ID, u.Role, ac.config.JWT.Secret, ac.config.JWT.ExpiryHours)
	if err != nil {
		responses.InternalServerError(c, "Failed to issue token")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Logged in", AuthResponse{
		Token: signed,
		User:  FilterUserRecord(u),
	})
}

// SendCode godoc
// @Summary      Send a phone verification code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        phone body SendCodeRequest true "Phone number"
// @Success      200 {object} responses.SuccessResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      429 {object} responses.ErrorResponse
// @Router       /auth/send-code [post]
func (ac *AuthController) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByPhone(req.Phone)
	if err != nil {
		responses.NotFound(c, "User")
		return
	}

	if ac.issueCode(c, u) {
		responses.SendSuccess(c, http.StatusOK, "Verification code sent", nil)
	}
}

// VerifyCode godoc
// @Summary      Verify a phone with a code and receive a session token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        verification body VerifyCodeRequest true "Phone and code"
// @Success      200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure      400 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /auth/verify-code [post]
func (ac *AuthController) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByPhone(req.Phone)
	if err != nil {
		responses.NotFound(c, "User")
		return
	}

	if u.VerificationCode == "" || u.VerificationCode != req.Code {
		responses.BadRequest(c, "Invalid verification code")
		return
	}
	if u.VerificationCodeExpires == nil || u.VerificationCodeExpires.Before(time.Now()) {
		responses.BadRequest(c, "Verification code has expired")
		return
	}

	u.Verified = true
	u.VerificationCode = ""
	u.VerificationCodeExpires = nil
	if err := ac.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, "Failed to update verification state")
		return
	}

	if otp, _ := ac.repo.GetLatestOTP(u.Phone); otp != nil {
		otp.Verified = true
		if err := ac.repo.UpdateOTP(otp); err != nil {
			log.Printf("failed to mark otp verified for %s: %v", u.Phone, err)
		}
	}

	signed, err := token.GenerateJWT(u.ID, u.Role, ac.config.JWT.Secret, ac.config.JWT.ExpiryHours)
	if err != nil {
		responses.InternalServerError(c, "Failed to issue token")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Phone verified", AuthResponse{
		Token: signed,
		User:  FilterUserRecord(u),
	})
}

// ForgotPassword godoc
// @Summary      Request a password-reset code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        phone body ForgotPasswordRequest true "Phone number"
// @Success      200 {object} responses.SuccessResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /auth/forgot-password [post]
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByPhone(req.Phone)
	if err != nil {
		responses.NotFound(c, "User")
		return
	}

	if ac.issueCode(c, u) {
		responses.SendSuccess(c, http.StatusOK, "Password reset code sent", nil)
	}
}

// ResetPassword godoc
// @Summary      Reset password with a verification code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset body ResetPasswordRequest true "Phone, code and new password"
// @Success      200 {object} responses.SuccessResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /auth/reset-password [post]
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid input: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByPhone(req.Phone)
	if err != nil {
		responses.NotFound(c, "User")
		return
	}

	if u.VerificationCode == "" || u.VerificationCode != req.Code {
		responses.BadRequest(c, "Invalid verification code")
		return
	}
	if u.VerificationCodeExpires == nil || u.VerificationCodeExpires.Before(time.Now()) {
		responses.BadRequest(c, "Verification code has expired")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}

	u.PasswordHash = hashed
	u.VerificationCode = ""
	u.VerificationCodeExpires = nil
	if err := ac.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, "Failed to update password")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Password updated", nil)
}
