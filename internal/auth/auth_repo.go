package auth

import (
	"errors"

	"gorm.io/gorm"

	"github.com/teamup-app/teamup/internal/user"
)

type AuthRepository interface {
	CreateUser(u *user.User) error
	GetUserByPhone(phone string) (*user.User, error)
	GetUserByID(id uint) (*user.User, error)
	UpdateUser(u *user.User) error

	SaveOTP(otp *OTP) error
	GetLatestOTP(phone string) (*OTP, error)
	UpdateOTP(otp *OTP) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *authRepository) GetUserByPhone(phone string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("phone = ?", phone).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) UpdateUser(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *authRepository) SaveOTP(otp *OTP) error {
	return r.db.Create(otp).Error
}

func (r *authRepository) GetLatestOTP(phone string) (*OTP, error) {
	var otp OTP
	err := r.db.Where("phone = ?", phone).Order("created_at desc").First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

func (r *authRepository) UpdateOTP(otp *OTP) error {
	return r.db.Save(otp).Error
}
