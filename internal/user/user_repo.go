package user

import (
	"errors"

	"gorm.io/gorm"
)

// UserRepository defines user and friend-graph data operations.
type UserRepository interface {
	GetUserByID(id uint) (*User, error)
	GetUserByPhone(phone string) (*User, error)
	GetAllUsers() ([]User, error)
	UpdateUser(u *User) error

	// Friend graph. Friendships are stored as two symmetric rows; requests as
	// single directed rows. Membership checks happen here, not by filtering
	// arrays in handlers.
	AreFriends(userID, otherID uint) (bool, error)
	GetFriends(userID uint) ([]User, error)
	CreateFriendship(userID, otherID uint) error
	DeleteFriendship(userID, otherID uint) error

	GetFriendRequest(fromID, toID uint) (*FriendRequest, error)
	GetIncomingRequests(userID uint) ([]User, error)
	GetOutgoingRequests(userID uint) ([]User, error)
	CreateFriendRequest(fromID, toID uint) error
	DeleteFriendRequest(fromID, toID uint) error

	WithTransaction(txFunc func(UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByID(id uint) (*User, error) {
	var u User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetUserByPhone(phone string) (*User, error) {
	var u User
	if err := r.db.Where("phone = ?", phone).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetAllUsers() ([]User, error) {
	var users []User
	if err := r.db.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateUser(u *User) error {
	return r.db.Save(u).Error
}

func (r *userRepository) AreFriends(userID, otherID uint) (bool, error) {
	var count int64
	err := r.db.Model(&Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, otherID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) GetFriends(userID uint) ([]User, error) {
	var friends []User
	err := r.db.Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ? AND friendships.deleted_at IS NULL", userID).
		Find(&friends).Error
	if err != nil {
		return nil, err
	}
	return friends, nil
}

func (r *userRepository) CreateFriendship(userID, otherID uint) error {
	if err := r.db.Create(&Friendship{UserID: userID, FriendID: otherID}).Error; err != nil {
		return err
	}
	return r.db.Create(&Friendship{UserID: otherID, FriendID: userID}).Error
}

func (r *userRepository) DeleteFriendship(userID, otherID uint) error {
	return r.db.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, otherID, otherID, userID).
		Delete(&Friendship{}).Error
}

func (r *userRepository) GetFriendRequest(fromID, toID uint) (*FriendRequest, error) {
	var req FriendRequest
	err := r.db.Where("from_user_id = ? AND to_user_id = ?", fromID, toID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *userRepository) GetIncomingRequests(userID uint) ([]User, error) {
	var users []User
	err := r.db.Joins("JOIN friend_requests ON friend_requests.from_user_id = users.id").
		Where("friend_requests.to_user_id = ? AND friend_requests.deleted_at IS NULL", userID).
		Find(&users).Error
	return users, err
}

func (r *userRepository) GetOutgoingRequests(userID uint) ([]User, error) {
	var users []User
	err := r.db.Joins("JOIN friend_requests ON friend_requests.to_user_id = users.id").
		Where("friend_requests.from_user_id = ? AND friend_requests.deleted_at IS NULL", userID).
		Find(&users).Error
	return users, err
}

func (r *userRepository) CreateFriendRequest(fromID, toID uint) error {
	return r.db.Create(&FriendRequest{FromUserID: fromID, ToUserID: toID}).Error
}

func (r *userRepository) DeleteFriendRequest(fromID, toID uint) error {
	return r.db.Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Delete(&FriendRequest{}).Error
}

func (r *userRepository) WithTransaction(txFunc func(UserRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&userRepository{db: tx})
	})
}
