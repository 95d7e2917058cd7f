package auth

import (
	"errors"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/user"
)

// AuthRepository is the read-only view of the user table the token
// endpoints need.
type AuthRepository interface {
	GetUserByUsername(username string) (*user.User, error)
	GetActiveUserByID(id uint) (*user.User, error)
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) GetUserByUsername(username string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetActiveUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := r.db.Where("id = ? AND is_active = ?", id, true).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
