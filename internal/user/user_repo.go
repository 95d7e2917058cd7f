package user

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
)

type UserRepository interface {
	CreateUser(u *User) error
	GetUserByID(id uint) (*User, error)
	GetUserByUsername(username string) (*User, error)
	ListUsers(p listing.Params) ([]User, int64, error)
	UpdateUser(u *User) error
	DeleteUser(id uint) error
	SetRole(ids []uint, role access.Role) (int64, error)
	ToggleActive(ids []uint, except uint) (int64, error)
	WithTransaction(fn func(UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// ListSpec is the filter/search allow-list of the users collection.
var ListSpec = listing.Spec{
	Filters: map[string]listing.FilterFunc{
		"username":  listing.Exact("username"),
		"email":     listing.ExactFold("email"),
		"role":      listing.Exact("role"),
		"is_active": listing.Bool("is_active"),
	},
	Search: listing.Columns("username", "email"),
	Order:  "id ASC",
}

func (r *userRepository) CreateUser(u *User) error {
	return r.db.Create(u).Error
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

func (r *userRepository) GetUserByUsername(username string) (*User, error) {
	var u User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ListUsers(p listing.Params) ([]User, int64, error) {
	return listing.Find[User](r.db.Model(&User{}), ListSpec, p)
}

func (r *userRepository) UpdateUser(u *User) error {
	return r.db.Save(u).Error
}

// DeleteUser removes the user. Predictions lose their author and are
// unpublished, since a published prediction needs one. Official results the
// user validated block the delete.
func (r *userRepository) DeleteUser(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var validated int64
		if err := tx.Table("results").
			Where("validated_by_id = ? AND status = ?", id, "official").
			Count(&validated).Error; err != nil {
			return err
		}
		if validated > 0 {
			return apperror.DependentsExist(validated, "official results validated by this user")
		}

		if err := tx.Table("results").
			Where("validated_by_id = ?", id).
			UpdateColumn("validated_by_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Table("predictions").
			Where("author_id = ?", id).
			UpdateColumns(map[string]interface{}{
				"author_id":    nil,
				"is_published": false,
				"updated_at":   time.Now().UTC(),
			}).Error; err != nil {
			return err
		}

		res := tx.Delete(&User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("User")
		}
		return nil
	})
}

func (r *userRepository) SetRole(ids []uint, role access.Role) (int64, error) {
	res := r.db.Model(&User{}).
		Where("id IN ?", ids).
		UpdateColumns(map[string]interface{}{"role": role, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// ToggleActive flips is_active on every selected user except one (the caller).
func (r *userRepository) ToggleActive(ids []uint, except uint) (int64, error) {
	res := r.db.Model(&User{}).
		Where("id IN ? AND id <> ?", ids, except).
		UpdateColumns(map[string]interface{}{
			"is_active":  gorm.Expr("NOT is_active"),
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *userRepository) WithTransaction(fn func(UserRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

