package user

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/pkg/apperror"
)

var validate = validator.New()

type User struct {
	models.BaseModel
	Username string      `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email    string      `json:"email" gorm:"size:254"`
	Password string      `json:"-" gorm:"not null"`
	Role     access.Role `json:"role" gorm:"size:10;not null;index"`
	IsActive bool        `json:"is_active" gorm:"not null"`
}

// DisplayName is what other entities show for this user.
func (u *User) DisplayName() string {
	if u == nil {
		return "Anonymous"
	}
	return u.Username
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = access.RoleViewer
	}
	return u.Validate()
}

// Validate checks the row-level rules.
func (u *User) Validate() error {
	fields := map[string]string{}
	if u.Username == "" {
		fields["username"] = "This field may not be blank."
	} else if strings.ContainsAny(u.Username, " \t\n") {
		fields["username"] = "Usernames may not contain whitespace."
	}
	if u.Email != "" {
		if err := validate.Var(u.Email, "email"); err != nil {
			fields["email"] = "Enter a valid email address."
		}
	}
	if !u.Role.Valid() {
		fields["role"] = "Must be one of: admin, editor, viewer."
	}
	if u.Password == "" {
		fields["password"] = "This field may not be blank."
	}
	return apperror.Validation(fields)
}
