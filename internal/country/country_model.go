package country

import (
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/pkg/apperror"
)

const (
	MaxNameLength = 100
	CodeLength    = 3
)

type Country struct {
	models.BaseModel
	Name      string `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Code      string `json:"code" gorm:"size:3;uniqueIndex;not null"`
	Slug      string `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	GameCount int64  `json:"game_count" gorm:"-"`
}

// Normalize title-cases the name, upper-cases the code and derives the slug
// if the row has none yet. An existing slug is never replaced.
func (c *Country) Normalize() {
	c.Name = models.NormalizeName(c.Name)
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Slug == "" {
		c.Slug = models.Slugify(c.Name)
	}
}

// Validate checks the row-level rules on a normalized row.
func (c *Country) Validate() error {
	fields := map[string]string{}
	switch {
	case c.Name == "":
		fields["name"] = "This field may not be blank."
	case models.RuneLen(c.Name) > MaxNameLength:
		fields["name"] = "Ensure this field has no more than 100 characters."
	case c.Slug == "":
		fields["name"] = "Name must contain at least one letter or digit."
	}
	if models.RuneLen(c.Code) != CodeLength || strings.IndexFunc(c.Code, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
		fields["code"] = "Country code must be exactly 3 letters."
	}
	return apperror.Validation(fields)
}

func (c *Country) BeforeSave(tx *gorm.DB) error {
	c.Normalize()
	return c.Validate()
}

// Summary is the nested form used inside game responses.
type Summary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Slug string `json:"slug"`
}

func (c *Country) Summary() *Summary {
	if c == nil || c.ID == 0 {
		return nil
	}
	return &Summary{ID: c.ID, Name: c.Name, Code: c.Code, Slug: c.Slug}
}
