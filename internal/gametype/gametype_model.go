package gametype

import (
	"strings"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/pkg/apperror"
)

const MaxNameLength = 50

// GameType is a sport or discipline, e.g. Football.
type GameType struct {
	models.BaseModel
	Name        string `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Slug        string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	GameCount   int64  `json:"game_count" gorm:"-"`
}

// Normalize follows the same rule as countries: title-cased name, slug
// derived once.
func (g *GameType) Normalize() {
	g.Name = models.NormalizeName(g.Name)
	g.Description = strings.TrimSpace(g.Description)
	if g.Slug == "" {
		g.Slug = models.Slugify(g.Name)
	}
}

func (g *GameType) Validate() error {
	fields := map[string]string{}
	switch {
	case g.Name == "":
		fields["name"] = "This field may not be blank."
	case models.RuneLen(g.Name) > MaxNameLength:
		fields["name"] = "Ensure this field has no more than 50 characters."
	case g.Slug == "":
		fields["name"] = "Name must contain at least one letter or digit."
	}
	return apperror.Validation(fields)
}

func (g *GameType) BeforeSave(tx *gorm.DB) error {
	g.Normalize()
	return g.Validate()
}

// Summary is the nested form used inside game responses.
type Summary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (g *GameType) Summary() *Summary {
	if g == nil || g.ID == 0 {
		return nil
	}
	return &Summary{ID: g.ID, Name: g.Name, Slug: g.Slug}
}
