package game

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/country"
	"github.com/wari-app/wari/internal/gametype"
	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/pkg/apperror"
)

const (
	MinNameLength = 3
	MaxNameLength = 100
)

// Game is the aggregation root for predictions, programs and results.
type Game struct {
	models.BaseModel
	Name        string             `json:"name" gorm:"size:100;not null;uniqueIndex:idx_game_name_country,priority:1;index:idx_game_name_type,priority:1"`
	Slug        string             `json:"slug" gorm:"size:160;uniqueIndex;not null"`
	CountryID   uint               `json:"country_id" gorm:"not null;uniqueIndex:idx_game_name_country,priority:2;index:idx_game_type_country,priority:2"`
	Country     *country.Country   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	GameTypeID  uint               `json:"game_type_id" gorm:"not null;index:idx_game_type_country,priority:1;index:idx_game_name_type,priority:2"`
	GameType    *gametype.GameType `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	IsActive    bool               `json:"is_active" gorm:"not null;index"`
	Description string             `json:"description" gorm:"type:text"`
}

// SlugFor derives a game slug from its name and its country's code.
func SlugFor(name, countryCode string) string {
	return models.Slugify(name + "-" + strings.ToLower(countryCode))
}

// Normalize trims and title-cases the name and, when the country is loaded
// and no slug exists yet, derives it.
func (g *Game) Normalize() {
	g.Name = models.NormalizeName(g.Name)
	g.Description = strings.TrimSpace(g.Description)
	if g.Slug == "" && g.Country != nil && g.Country.Code != "" {
		g.Slug = SlugFor(g.Name, g.Country.Code)
	}
}

func (g *Game) Validate() error {
	fields := map[string]string{}
	switch n := models.RuneLen(g.Name); {
	case n == 0:
		fields["name"] = "Game name cannot be empty."
	case n < MinNameLength:
		fields["name"] = "Game name must be at least 3 characters long."
	case n > MaxNameLength:
		fields["name"] = "Ensure this field has no more than 100 characters."
	}
	if g.CountryID == 0 {
		fields["country_id"] = "This field is required."
	}
	if g.GameTypeID == 0 {
		fields["game_type_id"] = "This field is required."
	}
	if g.Slug == "" && fields["name"] == "" {
		fields["slug"] = "Slug could not be derived; the country must be set."
	}
	return apperror.Validation(fields)
}

func (g *Game) BeforeSave(tx *gorm.DB) error {
	g.Normalize()
	return g.Validate()
}

// GameResponse is the admin and client representation of a game.
type GameResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	IsActive    bool              `json:"is_active"`
	CountryID   uint              `json:"country_id"`
	Country     *country.Summary  `json:"country"`
	GameTypeID  uint              `json:"game_type_id"`
	GameType    *gametype.Summary `json:"game_type"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func ToResponse(g *Game) GameResponse {
	return GameResponse{
		ID:          g.ID,
		Name:        g.Name,
		Slug:        g.Slug,
		Description: g.Description,
		IsActive:    g.IsActive,
		CountryID:   g.CountryID,
		Country:     g.Country.Summary(),
		GameTypeID:  g.GameTypeID,
		GameType:    g.GameType.Summary(),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func ToResponses(games []Game) []GameResponse {
	out := make([]GameResponse, len(games))
	for i := range games {
		out[i] = ToResponse(&games[i])
	}
	return out
}

