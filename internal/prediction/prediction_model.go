package prediction

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/internal/user"
	"github.com/wari-app/wari/pkg/apperror"
)

// MinDescriptionLength applies to the trimmed description.
const MinDescriptionLength = 15

type Prediction struct {
	models.BaseModel
	GameID      uint       `json:"game_id" gorm:"not null;index"`
	Game        *game.Game `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	AuthorID    *uint      `json:"author_id" gorm:"index"`
	Author      *user.User `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Description string     `json:"description" gorm:"type:text;not null"`
	PredictedAt time.Time  `json:"predicted_at" gorm:"not null;index"`
	IsPublished bool       `json:"is_published" gorm:"not null;index"`
}

func (p *Prediction) Validate() error {
	fields := map[string]string{}
	if p.GameID == 0 {
		fields["game"] = "This field is required."
	}
	if models.RuneLen(strings.TrimSpace(p.Description)) < MinDescriptionLength {
		fields["description"] = "Description must be at least 15 characters long."
	}
	if p.IsPublished && p.AuthorID == nil {
		fields["is_published"] = "A published prediction must have an author."
	}
	return apperror.Validation(fields)
}

func (p *Prediction) BeforeSave(tx *gorm.DB) error {
	p.Description = strings.TrimSpace(p.Description)
	return p.Validate()
}

// BeforeCreate stamps predicted_at; it is never taken from a request.
func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.PredictedAt.IsZero() {
		p.PredictedAt = time.Now().UTC()
	}
	return nil
}

type PredictionResponse struct {
	ID            uint      `json:"id"`
	GameID        uint      `json:"game_id"`
	Game          string    `json:"game"`
	GameName      string    `json:"game_name"`
	AuthorID      *uint     `json:"author_id"`
	Author        *string   `json:"author"`
	AuthorDisplay string    `json:"author_display"`
	Description   string    `json:"description"`
	PredictedAt   time.Time `json:"predicted_at"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ToResponse(p *Prediction) PredictionResponse {
	out := PredictionResponse{
		ID:            p.ID,
		GameID:        p.GameID,
		AuthorID:      p.AuthorID,
		AuthorDisplay: p.Author.DisplayName(),
		Description:   p.Description,
		PredictedAt:   p.PredictedAt,
		IsPublished:   p.IsPublished,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Game != nil {
		out.Game, out.GameName = p.Game.Slug, p.Game.Name
	}
	if p.Author != nil {
		name := p.Author.Username
		out.Author = &name
	}
	return out
}

func ToResponses(items []Prediction) []PredictionResponse {
	out := make([]PredictionResponse, len(items))
	for i := range items {
		out[i] = ToResponse(&items[i])
	}
	return out
}
