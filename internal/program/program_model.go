package program

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/pkg/apperror"
)

const MinDetailsLength = 10

// Program is a scheduled draw of a game.
type Program struct {
	models.BaseModel
	GameID      uint       `json:"game_id" gorm:"not null;uniqueIndex:idx_program_game_date,priority:1"`
	Game        *game.Game `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	EventDate   time.Time  `json:"event_date" gorm:"not null;uniqueIndex:idx_program_game_date,priority:2;index"`
	Details     string     `json:"details" gorm:"type:text;not null"`
	IsPublished bool       `json:"is_published" gorm:"not null;index"`
}

// Validate checks the row against now; a program in the past may exist but
// cannot be published.
func (p *Program) Validate(now time.Time) error {
	fields := map[string]string{}
	if p.GameID == 0 {
		fields["game"] = "This field is required."
	}
	if p.EventDate.IsZero() {
		fields["event_date"] = "This field is required."
	} else if p.IsPublished && p.EventDate.Before(now) {
		fields["is_published"] = "A program in the past cannot be published."
	}
	if models.RuneLen(p.Details) < MinDetailsLength {
		fields["details"] = "Details must be at least 10 characters long."
	}
	return apperror.Validation(fields)
}

func (p *Program) BeforeSave(tx *gorm.DB) error {
	p.Details = strings.TrimSpace(p.Details)
	p.EventDate = p.EventDate.UTC()
	return p.Validate(time.Now().UTC())
}

type ProgramResponse struct {
	ID          uint      `json:"id"`
	GameID      uint      `json:"game_id"`
	Game        string    `json:"game"`
	GameName    string    `json:"game_name"`
	EventDate   time.Time `json:"event_date"`
	Details     string    `json:"details"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToResponse(p *Program) ProgramResponse {
	out := ProgramResponse{
		ID:          p.ID,
		GameID:      p.GameID,
		EventDate:   p.EventDate,
		Details:     p.Details,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Game != nil {
		out.Game, out.GameName = p.Game.Slug, p.Game.Name
	}
	return out
}

func ToResponses(items []Program) []ProgramResponse {
	out := make([]ProgramResponse, len(items))
	for i := range items {
		out[i] = ToResponse(&items[i])
	}
	return out
}
