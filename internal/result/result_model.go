package result

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wari-app/wari/internal/game"
	"github.com/wari-app/wari/internal/models"
	"github.com/wari-app/wari/internal/user"
	"github.com/wari-app/wari/pkg/apperror"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusOfficial Status = "official"
	StatusDisputed Status = "disputed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOfficial, StatusDisputed:
		return true
	}
	return false
}

// Result is the recorded outcome of a game draw.
type Result struct {
	models.BaseModel
	GameID         uint              `json:"game_id" gorm:"not null;uniqueIndex:idx_result_game_date,priority:1"`
	Game           *game.Game        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ResultDate     time.Time         `json:"result_date" gorm:"not null;uniqueIndex:idx_result_game_date,priority:2;index:idx_result_date_status,priority:1"`
	Outcome        string            `json:"outcome" gorm:"type:text"`
	OutcomeDetails datatypes.JSONMap `json:"outcome_details"`
	Status         Status            `json:"status" gorm:"size:10;not null;index:idx_result_date_status,priority:2;index:idx_result_status_validator,priority:1"`
	ValidatedByID  *uint             `json:"validated_by_id" gorm:"index:idx_result_status_validator,priority:2"`
	ValidatedBy    *user.User        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (r *Result) Validate(now time.Time) error {
	fields := map[string]string{}
	if r.GameID == 0 {
		fields["game"] = "This field is required."
	}
	if r.ResultDate.IsZero() {
		fields["result_date"] = "This field is required."
	} else if r.ResultDate.After(now) {
		fields["result_date"] = "The result date cannot be in the future."
	}
	if r.Outcome == "" && len(r.OutcomeDetails) == 0 {
		fields["outcome"] = "Either outcome or outcome_details must be provided."
	}
	if !r.Status.Valid() {
		fields["status"] = "Must be one of: pending, official, disputed."
	} else if r.Status == StatusOfficial && r.ValidatedByID == nil {
		fields["status"] = "An official result must have a validator."
	}
	return apperror.Validation(fields)
}

func (r *Result) BeforeSave(tx *gorm.DB) error {
	r.Outcome = strings.TrimSpace(r.Outcome)
	if r.OutcomeDetails == nil {
		r.OutcomeDetails = datatypes.JSONMap{}
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	r.ResultDate = r.ResultDate.UTC()
	return r.Validate(time.Now().UTC())
}

// ApplyStatus moves the result to status on behalf of callerID. Becoming
// official stamps the validator; leaving official clears it.
func (r *Result) ApplyStatus(status Status, callerID uint) {
	switch {
	case status == StatusOfficial && (r.Status != StatusOfficial || r.ValidatedByID == nil):
		id := callerID
		r.ValidatedByID = &id
	case status != StatusOfficial:
		r.ValidatedByID = nil
	}
	r.Status = status
}

type ResultResponse struct {
	ID             uint              `json:"id"`
	GameID         uint              `json:"game_id"`
	Game           string            `json:"game"`
	GameName       string            `json:"game_name"`
	ResultDate     time.Time         `json:"result_date"`
	Outcome        string            `json:"outcome"`
	OutcomeDetails datatypes.JSONMap `json:"outcome_details"`
	Status         Status            `json:"status"`
	ValidatedByID  *uint             `json:"validated_by_id"`
	ValidatedBy    *string           `json:"validated_by"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func ToResponse(r *Result) ResultResponse {
	out := ResultResponse{
		ID:             r.ID,
		GameID:         r.GameID,
		ResultDate:     r.ResultDate,
		Outcome:        r.Outcome,
		OutcomeDetails: r.OutcomeDetails,
		Status:         r.Status,
		ValidatedByID:  r.ValidatedByID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Game != nil {
		out.Game, out.GameName = r.Game.Slug, r.Game.Name
	}
	if r.ValidatedBy != nil {
		name := r.ValidatedBy.Username
		out.ValidatedBy = &name
	}
	if out.OutcomeDetails == nil {
		out.OutcomeDetails = datatypes.JSONMap{}
	}
	return out
}

func ToResponses(items []Result) []ResultResponse {
	out := make([]ResultResponse, len(items))
	for i := range items {
		out[i] = ToResponse(&items[i])
	}
	return out
}
