package program

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/common"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
	"github.com/wari-app/wari/pkg/responses"
	"github.com/wari-app/wari/pkg/validator"
)

type ProgramController struct {
	repo   ProgramRepository
	config *config.Config
	log    *logrus.Logger
}

func NewProgramController(repo ProgramRepository, cfg *config.Config, log *logrus.Logger) *ProgramController {
	return &ProgramController{repo: repo, config: cfg, log: log}
}

type CreateProgramRequest struct {
	Game        string    `json:"game" binding:"required,notblank" example:"loto-bonheur-civ"`
	EventDate   time.Time `json:"event_date" binding:"required" example:"2026-01-31T18:00:00Z"`
	Details     string    `json:"details" binding:"required,trimmin=10,max=10000"`
	IsPublished bool      `json:"is_published"`
}

type UpdateProgramRequest struct {
	Game        *string    `json:"game" binding:"omitempty,notblank"`
	EventDate   *time.Time `json:"event_date"`
	Details     *string    `json:"details" binding:"omitempty,trimmin=10,max=10000"`
	IsPublished *bool      `json:"is_published"`
}

func resolveGame(repo ProgramRepository, slug string) (uint, error) {
	g, err := repo.GetGameBySlug(slug)
	if err != nil {
		return 0, err
	}
	if g == nil {
		return 0, apperror.Field("game", "Object with slug="+slug+" does not exist.")
	}
	return g.ID, nil
}

func checkUnique(repo ProgramRepository, p *Program) error {
	other, err := repo.FindProgram(p.GameID, p.EventDate)
	if err != nil {
		return err
	}
	if other != nil && other.ID != p.ID {
		return apperror.Field("event_date", "A program already exists for this game at this date.")
	}
	return nil
}

// GetAllPrograms godoc
// @Summary List programs
// @Description Soonest first.
// @Tags Programs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search details or game name"
// @Param game query string false "Game slug"
// @Param country query string false "Country slug"
// @Param is_published query bool false "Published flag"
// @Param event_date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} responses.PaginatedResponse{data=[]ProgramResponse}
// @Router /admin/programs [get]
// @Security BearerAuth
func (pc *ProgramController) GetAllPrograms(c *gin.Context) {
	pc.list(c, AdminListSpec, false)
}

// ListPublishedPrograms godoc
// @Summary List published programs
// @Tags Client
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param game query string false "Game slug"
// @Param country query string false "Country slug"
// @Param event_date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} responses.PaginatedResponse{data=[]ProgramResponse}
// @Router /client/programs [get]
func (pc *ProgramController) ListPublishedPrograms(c *gin.Context) {
	pc.list(c, ClientListSpec, true)
}

func (pc *ProgramController) list(c *gin.Context, spec listing.Spec, publishedOnly bool) {
	p := listing.ParseParams(c, spec)
	items, total, err := pc.repo.ListPrograms(p, spec, publishedOnly)
	if err != nil {
		responses.SendAppError(c, pc.log, err, "list programs")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", ToResponses(items), total, p.Page, p.PageSize)
}

// GetProgramByID godoc
// @Summary Get a program
// @Tags Programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} responses.SuccessResponse{data=ProgramResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/programs/{id} [get]
// @Security BearerAuth
func (pc *ProgramController) GetProgramByID(c *gin.Context) {
	pc.get(c, false)
}

// GetPublishedProgram godoc
// @Summary Get a published program
// @Tags Client
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} responses.SuccessResponse{data=ProgramResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Router /client/programs/{id} [get]
func (pc *ProgramController) GetPublishedProgram(c *gin.Context) {
	pc.get(c, true)
}

func (pc *ProgramController) get(c *gin.Context, publishedOnly bool) {
	id, ok := common.PathID(c, "Program")
	if !ok {
		return
	}
	item, err := pc.repo.GetProgramByID(id)
	if err != nil {
		responses.SendAppError(c, pc.log, err, "get program")
		return
	}
	if item == nil || (publishedOnly && !item.IsPublished) {
		responses.NotFound(c, "Program")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", ToResponse(item))
}

// CreateProgram godoc
// @Summary Create a program
// @Tags Programs
// @Accept json
// @Produce json
// @Param program body CreateProgramRequest true "Program"
// @Success 201 {object} responses.SuccessResponse{data=ProgramResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Router /admin/programs [post]
// @Security BearerAuth
func (pc *ProgramController) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	item := &Program{
		EventDate:   req.EventDate.UTC(),
		Details:     req.Details,
		IsPublished: req.IsPublished,
	}
	var saved *Program
	err := pc.repo.WithTransaction(func(repo ProgramRepository) error {
		gameID, err := resolveGame(repo, req.Game)
		if err != nil {
			return err
		}
		item.GameID = gameID
		if err := checkUnique(repo, item); err != nil {
			return err
		}
		if err := repo.CreateProgram(item); err != nil {
			return err
		}
		saved, err = repo.GetProgramByID(item.ID)
		return err
	})
	if err != nil {
		responses.SendAppError(c, pc.log, err, "create program")
		return
	}

	pc.log.WithFields(logrus.Fields{"program_id": saved.ID, "game_id": saved.GameID}).Info("program created")
	responses.SendSuccess(c, http.StatusCreated, "Program created successfully", ToResponse(saved))
}

// UpdateProgram godoc
// @Summary Update a program
// @Description Partial update.
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path int true "Program ID"
// @Param program body UpdateProgramRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=ProgramResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/programs/{id} [put]
// @Security BearerAuth
func (pc *ProgramController) UpdateProgram(c *gin.Context) {
	id, ok := common.PathID(c, "Program")
	if !ok {
		return
	}
	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	var saved *Program
	err := pc.repo.WithTransaction(func(repo ProgramRepository) error {
		existing, err := repo.GetProgramByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperror.NotFound("Program")
		}
		if req.Game != nil {
			if existing.GameID, err = resolveGame(repo, *req.Game); err != nil {
				return err
			}
		}
		if req.EventDate != nil {
			existing.EventDate = req.EventDate.UTC()
		}
		if req.Details != nil {
			existing.Details = *req.Details
		}
		if req.IsPublished != nil {
			existing.IsPublished = *req.IsPublished
		}
		if err := checkUnique(repo, existing); err != nil {
			return err
		}
		existing.Game = nil
		if err := repo.UpdateProgram(existing); err != nil {
			return err
		}
		saved, err = repo.GetProgramByID(id)
		return err
	})
	if err != nil {
		responses.SendAppError(c, pc.log, err, "update program")
		return
	}

	pc.log.WithField("program_id", id).Info("program updated")
	responses.SendSuccess(c, http.StatusOK, "Program updated successfully", ToResponse(saved))
}

// DeleteProgram godoc
// @Summary Delete a program
// @Tags Programs
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/programs/{id} [delete]
// @Security BearerAuth
func (pc *ProgramController) DeleteProgram(c *gin.Context) {
	id, ok := common.PathID(c, "Program")
	if !ok {
		return
	}
	if err := pc.repo.DeleteProgram(id); err != nil {
		responses.SendAppError(c, pc.log, err, "delete program")
		return
	}
	pc.log.WithField("program_id", id).Info("program deleted")
	responses.SendSuccess(c, http.StatusOK, "Program deleted successfully", nil)
}

// PublishPrograms godoc
// @Summary Publish programs
// @Description Programs whose event date has passed are skipped.
// @Tags Programs
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "Program IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/programs/publish [post]
// @Security BearerAuth
func (pc *ProgramController) PublishPrograms(c *gin.Context) {
	var req common.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	n, err := pc.repo.Publish(req.IDs, time.Now().UTC())
	if err != nil {
		responses.SendAppError(c, pc.log, err, "publish programs")
		return
	}
	skipped := int64(len(req.IDs)) - n
	pc.log.WithFields(logrus.Fields{"updated": n, "skipped": skipped}).Info("programs published")
	responses.SendSuccess(c, http.StatusOK, "", responses.BulkResult{Updated: n, Skipped: skipped})
}

// UnpublishPrograms godoc
// @Summary Unpublish programs
// @Tags Programs
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "Program IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/programs/unpublish [post]
// @Security BearerAuth
func (pc *ProgramController) UnpublishPrograms(c *gin.Context) {
	var req common.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	n, err := pc.repo.Unpublish(req.IDs)
	if err != nil {
		responses.SendAppError(c, pc.log, err, "unpublish programs")
		return
	}
	pc.log.WithField("updated", n).Info("programs unpublished")
	responses.SendSuccess(c, http.StatusOK, "", responses.BulkResult{Updated: n})
}
