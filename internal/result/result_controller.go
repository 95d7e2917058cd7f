package result

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/common"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
	"github.com/wari-app/wari/pkg/responses"
	"github.com/wari-app/wari/pkg/validator"
)

type ResultController struct {
	repo   ResultRepository
	config *config.Config
	log    *logrus.Logger
}

func NewResultController(repo ResultRepository, cfg *config.Config, log *logrus.Logger) *ResultController {
	return &ResultController{repo: repo, config: cfg, log: log}
}

type CreateResultRequest struct {
	Game           string                 `json:"game" binding:"required,notblank" example:"loto-bonheur-civ"`
	ResultDate     time.Time              `json:"result_date" binding:"required" example:"2025-01-31T18:00:00Z"`
	Outcome        string                 `json:"outcome" binding:"max=10000" example:"7-12-23-34-45"`
	OutcomeDetails map[string]interface{} `json:"outcome_details" swaggertype:"object"`
	Status         string                 `json:"status" binding:"omitempty,oneof=pending official disputed"`
}

type UpdateResultRequest struct {
	Game           *string                `json:"game" binding:"omitempty,notblank"`
	ResultDate     *time.Time             `json:"result_date"`
	Outcome        *string                `json:"outcome" binding:"omitempty,max=10000"`
	OutcomeDetails map[string]interface{} `json:"outcome_details" swaggertype:"object"`
	Status         *string                `json:"status" binding:"omitempty,oneof=pending official disputed"`
}

func resolveGame(repo ResultRepository, slug string) (uint, error) {
	g, err := repo.GetGameBySlug(slug)
	if err != nil {
		return 0, err
	}
	if g == nil {
		return 0, apperror.Field("game", "Object with slug="+slug+" does not exist.")
	}
	return g.ID, nil
}

func checkUnique(repo ResultRepository, r *Result) error {
	other, err := repo.FindResult(r.GameID, r.ResultDate)
	if err != nil {
		return err
	}
	if other != nil && other.ID != r.ID {
		return apperror.Field("result_date", "A result already exists for this game at this date.")
	}
	return nil
}

// GetAllResults godoc
// @Summary List results
// @Description Newest first.
// @Tags Results
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search outcome or game name"
// @Param game query string false "Game slug"
// @Param country query string false "Country slug"
// @Param status query string false "pending, official or disputed"
// @Param result_date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} responses.PaginatedResponse{data=[]ResultResponse}
// @Router /admin/results [get]
// @Security BearerAuth
func (rc *ResultController) GetAllResults(c *gin.Context) {
	rc.list(c, AdminListSpec, false)
}

// ListPublicResults godoc
// @Summary List official and disputed results
// @Tags Client
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param game query string false "Game slug"
// @Param status query string false "official or disputed"
// @Param result_date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} responses.PaginatedResponse{data=[]ResultResponse}
// @Router /client/results [get]
func (rc *ResultController) ListPublicResults(c *gin.Context) {
	rc.list(c, ClientListSpec, true)
}

func (rc *ResultController) list(c *gin.Context, spec listing.Spec, public bool) {
	p := listing.ParseParams(c, spec)
	items, total, err := rc.repo.ListResults(p, spec, public)
	if err != nil {
		responses.SendAppError(c, rc.log, err, "list results")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", ToResponses(items), total, p.Page, p.PageSize)
}

// GetResultByID godoc
// @Summary Get a result
// @Tags Results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} responses.SuccessResponse{data=ResultResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/results/{id} [get]
// @Security BearerAuth
func (rc *ResultController) GetResultByID(c *gin.Context) {
	rc.get(c, false)
}

// GetPublicResult godoc
// @Summary Get an official or disputed result
// @Tags Client
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} responses.SuccessResponse{data=ResultResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Router /client/results/{id} [get]
func (rc *ResultController) GetPublicResult(c *gin.Context) {
	rc.get(c, true)
}

func (rc *ResultController) get(c *gin.Context, public bool) {
	id, ok := common.PathID(c, "Result")
	if !ok {
		return
	}
	item, err := rc.repo.GetResultByID(id)
	if err != nil {
		responses.SendAppError(c, rc.log, err, "get result")
		return
	}
	if item == nil || (public && item.Status == StatusPending) {
		responses.NotFound(c, "Result")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", ToResponse(item))
}

// CreateResult godoc
// @Summary Create a result
// @Description Creating an official result records the caller as its validator.
// @Tags Results
// @Accept json
// @Produce json
// @Param result body CreateResultRequest true "Result"
// @Success 201 {object} responses.SuccessResponse{data=ResultResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Router /admin/results [post]
// @Security BearerAuth
func (rc *ResultController) CreateResult(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	var req CreateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	item := &Result{
		ResultDate:     req.ResultDate.UTC(),
		Outcome:        req.Outcome,
		OutcomeDetails: datatypes.JSONMap(req.OutcomeDetails),
		Status:         StatusPending,
	}
	if req.Status != "" {
		item.ApplyStatus(Status(req.Status), caller.UserID)
	}

	var saved *Result
	err := rc.repo.WithTransaction(func(repo ResultRepository) error {
		gameID, err := resolveGame(repo, req.Game)
		if err != nil {
			return err
		}
		item.GameID = gameID
		if err := checkUnique(repo, item); err != nil {
			return err
		}
		if err := repo.CreateResult(item); err != nil {
			return err
		}
		saved, err = repo.GetResultByID(item.ID)
		return err
	})
	if err != nil {
		responses.SendAppError(c, rc.log, err, "create result")
		return
	}

	rc.log.WithFields(logrus.Fields{"result_id": saved.ID, "status": saved.Status}).Info("result created")
	responses.SendSuccess(c, http.StatusCreated, "Result created successfully", ToResponse(saved))
}

// UpdateResult godoc
// @Summary Update a result
// @Description Partial update. Moving to official stamps the caller as validator; leaving official clears it.
// @Tags Results
// @Accept json
// @Produce json
// @Param id path int true "Result ID"
// @Param result body UpdateResultRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=ResultResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/results/{id} [put]
// @Security BearerAuth
func (rc *ResultController) UpdateResult(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	id, ok := common.PathID(c, "Result")
	if !ok {
		return
	}
	var req UpdateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	var saved *Result
	err := rc.repo.WithTransaction(func(repo ResultRepository) error {
		existing, err := repo.GetResultByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperror.NotFound("Result")
		}
		if req.Game != nil {
			if existing.GameID, err = resolveGame(repo, *req.Game); err != nil {
				return err
			}
		}
		if req.ResultDate != nil {
			existing.ResultDate = req.ResultDate.UTC()
		}
		if req.Outcome != nil {
			existing.Outcome = *req.Outcome
		}
		if req.OutcomeDetails != nil {
			existing.OutcomeDetails = datatypes.JSONMap(req.OutcomeDetails)
		}
		if req.Status != nil {
			existing.ApplyStatus(Status(*req.Status), caller.UserID)
		}
		if err := checkUnique(repo, existing); err != nil {
			return err
		}
		existing.Game, existing.ValidatedBy = nil, nil
		if err := repo.UpdateResult(existing); err != nil {
			return err
		}
		saved, err = repo.GetResultByID(id)
		return err
	})
	if err != nil {
		responses.SendAppError(c, rc.log, err, "update result")
		return
	}

	rc.log.WithFields(logrus.Fields{"result_id": id, "status": saved.Status}).Info("result updated")
	responses.SendSuccess(c, http.StatusOK, "Result updated successfully", ToResponse(saved))
}

// DeleteResult godoc
// @Summary Delete a result
// @Tags Results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/results/{id} [delete]
// @Security BearerAuth
func (rc *ResultController) DeleteResult(c *gin.Context) {
	id, ok := common.PathID(c, "Result")
	if !ok {
		return
	}
	if err := rc.repo.DeleteResult(id); err != nil {
		responses.SendAppError(c, rc.log, err, "delete result")
		return
	}
	rc.log.WithField("result_id", id).Info("result deleted")
	responses.SendSuccess(c, http.StatusOK, "Result deleted successfully", nil)
}

// MarkOfficial godoc
// @Summary Mark results official
// @Description The caller is recorded as validator.
// @Tags Results
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "Result IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/results/mark-official [post]
// @Security BearerAuth
func (rc *ResultController) MarkOfficial(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	var req common.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	n, err := rc.repo.MarkOfficial(req.IDs, caller.UserID)
	if err != nil {
		responses.SendAppError(c, rc.log, err, "mark results official")
		return
	}
	rc.log.WithFields(logrus.Fields{"updated": n, "validated_by": caller.UserID}).Info("results marked official")
	responses.SendSuccess(c, http.StatusOK, "", responses.BulkResult{Updated: n})
}

// MarkPending godoc
// @Summary Mark results pending
// @Description Clears the validator.
// @Tags Results
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "Result IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/results/mark-pending [post]
// @Security BearerAuth
func (rc *ResultController) MarkPending(c *gin.Context) {
	var req common.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	n, err := rc.repo.MarkPending(req.IDs)
	if err != nil {
		responses.SendAppError(c, rc.log, err, "mark results pending")
		return
	}
	rc.log.WithField("updated", n).Info("results marked pending")
	responses.SendSuccess(c, http.StatusOK, "", responses.BulkResult{Updated: n})
}
