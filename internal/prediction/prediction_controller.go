package prediction

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/access"
	"github.com/wari-app/wari/internal/common"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
	"github.com/wari-app/wari/pkg/responses"
	"github.com/wari-app/wari/pkg/validator"
)

type PredictionController struct {
	repo   PredictionRepository
	config *config.Config
	log    *logrus.Logger
}

func NewPredictionController(repo PredictionRepository, cfg *config.Config, log *logrus.Logger) *PredictionController {
	return &PredictionController{repo: repo, config: cfg, log: log}
}

type CreatePredictionRequest struct {
	Game        string `json:"game" binding:"required,notblank" example:"loto-bonheur-civ"`
	Description string `json:"description" binding:"required,trimmin=15,max=10000"`
	IsPublished bool   `json:"is_published"`
}

type UpdatePredictionRequest struct {
	Game        *string `json:"game" binding:"omitempty,notblank"`
	Description *string `json:"description" binding:"omitempty,trimmin=15,max=10000"`
	IsPublished *bool   `json:"is_published"`
}

func resolveGame(repo PredictionRepository, slug string) (uint, error) {
	g, err := repo.GetGameBySlug(slug)
	if err != nil {
		return 0, err
	}
	if g == nil {
		return 0, apperror.Field("game", "Object with slug="+slug+" does not exist.")
	}
	return g.ID, nil
}

// GetAllPredictions godoc
// @Summary List predictions
// @Tags Predictions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search game name"
// @Param game query string false "Game slug"
// @Param author query string false "Author username"
// @Param is_published query bool false "Published flag"
// @Param predicted_at query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} responses.PaginatedResponse{data=[]PredictionResponse}
// @Router /admin/predictions [get]
// @Security BearerAuth
func (pc *PredictionController) GetAllPredictions(c *gin.Context) {
	pc.list(c, AdminListSpec, false)
}

// ListPublishedPredictions godoc
// @Summary List published predictions
// @Tags Client
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param game query string false "Game slug"
// @Param predicted_at query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} responses.PaginatedResponse{data=[]PredictionResponse}
// @Router /client/predictions [get]
func (pc *PredictionController) ListPublishedPredictions(c *gin.Context) {
	pc.list(c, ClientListSpec, true)
}

func (pc *PredictionController) list(c *gin.Context, spec listing.Spec, publishedOnly bool) {
	p := listing.ParseParams(c, spec)
	items, total, err := pc.repo.ListPredictions(p, spec, publishedOnly)
	if err != nil {
		responses.SendAppError(c, pc.log, err, "list predictions")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", ToResponses(items), total, p.Page, p.PageSize)
}

// GetPredictionByID godoc
// @Summary Get a prediction
// @Tags Predictions
// @Produce json
// @Param id path int true "Prediction ID"
// @Success 200 {object} responses.SuccessResponse{data=PredictionResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/predictions/{id} [get]
// @Security BearerAuth
func (pc *PredictionController) GetPredictionByID(c *gin.Context) {
	pc.get(c, false)
}

// GetPublishedPrediction godoc
// @Summary Get a published prediction
// @Tags Client
// @Produce json
// @Param id path int true "Prediction ID"
// @Success 200 {object} responses.SuccessResponse{data=PredictionResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Router /client/predictions/{id} [get]
func (pc *PredictionController) GetPublishedPrediction(c *gin.Context) {
	pc.get(c, true)
}

func (pc *PredictionController) get(c *gin.Context, publishedOnly bool) {
	id, ok := common.PathID(c, "Prediction")
	if !ok {
		return
	}
	item, err := pc.repo.GetPredictionByID(id)
	if err != nil {
		responses.SendAppError(c, pc.log, err, "get prediction")
		return
	}
	if item == nil || (publishedOnly && !item.IsPublished) {
		responses.NotFound(c, "Prediction")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", ToResponse(item))
}

// CreatePrediction godoc
// @Summary Create a prediction
// @Description The caller becomes the author; predicted_at is stamped by the server.
// @Tags Predictions
// @Accept json
// @Produce json
// @Param prediction body CreatePredictionRequest true "Prediction"
// @Success 201 {object} responses.SuccessResponse{data=PredictionResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Router /admin/predictions [post]
// @Security BearerAuth
func (pc *PredictionController) CreatePrediction(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	var req CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	authorID := caller.UserID
	item := &Prediction{
		AuthorID:    &authorID,
		Description: req.Description,
		IsPublished: req.IsPublished,
	}
	var saved *Prediction
	err := pc.repo.WithTransaction(func(repo PredictionRepository) error {
		gameID, err := resolveGame(repo, req.Game)
		if err != nil {
			return err
		}
		item.GameID = gameID
		if err := repo.CreatePrediction(item); err != nil {
			return err
		}
		saved, err = repo.GetPredictionByID(item.ID)
		return err
	})
	if err != nil {
		responses.SendAppError(c, pc.log, err, "create prediction")
		return
	}

	pc.log.WithFields(logrus.Fields{"prediction_id": saved.ID, "author_id": authorID}).Info("prediction created")
	responses.SendSuccess(c, http.StatusCreated, "Prediction created successfully", ToResponse(saved))
}

// UpdatePrediction godoc
// @Summary Update a prediction
// @Description Partial update, allowed to the author or an admin.
// @Tags Predictions
// @Accept json
// @Produce json
// @Param id path int true "Prediction ID"
// @Param prediction body UpdatePredictionRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=PredictionResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/predictions/{id} [put]
// @Security BearerAuth
func (pc *PredictionController) UpdatePrediction(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	id, ok := common.PathID(c, "Prediction")
	if !ok {
		return
	}
	var req UpdatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	var saved *Prediction
	err := pc.repo.WithTransaction(func(repo PredictionRepository) error {
		existing, err := repo.GetPredictionByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperror.NotFound("Prediction")
		}
		if !access.CanModifyOwned(caller, existing.AuthorID) {
			return apperror.Forbidden("Only the author or an admin can modify this prediction.")
		}
		if req.Game != nil {
			if existing.GameID, err = resolveGame(repo, *req.Game); err != nil {
				return err
			}
		}
		if req.Description != nil {
			existing.Description = *req.Description
		}
		if req.IsPublished != nil {
			existing.IsPublished = *req.IsPublished
		}
		existing.Game, existing.Author = nil, nil
		if err := repo.UpdatePrediction(existing); err != nil {
			return err
		}
		saved, err = repo.GetPredictionByID(id)
		return err
	})
	if err != nil {
		responses.SendAppError(c, pc.log, err, "update prediction")
		return
	}

	pc.log.WithField("prediction_id", id).Info("prediction updated")
	responses.SendSuccess(c, http.StatusOK, "Prediction updated successfully", ToResponse(saved))
}

// DeletePrediction godoc
// @Summary Delete a prediction
// @Description Allowed to the author or an admin.
// @Tags Predictions
// @Produce json
// @Param id path int true "Prediction ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/predictions/{id} [delete]
// @Security BearerAuth
func (pc *PredictionController) DeletePrediction(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	id, ok := common.PathID(c, "Prediction")
	if !ok {
		return
	}
	err := pc.repo.WithTransaction(func(repo PredictionRepository) error {
		existing, err := repo.GetPredictionByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperror.NotFound("Prediction")
		}
		if !access.CanModifyOwned(caller, existing.AuthorID) {
			return apperror.Forbidden("Only the author or an admin can delete this prediction.")
		}
		return repo.DeletePrediction(id)
	})
	if err != nil {
		responses.SendAppError(c, pc.log, err, "delete prediction")
		return
	}
	pc.log.WithField("prediction_id", id).Info("prediction deleted")
	responses.SendSuccess(c, http.StatusOK, "Prediction deleted successfully", nil)
}

// PublishPredictions godoc
// @Summary Publish predictions
// @Description Predictions without an author are skipped. Editors only affect their own predictions.
// @Tags Predictions
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "Prediction IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/predictions/publish [post]
// @Security BearerAuth
func (pc *PredictionController) PublishPredictions(c *gin.Context) {
	pc.setPublished(c, true)
}

// UnpublishPredictions godoc
// @Summary Unpublish predictions
// @Tags Predictions
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "Prediction IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/predictions/unpublish [post]
// @Security BearerAuth
func (pc *PredictionController) UnpublishPredictions(c *gin.Context) {
	pc.setPublished(c, false)
}

func (pc *PredictionController) setPublished(c *gin.Context, published bool) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	var req common.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	// Editors only touch their own predictions.
	var owner *uint
	if !caller.IsAdmin() {
		owner = &caller.UserID
	}
	n, err := pc.repo.SetPublished(req.IDs, published, owner)
	if err != nil {
		responses.SendAppError(c, pc.log, err, "set prediction published")
		return
	}
	skipped := int64(len(req.IDs)) - n
	pc.log.WithFields(logrus.Fields{"is_published": published, "updated": n, "skipped": skipped}).Info("predictions bulk updated")
	responses.SendSuccess(c, http.StatusOK, "", responses.BulkResult{Updated: n, Skipped: skipped})
}
