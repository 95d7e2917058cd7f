package gametype

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/common"
	"github.com/wari-app/wari/pkg/apperror"
	"github.com/wari-app/wari/pkg/listing"
	"github.com/wari-app/wari/pkg/responses"
	"github.com/wari-app/wari/pkg/validator"
)

type GameTypeController struct {
	repo   GameTypeRepository
	config *config.Config
	log    *logrus.Logger
}

func NewGameTypeController(repo GameTypeRepository, cfg *config.Config, log *logrus.Logger) *GameTypeController {
	return &GameTypeController{repo: repo, config: cfg, log: log}
}

type CreateGameTypeRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=50" example:"football"`
	Description string `json:"description" binding:"omitempty,max=5000"`
}

type UpdateGameTypeRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=50"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

func checkUnique(repo GameTypeRepository, g *GameType) error {
	other, err := repo.FindGameTypeByName(g.Name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != g.ID {
		return apperror.Field("name", "Game type with this name already exists.")
	}
	return nil
}

// GetAllGameTypes godoc
// @Summary List game types
// @Tags GameTypes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search name"
// @Param name query string false "Exact name"
// @Param slug query string false "Exact slug"
// @Success 200 {object} responses.PaginatedResponse{data=[]GameType}
// @Router /admin/game-types [get]
// @Security BearerAuth
func (gc *GameTypeController) GetAllGameTypes(c *gin.Context) {
	p := listing.ParseParams(c, ListSpec)
	items, total, err := gc.repo.ListGameTypes(p)
	if err != nil {
		responses.SendAppError(c, gc.log, err, "list game types")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", items, total, p.Page, p.PageSize)
}

// GetGameTypeByID godoc
// @Summary Get a game type
// @Tags GameTypes
// @Produce json
// @Param id path int true "Game type ID"
// @Success 200 {object} responses.SuccessResponse{data=GameType}
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/game-types/{id} [get]
// @Security BearerAuth
func (gc *GameTypeController) GetGameTypeByID(c *gin.Context) {
	id, ok := common.PathID(c, "Game type")
	if !ok {
		return
	}
	item, err := gc.repo.GetGameTypeByID(id)
	if err != nil {
		responses.SendAppError(c, gc.log, err, "get game type")
		return
	}
	if item == nil {
		responses.NotFound(c, "Game type")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", item)
}

// CreateGameType godoc
// @Summary Create a game type
// @Tags GameTypes
// @Accept json
// @Produce json
// @Param game_type body CreateGameTypeRequest true "Game type"
// @Success 201 {object} responses.SuccessResponse{data=GameType}
// @Failure 400 {object} responses.ErrorResponse
// @Router /admin/game-types [post]
// @Security BearerAuth
func (gc *GameTypeController) CreateGameType(c *gin.Context) {
	var req CreateGameTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	item := &GameType{Name: req.Name, Description: req.Description}
	item.Normalize()

	err := gc.repo.WithTransaction(func(repo GameTypeRepository) error {
		if err := checkUnique(repo, item); err != nil {
			return err
		}
		return repo.CreateGameType(item)
	})
	if err != nil {
		responses.SendAppError(c, gc.log, err, "create game type")
		return
	}

	gc.log.WithFields(logrus.Fields{"game_type_id": item.ID, "slug": item.Slug}).Info("game type created")
	responses.SendSuccess(c, http.StatusCreated, "Game type created successfully", item)
}

// UpdateGameType godoc
// @Summary Update a game type
// @Description Partial update. The slug is never regenerated.
// @Tags GameTypes
// @Accept json
// @Produce json
// @Param id path int true "Game type ID"
// @Param game_type body UpdateGameTypeRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=GameType}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/game-types/{id} [put]
// @Security BearerAuth
func (gc *GameTypeController) UpdateGameType(c *gin.Context) {
	id, ok := common.PathID(c, "Game type")
	if !ok {
		return
	}
	var req UpdateGameTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	var item *GameType
	err := gc.repo.WithTransaction(func(repo GameTypeRepository) error {
		existing, err := repo.GetGameTypeByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperror.NotFound("Game type")
		}
		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.Description != nil {
			existing.Description = *req.Description
		}
		existing.Normalize()
		if err := checkUnique(repo, existing); err != nil {
			return err
		}
		item = existing
		return repo.UpdateGameType(existing)
	})
	if err != nil {
		responses.SendAppError(c, gc.log, err, "update game type")
		return
	}

	gc.log.WithField("game_type_id", item.ID).Info("game type updated")
	responses.SendSuccess(c, http.StatusOK, "Game type updated successfully", item)
}

// DeleteGameType godoc
// @Summary Delete a game type
// @Description Refused with 400 while games use the type.
// @Tags GameTypes
// @Produce json
// @Param id path int true "Game type ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse "Associated games exist"
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/game-types/{id} [delete]
// @Security BearerAuth
func (gc *GameTypeController) DeleteGameType(c *gin.Context) {
	id, ok := common.PathID(c, "Game type")
	if !ok {
		return
	}
	if err := gc.repo.DeleteGameType(id); err != nil {
		if apperror.HasCode(err, apperror.CodeDependentsExist) {
			gc.log.WithError(err).WithField("game_type_id", id).Warn("refused game type delete")
		}
		responses.SendAppError(c, gc.log, err, "delete game type")
		return
	}
	gc.log.WithField("game_type_id", id).Info("game type deleted")
	responses.SendSuccess(c, http.StatusOK, "Game type deleted successfully", nil)
}
