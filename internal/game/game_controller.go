package game

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

const msgMissingPK = "Invalid pk - object does not exist."

type GameController struct {
	repo   GameRepository
	config *config.Config
	log    *logrus.Logger
}

func NewGameController(repo GameRepository, cfg *config.Config, log *logrus.Logger) *GameController {
	return &GameController{repo: repo, config: cfg, log: log}
}

type CreateGameRequest struct {
	Name        string `json:"name" binding:"required,notblank,min=3,max=100" example:"loto bonheur"`
	CountryID   uint   `json:"country_id" binding:"required,gt=0" example:"1"`
	GameTypeID  uint   `json:"game_type_id" binding:"required,gt=0" example:"1"`
	IsActive    *bool  `json:"is_active"`
	Description string `json:"description" binding:"omitempty,max=5000"`
}

type UpdateGameRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank,min=3,max=100"`
	CountryID   *uint   `json:"country_id" binding:"omitempty,gt=0"`
	GameTypeID  *uint   `json:"game_type_id" binding:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

// resolveParents loads the country and game type referenced by g, answering
// with field errors for missing rows.
func resolveParents(repo GameRepository, g *Game) error {
	fields := map[string]string{}
	c, err := repo.GetCountry(g.CountryID)
	if err != nil {
		return err
	}
	if c == nil {
		fields["country_id"] = msgMissingPK
	}
	gt, err := repo.GetGameType(g.GameTypeID)
	if err != nil {
		return err
	}
	if gt == nil {
		fields["game_type_id"] = msgMissingPK
	}
	if err := apperror.Validation(fields); err != nil {
		return err
	}
	g.Country, g.GameType = c, gt
	return nil
}

func checkUnique(repo GameRepository, g *Game) error {
	other, err := repo.FindGameByNameAndCountry(g.Name, g.CountryID)
	if err != nil {
		return err
	}
	if other != nil && other.ID != g.ID {
		return apperror.Field("name", "A game with this name already exists for this country.")
	}
	return nil
}

// GetAllGames godoc
// @Summary List games
// @Description Newest first.
// @Tags Games
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search name or description"
// @Param country query string false "Country slug"
// @Param game_type query string false "Game type slug"
// @Param is_active query bool false "Active flag"
// @Param name query string false "Exact name"
// @Success 200 {object} responses.PaginatedResponse{data=[]GameResponse}
// @Router /admin/games [get]
// @Security BearerAuth
func (gc *GameController) GetAllGames(c *gin.Context) {
	gc.list(c, AdminListSpec, false)
}

// ListActiveGames godoc
// @Summary List active games
// @Tags Client
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search name or description"
// @Param country query string false "Country slug"
// @Param game_type query string false "Game type slug"
// @Success 200 {object} responses.PaginatedResponse{data=[]GameResponse}
// @Router /client/games [get]
func (gc *GameController) ListActiveGames(c *gin.Context) {
	gc.list(c, ClientListSpec, true)
}

func (gc *GameController) list(c *gin.Context, spec listing.Spec, activeOnly bool) {
	p := listing.ParseParams(c, spec)
	items, total, err := gc.repo.ListGames(p, spec, activeOnly)
	if err != nil {
		responses.SendAppError(c, gc.log, err, "list games")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", ToResponses(items), total, p.Page, p.PageSize)
}

// GetGameByID godoc
// @Summary Get a game
// @Tags Games
// @Produce json
// @Param id path int true "Game ID"
// @Success 200 {object} responses.SuccessResponse{data=GameResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/games/{id} [get]
// @Security BearerAuth
func (gc *GameController) GetGameByID(c *gin.Context) {
	gc.get(c, false)
}

// GetActiveGame godoc
// @Summary Get an active game
// @Tags Client
// @Produce json
// @Param id path int true "Game ID"
// @Success 200 {object} responses.SuccessResponse{data=GameResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Router /client/games/{id} [get]
func (gc *GameController) GetActiveGame(c *gin.Context) {
	gc.get(c, true)
}

func (gc *GameController) get(c *gin.Context, activeOnly bool) {
	id, ok := common.PathID(c, "Game")
	if !ok {
		return
	}
	item, err := gc.repo.GetGameByID(id)
	if err != nil {
		responses.SendAppError(c, gc.log, err, "get game")
		return
	}
	if item == nil || (activeOnly && !item.IsActive) {
		responses.NotFound(c, "Game")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", ToResponse(item))
}

// CreateGame godoc
// @Summary Create a game
// @Description The slug is derived once from the name and the country code.
// @Tags Games
// @Accept json
// @Produce json
// @Param game body CreateGameRequest true "Game"
// @Success 201 {object} responses.SuccessResponse{data=GameResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Router /admin/games [post]
// @Security BearerAuth
func (gc *GameController) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	item := &Game{
		Name:        req.Name,
		CountryID:   req.CountryID,
		GameTypeID:  req.GameTypeID,
		IsActive:    true,
		Description: req.Description,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	err := gc.repo.WithTransaction(func(repo GameRepository) error {
		if err := resolveParents(repo, item); err != nil {
			return err
		}
		item.Normalize()
		if err := checkUnique(repo, item); err != nil {
			return err
		}
		return repo.CreateGame(item)
	})
	if err != nil {
		responses.SendAppError(c, gc.log, err, "create game")
		return
	}

	gc.log.WithFields(logrus.Fields{"game_id": item.ID, "slug": item.Slug}).Info("game created")
	responses.SendSuccess(c, http.StatusCreated, "Game created successfully", ToResponse(item))
}

// UpdateGame godoc
// @Summary Update a game
// @Description Partial update. The slug is never regenerated.
// @Tags Games
// @Accept json
// @Produce json
// @Param id path int true "Game ID"
// @Param game body UpdateGameRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=GameResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/games/{id} [put]
// @Security BearerAuth
func (gc *GameController) UpdateGame(c *gin.Context) {
	id, ok := common.PathID(c, "Game")
	if !ok {
		return
	}
	var req UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	var item *Game
	err := gc.repo.WithTransaction(func(repo GameRepository) error {
		existing, err := repo.GetGameByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperror.NotFound("Game")
		}
		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.CountryID != nil {
			existing.CountryID = *req.CountryID
		}
		if req.GameTypeID != nil {
			existing.GameTypeID = *req.GameTypeID
		}
		if req.IsActive != nil {
			existing.IsActive = *req.IsActive
		}
		if req.Description != nil {
			existing.Description = *req.Description
		}
		if err := resolveParents(repo, existing); err != nil {
			return err
		}
		existing.Normalize()
		if err := checkUnique(repo, existing); err != nil {
			return err
		}
		item = existing
		return repo.UpdateGame(existing)
	})
	if err != nil {
		responses.SendAppError(c, gc.log, err, "update game")
		return
	}

	gc.log.WithField("game_id", item.ID).Info("game updated")
	responses.SendSuccess(c, http.StatusOK, "Game updated successfully", ToResponse(item))
}

// DeleteGame godoc
// @Summary Delete a game
// @Description Its predictions, programs and results are deleted with it.
// @Tags Games
// @Produce json
// @Param id path int true "Game ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/games/{id} [delete]
// @Security BearerAuth
func (gc *GameController) DeleteGame(c *gin.Context) {
	id, ok := common.PathID(c, "Game")
	if !ok {
		return
	}
	if err := gc.repo.DeleteGame(id); err != nil {
		responses.SendAppError(c, gc.log, err, "delete game")
		return
	}
	gc.log.WithField("game_id", id).Info("game deleted")
	responses.SendSuccess(c, http.StatusOK, "Game deleted successfully", nil)
}

// ActivateGames godoc
// @Summary Activate games
// @Tags Games
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "Game IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/games/activate [post]
// @Security BearerAuth
func (gc *GameController) ActivateGames(c *gin.Context) {
	gc.setActive(c, true)
}

// DeactivateGames godoc
// @Summary Deactivate games
// @Tags Games
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "Game IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/games/deactivate [post]
// @Security BearerAuth
func (gc *GameController) DeactivateGames(c *gin.Context) {
	gc.setActive(c, false)
}

func (gc *GameController) setActive(c *gin.Context, active bool) {
	var req common.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	n, err := gc.repo.SetActive(req.IDs, active)
	if err != nil {
		responses.SendAppError(c, gc.log, err, "set game active")
		return
	}
	gc.log.WithFields(logrus.Fields{"is_active": active, "updated": n}).Info("games bulk updated")
	responses.SendSuccess(c, http.StatusOK, "", responses.BulkResult{Updated: n})
}
