package country

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

// CountryController handles API requests related to countries.
type CountryController struct {
	repo   CountryRepository
	config *config.Config
	log    *logrus.Logger
}

// NewCountryController creates a new CountryController.
func NewCountryController(repo CountryRepository, cfg *config.Config, log *logrus.Logger) *CountryController {
	return &CountryController{repo: repo, config: cfg, log: log}
}

type CreateCountryRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100" example:"france"`
	Code string `json:"code" binding:"required,len=3,alpha" example:"FRA"`
}

type UpdateCountryRequest struct {
	Name *string `json:"name" binding:"omitempty,notblank,max=100"`
	Code *string `json:"code" binding:"omitempty,len=3,alpha"`
}

// checkUnique rejects a name or code already held by another country.
func checkUnique(repo CountryRepository, c *Country) error {
	fields := map[string]string{}
	if other, err := repo.FindCountryByName(c.Name); err != nil {
		return err
	} else if other != nil && other.ID != c.ID {
		fields["name"] = "Country with this name already exists."
	}
	if other, err := repo.FindCountryByCode(c.Code); err != nil {
		return err
	} else if other != nil && other.ID != c.ID {
		fields["code"] = "Country with this code already exists."
	}
	return apperror.Validation(fields)
}

// GetAllCountries godoc
// @Summary List countries
// @Tags Countries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search name or code"
// @Param name query string false "Exact name"
// @Param code query string false "Exact ISO code"
// @Param slug query string false "Exact slug"
// @Success 200 {object} responses.PaginatedResponse{data=[]Country}
// @Router /admin/countries [get]
// @Security BearerAuth
func (cc *CountryController) GetAllCountries(c *gin.Context) {
	p := listing.ParseParams(c, ListSpec)
	items, total, err := cc.repo.ListCountries(p)
	if err != nil {
		responses.SendAppError(c, cc.log, err, "list countries")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", items, total, p.Page, p.PageSize)
}

// GetCountryByID godoc
// @Summary Get a country
// @Tags Countries
// @Produce json
// @Param id path int true "Country ID"
// @Success 200 {object} responses.SuccessResponse{data=Country}
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/countries/{id} [get]
// @Security BearerAuth
func (cc *CountryController) GetCountryByID(c *gin.Context) {
	id, ok := common.PathID(c, "Country")
	if !ok {
		return
	}
	item, err := cc.repo.GetCountryByID(id)
	if err != nil {
		responses.SendAppError(c, cc.log, err, "get country")
		return
	}
	if item == nil {
		responses.NotFound(c, "Country")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", item)
}

// CreateCountry godoc
// @Summary Create a country
// @Description The name is trimmed and title-cased, the code upper-cased, and the slug derived once from the name.
// @Tags Countries
// @Accept json
// @Produce json
// @Param country body CreateCountryRequest true "Country"
// @Success 201 {object} responses.SuccessResponse{data=Country}
// @Failure 400 {object} responses.ErrorResponse "Validation error or duplicate"
// @Failure 403 {object} responses.ErrorResponse
// @Router /admin/countries [post]
// @Security BearerAuth
func (cc *CountryController) CreateCountry(c *gin.Context) {
	var req CreateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	item := &Country{Name: req.Name, Code: req.Code}
	item.Normalize()

	err := cc.repo.WithTransaction(func(repo CountryRepository) error {
		if err := checkUnique(repo, item); err != nil {
			return err
		}
		return repo.CreateCountry(item)
	})
	if err != nil {
		responses.SendAppError(c, cc.log, err, "create country")
		return
	}

	cc.log.WithFields(logrus.Fields{"country_id": item.ID, "slug": item.Slug}).Info("country created")
	responses.SendSuccess(c, http.StatusCreated, "Country created successfully", item)
}

// UpdateCountry godoc
// @Summary Update a country
// @Description Partial update. The slug is never regenerated.
// @Tags Countries
// @Accept json
// @Produce json
// @Param id path int true "Country ID"
// @Param country body UpdateCountryRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=Country}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/countries/{id} [put]
// @Security BearerAuth
func (cc *CountryController) UpdateCountry(c *gin.Context) {
	id, ok := common.PathID(c, "Country")
	if !ok {
		return
	}
	var req UpdateCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	var item *Country
	err := cc.repo.WithTransaction(func(repo CountryRepository) error {
		existing, err := repo.GetCountryByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperror.NotFound("Country")
		}
		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.Code != nil {
			existing.Code = *req.Code
		}
		existing.Normalize()
		if err := checkUnique(repo, existing); err != nil {
			return err
		}
		item = existing
		return repo.UpdateCountry(existing)
	})
	if err != nil {
		responses.SendAppError(c, cc.log, err, "update country")
		return
	}

	cc.log.WithField("country_id", item.ID).Info("country updated")
	responses.SendSuccess(c, http.StatusOK, "Country updated successfully", item)
}

// DeleteCountry godoc
// @Summary Delete a country
// @Description Refused with 400 while games reference the country.
// @Tags Countries
// @Produce json
// @Param id path int true "Country ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse "Associated games exist"
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/countries/{id} [delete]
// @Security BearerAuth
func (cc *CountryController) DeleteCountry(c *gin.Context) {
	id, ok := common.PathID(c, "Country")
	if !ok {
		return
	}
	if err := cc.repo.DeleteCountry(id); err != nil {
		if apperror.HasCode(err, apperror.CodeDependentsExist) {
			cc.log.WithError(err).WithField("country_id", id).Warn("refused country delete")
		}
		responses.SendAppError(c, cc.log, err, "delete country")
		return
	}
	cc.log.WithField("country_id", id).Info("country deleted")
	responses.SendSuccess(c, http.StatusOK, "Country deleted successfully", nil)
}
