package user

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
	"github.com/wari-app/wari/utils"
)

// UserController handles the admin user directory.
type UserController struct {
	repo   UserRepository
	config *config.Config
	log    *logrus.Logger
}

// NewUserController creates a new UserController.
func NewUserController(repo UserRepository, cfg *config.Config, log *logrus.Logger) *UserController {
	return &UserController{repo: repo, config: cfg, log: log}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,notblank,max=150"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"omitempty,oneof=admin editor viewer"`
	IsActive *bool  `json:"is_active"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=254"`
	Password *string `json:"password" binding:"omitempty,min=8,max=128"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin editor viewer"`
	IsActive *bool   `json:"is_active"`
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(20)
// @Param search query string false "Search username or email"
// @Param username query string false "Exact username"
// @Param email query string false "Exact email"
// @Param role query string false "Role" Enums(admin, editor, viewer)
// @Param is_active query boolean false "Active flag"
// @Success 200 {object} responses.PaginatedResponse{data=[]User}
// @Failure 403 {object} responses.ErrorResponse
// @Router /admin/users [get]
// @Security BearerAuth
func (uc *UserController) ListUsers(c *gin.Context) {
	p := listing.ParseParams(c, ListSpec)
	users, total, err := uc.repo.ListUsers(p)
	if err != nil {
		responses.SendAppError(c, uc.log, err, "list users")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", users, total, p.Page, p.PageSize)
}

// GetUser godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} responses.SuccessResponse{data=User}
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/users/{id} [get]
// @Security BearerAuth
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := common.PathID(c, "User")
	if !ok {
		return
	}
	u, err := uc.repo.GetUserByID(id)
	if err != nil {
		responses.SendAppError(c, uc.log, err, "get user")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", u)
}

// Me godoc
// @Summary Current user
// @Description Returns the authenticated caller.
// @Tags Users
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=User}
// @Failure 401 {object} responses.ErrorResponse
// @Router /admin/users/me [get]
// @Security BearerAuth
func (uc *UserController) Me(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	u, err := uc.repo.GetUserByID(caller.UserID)
	if err != nil {
		responses.SendAppError(c, uc.log, err, "get current user")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", u)
}

// CreateUser godoc
// @Summary Create a user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User"
// @Success 201 {object} responses.SuccessResponse{data=User}
// @Failure 400 {object} responses.ErrorResponse
// @Router /admin/users [post]
// @Security BearerAuth
func (uc *UserController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.SendAppError(c, uc.log, err, "hash password")
		return
	}

	u := &User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Role:     access.Role(req.Role),
		IsActive: true,
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	err = uc.repo.WithTransaction(func(repo UserRepository) error {
		existing, err := repo.GetUserByUsername(u.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.Field("username", "A user with that username already exists.")
		}
		return repo.CreateUser(u)
	})
	if err != nil {
		responses.SendAppError(c, uc.log, err, "create user")
		return
	}

	uc.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	responses.SendSuccess(c, http.StatusCreated, "User created successfully", u)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Partial update; omitted fields are left unchanged.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} responses.SuccessResponse{data=User}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/users/{id} [put]
// @Security BearerAuth
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := common.PathID(c, "User")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	var hash string
	if req.Password != nil {
		h, err := utils.HashPassword(*req.Password)
		if err != nil {
			responses.SendAppError(c, uc.log, err, "hash password")
			return
		}
		hash = h
	}

	var updated *User
	err := uc.repo.WithTransaction(func(repo UserRepository) error {
		u, err := repo.GetUserByID(id)
		if err != nil {
			return err
		}
		if u == nil {
			return apperror.NotFound("User")
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		if req.Role != nil {
			u.Role = access.Role(*req.Role)
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if hash != "" {
			u.Password = hash
		}
		updated = u
		return repo.UpdateUser(u)
	})
	if err != nil {
		responses.SendAppError(c, uc.log, err, "update user")
		return
	}

	uc.log.WithField("user_id", updated.ID).Info("user updated")
	responses.SendSuccess(c, http.StatusOK, "User updated successfully", updated)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Deleting your own account is refused.
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/users/{id} [delete]
// @Security BearerAuth
func (uc *UserController) DeleteUser(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	id, ok := common.PathID(c, "User")
	if !ok {
		return
	}
	if id == caller.UserID {
		uc.log.WithField("user_id", id).Warn("refused self-deletion")
		responses.BadRequest(c, "You cannot delete your own account")
		return
	}

	if err := uc.repo.DeleteUser(id); err != nil {
		if apperror.HasCode(err, apperror.CodeDependentsExist) {
			uc.log.WithError(err).WithField("user_id", id).Warn("refused user delete")
		}
		responses.SendAppError(c, uc.log, err, "delete user")
		return
	}
	uc.log.WithFields(logrus.Fields{"user_id": id, "by": caller.UserID}).Info("user deleted")
	responses.SendSuccess(c, http.StatusOK, "User deleted successfully", nil)
}

// MakeAdmin godoc
// @Summary Grant the admin role
// @Tags Users
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "User IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/users/make-admin [post]
// @Security BearerAuth
func (uc *UserController) MakeAdmin(c *gin.Context) {
	uc.setRole(c, access.RoleAdmin)
}

// MakeViewer godoc
// @Summary Reset users to the viewer role
// @Tags Users
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "User IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/users/make-viewer [post]
// @Security BearerAuth
func (uc *UserController) MakeViewer(c *gin.Context) {
	uc.setRole(c, access.RoleViewer)
}

func (uc *UserController) setRole(c *gin.Context, role access.Role) {
	var req common.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	n, err := uc.repo.SetRole(req.IDs, role)
	if err != nil {
		responses.SendAppError(c, uc.log, err, "bulk set role")
		return
	}
	uc.log.WithFields(logrus.Fields{"role": role, "updated": n}).Info("bulk role change")
	responses.SendSuccess(c, http.StatusOK, "", responses.BulkResult{Updated: n})
}

// ToggleActive godoc
// @Summary Flip the active flag
// @Description The caller's own account is skipped.
// @Tags Users
// @Accept json
// @Produce json
// @Param body body common.BulkRequest true "User IDs"
// @Success 200 {object} responses.SuccessResponse{data=responses.BulkResult}
// @Router /admin/users/toggle-active [post]
// @Security BearerAuth
func (uc *UserController) ToggleActive(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	var req common.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	n, err := uc.repo.ToggleActive(req.IDs, caller.UserID)
	if err != nil {
		responses.SendAppError(c, uc.log, err, "bulk toggle active")
		return
	}
	uc.log.WithField("updated", n).Info("bulk toggle active")
	responses.SendSuccess(c, http.StatusOK, "", responses.BulkResult{Updated: n, Skipped: int64(len(req.IDs)) - n})
}
