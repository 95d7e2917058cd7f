package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wari-app/wari/config"
	"github.com/wari-app/wari/internal/user"
	"github.com/wari-app/wari/pkg/responses"
	"github.com/wari-app/wari/pkg/token"
	"github.com/wari-app/wari/pkg/validator"
	"github.com/wari-app/wari/utils"
)

type AuthController struct {
	repo   AuthRepository
	config *config.Config
	log    *logrus.Logger
}

func NewAuthController(repo AuthRepository, cfg *config.Config, log *logrus.Logger) *AuthController {
	return &AuthController{repo: repo, config: cfg, log: log}
}

func (ac *AuthController) accessTTL() time.Duration {
	return time.Duration(ac.config.JWT.AccessTokenExpiryMinutes) * time.Minute
}

func (ac *AuthController) refreshTTL() time.Duration {
	return time.Duration(ac.config.JWT.RefreshTokenExpiryDays) * 24 * time.Hour
}

func (ac *AuthController) issueTokens(u *user.User) (string, string, error) {
	access, err := token.GenerateJWT(u.ID, string(u.Role), token.TypeAccess, ac.config.JWT.AccessTokenSecret, ac.accessTTL())
	if err != nil {
		return "", "", fmt.Errorf("access token generation failed: %w", err)
	}
	refresh, err := token.GenerateJWT(u.ID, string(u.Role), token.TypeRefresh, ac.config.JWT.RefreshTokenSecret, ac.refreshTTL())
	if err != nil {
		return "", "", fmt.Errorf("refresh token generation failed: %w", err)
	}
	return access, refresh, nil
}

// @Summary      Obtain a token pair
// @Description  Exchanges username and password for an access and a refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Credentials"
// @Success      200  {object}  responses.SuccessResponse{data=TokenPair}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      401  {object}  responses.ErrorResponse "No active account with the given credentials"
// @Router       /token [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	found, err := ac.repo.GetUserByUsername(req.Username)
	if err != nil {
		responses.SendAppError(c, ac.log, err, "login lookup")
		return
	}
	if found == nil || !found.IsActive || !utils.CheckPassword(found.Password, req.Password) {
		ac.log.WithField("username", req.Username).Warn("failed login")
		responses.Unauthorized(c, "No active account found with the given credentials")
		return
	}

	access, refresh, err := ac.issueTokens(found)
	if err != nil {
		responses.SendAppError(c, ac.log, err, "issue tokens")
		return
	}

	ac.log.WithField("user_id", found.ID).Info("token pair issued")
	responses.SendSuccess(c, http.StatusOK, "", TokenPair{Access: access, Refresh: refresh, User: found})
}

// @Summary      Refresh the access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} responses.SuccessResponse{data=AccessToken}
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse "Invalid or expired refresh token"
// @Router       /token/refresh [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}

	claims, err := token.ValidateJWT(req.Refresh, ac.config.JWT.RefreshTokenSecret, token.TypeRefresh)
	if err != nil {
		responses.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	u, err := ac.repo.GetActiveUserByID(claims.UserID)
	if err != nil {
		responses.SendAppError(c, ac.log, err, "refresh lookup")
		return
	}
	if u == nil {
		responses.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	access, err := token.GenerateJWT(u.ID, string(u.Role), token.TypeAccess, ac.config.JWT.AccessTokenSecret, ac.accessTTL())
	if err != nil {
		responses.SendAppError(c, ac.log, err, "issue access token")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", AccessToken{Access: access})
}
