package middleware

import (
	"net/http"

	"entrybase/internal/domain/entity"
	"entrybase/internal/utils"
	"entrybase/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserRepository interface {
	FindByID(id int64) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	UserRepo UserRepository
	Secret   []byte
}

// NewAuthMiddleware resolves the bearer token to a stored user and exposes
// it at the "user" context key for every downstream handler.
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := utils.ParseTokenDataCtx(c, cfg.Secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := cfg.UserRepo.FindByID(tokenData.UserID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// User deleted in DB but still has a valid token???
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

// AdminOnly gates a route group behind the admin role. Must run after the
// auth middleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, apierr := utils.GetUserFromContext(c)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			if !user.IsAdmin() {
				return c.JSON(http.StatusForbidden, apierror.AdminOnlyError)
			}
			return next(c)
		}
	}
}
