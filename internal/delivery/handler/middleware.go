package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"task-manager/internal/domain/entities"
	"task-manager/internal/domain/repositories"
	"task-manager/internal/infrastructure"
)

const (
	contextUserKey  = "user"
	contextTokenKey = "token"
)

// Auth walks a request through token extraction, signature verification,
// user resolution and the revocation check. A verified token whose string is
// no longer in the user's active set is rejected: logout wins over a valid
// signature. On success the resolved user and the raw token are attached to
// the request context so logout can revoke exactly the current session.
func Auth(tokenService *infrastructure.TokenService, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return unauthorized(c)
			}

			userID, err := tokenService.Verify(token)
			if err != nil {
				return unauthorized(c)
			}

			user, err := userRepo.FindById(c.Request().Context(), userID)
			if err != nil {
				return unauthorized(c)
			}
			if !user.HasToken(token) {
				return unauthorized(c)
			}

			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please authenticate."})
}

// CurrentUser returns the user resolved by the Auth middleware.
func CurrentUser(c echo.Context) *entities.User {
	user, _ := c.Get(contextUserKey).(*entities.User)
	return user
}

// CurrentToken returns the raw token the current request authenticated with.
func CurrentToken(c echo.Context) string {
	token, _ := c.Get(contextTokenKey).(string)
	return token
}

// RateLimit throttles the unauthenticated credential endpoints per client IP.
func RateLimit(window time.Duration, maxRequests int) echo.MiddlewareFunc {
	limit := rate.Limit(float64(maxRequests) / window.Seconds())
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     maxRequests,
		ExpiresIn: 3 * window,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		ErrorHandler: func(c echo.Context, _ error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
		},
	})
}
