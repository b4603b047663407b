package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"task-manager/internal/application/interfaces"
	"task-manager/internal/domain/repositories"
	"task-manager/internal/infrastructure"
	"task-manager/internal/logging"
)

type RouterConfig struct {
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
}

// NewRouter wires every route from the HTTP surface. The credential
// endpoints are rate limited; everything else except avatar fetch sits
// behind the auth middleware.
func NewRouter(
	userService interfaces.UserService,
	taskService interfaces.TaskService,
	userRepo repositories.UserRepository,
	tokenService *infrastructure.TokenService,
	log logging.Logger,
	cfg RouterConfig,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())

	auth := Auth(tokenService, userRepo)
	limited := RateLimit(cfg.RateLimitWindow, cfg.RateLimitMaxRequests)

	userHandler := NewUserHandler(userService, log)
	taskHandler := NewTaskHandler(taskService, log)

	e.POST("/users", userHandler.Register, limited)
	e.POST("/users/login", userHandler.Login, limited)
	e.POST("/users/logout", userHandler.Logout, auth)
	e.POST("/users/logoutAll", userHandler.LogoutAll, auth)
	e.GET("/users/me", userHandler.Me, auth)
	e.PATCH("/users/me", userHandler.UpdateMe, auth)
	e.DELETE("/users/me", userHandler.DeleteMe, auth)
	e.POST("/users/me/avatar", userHandler.UploadAvatar, auth)
	e.DELETE("/users/me/avatar", userHandler.DeleteAvatar, auth)
	e.GET("/users/:id/avatar", userHandler.GetAvatar)

	e.POST("/tasks", taskHandler.Create, auth)
	e.GET("/tasks", taskHandler.List, auth)
	e.GET("/task/:id", taskHandler.Get, auth)
	e.PATCH("/task/:id", taskHandler.Update, auth)
	e.DELETE("/task/:id", taskHandler.Delete, auth)

	return e
}
