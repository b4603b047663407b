package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"task-manager/internal/application/command"
	"task-manager/internal/application/interfaces"
	"task-manager/internal/application/mapper"
	"task-manager/internal/infrastructure"
	"task-manager/internal/logging"
)

// userUpdateWhitelist is the full set of mutable profile fields. A request
// body containing any other key is rejected outright.
var userUpdateWhitelist = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

type UserHandler struct {
	userService interfaces.UserService
	log         logging.Logger
}

func NewUserHandler(userService interfaces.UserService, log logging.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) Register(c echo.Context) error {
	var cmd command.CreateUserCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	result, err := h.userService.Register(c.Request().Context(), &cmd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *UserHandler) Login(c echo.Context) error {
	var cmd command.LoginUserCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	result, err := h.userService.Login(c.Request().Context(), &cmd)
	if err != nil {
		// No detail: every login failure reads the same to the caller.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unable to login"})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Logout(c echo.Context) error {
	user := CurrentUser(c)
	if err := h.userService.Logout(c.Request().Context(), user, CurrentToken(c)); err != nil {
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, mapper.NewUserResultFromEntity(user))
}

func (h *UserHandler) LogoutAll(c echo.Context) error {
	if err := h.userService.LogoutAll(c.Request().Context(), CurrentUser(c)); err != nil {
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}

func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, mapper.NewUserResultFromEntity(CurrentUser(c)))
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	for key := range body {
		if !userUpdateWhitelist[key] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid updates!"})
		}
	}

	var cmd command.UpdateUserCommand
	raw, err := json.Marshal(body)
	if err == nil {
		err = json.Unmarshal(raw, &cmd)
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	result, err := h.userService.UpdateProfile(c.Request().Context(), CurrentUser(c), &cmd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *UserHandler) DeleteMe(c echo.Context) error {
	result, err := h.userService.DeleteAccount(c.Request().Context(), CurrentUser(c))
	if err != nil {
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *UserHandler) UploadAvatar(c echo.Context) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "avatar file is required"})
	}
	if fileHeader.Size > infrastructure.MaxAvatarBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": infrastructure.ErrAvatarTooLarge.Error()})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.NoContent(http.StatusInternalServerError)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, infrastructure.MaxAvatarBytes+1))
	if err != nil {
		return c.NoContent(http.StatusInternalServerError)
	}

	if err := h.userService.SetAvatar(c.Request().Context(), CurrentUser(c), fileHeader.Filename, data); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.NoContent(http.StatusOK)
}

func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	if err := h.userService.RemoveAvatar(c.Request().Context(), CurrentUser(c)); err != nil {
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusOK)
}

// GetAvatar is public: a missing user, a missing avatar and a malformed id
// are all the same 404.
func (h *UserHandler) GetAvatar(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	data, err := h.userService.GetAvatar(c.Request().Context(), id)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	return c.Blob(http.StatusOK, "image/png", data)
}
