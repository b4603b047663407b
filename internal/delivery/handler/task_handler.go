package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"task-manager/internal/application/command"
	"task-manager/internal/application/interfaces"
	"task-manager/internal/application/query"
	"task-manager/internal/domain/repositories"
	"task-manager/internal/logging"
)

var taskUpdateWhitelist = map[string]bool{
	"description": true,
	"completed":   true,
}

type TaskHandler struct {
	taskService interfaces.TaskService
	log         logging.Logger
}

func NewTaskHandler(taskService interfaces.TaskService, log logging.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, log: log}
}

func (h *TaskHandler) Create(c echo.Context) error {
	var cmd command.CreateTaskCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	result, err := h.taskService.Create(c.Request().Context(), CurrentUser(c).Id, &cmd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, result)
}

// List supports GET /tasks?completed=true&sortBy=createdAt:desc&limit=2&skip=1.
// Every parameter is optional and they compose.
func (h *TaskHandler) List(c echo.Context) error {
	q := query.ListTasksQuery{}

	if completed := c.QueryParam("completed"); completed != "" {
		value := completed == "true"
		q.Completed = &value
	}

	if sortBy := c.QueryParam("sortBy"); sortBy != "" {
		parts := strings.SplitN(sortBy, ":", 2)
		q.SortBy = parts[0]
		q.Desc = len(parts) == 2 && parts[1] == "desc"
	}

	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		q.Limit = limit
	}
	if skip, err := strconv.Atoi(c.QueryParam("skip")); err == nil {
		q.Skip = skip
	}

	results, err := h.taskService.List(c.Request().Context(), CurrentUser(c).Id, q)
	if err != nil {
		h.log.Error(c.Request().Context(), "task listing failed", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, results)
}

func (h *TaskHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid Id"})
	}

	result, err := h.taskService.Get(c.Request().Context(), CurrentUser(c).Id, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *TaskHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid Id"})
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	for key := range body {
		if !taskUpdateWhitelist[key] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid updates!"})
		}
	}

	var cmd command.UpdateTaskCommand
	raw, err := json.Marshal(body)
	if err == nil {
		err = json.Unmarshal(raw, &cmd)
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	result, err := h.taskService.Update(c.Request().Context(), CurrentUser(c).Id, id, &cmd)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid Id"})
	}

	result, err := h.taskService.Delete(c.Request().Context(), CurrentUser(c).Id, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, result)
}
