package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/application/common"
)

func createTask(t *testing.T, f *fixture, token, description string, completed bool) common.TaskResult {
	t.Helper()

	rec := f.request(t, http.MethodPost, "/tasks", token, map[string]any{
		"description": description,
		"completed":   completed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task common.TaskResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	return task
}

func listTasks(t *testing.T, rec *httptest.ResponseRecorder) []common.TaskResult {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tasks []common.TaskResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	return tasks
}

func TestTaskCreate_OwnerForcedToCaller(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")
	eve := f.register(t, "Eve", "eve@example.com")

	// The body cannot pick a different owner.
	rec := f.request(t, http.MethodPost, "/tasks", ada.Token, map[string]any{
		"description": "walk the dog",
		"user_id":     eve.User.Id.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var task common.TaskResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, ada.User.Id, task.UserID)
}

func TestTaskCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")

	rec := f.request(t, http.MethodPost, "/tasks", ada.Token, map[string]any{"description": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskList_OnlyCallersTasks(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")
	eve := f.register(t, "Eve", "eve@example.com")

	createTask(t, f, ada.Token, "ada one", false)
	createTask(t, f, ada.Token, "ada two", true)
	createTask(t, f, eve.Token, "eve one", true)

	tasks := listTasks(t, f.request(t, http.MethodGet, "/tasks", ada.Token, nil))
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, ada.User.Id, task.UserID)
	}
}

func TestTaskList_ComposedQuery(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")

	createTask(t, f, ada.Token, "pending", false)
	first := createTask(t, f, ada.Token, "done first", true)
	second := createTask(t, f, ada.Token, "done second", true)
	createTask(t, f, ada.Token, "done third", true)

	rec := f.request(t, http.MethodGet, "/tasks?completed=true&limit=2&skip=1&sortBy=createdAt:desc", ada.Token, nil)
	tasks := listTasks(t, rec)

	require.Len(t, tasks, 2)
	assert.Equal(t, second.Id, tasks[0].Id)
	assert.Equal(t, first.Id, tasks[1].Id)
	for _, task := range tasks {
		assert.True(t, task.Completed)
	}
}

func TestTaskList_EmptyIsJSONArray(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")

	rec := f.request(t, http.MethodGet, "/tasks", ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTaskGet_OwnershipHidesExistence(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")
	eve := f.register(t, "Eve", "eve@example.com")

	task := createTask(t, f, ada.Token, "private", false)

	// Another user's task reads as missing, never as forbidden.
	rec := f.request(t, http.MethodGet, "/task/"+task.Id.String(), eve.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.request(t, http.MethodGet, "/task/"+task.Id.String(), ada.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTask_MalformedId(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		var body map[string]any
		if method == http.MethodPatch {
			body = map[string]any{"completed": true}
		}
		rec := f.request(t, method, "/task/not-a-uuid", ada.Token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid Id"}`, rec.Body.String())
	}
}

func TestTaskUpdate_Whitelist(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")
	task := createTask(t, f, ada.Token, "walk the dog", false)

	rec := f.request(t, http.MethodPatch, "/task/"+task.Id.String(), ada.Token, map[string]any{
		"description": "walk the cat",
		"completed":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated common.TaskResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "walk the cat", updated.Description)
	assert.True(t, updated.Completed)

	rec = f.request(t, http.MethodPatch, "/task/"+task.Id.String(), ada.Token, map[string]any{
		"owner": "someone-else",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid updates!"}`, rec.Body.String())
}

func TestTaskUpdate_NotOwned(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")
	eve := f.register(t, "Eve", "eve@example.com")
	task := createTask(t, f, ada.Token, "private", false)

	rec := f.request(t, http.MethodPatch, "/task/"+task.Id.String(), eve.Token, map[string]any{
		"completed": true,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskDelete(t *testing.T) {
	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@example.com")
	eve := f.register(t, "Eve", "eve@example.com")
	task := createTask(t, f, ada.Token, "temporary", false)

	rec := f.request(t, http.MethodDelete, "/task/"+task.Id.String(), eve.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.request(t, http.MethodDelete, "/task/"+task.Id.String(), ada.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted common.TaskResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.Equal(t, task.Id, deleted.Id)

	rec = f.request(t, http.MethodGet, "/task/"+task.Id.String(), ada.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
