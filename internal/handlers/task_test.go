package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbox/internal/auth"
	"taskbox/internal/dto"
	"taskbox/internal/kv"
	"taskbox/internal/repo"
	"taskbox/internal/service"
)

// staticSessions resolves one fixed cookie to one owner, which is all the
// handler tests need from the auth boundary.
type staticSessions struct {
	owner string
}

func (s staticSessions) Create(context.Context, string) (string, error) { return "test", nil }
func (s staticSessions) Delete(context.Context, string) error          { return nil }
func (s staticSessions) Owner(_ context.Context, id string) (string, bool) {
	if id != "test" {
		return "", false
	}
	return s.owner, true
}

func newTestRouter(t *testing.T, owner string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := kv.NewMemory()
	svc := service.NewTaskService(repo.NewKVTaskRepo(mem), repo.NewKVSequence(mem), nil)
	h := NewTaskHandler(svc)

	r := gin.New()
	api := r.Group("/api/v1", auth.RequireSession(staticSessions{owner: owner}))
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.GET("/tasks/:id", h.GetByID)
	api.PATCH("/tasks/:id", h.UpdateDescription)
	api.DELETE("/tasks/:id", h.Delete)
	api.POST("/tasks/:id/toggle", h.Toggle)
	api.PUT("/tasks/:id/priority", h.SetPriority)
	api.POST("/tasks/:id/tags", h.AddTag)
	api.DELETE("/tasks/:id/tags", h.RemoveTag)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "test"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTaskResponse(t *testing.T, w *httptest.ResponseRecorder) dto.TaskResponse {
	t.Helper()
	var resp dto.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateAndGetTask(t *testing.T) {
	r := newTestRouter(t, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: "buy milk"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeTaskResponse(t, w)
	assert.Equal(t, uint32(1), created.ID)
	assert.Equal(t, "medium", created.Priority)
	assert.Equal(t, []string{}, created.Tags)

	w = doJSON(t, r, http.MethodGet, "/api/v1/tasks/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodeTaskResponse(t, w))
}

func TestCreateWithPriority(t *testing.T) {
	r := newTestRouter(t, "alice")

	high := "high"
	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: "x", Priority: &high})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "high", decodeTaskResponse(t, w).Priority)

	bogus := "critical"
	w = doJSON(t, r, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: "x", Priority: &bogus})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMissingTaskIs404(t *testing.T) {
	r := newTestRouter(t, "alice")

	w := doJSON(t, r, http.MethodGet, "/api/v1/tasks/12", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidIDIs400(t *testing.T) {
	r := newTestRouter(t, "alice")

	for _, raw := range []string{"abc", "-1", "0", "4294967296"} {
		w := doJSON(t, r, http.MethodGet, "/api/v1/tasks/"+raw, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", raw)
	}
}

func TestListPagination(t *testing.T) {
	r := newTestRouter(t, "alice")

	for _, d := range []string{"A", "B", "C"} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: d})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/tasks?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ListTasksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "A", resp.Items[0].Description)
	assert.Equal(t, "B", resp.Items[1].Description)

	w = doJSON(t, r, http.MethodGet, "/api/v1/tasks?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = dto.ListTasksResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "C", resp.Items[0].Description)

	w = doJSON(t, r, http.MethodGet, "/api/v1/tasks?page=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDescriptionValidation(t *testing.T) {
	r := newTestRouter(t, "alice")

	doJSON(t, r, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: "original"})

	w := doJSON(t, r, http.MethodPatch, "/api/v1/tasks/1", dto.UpdateTaskRequest{Description: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/tasks/1", nil)
	assert.Equal(t, "original", decodeTaskResponse(t, w).Description)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/tasks/1", dto.UpdateTaskRequest{Description: "updated"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "updated", decodeTaskResponse(t, w).Description)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/tasks/9", dto.UpdateTaskRequest{Description: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteIs204AndIdempotent(t *testing.T) {
	r := newTestRouter(t, "alice")

	doJSON(t, r, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: "x"})

	w := doJSON(t, r, http.MethodDelete, "/api/v1/tasks/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/tasks/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestToggleAndPriorityRoutes(t *testing.T) {
	r := newTestRouter(t, "alice")

	doJSON(t, r, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: "x"})

	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks/1/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeTaskResponse(t, w).IsCompleted)

	w = doJSON(t, r, http.MethodPut, "/api/v1/tasks/1/priority", dto.SetPriorityRequest{Priority: "low"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "low", decodeTaskResponse(t, w).Priority)

	w = doJSON(t, r, http.MethodPut, "/api/v1/tasks/1/priority", dto.SetPriorityRequest{Priority: "critical"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/tasks/7/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTagRoutes(t *testing.T) {
	r := newTestRouter(t, "alice")

	doJSON(t, r, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: "x"})

	doJSON(t, r, http.MethodPost, "/api/v1/tasks/1/tags", dto.AddTagRequest{Tag: "urgent"})
	w := doJSON(t, r, http.MethodPost, "/api/v1/tasks/1/tags", dto.AddTagRequest{Tag: "urgent"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"urgent", "urgent"}, decodeTaskResponse(t, w).Tags)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/tasks/1/tags?tag=urgent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{}, decodeTaskResponse(t, w).Tags)
}

func TestRemoveTagRequiresTagParameter(t *testing.T) {
	r := newTestRouter(t, "alice")

	doJSON(t, r, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: "x"})
	doJSON(t, r, http.MethodPost, "/api/v1/tasks/1/tags", dto.AddTagRequest{Tag: ""})

	// Omitting the parameter is a bad request; it must not be read as the
	// empty tag, which is a legal tag value.
	w := doJSON(t, r, http.MethodDelete, "/api/v1/tasks/1/tags", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// An explicitly empty tag value still targets empty-string tags.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/tasks/1/tags?tag=", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{}, decodeTaskResponse(t, w).Tags)
}

func TestOwnersAreIsolatedAcrossRouters(t *testing.T) {
	mem := kv.NewMemory()
	svc := service.NewTaskService(repo.NewKVTaskRepo(mem), repo.NewKVSequence(mem), nil)
	h := NewTaskHandler(svc)

	gin.SetMode(gin.TestMode)
	newRouterFor := func(owner string) *gin.Engine {
		r := gin.New()
		api := r.Group("/api/v1", auth.RequireSession(staticSessions{owner: owner}))
		api.POST("/tasks", h.Create)
		api.GET("/tasks/:id", h.GetByID)
		return r
	}
	alice := newRouterFor("alice")
	bob := newRouterFor("bob")

	w := doJSON(t, alice, http.MethodPost, "/api/v1/tasks", dto.CreateTaskRequest{Description: "private"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeTaskResponse(t, w).ID

	w = doJSON(t, bob, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, alice, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
