package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/manuelbmaa/management-system/middleware"
	"github.com/manuelbmaa/management-system/models"
	"github.com/manuelbmaa/management-system/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestAs(method, target, body, role string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if role != "" {
		claims := &utils.Claims{Email: "caller@example.com", Role: role}
		req = req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
	}
	return req
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	return payload["message"]
}

func TestSignupRejectsInvalidPayload(t *testing.T) {
	h := NewAuthHandler(nil)

	rr := httptest.NewRecorder()
	h.Signup(rr, requestAs(http.MethodPost, "/api/auth/signup", "{not json", ""))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignupRejectsShortPasswordBeforePersistence(t *testing.T) {
	// A nil service proves the handler never reaches hashing or storage.
	h := NewAuthHandler(nil)

	rr := httptest.NewRecorder()
	body := `{"email":"ana@example.com","password":"12345","fullname":"Ana Torres","role":"TeamMember"}`
	h.Signup(rr, requestAs(http.MethodPost, "/api/auth/signup", body, ""))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Password must be at least 6 characters long", decodeMessage(t, rr))
}

func TestLoginRejectsMissingCredentials(t *testing.T) {
	h := NewAuthHandler(nil)

	rr := httptest.NewRecorder()
	h.Login(rr, requestAs(http.MethodPost, "/api/auth/login", `{"email":"ana@example.com"}`, ""))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestForgotPasswordRequiresEmail(t *testing.T) {
	h := NewAuthHandler(nil)

	rr := httptest.NewRecorder()
	h.ForgotPassword(rr, requestAs(http.MethodPost, "/api/auth/forgot-password", `{}`, ""))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	h := NewUserHandler(nil)

	rr := httptest.NewRecorder()
	body := `{"email":"ana@example.com","password":"123456","fullname":"Ana Torres"}`
	h.CreateUser(rr, requestAs(http.MethodPost, "/api/users", body, models.RoleTeamMember))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestUpdateUserRequiresID(t *testing.T) {
	h := NewUserHandler(nil)

	rr := httptest.NewRecorder()
	h.UpdateUser(rr, requestAs(http.MethodPut, "/api/users", `{"fullname":"Ana Torres"}`, models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "User ID not provided", decodeMessage(t, rr))
}

func TestDeleteUserRequiresID(t *testing.T) {
	h := NewUserHandler(nil)

	rr := httptest.NewRecorder()
	h.DeleteUser(rr, requestAs(http.MethodDelete, "/api/users", "", models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreatePermissionGatedByRole(t *testing.T) {
	h := NewPermissionHandler(nil)

	rr := httptest.NewRecorder()
	body := `{"name":"edit_project","description":"Can edit projects"}`
	h.CreatePermission(rr, requestAs(http.MethodPost, "/api/permissions", body, models.RoleProjectManager))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCreatePermissionValidatesLengths(t *testing.T) {
	h := NewPermissionHandler(nil)

	rr := httptest.NewRecorder()
	body := `{"name":"ab","description":"Can edit projects"}`
	h.CreatePermission(rr, requestAs(http.MethodPost, "/api/permissions", body, models.RoleAdmin))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "name must be between 3 and 50 characters", decodeMessage(t, rr))

	rr = httptest.NewRecorder()
	body = `{"name":"edit_project","description":"ab"}`
	h.CreatePermission(rr, requestAs(http.MethodPost, "/api/permissions", body, models.RoleAdmin))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCreateRoleValidatesInput(t *testing.T) {
	h := NewRoleHandler(nil)

	rr := httptest.NewRecorder()
	h.CreateRole(rr, requestAs(http.MethodPost, "/api/roles", `{"permissions":["abc"]}`, models.RoleAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Role name is required", decodeMessage(t, rr))

	rr = httptest.NewRecorder()
	h.CreateRole(rr, requestAs(http.MethodPost, "/api/roles", `{"name":"Editor"}`, models.RoleAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Role permissions are required", decodeMessage(t, rr))

	rr = httptest.NewRecorder()
	h.CreateRole(rr, requestAs(http.MethodPost, "/api/roles", `{"name":"Editor","permissions":["not-hex"]}`, models.RoleAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "Invalid permissions", decodeMessage(t, rr))
}

func TestCreateProjectGatedByRole(t *testing.T) {
	h := NewProjectHandler(nil)

	rr := httptest.NewRecorder()
	body := `{"name":"Website","creatorId":"abc"}`
	h.CreateProject(rr, requestAs(http.MethodPost, "/api/projects", body, models.RoleTeamMember))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDeleteProjectRequiresID(t *testing.T) {
	h := NewProjectHandler(nil)

	rr := httptest.NewRecorder()
	h.DeleteProject(rr, requestAs(http.MethodDelete, "/api/projects", "", models.RoleProjectManager))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing project ID", decodeMessage(t, rr))
}

func TestAddTaskRequiresName(t *testing.T) {
	h := NewProjectHandler(nil)

	rr := httptest.NewRecorder()
	body := `{"description":"no name","assignedTo":"u1"}`
	h.AddTask(rr, requestAs(http.MethodPost, "/api/projects/abc/tasks", body, models.RoleProjectManager))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Task name is required", decodeMessage(t, rr))
}

func TestLegacyUpdateRejectsMalformedBody(t *testing.T) {
	h := NewProjectHandler(nil)

	rr := httptest.NewRecorder()
	h.UpdateProject(rr, requestAs(http.MethodPut, "/api/projects", "{not json", models.RoleProjectManager))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLegacyUpdateRequiresProjectID(t *testing.T) {
	h := NewProjectHandler(nil)

	rr := httptest.NewRecorder()
	h.UpdateProject(rr, requestAs(http.MethodPut, "/api/projects", `{"task":{"name":"t"}}`, models.RoleProjectManager))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing project ID", decodeMessage(t, rr))
}

func TestLegacyUpdateTaskAddGatedByRole(t *testing.T) {
	h := NewProjectHandler(nil)

	rr := httptest.NewRecorder()
	body := `{"id":"672a7a7a7a7a7a7a7a7a7a7a","task":{"name":"Deploy","assignedTo":"u1"}}`
	h.UpdateProject(rr, requestAs(http.MethodPut, "/api/projects", body, models.RoleTeamMember))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
