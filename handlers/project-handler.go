package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/manuelbmaa/management-system/logging"
	"github.com/manuelbmaa/management-system/middleware"
	"github.com/manuelbmaa/management-system/models"
	"github.com/manuelbmaa/management-system/services"

	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	ProjectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{ProjectService: projectService}
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatorID   string `json:"creatorId"`
}

// writeProjectError translates project service errors to status codes.
func writeProjectError(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case msg == "invalid project ID format",
		msg == "project name is required",
		msg == "task index out of range",
		msg == "no fields to update",
		msg == "invalid assignee ID format",
		msg == "assigned user not found",
		strings.HasPrefix(msg, "invalid task status"):
		writeMessage(w, http.StatusBadRequest, msg)
	case msg == "project not found", msg == "task not found":
		writeMessage(w, http.StatusNotFound, msg)
	case msg == "project was modified concurrently":
		writeMessage(w, http.StatusConflict, msg)
	default:
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleProjectManager, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	project, err := h.ProjectService.CreateProject(r.Context(), req.Name, req.Description, req.Status, req.CreatorID)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// GetProjects dispatches on the id, memberId and managerId query filters,
// defaulting to list-all.
func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin, models.RoleProjectManager, models.RoleTeamMember); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	query := r.URL.Query()

	if id := query.Get("id"); id != "" {
		project, err := h.ProjectService.GetProjectByID(r.Context(), id)
		if err != nil {
			writeProjectError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, project)
		return
	}

	var (
		projects []models.Project
		err      error
	)
	switch {
	case query.Get("memberId") != "":
		projects, err = h.ProjectService.GetProjectsByMember(r.Context(), query.Get("memberId"))
	case query.Get("managerId") != "":
		projects, err = h.ProjectService.GetProjectsByManager(r.Context(), query.Get("managerId"))
	default:
		projects, err = h.ProjectService.GetAllProjects(r.Context())
	}
	if err != nil {
		writeProjectError(w, err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleProjectManager, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "Missing project ID")
		return
	}

	if err := h.ProjectService.DeleteProject(r.Context(), id); err != nil {
		writeProjectError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Project deleted")
}

// AddTask appends a task to the project and joins the assignee to the
// member set.
func (h *ProjectHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleProjectManager); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if task.Name == "" {
		writeMessage(w, http.StatusBadRequest, "Task name is required")
		return
	}

	created, err := h.ProjectService.AddTask(r.Context(), mux.Vars(r)["id"], task)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateTask replaces a task addressed by its stable id. Team members use
// this to advance the task status.
func (h *ProjectHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleProjectManager, models.RoleTeamMember); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	vars := mux.Vars(r)
	updated, err := h.ProjectService.UpdateTask(r.Context(), vars["id"], vars["taskId"], task)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleProjectManager); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	vars := mux.Vars(r)
	if err := h.ProjectService.DeleteTask(r.Context(), vars["id"], vars["taskId"]); err != nil {
		writeProjectError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Task deleted")
}

// AddComment appends a comment; the author fields are taken verbatim as a
// denormalized snapshot, the timestamp is server-side.
func (h *ProjectHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin, models.RoleProjectManager, models.RoleTeamMember); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := h.ProjectService.AddComment(r.Context(), mux.Vars(r)["id"], comment)
	if err != nil {
		writeProjectError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// PatchProject shallow-merges arbitrary fields into the project document.
func (h *ProjectHandler) PatchProject(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleProjectManager); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.ProjectService.PatchProject(r.Context(), mux.Vars(r)["id"], fields); err != nil {
		writeProjectError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Project updated")
}

// LegacyUpdateRequest is the multiplexed update body: exactly one of the
// optional operation keys is honored, in the documented precedence order.
type LegacyUpdateRequest struct {
	ID         string          `json:"id"`
	Task       *models.Task    `json:"task"`
	Comment    *models.Comment `json:"comment"`
	UpdateTask *struct {
		TaskIndex   int         `json:"taskIndex"`
		UpdatedTask models.Task `json:"updatedTask"`
	} `json:"updateTask"`
	DeleteTaskIndex *int `json:"deleteTaskIndex"`
}

// UpdateProject is the legacy multiplexed PUT /api/projects endpoint kept
// for interface compatibility. It dispatches onto the same operations the
// explicit routes use.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var req LegacyUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.ID == "" {
		writeMessage(w, http.StatusBadRequest, "Missing project ID")
		return
	}

	switch {
	case req.Task != nil:
		if err := middleware.RequireRole(r, models.RoleProjectManager); err != nil {
			writeMessage(w, http.StatusForbidden, err.Error())
			return
		}
		_, err = h.ProjectService.AddTask(r.Context(), req.ID, *req.Task)

	case req.Comment != nil:
		if err := middleware.RequireRole(r, models.RoleAdmin, models.RoleProjectManager, models.RoleTeamMember); err != nil {
			writeMessage(w, http.StatusForbidden, err.Error())
			return
		}
		_, err = h.ProjectService.AddComment(r.Context(), req.ID, *req.Comment)

	case req.UpdateTask != nil:
		if err := middleware.RequireRole(r, models.RoleProjectManager, models.RoleTeamMember); err != nil {
			writeMessage(w, http.StatusForbidden, err.Error())
			return
		}
		_, err = h.ProjectService.UpdateTaskAtIndex(r.Context(), req.ID, req.UpdateTask.TaskIndex, req.UpdateTask.UpdatedTask)

	case req.DeleteTaskIndex != nil:
		if err := middleware.RequireRole(r, models.RoleProjectManager); err != nil {
			writeMessage(w, http.StatusForbidden, err.Error())
			return
		}
		err = h.ProjectService.DeleteTaskAtIndex(r.Context(), req.ID, *req.DeleteTaskIndex)

	default:
		if err := middleware.RequireRole(r, models.RoleProjectManager); err != nil {
			writeMessage(w, http.StatusForbidden, err.Error())
			return
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(body, &fields); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		err = h.ProjectService.PatchProject(r.Context(), req.ID, fields)
	}

	if err != nil {
		logging.Logger.Warnf("Event ID: PROJECT_UPDATE_FAILED, Description: Multiplexed update for project %s failed: %v", req.ID, err)
		writeProjectError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Project updated")
}
