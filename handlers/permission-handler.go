package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/manuelbmaa/management-system/middleware"
	"github.com/manuelbmaa/management-system/models"
	"github.com/manuelbmaa/management-system/services"

	"github.com/gorilla/mux"
)

type PermissionHandler struct {
	PermissionService *services.PermissionService
}

func NewPermissionHandler(permissionService *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{PermissionService: permissionService}
}

type PermissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PermissionHandler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var req PermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	permission := models.Permission{Name: req.Name, Description: req.Description}
	if err := permission.Validate(); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := h.PermissionService.CreatePermission(r.Context(), permission)
	if err != nil {
		if err.Error() == "permission already exists" {
			writeMessage(w, http.StatusConflict, "Permission already exists")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Permission created successfully",
		"id":          created.ID,
		"name":        created.Name,
		"description": created.Description,
	})
}

func (h *PermissionHandler) GetAllPermissions(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	permissions, err := h.PermissionService.GetAllPermissions(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if permissions == nil {
		permissions = []models.Permission{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"permissions": permissions})
}

func (h *PermissionHandler) GetPermissionByID(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	permission, err := h.PermissionService.GetPermissionByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		switch err.Error() {
		case "invalid permission ID format":
			writeMessage(w, http.StatusBadRequest, err.Error())
		case "permission not found":
			writeMessage(w, http.StatusNotFound, "Permission not found")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"permission": permission})
}

func (h *PermissionHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var req PermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Name == "" || req.Description == "" {
		writeMessage(w, http.StatusBadRequest, "Name and description are required")
		return
	}

	permission := models.Permission{Name: req.Name, Description: req.Description}
	updated, err := h.PermissionService.UpdatePermission(r.Context(), mux.Vars(r)["id"], permission)
	if err != nil {
		switch err.Error() {
		case "invalid permission ID format":
			writeMessage(w, http.StatusBadRequest, err.Error())
		case "name must be between 3 and 50 characters", "description must be between 3 and 255 characters":
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		case "permission not found":
			writeMessage(w, http.StatusNotFound, "Permission not found")
		case "permission already exists":
			writeMessage(w, http.StatusConflict, "Permission already exists")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Permission updated successfully",
		"id":          updated.ID,
		"name":        updated.Name,
		"description": updated.Description,
	})
}

func (h *PermissionHandler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	if err := h.PermissionService.DeletePermission(r.Context(), mux.Vars(r)["id"]); err != nil {
		switch err.Error() {
		case "invalid permission ID format":
			writeMessage(w, http.StatusBadRequest, err.Error())
		case "permission not found":
			writeMessage(w, http.StatusNotFound, "Permission not found")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Permission deleted successfully")
}
