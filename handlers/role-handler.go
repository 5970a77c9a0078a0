package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/manuelbmaa/management-system/middleware"
	"github.com/manuelbmaa/management-system/models"
	"github.com/manuelbmaa/management-system/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoleHandler struct {
	RoleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{RoleService: roleService}
}

type RoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func parsePermissionIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		out = append(out, objectID)
	}
	return out, nil
}

func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Name == "" {
		writeMessage(w, http.StatusUnprocessableEntity, "Role name is required")
		return
	}
	if len(req.Permissions) == 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "Role permissions are required")
		return
	}

	permissionIDs, err := parsePermissionIDs(req.Permissions)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid permissions")
		return
	}

	role, err := h.RoleService.CreateRole(r.Context(), req.Name, permissionIDs)
	if err != nil {
		switch err.Error() {
		case "invalid permissions", "role permissions are required", "role name is required":
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		case "role already exists":
			writeMessage(w, http.StatusConflict, "Role already exists")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"role": role})
}

func (h *RoleHandler) GetAllRoles(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	roles, err := h.RoleService.GetAllRoles(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if roles == nil {
		roles = []models.ExpandedRole{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"roles": roles})
}

func (h *RoleHandler) GetRoleByID(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	role, err := h.RoleService.GetRoleByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		switch err.Error() {
		case "invalid role ID format":
			writeMessage(w, http.StatusBadRequest, err.Error())
		case "role not found":
			writeMessage(w, http.StatusNotFound, "Role not found")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"role": role})
}

func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Name == "" {
		writeMessage(w, http.StatusUnprocessableEntity, "Role name is required")
		return
	}
	if len(req.Permissions) == 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "Role permissions are required")
		return
	}

	permissionIDs, err := parsePermissionIDs(req.Permissions)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid permissions")
		return
	}

	updated, err := h.RoleService.UpdateRole(r.Context(), mux.Vars(r)["id"], req.Name, permissionIDs)
	if err != nil {
		switch err.Error() {
		case "invalid role ID format":
			writeMessage(w, http.StatusBadRequest, err.Error())
		case "invalid permissions", "role permissions are required", "role name is required":
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		case "role not found":
			writeMessage(w, http.StatusNotFound, "Role not found")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Role updated successfully",
		"role":    updated,
	})
}

func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	if err := h.RoleService.DeleteRole(r.Context(), mux.Vars(r)["id"]); err != nil {
		switch err.Error() {
		case "invalid role ID format":
			writeMessage(w, http.StatusBadRequest, err.Error())
		case "role not found":
			writeMessage(w, http.StatusNotFound, "Role not found")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Role deleted successfully")
}
