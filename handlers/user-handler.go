package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/manuelbmaa/management-system/middleware"
	"github.com/manuelbmaa/management-system/models"
	"github.com/manuelbmaa/management-system/services"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

// CreateUser is the admin-side variant of signup.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := services.ValidatePassword(req.Password); err != nil {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	user := models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
	}

	created, err := h.UserService.CreateUser(r.Context(), user, req.Password)
	if err != nil {
		switch err.Error() {
		case "email already exists":
			writeMessage(w, http.StatusConflict, "Email already exists")
		case "invalid role specified", "email is invalid", "fullname must be between 3 and 50 characters":
			writeMessage(w, http.StatusBadRequest, err.Error())
		default:
			writeMessage(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "User created successfully",
		"id":       created.ID,
		"email":    created.Email,
		"fullname": created.FullName,
		"role":     created.Role,
	})
}

// GetUsers fetches one user when userId is given, otherwise lists all
// users, optionally excluding the caller via the exclude parameter.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID != "" {
		user, err := h.UserService.GetUserByID(r.Context(), userID)
		if err != nil {
			switch err.Error() {
			case "invalid user ID format":
				writeMessage(w, http.StatusBadRequest, err.Error())
			case "user not found":
				writeMessage(w, http.StatusNotFound, "User not found")
			default:
				writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
			}
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}

	users, err := h.UserService.GetAllUsers(r.Context(), r.URL.Query().Get("exclude"))
	if err != nil {
		if err.Error() == "invalid user ID format" {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

type UpdateUserRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeMessage(w, http.StatusBadRequest, "User ID not provided")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.UserService.UpdateUser(r.Context(), userID, req.FullName, req.Email, req.Role)
	if err != nil {
		switch err.Error() {
		case "invalid user ID format", "invalid role specified", "email is invalid", "fullname must be between 3 and 50 characters":
			writeMessage(w, http.StatusBadRequest, err.Error())
		case "email already exists":
			writeMessage(w, http.StatusConflict, "Email already exists")
		case "user not found":
			writeMessage(w, http.StatusNotFound, "User not found")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r, models.RoleAdmin); err != nil {
		writeMessage(w, http.StatusForbidden, err.Error())
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeMessage(w, http.StatusBadRequest, "User ID not provided")
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), userID); err != nil {
		switch err.Error() {
		case "invalid user ID format":
			writeMessage(w, http.StatusBadRequest, err.Error())
		case "user not found":
			writeMessage(w, http.StatusNotFound, "User not found")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeMessage(w, http.StatusOK, "User deleted")
}
