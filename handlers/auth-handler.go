package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/manuelbmaa/management-system/logging"
	"github.com/manuelbmaa/management-system/models"
	"github.com/manuelbmaa/management-system/services"
)

type AuthHandler struct {
	UserService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	Role     string `json:"role"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Signup creates a new user account. The password length check runs before
// any hashing or persistence.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
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
		case "invalid role specified":
			writeMessage(w, http.StatusBadRequest, "Invalid role specified")
		case "email is invalid", "fullname must be between 3 and 50 characters":
			writeMessage(w, http.StatusBadRequest, err.Error())
		default:
			logging.Logger.Errorf("Event ID: SIGNUP_FAILED, Description: Failed to create user %s: %v", req.Email, err)
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
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

// Login verifies credentials and returns a session token with the user's
// role claim.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.UserService.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:    token,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	})
}

// ForgotPassword mails a freshly generated password to the user.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.UserService.ResetPassword(r.Context(), req.Email); err != nil {
		switch err.Error() {
		case "user not found":
			writeMessage(w, http.StatusNotFound, "User not found")
		case "failed to send password reset email":
			writeMessage(w, http.StatusBadGateway, "Failed to send password reset email")
		default:
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successfully")
}
