package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/printmate/printmate/internal/ctxkeys"
	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/service"
	"github.com/printmate/printmate/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type authResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Data    *authData         `json:"data,omitempty"`
}

type authData struct {
	User *model.Identity `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, authResponse{Message: "Invalid request body"})
		return
	}

	fieldErrs := map[string]string{}
	if err := validation.ValidateIdentifier(req.Identifier); err != nil {
		fieldErrs["identifier"] = err.Error()
	}
	if req.Password == "" {
		fieldErrs["password"] = "password is required"
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, authResponse{Message: "Validation failed", Errors: fieldErrs})
		return
	}

	user, err := h.authService.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			writeJSON(w, http.StatusUnauthorized, authResponse{Message: "No account found with this email or phone number"})
		case errors.Is(err, service.ErrIncorrectPassword):
			writeJSON(w, http.StatusUnauthorized, authResponse{Message: "Incorrect password"})
		default:
			slog.Error("login failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, authResponse{Message: "Something went wrong. Please try again."})
		}
		return
	}

	token, expiry, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to issue session", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, authResponse{Message: "Something went wrong. Please try again."})
		return
	}
	h.authService.SetJWTCookie(w, token, expiry)

	slog.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, authResponse{Success: true, Data: &authData{User: user.Identity()}})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := ctxkeys.Identity(r.Context()); id != nil {
		h.authService.Forget(id.ID)
	}
	h.authService.ClearJWTCookie(w)
	writeJSON(w, http.StatusOK, authResponse{Success: true, Message: "Logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, authResponse{Success: true, Data: &authData{User: ctxkeys.Identity(r.Context())}})
}
