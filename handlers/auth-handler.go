package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"

	"github.com/gurkanusta/WorkNest/services"
)

type AuthHandler struct {
	Service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func validateCredentials(email, password string) map[string]string {
	errs := make(map[string]string)
	if email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Email is not a valid address."
	}
	if len(password) < 8 {
		errs["password"] = "Password must be at least 8 characters long."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if errs := validateCredentials(req.Email, req.Password); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	user, err := h.Service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	_, token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{Token: token})
}
