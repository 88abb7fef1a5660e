package handler

import (
	"encoding/json"
	"logic_exercises/internal/app/service"
	"logic_exercises/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/login/external/auth", h.externalLogin)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		if common.HTTPStatusFromError(err) == http.StatusUnauthorized {
			common.RespondWithError(w, http.StatusUnauthorized, "Wrong user name or password")
			return
		}
		common.RespondWithDomainError(w, "login", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) externalLogin(w http.ResponseWriter, r *http.Request) {
	var req service.ExternalLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	resp, err := h.authService.ExternalLogin(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, "external login", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
