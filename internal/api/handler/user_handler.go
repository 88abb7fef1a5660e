package handler

import (
	"encoding/json"
	"logic_exercises/internal/api/middleware"
	"logic_exercises/internal/app/service"
	"logic_exercises/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(us *service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// RegisterRoutes expects an authenticated router.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.AdminOnly).Post("/admins", h.setAdmin)
}

func (h *UserHandler) setAdmin(w http.ResponseWriter, r *http.Request) {
	var req service.PromoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	isAdmin := true
	if req.IsAdmin != nil {
		isAdmin = *req.IsAdmin
	}
	updated, err := h.userService.SetAdminByName(r.Context(), req.Name, isAdmin)
	if err != nil {
		common.RespondWithDomainError(w, "set admin flag", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"name":     req.Name,
		"is_admin": isAdmin,
		"updated":  updated,
	})
}
