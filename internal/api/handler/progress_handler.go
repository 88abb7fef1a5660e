package handler

import (
	"fmt"
	"logic_exercises/internal/api/middleware"
	"logic_exercises/internal/app/service"
	"logic_exercises/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(ps *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: ps}
}

// RegisterRoutes expects an authenticated router; every route is admin-only.
func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Get("/progress/{propositionId}", h.listSubmitters)
		adminRouter.Get("/progress/user/{userId}/{propositionId}", h.listUserSolutions)
	})
}

func (h *ProgressHandler) listSubmitters(w http.ResponseWriter, r *http.Request) {
	propositionID, ok := idParam(r, "propositionId")
	if !ok {
		common.RespondWithError(w, http.StatusNotFound, "Proposition not found")
		return
	}
	summaries, err := h.progressService.SubmittersForProposition(r.Context(), propositionID)
	if err != nil {
		common.RespondWithDomainError(w, fmt.Sprintf("progress of proposition %d", propositionID), err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, summaries)
}

func (h *ProgressHandler) listUserSolutions(w http.ResponseWriter, r *http.Request) {
	userID, okUser := idParam(r, "userId")
	propositionID, okProposition := idParam(r, "propositionId")
	if !okUser || !okProposition {
		common.RespondWithError(w, http.StatusNotFound, "Not found")
		return
	}
	solutions, err := h.progressService.UserSolutions(r.Context(), userID, propositionID)
	if err != nil {
		common.RespondWithDomainError(w, fmt.Sprintf("solutions of user %d for proposition %d", userID, propositionID), err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, solutions)
}
