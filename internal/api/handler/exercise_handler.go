package handler

import (
	"encoding/json"
	"fmt"
	"logic_exercises/internal/api/middleware"
	"logic_exercises/internal/app/service"
	"logic_exercises/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ExerciseHandler struct {
	exerciseService *service.ExerciseService
}

func NewExerciseHandler(es *service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: es}
}

// RegisterRoutes expects an authenticated router.
func (h *ExerciseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listExercises)
	r.Get("/{exerciseId}", h.getExercise)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createExercise)
		adminRouter.Put("/{exerciseId}", h.updateExercise)
		adminRouter.Delete("/{exerciseId}", h.deleteExercise)
	})
}

func (h *ExerciseHandler) listExercises(w http.ResponseWriter, r *http.Request) {
	previews, err := h.exerciseService.ListPreviews(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, "list exercises", err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, previews)
}

func (h *ExerciseHandler) getExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "exerciseId")
	if !ok {
		common.RespondWithError(w, http.StatusNotFound, "Exercise not found")
		return
	}
	exercise, err := h.exerciseService.GetExercise(r.Context(), id)
	if err != nil {
		common.RespondWithDomainError(w, fmt.Sprintf("get exercise %d", id), err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exercise)
}

func (h *ExerciseHandler) createExercise(w http.ResponseWriter, r *http.Request) {
	var req service.ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	exercise, err := h.exerciseService.CreateExercise(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, "create exercise", err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, exercise)
}

func (h *ExerciseHandler) updateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "exerciseId")
	if !ok {
		common.RespondWithError(w, http.StatusNotFound, "Exercise not found")
		return
	}
	var req service.ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	exercise, err := h.exerciseService.UpdateExercise(r.Context(), id, req)
	if err != nil {
		common.RespondWithDomainError(w, fmt.Sprintf("update exercise %d", id), err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exercise)
}

func (h *ExerciseHandler) deleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "exerciseId")
	if !ok {
		common.RespondWithError(w, http.StatusNotFound, "Exercise not found")
		return
	}
	if err := h.exerciseService.DeleteExercise(r.Context(), id); err != nil {
		common.RespondWithDomainError(w, fmt.Sprintf("delete exercise %d", id), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
