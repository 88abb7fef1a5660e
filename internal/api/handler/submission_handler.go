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

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

// RegisterRoutes expects an authenticated router.
func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{exerciseId}/{propositionId}", h.submitSolution)
	// The static progress prefix shadows {exerciseId}; answer like any non-numeric id.
	r.Post("/progress/{propositionId}", h.submitSolution)
}

func (h *SubmissionHandler) submitSolution(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	exerciseID, okExercise := idParam(r, "exerciseId")
	propositionID, okProposition := idParam(r, "propositionId")
	if !okExercise || !okProposition {
		common.RespondWithError(w, http.StatusBadRequest, "URL parameters are not numbers")
		return
	}

	// Any "user" field in the body is ignored; the submitter is the token holder.
	var req service.SubmitSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	submitter := service.Submitter{Name: session.Username, IdentityKey: session.IdentityKey}
	result, err := h.submissionService.Submit(r.Context(), exerciseID, propositionID, submitter, req)
	if err != nil {
		common.RespondWithDomainError(w, fmt.Sprintf("submit exercise %d proposition %d by %s", exerciseID, propositionID, session.Username), err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
