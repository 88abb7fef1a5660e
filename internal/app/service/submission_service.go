package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/model"
	"logic_exercises/internal/domain/repository"
	"strconv"
	"strings"
	"time"
)

// Evaluator decides logical equivalence between a solution and the reference
// formalizations of a proposition.
type Evaluator interface {
	Evaluate(ctx context.Context, solution, helpSolution string, formalizations []model.Formalization, exercise *model.Exercise) (*model.Evaluation, error)
}

type SubmissionService struct {
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	solutionRepo repository.SolutionRepository
	evaluator    Evaluator
	now          func() time.Time
}

func NewSubmissionService(
	userRepo repository.UserRepository,
	exerciseRepo repository.ExerciseRepository,
	solutionRepo repository.SolutionRepository,
	evaluator Evaluator,
) *SubmissionService {
	return &SubmissionService{
		userRepo:     userRepo,
		exerciseRepo: exerciseRepo,
		solutionRepo: solutionRepo,
		evaluator:    evaluator,
		now:          time.Now,
	}
}

type SubmitSolutionRequest struct {
	Solution     string `json:"solution"`
	HelpSolution string `json:"helpSolution"`
}

// Submitter identifies the token holder. IdentityKey is empty for tokens
// issued without an external identity.
type Submitter struct {
	Name        string
	IdentityKey string
}

// SubmissionResult is the evaluator's verdict as returned to the student, plus
// the grading and whether the attempt was recorded.
type SubmissionResult struct {
	model.Evaluation
	IsCorrect      bool   `json:"isCorrect"`
	EvaluatorError bool   `json:"evaluatorError"`
	SolutionID     int64  `json:"solutionId,omitempty"`
	Saved          bool   `json:"saved"`
	Warning        string `json:"warning,omitempty"`
}

// Submit grades a solution for a proposition of an exercise on behalf of the
// submitter. The attempt is recorded whatever the verdict. A failure
// to record it is logged and reported in the result, never as an error.
func (s *SubmissionService) Submit(ctx context.Context, exerciseID, propositionID int64, submitter Submitter, req SubmitSolutionRequest) (*SubmissionResult, error) {
	if strings.TrimSpace(req.Solution) == "" {
		return nil, common.ValidationErrorf("solution is required")
	}

	user, err := s.resolveSubmitter(ctx, submitter)
	if err != nil {
		return nil, err
	}

	proposition, err := s.exerciseRepo.FindPropositionByID(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("proposition %d: %w", propositionID, err)
	}
	if proposition.ExerciseID != exerciseID {
		return nil, fmt.Errorf("proposition %d does not belong to exercise %d: %w", propositionID, exerciseID, common.ErrNotFound)
	}
	exercise, err := s.exerciseRepo.FindExerciseByID(ctx, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("exercise %d: %w", exerciseID, err)
	}
	formalizations, err := s.exerciseRepo.GetFormalizationsByPropositionID(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("formalizations of proposition %d: %w", propositionID, err)
	}
	if len(formalizations) == 0 {
		return nil, fmt.Errorf("proposition %d has no formalizations to evaluate against: %w", propositionID, common.ErrNotFound)
	}

	evaluation, err := s.evaluator.Evaluate(ctx, req.Solution, req.HelpSolution, formalizations, exercise)
	if err != nil {
		return nil, fmt.Errorf("evaluating solution for proposition %d: %w", propositionID, err)
	}

	result := &SubmissionResult{
		Evaluation:     *evaluation,
		IsCorrect:      evaluation.IsCorrect(),
		EvaluatorError: evaluation.HasError(),
	}
	if result.EvaluatorError {
		log.Printf("WARN: evaluator reported ERROR for proposition %d (user %d): %s/%s",
			propositionID, user.IdentityKey, evaluation.SolutionToFormalization, evaluation.FormalizationToSolution)
	}

	solution := &model.Solution{
		UserID:        user.IdentityKey,
		PropositionID: propositionID,
		Text:          req.Solution,
		IsCorrect:     result.IsCorrect,
		SubmittedAt:   s.now(),
	}
	id, err := s.solutionRepo.CreateSolution(ctx, nil, solution)
	if err != nil {
		log.Printf("ERROR: failed to record solution of user %d for proposition %d: %v", user.IdentityKey, propositionID, err)
		result.Warning = "solution was evaluated but could not be recorded"
		return result, nil
	}
	result.SolutionID = id
	result.Saved = true
	return result, nil
}

// resolveSubmitter prefers the stable identity key; display names are not unique.
func (s *SubmissionService) resolveSubmitter(ctx context.Context, submitter Submitter) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	if submitter.IdentityKey != "" {
		key, parseErr := strconv.ParseInt(submitter.IdentityKey, 10, 64)
		if parseErr != nil {
			return nil, fmt.Errorf("submitter identity %q: %w", submitter.IdentityKey, common.ErrUnknownUser)
		}
		user, err = s.userRepo.FindByIdentityKey(ctx, key)
	} else {
		user, err = s.userRepo.FindByName(ctx, submitter.Name)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("submitter %q: %w", submitter.Name, common.ErrUnknownUser)
		}
		return nil, fmt.Errorf("failed to resolve submitter %q: %w", submitter.Name, err)
	}
	return user, nil
}
