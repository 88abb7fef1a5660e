package service

import (
	"context"
	"errors"
	"fmt"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/model"
	"logic_exercises/internal/domain/repository"
)

// ProgressService answers the admin views over submitted solutions.
type ProgressService struct {
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	solutionRepo repository.SolutionRepository
}

func NewProgressService(
	userRepo repository.UserRepository,
	exerciseRepo repository.ExerciseRepository,
	solutionRepo repository.SolutionRepository,
) *ProgressService {
	return &ProgressService{userRepo: userRepo, exerciseRepo: exerciseRepo, solutionRepo: solutionRepo}
}

func (s *ProgressService) SubmittersForProposition(ctx context.Context, propositionID int64) ([]model.SubmitterSummary, error) {
	if _, err := s.exerciseRepo.FindPropositionByID(ctx, propositionID); err != nil {
		return nil, fmt.Errorf("proposition %d: %w", propositionID, err)
	}
	summaries, err := s.solutionRepo.ListSubmittersByPropositionID(ctx, propositionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submitters of proposition %d: %w", propositionID, err)
	}
	if summaries == nil {
		summaries = []model.SubmitterSummary{}
	}
	return summaries, nil
}

// UserSolutions returns the user's attempts at a proposition, oldest first.
func (s *ProgressService) UserSolutions(ctx context.Context, userID, propositionID int64) ([]model.Solution, error) {
	if _, err := s.userRepo.FindByIdentityKey(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, common.ErrUnknownUser)
		}
		return nil, err
	}
	if _, err := s.exerciseRepo.FindPropositionByID(ctx, propositionID); err != nil {
		return nil, fmt.Errorf("proposition %d: %w", propositionID, err)
	}
	solutions, err := s.solutionRepo.ListUserSolutions(ctx, userID, propositionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions of user %d for proposition %d: %w", userID, propositionID, err)
	}
	if solutions == nil {
		solutions = []model.Solution{}
	}
	return solutions, nil
}
