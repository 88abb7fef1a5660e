package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/model"
	"logic_exercises/internal/domain/repository"
	"logic_exercises/internal/platform/cache"
	"strings"

	"github.com/gosimple/slug"
)

// ExerciseService owns the exercise tree. Every write covers the exercise with
// all of its propositions and formalizations in one transaction.
type ExerciseService struct {
	exerciseRepo repository.ExerciseRepository
	previews     cache.PreviewCache
	db           *sql.DB // For transactions
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository, previews cache.PreviewCache, db *sql.DB) *ExerciseService {
	if previews == nil {
		previews = cache.NopPreviewCache{}
	}
	return &ExerciseService{
		exerciseRepo: exerciseRepo,
		previews:     previews,
		db:           db,
	}
}

// Ping reports whether the exercise store is reachable.
func (s *ExerciseService) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("exercise store: %v: %w", err, common.ErrServiceUnavailable)
	}
	return nil
}

// PropositionRequest carries formalizations and constraints as two lists; the
// i-th constraint governs the i-th formalization.
type PropositionRequest struct {
	Proposition    string   `json:"proposition" yaml:"proposition"`
	Formalizations []string `json:"formalizations" yaml:"formalizations"`
	Constraints    []string `json:"constraints" yaml:"constraints"`
}

type ExerciseRequest struct {
	Title        string               `json:"title" yaml:"title"`
	Description  string               `json:"description" yaml:"description"`
	Constants    string               `json:"constants" yaml:"constants"`
	Predicates   string               `json:"predicates" yaml:"predicates"`
	Functions    string               `json:"functions" yaml:"functions"`
	Constraint   string               `json:"constraint" yaml:"constraint"`
	Propositions []PropositionRequest `json:"propositions" yaml:"propositions"`
	// Version, when set on an update, must match the stored version.
	Version *int `json:"version,omitempty" yaml:"-"`
}

func (r ExerciseRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return common.ValidationErrorf("exercise title is required")
	}
	if len(r.Propositions) == 0 {
		return common.ValidationErrorf("exercise %q has no propositions", r.Title)
	}
	for i, p := range r.Propositions {
		if strings.TrimSpace(p.Proposition) == "" {
			return common.ValidationErrorf("proposition %d has no text", i)
		}
		if len(p.Formalizations) == 0 {
			return common.ValidationErrorf("proposition %d has no formalizations", i)
		}
		if len(p.Formalizations) != len(p.Constraints) {
			return common.ValidationErrorf("proposition %d has %d formalizations but %d constraints",
				i, len(p.Formalizations), len(p.Constraints))
		}
		for j, f := range p.Formalizations {
			if strings.TrimSpace(f) == "" {
				return common.ValidationErrorf("proposition %d formalization %d is empty", i, j)
			}
		}
	}
	return nil
}

func (r ExerciseRequest) exercise() *model.Exercise {
	return &model.Exercise{
		Title:       r.Title,
		Description: r.Description,
		Constants:   r.Constants,
		Predicates:  r.Predicates,
		Functions:   r.Functions,
		Constraint:  r.Constraint,
	}
}

func (s *ExerciseService) CreateExercise(ctx context.Context, req ExerciseRequest) (*model.Exercise, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	exercise := req.exercise()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewStorageError("ExerciseService.CreateExercise begin", err)
	}
	defer tx.Rollback() // Rollback if not committed

	id, err := s.exerciseRepo.CreateExercise(ctx, tx, exercise)
	if err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	exercise.ID = id
	exercise.Version = 1

	if exercise.Propositions, err = s.insertPropositions(ctx, tx, id, req.Propositions); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewStorageError("ExerciseService.CreateExercise commit", err)
	}
	s.previews.Invalidate(ctx)
	log.Printf("INFO: created exercise %d with %d propositions", id, len(exercise.Propositions))
	return exercise, nil
}

// UpdateExercise replaces the whole tree of exercise id. Existing propositions,
// their formalizations and the solutions submitted against them are discarded.
func (s *ExerciseService) UpdateExercise(ctx context.Context, id int64, req ExerciseRequest) (*model.Exercise, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	exercise := req.exercise()
	exercise.ID = id

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewStorageError("ExerciseService.UpdateExercise begin", err)
	}
	defer tx.Rollback()

	version, err := s.exerciseRepo.UpdateExercise(ctx, tx, exercise, req.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to update exercise %d: %w", id, err)
	}
	exercise.Version = version

	if err := s.exerciseRepo.DeletePropositionsByExerciseID(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("failed to clear propositions of exercise %d: %w", id, err)
	}
	if exercise.Propositions, err = s.insertPropositions(ctx, tx, id, req.Propositions); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewStorageError("ExerciseService.UpdateExercise commit", err)
	}
	s.previews.Invalidate(ctx)
	log.Printf("INFO: updated exercise %d to version %d", id, version)
	return exercise, nil
}

func (s *ExerciseService) DeleteExercise(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewStorageError("ExerciseService.DeleteExercise begin", err)
	}
	defer tx.Rollback()

	if err := s.exerciseRepo.DeletePropositionsByExerciseID(ctx, tx, id); err != nil {
		return fmt.Errorf("failed to delete propositions of exercise %d: %w", id, err)
	}
	if err := s.exerciseRepo.DeleteExercise(ctx, tx, id); err != nil {
		return fmt.Errorf("failed to delete exercise %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return common.NewStorageError("ExerciseService.DeleteExercise commit", err)
	}
	s.previews.Invalidate(ctx)
	log.Printf("INFO: deleted exercise %d", id)
	return nil
}

// insertPropositions writes the propositions in order, each followed by its
// formalizations paired positionally with their constraints.
func (s *ExerciseService) insertPropositions(ctx context.Context, tx *sql.Tx, exerciseID int64, reqs []PropositionRequest) ([]model.Proposition, error) {
	propositions := make([]model.Proposition, 0, len(reqs))
	for i, pr := range reqs {
		p := model.Proposition{ExerciseID: exerciseID, Text: pr.Proposition, SortOrder: i}
		pid, err := s.exerciseRepo.CreateProposition(ctx, tx, &p)
		if err != nil {
			return nil, fmt.Errorf("failed to create proposition %d of exercise %d: %w", i, exerciseID, err)
		}
		p.ID = pid

		p.Formalizations = make([]model.Formalization, 0, len(pr.Formalizations))
		for j := range pr.Formalizations {
			f := model.Formalization{
				PropositionID: pid,
				Text:          pr.Formalizations[j],
				Constraint:    pr.Constraints[j],
				SortOrder:     j,
			}
			fid, err := s.exerciseRepo.CreateFormalization(ctx, tx, &f)
			if err != nil {
				return nil, fmt.Errorf("failed to create formalization %d of proposition %d: %w", j, pid, err)
			}
			f.ID = fid
			p.Formalizations = append(p.Formalizations, f)
		}
		propositions = append(propositions, p)
	}
	return propositions, nil
}

func (s *ExerciseService) GetExercise(ctx context.Context, id int64) (*model.Exercise, error) {
	return s.exerciseRepo.FindExerciseByID(ctx, id)
}

// ListPreviews serves the listing from the preview cache when it holds one.
func (s *ExerciseService) ListPreviews(ctx context.Context) ([]model.ExercisePreview, error) {
	if previews, ok := s.previews.GetPreviews(ctx); ok {
		return previews, nil
	}

	previews, err := s.exerciseRepo.ListPreviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise previews: %w", err)
	}
	for i := range previews {
		previews[i].Slug = slug.Make(previews[i].Title)
	}
	s.previews.SetPreviews(ctx, previews)
	return previews, nil
}
