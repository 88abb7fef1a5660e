package repository

import (
	"context"
	"database/sql"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/model"
	"time"
)

// SolutionRepository is append-only: solutions are never updated in place.
type SolutionRepository interface {
	CreateSolution(ctx context.Context, tx *sql.Tx, solution *model.Solution) (int64, error)
	ListSubmittersByPropositionID(ctx context.Context, propositionID int64) ([]model.SubmitterSummary, error)
	ListUserSolutions(ctx context.Context, userID, propositionID int64) ([]model.Solution, error)
}

type pgSolutionRepository struct {
	db *sql.DB
}

func NewPgSolutionRepository(db *sql.DB) SolutionRepository {
	return &pgSolutionRepository{db: db}
}

func (r *pgSolutionRepository) CreateSolution(ctx context.Context, tx *sql.Tx, s *model.Solution) (int64, error) {
	query := `INSERT INTO solutions (user_id, proposition_id, solution, is_correct, submitted_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING solution_id`
	var id int64
	err := conn(r.db, tx).QueryRowContext(ctx, query, s.UserID, s.PropositionID, s.Text, s.IsCorrect, s.SubmittedAt.UTC()).Scan(&id)
	if err != nil {
		return 0, common.NewStorageError("pgSolutionRepository.CreateSolution", err)
	}
	return id, nil
}

func (r *pgSolutionRepository) ListSubmittersByPropositionID(ctx context.Context, propositionID int64) ([]model.SubmitterSummary, error) {
	query := `SELECT s.user_id, u.user_name, s.is_correct, s.submitted_at
	          FROM solutions s
	          JOIN users u ON u.identity_key = s.user_id
	          WHERE s.proposition_id = $1
	          ORDER BY s.user_id ASC, s.submitted_at ASC`
	rows, err := r.db.QueryContext(ctx, query, propositionID)
	if err != nil {
		return nil, common.NewStorageError("pgSolutionRepository.ListSubmittersByPropositionID query", err)
	}
	defer rows.Close()

	// Aggregated here rather than in SQL so the query stays portable across drivers.
	summaries := []model.SubmitterSummary{}
	for rows.Next() {
		var (
			userID      int64
			userName    string
			isCorrect   bool
			submittedAt time.Time
		)
		if err := rows.Scan(&userID, &userName, &isCorrect, &submittedAt); err != nil {
			return nil, common.NewStorageError("pgSolutionRepository.ListSubmittersByPropositionID scan", err)
		}
		last := len(summaries) - 1
		if last < 0 || summaries[last].UserID != userID {
			summaries = append(summaries, model.SubmitterSummary{UserID: userID, UserName: userName})
			last++
		}
		summaries[last].Attempts++
		summaries[last].Solved = summaries[last].Solved || isCorrect
		summaries[last].LastSubmittedAt = submittedAt
	}
	if err = rows.Err(); err != nil {
		return nil, common.NewStorageError("pgSolutionRepository.ListSubmittersByPropositionID rows.Err", err)
	}
	return summaries, nil
}

func (r *pgSolutionRepository) ListUserSolutions(ctx context.Context, userID, propositionID int64) ([]model.Solution, error) {
	query := `SELECT solution_id, user_id, proposition_id, solution, is_correct, submitted_at
	          FROM solutions
	          WHERE user_id = $1 AND proposition_id = $2
	          ORDER BY submitted_at ASC, solution_id ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, propositionID)
	if err != nil {
		return nil, common.NewStorageError("pgSolutionRepository.ListUserSolutions query", err)
	}
	defer rows.Close()

	solutions := []model.Solution{}
	for rows.Next() {
		var s model.Solution
		if err := rows.Scan(&s.ID, &s.UserID, &s.PropositionID, &s.Text, &s.IsCorrect, &s.SubmittedAt); err != nil {
			return nil, common.NewStorageError("pgSolutionRepository.ListUserSolutions scan", err)
		}
		solutions = append(solutions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, common.NewStorageError("pgSolutionRepository.ListUserSolutions rows.Err", err)
	}
	return solutions, nil
}
