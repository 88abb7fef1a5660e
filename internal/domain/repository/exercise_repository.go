package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/model"
)

type ExerciseRepository interface {
	CreateExercise(ctx context.Context, tx *sql.Tx, exercise *model.Exercise) (int64, error)
	// UpdateExercise replaces the scalar fields and bumps the version. With a
	// non-nil expectedVersion the update only applies to that version and
	// returns common.ErrConflict otherwise.
	UpdateExercise(ctx context.Context, tx *sql.Tx, exercise *model.Exercise, expectedVersion *int) (int, error)
	DeleteExercise(ctx context.Context, tx *sql.Tx, exerciseID int64) error
	FindExerciseByID(ctx context.Context, exerciseID int64) (*model.Exercise, error)
	ListPreviews(ctx context.Context) ([]model.ExercisePreview, error)

	CreateProposition(ctx context.Context, tx *sql.Tx, proposition *model.Proposition) (int64, error)
	FindPropositionByID(ctx context.Context, propositionID int64) (*model.Proposition, error)
	// DeletePropositionsByExerciseID removes every proposition of the exercise
	// together with its formalizations and submitted solutions.
	DeletePropositionsByExerciseID(ctx context.Context, tx *sql.Tx, exerciseID int64) error
	CountPropositionsByExerciseID(ctx context.Context, tx *sql.Tx, exerciseID int64) (int, error)

	CreateFormalization(ctx context.Context, tx *sql.Tx, formalization *model.Formalization) (int64, error)
	GetFormalizationsByPropositionID(ctx context.Context, propositionID int64) ([]model.Formalization, error)
}

type pgExerciseRepository struct {
	db *sql.DB
}

func NewPgExerciseRepository(db *sql.DB) ExerciseRepository {
	return &pgExerciseRepository{db: db}
}

func (r *pgExerciseRepository) CreateExercise(ctx context.Context, tx *sql.Tx, e *model.Exercise) (int64, error) {
	query := `INSERT INTO exercises (title, description, constants, predicates, functions, constraints)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING exercise_id`
	var id int64
	err := conn(r.db, tx).QueryRowContext(ctx, query,
		e.Title, e.Description, e.Constants, e.Predicates, e.Functions, e.Constraint,
	).Scan(&id)
	if err != nil {
		return 0, common.NewStorageError("pgExerciseRepository.CreateExercise", err)
	}
	return id, nil
}

func (r *pgExerciseRepository) UpdateExercise(ctx context.Context, tx *sql.Tx, e *model.Exercise, expectedVersion *int) (int, error) {
	query := `UPDATE exercises SET
	            title = $1, description = $2, constants = $3, predicates = $4,
	            functions = $5, constraints = $6, version = version + 1,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE exercise_id = $7`
	args := []interface{}{e.Title, e.Description, e.Constants, e.Predicates, e.Functions, e.Constraint, e.ID}
	if expectedVersion != nil {
		query += ` AND version = $8`
		args = append(args, *expectedVersion)
	}
	query += ` RETURNING version`

	q := conn(r.db, tx)
	var version int
	err := q.QueryRowContext(ctx, query, args...).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, common.NewStorageError("pgExerciseRepository.UpdateExercise", err)
	}

	// Nothing matched: either the exercise is gone or the version moved on.
	var current int
	err = q.QueryRowContext(ctx, `SELECT version FROM exercises WHERE exercise_id = $1`, e.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, common.NewStorageError("pgExerciseRepository.UpdateExercise version", err)
	}
	return 0, fmt.Errorf("exercise %d is at version %d: %w", e.ID, current, common.ErrConflict)
}

func (r *pgExerciseRepository) DeleteExercise(ctx context.Context, tx *sql.Tx, exerciseID int64) error {
	res, err := conn(r.db, tx).ExecContext(ctx, `DELETE FROM exercises WHERE exercise_id = $1`, exerciseID)
	if err != nil {
		return common.NewStorageError("pgExerciseRepository.DeleteExercise", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.NewStorageError("pgExerciseRepository.DeleteExercise rows", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgExerciseRepository) FindExerciseByID(ctx context.Context, exerciseID int64) (*model.Exercise, error) {
	query := `SELECT exercise_id, title, description, constants, predicates, functions, constraints,
	                 version, created_at, updated_at
	          FROM exercises WHERE exercise_id = $1`
	e := &model.Exercise{}
	err := r.db.QueryRowContext(ctx, query, exerciseID).Scan(
		&e.ID, &e.Title, &e.Description, &e.Constants, &e.Predicates, &e.Functions, &e.Constraint,
		&e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.NewStorageError("pgExerciseRepository.FindExerciseByID", err)
	}

	propositions, err := r.getPropositionsByExerciseID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	e.Propositions = propositions
	return e, nil
}

func (r *pgExerciseRepository) getPropositionsByExerciseID(ctx context.Context, exerciseID int64) ([]model.Proposition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT proposition_id, exercise_id, proposition, sort_order
	          FROM propositions WHERE exercise_id = $1 ORDER BY sort_order ASC, proposition_id ASC`, exerciseID)
	if err != nil {
		return nil, common.NewStorageError("pgExerciseRepository.getPropositionsByExerciseID query", err)
	}
	propositions := []model.Proposition{}
	index := make(map[int64]int)
	for rows.Next() {
		var p model.Proposition
		if err := rows.Scan(&p.ID, &p.ExerciseID, &p.Text, &p.SortOrder); err != nil {
			rows.Close()
			return nil, common.NewStorageError("pgExerciseRepository.getPropositionsByExerciseID scan", err)
		}
		p.Formalizations = []model.Formalization{}
		index[p.ID] = len(propositions)
		propositions = append(propositions, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, common.NewStorageError("pgExerciseRepository.getPropositionsByExerciseID rows.Err", err)
	}
	rows.Close()

	// One query for all formalizations of the exercise, bucketed by proposition.
	rows, err = r.db.QueryContext(ctx, `SELECT f.formalization_id, f.proposition_id, f.formalization, f.constraints, f.sort_order
	          FROM formalizations f
	          JOIN propositions p ON p.proposition_id = f.proposition_id
	          WHERE p.exercise_id = $1
	          ORDER BY p.sort_order ASC, f.sort_order ASC, f.formalization_id ASC`, exerciseID)
	if err != nil {
		return nil, common.NewStorageError("pgExerciseRepository.getPropositionsByExerciseID formalizations", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f model.Formalization
		if err := rows.Scan(&f.ID, &f.PropositionID, &f.Text, &f.Constraint, &f.SortOrder); err != nil {
			return nil, common.NewStorageError("pgExerciseRepository.getPropositionsByExerciseID formalization scan", err)
		}
		if i, ok := index[f.PropositionID]; ok {
			propositions[i].Formalizations = append(propositions[i].Formalizations, f)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("pgExerciseRepository.getPropositionsByExerciseID formalization rows.Err", err)
	}
	return propositions, nil
}

func (r *pgExerciseRepository) ListPreviews(ctx context.Context) ([]model.ExercisePreview, error) {
	query := `SELECT e.exercise_id, e.title, e.description, COUNT(p.proposition_id)
	          FROM exercises e
	          LEFT JOIN propositions p ON p.exercise_id = e.exercise_id
	          GROUP BY e.exercise_id, e.title, e.description
	          ORDER BY e.exercise_id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.NewStorageError("pgExerciseRepository.ListPreviews query", err)
	}
	defer rows.Close()

	previews := []model.ExercisePreview{}
	for rows.Next() {
		var p model.ExercisePreview
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.PropositionCount); err != nil {
			return nil, common.NewStorageError("pgExerciseRepository.ListPreviews scan", err)
		}
		previews = append(previews, p)
	}
	if err = rows.Err(); err != nil {
		return nil, common.NewStorageError("pgExerciseRepository.ListPreviews rows.Err", err)
	}
	return previews, nil
}

func (r *pgExerciseRepository) CreateProposition(ctx context.Context, tx *sql.Tx, p *model.Proposition) (int64, error) {
	query := `INSERT INTO propositions (exercise_id, proposition, sort_order)
	          VALUES ($1, $2, $3) RETURNING proposition_id`
	var id int64
	if err := conn(r.db, tx).QueryRowContext(ctx, query, p.ExerciseID, p.Text, p.SortOrder).Scan(&id); err != nil {
		return 0, common.NewStorageError("pgExerciseRepository.CreateProposition", err)
	}
	return id, nil
}

func (r *pgExerciseRepository) FindPropositionByID(ctx context.Context, propositionID int64) (*model.Proposition, error) {
	p := &model.Proposition{}
	err := r.db.QueryRowContext(ctx, `SELECT proposition_id, exercise_id, proposition, sort_order
	          FROM propositions WHERE proposition_id = $1`, propositionID).Scan(
		&p.ID, &p.ExerciseID, &p.Text, &p.SortOrder,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.NewStorageError("pgExerciseRepository.FindPropositionByID", err)
	}
	return p, nil
}

func (r *pgExerciseRepository) DeletePropositionsByExerciseID(ctx context.Context, tx *sql.Tx, exerciseID int64) error {
	// Children first, so the delete does not depend on ON DELETE CASCADE being enforced.
	statements := []struct {
		op    string
		query string
	}{
		{"solutions", `DELETE FROM solutions WHERE proposition_id IN (SELECT proposition_id FROM propositions WHERE exercise_id = $1)`},
		{"formalizations", `DELETE FROM formalizations WHERE proposition_id IN (SELECT proposition_id FROM propositions WHERE exercise_id = $1)`},
		{"propositions", `DELETE FROM propositions WHERE exercise_id = $1`},
	}
	q := conn(r.db, tx)
	for _, stmt := range statements {
		if _, err := q.ExecContext(ctx, stmt.query, exerciseID); err != nil {
			return common.NewStorageError("pgExerciseRepository.DeletePropositionsByExerciseID "+stmt.op, err)
		}
	}
	return nil
}

func (r *pgExerciseRepository) CountPropositionsByExerciseID(ctx context.Context, tx *sql.Tx, exerciseID int64) (int, error) {
	var n int
	err := conn(r.db, tx).QueryRowContext(ctx, `SELECT COUNT(*) FROM propositions WHERE exercise_id = $1`, exerciseID).Scan(&n)
	if err != nil {
		return 0, common.NewStorageError("pgExerciseRepository.CountPropositionsByExerciseID", err)
	}
	return n, nil
}

func (r *pgExerciseRepository) CreateFormalization(ctx context.Context, tx *sql.Tx, f *model.Formalization) (int64, error) {
	query := `INSERT INTO formalizations (proposition_id, formalization, constraints, sort_order)
	          VALUES ($1, $2, $3, $4) RETURNING formalization_id`
	var id int64
	if err := conn(r.db, tx).QueryRowContext(ctx, query, f.PropositionID, f.Text, f.Constraint, f.SortOrder).Scan(&id); err != nil {
		return 0, common.NewStorageError("pgExerciseRepository.CreateFormalization", err)
	}
	return id, nil
}

func (r *pgExerciseRepository) GetFormalizationsByPropositionID(ctx context.Context, propositionID int64) ([]model.Formalization, error) {
	query := `SELECT formalization_id, proposition_id, formalization, constraints, sort_order
	          FROM formalizations WHERE proposition_id = $1
	          ORDER BY sort_order ASC, formalization_id ASC`
	rows, err := r.db.QueryContext(ctx, query, propositionID)
	if err != nil {
		return nil, common.NewStorageError("pgExerciseRepository.GetFormalizationsByPropositionID query", err)
	}
	defer rows.Close()

	var formalizations []model.Formalization
	for rows.Next() {
		var f model.Formalization
		if err := rows.Scan(&f.ID, &f.PropositionID, &f.Text, &f.Constraint, &f.SortOrder); err != nil {
			return nil, common.NewStorageError("pgExerciseRepository.GetFormalizationsByPropositionID scan", err)
		}
		formalizations = append(formalizations, f)
	}
	if err = rows.Err(); err != nil {
		return nil, common.NewStorageError("pgExerciseRepository.GetFormalizationsByPropositionID rows.Err", err)
	}
	return formalizations, nil
}
