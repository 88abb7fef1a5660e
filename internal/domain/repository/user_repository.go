package repository

import (
	"context"
	"database/sql"
	"errors"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/model"
)

type UserRepository interface {
	// Insert adds the user unless its identity key already exists. inserted is
	// false for the duplicate case, which is not an error.
	Insert(ctx context.Context, tx *sql.Tx, user *model.User) (inserted bool, err error)
	FindByIdentityKey(ctx context.Context, identityKey int64) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	SetAdminByName(ctx context.Context, tx *sql.Tx, name string, isAdmin bool) (int64, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Insert(ctx context.Context, tx *sql.Tx, user *model.User) (bool, error) {
	query := `INSERT INTO users (identity_key, user_name, is_admin)
	          VALUES ($1, $2, $3) ON CONFLICT (identity_key) DO NOTHING`
	res, err := conn(r.db, tx).ExecContext(ctx, query, user.IdentityKey, user.Name, user.IsAdmin)
	if err != nil {
		return false, common.NewStorageError("pgUserRepository.Insert", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, common.NewStorageError("pgUserRepository.Insert rows", err)
	}
	return n == 1, nil
}

func (r *pgUserRepository) FindByIdentityKey(ctx context.Context, identityKey int64) (*model.User, error) {
	query := `SELECT identity_key, user_name, is_admin, created_at
	          FROM users WHERE identity_key = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, identityKey).Scan(
		&user.IdentityKey, &user.Name, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.NewStorageError("pgUserRepository.FindByIdentityKey", err)
	}
	return user, nil
}

// FindByName returns the oldest user with the given display name. Names are
// not unique in the schema.
func (r *pgUserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	query := `SELECT identity_key, user_name, is_admin, created_at
	          FROM users WHERE user_name = $1
	          ORDER BY created_at ASC, identity_key ASC LIMIT 1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&user.IdentityKey, &user.Name, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.NewStorageError("pgUserRepository.FindByName", err)
	}
	return user, nil
}

func (r *pgUserRepository) SetAdminByName(ctx context.Context, tx *sql.Tx, name string, isAdmin bool) (int64, error) {
	res, err := conn(r.db, tx).ExecContext(ctx, `UPDATE users SET is_admin = $1 WHERE user_name = $2`, isAdmin, name)
	if err != nil {
		return 0, common.NewStorageError("pgUserRepository.SetAdminByName", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.NewStorageError("pgUserRepository.SetAdminByName rows", err)
	}
	return n, nil
}
