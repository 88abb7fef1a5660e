package service

import (
	"context"
	"database/sql"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/model"
	"logic_exercises/internal/domain/repository"
	"logic_exercises/internal/platform/database"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("database.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s failed: %v", table, err)
	}
	return n
}

type fakePreviewCache struct {
	stored      []model.ExercisePreview
	hit         bool
	gets        int
	sets        int
	invalidates int
}

func (c *fakePreviewCache) GetPreviews(context.Context) ([]model.ExercisePreview, bool) {
	c.gets++
	return c.stored, c.hit
}

func (c *fakePreviewCache) SetPreviews(_ context.Context, previews []model.ExercisePreview) {
	c.sets++
	c.stored = previews
	c.hit = true
}

func (c *fakePreviewCache) Invalidate(context.Context) {
	c.invalidates++
	c.stored = nil
	c.hit = false
}

// fakeUserRepo keeps users in memory, keyed by identity key.
type fakeUserRepo struct {
	repository.UserRepository
	users   map[int64]*model.User
	inserts int
	err     error
}

func newFakeUserRepo(users ...model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]*model.User{}}
	for i := range users {
		u := users[i]
		r.users[u.IdentityKey] = &u
	}
	return r
}

func (r *fakeUserRepo) Insert(_ context.Context, _ *sql.Tx, user *model.User) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.users[user.IdentityKey]; ok {
		return false, nil
	}
	r.inserts++
	u := *user
	r.users[u.IdentityKey] = &u
	return true, nil
}

func (r *fakeUserRepo) FindByIdentityKey(_ context.Context, key int64) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (r *fakeUserRepo) FindByName(_ context.Context, name string) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Name == name {
			found := *u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) SetAdminByName(_ context.Context, _ *sql.Tx, name string, isAdmin bool) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, u := range r.users {
		if u.Name == name {
			u.IsAdmin = isAdmin
			n++
		}
	}
	return n, nil
}
