package service

import (
	"context"
	"fmt"
	"log"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/repository"
	"strings"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type PromoteRequest struct {
	Name    string `json:"name"`
	IsAdmin *bool  `json:"is_admin,omitempty"` // defaults to true
}

// SetAdminByName sets the admin flag on every user with that display name and
// reports how many rows changed.
func (s *UserService) SetAdminByName(ctx context.Context, name string, isAdmin bool) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, common.ValidationErrorf("user name is required")
	}
	n, err := s.userRepo.SetAdminByName(ctx, nil, name, isAdmin)
	if err != nil {
		return 0, fmt.Errorf("failed to update admin flag of %q: %w", name, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("user %q: %w", name, common.ErrNotFound)
	}
	if n > 1 {
		log.Printf("WARN: admin flag of %q applied to %d users sharing that name", name, n)
	}
	log.Printf("INFO: set is_admin=%t for %q", isAdmin, name)
	return n, nil
}
