package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"logic_exercises/internal/common"
	"logic_exercises/internal/common/security"
	"logic_exercises/internal/domain/model"
	"logic_exercises/internal/domain/repository"
	"logic_exercises/internal/platform/identity"
	"strconv"
)

// IdentityProvider is the external OAuth provider behind ExternalLogin.
type IdentityProvider interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchUser(ctx context.Context, accessToken string) (*identity.GitHubUser, error)
}

// AdminLoginStrategy is the configured superuser credential. It never touches
// the user store and always yields an admin token.
type AdminLoginStrategy struct {
	name         string
	passwordHash string
}

// NewAdminLoginStrategy prefers a bcrypt hash; a plain password is hashed once
// here. Without a name or secret the strategy rejects every attempt.
func NewAdminLoginStrategy(name, password, passwordHash string) (*AdminLoginStrategy, error) {
	if passwordHash == "" && password != "" {
		hash, err := security.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		passwordHash = hash
	}
	if name == "" || passwordHash == "" {
		log.Println("WARN: admin credentials not configured, local admin login disabled")
	}
	return &AdminLoginStrategy{name: name, passwordHash: passwordHash}, nil
}

func (a *AdminLoginStrategy) Enabled() bool {
	return a != nil && a.name != "" && a.passwordHash != ""
}

func (a *AdminLoginStrategy) Authenticate(username, password string) error {
	if !a.Enabled() {
		return common.ErrUnauthorized
	}
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.name)) == 1
	passwordOK := security.CheckPasswordHash(password, a.passwordHash)
	if !nameOK || !passwordOK {
		return common.ErrUnauthorized
	}
	return nil
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenManager
	admin    *AdminLoginStrategy
	provider IdentityProvider
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *security.TokenManager,
	admin *AdminLoginStrategy,
	provider IdentityProvider,
) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, admin: admin, provider: provider}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ExternalLoginRequest struct {
	Code string `json:"code"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

// Login is the local admin path.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ValidationErrorf("username and password are required")
	}
	if err := s.admin.Authenticate(req.Username, req.Password); err != nil {
		log.Printf("WARN: rejected admin login for %q", req.Username)
		return nil, err
	}

	token, err := s.tokens.Issue(req.Username, true, "")
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token}, nil
}

// ExternalLogin exchanges an OAuth code, records the user on first sight and
// issues a token with the admin flag stored for that user.
func (s *AuthService) ExternalLogin(ctx context.Context, req ExternalLoginRequest) (*AuthResponse, error) {
	if req.Code == "" {
		return nil, common.ValidationErrorf("authorization code is required")
	}
	accessToken, err := s.provider.ExchangeCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}
	profile, err := s.provider.FetchUser(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch provider user: %w", err)
	}

	inserted, err := s.userRepo.Insert(ctx, nil, &model.User{IdentityKey: profile.ID, Name: profile.Login})
	if err != nil {
		return nil, fmt.Errorf("failed to record user %d: %w", profile.ID, err)
	}
	if inserted {
		log.Printf("INFO: registered user %d (%s)", profile.ID, profile.Login)
	}
	user, err := s.userRepo.FindByIdentityKey(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", profile.ID, err)
	}

	token, err := s.tokens.Issue(user.Name, user.IsAdmin, strconv.FormatInt(user.IdentityKey, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token}, nil
}
