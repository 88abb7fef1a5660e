package service

import (
	"context"
	"errors"
	"logic_exercises/internal/common"
	"logic_exercises/internal/common/security"
	"logic_exercises/internal/domain/model"
	"logic_exercises/internal/platform/identity"
	"testing"
	"time"
)

type fakeProvider struct {
	user        *identity.GitHubUser
	exchangeErr error
	fetchErr    error
	exchanges   int
}

func (p *fakeProvider) ExchangeCode(_ context.Context, code string) (string, error) {
	p.exchanges++
	if p.exchangeErr != nil {
		return "", p.exchangeErr
	}
	return "token-for-" + code, nil
}

func (p *fakeProvider) FetchUser(_ context.Context, _ string) (*identity.GitHubUser, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	return p.user, nil
}

func newTestAuthService(t *testing.T, users *fakeUserRepo, provider IdentityProvider) (*AuthService, *security.TokenManager) {
	t.Helper()
	admin, err := NewAdminLoginStrategy("root", "hunter2", "")
	if err != nil {
		t.Fatalf("NewAdminLoginStrategy failed: %v", err)
	}
	tokens := security.NewTokenManager([]byte("test-secret"), 30*24*time.Hour)
	return NewAuthService(users, tokens, admin, provider), tokens
}

func TestAdminLoginIssuesAdminToken(t *testing.T) {
	svc, tokens := newTestAuthService(t, newFakeUserRepo(), &fakeProvider{})

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "root", Password: "hunter2"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	session, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if session.Username != "root" || !session.IsAdmin {
		t.Fatalf("session = %+v", session)
	}
	if ttl := session.ExpiresAt.Sub(session.IssuedAt); ttl < 29*24*time.Hour {
		t.Errorf("token lifetime = %v, want about a month", ttl)
	}
}

func TestAdminLoginRejections(t *testing.T) {
	svc, _ := newTestAuthService(t, newFakeUserRepo(), &fakeProvider{})

	tests := []struct {
		name string
		req  LoginRequest
		want error
	}{
		{"wrong password", LoginRequest{Username: "root", Password: "nope"}, common.ErrUnauthorized},
		{"wrong name", LoginRequest{Username: "rooot", Password: "hunter2"}, common.ErrUnauthorized},
		{"missing password", LoginRequest{Username: "root"}, common.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAdminLoginStrategyWithHashAndDisabled(t *testing.T) {
	hash, err := security.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	strategy, err := NewAdminLoginStrategy("admin", "", hash)
	if err != nil {
		t.Fatalf("NewAdminLoginStrategy failed: %v", err)
	}
	if err := strategy.Authenticate("admin", "s3cret"); err != nil {
		t.Errorf("Authenticate with hash failed: %v", err)
	}

	disabled, err := NewAdminLoginStrategy("", "", "")
	if err != nil {
		t.Fatalf("NewAdminLoginStrategy failed: %v", err)
	}
	if disabled.Enabled() {
		t.Fatal("strategy without credentials reports enabled")
	}
	if err := disabled.Authenticate("", ""); !errors.Is(err, common.ErrUnauthorized) {
		t.Errorf("disabled Authenticate err = %v, want ErrUnauthorized", err)
	}
}

func TestExternalLoginRegistersUserOnce(t *testing.T) {
	users := newFakeUserRepo()
	provider := &fakeProvider{user: &identity.GitHubUser{ID: 583231, Login: "octocat"}}
	svc, tokens := newTestAuthService(t, users, provider)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		resp, err := svc.ExternalLogin(ctx, ExternalLoginRequest{Code: "abc"})
		if err != nil {
			t.Fatalf("ExternalLogin #%d failed: %v", i+1, err)
		}
		session, err := tokens.Verify(resp.Token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if session.Username != "octocat" || session.IsAdmin || session.IdentityKey != "583231" {
			t.Fatalf("session = %+v", session)
		}
	}
	if users.inserts != 1 || len(users.users) != 1 {
		t.Fatalf("inserts = %d, users = %d, want 1 and 1", users.inserts, len(users.users))
	}
}

func TestExternalLoginCarriesStoredAdminFlag(t *testing.T) {
	users := newFakeUserRepo(model.User{IdentityKey: 7, Name: "ada", IsAdmin: true})
	provider := &fakeProvider{user: &identity.GitHubUser{ID: 7, Login: "ada"}}
	svc, tokens := newTestAuthService(t, users, provider)

	resp, err := svc.ExternalLogin(context.Background(), ExternalLoginRequest{Code: "abc"})
	if err != nil {
		t.Fatalf("ExternalLogin failed: %v", err)
	}
	session, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !session.IsAdmin {
		t.Fatal("stored admin flag not carried into token")
	}
}

func TestExternalLoginFailuresAreExplicit(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		provider *fakeProvider
		users    *fakeUserRepo
		want     error
	}{
		{"missing code", "", &fakeProvider{}, newFakeUserRepo(), common.ErrValidation},
		{"bad code", "abc", &fakeProvider{exchangeErr: common.ErrUpstreamAuth}, newFakeUserRepo(), common.ErrUpstreamAuth},
		{"profile fetch fails", "abc", &fakeProvider{fetchErr: common.ErrUpstreamAuth}, newFakeUserRepo(), common.ErrUpstreamAuth},
		{"store down", "abc", &fakeProvider{user: &identity.GitHubUser{ID: 1, Login: "a"}},
			&fakeUserRepo{users: map[int64]*model.User{}, err: common.NewStorageError("Insert", errors.New("down"))}, common.ErrStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuthService(t, tt.users, tt.provider)
			resp, err := svc.ExternalLogin(context.Background(), ExternalLoginRequest{Code: tt.code})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if resp != nil {
				t.Fatalf("got a token response on failure: %+v", resp)
			}
		})
	}
}
