package identity

import (
	"context"
	"errors"
	"logic_exercises/internal/common"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGitHub(t *testing.T, handler http.HandlerFunc) *GitHubClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGitHubClient(GitHubConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		OAuthURL:     server.URL + "/login/oauth/access_token",
		APIURL:       server.URL + "/",
		HTTPClient:   server.Client(),
	})
}

func TestExchangeCodeAndFetchUser(t *testing.T) {
	client := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/oauth/access_token":
			if err := r.ParseForm(); err != nil {
				t.Fatalf("ParseForm: %v", err)
			}
			if r.PostForm.Get("code") != "abc" || r.PostForm.Get("client_id") != "client-id" || r.PostForm.Get("client_secret") != "client-secret" {
				t.Errorf("token form = %v", r.PostForm)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"gho_123","token_type":"bearer"}`))
		case "/user":
			if got := r.Header.Get("Authorization"); got != "Bearer gho_123" {
				t.Errorf("Authorization = %q", got)
			}
			w.Write([]byte(`{"id":583231,"login":"octocat"}`))
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	token, err := client.ExchangeCode(ctx, "abc")
	if err != nil {
		t.Fatalf("ExchangeCode failed: %v", err)
	}
	user, err := client.FetchUser(ctx, token)
	if err != nil {
		t.Fatalf("FetchUser failed: %v", err)
	}
	if user.ID != 583231 || user.Login != "octocat" {
		t.Fatalf("user = %+v", user)
	}
}

func TestExchangeCodeRejectsBadCode(t *testing.T) {
	client := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`))
	})

	_, err := client.ExchangeCode(context.Background(), "stale")
	if !errors.Is(err, common.ErrUpstreamAuth) {
		t.Fatalf("err = %v, want ErrUpstreamAuth", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
}

func TestExchangeCodeTokenEndpointFailure(t *testing.T) {
	client := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"temporarily_unavailable"}`))
	})

	_, err := client.ExchangeCode(context.Background(), "abc")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("StatusCode = %d, want 503", apiErr.StatusCode)
	}
	if !errors.Is(err, common.ErrUpstreamAuth) {
		t.Fatalf("err = %v, want ErrUpstreamAuth", err)
	}
}

func TestExchangeCodeRequiresCode(t *testing.T) {
	client := NewGitHubClient(GitHubConfig{})
	if _, err := client.ExchangeCode(context.Background(), ""); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestFetchUserFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Bad credentials"}`},
		{"missing id", http.StatusOK, `{"login":"octocat"}`},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			})
			if _, err := client.FetchUser(context.Background(), "token"); !errors.Is(err, common.ErrUpstreamAuth) {
				t.Fatalf("err = %v, want ErrUpstreamAuth", err)
			}
		})
	}
}
