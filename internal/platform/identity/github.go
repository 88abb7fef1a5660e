package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"logic_exercises/internal/common"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const maxResponseBytes = 1 << 20

// GitHubUser is the part of the /user payload the login flow needs.
type GitHubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	OAuthURL     string // access token endpoint, defaults to github.com
	APIURL       string
	HTTPClient   *http.Client
}

// GitHubClient performs the two server-side legs of the OAuth web flow.
type GitHubClient struct {
	oauth      *oauth2.Config
	apiURL     string
	httpClient *http.Client
}

func NewGitHubClient(cfg GitHubConfig) *GitHubClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	endpoint := github.Endpoint
	if cfg.OAuthURL != "" {
		endpoint.TokenURL = cfg.OAuthURL
	}
	return &GitHubClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
		},
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		httpClient: httpClient,
	}
}

// APIError is a failed reply from GitHub. It matches ErrUpstreamAuth.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool { return target == common.ErrUpstreamAuth }

func (c *GitHubClient) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// ExchangeCode trades an authorization code for an access token.
func (c *GitHubClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", common.ValidationErrorf("missing authorization code")
	}
	token, err := c.oauth.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		// GitHub also reports a bad or reused code as 200 with an error field.
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			apiErr := &APIError{StatusCode: http.StatusOK, Message: retrieveErr.ErrorCode}
			if retrieveErr.Response != nil {
				apiErr.StatusCode = retrieveErr.Response.StatusCode
			}
			if retrieveErr.ErrorDescription != "" {
				apiErr.Message += ": " + retrieveErr.ErrorDescription
			}
			return "", apiErr
		}
		return "", fmt.Errorf("github: exchange code: %v: %w", err, common.ErrUpstreamAuth)
	}
	return token.AccessToken, nil
}

// FetchUser resolves the account behind an access token.
func (c *GitHubClient) FetchUser(ctx context.Context, accessToken string) (*GitHubUser, error) {
	ctx = c.withHTTPClient(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("github: build user request: %v: %w", err, common.ErrUpstreamAuth)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "logic-exercises")

	client := c.oauth.Client(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: %v: %w", err, common.ErrUpstreamAuth)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("github: read response: %v: %w", err, common.ErrUpstreamAuth)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &apiErr)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	var user GitHubUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("github: decode response: %v: %w", err, common.ErrUpstreamAuth)
	}
	if user.ID == 0 || user.Login == "" {
		return nil, fmt.Errorf("github: user response without id or login: %w", common.ErrUpstreamAuth)
	}
	return &user, nil
}
