package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/model"
	"net/http"
)

// maxResponseBytes bounds how much of an evaluator reply is read.
const maxResponseBytes = 1 << 20

type formalizationPayload struct {
	Formalization string `json:"formalization"`
	Constraint    string `json:"constraint"`
}

type exercisePayload struct {
	Constants  string `json:"constants"`
	Predicates string `json:"predicates"`
	Functions  string `json:"functions"`
	Constraint string `json:"constraint"`
}

type evaluateRequest struct {
	Solution       string                 `json:"solution"`
	HelpSolution   string                 `json:"helpSolution"`
	Formalizations []formalizationPayload `json:"formalizations"`
	Exercise       exercisePayload        `json:"exercise"`
}

// Client talks to the external equivalence checker over HTTP. The timeout of
// the supplied http.Client bounds every call.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Evaluate asks the checker whether solution is equivalent to the reference
// formalizations under the exercise's language. Transport failures, non-2xx
// replies and unreadable verdicts are returned wrapped in ErrEvaluator.
func (c *Client) Evaluate(ctx context.Context, solution, helpSolution string, formalizations []model.Formalization, exercise *model.Exercise) (*model.Evaluation, error) {
	payload := evaluateRequest{
		Solution:       solution,
		HelpSolution:   helpSolution,
		Formalizations: make([]formalizationPayload, 0, len(formalizations)),
		Exercise: exercisePayload{
			Constants:  exercise.Constants,
			Predicates: exercise.Predicates,
			Functions:  exercise.Functions,
			Constraint: exercise.Constraint,
		},
	}
	for _, f := range formalizations {
		payload.Formalizations = append(payload.Formalizations, formalizationPayload{Formalization: f.Text, Constraint: f.Constraint})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("evaluator: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("evaluator: build request: %v: %w", err, common.ErrEvaluator)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evaluator: %v: %w", err, common.ErrEvaluator)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("evaluator returned status %d: %w", resp.StatusCode, common.ErrEvaluator)
	}

	var evaluation model.Evaluation
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&evaluation); err != nil {
		return nil, fmt.Errorf("evaluator: decode verdict: %v: %w", err, common.ErrEvaluator)
	}
	if !validVerdict(evaluation.SolutionToFormalization) || !validVerdict(evaluation.FormalizationToSolution) {
		return nil, fmt.Errorf("evaluator: unexpected verdict %q/%q: %w",
			evaluation.SolutionToFormalization, evaluation.FormalizationToSolution, common.ErrEvaluator)
	}
	return &evaluation, nil
}

func validVerdict(v model.Verdict) bool {
	switch v {
	case model.VerdictOK, model.VerdictMismatch, model.VerdictError:
		return true
	}
	return false
}
