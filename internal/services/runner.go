package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// CaseResult is the outcome of one test case execution.
type CaseResult struct {
	Passed     bool
	Output     string
	DurationMS int64
	Err        error
}

// CodeRunner executes untrusted candidate code against a single test case.
// Sandboxing lives behind the remote service; this is only the client.
type CodeRunner interface {
	Run(ctx context.Context, code, language string, testCase models.TestCase) CaseResult
}

type httpCodeRunner struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCodeRunner(baseURL string, timeout time.Duration) CodeRunner {
	return &httpCodeRunner{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type runRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Stdin    string `json:"stdin"`
}

type runResponse struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func (r *httpCodeRunner) Run(ctx context.Context, code, language string, testCase models.TestCase) CaseResult {
	payload, err := json.Marshal(runRequest{
		Code:     code,
		Language: language,
		Stdin:    testCase.Input,
	})
	if err != nil {
		return CaseResult{Err: fmt.Errorf("failed to marshal run request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/run", bytes.NewReader(payload))
	if err != nil {
		return CaseResult{Err: fmt.Errorf("failed to build run request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return CaseResult{Err: fmt.Errorf("runner unreachable: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CaseResult{Err: fmt.Errorf("runner returned status %d", resp.StatusCode)}
	}

	var body runResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return CaseResult{Err: fmt.Errorf("failed to decode runner response: %w", err)}
	}

	if body.Error != "" {
		return CaseResult{
			Output:     body.Stdout,
			DurationMS: body.DurationMS,
			Err:        fmt.Errorf("execution error: %s", body.Error),
		}
	}

	got := strings.TrimSpace(body.Stdout)
	want := strings.TrimSpace(testCase.ExpectedOutput)

	return CaseResult{
		Passed:     got == want,
		Output:     body.Stdout,
		DurationMS: body.DurationMS,
	}
}
