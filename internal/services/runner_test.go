package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

func runnerServer(t *testing.T, handler func(req runRequest) runResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run" {
			http.NotFound(w, r)
			return
		}
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(handler(req))
	}))
}

func TestHTTPCodeRunnerPassingCase(t *testing.T) {
	srv := runnerServer(t, func(req runRequest) runResponse {
		if req.Stdin != "3" {
			t.Fatalf("expected stdin forwarded, got %q", req.Stdin)
		}
		return runResponse{Stdout: "Fizz\n", DurationMS: 12}
	})
	defer srv.Close()

	r := NewHTTPCodeRunner(srv.URL, 5*time.Second)
	result := r.Run(context.Background(), "print(fizz(3))", "python", models.TestCase{
		Input:          "3",
		ExpectedOutput: "Fizz",
	})

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if !result.Passed {
		t.Fatal("expected case to pass with whitespace-insensitive comparison")
	}
	if result.DurationMS != 12 {
		t.Fatalf("expected duration 12, got %d", result.DurationMS)
	}
}

func TestHTTPCodeRunnerFailingCase(t *testing.T) {
	srv := runnerServer(t, func(req runRequest) runResponse {
		return runResponse{Stdout: "Buzz"}
	})
	defer srv.Close()

	r := NewHTTPCodeRunner(srv.URL, 5*time.Second)
	result := r.Run(context.Background(), "code", "python", models.TestCase{
		Input:          "3",
		ExpectedOutput: "Fizz",
	})

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Passed {
		t.Fatal("expected mismatched output to fail")
	}
}

func TestHTTPCodeRunnerExecutionError(t *testing.T) {
	srv := runnerServer(t, func(req runRequest) runResponse {
		return runResponse{Error: "SyntaxError: invalid syntax"}
	})
	defer srv.Close()

	r := NewHTTPCodeRunner(srv.URL, 5*time.Second)
	result := r.Run(context.Background(), "def broken(", "python", models.TestCase{Input: "1"})

	if result.Err == nil {
		t.Fatal("expected execution error to surface")
	}
	if result.Passed {
		t.Fatal("errored case must not pass")
	}
}

func TestHTTPCodeRunnerUnreachable(t *testing.T) {
	r := NewHTTPCodeRunner("http://127.0.0.1:1", 200*time.Millisecond)
	result := r.Run(context.Background(), "code", "python", models.TestCase{Input: "1"})

	if result.Err == nil {
		t.Fatal("expected error for unreachable runner")
	}
}

func TestHTTPCodeRunnerNon200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewHTTPCodeRunner(srv.URL, 5*time.Second)
	result := r.Run(context.Background(), "code", "python", models.TestCase{Input: "1"})

	if result.Err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
