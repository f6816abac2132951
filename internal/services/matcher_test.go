package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

type stubGemini struct {
	response  string
	genErr    error
	embedErr  error
	lastInput string
}

func (g *stubGemini) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if g.embedErr != nil {
		return nil, g.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (g *stubGemini) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	g.lastInput = prompt
	if g.genErr != nil {
		return "", g.genErr
	}
	return g.response, nil
}

type stubQdrant struct {
	results   []SearchResult
	searchErr error
}

func (q *stubQdrant) InitCollection() error { return nil }

func (q *stubQdrant) UpsertJobContext(_ context.Context, _ string, _ string, _ []float32) error {
	return nil
}

func (q *stubQdrant) SearchSimilar(_ context.Context, _ []float32, _ int) ([]SearchResult, error) {
	if q.searchErr != nil {
		return nil, q.searchErr
	}
	return q.results, nil
}

func testJob() *models.Job {
	return &models.Job{
		ID:          uuid.New(),
		Title:       "Backend Engineer",
		Description: "Go services at scale",
		Status:      models.JobStatusPublished,
	}
}

func TestGeminiMatcherParsesResponse(t *testing.T) {
	gemini := &stubGemini{response: `{"score": 85, "reason": "strong backend experience"}`}
	qdrant := &stubQdrant{results: []SearchResult{{Text: "Similar role: platform engineer"}}}
	m := NewGeminiMatcher(gemini, qdrant, zap.NewNop())

	result, err := m.Match(context.Background(), testJob(), "10 years of Go")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if result.Score != 85 {
		t.Fatalf("expected score 85, got %d", result.Score)
	}
	if result.Reason != "strong backend experience" {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
	if !strings.Contains(gemini.lastInput, "Similar role: platform engineer") {
		t.Fatal("expected retrieval context in the prompt")
	}
	if !strings.Contains(gemini.lastInput, "10 years of Go") {
		t.Fatal("expected candidate material in the prompt")
	}
}

func TestGeminiMatcherStripsMarkdownFences(t *testing.T) {
	gemini := &stubGemini{response: "```json\n{\"score\": 42, \"reason\": \"ok\"}\n```"}
	m := NewGeminiMatcher(gemini, &stubQdrant{}, zap.NewNop())

	result, err := m.Match(context.Background(), testJob(), "cv text")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if result.Score != 42 {
		t.Fatalf("expected score 42, got %d", result.Score)
	}
}

func TestGeminiMatcherClampsScore(t *testing.T) {
	tests := []struct {
		response string
		want     int
	}{
		{`{"score": 150, "reason": "x"}`, 100},
		{`{"score": -5, "reason": "x"}`, 0},
	}
	for _, tt := range tests {
		gemini := &stubGemini{response: tt.response}
		m := NewGeminiMatcher(gemini, &stubQdrant{}, zap.NewNop())

		result, err := m.Match(context.Background(), testJob(), "cv")
		if err != nil {
			t.Fatalf("match failed: %v", err)
		}
		if result.Score != tt.want {
			t.Fatalf("expected clamp to %d, got %d", tt.want, result.Score)
		}
	}
}

func TestGeminiMatcherGenerationErrorPropagates(t *testing.T) {
	gemini := &stubGemini{genErr: fmt.Errorf("quota exceeded")}
	m := NewGeminiMatcher(gemini, &stubQdrant{}, zap.NewNop())

	if _, err := m.Match(context.Background(), testJob(), "cv"); err == nil {
		t.Fatal("expected error from generation failure")
	}
}

func TestGeminiMatcherUnparseableResponse(t *testing.T) {
	gemini := &stubGemini{response: "I think the candidate is great!"}
	m := NewGeminiMatcher(gemini, &stubQdrant{}, zap.NewNop())

	if _, err := m.Match(context.Background(), testJob(), "cv"); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

// Retrieval failure only leans out the prompt; the match still proceeds.
func TestGeminiMatcherRetrievalFailureIsNonFatal(t *testing.T) {
	gemini := &stubGemini{response: `{"score": 60, "reason": "fine"}`}
	qdrant := &stubQdrant{searchErr: fmt.Errorf("qdrant down")}
	m := NewGeminiMatcher(gemini, qdrant, zap.NewNop())

	result, err := m.Match(context.Background(), testJob(), "cv")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if result.Score != 60 {
		t.Fatalf("expected score 60, got %d", result.Score)
	}
	if strings.Contains(gemini.lastInput, "CONTEXT FROM SIMILAR ROLES") {
		t.Fatal("expected no retrieval section after search failure")
	}
}
