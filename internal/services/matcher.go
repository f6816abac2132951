package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// MatchResult is what the oracle hands back for one candidate/job pairing.
type MatchResult struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Matcher scores candidate material against a job description. The pipeline
// treats it as fallible and degrades to score 0 when it errors.
type Matcher interface {
	Match(ctx context.Context, job *models.Job, material string) (*MatchResult, error)
}

type geminiMatcher struct {
	gemini GeminiService
	qdrant QdrantService
	logger *zap.Logger
}

func NewGeminiMatcher(gemini GeminiService, qdrant QdrantService, logger *zap.Logger) Matcher {
	return &geminiMatcher{
		gemini: gemini,
		qdrant: qdrant,
		logger: logger,
	}
}

func (m *geminiMatcher) Match(ctx context.Context, job *models.Job, material string) (*MatchResult, error) {
	similar := m.retrieveContext(ctx, job.Description)

	prompt := buildMatchPrompt(job, material, similar)

	m.logger.Debug("sending match prompt",
		zap.String("job_id", job.ID.String()),
		zap.Int("prompt_length", len(prompt)),
	)

	response, err := m.gemini.GenerateText(ctx, prompt, 0.2)
	if err != nil {
		return nil, fmt.Errorf("match generation failed: %w", err)
	}

	result, err := parseMatchResponse(response)
	if err != nil {
		return nil, fmt.Errorf("match response unparseable: %w", err)
	}

	return result, nil
}

// retrieveContext pulls descriptions of similar jobs from the vector store.
// Retrieval failure just means a leaner prompt.
func (m *geminiMatcher) retrieveContext(ctx context.Context, jobDescription string) string {
	embedding, err := m.gemini.GenerateEmbedding(ctx, jobDescription)
	if err != nil {
		m.logger.Warn("failed to embed job description", zap.Error(err))
		return ""
	}

	results, err := m.qdrant.SearchSimilar(ctx, embedding, 3)
	if err != nil {
		m.logger.Warn("failed to search similar jobs", zap.Error(err))
		return ""
	}

	var parts []string
	for _, r := range results {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, "\n---\n")
}

func buildMatchPrompt(job *models.Job, material, similar string) string {
	var sb strings.Builder

	sb.WriteString("You are a technical recruiter assistant. Score how well the candidate below fits the job.\n\n")
	sb.WriteString("JOB TITLE: " + job.Title + "\n")
	sb.WriteString("JOB DESCRIPTION:\n" + job.Description + "\n\n")
	sb.WriteString("CANDIDATE MATERIAL:\n" + material + "\n\n")

	if similar != "" {
		sb.WriteString("CONTEXT FROM SIMILAR ROLES:\n" + similar + "\n\n")
	}

	sb.WriteString("Respond with ONLY a JSON object, no markdown fences:\n")
	sb.WriteString(`{"score": <integer 0-100>, "reason": "<one or two sentences>"}`)

	return sb.String()
}

func parseMatchResponse(response string) (*MatchResult, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result MatchResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to parse match response: %w", err)
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}

	return &result, nil
}
