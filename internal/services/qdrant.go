package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantService stores job-description material so the matcher can pull
// similar past context into its prompt.
type QdrantService interface {
	InitCollection() error
	UpsertJobContext(ctx context.Context, jobID string, text string, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error)
}

type SearchResult struct {
	JobID string
	Score float32
	Text  string
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768,
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// UpsertJobContext implements QdrantService.
func (q *qdrantService) UpsertJobContext(ctx context.Context, jobID string, text string, embedding []float32) error {
	pointID := uuid.New()

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(pointID.ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"job_id": jobID,
			"text":   text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements QdrantService.
func (q *qdrantService) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []SearchResult
	for _, point := range searchResult {
		payload := point.Payload

		result := SearchResult{
			Score: point.Score,
		}

		if jobID, ok := payload["job_id"]; ok {
			if val, ok := jobID.GetKind().(*qdrant.Value_StringValue); ok {
				result.JobID = val.StringValue
			}
		}

		if text, ok := payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				result.Text = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}
