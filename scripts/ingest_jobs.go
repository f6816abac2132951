package main

import (
	"context"
	"log"

	"alfredoptarigan/hiring-pipeline/internal/config"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

// Seeds the qdrant collection with the descriptions of all published jobs so
// the matcher has retrieval context. Run after bulk-importing jobs.
func main() {
	log.Println("Starting job context ingestion...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("Failed to initialize collection: %v", err)
	}

	var jobs []models.Job
	if err := db.Where("status = ?", models.JobStatusPublished).Find(&jobs).Error; err != nil {
		log.Fatalf("Failed to load jobs: %v", err)
	}

	ctx := context.Background()

	successCount := 0
	failCount := 0

	for _, job := range jobs {
		if job.Description == "" {
			continue
		}

		embedding, err := geminiService.GenerateEmbedding(ctx, job.Description)
		if err != nil {
			log.Printf("Failed to embed job %s: %v", job.ID, err)
			failCount++
			continue
		}

		text := job.Title + "\n" + job.Description
		if err := qdrantService.UpsertJobContext(ctx, job.ID.String(), text, embedding); err != nil {
			log.Printf("Failed to upsert job %s: %v", job.ID, err)
			failCount++
			continue
		}

		successCount++
	}

	log.Printf("Ingestion complete: %d succeeded, %d failed", successCount, failCount)
}
