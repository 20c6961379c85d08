package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"talentgrid/mock-interview/internal/models"
	"talentgrid/mock-interview/internal/repositories"
)

// ResumeIngestService turns an uploaded resume PDF into interview
// input: extracted plain text on the profile row (the experience
// summary the interview engine uses) and embedded chunks in the vector
// store (the retrieval context question generation uses). No field
// parsing happens here; the text stays raw.
type ResumeIngestService interface {
	IngestResume(ctx context.Context, candidateID uuid.UUID) error
}

type resumeIngestService struct {
	candidateRepo repositories.CandidateRepository
	pdfParser     PDFParserService
	chunker       TextChunker
	geminiService GeminiService
	qdrantService QdrantService
}

func NewResumeIngestService(
	candidateRepo repositories.CandidateRepository,
	pdfParser PDFParserService,
	chunker TextChunker,
	geminiService GeminiService,
	qdrantService QdrantService,
) ResumeIngestService {
	return &resumeIngestService{
		candidateRepo: candidateRepo,
		pdfParser:     pdfParser,
		chunker:       chunker,
		geminiService: geminiService,
		qdrantService: qdrantService,
	}
}

func (s *resumeIngestService) IngestResume(ctx context.Context, candidateID uuid.UUID) error {
	if err := s.candidateRepo.UpdateResumeStatus(candidateID, models.ResumeProcessing); err != nil {
		return fmt.Errorf("failed to update resume status: %w", err)
	}

	log.Printf("🔄 Starting resume ingestion for candidate %s\n", candidateID)

	candidate, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		s.candidateRepo.UpdateResumeError(candidateID, err.Error())
		return fmt.Errorf("failed to get candidate: %w", err)
	}

	// Step 1: Extract text
	log.Println("📄 Parsing resume...")
	text, err := s.pdfParser.ExtractText(candidate.ResumeFilePath)
	if err != nil {
		s.candidateRepo.UpdateResumeError(candidateID, fmt.Sprintf("Failed to parse resume: %v", err))
		return fmt.Errorf("failed to parse resume: %w", err)
	}
	text = CleanText(text)

	if err := s.candidateRepo.UpdateResumeText(candidateID, text); err != nil {
		s.candidateRepo.UpdateResumeError(candidateID, err.Error())
		return fmt.Errorf("failed to save resume text: %w", err)
	}

	// Step 2: Chunk, embed and store for retrieval. Retrieval is an
	// enhancement, not a precondition, so failures here only log.
	log.Println("✂️  Chunking resume text...")
	chunks := s.chunker.ChunkText(text, 1000, 200)

	stored := 0
	for _, chunk := range chunks {
		embedding, err := s.geminiService.GenerateEmbedding(ctx, chunk)
		if err != nil {
			log.Printf("⚠️  Failed to embed resume chunk for candidate %s: %v\n", candidateID, err)
			continue
		}
		if err := s.qdrantService.UpsertChunk(ctx, candidateID.String(), "resume", chunk, embedding); err != nil {
			log.Printf("⚠️  Failed to store resume chunk for candidate %s: %v\n", candidateID, err)
			continue
		}
		stored++
	}
	log.Printf("💾 Stored %d/%d resume chunks for candidate %s\n", stored, len(chunks), candidateID)

	if err := s.candidateRepo.UpdateResumeStatus(candidateID, models.ResumeReady); err != nil {
		return fmt.Errorf("failed to mark resume ready: %w", err)
	}

	log.Printf("✅ Resume ingestion completed for candidate %s\n", candidateID)
	return nil
}
