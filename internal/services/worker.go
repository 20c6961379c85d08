package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"talentgrid/mock-interview/internal/repositories"
)

// Worker drains resume ingestion jobs in the background. The interview
// flow itself stays synchronous; only resume processing runs here.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(candidateID uuid.UUID)
}

type worker struct {
	candidateRepo repositories.CandidateRepository
	ingestService ResumeIngestService
	jobQueue      chan uuid.UUID
	concurrency   int
	pollInterval  time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

func NewWorker(
	candidateRepo repositories.CandidateRepository,
	ingestService ResumeIngestService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	return &worker{
		candidateRepo: candidateRepo,
		ingestService: ingestService,
		jobQueue:      make(chan uuid.UUID, 100),
		concurrency:   concurrency,
		pollInterval:  pollInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingResumes(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(candidateID uuid.UUID) {
	select {
	case w.jobQueue <- candidateID:
		log.Printf("📥 Resume ingestion job %s enqueued\n", candidateID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", candidateID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("👷 Worker #%d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case candidateID := <-w.jobQueue:
			log.Printf("👷 Worker #%d ingesting resume %s\n", workerID, candidateID)
			if err := w.ingestService.IngestResume(ctx, candidateID); err != nil {
				log.Printf("❌ Worker #%d failed to ingest resume %s: %v\n", workerID, candidateID, err)
			} else {
				log.Printf("✅ Worker #%d completed resume %s\n", workerID, candidateID)
			}
		}
	}
}

func (w *worker) pollPendingResumes(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting pending resume poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending resume poller stopped")
			return
		case <-ticker.C:
			pending, err := w.candidateRepo.FindPendingResumes(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending resumes: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d pending resumes\n", len(pending))
			}

			for _, candidate := range pending {
				w.EnqueueJob(candidate.ID)
			}
		}
	}
}
